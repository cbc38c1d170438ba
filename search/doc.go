// Copyright 2025 Oracle Health Analytics
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package search provides cache-backed similar-case search over clinical records.
//
// The CaseSearcher type implements a multi-stage search:
//   - Query enhancement with patient demographics
//   - TTL result cache keyed by the full query shape
//   - Semantic search using vector embeddings with metadata filter push-down
//   - Verbatim keyword boost with stop-word filtering
//
// Results are scored and ranked so repeated clinical presentations surface
// the most relevant precedent cases. Latency aggregates feed the platform's
// performance metrics.
package search
