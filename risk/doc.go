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


// Package risk assesses patient risk by fusing two concurrent signals:
// risk factors extracted from the clinical narrative, and the outcomes of
// similar historical cases retrieved by vector search.
//
// The fused score weights the current presentation at 0.7 and the
// historical component at 0.3, then maps to a discrete risk level via
// core.RiskLevelForScore. Both signals run under a single deadline; a
// failure in either cancels the other.
package risk
