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


package risk

import "errors"

var (
	// ErrSearcherRequired is returned when a case searcher is not provided.
	ErrSearcherRequired = errors.New("case searcher required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrRecordRequired is returned when Assess is called without a record.
	ErrRecordRequired = errors.New("clinical record required")

	// ErrInvalidTimeout is returned for non-positive assessment timeouts.
	ErrInvalidTimeout = errors.New("timeout must be positive")
)
