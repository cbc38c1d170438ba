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


// Package decision provides evidence-based clinical decision support.
//
// For a clinical scenario, Support retrieves matching guidelines and
// similar historical cases concurrently, turns guideline hits into
// recommendations, flags contraindications where high-severity similar
// cases share a diagnosis category with the patient's stated
// comorbidities, and reports a confidence score fused from both
// evidence sets.
package decision
