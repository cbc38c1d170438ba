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


// Package badger implements the storage repositories on BadgerDB.
//
// Clinical records use sequence-generated IDs and carry three secondary
// indexes (encounter date, patient, record type) built from composite keys
// with BigEndian-encoded components so lexicographic key order matches
// logical order. Guidelines use content-derived IDs so re-ingesting the
// same guideline is idempotent.
//
// Similarity search is a brute-force scan over stored embeddings using
// dot-product scoring (embeddings are normalized at write time), with
// metadata filters applied before scoring.
package badger
