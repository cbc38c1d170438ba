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


// Package storage provides the storage abstraction layer for clinsight.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, allowing different backends (BadgerDB,
// in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction and enable
// multiple backend implementations:
//
//	repo, err := badger.NewRecordRepository(backend)  // returns storage.RecordRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - RecordRepository: clinical records plus vector similarity search
//   - GuidelineRepository: clinical guidelines plus vector similarity search
//   - SearchFilter: typed predicate pushed down into similarity scans
//
// # Retention
//
// Clinical records are never hard-deleted. RecordRepository exposes no delete
// operation; corrections happen through versioned updates.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
package storage
