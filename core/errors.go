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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a ClinicalRecord failed validation.
	ErrInvalidRecord = errors.New("invalid clinical record")

	// ErrInvalidGuideline indicates a Guideline failed validation.
	ErrInvalidGuideline = errors.New("invalid guideline")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyNarrative indicates the Narrative field is empty.
	ErrEmptyNarrative = errors.New("narrative cannot be empty")

	// ErrMissingPatient indicates the PatientId field is unset.
	ErrMissingPatient = errors.New("patient id is required")

	// ErrMissingProvider indicates the ProviderId field is unset.
	ErrMissingProvider = errors.New("provider id is required")

	// ErrInvalidRecordType indicates an invalid RecordType value.
	ErrInvalidRecordType = errors.New("invalid record type")

	// ErrInvalidSeverity indicates an invalid SeverityLevel value.
	ErrInvalidSeverity = errors.New("invalid severity level")

	// ErrInvalidConfidentiality indicates an invalid ConfidentialityLevel value.
	ErrInvalidConfidentiality = errors.New("invalid confidentiality level")

	// ErrInvalidEncounterDate indicates an encounter date in the future.
	ErrInvalidEncounterDate = errors.New("encounter date cannot be in the future")

	// ErrBadEmbeddingDim indicates an embedding with the wrong number of dimensions.
	ErrBadEmbeddingDim = errors.New("embedding must be empty or exactly EmbeddingDim long")

	// ErrEmptyGuidelineBody indicates the guideline Body field is empty.
	ErrEmptyGuidelineBody = errors.New("guideline body cannot be empty")

	// ErrEmptyGuidelineSource indicates the guideline Source field is empty.
	ErrEmptyGuidelineSource = errors.New("guideline source cannot be empty")
)
