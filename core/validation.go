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

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ValidateClinicalRecord validates a ClinicalRecord according to domain rules.
//
// Validation rules:
//   - Title and Narrative must not be empty
//   - PatientId and ProviderId must be set
//   - RecordType, SeverityLevel, and ConfidentialityLevel must be valid
//   - EncounterDate must not be in the future
//   - Embedding must be empty or exactly EmbeddingDim long
//
// NOT validated (populated by processors and storage):
//   - ID (0 is valid from database sequences)
//   - Audit timestamps and Version
func ValidateClinicalRecord(record *ClinicalRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyTitle)
	}

	if record.Narrative == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyNarrative)
	}

	if record.PatientId == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrMissingPatient)
	}

	if record.ProviderId == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrMissingProvider)
	}

	if err := ValidateRecordType(record.RecordType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if err := ValidateSeverityLevel(record.Severity); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if err := ValidateConfidentialityLevel(record.Confidentiality); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if !IsValidEncounterDate(record.EncounterDate) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrInvalidEncounterDate)
	}

	if err := ValidateEmbedding(record.Embedding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	return nil
}

// ValidateGuideline validates a Guideline according to domain rules.
//
// Validation rules:
//   - Title, Body, and Source must not be empty
//   - Embedding must be empty or exactly EmbeddingDim long
func ValidateGuideline(guideline *Guideline) error {
	if guideline == nil {
		return fmt.Errorf("%w: guideline is nil", ErrInvalidGuideline)
	}

	if guideline.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidGuideline, ErrEmptyTitle)
	}

	if guideline.Body == "" {
		return fmt.Errorf("%w: %w", ErrInvalidGuideline, ErrEmptyGuidelineBody)
	}

	if guideline.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidGuideline, ErrEmptyGuidelineSource)
	}

	if err := ValidateEmbedding(guideline.Embedding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGuideline, err)
	}

	return nil
}

// ValidateRecordType validates that a RecordType has a valid value.
func ValidateRecordType(t RecordType) error {
	if t < RecordTypeDiagnosis || t > RecordTypeConsultation {
		return fmt.Errorf("%w: value %d", ErrInvalidRecordType, t)
	}
	return nil
}

// ValidateSeverityLevel validates that a SeverityLevel has a valid value.
func ValidateSeverityLevel(s SeverityLevel) error {
	if s < SeverityLow || s > SeverityCritical {
		return fmt.Errorf("%w: value %d", ErrInvalidSeverity, s)
	}
	return nil
}

// ValidateConfidentialityLevel validates that a ConfidentialityLevel has a valid value.
func ValidateConfidentialityLevel(c ConfidentialityLevel) error {
	if c < ConfidentialityNormal || c > ConfidentialityTopSecret {
		return fmt.Errorf("%w: value %d", ErrInvalidConfidentiality, c)
	}
	return nil
}

// IsValidEncounterDate checks if an encounter date is valid (not in the future).
func IsValidEncounterDate(ts time.Time) bool {
	return !ts.After(time.Now())
}

// ValidateEmbedding checks that a vector is either empty or exactly EmbeddingDim long.
func ValidateEmbedding(vec []float32) error {
	if len(vec) != 0 && len(vec) != EmbeddingDim {
		return fmt.Errorf("%w: got %d dimensions", ErrBadEmbeddingDim, len(vec))
	}
	return nil
}
