package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// EmbeddingDim is the fixed length of embedding vectors.
// Records and guidelines either carry no embedding or exactly this many dimensions.
const EmbeddingDim = 1536

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RecordType classifies a clinical record.
type RecordType int

const (
	RecordTypeDiagnosis RecordType = iota + 1
	RecordTypeTreatmentPlan
	RecordTypeLabResult
	RecordTypeImagingReport
	RecordTypeProgressNote
	RecordTypeDischargeSummary
	RecordTypeMedicationOrder
	RecordTypeVitalSigns
	RecordTypeProcedureNote
	RecordTypeConsultation
)

var recordTypeNames = map[RecordType]string{
	RecordTypeDiagnosis:        "DIAGNOSIS",
	RecordTypeTreatmentPlan:    "TREATMENT_PLAN",
	RecordTypeLabResult:        "LAB_RESULT",
	RecordTypeImagingReport:    "IMAGING_REPORT",
	RecordTypeProgressNote:     "PROGRESS_NOTE",
	RecordTypeDischargeSummary: "DISCHARGE_SUMMARY",
	RecordTypeMedicationOrder:  "MEDICATION_ORDER",
	RecordTypeVitalSigns:       "VITAL_SIGNS",
	RecordTypeProcedureNote:    "PROCEDURE_NOTE",
	RecordTypeConsultation:     "CONSULTATION",
}

func (t RecordType) String() string {
	if name, ok := recordTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// SeverityLevel grades the clinical severity of a record.
type SeverityLevel int

const (
	SeverityLow SeverityLevel = iota + 1
	SeverityModerate
	SeverityHigh
	SeverityCritical
)

func (s SeverityLevel) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityModerate:
		return "MODERATE"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// ConfidentialityLevel controls disclosure handling for a record.
type ConfidentialityLevel int

const (
	ConfidentialityNormal ConfidentialityLevel = iota + 1
	ConfidentialityRestricted
	ConfidentialityConfidential
	ConfidentialityTopSecret
)

func (c ConfidentialityLevel) String() string {
	switch c {
	case ConfidentialityNormal:
		return "NORMAL"
	case ConfidentialityRestricted:
		return "RESTRICTED"
	case ConfidentialityConfidential:
		return "CONFIDENTIAL"
	case ConfidentialityTopSecret:
		return "TOP_SECRET"
	}
	return "UNKNOWN"
}

// ClinicalRecord is the central domain entity: a single clinical document
// enriched with an embedding vector for semantic search.
// Records are created on ingestion, mutated via narrative and code-append
// operations, and never hard-deleted (audit retention).
type ClinicalRecord struct {
	Id              ID
	PatientId       uuid.UUID
	ProviderId      uuid.UUID
	FacilityId      uuid.UUID
	RecordType      RecordType
	Title           string
	Narrative       string            // Free-text clinical narrative
	StructuredData  map[string]string // Flexible structured clinical data
	Embedding       []float32         // Embedding vector for semantic search (populated by processors)
	IcdCodes        []string          // Diagnosis codes, deduplicated
	CptCodes        []string          // Billing codes, deduplicated
	EncounterDate   time.Time
	Severity        SeverityLevel
	Confidentiality ConfidentialityLevel
	Department      string
	CreatedAt       time.Time // When the record was inserted into the database
	UpdatedAt       time.Time // When the record was last updated
	CreatedBy       string
	UpdatedBy       string
	Version         uint64 // Optimistic concurrency counter, managed by storage
}

// UpdateNarrative replaces the clinical narrative and records the author.
// The embedding is cleared because it no longer matches the narrative.
func (r *ClinicalRecord) UpdateNarrative(narrative, updatedBy string) {
	r.Narrative = narrative
	r.UpdatedBy = updatedBy
	r.Embedding = nil
}

// AddIcdCode appends a diagnosis code if not already present.
// Idempotent under duplicate insertion.
func (r *ClinicalRecord) AddIcdCode(code string) {
	if code == "" {
		return
	}
	for _, existing := range r.IcdCodes {
		if existing == code {
			return
		}
	}
	r.IcdCodes = append(r.IcdCodes, code)
}

// AddCptCode appends a billing code if not already present.
// Idempotent under duplicate insertion.
func (r *ClinicalRecord) AddCptCode(code string) {
	if code == "" {
		return
	}
	for _, existing := range r.CptCodes {
		if existing == code {
			return
		}
	}
	r.CptCodes = append(r.CptCodes, code)
}

// IsHighRisk reports whether the record's severity warrants escalation.
func (r *ClinicalRecord) IsHighRisk() bool {
	return r.Severity == SeverityCritical || r.Severity == SeverityHigh
}

// RequiresSpecialHandling reports whether disclosure rules restrict this record.
func (r *ClinicalRecord) RequiresSpecialHandling() bool {
	return r.Confidentiality == ConfidentialityRestricted ||
		r.Confidentiality == ConfidentialityConfidential ||
		r.Confidentiality == ConfidentialityTopSecret
}

// SearchText returns the text used for embedding generation and verbatim matching.
func (r *ClinicalRecord) SearchText() string {
	if r.Title == "" {
		return r.Narrative
	}
	return r.Title + "\n" + r.Narrative
}

// DedupCodes removes duplicate codes while preserving first-seen order.
// Empty strings are dropped.
func DedupCodes(codes []string) []string {
	if len(codes) == 0 {
		return codes
	}
	seen := make(map[string]bool, len(codes))
	out := codes[:0]
	for _, code := range codes {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

// Guideline is an evidence document used by clinical decision support.
// Guidelines are content-addressed: the ID is derived from source and title.
type Guideline struct {
	Id         ID
	Title      string
	Body       string
	Source     string
	Embedding  []float32
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// ContentKey returns the string used for generating deterministic guideline IDs.
func (g *Guideline) ContentKey() string {
	return "(" + g.Source + "," + g.Title + ")"
}

// SimilarCase is a clinical record matched by vector similarity search.
type SimilarCase struct {
	Record *ClinicalRecord
	Score  float32
}

// RiskIndicator maps the similarity score into a historical risk proxy.
// Cases without a usable score contribute a neutral 0.5.
func (s *SimilarCase) RiskIndicator() float64 {
	if s.Score <= 0 {
		return 0.5
	}
	return float64(s.Score)
}

// GuidelineMatch is a guideline matched by vector similarity search.
type GuidelineMatch struct {
	Guideline *Guideline
	Score     float32
}

// Demographics carries patient context used to enhance search queries.
type Demographics struct {
	Age           int
	Gender        string
	BMI           float64
	Comorbidities []string
}

// ClinicalContext describes the scenario submitted for decision support.
type ClinicalContext struct {
	PatientId    uuid.UUID
	ProviderId   uuid.UUID
	Scenario     string
	Demographics *Demographics
}

// RiskAssessment is the output of the risk aggregation engine.
// Materialized per request, no independent lifecycle.
type RiskAssessment struct {
	PatientId            uuid.UUID
	RiskScore            float64
	RiskLevel            RiskLevel
	ContributingFactors  []string
	Recommendations      []string
	SimilarCasesAnalyzed int
}

// DecisionSupport is the output of the decision support service.
type DecisionSupport struct {
	Recommendations   []string
	SimilarCases      []*SimilarCase
	RiskFactors       []string
	Contraindications []string
	Confidence        float64
}
