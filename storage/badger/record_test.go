package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/storage"
)

func TestClinicalRecordBasics(t *testing.T) {
	// Create in-memory repositories
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		guidelineRepo.Close()
		recordRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	// Test adding a clinical record
	record := &core.ClinicalRecord{
		PatientId:     uuid.New(),
		ProviderId:    uuid.New(),
		RecordType:    core.RecordTypeDiagnosis,
		Title:         "Type 2 diabetes mellitus",
		Narrative:     "Patient presents with elevated HbA1c of 8.2%.",
		EncounterDate: time.Now().UTC().Add(-time.Hour),
		Severity:      core.SeverityModerate,
		IcdCodes:      []string{"E11.9", "E11.9", "I10"},
	}

	added, err := recordRepo.AddRecords(ctx, record)
	if err != nil {
		t.Fatalf("Failed to add clinical record: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(added))
	}

	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if added[0].Version != 1 {
		t.Fatalf("Expected version 1, got %d", added[0].Version)
	}
	if len(added[0].IcdCodes) != 2 {
		t.Fatalf("Expected deduplicated ICD codes, got %v", added[0].IcdCodes)
	}

	// Test retrieving the record
	retrieved, err := recordRepo.GetRecord(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get clinical record: %v", err)
	}

	if retrieved.Title != "Type 2 diabetes mellitus" {
		t.Fatalf("Expected diabetes title, got '%s'", retrieved.Title)
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { guidelineRepo.Close(); recordRepo.Close(); backend.Close() }()

	_, err = recordRepo.GetRecord(context.Background(), core.ID(9999))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestClinicalRecordDateRange(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { guidelineRepo.Close(); recordRepo.Close(); backend.Close() }()

	ctx := context.Background()
	patientId := uuid.New()

	// Add records with different encounter dates
	now := time.Now().UTC()
	records := []*core.ClinicalRecord{
		{PatientId: patientId, ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "Encounter 1", Narrative: "n", EncounterDate: now.Add(-2 * time.Hour)},
		{PatientId: patientId, ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "Encounter 2", Narrative: "n", EncounterDate: now.Add(-1 * time.Hour)},
		{PatientId: patientId, ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "Encounter 3", Narrative: "n", EncounterDate: now},
	}

	_, err = recordRepo.AddRecords(ctx, records...)
	if err != nil {
		t.Fatalf("Failed to add clinical records: %v", err)
	}

	// Query for encounters in the last 90 minutes
	start := now.Add(-90 * time.Minute)
	end := now.Add(1 * time.Minute)

	results, err := recordRepo.GetRecordsByDateRange(ctx, start, end)
	if err != nil {
		t.Fatalf("Failed to get records by date range: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(results))
	}
}

func TestGetRecentRecords(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { guidelineRepo.Close(); recordRepo.Close(); backend.Close() }()

	ctx := context.Background()
	patientId := uuid.New()

	now := time.Now().UTC().Truncate(time.Microsecond)
	records := []*core.ClinicalRecord{
		{PatientId: patientId, ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "Encounter 1", Narrative: "n", EncounterDate: now.Add(-4 * time.Hour)},
		{PatientId: patientId, ProviderId: uuid.New(), RecordType: core.RecordTypeLabResult, Title: "Encounter 2", Narrative: "n", EncounterDate: now.Add(-3 * time.Hour)},
		{PatientId: patientId, ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "Encounter 3", Narrative: "n", EncounterDate: now.Add(-2 * time.Hour)},
		{PatientId: patientId, ProviderId: uuid.New(), RecordType: core.RecordTypeLabResult, Title: "Encounter 4", Narrative: "n", EncounterDate: now.Add(-1 * time.Hour)},
		{PatientId: patientId, ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "Encounter 5", Narrative: "n", EncounterDate: now},
	}

	_, err = recordRepo.AddRecords(ctx, records...)
	if err != nil {
		t.Fatalf("Failed to add clinical records: %v", err)
	}

	// Test: Get last 3 records
	results, err := recordRepo.GetRecentRecords(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to get recent records: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(results))
	}

	// Verify order: most recent first
	if results[0].Title != "Encounter 5" {
		t.Errorf("Expected 'Encounter 5' first, got '%s'", results[0].Title)
	}
	if results[1].Title != "Encounter 4" {
		t.Errorf("Expected 'Encounter 4' second, got '%s'", results[1].Title)
	}
	if results[2].Title != "Encounter 3" {
		t.Errorf("Expected 'Encounter 3' third, got '%s'", results[2].Title)
	}

	// Test: Get all records
	allResults, err := recordRepo.GetRecentRecords(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to get all records: %v", err)
	}

	if len(allResults) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(allResults))
	}

	// Test: Get zero records
	zeroResults, err := recordRepo.GetRecentRecords(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to get zero records: %v", err)
	}

	if len(zeroResults) != 0 {
		t.Fatalf("Expected 0 records, got %d", len(zeroResults))
	}
}

func TestGetRecordsByPatient(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { guidelineRepo.Close(); recordRepo.Close(); backend.Close() }()

	ctx := context.Background()
	patientA := uuid.New()
	patientB := uuid.New()
	now := time.Now().UTC()

	records := []*core.ClinicalRecord{
		{PatientId: patientA, ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "A later", Narrative: "n", EncounterDate: now},
		{PatientId: patientA, ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "A earlier", Narrative: "n", EncounterDate: now.Add(-time.Hour)},
		{PatientId: patientB, ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "B", Narrative: "n", EncounterDate: now},
	}
	_, err = recordRepo.AddRecords(ctx, records...)
	if err != nil {
		t.Fatalf("Failed to add records: %v", err)
	}

	results, err := recordRepo.GetRecordsByPatient(ctx, patientA)
	if err != nil {
		t.Fatalf("Failed to get records by patient: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(results))
	}
	// Ordered by encounter date ascending
	if results[0].Title != "A earlier" || results[1].Title != "A later" {
		t.Fatalf("Expected encounter order, got %s then %s", results[0].Title, results[1].Title)
	}
}

func TestGetRecordsByType(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { guidelineRepo.Close(); recordRepo.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC()

	records := []*core.ClinicalRecord{
		{PatientId: uuid.New(), ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "Dx", Narrative: "n", EncounterDate: now},
		{PatientId: uuid.New(), ProviderId: uuid.New(), RecordType: core.RecordTypeLabResult, Title: "Lab", Narrative: "n", EncounterDate: now},
		{PatientId: uuid.New(), ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "Dx 2", Narrative: "n", EncounterDate: now},
	}
	_, err = recordRepo.AddRecords(ctx, records...)
	if err != nil {
		t.Fatalf("Failed to add records: %v", err)
	}

	results, err := recordRepo.GetRecordsByType(ctx, core.RecordTypeDiagnosis)
	if err != nil {
		t.Fatalf("Failed to get records by type: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 diagnosis records, got %d", len(results))
	}
}

func TestUpdateRecords(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { guidelineRepo.Close(); recordRepo.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC()

	record := &core.ClinicalRecord{
		PatientId:     uuid.New(),
		ProviderId:    uuid.New(),
		RecordType:    core.RecordTypeDiagnosis,
		Title:         "Original title",
		Narrative:     "Original narrative",
		EncounterDate: now,
	}
	added, err := recordRepo.AddRecords(ctx, record)
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	// Update the record
	added[0].Narrative = "Updated narrative"
	updated, err := recordRepo.UpdateRecords(ctx, added[0])
	if err != nil {
		t.Fatalf("Failed to update record: %v", err)
	}

	if updated[0].Version != 2 {
		t.Fatalf("Expected version 2 after update, got %d", updated[0].Version)
	}

	// Verify the update persisted
	retrieved, err := recordRepo.GetRecord(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}

	if retrieved.Narrative != "Updated narrative" {
		t.Fatalf("Expected updated narrative to persist, got %s", retrieved.Narrative)
	}
}

func TestUpdateRecords_VersionConflict(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { guidelineRepo.Close(); recordRepo.Close(); backend.Close() }()

	ctx := context.Background()

	record := &core.ClinicalRecord{
		PatientId:     uuid.New(),
		ProviderId:    uuid.New(),
		RecordType:    core.RecordTypeDiagnosis,
		Title:         "Title",
		Narrative:     "Narrative",
		EncounterDate: time.Now().UTC(),
	}
	added, err := recordRepo.AddRecords(ctx, record)
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	// Simulate a concurrent writer by updating with a stale version
	stale := *added[0]
	added[0].Narrative = "First update"
	if _, err := recordRepo.UpdateRecords(ctx, added[0]); err != nil {
		t.Fatalf("Failed first update: %v", err)
	}

	stale.Narrative = "Second update from stale copy"
	_, err = recordRepo.UpdateRecords(ctx, &stale)
	if !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("Expected ErrVersionConflict, got %v", err)
	}
}

func TestUpdateRecords_IndexMaintenance(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { guidelineRepo.Close(); recordRepo.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC()

	record := &core.ClinicalRecord{
		PatientId:     uuid.New(),
		ProviderId:    uuid.New(),
		RecordType:    core.RecordTypeDiagnosis,
		Title:         "Reclassified",
		Narrative:     "n",
		EncounterDate: now,
	}
	added, err := recordRepo.AddRecords(ctx, record)
	if err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	// Change the record type and verify the type index follows
	added[0].RecordType = core.RecordTypeTreatmentPlan
	if _, err := recordRepo.UpdateRecords(ctx, added[0]); err != nil {
		t.Fatalf("Failed to update record: %v", err)
	}

	dxRecords, err := recordRepo.GetRecordsByType(ctx, core.RecordTypeDiagnosis)
	if err != nil {
		t.Fatalf("Failed to get diagnosis records: %v", err)
	}
	if len(dxRecords) != 0 {
		t.Fatalf("Expected 0 diagnosis records after reclassification, got %d", len(dxRecords))
	}

	planRecords, err := recordRepo.GetRecordsByType(ctx, core.RecordTypeTreatmentPlan)
	if err != nil {
		t.Fatalf("Failed to get treatment plan records: %v", err)
	}
	if len(planRecords) != 1 {
		t.Fatalf("Expected 1 treatment plan record, got %d", len(planRecords))
	}
}

func TestGetRecords_Multiple(t *testing.T) {
	recordRepo, guidelineRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { guidelineRepo.Close(); recordRepo.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC()

	records := []*core.ClinicalRecord{
		{PatientId: uuid.New(), ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "R1", Narrative: "n", EncounterDate: now},
		{PatientId: uuid.New(), ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "R2", Narrative: "n", EncounterDate: now},
		{PatientId: uuid.New(), ProviderId: uuid.New(), RecordType: core.RecordTypeDiagnosis, Title: "R3", Narrative: "n", EncounterDate: now},
	}
	added, err := recordRepo.AddRecords(ctx, records...)
	if err != nil {
		t.Fatalf("Failed to add records: %v", err)
	}

	retrieved, err := recordRepo.GetRecords(ctx, added[0].Id, added[2].Id)
	if err != nil {
		t.Fatalf("Failed to get records: %v", err)
	}

	if len(retrieved) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(retrieved))
	}
}
