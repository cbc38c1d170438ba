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


// Seeder populates a database with synthetic clinical narratives for
// development and demo purposes. Not for use with real patient data.
package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	clinsight "github.com/oraclehealth/clinsight"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/ingestion"
)

var narratives = []string{
	"Patient presents with substernal chest pain radiating to the left arm, onset two hours ago.",
	"Type 2 diabetes mellitus with suboptimal glycemic control, HbA1c 9.2 percent.",
	"Acute exacerbation of chronic obstructive pulmonary disease with increased sputum production.",
	"Community acquired pneumonia, right lower lobe infiltrate on chest radiograph.",
	"Hypertensive urgency with blood pressure 198 over 110, asymptomatic.",
	"New onset atrial fibrillation with rapid ventricular response, rate 142.",
	"Stage 3 chronic kidney disease, estimated GFR 38, stable from prior.",
	"Cellulitis of the left lower extremity with erythema and warmth, no crepitus.",
	"Acute appendicitis confirmed on computed tomography, surgical consult placed.",
	"Migraine without aura, responsive to triptan therapy in the emergency department.",
	"Deep vein thrombosis of the right popliteal vein, started on anticoagulation.",
	"Urinary tract infection with dysuria and frequency, culture pending.",
	"Congestive heart failure exacerbation with bilateral pitting edema and orthopnea.",
	"Gastroesophageal reflux disease, symptoms improved with proton pump inhibitor.",
	"Acute ischemic stroke, left middle cerebral artery territory, within thrombolysis window.",
	"Sepsis secondary to urinary source, lactate 3.4, fluids and antibiotics initiated.",
	"Fracture of the distal radius after fall on outstretched hand, closed reduction performed.",
	"Asthma exacerbation triggered by upper respiratory infection, peak flow 55 percent.",
	"Diabetic ketoacidosis with glucose 480 and anion gap 22, insulin drip started.",
	"Iron deficiency anemia, hemoglobin 8.1, guaiac positive stool.",
	"Acute pancreatitis with lipase elevated tenfold, likely biliary etiology.",
	"Hypothyroidism, TSH 12.4, levothyroxine dose adjusted.",
	"Pulmonary embolism, segmental, hemodynamically stable, CT angiogram diagnostic.",
	"Major depressive disorder, moderate, PHQ-9 score 16, psychiatry referral placed.",
	"Osteoarthritis of the bilateral knees, conservative management discussed.",
	"Acute cholecystitis with positive Murphy sign, ultrasound shows wall thickening.",
	"Hyperkalemia at 6.3 with peaked T waves, calcium gluconate administered.",
	"Syncope with prodrome, orthostatic vital signs positive, volume depletion suspected.",
	"Bacterial meningitis suspected, lumbar puncture performed, empiric coverage started.",
	"Chronic hepatitis C, genotype 1a, referred for direct acting antiviral therapy.",
	"Gout flare of the first metatarsophalangeal joint, colchicine prescribed.",
	"Transient ischemic attack with resolved dysarthria, carotid imaging ordered.",
	"Lower gastrointestinal bleed, hemodynamically stable, colonoscopy scheduled.",
	"Anaphylaxis to shellfish, epinephrine given, observed four hours.",
	"Alcohol withdrawal, CIWA score 14, symptom triggered benzodiazepine protocol.",
	"Nephrolithiasis, 4 millimeter distal ureteral stone, expectant management.",
	"Psoriasis vulgaris with plaque involvement of extensor surfaces.",
	"Bell palsy, left sided, started on corticosteroids within 72 hours of onset.",
	"Preeclampsia with severe features at 34 weeks gestation, magnesium initiated.",
	"Acute otitis media, right ear, bulging tympanic membrane, amoxicillin started.",
	"Rhabdomyolysis after prolonged immobilization, creatine kinase 22000.",
	"Peptic ulcer disease confirmed on endoscopy, Helicobacter pylori positive.",
	"Seizure, first unprovoked, neurology consulted, electroencephalogram ordered.",
	"Diverticulitis, uncomplicated, managed with oral antibiotics and bowel rest.",
	"Hyponatremia at 122, euvolemic, syndrome of inappropriate antidiuresis suspected.",
	"Acute angle closure glaucoma, right eye, intraocular pressure 52.",
	"Thyroid nodule, 1.8 centimeters, fine needle aspiration recommended.",
	"Carpal tunnel syndrome, bilateral, night splints prescribed.",
	"Herpes zoster in thoracic dermatome, antiviral started, pain controlled.",
	"Obstructive sleep apnea, apnea hypopnea index 32, CPAP titration ordered.",
}

var (
	seedFileName = flag.String("src", "", "file of seed narratives")
	dbPath       = flag.String("db", "./clinsight_db", "path to database directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// recordTypes and severities are cycled so the seed data exercises
// filtering and risk paths.
var seedRecordTypes = []core.RecordType{
	core.RecordTypeDiagnosis,
	core.RecordTypeProgressNote,
	core.RecordTypeDiagnosis,
	core.RecordTypeTreatmentPlan,
}

var seedSeverities = []core.SeverityLevel{
	core.SeverityLow,
	core.SeverityModerate,
	core.SeverityLow,
	core.SeverityHigh,
	core.SeverityModerate,
}

// recordFromNarrative builds a synthetic record around a narrative line.
// Patients repeat every eight records so per-patient history exists.
func recordFromNarrative(i int, narrative string, patients []uuid.UUID) *core.ClinicalRecord {
	words := strings.Fields(narrative)
	title := narrative
	if len(words) > 5 {
		title = strings.Join(words[:5], " ")
	}

	return &core.ClinicalRecord{
		PatientId:     patients[i%len(patients)],
		ProviderId:    patients[(i+3)%len(patients)],
		RecordType:    seedRecordTypes[i%len(seedRecordTypes)],
		Title:         title,
		Narrative:     narrative,
		Severity:      seedSeverities[i%len(seedSeverities)],
		EncounterDate: time.Now().UTC().AddDate(0, 0, -i),
		CreatedBy:     "seeder",
	}
}

// ingestBatched reads from a source iterator and ingests records in batches.
func ingestBatched(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq[string], batchSize int) error {
	patients := make([]uuid.UUID, 8)
	for i := range patients {
		patients[i] = uuid.New()
	}

	i := 0
	batch := make([]*core.ClinicalRecord, 0, batchSize)

	for line := range source {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		batch = append(batch, recordFromNarrative(i, line, patients))
		i++
		if len(batch) == batchSize {
			if _, err := pipeline.Ingest(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	// Process any remaining lines
	if len(batch) > 0 {
		if _, err := pipeline.Ingest(ctx, batch...); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	platform, err := clinsight.NewPlatform(*dbPath)
	if err != nil {
		panic(err)
	}
	defer platform.Close()

	ingester, err := platform.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer ingester.Release()

	ctx := context.Background()

	// Determine source of seed data
	var source iter.Seq[string]
	if seedFileName != nil && *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(narratives)
	}

	// Ingest in batches of 5
	if err := ingestBatched(ctx, ingester, source, 5); err != nil {
		panic(err)
	}
}
