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


package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	clinsight "github.com/oraclehealth/clinsight"
	"github.com/oraclehealth/clinsight/ai"
	"github.com/oraclehealth/clinsight/analytics"
	"github.com/oraclehealth/clinsight/core"
	"github.com/oraclehealth/clinsight/reembed"
	"github.com/oraclehealth/clinsight/search"
)

const dateLayout = "2006-01-02"

func main() {
	app := &cli.App{
		Name:  "clinsight",
		Usage: "Clinical analytics platform for semantic record search and risk scoring",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest clinical narratives from a file, one per line",
				Action: ingestCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a file of clinical narratives",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "record-type",
						Usage: "Record type for ingested narratives (DIAGNOSIS, LAB_RESULT, ...)",
						Value: "PROGRESS_NOTE",
					},
					&cli.StringFlag{
						Name:  "severity",
						Usage: "Severity for ingested narratives (LOW, MODERATE, HIGH, CRITICAL)",
						Value: "LOW",
					},
					&cli.StringFlag{
						Name:  "patient",
						Usage: "Patient UUID (a random one is generated if omitted)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of narratives to ingest per batch",
						Value: 5,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Find clinical records similar to a query narrative",
				ArgsUsage: "<query text>",
				Action:    searchCommand,
				Flags: append(databaseFlags(),
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum cosine similarity in [0, 1] (0 uses the default)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 5,
					},
				),
			},
			{
				Name:   "assess",
				Usage:  "Run a risk assessment for a stored clinical record",
				Action: assessCommand,
				Flags: append(databaseFlags(),
					&cli.Uint64Flag{
						Name:     "record",
						Aliases:  []string{"r"},
						Usage:    "Clinical record ID to assess",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "extractor-host",
						Usage: "Risk factor extraction service host URL",
					},
					&cli.StringFlag{
						Name:  "extractor-model",
						Usage: "Risk factor extraction model name",
					},
				),
			},
			{
				Name:   "population",
				Usage:  "Analyze a patient cohort matching a condition prefix",
				Action: populationCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:  "condition",
						Usage: "ICD code prefix selecting the cohort (empty matches all)",
					},
					&cli.StringFlag{
						Name:     "start",
						Usage:    "Analysis period start (YYYY-MM-DD)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "end",
						Usage:    "Analysis period end (YYYY-MM-DD)",
						Required: true,
					},
				),
			},
			{
				Name:      "advise",
				Usage:     "Request decision support for a clinical scenario",
				ArgsUsage: "<scenario text>",
				Action:    adviseCommand,
				Flags: append(databaseFlags(),
					&cli.IntFlag{
						Name:  "age",
						Usage: "Patient age",
					},
					&cli.Float64Flag{
						Name:  "bmi",
						Usage: "Patient body mass index",
					},
					&cli.StringSliceFlag{
						Name:  "comorbidity",
						Usage: "Patient comorbidity ICD code (repeatable)",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all clinical records with new embeddings",
				Action: reembedCommand,
				Flags:  reembedFlags("records"),
			},
			{
				Name:   "reembed-guidelines",
				Usage:  "Reembed all clinical guidelines with new embeddings",
				Action: reembedGuidelinesCommand,
				Flags:  reembedFlags("guidelines"),
			},
			{
				Name:   "health",
				Usage:  "Probe platform dependencies and print a health report",
				Action: healthCommand,
				Flags:  databaseFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// databaseFlags are shared by every command that opens the platform.
func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
	}
}

func reembedFlags(noun string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:     "embedding-model",
			Usage:    "Embedding model name",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: fmt.Sprintf("Number of %s to process in each batch", noun),
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: fmt.Sprintf("Report progress every N %s", noun),
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum retry attempts for failed operations",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
	}
}

// openPlatform builds a Platform from the command's shared flags.
func openPlatform(c *cli.Context) (*clinsight.Platform, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	configOpts := []ai.ConfigOption{}
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	if c.IsSet("extractor-host") {
		configOpts = append(configOpts, ai.WithExtractorHost(c.String("extractor-host")))
	}
	if c.IsSet("extractor-model") {
		configOpts = append(configOpts, ai.WithExtractorModel(c.String("extractor-model")))
	}

	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	platform, err := clinsight.NewPlatform(dbPath, clinsight.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open platform: %w", err)
	}
	return platform, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	recordType, err := parseRecordType(c.String("record-type"))
	if err != nil {
		return err
	}
	severity, err := parseSeverity(c.String("severity"))
	if err != nil {
		return err
	}

	patientId := uuid.New()
	if raw := c.String("patient"); raw != "" {
		patientId, err = uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid patient UUID: %w", err)
		}
	}

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	platform, err := openPlatform(c)
	if err != nil {
		return err
	}
	defer platform.Close()

	pipeline, err := platform.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open narrative file: %w", err)
	}
	defer f.Close()

	total := 0
	batch := make([]*core.ClinicalRecord, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := pipeline.Ingest(ctx, batch...); err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		narrative := strings.TrimSpace(scanner.Text())
		if narrative == "" {
			continue
		}
		batch = append(batch, &core.ClinicalRecord{
			PatientId:  patientId,
			ProviderId: uuid.New(),
			RecordType: recordType,
			Title:      firstWords(narrative, 6),
			Narrative:  narrative,
			Severity:   severity,
		})
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read narrative file: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	fmt.Printf("Ingested %d records for patient %s\n", total, patientId)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query text is required")
	}

	platform, err := openPlatform(c)
	if err != nil {
		return err
	}
	defer platform.Close()

	results, err := platform.Searcher().Search(ctx, search.Query{
		Text:      query,
		Threshold: float32(c.Float64("threshold")),
		Limit:     c.Int("limit"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d similar cases\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: '%s' (%d)[%0.3f] %s/%s\n", i, hit.Record.Title, hit.Record.Id,
			hit.Score, hit.Record.RecordType, hit.Record.Severity)
	}
	return nil
}

func assessCommand(c *cli.Context) error {
	ctx := context.Background()

	platform, err := openPlatform(c)
	if err != nil {
		return err
	}
	defer platform.Close()

	record, err := platform.RecordRepository().GetRecord(ctx, core.ID(c.Uint64("record")))
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	history, err := platform.RecordRepository().GetRecordsByPatient(ctx, record.PatientId)
	if err != nil {
		return fmt.Errorf("failed to load patient history: %w", err)
	}

	engine, err := platform.NewRiskEngine()
	if err != nil {
		return fmt.Errorf("failed to create risk engine: %w", err)
	}

	assessment, err := engine.Assess(ctx, record, history)
	if err != nil {
		return fmt.Errorf("risk assessment failed: %w", err)
	}

	fmt.Printf("Patient:       %s\n", assessment.PatientId)
	fmt.Printf("Risk score:    %0.3f\n", assessment.RiskScore)
	fmt.Printf("Risk level:    %s\n", assessment.RiskLevel)
	fmt.Printf("Similar cases: %d\n", assessment.SimilarCasesAnalyzed)
	for _, factor := range assessment.ContributingFactors {
		fmt.Printf("  factor: %s\n", factor)
	}
	for _, rec := range assessment.Recommendations {
		fmt.Printf("  recommend: %s\n", rec)
	}
	return nil
}

func populationCommand(c *cli.Context) error {
	ctx := context.Background()

	start, err := time.Parse(dateLayout, c.String("start"))
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(dateLayout, c.String("end"))
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	platform, err := openPlatform(c)
	if err != nil {
		return err
	}
	defer platform.Close()

	analyzer, err := platform.NewPopulationAnalyzer()
	if err != nil {
		return fmt.Errorf("failed to create population analyzer: %w", err)
	}
	defer analyzer.Release()

	insights, err := analyzer.Analyze(ctx, analytics.Criteria{
		ConditionPrefix: c.String("condition"),
		Start:           start,
		End:             end,
	})
	if err != nil {
		return fmt.Errorf("population analysis failed: %w", err)
	}

	return printJSON(insights)
}

func adviseCommand(c *cli.Context) error {
	ctx := context.Background()

	scenario := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if scenario == "" {
		return fmt.Errorf("scenario text is required")
	}

	platform, err := openPlatform(c)
	if err != nil {
		return err
	}
	defer platform.Close()

	support, err := platform.NewDecisionSupport()
	if err != nil {
		return fmt.Errorf("failed to create decision support: %w", err)
	}

	clinicalContext := core.ClinicalContext{
		PatientId:  uuid.New(),
		ProviderId: uuid.New(),
		Scenario:   scenario,
	}
	if c.IsSet("age") || c.IsSet("bmi") || c.IsSet("comorbidity") {
		clinicalContext.Demographics = &core.Demographics{
			Age:           c.Int("age"),
			BMI:           c.Float64("bmi"),
			Comorbidities: c.StringSlice("comorbidity"),
		}
	}

	result, err := support.Advise(ctx, clinicalContext)
	if err != nil {
		return fmt.Errorf("decision support failed: %w", err)
	}

	fmt.Printf("Confidence: %0.2f\n", result.Confidence)
	for _, rec := range result.Recommendations {
		fmt.Printf("  recommend: %s\n", rec)
	}
	for _, factor := range result.RiskFactors {
		fmt.Printf("  risk factor: %s\n", factor)
	}
	for _, contra := range result.Contraindications {
		fmt.Printf("  contraindication: %s\n", contra)
	}
	fmt.Printf("Similar cases: %d\n", len(result.SimilarCases))
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	platform, config, err := openForReembed(c)
	if err != nil {
		return err
	}
	defer platform.Close()

	reembedder := platform.NewReembedder(config, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func reembedGuidelinesCommand(c *cli.Context) error {
	ctx := context.Background()

	platform, config, err := openForReembed(c)
	if err != nil {
		return err
	}
	defer platform.Close()

	reembedder := platform.NewGuidelineReembedder(config, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("guideline reembedding failed: %w", err)
	}
	return nil
}

func openForReembed(c *cli.Context) (*clinsight.Platform, *reembed.Config, error) {
	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return nil, nil, fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return nil, nil, fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return nil, nil, fmt.Errorf("max-retries must be greater than 0")
	}

	platform, err := openPlatform(c)
	if err != nil {
		return nil, nil, err
	}
	return platform, config, nil
}

func healthCommand(c *cli.Context) error {
	ctx := context.Background()

	platform, err := openPlatform(c)
	if err != nil {
		return err
	}
	defer platform.Close()

	return printJSON(platform.Health(ctx))
}

// parseRecordType maps a record type name to its enum value.
func parseRecordType(name string) (core.RecordType, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for t := core.RecordTypeDiagnosis; t <= core.RecordTypeConsultation; t++ {
		if t.String() == normalized {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown record type %q", name)
}

// parseSeverity maps a severity name to its enum value.
func parseSeverity(name string) (core.SeverityLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "LOW":
		return core.SeverityLow, nil
	case "MODERATE":
		return core.SeverityModerate, nil
	case "HIGH":
		return core.SeverityHigh, nil
	case "CRITICAL":
		return core.SeverityCritical, nil
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

// firstWords truncates text to at most n words for use as a record title.
func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ")
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
