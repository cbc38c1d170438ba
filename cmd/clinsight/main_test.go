package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/oraclehealth/clinsight/core"
)

func TestReembedCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "clinsight",
		Commands: []*cli.Command{
			{
				Name:   "reembed",
				Usage:  "Reembed all clinical records with new embeddings",
				Action: reembedCommand,
				Flags:  reembedFlags("records"),
			},
		},
	}

	t.Run("embedding-model is required", func(t *testing.T) {
		args := []string{"clinsight", "reembed", "--db", "/tmp/test"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding-model")
	})

	t.Run("embedding-host has default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var hostFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "embedding-host" {
				hostFlag = f
				break
			}
		}
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("batch-size defaults to 100", func(t *testing.T) {
		cmd := app.Commands[0]
		var batchFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "batch-size" {
				batchFlag = f
				break
			}
		}
		require.NotNil(t, batchFlag)
		assert.Equal(t, 100, batchFlag.Value)
	})
}

func TestParseRecordType(t *testing.T) {
	tests := []struct {
		input   string
		want    core.RecordType
		wantErr bool
	}{
		{"DIAGNOSIS", core.RecordTypeDiagnosis, false},
		{"diagnosis", core.RecordTypeDiagnosis, false},
		{"progress-note", core.RecordTypeProgressNote, false},
		{"LAB_RESULT", core.RecordTypeLabResult, false},
		{" consultation ", core.RecordTypeConsultation, false},
		{"BIOPSY", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseRecordType(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseSeverity(t *testing.T) {
	got, err := parseSeverity("critical")
	require.NoError(t, err)
	assert.Equal(t, core.SeverityCritical, got)

	_, err = parseSeverity("EXTREME")
	assert.Error(t, err)
}

func TestFirstWords(t *testing.T) {
	assert.Equal(t, "short title", firstWords("short title", 6))
	assert.Equal(t, "patient presents with acute chest pain",
		firstWords("patient presents with acute chest pain radiating to left arm", 6))
}

func TestSetupLoggerInvalidLevel(t *testing.T) {
	app := &cli.App{
		Name: "clinsight",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error { return nil },
	}

	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	require.NoError(t, app.Run([]string{"clinsight", "--log-level", "debug"}))
	assert.Error(t, app.Run([]string{"clinsight", "--log-level", "verbose"}))
}
