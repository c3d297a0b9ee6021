package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "datasets.db", cfg.StorePath)
	assert.Equal(t, "csv", cfg.Source.Driver)
	assert.Equal(t, 100000, cfg.Source.MaxRows)
	assert.Equal(t, 5, cfg.Profile.ExampleCount)
	assert.Equal(t, 5, cfg.Profile.TopK)
	assert.Equal(t, 20, cfg.Profile.CardinalityCeiling)
	assert.Equal(t, 8, cfg.Profile.MaxPivotPairs)
	assert.Equal(t, 10, cfg.Quiz.DefaultLimit)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_path: /tmp/catalog.db
source:
  driver: postgres
  host: db.internal
  port: 5433
profile:
  top_k: 3
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/catalog.db", cfg.StorePath)
	assert.Equal(t, "postgres", cfg.Source.Driver)
	assert.Equal(t, "db.internal", cfg.Source.Host)
	assert.Equal(t, 5433, cfg.Source.Port)
	assert.Equal(t, 3, cfg.Profile.TopK)
	// untouched keys keep their defaults
	assert.Equal(t, 5, cfg.Profile.ExampleCount)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATASET_QUIZZER_STORE_PATH", "/var/lib/quiz.db")
	t.Setenv("DATASET_QUIZZER_SOURCE_DRIVER", "mysql")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/quiz.db", cfg.StorePath)
	assert.Equal(t, "mysql", cfg.Source.Driver)
}

func TestClampQuestionLimit(t *testing.T) {
	assert.Equal(t, 1, ClampQuestionLimit(0))
	assert.Equal(t, 1, ClampQuestionLimit(-5))
	assert.Equal(t, 1, ClampQuestionLimit(1))
	assert.Equal(t, 32, ClampQuestionLimit(32))
	assert.Equal(t, 64, ClampQuestionLimit(64))
	assert.Equal(t, 64, ClampQuestionLimit(1000))
}
