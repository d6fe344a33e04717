package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigPath = "../../configs/config.yaml"

func Test_Config_DefaultFileIsValid(t *testing.T) {
	cfg, err := Load(testConfigPath)
	require.NoError(t, err)

	assert.Equal(t, DriverSqlite, cfg.DB.Driver)
	assert.Equal(t, ProviderLexical, cfg.TextModel.Provider)
	assert.Equal(t, 15*time.Second, cfg.TextModel.Timeout)
	assert.InDelta(t, 1.0, cfg.Scoring.Weights.SkillOverlap+cfg.Scoring.Weights.TextualRelevance+
		cfg.Scoring.Weights.DomainAffinity+cfg.Scoring.Weights.TitleRelevance+
		cfg.Scoring.Weights.ExperienceMatch, 1e-9)
	assert.Equal(t, 10, cfg.Matching.Concurrency)
	assert.False(t, cfg.Cache.RetentionEnabled())
	assert.False(t, cfg.Logger.Loki.Enabled())
}

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "newConnectionString")
	t.Setenv("LOG_LEVEL", string(LevelDebug))
	t.Setenv("TEXT_MODEL_PROVIDER", ProviderEmbedding)
	t.Setenv("TEXT_MODEL_URL", "http://encoder:5001")
	t.Setenv("TEXT_MODEL_TIMEOUT", "3s")
	t.Setenv("SCORE_RETENTION_DAYS", "30")
	t.Setenv("MATCHING_CONCURRENCY", "4")
	t.Setenv("WEIGHT_SKILL_OVERLAP", "0.5")
	t.Setenv("WEIGHT_EXPERIENCE_MATCH", "0.2")
	t.Setenv("LOKI_URL", "http://loki:3100/loki/api/v1/push")

	cfg, err := Load(testConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "newConnectionString", cfg.DB.ConnectionString)
	assert.Equal(t, LevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, ProviderEmbedding, cfg.TextModel.Provider)
	assert.Equal(t, "http://encoder:5001", cfg.TextModel.URL)
	assert.Equal(t, 3*time.Second, cfg.TextModel.Timeout)
	assert.Equal(t, 30, cfg.Cache.RetentionDays)
	assert.True(t, cfg.Cache.RetentionEnabled())
	assert.Equal(t, 4, cfg.Matching.Concurrency)
	assert.Equal(t, 0.5, cfg.Scoring.Weights.SkillOverlap)
	assert.Equal(t, 0.2, cfg.Scoring.Weights.ExperienceMatch)
	assert.True(t, cfg.Logger.Loki.Enabled())
	assert.Equal(t, "http://loki:3100/loki/api/v1/push", cfg.Logger.Loki.URL)
}

func Test_Config_GeminiWithoutKey_ShouldFail(t *testing.T) {
	t.Setenv("TEXT_MODEL_PROVIDER", ProviderGemini)
	t.Setenv("AI_KEY", "")

	_, err := Load(testConfigPath)
	assert.ErrorContains(t, err, "api_key")
}

func Test_Config_InvalidValues_AreAllReported(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
logger:
  log_level: LOUD
db:
  driver: oracle
  connection_string: x
matching:
  concurrency: 0
`)
	require.NoError(t, os.WriteFile(file, content, 0644))

	_, err := Load(file)
	require.Error(t, err)
	assert.ErrorContains(t, err, "log_level")
	assert.ErrorContains(t, err, "oracle")
	assert.ErrorContains(t, err, "concurrency")
}

func Test_Config_MissingFile_ShouldFail(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
