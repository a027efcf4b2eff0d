package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("CATALOG_PATH", "")
	t.Setenv("AGENT_MAX_ITERATIONS", "")
	t.Setenv("AGENT_TEMPERATURE", "")

	cfg := Load()
	assert.Equal(t, "sk-env", cfg.OpenAIKey)
	assert.Equal(t, "data/products.csv", cfg.CatalogPath)
	assert.Equal(t, 5, cfg.AgentMaxIterations)
	assert.Equal(t, float32(0.3), cfg.AgentTemperature)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("CATALOG_PATH", "/tmp/catalog.csv")
	t.Setenv("WORKER_COUNT", "12")
	t.Setenv("AGENT_TEMPERATURE", "0.7")
	t.Setenv("AGENT_MAX_ITERATIONS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "/tmp/catalog.csv", cfg.CatalogPath)
	assert.Equal(t, 12, cfg.WorkerCount)
	assert.InDelta(t, 0.7, cfg.AgentTemperature, 1e-6)
	assert.Equal(t, 5, cfg.AgentMaxIterations)
}

func TestLoadFallsBackToAPIKeysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_keys.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"OPENAI_API_KEY":"sk-file"}`), 0o600))

	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("API_KEYS_FILE", path)

	cfg := Load()
	assert.Equal(t, "sk-file", cfg.OpenAIKey)
}

func TestLoadAPIKeys(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadAPIKeys(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "API keys file not found")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	_, err = LoadAPIKeys(bad)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestValidate(t *testing.T) {
	cfg := &Config{APIKeysFile: "keys.json"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
	assert.ErrorContains(t, err, "CATALOG_PATH")
	assert.ErrorContains(t, err, "AGENT_MAX_ITERATIONS")
}
