package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func unsetKnown(t *testing.T) {
	t.Helper()
	for k := range defaultValues() {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Cleanup(func() { _ = Reload() })
}

func TestLoadFromFiles_Precedence(t *testing.T) {
	unsetKnown(t)
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{
		"event_mode": "depth_first",
		"event_on_error": "log",
		"metrics_addr": ":7000",
		"ignored_number": 42
	}`)
	envPath := writeFile(t, dir, ".env", "EVENT_ON_ERROR=ignore\nCUSTOM_KEY= hello \n")
	t.Setenv("METRICS_ADDR", ":8000")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "depth_first", get("EVENT_MODE", ""))
	assert.Equal(t, "ignore", get("EVENT_ON_ERROR", ""))
	assert.Equal(t, ":8000", get("METRICS_ADDR", ""))
	assert.Equal(t, "hello", get("CUSTOM_KEY", ""))
	assert.Equal(t, "", get("IGNORED_NUMBER", ""))
}

func TestLoadFromFiles_MissingFilesUseDefaults(t *testing.T) {
	unsetKnown(t)
	dir := t.TempDir()

	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, ".env")))
	assert.Equal(t, defaultEventMode, get("EVENT_MODE", ""))
	assert.Equal(t, defaultMetricsAddr, get("METRICS_ADDR", ""))
}

func TestLoadFromFiles_BadJSON(t *testing.T) {
	unsetKnown(t)
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{not json`)

	err := loadFromFiles(jsonPath, filepath.Join(dir, ".env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
