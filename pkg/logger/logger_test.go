package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "production", "")

	log.Debug("hidden")
	log.Info("sent", "event_type", "int")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "sent", rec["msg"])
	assert.Equal(t, "int", rec["event_type"])
}

func TestNew_LocalWritesTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "local", "").Debug("visible")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestNew_LevelOverride(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "local", "warn")

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in, slog.LevelInfo), "input %q", in)
	}
}

func TestWithCtx(t *testing.T) {
	assert.Same(t, L, WithCtx(nil)) //nolint:staticcheck
	assert.Same(t, L, WithCtx(context.Background()))

	custom := Discard()
	assert.Same(t, custom, WithCtx(InjectLogger(context.Background(), custom)))
}
