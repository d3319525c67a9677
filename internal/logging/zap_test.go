package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLogger(&buf, slog.LevelInfo)

	log.With("module", "rest").Info(context.Background(), "request", "status", 200)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "rest", entry["module"])
	assert.Equal(t, float64(200), entry["status"])
}

func TestZapLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLogger(&buf, slog.LevelWarn)

	log.Debug(context.Background(), "dbg")
	log.Info(context.Background(), "inf")
	log.Warn(context.Background(), "wrn")
	log.Error(context.Background(), "err")

	out := buf.String()
	assert.NotContains(t, out, `"dbg"`)
	assert.NotContains(t, out, `"inf"`)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestZapLogger_AddsRequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLogger(&buf, slog.LevelInfo)

	log.Warn(WithRequestID(context.Background(), "r-42"), "slow request")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "r-42", entry["request_id"])
	assert.Equal(t, "r-42", RequestID(WithRequestID(context.Background(), "r-42")))
	assert.Empty(t, RequestID(context.Background()))
}
