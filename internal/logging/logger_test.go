package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "json", Output: &buf})

	logger.WithComponent("highlight").With("page", "TsLoggingComponent").
		Info(context.Background(), "highlighted", "blocks", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "highlighted", entry["msg"])
	assert.Equal(t, "highlight", entry["component"])
	assert.Equal(t, "TsLoggingComponent", entry["page"])
	assert.Equal(t, float64(3), entry["blocks"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelWarn, Format: "json", Output: &buf})

	logger.Debug(context.Background(), "debug")
	logger.Info(context.Background(), "info")
	assert.Zero(t, buf.Len())

	logger.Warn(context.Background(), errors.New("slow"), "warned")
	assert.Contains(t, buf.String(), "warned")
	assert.Contains(t, buf.String(), "slow")
}

func TestTextLoggerWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Output: &buf})

	logger.Error(context.Background(), errors.New("boom"), "render failed", "route", "bifrost/ts/logging")

	out := buf.String()
	assert.Contains(t, out, "render failed")
	assert.Contains(t, out, "route=bifrost/ts/logging")
	assert.NotContains(t, out, "\x1b[", "no color codes when writing to a buffer")
}

func TestOddFieldsAreIgnored(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Format: "json", Output: &buf})

	logger.Info(context.Background(), "odd", "dangling")
	assert.True(t, strings.Contains(buf.String(), `"msg":"odd"`))
	assert.NotContains(t, buf.String(), "dangling")
}

func TestStartOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf})

	op := StartOperation(logger, "mount")
	duration := op.End(context.Background(), "page", "HomeComponent")
	assert.GreaterOrEqual(t, duration, time.Duration(0))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Operation completed", entry["msg"])
	assert.Equal(t, "mount", entry["operation"])
	assert.Equal(t, "HomeComponent", entry["page"])
	assert.Contains(t, entry, "duration")

	buf.Reset()
	StartOperation(logger, "mount").EndWithError(context.Background(), errors.New("sample missing"))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Operation failed", entry["msg"])
}
