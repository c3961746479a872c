package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"DEBUG", LevelDebug},
		{"Warning", LevelWarn},
		{" error ", LevelError},

		// Empty and unrecognized default to Info
		{"", LevelInfo},
		{"trace", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFormat(tt.input))
		})
	}
}

func TestNew_FormatAndLevel(t *testing.T) {
	var out bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatJSON, Output: &out})

	logger.Info("hidden")
	logger.Warn("shown", "field", "age")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "age", entry["field"])
	assert.Equal(t, "reqguard", entry["service"])
}

func TestNew_Audit(t *testing.T) {
	var out, audit bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &out, Audit: &audit})

	logger.With("request_id", "r1").Info("request rejected", "kind", "pattern")

	assert.Contains(t, out.String(), "request rejected")
	assert.Contains(t, out.String(), "request_id=r1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(audit.Bytes(), &entry))
	assert.Equal(t, "r1", entry["request_id"])
	assert.Equal(t, "pattern", entry["kind"])
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("boom") }

func TestFanoutHandler_ContinuesAfterError(t *testing.T) {
	var out bytes.Buffer
	ok := slog.NewTextHandler(&out, nil)
	h := NewFanoutHandler(failingHandler{ok}, ok)

	err := slog.New(h).Handler().Handle(context.Background(), slog.NewRecord(time.Now(), LevelInfo, "hello", 0))
	assert.EqualError(t, err, "boom")
	assert.Contains(t, out.String(), "hello")
}

func TestNop(t *testing.T) {
	logger := Nop()
	assert.False(t, logger.Enabled(context.Background(), LevelError))
}
