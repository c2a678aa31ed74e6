package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "input %q", tt.input)
	}
}

func TestNew_JSONFormatInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production"})

	log.Info("loan created", "loan_id", "loan-abc")

	out := buf.String()
	assert.Contains(t, out, `"msg":"loan created"`)
	assert.Contains(t, out, `"loan_id":"loan-abc"`)
}

func TestNew_PrettyFormatInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development"})

	log.Info("loan created", "loan_id", "loan-abc")

	out := buf.String()
	assert.Contains(t, out, "loan created")
	assert.Contains(t, out, "loan_id=loan-abc")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelWarn})

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty"})

	log.WithError(assert.AnError).Warn("inventory call failed")

	out := buf.String()
	assert.Contains(t, out, "inventory call failed")
	assert.Contains(t, out, "error=")
}
