package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"verbose": Info,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}

func TestZapLogger_WithMergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With(map[string]any{"component": "registration"})

	l.Warn("step validation failed", map[string]any{
		"step":  "identity",
		"error": errors.New("phone number is required"),
		"":      "ignored",
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	assert.Equal(t, "step validation failed", e.Message)

	ctx := e.ContextMap()
	assert.Equal(t, "registration", ctx["component"])
	assert.Equal(t, "identity", ctx["step"])
	assert.Equal(t, "phone number is required", ctx["error"])
	assert.NotContains(t, ctx, "")
}

func TestNewNop_DoesNotPanic(t *testing.T) {
	l := NewNop()
	l.Info("hello", nil)
	assert.Same(t, l, l.With(nil))
}
