package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"claudeport/internal/adapters/logger"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated
// testing. It also sets NO_COLOR=1 to ensure deterministic output without
// ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{name: "simple message", msg: "downloading installer", goldenName: "info_basic"},
		{name: "multiline message", msg: "line1\nline2", goldenName: "info_multiline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("artifact file missing")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error_Simple(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(errors.New("permission denied"))

	g := goldie.New(t)
	g.Assert(t, "error_simple", buf.Bytes())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(zerr.Wrap(
		zerr.Wrap(
			errors.New("connection refused"),
			"failed to download installer",
		),
		"build failed",
	))

	out := buf.String()
	assert.Contains(t, out, "Error: build failed")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ failed to download installer")
	assert.Contains(t, out, "→ connection refused")

	// Outer message first, root cause last.
	assert.Less(t,
		strings.Index(out, "build failed"),
		strings.Index(out, "connection refused"))
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	// fmt.Errorf chains don't expose per-link messages, so the whole chain
	// prints as one line.
	err := fmt.Errorf("outer: %w", errors.New("inner"))

	lg, buf := newTestLogger(t)
	lg.Error(err)

	out := buf.String()
	assert.Contains(t, out, "Error: outer: inner")
	assert.NotContains(t, out, "Caused by:")
}

func TestLogger_JSONMode(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Info("structured message")

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"msg":"structured message"`)
	assert.Contains(t, out, `"level":"INFO"`)
}
