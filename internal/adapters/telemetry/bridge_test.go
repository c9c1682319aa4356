package telemetry_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"claudeport/internal/adapters/telemetry"
)

// captureLogger records log lines by level for assertions.
type captureLogger struct {
	infos []string
	warns []string
}

func (c *captureLogger) Info(msg string)     { c.infos = append(c.infos, msg) }
func (c *captureLogger) Warn(msg string)     { c.warns = append(c.warns, msg) }
func (c *captureLogger) Error(error)         {}
func (c *captureLogger) SetOutput(io.Writer) {}
func (c *captureLogger) SetJSON(bool)        {}

func newTestTracer(lg *captureLogger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewBridge(lg)),
	)
}

func TestBridge_SpanLifecycle(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	lg := &captureLogger{}
	tp := newTestTracer(lg)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "download installer")
	span.SetStatus(codes.Ok, "")
	span.End()

	require.Len(t, lg.infos, 2)
	assert.Contains(t, lg.infos[0], "→ download installer")
	assert.Contains(t, lg.infos[1], "✓ download installer")
	assert.Contains(t, lg.infos[1], "(")
	assert.Empty(t, lg.warns)
}

func TestBridge_FailedSpan(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	lg := &captureLogger{}
	tp := newTestTracer(lg)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "patch application")
	span.SetStatus(codes.Error, "target not found")
	span.End()

	require.Len(t, lg.infos, 1)
	require.Len(t, lg.warns, 1)
	assert.Contains(t, lg.warns[0], "✗ patch application")
}

func TestBridge_NilLogger(t *testing.T) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	// Must not panic without a logger.
	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	span.End()
}
