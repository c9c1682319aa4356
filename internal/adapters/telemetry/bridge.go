// Package telemetry bridges OpenTelemetry spans to the application logger.
// Pipeline stages run under spans; the bridge turns span lifecycle events
// into stage progress lines.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"claudeport/internal/core/ports"
	"claudeport/internal/ui/style"
)

// Bridge implements sdktrace.SpanProcessor and reports stage progress to
// the logger.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.logger == nil {
		return
	}
	b.logger.Info(style.Step.Render(style.Arrow + " " + s.Name()))
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	if s.Status().Code == codes.Error {
		b.logger.Warn(fmt.Sprintf("%s %s (%s)", style.Cross, s.Name(), elapsed))
		return
	}
	b.logger.Info(fmt.Sprintf("%s %s (%s)", style.Check, s.Name(), elapsed))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error { return nil }

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error { return nil }
