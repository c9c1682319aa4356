package packaging

import (
	"context"

	"go.trai.ch/zerr"

	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
)

// Dispatcher routes a build request to the back-end for the requested
// artifact format.
type Dispatcher struct {
	backends map[domain.Format]ports.Backend
}

// NewDispatcher registers the given back-ends by their format.
func NewDispatcher(backends ...ports.Backend) *Dispatcher {
	byFormat := make(map[domain.Format]ports.Backend, len(backends))
	for _, b := range backends {
		byFormat[b.Format()] = b
	}
	return &Dispatcher{backends: byFormat}
}

// Build dispatches the request to the back-end matching format.
func (d *Dispatcher) Build(ctx context.Context, format domain.Format, req ports.BuildRequest) (domain.PackageArtifact, error) {
	backend, ok := d.backends[format]
	if !ok {
		return domain.PackageArtifact{}, zerr.With(domain.ErrInvalidFormat, "format", string(format))
	}
	return backend.Build(ctx, req)
}
