// Package resolver detects the host environment and selects the vendor
// download target.
package resolver

import (
	"os"
	"runtime"

	"claudeport/internal/core/domain"
)

// Resolver maps the host environment to a build target. It runs before any
// network or privileged operation.
type Resolver struct {
	hostArch func() string
	euid     func() int
}

// New creates a Resolver backed by the real host.
func New() *Resolver {
	return &Resolver{
		hostArch: func() string { return runtime.GOARCH },
		euid:     os.Geteuid,
	}
}

// NewWithProbes creates a Resolver with custom host probes (used for testing).
func NewWithProbes(hostArch func() string, euid func() int) *Resolver {
	return &Resolver{hostArch: hostArch, euid: euid}
}

// Resolve returns the download target for the host CPU. Running under an
// elevated-privilege identity is a fatal precondition, not recoverable.
func (r *Resolver) Resolve() (domain.Target, error) {
	if r.euid() == 0 {
		return domain.Target{}, domain.ErrRunAsRoot
	}
	return domain.TargetFor(r.hostArch())
}
