package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claudeport/internal/core/domain"
	"claudeport/internal/engine/resolver"
)

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		hostArch string
		euid     int
		wantArch domain.Architecture
		wantErr  error
	}{
		{name: "amd64 host", hostArch: "amd64", euid: 1000, wantArch: domain.ArchAmd64},
		{name: "arm64 host", hostArch: "arm64", euid: 1000, wantArch: domain.ArchArm64},
		{name: "x86_64 alias", hostArch: "x86_64", euid: 1000, wantArch: domain.ArchAmd64},
		{name: "unsupported host", hostArch: "mips64", euid: 1000, wantErr: domain.ErrUnsupportedArch},
		{name: "root refused", hostArch: "amd64", euid: 0, wantErr: domain.ErrRunAsRoot},
		{name: "root refused before arch check", hostArch: "mips64", euid: 0, wantErr: domain.ErrRunAsRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resolver.NewWithProbes(
				func() string { return tt.hostArch },
				func() int { return tt.euid },
			)

			target, err := r.Resolve()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantArch, target.Arch)
			assert.NotEmpty(t, target.DownloadURL)
		})
	}
}
