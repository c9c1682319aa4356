package domain

import (
	"path/filepath"
	"regexp"

	"go.trai.ch/zerr"
)

// InnerPackageGlob matches the versioned package inside the extracted installer.
const InnerPackageGlob = "AnthropicClaude-*-full.nupkg"

var versionPattern = regexp.MustCompile(`^AnthropicClaude-(\d+\.\d+\.\d+)-full\.nupkg$`)

// VendorPackage describes the acquired vendor release.
type VendorPackage struct {
	// Version is the semantic version extracted from the inner package filename.
	Version string
	// Arch is the architecture tag the installer was downloaded for.
	Arch Architecture
	// DownloadURL is the vendor installer URL the release was fetched from.
	DownloadURL string
	// ArchivePath is the absolute path of the packed application archive (app.asar).
	ArchivePath string
	// UnpackedPath is the absolute path of the archive's unpacked-resources tree.
	UnpackedPath string
	// ResourcesDir is the vendor resource directory holding locales and tray icons.
	ResourcesDir string
	// ExePath is the vendor executable the icon resources are extracted from.
	ExePath string
}

// ExtractVersion derives the semantic version from an inner package filename.
// A filename that does not carry the expected suffix is an error; there is no
// default version.
func ExtractVersion(packagePath string) (string, error) {
	name := filepath.Base(packagePath)
	m := versionPattern.FindStringSubmatch(name)
	if m == nil {
		return "", zerr.With(ErrVersionNotFound, "filename", name)
	}
	return m[1], nil
}
