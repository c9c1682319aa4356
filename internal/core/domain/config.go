// Package domain contains the core types of the claudeport pipeline.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Format identifies a packaging back-end.
type Format string

const (
	// FormatDeb builds a Debian system package.
	FormatDeb Format = "deb"
	// FormatAppImage builds a portable AppImage bundle.
	FormatAppImage Format = "appimage"
	// FormatFlatpak builds a sandboxed Flatpak bundle.
	FormatFlatpak Format = "flatpak"
)

// Extension returns the artifact file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatAppImage:
		return "AppImage"
	case FormatFlatpak:
		return "flatpak"
	default:
		return "deb"
	}
}

// Architecture identifies a supported CPU architecture tag.
type Architecture string

const (
	// ArchAmd64 is the x86_64 architecture tag.
	ArchAmd64 Architecture = "amd64"
	// ArchArm64 is the aarch64 architecture tag.
	ArchArm64 Architecture = "arm64"
)

// NodeArch returns the architecture component of Node.js distribution names.
func (a Architecture) NodeArch() string {
	if a == ArchArm64 {
		return "arm64"
	}
	return "x64"
}

// BuildConfig is the validated, immutable configuration of one pipeline run.
type BuildConfig struct {
	Format  Format
	Cleanup bool
	Arch    Architecture
}

// ParseFormat normalizes and validates a build format flag value.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "deb":
		return FormatDeb, nil
	case "appimage":
		return FormatAppImage, nil
	case "flatpak":
		return FormatFlatpak, nil
	default:
		return "", zerr.With(ErrInvalidFormat, "format", raw)
	}
}

// ParseCleanup normalizes and validates a cleanup flag value.
func ParseCleanup(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true":
		return true, nil
	case "no", "false":
		return false, nil
	default:
		return false, zerr.With(ErrInvalidCleanup, "cleanup", raw)
	}
}

// Target couples an architecture tag with its fixed vendor download location.
type Target struct {
	Arch          Architecture
	DownloadURL   string
	InstallerName string
}

const vendorBucket = "https://storage.googleapis.com/osprey-downloads-c02f6a0d-347c-492b-a752-3e0c08988e8d"

var targets = map[Architecture]Target{
	ArchAmd64: {
		Arch:          ArchAmd64,
		DownloadURL:   vendorBucket + "/nest-win-x64/Claude-Setup-x64.exe",
		InstallerName: "Claude-Setup-x64.exe",
	},
	ArchArm64: {
		Arch:          ArchArm64,
		DownloadURL:   vendorBucket + "/nest-win-arm64/Claude-Setup-arm64.exe",
		InstallerName: "Claude-Setup-arm64.exe",
	},
}

// TargetFor maps a host CPU identification string to exactly one supported
// download target. Any unrecognized identification is an error, never a guess.
func TargetFor(hostArch string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(hostArch)) {
	case "amd64", "x86_64":
		return targets[ArchAmd64], nil
	case "arm64", "aarch64":
		return targets[ArchArm64], nil
	default:
		return Target{}, zerr.With(ErrUnsupportedArch, "host_arch", hostArch)
	}
}
