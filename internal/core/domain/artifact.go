package domain

import "fmt"

// ArtifactNotFound is the sentinel path reported when a back-end finished
// without error but the expected output file is missing. The caller treats
// it as partial success, not a crash.
const ArtifactNotFound = "not-found"

// PackageArtifact is the terminal output of one pipeline run.
type PackageArtifact struct {
	Path    string
	Format  Format
	Version string
	Arch    Architecture
}

// Found reports whether the back-end actually produced the artifact file.
func (a PackageArtifact) Found() bool {
	return a.Path != "" && a.Path != ArtifactNotFound
}

// ArtifactFileName returns the canonical artifact name for a package build.
func ArtifactFileName(pkg, version string, arch Architecture, format Format) string {
	return fmt.Sprintf("%s-%s-%s.%s", pkg, version, arch, format.Extension())
}
