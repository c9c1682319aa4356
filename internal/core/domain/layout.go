package domain

import "path/filepath"

const (
	// PackageName is the name under which the application is packaged.
	PackageName = "claude-desktop"

	// AppID is the reverse-DNS application id used by the sandboxed bundle.
	AppID = "com.anthropic.ClaudeDesktop"

	// WorkDirName is the name of the disposable working tree directory.
	WorkDirName = "build"

	// DownloadDirName is the download cache inside the working tree.
	DownloadDirName = "downloads"

	// ExtractDirName is the installer extraction scratch space.
	ExtractDirName = "extract"

	// ContentDirName is the extracted application archive content tree.
	ContentDirName = "app"

	// StagingDirName is the final tree handed to a packaging back-end.
	StagingDirName = "staging"

	// ElectronEnvDirName is the local Electron/asar installation directory.
	ElectronEnvDirName = "electron-env"

	// IconDirName holds rasters extracted from the vendor executable.
	IconDirName = "icons"

	// DirPerm is the default permission for directories (rwxr-xr-x).
	DirPerm = 0o755

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecPerm is the permission for generated launcher scripts (rwxr-xr-x).
	ExecPerm = 0o755
)

// WorkTree resolves the fixed locations inside one run's working tree.
type WorkTree struct {
	Root string
}

// NewWorkTree returns the working tree rooted below the invocation directory.
func NewWorkTree(invocationDir string) WorkTree {
	return WorkTree{Root: filepath.Join(invocationDir, WorkDirName)}
}

// Downloads returns the download cache directory.
func (w WorkTree) Downloads() string { return filepath.Join(w.Root, DownloadDirName) }

// Extract returns the installer extraction directory.
func (w WorkTree) Extract() string { return filepath.Join(w.Root, ExtractDirName) }

// Content returns the extracted application archive content tree.
func (w WorkTree) Content() string { return filepath.Join(w.Root, ContentDirName) }

// Staging returns the staging directory handed to packaging back-ends.
func (w WorkTree) Staging() string {
	return filepath.Join(w.Root, StagingDirName, PackageName)
}

// ElectronEnv returns the local Electron installation directory.
// It survives working tree recreation so repeated runs reuse the install.
func (w WorkTree) ElectronEnv() string { return filepath.Join(w.Root, ElectronEnvDirName) }

// Icons returns the extracted icon raster directory.
func (w WorkTree) Icons() string { return filepath.Join(w.Root, IconDirName) }

// Disposable returns the per-run directories that are deleted and recreated
// at pipeline start. The Electron environment is excluded: it is a reusable
// cache validated only by presence.
func (w WorkTree) Disposable() []string {
	return []string{w.Downloads(), w.Extract(), w.Content(), filepath.Join(w.Root, StagingDirName), w.Icons()}
}
