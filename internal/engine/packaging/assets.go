// Package packaging turns the staged application tree into distributable
// Linux artifacts. Each format is its own back-end behind ports.Backend;
// the launcher script and desktop entry are shared and generated here.
package packaging

import (
	"fmt"
	"path/filepath"

	"claudeport/internal/adapters/fs"
	"claudeport/internal/core/domain"
)

// launcherScript wraps the Electron binary with the flags the app needs on
// Linux. Wayland sessions get native ozone plus IME support; everywhere else
// the platform hint lets Electron decide. The custom-titlebar feature is
// always disabled because the archive is patched for native frames.
const launcherScript = `#!/bin/bash
set -u

ELECTRON_EXEC=%q
APP_ARCHIVE=%q

FLAGS=("--no-sandbox" "--disable-features=CustomTitlebar")

if [ -n "${WAYLAND_DISPLAY:-}" ]; then
    FLAGS+=("--ozone-platform=wayland")
    FLAGS+=("--enable-features=WaylandWindowDecorations")
    FLAGS+=("--enable-wayland-ime")
    FLAGS+=("--wayland-text-input-version=3")
else
    FLAGS+=("--ozone-platform-hint=auto")
fi

exec "$ELECTRON_EXEC" "$APP_ARCHIVE" "${FLAGS[@]}" "$@"
`

const desktopEntry = `[Desktop Entry]
Name=Claude
Comment=Claude Desktop for Linux
Exec=%s %%u
Icon=%s
Type=Application
Terminal=false
Categories=Office;Network;
MimeType=x-scheme-handler/claude;
StartupWMClass=Claude
`

// renderLauncher produces the launcher script for a given Electron binary
// and archive location inside the installed tree.
func renderLauncher(electronExec, archivePath string) string {
	return fmt.Sprintf(launcherScript, electronExec, archivePath)
}

// renderDesktopEntry produces the desktop entry for a given Exec line and
// icon reference.
func renderDesktopEntry(execLine, icon string) string {
	return fmt.Sprintf(desktopEntry, execLine, icon)
}

func writeLauncher(path, electronExec, archivePath string) error {
	return fs.WriteFileAtomic(path, []byte(renderLauncher(electronExec, archivePath)), domain.ExecPerm)
}

func writeDesktopEntry(path, execLine, icon string) error {
	return fs.WriteFileAtomic(path, []byte(renderDesktopEntry(execLine, icon)), domain.FilePerm)
}

// largestIcons returns up to n of the largest rasters. Icons arrive sorted
// smallest to largest.
func largestIcons(icons []string, n int) []string {
	if len(icons) <= n {
		return icons
	}
	return icons[len(icons)-n:]
}

// stagedArchiveRelPath is where the patch engine places the repacked
// archive inside the staging tree.
var stagedArchiveRelPath = filepath.Join("resources", "app.asar")
