package patch

import (
	"path/filepath"

	"go.trai.ch/zerr"

	"claudeport/internal/adapters/fs"
	"claudeport/internal/core/domain"
)

// nativeModuleName is the platform-integration addon the vendor archive
// expects. The stub below replaces the Windows-only native build.
const nativeModuleName = "claude-native"

// nativeStubJS is the stub implementation. Every hook is a deterministic
// no-op or false, and the system-authentication helper reports itself as
// unavailable so the application falls back to browser-based auth.
const nativeStubJS = `"use strict";
const KeyboardKey = Object.freeze({
  Backspace: 43,
  Tab: 280,
  Enter: 261,
  Shift: 272,
  Control: 61,
  Alt: 40,
  CapsLock: 56,
  Escape: 85,
  Space: 276,
  PageUp: 251,
  PageDown: 250,
  End: 83,
  Home: 154,
  LeftArrow: 175,
  UpArrow: 282,
  RightArrow: 262,
  DownArrow: 81,
  Delete: 79,
  Meta: 187,
});

module.exports = {
  KeyboardKey,
  getWindowsVersion: () => "10.0.0",
  setWindowEffect: () => {},
  removeWindowEffect: () => {},
  getIsMaximized: () => false,
  flashFrame: () => {},
  clearFlashFrame: () => {},
  showNotification: () => {},
  setProgressBar: () => {},
  clearProgressBar: () => {},
  setOverlayIcon: () => {},
  clearOverlayIcon: () => {},
  getIsSecureBrokerAvailable: () => false,
};
`

// injectNativeStubs writes the stub module to both locations the vendor
// code resolves it from: inside the archive content tree and in the
// unpacked tree next to the repacked archive.
func (e *Engine) injectNativeStubs(contentDir, unpackedDir string) error {
	for _, root := range []string{contentDir, unpackedDir} {
		dest := filepath.Join(root, "node_modules", nativeModuleName, "index.js")
		if err := fs.WriteFileAtomic(dest, []byte(nativeStubJS), domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write native module stub"), "dest", dest)
		}
	}
	return nil
}
