package patch

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"claudeport/internal/adapters/fs"
	"claudeport/internal/core/domain"
)

const (
	wrapperFileName   = "electron-native-frame.js"
	bootstrapFileName = "bootstrap.js"
)

// wrapperJS intercepts Electron's BrowserWindow so every window is created
// with a native frame and without a custom title bar, while re-exposing all
// original constructor and static behavior.
const wrapperJS = `"use strict";
// Forces native window decorations: frame on, custom title bar options off.
const electron = require("electron");
const OriginalBrowserWindow = electron.BrowserWindow;

function withNativeFrame(options) {
  const patched = Object.assign({}, options, { frame: true });
  delete patched.titleBarStyle;
  delete patched.titleBarOverlay;
  return patched;
}

class BrowserWindow extends OriginalBrowserWindow {
  constructor(options) {
    super(withNativeFrame(options || {}));
  }
}

for (const key of Object.getOwnPropertyNames(OriginalBrowserWindow)) {
  if (!Object.prototype.hasOwnProperty.call(BrowserWindow, key)) {
    try {
      BrowserWindow[key] = OriginalBrowserWindow[key];
    } catch (_) {
      // non-configurable statics keep their inherited binding
    }
  }
}

const proxied = new Proxy(electron, {
  get(target, prop) {
    return prop === "BrowserWindow" ? BrowserWindow : target[prop];
  },
});

require.cache[require.resolve("electron")].exports = proxied;
`

// entryIndirection synthesizes the wrapper and bootstrap modules and points
// the manifest's entry point at the bootstrap. The original entry point is
// preserved under "originalMain" for traceability.
func (e *Engine) entryIndirection(contentDir string) (string, error) {
	manifestPath := filepath.Join(contentDir, "package.json")

	raw, err := e.readManifest(manifestPath)
	if err != nil {
		return "", err
	}

	main, _ := raw["main"].(string)
	if main == "" {
		return "", zerr.With(domain.ErrPatchTargetNotFound, "manifest_field", "main")
	}

	// Marker: the manifest already points at the bootstrap.
	if main == bootstrapFileName {
		original, _ := raw["originalMain"].(string)
		if original == "" {
			return "", zerr.With(domain.ErrPatchTargetNotFound, "manifest_field", "originalMain")
		}
		return original, nil
	}

	if err := fs.WriteFileAtomic(filepath.Join(contentDir, wrapperFileName), []byte(wrapperJS), domain.FilePerm); err != nil {
		return "", zerr.Wrap(err, "failed to write frame wrapper")
	}

	bootstrap := "\"use strict\";\nrequire(\"./" + wrapperFileName + "\");\nrequire(\"./" + strings.TrimPrefix(filepath.ToSlash(main), "./") + "\");\n"
	if err := fs.WriteFileAtomic(filepath.Join(contentDir, bootstrapFileName), []byte(bootstrap), domain.FilePerm); err != nil {
		return "", zerr.Wrap(err, "failed to write bootstrap")
	}

	raw["originalMain"] = main
	raw["main"] = bootstrapFileName

	encoded, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode manifest")
	}
	if err := fs.WriteFileAtomic(manifestPath, append(encoded, '\n'), domain.FilePerm); err != nil {
		return "", zerr.Wrap(err, "failed to write manifest")
	}

	return main, nil
}

func (e *Engine) readManifest(path string) (map[string]any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read entry-point manifest")
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, zerr.Wrap(err, "failed to parse entry-point manifest")
	}
	return raw, nil
}
