package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"claudeport/internal/adapters/fs"
	"claudeport/internal/core/domain"
)

// bundledOutputDir is the directory holding the application's compiled,
// minified sources inside the content tree.
const bundledOutputDir = ".vite"

// decorationRewrites are the literal forms in which "disable decoration"
// appears in the minified output. The transformations are purely lexical:
// no build step runs after patching, so nothing structural may change.
var decorationRewrites = [][2]string{
	{"frame:!1", "frame:!0"},
	{"frame:false", "frame:true"},
	{"frame: false", "frame: true"},
	{"titleBarOverlay:!0", "titleBarOverlay:!1"},
	{"titleBarOverlay:true", "titleBarOverlay:false"},
}

// titleBarStylePattern matches custom-title-bar-style assignments in both
// quote styles; they are rewritten to the platform default.
var titleBarStylePattern = regexp.MustCompile(`titleBarStyle:\s*["'][A-Za-z]*["']`)

// normalizeDecorations rewrites every occurrence of a disable-decoration
// flag under the bundled-output directory to its enable-decoration form.
// The rewrites are convergent, so a second pass finds nothing to change.
func (e *Engine) normalizeDecorations(contentDir string) error {
	root := filepath.Join(contentDir, bundledOutputDir)
	changed := 0

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".js") {
			return nil
		}

		raw, err := os.ReadFile(path) //nolint:gosec // pipeline-controlled tree
		if err != nil {
			return err
		}

		content := string(raw)
		rewritten := content
		for _, pair := range decorationRewrites {
			rewritten = strings.ReplaceAll(rewritten, pair[0], pair[1])
		}
		rewritten = titleBarStylePattern.ReplaceAllString(rewritten, `titleBarStyle:"default"`)

		if rewritten == content {
			return nil
		}
		changed++
		return fs.WriteFileAtomic(path, []byte(rewritten), domain.FilePerm)
	})
	if err != nil {
		return err
	}

	if changed > 0 {
		e.logger.Info(fmt.Sprintf("normalized window decoration flags in %d files", changed))
	}
	return nil
}
