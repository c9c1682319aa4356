// Package patch applies the ordered set of idempotent source
// transformations to the extracted application archive.
//
// The target code is vendor-minified and unversioned, so identifier names
// are never hardcoded: operations match structural shapes, bind names via
// regexp captures, and fail when a shape is absent or ambiguous. Every
// operation is guarded by a detectable marker so applying it twice is a
// no-op, and files are rewritten atomically so an operation never partially
// applies.
package patch

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"claudeport/internal/adapters/fs"
	"claudeport/internal/core/domain"
)

// Operation is one guarded, idempotent text rewrite of a single file.
type Operation struct {
	// Name identifies the operation in logs and errors.
	Name string
	// Marker is a token whose presence in the file means the operation has
	// already been applied; the rewrite is then skipped entirely.
	Marker string
	// Transform rewrites the file content. It must either return the fully
	// transformed content or an error; partial results are never written.
	Transform func(content string) (string, error)
	// Verify, when set, checks the transformed content before it is
	// written. A verification failure is fatal, never silently accepted.
	Verify func(content string) error
}

// applyToFile runs op against path. It returns true when the file was
// rewritten and false when the marker made the operation a no-op.
func applyToFile(path string, op Operation) (bool, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // paths are pipeline-controlled
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrPatchTargetNotFound.Error()), "operation", op.Name)
	}
	content := string(raw)

	if op.Marker != "" && strings.Contains(content, op.Marker) {
		return false, nil
	}

	transformed, err := op.Transform(content)
	if err != nil {
		return false, zerr.With(err, "operation", op.Name)
	}

	if op.Verify != nil {
		if err := op.Verify(transformed); err != nil {
			return false, zerr.With(err, "operation", op.Name)
		}
	}

	if transformed == content {
		return false, nil
	}

	if err := fs.WriteFileAtomic(path, []byte(transformed), domain.FilePerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to write patched file"), "operation", op.Name)
	}
	return true, nil
}

// uniqueGlob resolves pattern below root to exactly one file. Zero or more
// than one match is fatal; ambiguity is never silently resolved.
func uniqueGlob(root, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrPatchTargetNotFound.Error())
	}

	switch len(matches) {
	case 0:
		return "", zerr.With(domain.ErrPatchTargetNotFound, "glob", pattern)
	case 1:
		return matches[0], nil
	default:
		return "", zerr.With(zerr.With(domain.ErrPatchTargetAmbiguous, "glob", pattern), "matches", len(matches))
	}
}
