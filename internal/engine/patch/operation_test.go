package patch

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
)

// nopLogger satisfies ports.Logger for engine construction in tests.
type nopLogger struct{}

func (nopLogger) Info(string)         {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Error(error)         {}
func (nopLogger) SetOutput(io.Writer) {}
func (nopLogger) SetJSON(bool)        {}

var _ ports.Logger = nopLogger{}

func newTestEngine() *Engine {
	return New(nil, nopLogger{})
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFixture(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestApplyToFile_MarkerSkips(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.js", "already patched /*done*/")

	changed, err := applyToFile(path, Operation{
		Name:   "noop",
		Marker: "/*done*/",
		Transform: func(string) (string, error) {
			t.Fatal("transform must not run when the marker is present")
			return "", nil
		},
	})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestApplyToFile_TransformErrorLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	original := "original content"
	path := writeFixture(t, dir, "a.js", original)

	_, err := applyToFile(path, Operation{
		Name: "failing",
		Transform: func(string) (string, error) {
			return "", zerr.With(domain.ErrPatchTargetNotFound, "shape", "missing")
		},
	})
	require.ErrorIs(t, err, domain.ErrPatchTargetNotFound)
	assert.Equal(t, original, readFixture(t, path))
}

func TestApplyToFile_VerifyFailureLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	original := "bad shape"
	path := writeFixture(t, dir, "a.js", original)

	_, err := applyToFile(path, Operation{
		Name:      "verified",
		Transform: func(content string) (string, error) { return content + " rewritten", nil },
		Verify: func(string) error {
			return domain.ErrPatchVerifyFailed
		},
	})
	require.ErrorIs(t, err, domain.ErrPatchVerifyFailed)
	assert.Equal(t, original, readFixture(t, path))
}

func TestApplyToFile_UnchangedContentNotRewritten(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.js", "stable")

	changed, err := applyToFile(path, Operation{
		Name:      "identity",
		Transform: func(content string) (string, error) { return content, nil },
	})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUniqueGlob(t *testing.T) {
	dir := t.TempDir()

	_, err := uniqueGlob(dir, "assets/Page-*.js")
	require.ErrorIs(t, err, domain.ErrPatchTargetNotFound)

	want := writeFixture(t, dir, "assets/Page-abc.js", "x")
	got, err := uniqueGlob(dir, "assets/Page-*.js")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	writeFixture(t, dir, "assets/Page-def.js", "y")
	_, err = uniqueGlob(dir, "assets/Page-*.js")
	require.ErrorIs(t, err, domain.ErrPatchTargetAmbiguous)
}
