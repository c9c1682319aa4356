package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claudeport/internal/core/domain"
)

const rendererAsset = ".vite/renderer/main_window/assets/MainWindowPage-4f2a.js"

func TestFixWindowTypeGuard(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, rendererAsset, `const x=1;if(!ko&&e.isMainWindow)return null;render();`)
	e := newTestEngine()

	require.NoError(t, e.fixWindowTypeGuard(dir))
	assert.Equal(t, `const x=1;if(ko&&e.isMainWindow)return null;render();`, readFixture(t, path))
}

func TestFixWindowTypeGuard_SecondPassIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, rendererAsset, `if(!a&&b)skip();`)
	e := newTestEngine()

	require.NoError(t, e.fixWindowTypeGuard(dir))
	first := readFixture(t, path)

	require.NoError(t, e.fixWindowTypeGuard(dir))
	assert.Equal(t, first, readFixture(t, path))
}

func TestFixWindowTypeGuard_SpacedVariant(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, rendererAsset, `if( ! aa && bb )hide();`)
	e := newTestEngine()

	require.NoError(t, e.fixWindowTypeGuard(dir))
	assert.Equal(t, `if(aa&&bb)hide();`, readFixture(t, path))
}

func TestFixWindowTypeGuard_NoAssetFile(t *testing.T) {
	e := newTestEngine()
	err := e.fixWindowTypeGuard(t.TempDir())
	require.ErrorIs(t, err, domain.ErrPatchTargetNotFound)
}

func TestFixWindowTypeGuard_AmbiguousAssets(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, ".vite/renderer/main_window/assets/MainWindowPage-1.js", `if(!a&&b)x();`)
	b := writeFixture(t, dir, ".vite/renderer/main_window/assets/MainWindowPage-2.js", `if(!c&&d)y();`)
	e := newTestEngine()

	err := e.fixWindowTypeGuard(dir)
	require.ErrorIs(t, err, domain.ErrPatchTargetAmbiguous)

	// Neither candidate may have been modified.
	assert.Equal(t, `if(!a&&b)x();`, readFixture(t, a))
	assert.Equal(t, `if(!c&&d)y();`, readFixture(t, b))
}
