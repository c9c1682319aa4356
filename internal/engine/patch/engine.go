package patch

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"claudeport/internal/adapters/fs"
	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
	"claudeport/internal/engine/provision"
)

// Engine runs the ordered patch pipeline over one acquired release.
type Engine struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// New creates a patch Engine.
func New(runner ports.CommandRunner, logger ports.Logger) *Engine {
	return &Engine{runner: runner, logger: logger}
}

// Run unpacks the application archive, applies every transformation, repacks
// the archive and assembles the staging tree for the packaging back-ends.
// The step order is fixed: the entry-point indirection must land before the
// bundle rewrites, and the repack is always last.
func (e *Engine) Run(ctx context.Context, work domain.WorkTree, pkg domain.VendorPackage, tc provision.Toolchain) error {
	contentDir := work.Content()

	if err := e.runner.Run(ctx, ports.Command{
		Name: tc.AsarBin,
		Args: []string{"extract", pkg.ArchivePath, contentDir},
		Env:  []string{"PATH=" + os.Getenv("PATH")},
	}); err != nil {
		return zerr.Wrap(err, domain.ErrExtractFailed.Error())
	}

	originalMain, err := e.entryIndirection(contentDir)
	if err != nil {
		return err
	}
	mainPath := filepath.Join(contentDir, filepath.FromSlash(originalMain))

	if err := e.normalizeDecorations(contentDir); err != nil {
		return err
	}
	if err := e.injectNativeStubs(contentDir, pkg.UnpackedPath); err != nil {
		return err
	}
	if err := e.fixWindowTypeGuard(contentDir); err != nil {
		return err
	}
	if err := e.fixTrayHandler(mainPath); err != nil {
		return err
	}
	if err := e.addLinuxHelperCase(mainPath); err != nil {
		return err
	}

	stagingDir := work.Staging()
	if err := e.copyVendorResources(ctx, pkg, contentDir, tc.ElectronDir, stagingDir); err != nil {
		return zerr.Wrap(err, domain.ErrStageFailed.Error())
	}

	return e.repackAndStage(ctx, pkg, tc, contentDir, stagingDir)
}

// repackAndStage packs the patched content tree back into an asar and
// assembles the staging layout: the Electron distribution at the root with
// the repacked archive and its unpacked tree under resources/.
func (e *Engine) repackAndStage(ctx context.Context, pkg domain.VendorPackage, tc provision.Toolchain, contentDir, stagingDir string) error {
	resourcesDir := filepath.Join(stagingDir, "resources")
	archive := filepath.Join(resourcesDir, "app.asar")

	if err := fs.CopyTree(tc.ElectronDir, stagingDir); err != nil {
		return zerr.Wrap(err, domain.ErrStageFailed.Error())
	}

	if err := os.MkdirAll(resourcesDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrRepackFailed.Error())
	}
	if err := e.runner.Run(ctx, ports.Command{
		Name: tc.AsarBin,
		Args: []string{"pack", contentDir, archive},
		Env:  []string{"PATH=" + os.Getenv("PATH")},
	}); err != nil {
		return zerr.Wrap(err, domain.ErrRepackFailed.Error())
	}

	if _, err := os.Stat(pkg.UnpackedPath); err == nil {
		if err := fs.CopyTree(pkg.UnpackedPath, archive+".unpacked"); err != nil {
			return zerr.Wrap(err, domain.ErrStageFailed.Error())
		}
	}

	e.logger.Info("patched archive staged at " + stagingDir)
	return nil
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path) //nolint:gosec // paths are pipeline-controlled
}
