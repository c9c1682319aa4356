package patch

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"claudeport/internal/adapters/fs"
	"claudeport/internal/core/domain"
)

const copyConcurrency = 4

// copyVendorResources carries the locale catalogs and tray icons that live
// next to the asar in the Windows payload. Locales go both into the content
// tree and next to the Electron binary, where the runtime looks them up;
// tray icons are staged outside the archive so the packaged app can hand
// the desktop raster files instead of asar offsets.
func (e *Engine) copyVendorResources(ctx context.Context, pkg domain.VendorPackage, contentDir, electronDir, stagingDir string) error {
	locales, err := filepath.Glob(filepath.Join(pkg.ResourcesDir, "*.json"))
	if err != nil {
		return err
	}
	trayIcons, err := filepath.Glob(filepath.Join(pkg.ResourcesDir, "Tray*"))
	if err != nil {
		return err
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(copyConcurrency)

	for _, src := range locales {
		name := filepath.Base(src)
		g.Go(func() error {
			return fs.CopyFile(src, filepath.Join(contentDir, "resources", name), domain.FilePerm)
		})
		g.Go(func() error {
			return fs.CopyFile(src, filepath.Join(electronDir, "resources", name), domain.FilePerm)
		})
	}
	for _, src := range trayIcons {
		name := filepath.Base(src)
		g.Go(func() error {
			return fs.CopyFile(src, filepath.Join(stagingDir, "tray", name), domain.FilePerm)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	e.logger.Info(fmt.Sprintf("copied %d locale catalogs and %d tray icons", len(locales), len(trayIcons)))
	return nil
}
