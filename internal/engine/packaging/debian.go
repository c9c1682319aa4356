package packaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"claudeport/internal/adapters/fs"
	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
)

const debianDepends = "nodejs (>= 12.0.0), npm, p7zip-full"

const debianControl = `Package: %s
Version: %s
Architecture: %s
Maintainer: Claude Desktop Linux Maintainers
Depends: %s
Description: Claude Desktop for Linux
 Unofficial Linux build of the Claude Desktop application.
`

// Debian builds a system package with dpkg-deb from a FHS-shaped root.
type Debian struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewDebian creates the debian back-end.
func NewDebian(runner ports.CommandRunner, logger ports.Logger) *Debian {
	return &Debian{runner: runner, logger: logger}
}

// Format implements ports.Backend.
func (d *Debian) Format() domain.Format { return domain.FormatDeb }

// Build lays out the package root under the working tree and invokes
// dpkg-deb. The application lands in /usr/lib, the launcher in /usr/bin,
// desktop entry and icons under /usr/share.
func (d *Debian) Build(ctx context.Context, req ports.BuildRequest) (domain.PackageArtifact, error) {
	pkgRoot := filepath.Join(req.WorkTree.Root, "deb", domain.PackageName)
	if err := os.RemoveAll(pkgRoot); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}
	if err := d.assembleRoot(pkgRoot, req); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}

	outPath := filepath.Join(req.OutDir, domain.ArtifactFileName(domain.PackageName, req.Version, req.Arch, domain.FormatDeb))
	if err := d.runner.Run(ctx, ports.Command{
		Name: "dpkg-deb",
		Args: []string{"--build", "--root-owner-group", pkgRoot, outPath},
	}); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}

	if _, err := os.Stat(outPath); err != nil {
		d.logger.Warn(fmt.Sprintf("dpkg-deb finished but %s is missing", outPath))
		return domain.PackageArtifact{
			Path: domain.ArtifactNotFound, Format: domain.FormatDeb,
			Version: req.Version, Arch: req.Arch,
		}, nil
	}

	return domain.PackageArtifact{
		Path: outPath, Format: domain.FormatDeb,
		Version: req.Version, Arch: req.Arch,
	}, nil
}

func (d *Debian) assembleRoot(pkgRoot string, req ports.BuildRequest) error {
	installDir := filepath.Join("usr", "lib", domain.PackageName)
	if err := fs.CopyTree(req.StagingDir, filepath.Join(pkgRoot, installDir)); err != nil {
		return err
	}

	control := fmt.Sprintf(debianControl, domain.PackageName, req.Version, req.Arch, debianDepends)
	if err := fs.WriteFileAtomic(filepath.Join(pkgRoot, "DEBIAN", "control"), []byte(control), domain.FilePerm); err != nil {
		return err
	}

	if err := writeLauncher(
		filepath.Join(pkgRoot, "usr", "bin", domain.PackageName),
		"/"+filepath.ToSlash(installDir)+"/electron",
		"/"+filepath.ToSlash(installDir)+"/"+filepath.ToSlash(stagedArchiveRelPath),
	); err != nil {
		return err
	}

	if err := writeDesktopEntry(
		filepath.Join(pkgRoot, "usr", "share", "applications", domain.PackageName+".desktop"),
		domain.PackageName, domain.PackageName,
	); err != nil {
		return err
	}

	if len(req.Icons) > 0 {
		largest := req.Icons[len(req.Icons)-1]
		dest := filepath.Join(pkgRoot, "usr", "share", "icons", "hicolor", "256x256", "apps", domain.PackageName+".png")
		if err := fs.CopyFile(largest, dest, domain.FilePerm); err != nil {
			return err
		}
	}
	return nil
}
