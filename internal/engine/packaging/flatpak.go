package packaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"claudeport/internal/adapters/fs"
	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
)

const (
	flatpakRuntime        = "org.freedesktop.Platform"
	flatpakSdk            = "org.freedesktop.Sdk"
	flatpakRuntimeVersion = "23.08"
)

// flatpakFinishArgs is the sandbox permission set the app needs: network,
// both display protocols, GPU access, the home filesystem for downloads,
// and the session-bus names for notifications, portals and the tray.
var flatpakFinishArgs = []string{
	"--share=network",
	"--socket=x11",
	"--socket=wayland",
	"--device=dri",
	"--filesystem=home",
	"--talk-name=org.freedesktop.Notifications",
	"--talk-name=org.freedesktop.portal.Desktop",
	"--talk-name=org.kde.StatusNotifierWatcher",
}

type flatpakManifest struct {
	ID             string          `yaml:"id"`
	Runtime        string          `yaml:"runtime"`
	RuntimeVersion string          `yaml:"runtime-version"`
	Sdk            string          `yaml:"sdk"`
	Command        string          `yaml:"command"`
	FinishArgs     []string        `yaml:"finish-args"`
	Modules        []flatpakModule `yaml:"modules"`
}

type flatpakModule struct {
	Name          string              `yaml:"name"`
	Buildsystem   string              `yaml:"buildsystem"`
	BuildCommands []string            `yaml:"build-commands"`
	Sources       []map[string]string `yaml:"sources"`
}

// Flatpak builds a sandboxed bundle with flatpak-builder and exports it as
// a single-file .flatpak via build-bundle.
type Flatpak struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewFlatpak creates the flatpak back-end.
func NewFlatpak(runner ports.CommandRunner, logger ports.Logger) *Flatpak {
	return &Flatpak{runner: runner, logger: logger}
}

// Format implements ports.Backend.
func (f *Flatpak) Format() domain.Format { return domain.FormatFlatpak }

// Build assembles a build context under the working tree, runs
// flatpak-builder against the generated manifest and bundles the resulting
// repo. A bundle file missing after clean tool exits is reported through the
// not-found sentinel, since flatpak installations may still have succeeded
// locally.
func (f *Flatpak) Build(ctx context.Context, req ports.BuildRequest) (domain.PackageArtifact, error) {
	contextDir := filepath.Join(req.WorkTree.Root, "flatpak")
	if err := os.RemoveAll(contextDir); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}
	if err := f.assembleContext(contextDir, req); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}

	repoDir := filepath.Join(contextDir, "repo")
	buildDir := filepath.Join(contextDir, "builddir")
	manifestPath := filepath.Join(contextDir, domain.AppID+".yml")

	if err := f.runner.Run(ctx, ports.Command{
		Name: "flatpak-builder",
		Args: []string{"--force-clean", "--repo=" + repoDir, buildDir, manifestPath},
		Dir:  contextDir,
	}); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}

	outPath := filepath.Join(req.OutDir, domain.ArtifactFileName(domain.PackageName, req.Version, req.Arch, domain.FormatFlatpak))
	if err := f.runner.Run(ctx, ports.Command{
		Name: "flatpak",
		Args: []string{"build-bundle", repoDir, outPath, domain.AppID},
		Dir:  contextDir,
	}); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}

	if _, err := os.Stat(outPath); err != nil {
		f.logger.Warn(fmt.Sprintf("flatpak tooling finished but %s is missing", outPath))
		return domain.PackageArtifact{
			Path: domain.ArtifactNotFound, Format: domain.FormatFlatpak,
			Version: req.Version, Arch: req.Arch,
		}, nil
	}

	return domain.PackageArtifact{
		Path: outPath, Format: domain.FormatFlatpak,
		Version: req.Version, Arch: req.Arch,
	}, nil
}

// assembleContext lays out the flatpak-builder input: the staged tree, the
// two largest icon rasters, the launcher, the desktop entry and the
// generated manifest.
func (f *Flatpak) assembleContext(contextDir string, req ports.BuildRequest) error {
	if err := fs.CopyTree(req.StagingDir, filepath.Join(contextDir, domain.PackageName)); err != nil {
		return err
	}

	icons := largestIcons(req.Icons, 2)
	iconNames := make([]string, 0, len(icons))
	for i, src := range icons {
		name := fmt.Sprintf("icon-%d.png", i)
		if err := fs.CopyFile(src, filepath.Join(contextDir, name), domain.FilePerm); err != nil {
			return err
		}
		iconNames = append(iconNames, name)
	}

	installedDir := "/app/" + domain.PackageName
	if err := writeLauncher(
		filepath.Join(contextDir, domain.PackageName+".sh"),
		installedDir+"/electron",
		installedDir+"/"+filepath.ToSlash(stagedArchiveRelPath),
	); err != nil {
		return err
	}

	if err := writeDesktopEntry(
		filepath.Join(contextDir, domain.AppID+".desktop"),
		domain.PackageName, domain.AppID,
	); err != nil {
		return err
	}

	manifest, err := yaml.Marshal(buildFlatpakManifest(iconNames))
	if err != nil {
		return err
	}
	return fs.WriteFileAtomic(filepath.Join(contextDir, domain.AppID+".yml"), manifest, domain.FilePerm)
}

func buildFlatpakManifest(iconNames []string) flatpakManifest {
	commands := []string{
		fmt.Sprintf("cp -r %s /app/%s", domain.PackageName, domain.PackageName),
		fmt.Sprintf("install -Dm755 %s.sh /app/bin/%s", domain.PackageName, domain.PackageName),
		fmt.Sprintf("install -Dm644 %s.desktop /app/share/applications/%s.desktop", domain.AppID, domain.AppID),
	}
	iconSizes := []string{"256x256", "128x128"}
	for i, name := range iconNames {
		size := iconSizes[i%len(iconSizes)]
		commands = append(commands, fmt.Sprintf(
			"install -Dm644 %s /app/share/icons/hicolor/%s/apps/%s.png", name, size, domain.AppID))
	}

	return flatpakManifest{
		ID:             domain.AppID,
		Runtime:        flatpakRuntime,
		RuntimeVersion: flatpakRuntimeVersion,
		Sdk:            flatpakSdk,
		Command:        domain.PackageName,
		FinishArgs:     flatpakFinishArgs,
		Modules: []flatpakModule{{
			Name:          domain.PackageName,
			Buildsystem:   "simple",
			BuildCommands: commands,
			Sources:       []map[string]string{{"type": "dir", "path": "."}},
		}},
	}
}
