// Package provision guarantees the Node.js runtime and the local Electron
// environment (including the asar packer) are available for the run.
package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"

	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
)

const (
	// minNodeMajor is the minimum acceptable system Node.js major version.
	minNodeMajor = 20

	// pinnedNodeVersion is the distribution installed into the working tree
	// when the system runtime is too old or absent.
	pinnedNodeVersion = "20.18.1"

	nodeDistBase = "https://nodejs.org/dist"
)

// electronPackageJSON is the ephemeral manifest used to install the local
// Electron environment. Versions float within a major on purpose: the
// runtime only hosts the patched archive, it is not part of the patch set.
const electronPackageJSON = `{
  "name": "claude-desktop-electron-env",
  "private": true,
  "devDependencies": {
    "electron": "^33.0.0",
    "@electron/asar": "^3.2.0"
  }
}
`

var nodeVersionPattern = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)`)

// Toolchain points at the provisioned binaries and directories.
type Toolchain struct {
	// ElectronDir is the Electron distribution directory (dist/ with the binary).
	ElectronDir string
	// AsarBin is the asar packer executable.
	AsarBin string
	// NodeBinDir is the directory holding the node/npm binaries in use.
	NodeBinDir string
}

// Provisioner implements the toolchain contract.
type Provisioner struct {
	runner     ports.CommandRunner
	downloader ports.Downloader
	logger     ports.Logger
}

// New creates a Provisioner.
func New(runner ports.CommandRunner, downloader ports.Downloader, logger ports.Logger) *Provisioner {
	return &Provisioner{runner: runner, downloader: downloader, logger: logger}
}

// Ensure makes a Node.js >= 20 runtime reachable on PATH and a local
// Electron + asar installation available under the working tree. Failure at
// any install step aborts the run; no partial-success state is persisted.
func (p *Provisioner) Ensure(ctx context.Context, work domain.WorkTree, arch domain.Architecture) (Toolchain, error) {
	extendPathWithVersionManagers()

	nodeBinDir, err := p.ensureNode(ctx, work, arch)
	if err != nil {
		return Toolchain{}, err
	}

	envDir := work.ElectronEnv()
	electronDir := filepath.Join(envDir, "node_modules", "electron", "dist")
	asarBin := filepath.Join(envDir, "node_modules", ".bin", "asar")

	// Cache predicate: distribution directory and packer binary both exist.
	// Nothing deeper is validated.
	if dirExists(electronDir) && fileExists(asarBin) {
		p.logger.Info("reusing existing Electron environment")
		return Toolchain{ElectronDir: electronDir, AsarBin: asarBin, NodeBinDir: nodeBinDir}, nil
	}

	if err := p.installElectronEnv(ctx, envDir); err != nil {
		return Toolchain{}, err
	}

	if !dirExists(electronDir) || !fileExists(asarBin) {
		return Toolchain{}, zerr.With(domain.ErrElectronInstallFailed, "dir", envDir)
	}

	return Toolchain{ElectronDir: electronDir, AsarBin: asarBin, NodeBinDir: nodeBinDir}, nil
}

// ensureNode accepts the system runtime when recent enough, otherwise
// installs the pinned distribution into the working tree and prepends its
// bin directory to PATH for the remainder of the run.
func (p *Provisioner) ensureNode(ctx context.Context, work domain.WorkTree, arch domain.Architecture) (string, error) {
	if out, err := p.runner.Output(ctx, ports.Command{Name: "node", Args: []string{"--version"}}); err == nil {
		if major, ok := parseNodeMajor(out); ok && major >= minNodeMajor {
			p.logger.Info(fmt.Sprintf("using system Node.js %s", out))
			return "", nil
		}
	}

	distName := fmt.Sprintf("node-v%s-linux-%s", pinnedNodeVersion, arch.NodeArch())
	tarball := distName + ".tar.xz"
	url := fmt.Sprintf("%s/v%s/%s", nodeDistBase, pinnedNodeVersion, tarball)
	dest := filepath.Join(work.Downloads(), tarball)

	p.logger.Info(fmt.Sprintf("system Node.js missing or too old, installing %s", distName))

	if err := p.downloader.Fetch(ctx, url, dest); err != nil {
		return "", zerr.Wrap(err, domain.ErrNodeProvisionFailed.Error())
	}

	if err := os.MkdirAll(work.Root, domain.DirPerm); err != nil {
		return "", zerr.Wrap(err, domain.ErrNodeProvisionFailed.Error())
	}
	if err := p.runner.Run(ctx, ports.Command{
		Name: "tar",
		Args: []string{"-xJf", dest, "-C", work.Root},
	}); err != nil {
		return "", zerr.Wrap(err, domain.ErrNodeProvisionFailed.Error())
	}

	binDir := filepath.Join(work.Root, distName, "bin")
	if !fileExists(filepath.Join(binDir, "node")) {
		return "", zerr.With(domain.ErrNodeProvisionFailed, "bin_dir", binDir)
	}

	prependPath(binDir)
	return binDir, nil
}

func (p *Provisioner) installElectronEnv(ctx context.Context, envDir string) error {
	if err := os.MkdirAll(envDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrElectronInstallFailed.Error())
	}

	manifest := filepath.Join(envDir, "package.json")
	if err := os.WriteFile(manifest, []byte(electronPackageJSON), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrElectronInstallFailed.Error())
	}

	if err := p.runner.Run(ctx, ports.Command{
		Name: "npm",
		Args: []string{"install", "--no-audit", "--no-fund"},
		Dir:  envDir,
		Env:  []string{"PATH=" + os.Getenv("PATH")},
	}); err != nil {
		return zerr.Wrap(err, domain.ErrElectronInstallFailed.Error())
	}
	return nil
}

// parseNodeMajor extracts the major version from `node --version` output.
func parseNodeMajor(out string) (int, bool) {
	m := nodeVersionPattern.FindStringSubmatch(strings.TrimSpace(out))
	if m == nil {
		return 0, false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return major, true
}

// extendPathWithVersionManagers probes the user's home directory for nvm
// installations and appends their bin directories to PATH, so a
// user-managed runtime can satisfy the version probe.
func extendPathWithVersionManagers() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	matches, _ := filepath.Glob(filepath.Join(home, ".nvm", "versions", "node", "*", "bin"))
	for _, dir := range matches {
		appendPath(dir)
	}
}

func prependPath(dir string) {
	_ = os.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func appendPath(dir string) {
	current := os.Getenv("PATH")
	if strings.Contains(current, dir) {
		return
	}
	_ = os.Setenv("PATH", current+string(os.PathListSeparator)+dir)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
