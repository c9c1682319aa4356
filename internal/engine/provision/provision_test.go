package provision_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
	"claudeport/internal/core/ports/mocks"
	"claudeport/internal/engine/provision"
)

func seedElectronEnv(t *testing.T, work domain.WorkTree) {
	t.Helper()
	envDir := work.ElectronEnv()
	require.NoError(t, os.MkdirAll(filepath.Join(envDir, "node_modules", "electron", "dist"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(envDir, "node_modules", ".bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(envDir, "node_modules", ".bin", "asar"), []byte("#!/bin/sh\n"), 0o755))
}

func TestEnsure_SystemNodeAndCachedEnv(t *testing.T) {
	t.Setenv("PATH", os.Getenv("PATH"))
	t.Setenv("HOME", t.TempDir())

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockCommandRunner(ctrl)
	downloader := mocks.NewMockDownloader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	work := domain.NewWorkTree(t.TempDir())
	seedElectronEnv(t, work)

	runner.EXPECT().
		Output(gomock.Any(), ports.Command{Name: "node", Args: []string{"--version"}}).
		Return("v20.18.1", nil)

	tc, err := provision.New(runner, downloader, logger).Ensure(context.Background(), work, domain.ArchAmd64)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(work.ElectronEnv(), "node_modules", "electron", "dist"), tc.ElectronDir)
	assert.Equal(t, filepath.Join(work.ElectronEnv(), "node_modules", ".bin", "asar"), tc.AsarBin)
	assert.Empty(t, tc.NodeBinDir)
}

func TestEnsure_OldNodeTriggersInstall(t *testing.T) {
	t.Setenv("PATH", os.Getenv("PATH"))
	t.Setenv("HOME", t.TempDir())

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockCommandRunner(ctrl)
	downloader := mocks.NewMockDownloader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	work := domain.NewWorkTree(t.TempDir())
	seedElectronEnv(t, work)

	runner.EXPECT().
		Output(gomock.Any(), ports.Command{Name: "node", Args: []string{"--version"}}).
		Return("v18.19.0", nil)

	downloader.EXPECT().
		Fetch(gomock.Any(), "https://nodejs.org/dist/v20.18.1/node-v20.18.1-linux-x64.tar.xz", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, dest string) error {
			require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
			return os.WriteFile(dest, []byte("tarball"), 0o644)
		})

	runner.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) error {
			require.Equal(t, "tar", cmd.Name)
			binDir := filepath.Join(work.Root, "node-v20.18.1-linux-x64", "bin")
			require.NoError(t, os.MkdirAll(binDir, 0o755))
			return os.WriteFile(filepath.Join(binDir, "node"), []byte("#!/bin/sh\n"), 0o755)
		})

	tc, err := provision.New(runner, downloader, logger).Ensure(context.Background(), work, domain.ArchAmd64)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work.Root, "node-v20.18.1-linux-x64", "bin"), tc.NodeBinDir)
}

func TestEnsure_Arm64DownloadsArm64Dist(t *testing.T) {
	t.Setenv("PATH", os.Getenv("PATH"))
	t.Setenv("HOME", t.TempDir())

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockCommandRunner(ctrl)
	downloader := mocks.NewMockDownloader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	work := domain.NewWorkTree(t.TempDir())

	runner.EXPECT().
		Output(gomock.Any(), gomock.Any()).
		Return("", os.ErrNotExist)

	downloader.EXPECT().
		Fetch(gomock.Any(), "https://nodejs.org/dist/v20.18.1/node-v20.18.1-linux-arm64.tar.xz", gomock.Any()).
		Return(os.ErrDeadlineExceeded)

	_, err := provision.New(runner, downloader, logger).Ensure(context.Background(), work, domain.ArchArm64)
	require.ErrorContains(t, err, domain.ErrNodeProvisionFailed.Error())
}

func TestEnsure_NpmInstall(t *testing.T) {
	t.Setenv("PATH", os.Getenv("PATH"))
	t.Setenv("HOME", t.TempDir())

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockCommandRunner(ctrl)
	downloader := mocks.NewMockDownloader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	work := domain.NewWorkTree(t.TempDir())

	runner.EXPECT().
		Output(gomock.Any(), ports.Command{Name: "node", Args: []string{"--version"}}).
		Return("v22.1.0", nil)

	runner.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) error {
			require.Equal(t, "npm", cmd.Name)
			require.Equal(t, []string{"install", "--no-audit", "--no-fund"}, cmd.Args)
			require.Equal(t, work.ElectronEnv(), cmd.Dir)

			// The ephemeral manifest must be in place before npm runs.
			manifest, err := os.ReadFile(filepath.Join(cmd.Dir, "package.json"))
			require.NoError(t, err)
			assert.Contains(t, string(manifest), "@electron/asar")

			seedElectronEnv(t, work)
			return nil
		})

	tc, err := provision.New(runner, downloader, logger).Ensure(context.Background(), work, domain.ArchAmd64)
	require.NoError(t, err)
	assert.DirExists(t, tc.ElectronDir)
	assert.FileExists(t, tc.AsarBin)
}

func TestEnsure_NpmInstallWithoutArtifactsFails(t *testing.T) {
	t.Setenv("PATH", os.Getenv("PATH"))
	t.Setenv("HOME", t.TempDir())

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockCommandRunner(ctrl)
	downloader := mocks.NewMockDownloader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	work := domain.NewWorkTree(t.TempDir())

	runner.EXPECT().
		Output(gomock.Any(), gomock.Any()).
		Return("v22.1.0", nil)
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(nil)

	_, err := provision.New(runner, downloader, logger).Ensure(context.Background(), work, domain.ArchAmd64)
	require.ErrorContains(t, err, domain.ErrElectronInstallFailed.Error())
}
