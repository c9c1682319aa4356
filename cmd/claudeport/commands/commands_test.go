package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"claudeport/cmd/claudeport/commands"
	"claudeport/internal/app"
	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports/mocks"
)

func newTestCLI(t *testing.T) *commands.CLI {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	runner := mocks.NewMockCommandRunner(ctrl)
	downloader := mocks.NewMockDownloader(ctrl)

	return commands.New(app.New(logger, runner, downloader))
}

func TestRoot_Help(t *testing.T) {
	cli := newTestCLI(t)
	cli.SetArgs([]string{"--help"})

	require.NoError(t, cli.Execute(context.Background()))
}

func TestVersion(t *testing.T) {
	cli := newTestCLI(t)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
}

func TestBuild_InvalidFormat(t *testing.T) {
	cli := newTestCLI(t)
	cli.SetArgs([]string{"build", "-b", "rpm"})

	err := cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestBuild_InvalidCleanup(t *testing.T) {
	cli := newTestCLI(t)
	cli.SetArgs([]string{"build", "-c", "maybe"})

	err := cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidCleanup)
}

func TestBuild_RejectsPositionalArgs(t *testing.T) {
	cli := newTestCLI(t)
	cli.SetArgs([]string{"build", "extra"})

	require.Error(t, cli.Execute(context.Background()))
}
