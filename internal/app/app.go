// Package app implements the application layer for claudeport.
package app

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/zerr"

	"claudeport/internal/adapters/detector"
	"claudeport/internal/adapters/fs"
	"claudeport/internal/adapters/telemetry"
	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
	"claudeport/internal/engine/acquire"
	"claudeport/internal/engine/icons"
	"claudeport/internal/engine/packaging"
	"claudeport/internal/engine/patch"
	"claudeport/internal/engine/provision"
	"claudeport/internal/engine/resolver"
)

// BuildOptions carries the raw CLI flag values for one build invocation.
type BuildOptions struct {
	Format  string
	Cleanup string
	DryRun  bool
}

// App drives the full pipeline: resolve, provision, acquire, patch,
// extract icons, package.
type App struct {
	logger      ports.Logger
	resolver    *resolver.Resolver
	provisioner *provision.Provisioner
	acquirer    *acquire.Acquirer
	patcher     *patch.Engine
	icons       *icons.Extractor
	dispatcher  *packaging.Dispatcher
	tracer      trace.Tracer
	interactive func() bool
}

// New creates a fully wired App from the adapter layer.
func New(logger ports.Logger, runner ports.CommandRunner, downloader ports.Downloader) *App {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewBridge(logger)),
	)

	return &App{
		logger:      logger,
		resolver:    resolver.New(),
		provisioner: provision.New(runner, downloader, logger),
		acquirer:    acquire.New(runner, downloader, logger),
		patcher:     patch.New(runner, logger),
		icons:       icons.New(runner, logger),
		dispatcher: packaging.NewDispatcher(
			packaging.NewDebian(runner, logger),
			packaging.NewAppImage(runner, logger),
			packaging.NewFlatpak(runner, logger),
		),
		tracer:      tp.Tracer("claudeport"),
		interactive: detector.IsInteractive,
	}
}

// Build runs the pipeline end to end. Validation and host resolution happen
// before any side effect; dry-run stops right after them.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	format, err := domain.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	cleanup, err := domain.ParseCleanup(opts.Cleanup)
	if err != nil {
		return err
	}

	target, err := a.resolver.Resolve()
	if err != nil {
		return err
	}
	cfg := domain.BuildConfig{Format: format, Cleanup: cleanup, Arch: target.Arch}

	if opts.DryRun {
		a.logger.Info(fmt.Sprintf("dry run: would build %s for %s from %s (cleanup=%t)",
			cfg.Format, cfg.Arch, target.DownloadURL, cfg.Cleanup))
		return nil
	}

	invocationDir, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWorkTreeFailed.Error())
	}
	work := domain.NewWorkTree(invocationDir)
	if err := recreateWorkTree(work); err != nil {
		return err
	}

	artifact, err := a.runPipeline(ctx, cfg, work, target, invocationDir)
	if err != nil {
		// The stage span already reported the failure; the full chain goes
		// to the logger and only the sentinel travels up.
		a.logger.Error(err)
		return domain.ErrBuildFailed
	}

	a.report(artifact)

	if cfg.Cleanup {
		if err := os.RemoveAll(work.Root); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to clean up working tree: %v", err))
		}
	}
	return nil
}

func (a *App) runPipeline(ctx context.Context, cfg domain.BuildConfig, work domain.WorkTree, target domain.Target, invocationDir string) (domain.PackageArtifact, error) {
	var tc provision.Toolchain
	if err := a.stage(ctx, "provision toolchain", func(ctx context.Context) error {
		var err error
		tc, err = a.provisioner.Ensure(ctx, work, cfg.Arch)
		return err
	}); err != nil {
		return domain.PackageArtifact{}, err
	}

	var pkg domain.VendorPackage
	if err := a.stage(ctx, "acquire release", func(ctx context.Context) error {
		var err error
		pkg, err = a.acquirer.Acquire(ctx, work, target)
		return err
	}); err != nil {
		return domain.PackageArtifact{}, err
	}

	if err := a.stage(ctx, "patch application", func(ctx context.Context) error {
		return a.patcher.Run(ctx, work, pkg, tc)
	}); err != nil {
		return domain.PackageArtifact{}, err
	}

	var rasters []string
	if err := a.stage(ctx, "extract icons", func(ctx context.Context) error {
		var err error
		rasters, err = a.icons.Extract(ctx, pkg.ExePath, work.Icons())
		return err
	}); err != nil {
		return domain.PackageArtifact{}, err
	}

	var artifact domain.PackageArtifact
	if err := a.stage(ctx, "package "+string(cfg.Format), func(ctx context.Context) error {
		var err error
		artifact, err = a.dispatcher.Build(ctx, cfg.Format, ports.BuildRequest{
			Version:    pkg.Version,
			Arch:       cfg.Arch,
			WorkTree:   work,
			StagingDir: work.Staging(),
			Icons:      rasters,
			OutDir:     invocationDir,
		})
		return err
	}); err != nil {
		return domain.PackageArtifact{}, err
	}
	return artifact, nil
}

// stage wraps one pipeline phase in a span; the telemetry bridge turns the
// span lifecycle into progress output.
func (a *App) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := a.tracer.Start(ctx, name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// report logs the final artifact with its content digest. Install guidance
// is for a human at a terminal; CI runs and piped output don't get it.
func (a *App) report(artifact domain.PackageArtifact) {
	if !artifact.Found() {
		a.logger.Warn(fmt.Sprintf("%s packaging finished without an artifact file", artifact.Format))
		return
	}

	if digest, err := fs.HashFile(artifact.Path); err == nil {
		a.logger.Info(fmt.Sprintf("built %s (xxh64 %s)", artifact.Path, digest))
	} else {
		a.logger.Info(fmt.Sprintf("built %s", artifact.Path))
	}

	if detector.IsCI() || !a.interactive() {
		return
	}
	switch artifact.Format {
	case domain.FormatDeb:
		a.logger.Info(fmt.Sprintf("install with: sudo apt install %s", artifact.Path))
	case domain.FormatAppImage:
		a.logger.Info(fmt.Sprintf("run with: chmod +x %s && %s", artifact.Path, artifact.Path))
	case domain.FormatFlatpak:
		a.logger.Info(fmt.Sprintf("install with: flatpak install %s", artifact.Path))
	}
}

// recreateWorkTree deletes and recreates the per-run directories. The
// Electron environment directory is deliberately left alone.
func recreateWorkTree(work domain.WorkTree) error {
	for _, dir := range work.Disposable() {
		if err := os.RemoveAll(dir); err != nil {
			return zerr.Wrap(err, domain.ErrWorkTreeFailed.Error())
		}
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.Wrap(err, domain.ErrWorkTreeFailed.Error())
		}
	}
	return nil
}
