package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"vocstage/internal/config"
	"vocstage/internal/dataset"
	"vocstage/internal/logger"
	"vocstage/internal/service/fetcher"
	"vocstage/internal/service/preparer"
	"vocstage/internal/service/stager"
)

var errStagerAlreadyRunning = errors.New("a staging run is already in progress")

// Options are inputs accepted by the pipeline entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// SkipPrepare stops the pipeline after staging, without invoking the
	// external preparation routine.
	SkipPrepare bool
	// KeepScratch leaves the scratch directory in place for inspection.
	KeepScratch bool
	// Quiet disables download progress bars.
	Quiet bool
}

// runner holds the state for a single staging run.
// It is intentionally unexported—call Run(ctx, Options) from callers.
type runner struct {
	cfg            *config.Config
	opts           *Options
	scratchCreated bool
}

// Run executes the staging pipeline and is the public entry point for the CLI.
// Cleanup of the marker and scratch directory is unconditional: it happens
// whether the stages and the preparation routine succeed or not.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "vocstage")

	r, err := newRunner(ctx, opts)
	if err != nil {
		return err
	}

	defer r.cleanup(ctx)

	if err = r.run(ctx); err != nil {
		logger.ErrorKV(ctx, "Staging run failed", "error", err)
		return err
	}

	logger.Info(ctx, "Staging completed")

	return nil
}

// newRunner loads settings and writes a marker to avoid concurrent runs.
func newRunner(ctx context.Context, opts *Options) (*runner, error) {
	r := &runner{opts: opts}

	if IsStagerRunningNow(ctx) {
		return r, errStagerAlreadyRunning
	}

	runMarker, err := os.Create(MarkerFilename)
	if err != nil {
		return r, err
	}

	if err = runMarker.Close(); err != nil {
		return r, err
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigFilename
	}

	cfg, err := loadOrDefault(configPath)
	if err != nil {
		return r, err
	}

	r.cfg = cfg

	return r, nil
}

// loadOrDefault reads the settings file when present and falls back to
// defaults when it is not: the pipeline is expected to work out of the box.
func loadOrDefault(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg = new(config.Config)
	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// run executes the three stages strictly in sequence:
// 1) Fetch the three split archives into the scratch directory.
// 2) Stage each archive into its final dataset directory.
// 3) Invoke the external preparation routine.
// The first failing step halts the run; nothing downstream is attempted.
func (r *runner) run(ctx context.Context) error {
	logger.InfoKV(ctx, "Creating scratch directory", "path", r.cfg.ScratchDir)

	// The scratch directory must not exist beforehand. A rerun without
	// prior cleanup fails right here.
	if err := os.Mkdir(r.cfg.ScratchDir, 0o755); err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}

	r.scratchCreated = true

	if err := r.fetchArchives(ctx); err != nil {
		return err
	}

	if err := r.stageArchives(ctx); err != nil {
		return err
	}

	if r.opts.SkipPrepare {
		logger.Info(ctx, "Skipping the preparation routine")
		return nil
	}

	logger.Info(ctx, "Invoking the preparation routine")

	if err := preparer.Run(ctx, r.cfg.OutputDir, r.cfg.PrepareCommand); err != nil {
		return err
	}

	return nil
}

// fetchArchives downloads every split archive before any extraction starts.
func (r *runner) fetchArchives(ctx context.Context) error {
	options := []fetcher.Option{
		fetcher.WithClient(&http.Client{Timeout: r.cfg.Timeout}),
	}
	if r.opts.Quiet {
		options = append(options, fetcher.WithoutProgress())
	}

	f := fetcher.New(options...)

	for _, a := range dataset.Splits() {
		archiveURL, err := a.URL(r.cfg.MirrorURL)
		if err != nil {
			return err
		}

		logger.InfoKV(ctx, "Downloading archive", "url", archiveURL)

		if err = f.Fetch(ctx, archiveURL, a.LocalPath(r.cfg.ScratchDir)); err != nil {
			return err
		}
	}

	return nil
}

// stageArchives promotes each downloaded archive into its dataset directory.
func (r *runner) stageArchives(ctx context.Context) error {
	s := stager.New(r.cfg.ScratchDir, r.cfg.OutputDir)

	for _, a := range dataset.Splits() {
		if err := s.Stage(ctx, a); err != nil {
			return err
		}
	}

	return nil
}

// cleanup removes the run marker and the scratch directory. It runs no matter
// how the stages or the preparation routine ended.
func (r *runner) cleanup(ctx context.Context) {
	if _, err := os.Stat(MarkerFilename); err == nil {
		_ = os.Remove(MarkerFilename)
	}

	if r.scratchCreated && !r.opts.KeepScratch {
		if _, err := os.Stat(r.cfg.ScratchDir); err == nil {
			_ = os.RemoveAll(r.cfg.ScratchDir)
		}
	}

	logger.Info(ctx, "The stager has been stopped")
}
