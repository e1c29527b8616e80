// Package pipeline orchestrates the six stage run: story, assets, storyboard,
// plan, render, assembly. A checkpoint validates each stage's output before
// the next stage consumes it, and the first violation stops the run.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phatcz/TiktokClipGenerator/internal/assemble"
	"github.com/phatcz/TiktokClipGenerator/internal/assets"
	"github.com/phatcz/TiktokClipGenerator/internal/config"
	"github.com/phatcz/TiktokClipGenerator/internal/logging"
	"github.com/phatcz/TiktokClipGenerator/internal/notifications"
	"github.com/phatcz/TiktokClipGenerator/internal/providers/registry"
	"github.com/phatcz/TiktokClipGenerator/internal/render"
	"github.com/phatcz/TiktokClipGenerator/internal/runstore"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
	"github.com/phatcz/TiktokClipGenerator/internal/storyboard"
	"github.com/phatcz/TiktokClipGenerator/internal/validate"
	"github.com/phatcz/TiktokClipGenerator/internal/videoplan"
)

// Options carries per-run overrides.
type Options struct {
	// CharacterID and LocationID override the default candidate selection
	// before the storyboard stage. Zero keeps the default.
	CharacterID int
	LocationID  int
}

// Outcome collects every stage artifact of a completed run.
type Outcome struct {
	RunID      int64
	Story      story.Story
	Assets     assets.Set
	Storyboard storyboard.Storyboard
	Plan       videoplan.Plan
	Batch      render.BatchResult
	Assembly   assemble.Result
}

// Runner executes pipeline runs. Providers are resolved once per run so all
// segments of a run see the same backend.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *runstore.Store
	notifier notifications.Service
	registry *registry.Registry
}

func New(cfg *config.Config, logger *slog.Logger, store *runstore.Store, notifier notifications.Service) *Runner {
	return &Runner{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		store:    store,
		notifier: notifier,
		registry: registry.New(cfg, logger),
	}
}

// Run executes the full pipeline for one brief. The returned outcome carries
// every stage artifact produced before a failure, so callers can inspect how
// far a failed run progressed.
func (r *Runner) Run(ctx context.Context, brief story.Brief, opts Options) (Outcome, error) {
	var outcome Outcome

	briefJSON, err := json.Marshal(brief)
	if err != nil {
		return outcome, fmt.Errorf("encode brief: %w", err)
	}
	run, err := r.store.NewRun(ctx, string(briefJSON))
	if err != nil {
		return outcome, fmt.Errorf("record run: %w", err)
	}
	outcome.RunID = run.ID
	ctx = services.WithRunID(ctx, run.ID)
	logger := logging.WithContext(ctx, r.logger)

	if err := r.notifier.NotifyRunStarted(ctx, brief.Product, brief.Platform); err != nil {
		logger.Warn("run start notification failed", logging.Error(err))
	}

	started := time.Now()
	logger.Info("run started",
		logging.String("goal", brief.Goal),
		logging.String("product", brief.Product),
	)

	if err := r.executeStages(ctx, brief, opts, &outcome); err != nil {
		stage := "unknown"
		var failed *stageError
		if errors.As(err, &failed) {
			stage = failed.stage
		}
		if storeErr := r.store.Fail(ctx, run.ID, stage, err.Error()); storeErr != nil {
			logger.Error("recording run failure failed", logging.Error(storeErr))
		}
		if notifyErr := r.notifier.NotifyRunFailed(ctx, brief.Product, stage, err); notifyErr != nil {
			logger.Warn("run failure notification failed", logging.Error(notifyErr))
		}
		logger.Error("run failed",
			logging.String("stage", stage),
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err),
		)
		return outcome, err
	}

	if err := r.store.Complete(ctx, run.ID, outcome.Assembly.OutputPath); err != nil {
		logger.Error("recording run completion failed", logging.Error(err))
	}
	elapsed := time.Since(started)
	if err := r.notifier.NotifyRunCompleted(ctx, brief.Product, outcome.Assembly.OutputPath, elapsed); err != nil {
		logger.Warn("run completion notification failed", logging.Error(err))
	}
	logger.Info("run completed",
		logging.String("output_path", outcome.Assembly.OutputPath),
		logging.Duration("elapsed", elapsed),
	)
	return outcome, nil
}

func (r *Runner) executeStages(ctx context.Context, brief story.Brief, opts Options, outcome *Outcome) error {
	images := r.registry.ResolveImage()
	video := r.registry.ResolveVideo()

	// Stage 1: story.
	err := r.stage(ctx, validate.StageStory, func(ctx context.Context) (any, error) {
		outcome.Story = story.Generate(brief)
		return outcome.Story, nil
	})
	if err != nil {
		return err
	}

	// Stage 2: assets.
	err = r.stage(ctx, validate.StageAssets, func(ctx context.Context) (any, error) {
		generator := assets.NewGenerator(images, r.logger, r.cfg.Pipeline.NumCharacters, r.cfg.Pipeline.NumLocations)
		set, err := generator.Generate(ctx, outcome.Story)
		if err != nil {
			return nil, err
		}
		if opts.CharacterID != 0 || opts.LocationID != 0 {
			set, err = set.WithSelection(opts.CharacterID, opts.LocationID)
			if err != nil {
				return nil, err
			}
		}
		outcome.Assets = set
		return set, nil
	})
	if err != nil {
		return err
	}

	// Stage 3: storyboard.
	err = r.stage(ctx, validate.StageStoryboard, func(ctx context.Context) (any, error) {
		board, err := storyboard.Build(outcome.Assets)
		if err != nil {
			return nil, err
		}
		outcome.Storyboard = board
		return board, nil
	})
	if err != nil {
		return err
	}

	// Stage 4: plan.
	err = r.stage(ctx, validate.StagePlan, func(ctx context.Context) (any, error) {
		plan, err := videoplan.Generate(outcome.Storyboard)
		if err != nil {
			return nil, err
		}
		outcome.Plan = plan
		return plan, nil
	})
	if err != nil {
		return err
	}

	// Stage 5: render.
	renderer := render.NewRenderer(video, r.logger)
	err = r.stage(ctx, validate.StageRender, func(ctx context.Context) (any, error) {
		batch, err := renderer.RenderPlan(ctx, outcome.Plan)
		if err != nil {
			return nil, err
		}
		outcome.Batch = batch
		return batch, nil
	})
	if err != nil {
		return err
	}

	// Stage 6: assembly.
	return r.stage(ctx, validate.StageAssembly, func(ctx context.Context) (any, error) {
		assembler := assemble.New(r.cfg.Paths.OutputDir, r.cfg.Paths.SegmentsDir,
			r.cfg.Assembly.MaxRetries, r.cfg.AssemblyRetryWait(), renderer.RenderSegment, r.logger)
		result, err := assembler.Assemble(ctx, outcome.Plan, outcome.Batch)
		if err != nil {
			return nil, err
		}
		outcome.Assembly = result
		if !result.Success {
			return result, services.Wrap(services.ErrProviderFailure, validate.StageAssembly, "assemble",
				fmt.Sprintf("%d segments failed after retries", len(result.FailedSegments)), nil)
		}
		return result, nil
	})
}

// stageError tags a failure with the stage it happened in so run records and
// notifications can name it.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// stage runs one pipeline stage and its checkpoint. The stage name is pushed
// into the context so logs and errors carry it.
func (r *Runner) stage(ctx context.Context, name string, fn func(context.Context) (any, error)) error {
	if err := ctx.Err(); err != nil {
		return &stageError{stage: name, err: err}
	}
	ctx = services.WithStage(ctx, name)
	logger := logging.WithContext(ctx, r.logger)

	runID, _ := services.RunIDFromContext(ctx)
	if err := r.store.SetStage(ctx, runID, name); err != nil {
		logger.Warn("recording stage progress failed", logging.Error(err))
	}

	started := time.Now()
	logger.Info("stage started")

	payload, err := fn(ctx)
	if err != nil {
		return &stageError{stage: name, err: err}
	}
	if err := validate.ForStage(name, payload); err != nil {
		return &stageError{stage: name, err: err}
	}

	logger.Info("stage completed", logging.Duration("elapsed", time.Since(started)))
	return nil
}
