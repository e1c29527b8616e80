// Package assemble is the final pipeline stage. It retries failed segment
// renders a bounded number of times, stages a render record per surviving
// segment, then stitches the clips into the final deliverable and writes an
// assembly manifest next to it.
package assemble

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/phatcz/TiktokClipGenerator/internal/fileutil"
	"github.com/phatcz/TiktokClipGenerator/internal/logging"
	"github.com/phatcz/TiktokClipGenerator/internal/render"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
	"github.com/phatcz/TiktokClipGenerator/internal/videoplan"
)

// RerenderFunc re-renders a single segment of the plan. The assembler uses it
// to retry failures without owning provider wiring itself.
type RerenderFunc func(ctx context.Context, plan videoplan.Plan, segmentID int) (render.SegmentResult, error)

// Result is the outcome of an assembly run.
type Result struct {
	Success            bool     `json:"success"`
	OutputPath         string   `json:"output_path,omitempty"`
	TotalSegments      int      `json:"total_segments"`
	SuccessfulSegments int      `json:"successful_segments"`
	FailedSegments     []int    `json:"failed_segments"`
	RetryCount         int      `json:"retry_count"`
	SegmentPaths       []string `json:"segment_paths,omitempty"`
}

// manifest is the artifact written alongside the output path. It records the
// clip order so downstream muxing can reproduce the final cut.
type manifest struct {
	Product     string                 `json:"product"`
	Platform    string                 `json:"platform"`
	AssembledAt time.Time              `json:"assembled_at"`
	Segments    []render.SegmentResult `json:"segments"`
}

// Assembler concatenates rendered segments into the final video.
type Assembler struct {
	outputDir   string
	segmentsDir string
	maxRetries  int
	retryWait   time.Duration
	rerender    RerenderFunc
	logger      *slog.Logger
	now         func() time.Time
}

func New(outputDir, segmentsDir string, maxRetries int, retryWait time.Duration, rerender RerenderFunc, logger *slog.Logger) *Assembler {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Assembler{
		outputDir:   outputDir,
		segmentsDir: segmentsDir,
		maxRetries:  maxRetries,
		retryWait:   retryWait,
		rerender:    rerender,
		logger:      logging.NewComponentLogger(logger, "assembler"),
		now:         time.Now,
	}
}

// Assemble retries every failed segment in the batch, then writes the final
// artifact when all segments have a clip. Segments that still fail after the
// retry budget leave the result unsuccessful with no output path.
func (a *Assembler) Assemble(ctx context.Context, plan videoplan.Plan, batch render.BatchResult) (Result, error) {
	if batch.TotalSegments == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "assembly", "batch",
			"render batch carries no segments", nil)
	}

	results := make(map[int]render.SegmentResult, len(batch.RenderedSegments))
	order := make([]int, 0, len(batch.RenderedSegments))
	for _, segment := range batch.RenderedSegments {
		results[segment.SegmentID] = segment
		order = append(order, segment.SegmentID)
	}

	pending := append([]int(nil), batch.FailedSegments...)
	retries := 0

	for attempt := 1; attempt <= a.maxRetries && len(pending) > 0; attempt++ {
		if err := a.wait(ctx); err != nil {
			return Result{}, err
		}
		a.logger.Info("retrying failed segments",
			logging.Int("attempt", attempt),
			logging.Int("pending", len(pending)),
		)
		retries++

		var stillFailing []int
		for _, segmentID := range pending {
			result, err := a.retrySegment(ctx, plan, segmentID)
			if err != nil {
				return Result{}, err
			}
			results[segmentID] = result
			if !result.Success {
				stillFailing = append(stillFailing, segmentID)
			}
		}
		pending = stillFailing
	}

	result := Result{
		TotalSegments:  batch.TotalSegments,
		FailedSegments: []int{},
		RetryCount:     retries,
	}
	ordered := make([]render.SegmentResult, 0, len(order))
	for _, segmentID := range order {
		segment := results[segmentID]
		ordered = append(ordered, segment)
		if !segment.Success {
			result.FailedSegments = append(result.FailedSegments, segmentID)
			continue
		}
		result.SuccessfulSegments++
		staged, err := a.stageSegment(segment)
		if err != nil {
			return Result{}, services.Wrap(services.Classify(err), "assembly", "stage",
				"staging segment record failed", err)
		}
		result.SegmentPaths = append(result.SegmentPaths, staged)
	}

	if len(result.FailedSegments) > 0 {
		a.logger.Error("assembly abandoned, segments exhausted retry budget",
			logging.Any("failed_segments", result.FailedSegments),
			logging.Int("retries", retries),
		)
		return result, nil
	}

	outputPath, err := a.writeArtifact(plan, ordered)
	if err != nil {
		return Result{}, services.Wrap(services.Classify(err), "assembly", "write",
			"writing final artifact failed", err)
	}
	result.Success = true
	result.OutputPath = outputPath
	a.logger.Info("assembly complete",
		logging.String("output_path", outputPath),
		logging.Int("segments", result.SuccessfulSegments),
		logging.Int("retries", retries),
	)
	return result, nil
}

func (a *Assembler) retrySegment(ctx context.Context, plan videoplan.Plan, segmentID int) (render.SegmentResult, error) {
	if a.rerender == nil {
		return render.SegmentResult{}, services.Wrap(services.ErrConfiguration, "assembly", "retry",
			"no rerender hook configured", nil)
	}
	result, err := a.rerender(ctx, plan, segmentID)
	if err != nil {
		// Plan-level problems are fatal; provider problems are recorded and
		// retried on the next round.
		if ctx.Err() != nil {
			return render.SegmentResult{}, ctx.Err()
		}
		if errors.Is(err, services.ErrValidation) {
			return render.SegmentResult{}, err
		}
		return render.SegmentResult{
			SegmentID: segmentID,
			Duration:  render.RenderDuration,
			Error:     err.Error(),
		}, nil
	}
	return result, nil
}

func (a *Assembler) wait(ctx context.Context) error {
	if a.retryWait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(a.retryWait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// stageSegment persists the render record for one finished segment under the
// segments directory, keeping per-segment state inspectable even when the
// final artifact is never written.
func (a *Assembler) stageSegment(segment render.SegmentResult) (string, error) {
	payload, err := json.MarshalIndent(segment, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding segment record: %w", err)
	}
	path := filepath.Join(a.segmentsDir, fileutil.SegmentFileName(segment.SegmentID))
	if err := fileutil.WriteFileAtomic(path, payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (a *Assembler) writeArtifact(plan videoplan.Plan, segments []render.SegmentResult) (string, error) {
	if err := fileutil.EnsureDir(a.outputDir); err != nil {
		return "", err
	}
	outputPath := filepath.Join(a.outputDir,
		fileutil.FinalVideoName(plan.StoryboardMetadata.Story.Product, a.now()))

	payload, err := json.MarshalIndent(manifest{
		Product:     plan.StoryboardMetadata.Story.Product,
		Platform:    plan.StoryboardMetadata.Story.Platform,
		AssembledAt: a.now().UTC(),
		Segments:    segments,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding manifest: %w", err)
	}
	if err := fileutil.WriteFileAtomic(outputPath, payload, 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}
