// Package render turns plan segments into video clips, one provider call per
// segment. Rendering is strictly sequential; segments are never batched into
// a single long generation.
//
// Duration contract: every segment is rendered at exactly RenderDuration
// seconds regardless of the planned duration. The planned duration is kept
// on the result as OriginalDuration for reference.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/phatcz/TiktokClipGenerator/internal/logging"
	"github.com/phatcz/TiktokClipGenerator/internal/providers"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
	"github.com/phatcz/TiktokClipGenerator/internal/videoplan"
)

// RenderDuration is the fixed clip length in seconds.
const RenderDuration = 8.0

// Directive describes motion and camera treatment for a segment.
type Directive struct {
	MotionType      string `json:"motion_type"`
	CameraMovement  string `json:"camera_movement"`
	TransitionStyle string `json:"transition_style"`
}

// DefaultDirective is applied to every segment until per-segment direction
// exists upstream.
func DefaultDirective() Directive {
	return Directive{MotionType: "smooth", CameraMovement: "none", TransitionStyle: "fade"}
}

// ContinuityLocks pins the visual identity a segment must preserve.
type ContinuityLocks struct {
	Character string `json:"character"`
	Location  string `json:"location"`
	Style     string `json:"style"`
	Emotion   string `json:"emotion"`
}

// SegmentResult is the outcome of rendering one segment.
type SegmentResult struct {
	Success          bool    `json:"success"`
	SegmentID        int     `json:"segment_id"`
	VideoPath        string  `json:"video_path,omitempty"`
	Duration         float64 `json:"duration"`
	Prompt           string  `json:"prompt"`
	Error            string  `json:"error,omitempty"`
	OriginalDuration float64 `json:"original_duration"`
}

// BatchResult aggregates a full plan render.
type BatchResult struct {
	Success            bool            `json:"success"`
	TotalSegments      int             `json:"total_segments"`
	SuccessfulSegments int             `json:"successful_segments"`
	FailedSegments     []int           `json:"failed_segments"`
	RenderedSegments   []SegmentResult `json:"rendered_segments"`
}

// Renderer renders plan segments through a video provider.
type Renderer struct {
	video  providers.VideoProvider
	logger *slog.Logger
}

func NewRenderer(video providers.VideoProvider, logger *slog.Logger) *Renderer {
	return &Renderer{
		video:  video,
		logger: logging.NewComponentLogger(logger, "renderer"),
	}
}

// BuildPrompt assembles the generation prompt for one segment from its
// keyframes, continuity locks, directive, and story context.
func BuildPrompt(segment videoplan.Segment, locks ContinuityLocks, directive Directive, brief story.Brief) string {
	parts := []string{
		"Start: " + segment.StartKeyframe.Description,
		"End: " + segment.EndKeyframe.Description,
	}

	if locks.Character != "" {
		parts = append(parts, "Character: "+locks.Character)
	}
	if locks.Location != "" {
		parts = append(parts, "Location: "+locks.Location)
	}
	if locks.Style != "" {
		parts = append(parts, "Style: "+locks.Style)
	}
	if locks.Emotion != "" {
		parts = append(parts, "Emotion: "+locks.Emotion)
	}

	parts = append(parts, "Motion: "+directive.MotionType)
	if directive.CameraMovement != "none" && directive.CameraMovement != "" {
		parts = append(parts, "Camera: "+directive.CameraMovement)
	}
	parts = append(parts, "Transition: "+directive.TransitionStyle)

	if brief.Product != "" {
		parts = append(parts, "Product context: "+brief.Product)
	}
	if brief.Platform != "" {
		parts = append(parts, "Platform: "+brief.Platform)
	}

	parts = append(parts, "Duration: 8 seconds")
	return strings.Join(parts, " | ")
}

// RenderPlan renders every segment in order. Provider failures become failed
// entries in the batch result; a structurally broken plan (incomplete
// keyframes) fails the whole call with a validation marker.
func (r *Renderer) RenderPlan(ctx context.Context, plan videoplan.Plan) (BatchResult, error) {
	if len(plan.Segments) == 0 {
		return BatchResult{}, services.Wrap(services.ErrValidation, "render", "plan",
			"plan must contain at least one segment", nil)
	}

	locks := planLocks(plan)
	directive := DefaultDirective()
	brief := plan.StoryboardMetadata.Story

	batch := BatchResult{
		TotalSegments:    len(plan.Segments),
		FailedSegments:   []int{},
		RenderedSegments: make([]SegmentResult, 0, len(plan.Segments)),
	}

	for _, segment := range plan.Segments {
		if err := ctx.Err(); err != nil {
			return BatchResult{}, err
		}
		if err := validateSegmentKeyframes(segment); err != nil {
			return BatchResult{}, err
		}

		segmentLocks := locks
		segmentLocks.Emotion = segment.Emotion

		result := r.renderSegment(ctx, segment, segmentLocks, directive, brief)
		batch.RenderedSegments = append(batch.RenderedSegments, result)

		if result.Success {
			batch.SuccessfulSegments++
		} else {
			batch.FailedSegments = append(batch.FailedSegments, segment.ID)
		}
	}

	batch.Success = len(batch.FailedSegments) == 0
	return batch, nil
}

// RenderSegment renders a single plan segment. It is used both by RenderPlan
// and by assembly-time retries.
func (r *Renderer) RenderSegment(ctx context.Context, plan videoplan.Plan, segmentID int) (SegmentResult, error) {
	for _, segment := range plan.Segments {
		if segment.ID != segmentID {
			continue
		}
		if err := validateSegmentKeyframes(segment); err != nil {
			return SegmentResult{}, err
		}
		locks := planLocks(plan)
		locks.Emotion = segment.Emotion
		return r.renderSegment(ctx, segment, locks, DefaultDirective(), plan.StoryboardMetadata.Story), nil
	}
	return SegmentResult{}, services.Wrap(services.ErrValidation, "render", "segment",
		fmt.Sprintf("segment %d not found in plan", segmentID), nil)
}

func (r *Renderer) renderSegment(ctx context.Context, segment videoplan.Segment, locks ContinuityLocks, directive Directive, brief story.Brief) SegmentResult {
	ctx = services.WithSegmentID(ctx, segment.ID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, r.logger)

	prompt := BuildPrompt(segment, locks, directive, brief)

	result, err := r.video.GenerateSegment(ctx, providers.VideoRequest{
		Prompt:            prompt,
		Duration:          RenderDuration,
		StartKeyframePath: segment.StartKeyframe.ImagePath,
		EndKeyframePath:   segment.EndKeyframe.ImagePath,
		MotionType:        directive.MotionType,
		CameraMovement:    directive.CameraMovement,
	})
	if err != nil {
		logger.Warn("segment render failed",
			logging.Any("marker", services.Classify(err)),
			logging.Error(err),
		)
		return SegmentResult{
			Success:          false,
			SegmentID:        segment.ID,
			Duration:         RenderDuration,
			Prompt:           prompt,
			Error:            err.Error(),
			OriginalDuration: segment.Duration,
		}
	}

	logger.Info("segment rendered",
		logging.String("video_path", result.VideoPath),
		logging.Float64("original_duration", segment.Duration),
	)
	return SegmentResult{
		Success:          true,
		SegmentID:        segment.ID,
		VideoPath:        result.VideoPath,
		Duration:         RenderDuration,
		Prompt:           prompt,
		OriginalDuration: segment.Duration,
	}
}

func planLocks(plan videoplan.Plan) ContinuityLocks {
	locks := ContinuityLocks{}
	if character := plan.StoryboardMetadata.SelectedCharacter; character != nil {
		locks.Character = character.Name
		locks.Style = character.Style
	}
	if location := plan.StoryboardMetadata.SelectedLocation; location != nil {
		locks.Location = location.Name
	}
	return locks
}

func validateSegmentKeyframes(segment videoplan.Segment) error {
	for _, kf := range []videoplan.KeyframeRef{segment.StartKeyframe, segment.EndKeyframe} {
		if kf.ID == "" || kf.ImagePath == "" || kf.Description == "" {
			return services.Wrap(services.ErrValidation, "render", "plan",
				fmt.Sprintf("segment %d carries an incomplete keyframe", segment.ID), nil)
		}
	}
	return nil
}
