// Package validate holds the checkpoint contracts run between pipeline
// stages. Each stage output is checked before the next stage consumes it, and
// the first violation stops the run.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/phatcz/TiktokClipGenerator/internal/assemble"
	"github.com/phatcz/TiktokClipGenerator/internal/assets"
	"github.com/phatcz/TiktokClipGenerator/internal/render"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
	"github.com/phatcz/TiktokClipGenerator/internal/storyboard"
	"github.com/phatcz/TiktokClipGenerator/internal/videoplan"
)

// Stage names used in checkpoint errors and run records.
const (
	StageStory      = "story"
	StageAssets     = "assets"
	StageStoryboard = "storyboard"
	StagePlan       = "plan"
	StageRender     = "render"
	StageAssembly   = "assembly"
)

// Stages lists the checkpoints in pipeline order.
var Stages = []string{StageStory, StageAssets, StageStoryboard, StagePlan, StageRender, StageAssembly}

// timingEpsilon absorbs the rounding applied to keyframe timings.
const timingEpsilon = 0.011

var keyframeIDPattern = regexp.MustCompile(`^scene_(\d+)_kf_(\d+)$`)

// Error is a single checkpoint violation. It unwraps to the shared
// validation marker so callers can test the class with errors.Is.
type Error struct {
	Stage  string
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s checkpoint failed: %s: %s", e.Stage, e.Field, e.Reason)
}

func (e *Error) Unwrap() error { return services.ErrValidation }

func fail(stage, field, format string, args ...any) error {
	return &Error{Stage: stage, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ForStage dispatches the payload to the named stage's validator. Unknown
// stages and mismatched payload types fail closed.
func ForStage(stage string, payload any) error {
	switch stage {
	case StageStory:
		if value, ok := payload.(story.Story); ok {
			return Story(value)
		}
	case StageAssets:
		if value, ok := payload.(assets.Set); ok {
			return Assets(value)
		}
	case StageStoryboard:
		if value, ok := payload.(storyboard.Storyboard); ok {
			return Storyboard(value)
		}
	case StagePlan:
		if value, ok := payload.(videoplan.Plan); ok {
			return Plan(value)
		}
	case StageRender:
		if value, ok := payload.(render.BatchResult); ok {
			return Render(value)
		}
	case StageAssembly:
		if value, ok := payload.(assemble.Result); ok {
			return Assembly(value)
		}
	default:
		return fail(stage, "stage", "unknown checkpoint")
	}
	return fail(stage, "payload", "unexpected payload type %T", payload)
}

// Story checks the narrative structure: exactly four scenes in the fixed
// purpose order, sequential IDs, and short-form durations.
func Story(value story.Story) error {
	if len(value.Scenes) != len(story.PurposeOrder) {
		return fail(StageStory, "scenes", "expected %d scenes, got %d", len(story.PurposeOrder), len(value.Scenes))
	}
	for i, scene := range value.Scenes {
		field := "scenes[" + strconv.Itoa(i) + "]"
		if scene.ID != i+1 {
			return fail(StageStory, field+".id", "expected %d, got %d", i+1, scene.ID)
		}
		if scene.Purpose != story.PurposeOrder[i] {
			return fail(StageStory, field+".purpose", "expected %q, got %q", story.PurposeOrder[i], scene.Purpose)
		}
		if scene.Duration < 3 || scene.Duration > 5 {
			return fail(StageStory, field+".duration", "duration %d outside 3..5 seconds", scene.Duration)
		}
		if scene.Description == "" {
			return fail(StageStory, field+".description", "empty description")
		}
		if scene.Emotion == "" {
			return fail(StageStory, field+".emotion", "empty emotion")
		}
	}
	return nil
}

// Assets checks candidate pools and the active selection.
func Assets(value assets.Set) error {
	if len(value.Characters) == 0 {
		return fail(StageAssets, "characters", "no character candidates")
	}
	if len(value.Locations) == 0 {
		return fail(StageAssets, "locations", "no location candidates")
	}
	for i, character := range value.Characters {
		if character.ID != i+1 {
			return fail(StageAssets, "characters", "candidate IDs must be sequential, got %d at index %d", character.ID, i)
		}
		if character.Name == "" {
			return fail(StageAssets, "characters", "candidate %d has no name", character.ID)
		}
	}
	for i, location := range value.Locations {
		if location.ID != i+1 {
			return fail(StageAssets, "locations", "candidate IDs must be sequential, got %d at index %d", location.ID, i)
		}
		if location.Name == "" {
			return fail(StageAssets, "locations", "candidate %d has no name", location.ID)
		}
	}
	if value.SelectedCharacter() == nil {
		return fail(StageAssets, "selection.selected_character_id", "id %d does not match a candidate", value.Selection.SelectedCharacterID)
	}
	if value.SelectedLocation() == nil {
		return fail(StageAssets, "selection.selected_location_id", "id %d does not match a candidate", value.Selection.SelectedLocationID)
	}
	return nil
}

// Storyboard checks keyframe counts, naming, uniqueness, and timing bounds.
func Storyboard(value storyboard.Storyboard) error {
	if len(value.Scenes) == 0 {
		return fail(StageStoryboard, "scenes", "no scenes")
	}
	seen := make(map[string]bool)
	for _, scene := range value.Scenes {
		field := fmt.Sprintf("scenes[%d]", scene.SceneID)
		want := storyboard.KeyframeCount(scene.Duration)
		if len(scene.Keyframes) != want {
			return fail(StageStoryboard, field+".keyframes", "duration %ds requires %d keyframes, got %d",
				scene.Duration, want, len(scene.Keyframes))
		}
		for n, kf := range scene.Keyframes {
			match := keyframeIDPattern.FindStringSubmatch(kf.ID)
			if match == nil {
				return fail(StageStoryboard, field+".keyframes", "keyframe id %q is malformed", kf.ID)
			}
			if match[1] != strconv.Itoa(scene.SceneID) {
				return fail(StageStoryboard, field+".keyframes", "keyframe %q does not belong to scene %d", kf.ID, scene.SceneID)
			}
			if seen[kf.ID] {
				return fail(StageStoryboard, field+".keyframes", "keyframe id %q is not unique", kf.ID)
			}
			seen[kf.ID] = true
			if kf.Timing <= 0 || kf.Timing > float64(scene.Duration) {
				return fail(StageStoryboard, field+".keyframes", "keyframe %q timing %.2f outside scene duration %ds",
					kf.ID, kf.Timing, scene.Duration)
			}
			if kf.Description == "" || kf.ImagePath == "" {
				return fail(StageStoryboard, field+".keyframes", "keyframe %d is incomplete", n+1)
			}
		}
	}
	return nil
}

// Plan checks segment continuity and keyframe completeness.
func Plan(value videoplan.Plan) error {
	if len(value.Segments) == 0 {
		return fail(StagePlan, "segments", "no segments")
	}
	if value.SegmentCount != len(value.Segments) {
		return fail(StagePlan, "segment_count", "declared %d, carries %d", value.SegmentCount, len(value.Segments))
	}
	previousEnd := 0.0
	for i, segment := range value.Segments {
		field := fmt.Sprintf("segments[%d]", i)
		if segment.ID != i+1 {
			return fail(StagePlan, field+".id", "expected %d, got %d", i+1, segment.ID)
		}
		if segment.Duration < 1.0 {
			return fail(StagePlan, field+".duration", "duration %.2f below the 1 second floor", segment.Duration)
		}
		if i > 0 && math.Abs(segment.StartTime-previousEnd) > timingEpsilon {
			return fail(StagePlan, field+".start_time", "gap between %.2f and %.2f breaks the timeline", previousEnd, segment.StartTime)
		}
		previousEnd = segment.EndTime
		for _, kf := range []videoplan.KeyframeRef{segment.StartKeyframe, segment.EndKeyframe} {
			if kf.ID == "" || kf.ImagePath == "" || kf.Description == "" {
				return fail(StagePlan, field, "keyframe reference is incomplete")
			}
		}
	}
	if math.Abs(value.TotalDuration-previousEnd) > timingEpsilon {
		return fail(StagePlan, "total_duration", "declared %.2f, timeline ends at %.2f", value.TotalDuration, previousEnd)
	}
	return nil
}

// Render checks the batch accounting and the fixed duration contract.
func Render(value render.BatchResult) error {
	if value.TotalSegments == 0 {
		return fail(StageRender, "total_segments", "no segments rendered")
	}
	if len(value.RenderedSegments) != value.TotalSegments {
		return fail(StageRender, "rendered_segments", "declared %d, carries %d", value.TotalSegments, len(value.RenderedSegments))
	}
	if value.SuccessfulSegments+len(value.FailedSegments) != value.TotalSegments {
		return fail(StageRender, "successful_segments", "%d successful plus %d failed does not cover %d total",
			value.SuccessfulSegments, len(value.FailedSegments), value.TotalSegments)
	}
	if value.Success != (len(value.FailedSegments) == 0) {
		return fail(StageRender, "success", "flag disagrees with the failed segment list")
	}
	for _, segment := range value.RenderedSegments {
		field := fmt.Sprintf("rendered_segments[%d]", segment.SegmentID)
		if !segment.Success {
			continue
		}
		if segment.VideoPath == "" {
			return fail(StageRender, field+".video_path", "successful render without a clip path")
		}
		if segment.Duration != render.RenderDuration {
			return fail(StageRender, field+".duration", "got %.2f, every clip must be %.2f seconds",
				segment.Duration, render.RenderDuration)
		}
	}
	return nil
}

// Assembly checks the final accounting and output path consistency.
func Assembly(value assemble.Result) error {
	if value.SuccessfulSegments+len(value.FailedSegments) != value.TotalSegments {
		return fail(StageAssembly, "successful_segments", "%d successful plus %d failed does not cover %d total",
			value.SuccessfulSegments, len(value.FailedSegments), value.TotalSegments)
	}
	if value.Success {
		if value.OutputPath == "" {
			return fail(StageAssembly, "output_path", "successful assembly without an output path")
		}
		if len(value.FailedSegments) > 0 {
			return fail(StageAssembly, "failed_segments", "successful assembly with %d failed segments", len(value.FailedSegments))
		}
	} else if value.OutputPath != "" {
		return fail(StageAssembly, "output_path", "failed assembly should not publish an output path")
	}
	return nil
}
