// Package videoplan flattens a storyboard into an ordered list of render
// segments. Each segment is the motion from one keyframe to the next; the
// final keyframe anchors a closing segment onto itself. Segment durations
// here are derived from keyframe timing and are NOT the fixed render length;
// the renderer owns that contract.
package videoplan

import (
	"fmt"
	"math"

	"github.com/phatcz/TiktokClipGenerator/internal/assets"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
	"github.com/phatcz/TiktokClipGenerator/internal/storyboard"
)

// minSegmentDuration floors derived durations so degenerate keyframe spacing
// never produces zero-length segments.
const minSegmentDuration = 1.0

// KeyframeRef carries the keyframe fields a renderer needs. All four fields
// are required downstream.
type KeyframeRef struct {
	ID          string  `json:"id"`
	ImagePath   string  `json:"image_path"`
	Description string  `json:"description"`
	Timing      float64 `json:"timing"`
}

// Segment is one renderable unit: the motion from StartKeyframe to
// EndKeyframe.
type Segment struct {
	ID            int         `json:"id"`
	SceneID       int         `json:"scene_id"`
	Duration      float64     `json:"duration"`
	StartTime     float64     `json:"start_time"`
	EndTime       float64     `json:"end_time"`
	Description   string      `json:"description"`
	Purpose       string      `json:"purpose"`
	Emotion       string      `json:"emotion"`
	StartKeyframe KeyframeRef `json:"start_keyframe"`
	EndKeyframe   KeyframeRef `json:"end_keyframe"`
}

// Metadata preserves the storyboard context a renderer needs for continuity.
type Metadata struct {
	Story             story.Brief       `json:"story"`
	SelectedCharacter *assets.Character `json:"selected_character"`
	SelectedLocation  *assets.Location  `json:"selected_location"`
}

// Plan is the stage output.
type Plan struct {
	StoryboardMetadata Metadata  `json:"storyboard_metadata"`
	Segments           []Segment `json:"segments"`
	TotalDuration      float64   `json:"total_duration"`
	SegmentCount       int       `json:"segment_count"`
}

type keyframeContext struct {
	keyframe      storyboard.Keyframe
	sceneID       int
	sceneDuration float64
	scenePurpose  string
	sceneEmotion  string
}

// Generate builds the plan for a storyboard.
func Generate(board storyboard.Storyboard) (Plan, error) {
	segments, err := mapSegments(board)
	if err != nil {
		return Plan{}, err
	}

	totalDuration := 0.0
	if len(segments) > 0 {
		totalDuration = segments[len(segments)-1].EndTime
	}

	return Plan{
		StoryboardMetadata: Metadata{
			Story:             board.Story,
			SelectedCharacter: board.SelectedCharacter,
			SelectedLocation:  board.SelectedLocation,
		},
		Segments:      segments,
		TotalDuration: round2(totalDuration),
		SegmentCount:  len(segments),
	}, nil
}

func mapSegments(board storyboard.Storyboard) ([]Segment, error) {
	if len(board.Scenes) == 0 {
		return nil, services.Wrap(services.ErrValidation, "plan", "map",
			"storyboard must contain at least one scene", nil)
	}

	var all []keyframeContext
	for _, scene := range board.Scenes {
		for _, kf := range scene.Keyframes {
			all = append(all, keyframeContext{
				keyframe:      kf,
				sceneID:       scene.SceneID,
				sceneDuration: float64(scene.Duration),
				scenePurpose:  scene.Purpose,
				sceneEmotion:  scene.Emotion,
			})
		}
	}
	if len(all) == 0 {
		return nil, services.Wrap(services.ErrValidation, "plan", "map",
			"storyboard must contain at least one keyframe", nil)
	}

	segments := make([]Segment, 0, len(all))
	currentTime := 0.0

	for idx, current := range all {
		start, err := keyframeRef(current.keyframe, idx)
		if err != nil {
			return nil, err
		}

		var end KeyframeRef
		var duration float64

		if idx < len(all)-1 {
			next := all[idx+1]
			end, err = keyframeRef(next.keyframe, idx+1)
			if err != nil {
				return nil, err
			}
			if next.sceneID != current.sceneID {
				duration = current.sceneDuration - start.Timing
			} else {
				duration = end.Timing - start.Timing
			}
		} else {
			// Last keyframe closes onto itself for the remainder of its
			// scene.
			end = start
			end.Timing = round2(current.sceneDuration)
			duration = current.sceneDuration - start.Timing
		}

		if duration < minSegmentDuration {
			duration = minSegmentDuration
		}

		segments = append(segments, Segment{
			ID:            idx + 1,
			SceneID:       current.sceneID,
			Duration:      round2(duration),
			StartTime:     round2(currentTime),
			EndTime:       round2(currentTime + duration),
			Description:   start.Description + " to " + end.Description,
			Purpose:       current.scenePurpose,
			Emotion:       current.sceneEmotion,
			StartKeyframe: start,
			EndKeyframe:   end,
		})
		currentTime += duration
	}

	return segments, nil
}

// keyframeRef validates the storyboard keyframe carries everything a
// renderer will need before it is copied onto a segment.
func keyframeRef(kf storyboard.Keyframe, idx int) (KeyframeRef, error) {
	if kf.ID == "" {
		return KeyframeRef{}, services.Wrap(services.ErrValidation, "plan", "map",
			fmt.Sprintf("keyframe at index %d missing id", idx), nil)
	}
	if kf.ImagePath == "" {
		return KeyframeRef{}, services.Wrap(services.ErrValidation, "plan", "map",
			fmt.Sprintf("keyframe %s missing image_path", kf.ID), nil)
	}
	if kf.Description == "" {
		return KeyframeRef{}, services.Wrap(services.ErrValidation, "plan", "map",
			fmt.Sprintf("keyframe %s missing description", kf.ID), nil)
	}
	return KeyframeRef{
		ID:          kf.ID,
		ImagePath:   kf.ImagePath,
		Description: kf.Description,
		Timing:      round2(kf.Timing),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
