// Package storyboard expands story scenes into keyframes. Keyframe count is
// a function of scene duration: one for scenes up to three seconds, two up to
// five, three beyond that. Keyframe IDs are scoped by scene so they stay
// unique across the whole board.
package storyboard

import (
	"fmt"
	"math"

	"github.com/phatcz/TiktokClipGenerator/internal/assets"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
)

// Keyframe is one visual anchor inside a scene. Timing is seconds from the
// scene start.
type Keyframe struct {
	ID          string  `json:"id"`
	Timing      float64 `json:"timing"`
	Description string  `json:"description"`
	ImagePath   string  `json:"image_path"`
	ImagePrompt string  `json:"image_prompt"`
}

// Scene is a story scene with its keyframes attached.
type Scene struct {
	SceneID     int        `json:"scene_id"`
	Purpose     string     `json:"purpose"`
	Emotion     string     `json:"emotion"`
	Duration    int        `json:"duration"`
	Description string     `json:"description"`
	Keyframes   []Keyframe `json:"keyframes"`
}

// Storyboard is the stage output.
type Storyboard struct {
	Story             story.Brief       `json:"story"`
	SelectedCharacter *assets.Character `json:"selected_character"`
	SelectedLocation  *assets.Location  `json:"selected_location"`
	Scenes            []Scene           `json:"scenes"`
}

// KeyframeID formats the board-wide unique identifier for a keyframe.
func KeyframeID(sceneID, n int) string {
	return fmt.Sprintf("scene_%d_kf_%d", sceneID, n)
}

// KeyframeCount returns how many keyframes a scene of the given duration
// carries.
func KeyframeCount(duration int) int {
	switch {
	case duration <= 3:
		return 1
	case duration <= 5:
		return 2
	default:
		return 3
	}
}

// Build expands an asset set into a storyboard using the set's current
// selection for continuity context.
func Build(set assets.Set) (Storyboard, error) {
	scenes := set.Story.Scenes
	if len(scenes) == 0 {
		return Storyboard{}, services.Wrap(services.ErrValidation, "storyboard", "build",
			"story must contain at least one scene", nil)
	}

	selectedCharacter := set.SelectedCharacter()
	selectedLocation := set.SelectedLocation()

	board := Storyboard{
		Story:             set.Story.Brief(),
		SelectedCharacter: selectedCharacter,
		SelectedLocation:  selectedLocation,
		Scenes:            make([]Scene, 0, len(scenes)),
	}

	for _, scene := range scenes {
		board.Scenes = append(board.Scenes, Scene{
			SceneID:     scene.ID,
			Purpose:     scene.Purpose,
			Emotion:     scene.Emotion,
			Duration:    scene.Duration,
			Description: scene.Description,
			Keyframes:   sceneKeyframes(scene, selectedCharacter, selectedLocation),
		})
	}

	return board, nil
}

func sceneKeyframes(scene story.Scene, character *assets.Character, location *assets.Location) []Keyframe {
	count := KeyframeCount(scene.Duration)
	duration := float64(scene.Duration)
	keyframes := make([]Keyframe, 0, count)

	for idx := 0; idx < count; idx++ {
		n := idx + 1

		var timing float64
		if count == 1 {
			timing = duration / 2
		} else {
			timing = duration / float64(count+1) * float64(n)
		}

		description := keyframeDescription(scene.Purpose, idx, scene.Description)

		prompt := fmt.Sprintf("%s, emotion: %s", description, scene.Emotion)
		if character != nil {
			prompt += fmt.Sprintf(", %s character, %s style", character.Name, character.Style)
		}
		if location != nil {
			prompt += fmt.Sprintf(", %s location, %s style", location.Name, location.Style)
		}

		keyframes = append(keyframes, Keyframe{
			ID:          KeyframeID(scene.ID, n),
			Timing:      round2(timing),
			Description: description,
			ImagePath:   fmt.Sprintf("storyboard/scene_%d/keyframe_%d.jpg", scene.ID, n),
			ImagePrompt: prompt,
		})
	}

	return keyframes
}

func keyframeDescription(purpose string, idx int, sceneDescription string) string {
	variants, ok := purposeVariants[purpose]
	if !ok {
		return sceneDescription
	}
	if idx >= len(variants) {
		idx = len(variants) - 1
	}
	return variants[idx] + " - " + sceneDescription
}

var purposeVariants = map[string][]string{
	story.PurposeHook: {
		"Open with an intriguing question",
		"Show curiosity building",
		"Pull attention with a thought-provoking question",
	},
	story.PurposeConflict: {
		"Show the problem and the struggle",
		"Show the friction piling up",
		"Reflect the challenge and the obstacles",
	},
	story.PurposeReveal: {
		"Introduce the way out",
		"Reveal the solution and the path",
		"Show the result and the win",
	},
	story.PurposeClose: {
		"Invite the viewer to act",
		"Summarize and call to action",
		"Close with a push to try it",
	},
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
