package storyboard_test

import (
	"context"
	"strings"
	"testing"

	"github.com/phatcz/TiktokClipGenerator/internal/assets"
	"github.com/phatcz/TiktokClipGenerator/internal/logging"
	"github.com/phatcz/TiktokClipGenerator/internal/providers/mock"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
	"github.com/phatcz/TiktokClipGenerator/internal/storyboard"
)

func testSet(t *testing.T) assets.Set {
	t.Helper()
	s := story.Generate(story.Brief{
		Goal:     story.GoalSellCourse,
		Product:  "AI Creator Tool",
		Audience: "beginners",
		Platform: "short video",
	})
	gen := assets.NewGenerator(mock.NewImageProvider(), logging.NewNop(), 4, 4)
	set, err := gen.Generate(context.Background(), s)
	if err != nil {
		t.Fatalf("generate assets: %v", err)
	}
	return set
}

func TestKeyframeCount(t *testing.T) {
	cases := []struct {
		duration int
		want     int
	}{
		{1, 1}, {3, 1}, {4, 2}, {5, 2}, {6, 3}, {10, 3},
	}
	for _, tc := range cases {
		if got := storyboard.KeyframeCount(tc.duration); got != tc.want {
			t.Errorf("KeyframeCount(%d) = %d, want %d", tc.duration, got, tc.want)
		}
	}
}

func TestBuildKeyframesPerScene(t *testing.T) {
	board, err := storyboard.Build(testSet(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(board.Scenes) != 4 {
		t.Fatalf("expected 4 scenes, got %d", len(board.Scenes))
	}

	// Scene durations 3,5,5,4 give keyframe counts 1,2,2,2.
	wantCounts := []int{1, 2, 2, 2}
	for i, scene := range board.Scenes {
		if len(scene.Keyframes) != wantCounts[i] {
			t.Errorf("scene %d: expected %d keyframes, got %d", scene.SceneID, wantCounts[i], len(scene.Keyframes))
		}
	}
}

func TestKeyframeIDsUniqueAcrossScenes(t *testing.T) {
	board, err := storyboard.Build(testSet(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := map[string]bool{}
	for _, scene := range board.Scenes {
		for n, kf := range scene.Keyframes {
			want := storyboard.KeyframeID(scene.SceneID, n+1)
			if kf.ID != want {
				t.Errorf("expected id %q, got %q", want, kf.ID)
			}
			if seen[kf.ID] {
				t.Errorf("duplicate keyframe id %q", kf.ID)
			}
			seen[kf.ID] = true
		}
	}
}

func TestKeyframeTimingDistribution(t *testing.T) {
	board, err := storyboard.Build(testSet(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Single keyframe sits at the middle of a 3s scene.
	hook := board.Scenes[0]
	if hook.Keyframes[0].Timing != 1.5 {
		t.Errorf("hook keyframe timing = %v, want 1.5", hook.Keyframes[0].Timing)
	}

	// Two keyframes in a 5s scene land at 5/3 and 10/3 (rounded).
	conflict := board.Scenes[1]
	if conflict.Keyframes[0].Timing != 1.67 {
		t.Errorf("first conflict keyframe timing = %v, want 1.67", conflict.Keyframes[0].Timing)
	}
	if conflict.Keyframes[1].Timing != 3.33 {
		t.Errorf("second conflict keyframe timing = %v, want 3.33", conflict.Keyframes[1].Timing)
	}

	for _, scene := range board.Scenes {
		for _, kf := range scene.Keyframes {
			if kf.Timing <= 0 || kf.Timing >= float64(scene.Duration) {
				t.Errorf("scene %d keyframe %s timing %v outside (0, %d)", scene.SceneID, kf.ID, kf.Timing, scene.Duration)
			}
		}
	}
}

func TestPromptsCarryContinuityContext(t *testing.T) {
	set := testSet(t)
	board, err := storyboard.Build(set)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if board.SelectedCharacter == nil || board.SelectedLocation == nil {
		t.Fatal("expected selected character and location on the board")
	}

	kf := board.Scenes[0].Keyframes[0]
	if !strings.Contains(kf.ImagePrompt, board.SelectedCharacter.Name) {
		t.Errorf("prompt should name the character: %q", kf.ImagePrompt)
	}
	if !strings.Contains(kf.ImagePrompt, board.SelectedLocation.Name) {
		t.Errorf("prompt should name the location: %q", kf.ImagePrompt)
	}
	if !strings.Contains(kf.ImagePrompt, "emotion: curious") {
		t.Errorf("prompt should carry scene emotion: %q", kf.ImagePrompt)
	}
}

func TestBuildRejectsEmptyStory(t *testing.T) {
	set := assets.Set{}
	if _, err := storyboard.Build(set); err == nil {
		t.Fatal("expected error for story without scenes")
	}
}
