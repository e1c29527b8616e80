package story_test

import (
	"strings"
	"testing"

	"github.com/phatcz/TiktokClipGenerator/internal/story"
)

func testBrief() story.Brief {
	return story.Brief{
		Goal:     story.GoalSellCourse,
		Product:  "AI Creator Tool",
		Audience: "beginners",
		Platform: "short video",
	}
}

func TestGenerateProducesFourScenesInOrder(t *testing.T) {
	s := story.Generate(testBrief())

	if len(s.Scenes) != 4 {
		t.Fatalf("expected 4 scenes, got %d", len(s.Scenes))
	}
	for i, scene := range s.Scenes {
		if scene.ID != i+1 {
			t.Errorf("scene %d: expected id %d, got %d", i, i+1, scene.ID)
		}
		if scene.Purpose != story.PurposeOrder[i] {
			t.Errorf("scene %d: expected purpose %s, got %s", i, story.PurposeOrder[i], scene.Purpose)
		}
		if scene.Description == "" {
			t.Errorf("scene %d: empty description", i)
		}
		if scene.Emotion == "" {
			t.Errorf("scene %d: empty emotion", i)
		}
	}
}

func TestGenerateDurations(t *testing.T) {
	s := story.Generate(testBrief())

	want := []int{3, 5, 5, 4}
	for i, scene := range s.Scenes {
		if scene.Duration != want[i] {
			t.Errorf("scene %d: expected duration %d, got %d", i+1, want[i], scene.Duration)
		}
	}
}

func TestGenerateUsesBriefFieldsInDescriptions(t *testing.T) {
	s := story.Generate(testBrief())

	if !strings.Contains(s.Scenes[0].Description, "AI Creator Tool") {
		t.Errorf("hook should mention the product: %q", s.Scenes[0].Description)
	}
	if !strings.Contains(s.Scenes[1].Description, "beginners") {
		t.Errorf("conflict should mention the audience: %q", s.Scenes[1].Description)
	}
}

func TestGenerateUnknownGoalFallsBack(t *testing.T) {
	brief := testBrief()
	brief.Goal = "something nobody templated"

	s := story.Generate(brief)
	if len(s.Scenes) != 4 {
		t.Fatalf("expected 4 scenes for unknown goal, got %d", len(s.Scenes))
	}
	for i, scene := range s.Scenes {
		if scene.Description == "" {
			t.Errorf("scene %d: fallback description empty", i)
		}
	}
}

func TestBriefRoundTrip(t *testing.T) {
	brief := testBrief()
	s := story.Generate(brief)
	if s.Brief() != brief {
		t.Fatalf("Brief() = %+v, want %+v", s.Brief(), brief)
	}
}
