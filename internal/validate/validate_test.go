package validate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phatcz/TiktokClipGenerator/internal/assemble"
	"github.com/phatcz/TiktokClipGenerator/internal/assets"
	"github.com/phatcz/TiktokClipGenerator/internal/logging"
	"github.com/phatcz/TiktokClipGenerator/internal/providers/mock"
	"github.com/phatcz/TiktokClipGenerator/internal/render"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
	"github.com/phatcz/TiktokClipGenerator/internal/storyboard"
	"github.com/phatcz/TiktokClipGenerator/internal/validate"
	"github.com/phatcz/TiktokClipGenerator/internal/videoplan"
)

func fixtureSet(t *testing.T) assets.Set {
	t.Helper()
	generated := story.Generate(story.Brief{
		Goal:     story.GoalGrowFollowers,
		Product:  "Camera Kit",
		Audience: "creators",
		Platform: "short video",
	})
	return assets.Set{
		Story:      generated,
		Characters: []assets.Character{{ID: 1, Name: "The Mentor", Style: "educational", ImageURL: "mock/images/c.jpg"}},
		Locations:  []assets.Location{{ID: 1, Name: "Cozy Home", Style: "relatable", ImageURL: "mock/images/l.jpg"}},
		Selection:  assets.Selection{SelectedCharacterID: 1, SelectedLocationID: 1},
	}
}

func fixtureBoard(t *testing.T) storyboard.Storyboard {
	t.Helper()
	board, err := storyboard.Build(fixtureSet(t))
	if err != nil {
		t.Fatalf("storyboard.Build: %v", err)
	}
	return board
}

func fixturePlan(t *testing.T) videoplan.Plan {
	t.Helper()
	plan, err := videoplan.Generate(fixtureBoard(t))
	if err != nil {
		t.Fatalf("videoplan.Generate: %v", err)
	}
	return plan
}

func fixtureBatch(t *testing.T) render.BatchResult {
	t.Helper()
	renderer := render.NewRenderer(mock.NewVideoProvider(), logging.NewNop())
	batch, err := renderer.RenderPlan(context.Background(), fixturePlan(t))
	if err != nil {
		t.Fatalf("RenderPlan: %v", err)
	}
	return batch
}

func wantViolation(t *testing.T, err error, stage string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a checkpoint violation")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation marker", err)
	}
	var violation *validate.Error
	if !errors.As(err, &violation) {
		t.Fatalf("err = %T, want *validate.Error", err)
	}
	if violation.Stage != stage {
		t.Fatalf("stage = %q, want %q", violation.Stage, stage)
	}
}

func TestStoryAcceptsGeneratedOutput(t *testing.T) {
	generated := story.Generate(story.Brief{Goal: story.GoalSellCourse, Product: "AI Tool", Audience: "beginners", Platform: "short video"})
	if err := validate.Story(generated); err != nil {
		t.Fatalf("Story: %v", err)
	}
}

func TestStoryRejectsWrongPurposeOrder(t *testing.T) {
	generated := story.Generate(story.Brief{Goal: story.GoalSellCourse, Product: "AI Tool", Audience: "beginners", Platform: "short video"})
	generated.Scenes[1].Purpose = story.PurposeReveal
	wantViolation(t, validate.Story(generated), validate.StageStory)
}

func TestStoryRejectsOutOfRangeDuration(t *testing.T) {
	generated := story.Generate(story.Brief{Goal: story.GoalSellCourse, Product: "AI Tool", Audience: "beginners", Platform: "short video"})
	generated.Scenes[0].Duration = 9
	wantViolation(t, validate.Story(generated), validate.StageStory)
}

func TestStoryRejectsMissingScene(t *testing.T) {
	generated := story.Generate(story.Brief{Goal: story.GoalSellCourse, Product: "AI Tool", Audience: "beginners", Platform: "short video"})
	generated.Scenes = generated.Scenes[:3]
	wantViolation(t, validate.Story(generated), validate.StageStory)
}

func TestAssetsRejectsDanglingSelection(t *testing.T) {
	set := fixtureSet(t)
	if err := validate.Assets(set); err != nil {
		t.Fatalf("Assets: %v", err)
	}
	set.Selection.SelectedCharacterID = 7
	wantViolation(t, validate.Assets(set), validate.StageAssets)
}

func TestAssetsRejectsEmptyCandidatePool(t *testing.T) {
	set := fixtureSet(t)
	set.Locations = nil
	wantViolation(t, validate.Assets(set), validate.StageAssets)
}

func TestStoryboardAcceptsBuiltOutput(t *testing.T) {
	if err := validate.Storyboard(fixtureBoard(t)); err != nil {
		t.Fatalf("Storyboard: %v", err)
	}
}

func TestStoryboardRejectsKeyframeCountMismatch(t *testing.T) {
	board := fixtureBoard(t)
	board.Scenes[1].Keyframes = board.Scenes[1].Keyframes[:1]
	wantViolation(t, validate.Storyboard(board), validate.StageStoryboard)
}

func TestStoryboardRejectsDuplicateKeyframeID(t *testing.T) {
	board := fixtureBoard(t)
	board.Scenes[2].Keyframes[0].ID = board.Scenes[1].Keyframes[0].ID
	wantViolation(t, validate.Storyboard(board), validate.StageStoryboard)
}

func TestStoryboardRejectsMalformedKeyframeID(t *testing.T) {
	board := fixtureBoard(t)
	board.Scenes[0].Keyframes[0].ID = "keyframe-1"
	wantViolation(t, validate.Storyboard(board), validate.StageStoryboard)
}

func TestStoryboardRejectsTimingBeyondScene(t *testing.T) {
	board := fixtureBoard(t)
	board.Scenes[0].Keyframes[0].Timing = float64(board.Scenes[0].Duration) + 1
	wantViolation(t, validate.Storyboard(board), validate.StageStoryboard)
}

func TestPlanAcceptsGeneratedOutput(t *testing.T) {
	if err := validate.Plan(fixturePlan(t)); err != nil {
		t.Fatalf("Plan: %v", err)
	}
}

func TestPlanRejectsTimelineGap(t *testing.T) {
	plan := fixturePlan(t)
	plan.Segments[2].StartTime += 0.5
	wantViolation(t, validate.Plan(plan), validate.StagePlan)
}

func TestPlanRejectsCountMismatch(t *testing.T) {
	plan := fixturePlan(t)
	plan.SegmentCount++
	wantViolation(t, validate.Plan(plan), validate.StagePlan)
}

func TestPlanRejectsIncompleteKeyframeRef(t *testing.T) {
	plan := fixturePlan(t)
	plan.Segments[0].StartKeyframe.Description = ""
	wantViolation(t, validate.Plan(plan), validate.StagePlan)
}

func TestRenderAcceptsMockBatch(t *testing.T) {
	if err := validate.Render(fixtureBatch(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func TestRenderRejectsWrongClipDuration(t *testing.T) {
	batch := fixtureBatch(t)
	batch.RenderedSegments[0].Duration = 5.0
	wantViolation(t, validate.Render(batch), validate.StageRender)
}

func TestRenderRejectsSuccessWithoutPath(t *testing.T) {
	batch := fixtureBatch(t)
	batch.RenderedSegments[0].VideoPath = ""
	wantViolation(t, validate.Render(batch), validate.StageRender)
}

func TestRenderRejectsInconsistentAccounting(t *testing.T) {
	batch := fixtureBatch(t)
	batch.SuccessfulSegments--
	wantViolation(t, validate.Render(batch), validate.StageRender)
}

func TestAssemblyAcceptsConsistentResult(t *testing.T) {
	result := assemble.Result{
		Success:            true,
		OutputPath:         "final/clip_final.mp4",
		TotalSegments:      7,
		SuccessfulSegments: 7,
		FailedSegments:     []int{},
	}
	if err := validate.Assembly(result); err != nil {
		t.Fatalf("Assembly: %v", err)
	}
}

func TestAssemblyRejectsSuccessWithoutOutputPath(t *testing.T) {
	result := assemble.Result{
		Success:            true,
		TotalSegments:      7,
		SuccessfulSegments: 7,
		FailedSegments:     []int{},
	}
	wantViolation(t, validate.Assembly(result), validate.StageAssembly)
}

func TestAssemblyRejectsInconsistentAccounting(t *testing.T) {
	result := assemble.Result{
		TotalSegments:      7,
		SuccessfulSegments: 5,
		FailedSegments:     []int{7},
	}
	wantViolation(t, validate.Assembly(result), validate.StageAssembly)
}

func TestForStageDispatchesAndFailsClosed(t *testing.T) {
	if err := validate.ForStage(validate.StageStory, story.Generate(story.Brief{Goal: story.GoalSellCourse, Product: "AI Tool", Audience: "beginners", Platform: "short video"})); err != nil {
		t.Fatalf("ForStage story: %v", err)
	}
	wantViolation(t, validate.ForStage(validate.StageStory, "not a story"), validate.StageStory)
	wantViolation(t, validate.ForStage("mystery", nil), "mystery")
}
