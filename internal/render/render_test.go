package render_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/phatcz/TiktokClipGenerator/internal/assets"
	"github.com/phatcz/TiktokClipGenerator/internal/logging"
	"github.com/phatcz/TiktokClipGenerator/internal/providers"
	"github.com/phatcz/TiktokClipGenerator/internal/providers/mock"
	"github.com/phatcz/TiktokClipGenerator/internal/render"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
	"github.com/phatcz/TiktokClipGenerator/internal/storyboard"
	"github.com/phatcz/TiktokClipGenerator/internal/videoplan"
)

type flakyVideoProvider struct {
	failFor map[int]error
	calls   int
}

func (p *flakyVideoProvider) Name() string { return "flaky" }

func (p *flakyVideoProvider) GenerateSegment(ctx context.Context, req providers.VideoRequest) (providers.VideoResult, error) {
	p.calls++
	if err, ok := p.failFor[p.calls]; ok {
		return providers.VideoResult{}, err
	}
	return providers.VideoResult{
		VideoPath: fmt.Sprintf("segments/call_%d.mp4", p.calls),
		Duration:  req.Duration,
	}, nil
}

func testPlan(t *testing.T) videoplan.Plan {
	t.Helper()
	generated := story.Generate(story.Brief{
		Goal:     story.GoalSellCourse,
		Product:  "AI Tool",
		Audience: "beginners",
		Platform: "short video",
	})
	set := assets.Set{
		Story: generated,
		Characters: []assets.Character{{
			ID: 1, Name: "The Expert", Style: "professional", ImageURL: "mock/images/c.jpg",
		}},
		Locations: []assets.Location{{
			ID: 1, Name: "Modern Workplace", Style: "professional", ImageURL: "mock/images/l.jpg",
		}},
		Selection: assets.Selection{SelectedCharacterID: 1, SelectedLocationID: 1},
	}
	board, err := storyboard.Build(set)
	if err != nil {
		t.Fatalf("storyboard.Build: %v", err)
	}
	plan, err := videoplan.Generate(board)
	if err != nil {
		t.Fatalf("videoplan.Generate: %v", err)
	}
	return plan
}

func TestRenderPlanAllSegmentsAtFixedDuration(t *testing.T) {
	plan := testPlan(t)
	renderer := render.NewRenderer(mock.NewVideoProvider(), logging.NewNop())

	batch, err := renderer.RenderPlan(context.Background(), plan)
	if err != nil {
		t.Fatalf("RenderPlan: %v", err)
	}
	if !batch.Success {
		t.Fatalf("batch failed: %+v", batch.FailedSegments)
	}
	if batch.TotalSegments != len(plan.Segments) || batch.SuccessfulSegments != len(plan.Segments) {
		t.Fatalf("counts = %d/%d, want %d/%d",
			batch.SuccessfulSegments, batch.TotalSegments, len(plan.Segments), len(plan.Segments))
	}
	for _, result := range batch.RenderedSegments {
		if result.Duration != render.RenderDuration {
			t.Errorf("segment %d duration = %v, want %v", result.SegmentID, result.Duration, render.RenderDuration)
		}
		if result.VideoPath == "" {
			t.Errorf("segment %d succeeded without a video path", result.SegmentID)
		}
		if result.OriginalDuration == render.RenderDuration {
			t.Errorf("segment %d original duration should differ from the render duration", result.SegmentID)
		}
	}
}

func TestRenderPlanCollectsProviderFailures(t *testing.T) {
	plan := testPlan(t)
	provider := &flakyVideoProvider{failFor: map[int]error{
		2: fmt.Errorf("%w: generation backend unavailable", services.ErrProviderFailure),
	}}
	renderer := render.NewRenderer(provider, logging.NewNop())

	batch, err := renderer.RenderPlan(context.Background(), plan)
	if err != nil {
		t.Fatalf("RenderPlan: %v", err)
	}
	if batch.Success {
		t.Fatal("batch reported success despite a failed segment")
	}
	if len(batch.FailedSegments) != 1 || batch.FailedSegments[0] != plan.Segments[1].ID {
		t.Fatalf("failed segments = %v, want [%d]", batch.FailedSegments, plan.Segments[1].ID)
	}
	if batch.SuccessfulSegments != len(plan.Segments)-1 {
		t.Fatalf("successful = %d, want %d", batch.SuccessfulSegments, len(plan.Segments)-1)
	}
	failed := batch.RenderedSegments[1]
	if failed.Success || failed.VideoPath != "" || failed.Error == "" {
		t.Fatalf("failed result malformed: %+v", failed)
	}
}

func TestRenderPlanRejectsIncompleteKeyframes(t *testing.T) {
	plan := testPlan(t)
	plan.Segments[0].EndKeyframe.ImagePath = ""
	renderer := render.NewRenderer(mock.NewVideoProvider(), logging.NewNop())

	_, err := renderer.RenderPlan(context.Background(), plan)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation marker", err)
	}
}

func TestRenderPlanStopsOnCancelledContext(t *testing.T) {
	plan := testPlan(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := render.NewRenderer(mock.NewVideoProvider(), logging.NewNop()).RenderPlan(ctx, plan)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestBuildPromptStructure(t *testing.T) {
	plan := testPlan(t)
	segment := plan.Segments[0]
	locks := render.ContinuityLocks{
		Character: "The Expert",
		Location:  "Modern Workplace",
		Style:     "professional",
		Emotion:   segment.Emotion,
	}
	prompt := render.BuildPrompt(segment, locks, render.DefaultDirective(), plan.StoryboardMetadata.Story)

	parts := strings.Split(prompt, " | ")
	if !strings.HasPrefix(parts[0], "Start: ") {
		t.Fatalf("prompt does not open with the start keyframe: %q", parts[0])
	}
	if parts[len(parts)-1] != "Duration: 8 seconds" {
		t.Fatalf("prompt does not close with the duration clause: %q", parts[len(parts)-1])
	}
	for _, want := range []string{
		"Character: The Expert",
		"Location: Modern Workplace",
		"Style: professional",
		"Motion: smooth",
		"Transition: fade",
		"Product context: AI Tool",
		"Platform: short video",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "Camera: ") {
		t.Errorf("camera clause should be omitted when movement is none:\n%s", prompt)
	}
}

func TestRenderSegmentByID(t *testing.T) {
	plan := testPlan(t)
	renderer := render.NewRenderer(mock.NewVideoProvider(), logging.NewNop())

	result, err := renderer.RenderSegment(context.Background(), plan, plan.Segments[2].ID)
	if err != nil {
		t.Fatalf("RenderSegment: %v", err)
	}
	if !result.Success || result.SegmentID != plan.Segments[2].ID {
		t.Fatalf("result = %+v", result)
	}

	if _, err := renderer.RenderSegment(context.Background(), plan, 99); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("missing segment err = %v, want validation marker", err)
	}
}
