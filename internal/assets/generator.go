package assets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phatcz/TiktokClipGenerator/internal/logging"
	"github.com/phatcz/TiktokClipGenerator/internal/providers"
	"github.com/phatcz/TiktokClipGenerator/internal/services"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
)

// maxCandidates caps how many templates a single run can draw from.
const maxCandidates = 5

type characterTemplate struct {
	name        string
	describe    func(story.Brief) string
	style       string
	ageRange    string
	personality string
}

type locationTemplate struct {
	name          string
	description   string
	scenePurposes []string
	style         string
	mood          string
}

var characterTemplates = []characterTemplate{
	{
		name: "The Expert",
		describe: func(b story.Brief) string {
			return fmt.Sprintf("An expert who understands the problem and recommends %s", b.Product)
		},
		style:       "professional",
		ageRange:    "30-45",
		personality: "confident, knowledgeable",
	},
	{
		name: "The Real User",
		describe: func(b story.Brief) string {
			return fmt.Sprintf("A member of %s who succeeded with %s", b.Audience, b.Product)
		},
		style:       "relatable",
		ageRange:    "25-40",
		personality: "friendly, authentic",
	},
	{
		name: "The Beginner",
		describe: func(b story.Brief) string {
			return fmt.Sprintf("Someone just getting started and learning about %s", b.Product)
		},
		style:       "approachable",
		ageRange:    "20-35",
		personality: "curious, eager",
	},
	{
		name: "The Creator",
		describe: func(b story.Brief) string {
			return fmt.Sprintf("A content creator using %s on %s", b.Product, b.Platform)
		},
		style:       "creative",
		ageRange:    "22-38",
		personality: "innovative, energetic",
	},
	{
		name: "The Mentor",
		describe: func(b story.Brief) string {
			return fmt.Sprintf("A teacher who helps %s understand %s", b.Audience, b.Product)
		},
		style:       "educational",
		ageRange:    "28-42",
		personality: "patient, clear",
	},
}

var locationTemplates = []locationTemplate{
	{
		name:          "Workplace",
		description:   "A workplace that reflects the problem and its pressures",
		scenePurposes: []string{story.PurposeHook, story.PurposeConflict},
		style:         "modern office",
		mood:          "professional, challenging",
	},
	{
		name:          "Home",
		description:   "A personal space that reads as comfortable and private",
		scenePurposes: []string{story.PurposeReveal, story.PurposeClose},
		style:         "cozy home",
		mood:          "comfortable, personal",
	},
	{
		name:          "Studio",
		description:   "A studio built for content creation and creative work",
		scenePurposes: []string{story.PurposeReveal, story.PurposeClose},
		style:         "creative studio",
		mood:          "creative, inspiring",
	},
	{
		name:          "Public Space",
		description:   "A public space that reflects real-world use",
		scenePurposes: []string{story.PurposeHook, story.PurposeConflict, story.PurposeReveal},
		style:         "public space",
		mood:          "realistic, relatable",
	},
	{
		name:          "Digital Space",
		description:   "A backdrop that shows results on the digital platform",
		scenePurposes: []string{story.PurposeReveal, story.PurposeClose},
		style:         "digital interface",
		mood:          "modern, tech-forward",
	},
}

// Generator produces candidate sets for a story.
type Generator struct {
	images        providers.ImageProvider
	logger        *slog.Logger
	numCharacters int
	numLocations  int
}

// NewGenerator builds a generator. Candidate counts are clamped to the
// template pool size; non-positive counts default to the pool size of four.
func NewGenerator(images providers.ImageProvider, logger *slog.Logger, numCharacters, numLocations int) *Generator {
	return &Generator{
		images:        images,
		logger:        logging.NewComponentLogger(logger, "assets"),
		numCharacters: clampCount(numCharacters),
		numLocations:  clampCount(numLocations),
	}
}

func clampCount(n int) int {
	if n <= 0 {
		return 4
	}
	if n > maxCandidates {
		return maxCandidates
	}
	return n
}

// Generate builds character and location candidates with imagery from the
// image provider and a default selection pointing at the first candidate of
// each kind. Candidates whose image call fails are dropped with a warning;
// the stage fails only when a kind ends up with zero candidates.
func (g *Generator) Generate(ctx context.Context, s story.Story) (Set, error) {
	brief := s.Brief()

	characters, err := g.generateCharacters(ctx, brief)
	if err != nil {
		return Set{}, err
	}
	locations, err := g.generateLocations(ctx, brief)
	if err != nil {
		return Set{}, err
	}

	return Set{
		Story:      s,
		Characters: characters,
		Locations:  locations,
		Selection: Selection{
			SelectedCharacterID: characters[0].ID,
			SelectedLocationID:  locations[0].ID,
		},
	}, nil
}

func (g *Generator) generateCharacters(ctx context.Context, brief story.Brief) ([]Character, error) {
	var characters []Character
	var lastErr error

	for _, tmpl := range characterTemplates[:g.numCharacters] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prompt := fmt.Sprintf("%s, %s style, age %s, %s, suitable for %s audience",
			tmpl.name, tmpl.style, tmpl.ageRange, tmpl.personality, brief.Audience)

		result, err := g.images.GenerateImage(ctx, providers.ImageRequest{Prompt: prompt, Style: tmpl.style})
		if err != nil {
			lastErr = err
			g.logger.Warn("dropping character candidate, image generation failed",
				logging.String("candidate", tmpl.name),
				logging.Error(err),
			)
			continue
		}

		characters = append(characters, Character{
			ID:          len(characters) + 1,
			Name:        tmpl.name,
			Description: tmpl.describe(brief),
			Style:       tmpl.style,
			AgeRange:    tmpl.ageRange,
			Personality: tmpl.personality,
			ImageURL:    imageRef(result),
			ImagePrompt: prompt,
		})
	}

	if len(characters) == 0 {
		return nil, services.Wrap(services.Classify(lastErr), "assets", "characters",
			"no usable character candidates", lastErr)
	}
	return characters, nil
}

func (g *Generator) generateLocations(ctx context.Context, brief story.Brief) ([]Location, error) {
	var locations []Location
	var lastErr error

	for _, tmpl := range locationTemplates[:g.numLocations] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prompt := fmt.Sprintf("%s, %s style, %s, suitable for %s content, %s audience",
			tmpl.name, tmpl.style, tmpl.mood, brief.Platform, brief.Audience)

		result, err := g.images.GenerateImage(ctx, providers.ImageRequest{Prompt: prompt, Style: tmpl.style})
		if err != nil {
			lastErr = err
			g.logger.Warn("dropping location candidate, image generation failed",
				logging.String("candidate", tmpl.name),
				logging.Error(err),
			)
			continue
		}

		locations = append(locations, Location{
			ID:            len(locations) + 1,
			Name:          tmpl.name,
			Description:   tmpl.description,
			ScenePurposes: append([]string(nil), tmpl.scenePurposes...),
			Style:         tmpl.style,
			Mood:          tmpl.mood,
			ImageURL:      imageRef(result),
			ImagePrompt:   prompt,
		})
	}

	if len(locations) == 0 {
		return nil, services.Wrap(services.Classify(lastErr), "assets", "locations",
			"no usable location candidates", lastErr)
	}
	return locations, nil
}

// imageRef prefers a local path over a remote URL.
func imageRef(result providers.ImageResult) string {
	if strings.TrimSpace(result.ImagePath) != "" {
		return result.ImagePath
	}
	return result.ImageURL
}
