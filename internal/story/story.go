package story

import "fmt"

// Scene purposes, in the order every story presents them.
const (
	PurposeHook     = "hook"
	PurposeConflict = "conflict"
	PurposeReveal   = "reveal"
	PurposeClose    = "close"
)

// PurposeOrder is the required scene sequence.
var PurposeOrder = []string{PurposeHook, PurposeConflict, PurposeReveal, PurposeClose}

// Brief captures the campaign inputs a run starts from.
type Brief struct {
	Goal     string `json:"goal" yaml:"goal"`
	Product  string `json:"product" yaml:"product"`
	Audience string `json:"audience" yaml:"audience"`
	Platform string `json:"platform" yaml:"platform"`
}

// Scene is one beat of the story. Duration is whole seconds.
type Scene struct {
	ID          int    `json:"id"`
	Purpose     string `json:"purpose"`
	Emotion     string `json:"emotion"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
}

// Story is the stage output: the brief plus its four scenes.
type Story struct {
	Goal     string  `json:"goal"`
	Product  string  `json:"product"`
	Audience string  `json:"audience"`
	Platform string  `json:"platform"`
	Scenes   []Scene `json:"scenes"`
}

// Brief returns the campaign inputs embedded in the story.
func (s Story) Brief() Brief {
	return Brief{Goal: s.Goal, Product: s.Product, Audience: s.Audience, Platform: s.Platform}
}

// Goals with dedicated phrasing. Anything else falls back to generic
// templates built from the same brief fields.
const (
	GoalSellCourse    = "sell online course"
	GoalGrowFollowers = "grow followers"
	GoalBuildBrand    = "build brand"
)

// Generate builds the four-scene story for a brief. It never fails: unknown
// goals use fallback phrasing.
func Generate(brief Brief) Story {
	return Story{
		Goal:     brief.Goal,
		Product:  brief.Product,
		Audience: brief.Audience,
		Platform: brief.Platform,
		Scenes: []Scene{
			{ID: 1, Purpose: PurposeHook, Emotion: "curious", Duration: 3, Description: hookDescription(brief)},
			{ID: 2, Purpose: PurposeConflict, Emotion: "frustrated", Duration: 5, Description: conflictDescription(brief)},
			{ID: 3, Purpose: PurposeReveal, Emotion: "relief", Duration: 5, Description: revealDescription(brief)},
			{ID: 4, Purpose: PurposeClose, Emotion: "confident", Duration: 4, Description: closeDescription(brief)},
		},
	}
}

func hookDescription(b Brief) string {
	switch b.Goal {
	case GoalSellCourse:
		return fmt.Sprintf("Ask why %s still have not started using %s", b.Audience, b.Product)
	case GoalGrowFollowers:
		return fmt.Sprintf("Did you know what %s really want from %s?", b.Audience, b.Platform)
	case GoalBuildBrand:
		return fmt.Sprintf("Why is %s so popular with %s?", b.Product, b.Audience)
	default:
		return fmt.Sprintf("Open with an intriguing question about %s for %s", b.Product, b.Audience)
	}
}

func conflictDescription(b Brief) string {
	switch b.Goal {
	case GoalSellCourse:
		return fmt.Sprintf("Show the struggle %s face when learning on their own", b.Audience)
	case GoalGrowFollowers:
		return fmt.Sprintf("Show how hard it is to keep producing content for %s", b.Platform)
	case GoalBuildBrand:
		return fmt.Sprintf("Show how hard it is to earn recognition and trust from %s", b.Audience)
	default:
		return fmt.Sprintf("Show the problems and challenges %s run into", b.Audience)
	}
}

func revealDescription(b Brief) string {
	switch b.Goal {
	case GoalSellCourse:
		return fmt.Sprintf("Introduce %s, which lets %s learn quickly and easily", b.Product, b.Audience)
	case GoalGrowFollowers:
		return fmt.Sprintf("Reveal how %s creates content that lands on %s", b.Product, b.Platform)
	case GoalBuildBrand:
		return fmt.Sprintf("Introduce %s as the answer for %s", b.Product, b.Audience)
	default:
		return fmt.Sprintf("Introduce %s as the way out of the problem", b.Product)
	}
}

func closeDescription(b Brief) string {
	switch b.Goal {
	case GoalSellCourse:
		return fmt.Sprintf("Invite %s to enroll in %s", b.Audience, b.Product)
	case GoalGrowFollowers:
		return fmt.Sprintf("Invite viewers to follow and try %s on %s", b.Product, b.Platform)
	case GoalBuildBrand:
		return fmt.Sprintf("Invite %s to try %s and follow the results", b.Audience, b.Product)
	default:
		return fmt.Sprintf("Invite viewers to try %s", b.Product)
	}
}
