package assets

import (
	"fmt"

	"github.com/phatcz/TiktokClipGenerator/internal/services"
	"github.com/phatcz/TiktokClipGenerator/internal/story"
)

// Character is one on-screen persona candidate.
type Character struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Style       string `json:"style"`
	AgeRange    string `json:"age_range"`
	Personality string `json:"personality"`
	ImageURL    string `json:"image_url"`
	ImagePrompt string `json:"image_prompt"`
}

// Location is one setting candidate. ScenePurposes lists the story beats the
// setting suits.
type Location struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ScenePurposes []string `json:"scene_purposes"`
	Style         string   `json:"style"`
	Mood          string   `json:"mood"`
	ImageURL      string   `json:"image_url"`
	ImagePrompt   string   `json:"image_prompt"`
}

// Selection records which candidates downstream stages should use.
type Selection struct {
	SelectedCharacterID int `json:"selected_character_id"`
	SelectedLocationID  int `json:"selected_location_id"`
}

// Set is the stage output: the source story, both candidate lists, and the
// current selection.
type Set struct {
	Story      story.Story `json:"story"`
	Characters []Character `json:"characters"`
	Locations  []Location  `json:"locations"`
	Selection  Selection   `json:"selection"`
}

// WithSelection returns a copy of the set with the selection updated. A zero
// ID leaves that half of the selection unchanged. Unknown IDs fail with a
// validation marker.
func (s Set) WithSelection(characterID, locationID int) (Set, error) {
	if characterID != 0 {
		if s.findCharacter(characterID) == nil {
			return Set{}, services.Wrap(services.ErrValidation, "assets", "select",
				fmt.Sprintf("character id %d not found in candidates", characterID), nil)
		}
		s.Selection.SelectedCharacterID = characterID
	}
	if locationID != 0 {
		if s.findLocation(locationID) == nil {
			return Set{}, services.Wrap(services.ErrValidation, "assets", "select",
				fmt.Sprintf("location id %d not found in candidates", locationID), nil)
		}
		s.Selection.SelectedLocationID = locationID
	}
	return s, nil
}

// SelectedCharacter returns the currently selected character, or nil when
// nothing is selected.
func (s Set) SelectedCharacter() *Character {
	return s.findCharacter(s.Selection.SelectedCharacterID)
}

// SelectedLocation returns the currently selected location, or nil when
// nothing is selected.
func (s Set) SelectedLocation() *Location {
	return s.findLocation(s.Selection.SelectedLocationID)
}

func (s Set) findCharacter(id int) *Character {
	for i := range s.Characters {
		if s.Characters[i].ID == id {
			return &s.Characters[i]
		}
	}
	return nil
}

func (s Set) findLocation(id int) *Location {
	for i := range s.Locations {
		if s.Locations[i].ID == id {
			return &s.Locations[i]
		}
	}
	return nil
}
