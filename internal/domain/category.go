package domain

import "strings"

// Category is the normalized pattern category.
// The data files use "jungle"/"break" and "dnb"/"bass" as synonyms; they are
// folded into one value here so renderers never compare raw type strings.
type Category int

const (
	// CategoryOther covers ambient sounds, samples and anything unknown
	CategoryOther Category = iota

	// CategoryJungle covers jungle elements and breakbeats
	CategoryJungle

	// CategoryDnB covers drum & bass elements and basslines
	CategoryDnB
)

var categorySynonyms = map[string]Category{
	"jungle":        CategoryJungle,
	"break":         CategoryJungle,
	"breaks":        CategoryJungle,
	"breakbeat":     CategoryJungle,
	"dnb":           CategoryDnB,
	"bass":          CategoryDnB,
	"drum and bass": CategoryDnB,
	"drum_and_bass": CategoryDnB,
	"drum-and-bass": CategoryDnB,
}

// ParseCategory normalizes a raw type tag.
func ParseCategory(raw string) Category {
	if c, ok := categorySynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return c
	}
	return CategoryOther
}

// String returns a human-readable representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryJungle:
		return "jungle"
	case CategoryDnB:
		return "dnb"
	default:
		return "other"
	}
}

// PlayerState is a state code reported by the external player.
// The values follow the YouTube IFrame player API.
type PlayerState int

const (
	PlayerUnstarted PlayerState = -1
	PlayerEnded     PlayerState = 0
	PlayerPlaying   PlayerState = 1
	PlayerPaused    PlayerState = 2
	PlayerBuffering PlayerState = 3
	PlayerCued      PlayerState = 5
)

// String returns a human-readable representation of the player state.
func (s PlayerState) String() string {
	switch s {
	case PlayerUnstarted:
		return "unstarted"
	case PlayerEnded:
		return "ended"
	case PlayerPlaying:
		return "playing"
	case PlayerPaused:
		return "paused"
	case PlayerBuffering:
		return "buffering"
	case PlayerCued:
		return "cued"
	default:
		return "unknown"
	}
}
