package service

import (
	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

// Resolver maps a playback instant to the active patterns and the current song.
// It holds no state: resolving the same instant twice yields the same set.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve computes the active set at time t.
//
// A pattern is active when any of its timestamps contains t (closed interval).
// Every pattern is checked, so overlapping patterns are all reported, in
// sequence order. Jungle and DnB point at the first active pattern of that
// category; Song is the first song containing t.
func (r *Resolver) Resolve(t float64, annotations *domain.MixAnnotations) domain.ActiveSet {
	set := domain.ActiveSet{Time: t}
	if annotations == nil {
		return set
	}

	jungle, dnb := -1, -1
	for _, p := range annotations.Patterns {
		if !IsActive(p, t) {
			continue
		}
		switch {
		case p.Category == domain.CategoryJungle && jungle < 0:
			jungle = len(set.Patterns)
		case p.Category == domain.CategoryDnB && dnb < 0:
			dnb = len(set.Patterns)
		}
		set.Patterns = append(set.Patterns, p)
	}

	if jungle >= 0 {
		set.Jungle = &set.Patterns[jungle]
	}
	if dnb >= 0 {
		set.DnB = &set.Patterns[dnb]
	}

	set.Song = r.CurrentSong(t, annotations)
	return set
}

// CurrentSong returns the first song whose interval contains t, or nil.
// Overlapping songs are tolerated; the earliest in sequence wins.
func (r *Resolver) CurrentSong(t float64, annotations *domain.MixAnnotations) *domain.Song {
	if annotations == nil {
		return nil
	}
	for i := range annotations.Songs {
		if annotations.Songs[i].Contains(t) {
			song := annotations.Songs[i]
			return &song
		}
	}
	return nil
}

// IsActive reports whether the pattern is audible at t.
func IsActive(p domain.Pattern, t float64) bool {
	return p.IsActive(t)
}
