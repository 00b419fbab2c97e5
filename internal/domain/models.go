// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the MixViz visualizer.
package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Timestamp is one contiguous interval during which a pattern is audible.
type Timestamp struct {
	// Start is the interval start in seconds
	Start float64 `json:"start"`

	// End is the interval end in seconds (Start <= End)
	End float64 `json:"end"`

	// Song optionally names the song the interval falls into
	Song string `json:"song,omitempty"`
}

// Contains reports whether t lies within the interval.
// Both boundaries are inclusive: a pattern ending exactly at t is still active.
func (ts Timestamp) Contains(t float64) bool {
	return t >= ts.Start && t <= ts.End
}

// Length returns the interval length in seconds.
func (ts Timestamp) Length() float64 {
	return ts.End - ts.Start
}

// Fingerprint is an open set of descriptive attributes (bpm, key, energy...).
// Values are numbers or strings. Unknown keys are display-only metadata.
type Fingerprint map[string]any

// FingerprintEntry is one displayable fingerprint attribute.
type FingerprintEntry struct {
	Key   string
	Value string
}

// Entries returns the fingerprint attributes as display strings, sorted by key.
// Nested values (maps, slices) are skipped.
func (f Fingerprint) Entries() []FingerprintEntry {
	entries := make([]FingerprintEntry, 0, len(f))
	for key, value := range f {
		switch v := value.(type) {
		case map[string]any, []any:
			continue
		case float64:
			entries = append(entries, FingerprintEntry{Key: key, Value: formatNumber(v)})
		case nil:
			continue
		default:
			entries = append(entries, FingerprintEntry{Key: key, Value: fmt.Sprint(v)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// Pattern is an annotated recurring musical element (a drum break, a bass sound...)
// together with every interval where it occurs in the mix.
//
// A Pattern is immutable after load: the UI only filters and reads it.
type Pattern struct {
	// Name is the display label and the analysis lookup key source
	Name string `json:"name"`

	// Type is the raw domain tag from the data file ("jungle", "dnb", "break"...)
	Type string `json:"type"`

	// Category is the normalized form of Type, assigned at ingestion
	Category Category `json:"-"`

	// Fingerprint describes the sound (may be nil when neither data file has one)
	Fingerprint Fingerprint `json:"fingerprint,omitempty"`

	// Timestamps lists every interval where the pattern is audible (order irrelevant)
	Timestamps []Timestamp `json:"timestamps"`

	// Details holds free-form analysis details (e.g. "description")
	Details map[string]any `json:"details,omitempty"`

	// RhythmPattern holds onset strengths in [0,1]
	RhythmPattern []float64 `json:"rhythm_pattern,omitempty"`

	// PitchHistogram holds relative pitch-class frequencies
	PitchHistogram []float64 `json:"pitch_histogram,omitempty"`

	// NoteDensityOverTime holds non-negative notes-per-slice values
	NoteDensityOverTime []float64 `json:"note_density_over_time,omitempty"`

	// MostCommonPitches holds the dominant MIDI pitch classes
	MostCommonPitches []int `json:"most_common_pitches,omitempty"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeKey derives the analysis lookup key for a pattern name:
// lowercase, with every whitespace run replaced by a single underscore.
func NormalizeKey(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "_")
}

// Key returns the analysis lookup key for this pattern.
func (p Pattern) Key() string {
	return NormalizeKey(p.Name)
}

// IsActive reports whether any of the pattern's intervals contains t.
func (p Pattern) IsActive(t float64) bool {
	for _, ts := range p.Timestamps {
		if ts.Contains(t) {
			return true
		}
	}
	return false
}

// Description returns the "description" detail if present.
func (p Pattern) Description() string {
	if p.Details == nil {
		return ""
	}
	if s, ok := p.Details["description"].(string); ok {
		return s
	}
	return ""
}

// Song is a named contiguous segment of the mix timeline (one track within the mix).
type Song struct {
	Title string  `json:"title"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Contains reports whether t lies within the song (closed interval).
func (s Song) Contains(t float64) bool {
	return t >= s.Start && t <= s.End
}

// MixAnnotations is the aggregate root: one annotated mix.
// It is built once at startup and read-only for the rest of the session.
type MixAnnotations struct {
	// YouTubeVideoID identifies the video the external player should load
	YouTubeVideoID string `json:"youtubeVideoId"`

	// MixTitle is an optional display title
	MixTitle string `json:"mixTitle,omitempty"`

	// MixDescription is an optional display description
	MixDescription string `json:"mixDescription,omitempty"`

	// Patterns is the ordered pattern sequence
	Patterns []Pattern `json:"patterns"`

	// Songs is the ordered song sequence
	Songs []Song `json:"songs"`
}

// NewEmptyAnnotations returns the empty-but-well-typed "no data" structure.
func NewEmptyAnnotations() *MixAnnotations {
	return &MixAnnotations{
		Patterns: []Pattern{},
		Songs:    []Song{},
	}
}

// Empty reports whether there is nothing to visualize.
func (m *MixAnnotations) Empty() bool {
	return m == nil || (len(m.Patterns) == 0 && len(m.Songs) == 0)
}

// Duration returns the maximum end time over all songs and pattern intervals.
func (m *MixAnnotations) Duration() float64 {
	if m == nil {
		return 0
	}
	var maxEnd float64
	for _, s := range m.Songs {
		if s.End > maxEnd {
			maxEnd = s.End
		}
	}
	for _, p := range m.Patterns {
		for _, ts := range p.Timestamps {
			if ts.End > maxEnd {
				maxEnd = ts.End
			}
		}
	}
	return maxEnd
}

// ElementAnalysis is one record of the supplementary per-pattern analysis file.
type ElementAnalysis struct {
	Name                string         `json:"name,omitempty"`
	Type                string         `json:"type,omitempty"`
	FileType            string         `json:"file_type,omitempty"`
	Duration            float64        `json:"duration,omitempty"`
	Fingerprint         Fingerprint    `json:"fingerprint,omitempty"`
	Details             map[string]any `json:"details,omitempty"`
	RhythmPattern       []float64      `json:"rhythm_pattern,omitempty"`
	PitchHistogram      []float64      `json:"pitch_histogram,omitempty"`
	NoteDensityOverTime []float64      `json:"note_density_over_time,omitempty"`
	MostCommonPitches   []int          `json:"most_common_pitches,omitempty"`
}

// AnalysisIndex maps normalized pattern keys to analysis records.
type AnalysisIndex map[string]ElementAnalysis

// PlaybackState is the engine's best-effort mirror of the external player's clock.
type PlaybackState struct {
	// CurrentTime is the last known playback position in seconds
	CurrentTime float64

	// IsPlaying is true between a "playing" and a "paused" notification
	IsPlaying bool

	// LastObservedTime is the position seen by the previous seek check
	LastObservedTime float64

	// LastUpdate is the wall-clock time of the last re-resolution
	LastUpdate time.Time
}

// ActiveSet is the result of resolving one playback instant.
type ActiveSet struct {
	// Time is the instant that was resolved
	Time float64

	// Patterns lists every active pattern, in sequence order
	Patterns []Pattern

	// Jungle is the first active jungle pattern (nil if none)
	Jungle *Pattern

	// DnB is the first active drum & bass pattern (nil if none)
	DnB *Pattern

	// Song is the song playing at Time (nil if none)
	Song *Song
}

// Names returns the names of the active patterns in order.
func (a ActiveSet) Names() []string {
	names := make([]string, len(a.Patterns))
	for i, p := range a.Patterns {
		names[i] = p.Name
	}
	return names
}

// SongTitle returns the current song title or "".
func (a ActiveSet) SongTitle() string {
	if a.Song == nil {
		return ""
	}
	return a.Song.Title
}

// SampleInfo describes an audio sample file associated with a pattern.
type SampleInfo struct {
	Path   string
	Title  string
	Artist string
	Album  string
	Genre  string
	Format string
	Year   int
}
