package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

// DefaultMixDuration is the length of the original single-mix deployment (32:24).
// It is used when the data gives no duration of its own.
const DefaultMixDuration = 1944.0

// timelineBaseHeight is the strip height the vertical layout below is expressed in.
// Taller strips scale every vertical coordinate proportionally.
const timelineBaseHeight = 30.0

var (
	timelineBackground = color.White
	timelineMarker     = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	songShades         = [2]color.NRGBA{RGBA(70, 130, 180, 0.3), RGBA(100, 149, 237, 0.3)}
	patternShade       = RGBA(128, 128, 128, 0.7)
	playheadColor      = color.NRGBA{R: 0x42, G: 0xA5, B: 0xF5, A: 0xff}
	playheadWidth      = 5
)

// TimelineDuration picks the total duration the timeline is scaled to.
// A positive override wins; otherwise the maximum end time in the data is used,
// falling back to DefaultMixDuration when there is no data.
func TimelineDuration(annotations *domain.MixAnnotations, override float64) float64 {
	if override > 0 {
		return override
	}
	if d := annotations.Duration(); d > 0 {
		return d
	}
	return DefaultMixDuration
}

// Timeline draws the scrubbable strip: ticks, song bands, pattern bands and the playhead.
type Timeline struct {
	du       DrawingUtils
	duration float64
}

// NewTimeline creates a timeline for the given total duration in seconds.
// Non-positive durations use DefaultMixDuration.
func NewTimeline(duration float64) *Timeline {
	if duration <= 0 {
		duration = DefaultMixDuration
	}
	return &Timeline{duration: duration}
}

// Duration returns the total duration the strip is scaled to.
func (t *Timeline) Duration() float64 {
	return t.duration
}

// Render allocates a w x h image and draws the timeline into it.
func (t *Timeline) Render(w, h int, annotations *domain.MixAnnotations, currentTime float64) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	t.Draw(img, annotations, currentTime)
	return img
}

// Draw paints the full timeline into img, layers bottom to top.
func (t *Timeline) Draw(img *image.RGBA, annotations *domain.MixAnnotations, currentTime float64) {
	bounds := img.Bounds()
	width := float64(bounds.Dx())
	height := bounds.Dy()
	scale := float64(height) / timelineBaseHeight
	sy := func(v float64) int { return int(math.Round(v * scale)) }

	t.du.FillBackground(img, timelineBackground)

	// Time markers, roughly ten of them
	interval := math.Ceil(t.duration / 10)
	for at := 0.0; at <= t.duration; at += interval {
		x := t.XFor(at, width)
		t.du.DrawThickLine(img, x, 0, x, float64(sy(5)), 1, timelineMarker)
		t.du.DrawText(img, FormatTime(at), int(x), sy(12)+4, AlignCenter, timelineMarker)
	}

	if annotations == nil {
		return
	}

	for i, song := range annotations.Songs {
		x0, w := t.band(song.Start, song.End, width)
		t.du.FillRect(img, x0, sy(25), w, sy(10), songShades[i%2])
	}

	// Pattern bands are deliberately uniform: presence matters, not category
	for _, p := range annotations.Patterns {
		for _, ts := range p.Timestamps {
			x0, w := t.band(ts.Start, ts.End, width)
			t.du.FillRect(img, x0, sy(15), w, sy(8), patternShade)
		}
	}

	if currentTime > 0 {
		x := t.XFor(currentTime, width)
		t.du.FillRect(img, int(math.Round(x))-playheadWidth/2, 0, playheadWidth, height, playheadColor)
		t.du.DrawText(img, FormatTime(currentTime), int(x), height-2, AlignCenter, color.Black)
	}
}

// band maps an interval to a pixel column range at least one pixel wide.
func (t *Timeline) band(start, end, width float64) (x0, w int) {
	x0 = int(math.Floor(start / t.duration * width))
	x1 := int(math.Floor(end / t.duration * width))
	return x0, max(x1-x0, 1)
}

// XFor maps a time in seconds to an x coordinate on a strip of the given width.
func (t *Timeline) XFor(seconds, width float64) float64 {
	return seconds / t.duration * width
}

// TimeAt maps a click at x on a strip of the given width back to seconds.
// The result is clamped to [0, duration]; there is no snapping to annotations.
func (t *Timeline) TimeAt(x, width float64) float64 {
	if width <= 0 {
		return 0
	}
	at := x / width * t.duration
	return math.Max(0, math.Min(t.duration, at))
}

// FormatTime renders seconds as M:SS. Negative values render as 0:00.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	mins := int(seconds) / 60
	secs := int(math.Mod(seconds, 60))
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// FormatRange renders an interval as "M:SS - M:SS".
func FormatRange(start, end float64) string {
	return FormatTime(start) + " - " + FormatTime(end)
}

// FormatAppearance renders one pattern occurrence as "M:SS - M:SS (N seconds)".
func FormatAppearance(ts domain.Timestamp) string {
	return fmt.Sprintf("%s (%d seconds)", FormatRange(ts.Start, ts.End), int(math.Round(ts.Length())))
}
