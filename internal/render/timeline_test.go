package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

func TestTimelineDuration(t *testing.T) {
	mix := &domain.MixAnnotations{
		Songs:    []domain.Song{{Title: "A", Start: 0, End: 600}},
		Patterns: []domain.Pattern{{Name: "P", Timestamps: []domain.Timestamp{{Start: 650, End: 700}}}},
	}

	assert.InDelta(t, 700.0, TimelineDuration(mix, 0), 1e-9, "derived from data")
	assert.InDelta(t, 1944.0, TimelineDuration(mix, 1944), 1e-9, "override wins")
	assert.InDelta(t, DefaultMixDuration, TimelineDuration(domain.NewEmptyAnnotations(), 0), 1e-9)
	assert.InDelta(t, DefaultMixDuration, TimelineDuration(nil, -5), 1e-9)
}

func TestTimeAtRoundTrip(t *testing.T) {
	tl := NewTimeline(1944)
	const width = 800.0

	assert.Zero(t, tl.TimeAt(0, width))
	assert.InDelta(t, 1944.0, tl.TimeAt(width, width), 1e-9)
	assert.InDelta(t, 972.0, tl.TimeAt(400, width), 1e-9)
	assert.InDelta(t, 123.0/800*1944, tl.TimeAt(123, width), 1e-9, "no snapping")

	// Out-of-strip clicks clamp
	assert.Zero(t, tl.TimeAt(-10, width))
	assert.InDelta(t, 1944.0, tl.TimeAt(width+10, width), 1e-9)
	assert.Zero(t, tl.TimeAt(10, 0))

	for _, x := range []float64{0, 17, 250.5, 799} {
		assert.InDelta(t, x, tl.XFor(tl.TimeAt(x, width), width), 1e-9)
	}
}

func TestNewTimelineDefaults(t *testing.T) {
	assert.InDelta(t, DefaultMixDuration, NewTimeline(0).Duration(), 1e-9)
	assert.InDelta(t, 90.0, NewTimeline(90).Duration(), 1e-9)
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{60, "1:00"},
		{194.4, "3:14"},
		{1944, "32:24"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTime(tt.in))
	}

	assert.Equal(t, "0:10 - 0:20", FormatRange(10, 20))
	assert.Equal(t, "1:00 - 1:30 (30 seconds)", FormatAppearance(domain.Timestamp{Start: 60, End: 90}))
	assert.Equal(t, "0:00 - 0:02 (3 seconds)", FormatAppearance(domain.Timestamp{Start: 0, End: 2.5}))
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestTimelineDraw(t *testing.T) {
	mix := &domain.MixAnnotations{
		Songs: []domain.Song{
			{Title: "A", Start: 0, End: 50},
			{Title: "B", Start: 50, End: 100},
		},
		Patterns: []domain.Pattern{
			{Name: "Amen", Timestamps: []domain.Timestamp{{Start: 20, End: 40}}},
		},
	}
	tl := NewTimeline(100)

	img := tl.Render(200, 30, mix, 0).(*image.RGBA)

	// Untouched area stays white
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(img, 190, 24))

	// Pattern band: grey over white at x in [40, 80), y in [15, 23)
	band := rgbaAt(img, 45, 21)
	assert.InDelta(t, 166, int(band.R), 2)
	assert.Equal(t, band.R, band.G)
	assert.Equal(t, band.G, band.B)

	// Song bands alternate shades
	first := rgbaAt(img, 20, 30-3)
	second := rgbaAt(img, 150, 30-3)
	assert.NotEqual(t, first, second)
	assert.Less(t, int(first.R), 255)

	// No playhead at time 0
	for x := 0; x < 200; x++ {
		assert.NotEqual(t, color.RGBA{0x42, 0xA5, 0xF5, 0xff}, rgbaAt(img, x, 24))
	}
}

func TestTimelinePlayhead(t *testing.T) {
	tl := NewTimeline(100)
	img := tl.Render(200, 30, domain.NewEmptyAnnotations(), 50)

	require.Equal(t, image.Rect(0, 0, 200, 30), img.Bounds())
	assert.Equal(t, color.RGBA{0x42, 0xA5, 0xF5, 0xff}, rgbaAt(img, 100, 8))
	assert.Equal(t, color.RGBA{0x42, 0xA5, 0xF5, 0xff}, rgbaAt(img, 98, 8), "5px wide")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(img, 130, 23))
}

func TestTimelineRenderScalesWithHeight(t *testing.T) {
	mix := &domain.MixAnnotations{
		Patterns: []domain.Pattern{{Name: "P", Timestamps: []domain.Timestamp{{Start: 0, End: 100}}}},
	}
	img := NewTimeline(100).Render(100, 60, mix, 0)

	// Pattern band sits at y in [30, 46) on a doubled strip
	assert.NotEqual(t, color.RGBA{255, 255, 255, 255}, rgbaAt(img, 50, 40))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(img, 50, 48))

	// Degenerate sizes do not panic
	assert.NotPanics(t, func() { NewTimeline(100).Render(0, 0, mix, 10) })
	assert.NotPanics(t, func() { NewTimeline(100).Render(50, 10, nil, 10) })
}
