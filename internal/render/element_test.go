package render

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

func TestSelectStylePriority(t *testing.T) {
	tests := []struct {
		name    string
		pattern domain.Pattern
		want    Style
	}{
		{
			name: "rhythm wins over everything",
			pattern: domain.Pattern{
				Category:            domain.CategoryDnB,
				RhythmPattern:       []float64{0.2},
				PitchHistogram:      []float64{1},
				NoteDensityOverTime: []float64{3},
			},
			want: StyleRhythm,
		},
		{
			name:    "pitch over density",
			pattern: domain.Pattern{PitchHistogram: []float64{1}, NoteDensityOverTime: []float64{3}},
			want:    StylePitch,
		},
		{
			name:    "density alone",
			pattern: domain.Pattern{NoteDensityOverTime: []float64{3}},
			want:    StyleDensity,
		},
		{
			name:    "empty series fall through",
			pattern: domain.Pattern{RhythmPattern: []float64{}, Category: domain.CategoryJungle},
			want:    StyleBreakBars,
		},
		{
			name:    "dnb fallback",
			pattern: domain.Pattern{Category: domain.CategoryDnB},
			want:    StyleBassWave,
		},
		{
			name:    "other fallback",
			pattern: domain.Pattern{Category: domain.CategoryOther},
			want:    StyleCircles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectStyle(tt.pattern))
		})
	}
}

func TestEveryStyleHasADrawFunc(t *testing.T) {
	for _, s := range []Style{StyleRhythm, StylePitch, StyleDensity, StyleBreakBars, StyleBassWave, StyleCircles} {
		assert.NotNil(t, styleTable[s], s.String())
	}
}

func stylePatterns() map[string]domain.Pattern {
	return map[string]domain.Pattern{
		"rhythm":  {RhythmPattern: []float64{0.1, 0.9, 0.5, 1}},
		"pitch":   {PitchHistogram: []float64{0.3, 0.1, 0.6, 0, 0.2}},
		"density": {NoteDensityOverTime: []float64{1, 4, 2, 8, 3}},
		"jungle":  {Category: domain.CategoryJungle},
		"dnb":     {Category: domain.CategoryDnB},
		"other":   {Category: domain.CategoryOther},
	}
}

func TestElementRendererAnimates(t *testing.T) {
	r := NewElementRenderer()

	for name, p := range stylePatterns() {
		t.Run(name, func(t *testing.T) {
			a := r.Render(160, 90, p, 0).(*image.RGBA)
			b := r.Render(160, 90, p, 0).(*image.RGBA)
			c := r.Render(160, 90, p, 0.35).(*image.RGBA)

			assert.True(t, bytes.Equal(a.Pix, b.Pix), "same phase, same frame")
			assert.False(t, bytes.Equal(a.Pix, c.Pix), "phase moves the picture")

			bg := elementBackground
			drawn := false
			for i := 0; i < len(a.Pix); i += 4 {
				if a.Pix[i] != bg.R || a.Pix[i+1] != bg.G || a.Pix[i+2] != bg.B {
					drawn = true
					break
				}
			}
			assert.True(t, drawn, "something is drawn over the background")
		})
	}
}

func TestElementRendererEdgeCases(t *testing.T) {
	r := NewElementRenderer()

	edge := []domain.Pattern{
		{RhythmPattern: []float64{1}},
		{PitchHistogram: []float64{0, 0}},
		{NoteDensityOverTime: []float64{0}},
		{RhythmPattern: make([]float64, 500)},
	}
	for _, p := range edge {
		for _, size := range [][2]int{{1, 1}, {3, 200}, {400, 2}, {0, 0}} {
			assert.NotPanics(t, func() { r.Render(size[0], size[1], p, 12.3) })
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	r.DrawEmpty(img)
	assert.Equal(t, elementBackground.R, img.Pix[0])
}
