package render

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

// Style identifies one procedural animation.
type Style int

const (
	StyleRhythm Style = iota
	StylePitch
	StyleDensity
	StyleBreakBars
	StyleBassWave
	StyleCircles
)

// String returns a human-readable representation of the style.
func (s Style) String() string {
	switch s {
	case StyleRhythm:
		return "rhythm"
	case StylePitch:
		return "pitch"
	case StyleDensity:
		return "density"
	case StyleBreakBars:
		return "break-bars"
	case StyleBassWave:
		return "bass-wave"
	default:
		return "circles"
	}
}

// drawFunc paints one frame of a style. phase is the animation clock.
type drawFunc func(du DrawingUtils, img *image.RGBA, p *domain.Pattern, phase float64)

// styleTable maps every style to its drawing routine.
// Adding a visual style means adding an entry here and, if needed, in fallbackStyles.
var styleTable = map[Style]drawFunc{
	StyleRhythm:    drawRhythm,
	StylePitch:     drawPitch,
	StyleDensity:   drawDensity,
	StyleBreakBars: drawBreakBars,
	StyleBassWave:  drawBassWave,
	StyleCircles:   drawCircles,
}

// fallbackStyles picks a style by category when the pattern carries no numeric series.
var fallbackStyles = map[domain.Category]Style{
	domain.CategoryJungle: StyleBreakBars,
	domain.CategoryDnB:    StyleBassWave,
}

var (
	elementBackground = color.NRGBA{R: 17, G: 24, B: 39, A: 0xff}
	elementBase       = color.NRGBA{R: 168, G: 202, B: 242, A: 0xff}
	waveLine          = RGBA(139, 183, 229, 0.8)
	waveFillBottom    = RGBA(56, 54, 109, 0.19)
	bassBump          = RGBA(190, 230, 255, 0.6)
	ambientTeal       = RGBA(0, 128, 128, 0.7)
)

// SelectStyle applies the priority rhythm > pitch > density > category fallback.
func SelectStyle(p domain.Pattern) Style {
	switch {
	case len(p.RhythmPattern) > 0:
		return StyleRhythm
	case len(p.PitchHistogram) > 0:
		return StylePitch
	case len(p.NoteDensityOverTime) > 0:
		return StyleDensity
	}
	if s, ok := fallbackStyles[p.Category]; ok {
		return s
	}
	return StyleCircles
}

// ElementRenderer draws the animation for one pattern at a given phase.
type ElementRenderer struct {
	du DrawingUtils
}

// NewElementRenderer creates a new ElementRenderer.
func NewElementRenderer() *ElementRenderer {
	return &ElementRenderer{}
}

// Render allocates a w x h image and draws one frame into it.
func (r *ElementRenderer) Render(w, h int, p domain.Pattern, phase float64) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	r.Draw(img, p, phase)
	return img
}

// Draw paints one frame of the pattern's style over a dark background.
func (r *ElementRenderer) Draw(img *image.RGBA, p domain.Pattern, phase float64) {
	r.du.FillBackground(img, elementBackground)
	styleTable[SelectStyle(p)](r.du, img, &p, phase)
}

// DrawEmpty paints the idle background shown when no pattern is displayed.
func (r *ElementRenderer) DrawEmpty(img *image.RGBA) {
	r.du.FillBackground(img, elementBackground)
}

// drawRhythm draws one bar per onset with a highlighted segment cycling twice a second.
func drawRhythm(du DrawingUtils, img *image.RGBA, p *domain.Pattern, phase float64) {
	w, h := size(img)
	values := p.RhythmPattern
	segment := w / float64(len(values))
	active := int(math.Floor(phase*2)) % len(values)

	for i, v := range values {
		barHeight := v * h * 0.8
		alpha := 0.6
		if i == active {
			barHeight *= 0.8 + 0.2*math.Sin(phase*10)
			alpha = 0.9
		}
		x := int(float64(i) * segment)
		y := int(h - barHeight)
		bw := int(segment) - 2
		du.FillRect(img, x, y, bw, int(barHeight), WithAlpha(elementBase, alpha))

		if i == active {
			// Glow: a soft halo around the active bar
			du.FillRect(img, x-3, y-3, bw+6, int(barHeight)+6, WithAlpha(elementBase, 0.15))
		}
	}
}

// drawPitch draws a radial polygon with one pulsing vertex per pitch class.
func drawPitch(du DrawingUtils, img *image.RGBA, p *domain.Pattern, phase float64) {
	w, h := size(img)
	values := p.PitchHistogram
	scale := 1 / math.Max(slices.Max(values), 0.1)
	cx, cy := w/2, h/2
	radius := math.Min(w, h) * 0.4

	pts := make([]Point, len(values))
	scaled := make([]float64, len(values))
	for i, v := range values {
		angle := float64(i) / float64(len(values)) * 2 * math.Pi
		scaled[i] = v * scale
		r := radius * (0.2 + scaled[i]*0.8 + 0.1*math.Sin(phase*3+float64(i)))
		pts[i] = Point{X: cx + math.Cos(angle)*r, Y: cy + math.Sin(angle)*r}
	}

	outline := pts
	if len(pts) > 2 {
		outline = append(slices.Clone(pts), pts[0])
	}
	du.DrawPolyline(img, outline, 2, WithAlpha(elementBase, 0.3))

	for i, pt := range pts {
		du.DrawFilledCircle(img, int(pt.X), int(pt.Y), 3+scaled[i]*5, WithAlpha(elementBase, 0.7+0.3*scaled[i]))
	}
}

// drawDensity draws a filled wave strip over the note density series.
func drawDensity(du DrawingUtils, img *image.RGBA, p *domain.Pattern, phase float64) {
	w, h := size(img)
	values := p.NoteDensityOverTime
	scale := 1 / math.Max(slices.Max(values), 1)

	step := w
	if len(values) > 1 {
		step = w / float64(len(values)-1)
	}

	line := make([]Point, len(values))
	for i, v := range values {
		wave := math.Sin(phase*2+float64(i)*0.3) * 10
		line[i] = Point{X: float64(i) * step, Y: h - (v*scale*h*0.7 + wave)}
	}

	area := append(slices.Clone(line), Point{X: w, Y: h}, Point{X: 0, Y: h})
	gradient := du.VerticalGradient(WithAlpha(elementBase, 0.7), WithAlpha(elementBase, 0.1), int(h))
	du.FillPolygon(img, area, nil, gradient)
	du.DrawPolyline(img, line, 2, WithAlpha(elementBase, 0.9))

	for i, v := range values {
		if v*scale < 0.1 {
			continue
		}
		du.DrawFilledCircle(img, int(line[i].X), int(line[i].Y), 2+v*scale*3, WithAlpha(elementBase, 0.9))
	}
}

// drawBreakBars is the jungle fallback: eight bars bouncing out of phase.
func drawBreakBars(du DrawingUtils, img *image.RGBA, _ *domain.Pattern, phase float64) {
	w, h := size(img)
	const bars = 8
	barWidth := (w - 20) / bars

	for i := 0; i < bars; i++ {
		barHeight := math.Abs(math.Sin(math.Mod(phase+float64(i)*0.3, math.Pi))) * (h - 20)
		du.FillRect(img,
			int(10+float64(i)*barWidth),
			int(h-barHeight-10),
			int(barWidth)-2,
			int(barHeight),
			elementBase)
	}
}

// drawBassWave is the drum & bass fallback: a filled sine wave with pulses at the peaks.
func drawBassWave(du DrawingUtils, img *image.RGBA, _ *domain.Pattern, phase float64) {
	w, h := size(img)
	waveY := func(x float64) float64 {
		return h/2 + math.Sin(x*0.05+phase*2)*(h/3)
	}

	var line []Point
	for x := 0.0; x < w; x += 5 {
		line = append(line, Point{X: x, Y: waveY(x)})
	}

	area := append([]Point{{X: 0, Y: h}}, line...)
	area = append(area, Point{X: w, Y: h})
	du.FillPolygon(img, area, nil, du.VerticalGradient(elementBase, waveFillBottom, int(h)))
	du.DrawPolyline(img, line, 2, waveLine)

	const points = 5
	for i := 0; i < points; i++ {
		x := w * (float64(i) + 0.5) / points
		pos := math.Sin(x*0.05 + phase*2)
		if pos > 0.7 {
			du.DrawFilledCircle(img, int(x), int(waveY(x)), 5+math.Sin(phase*5)*3, bassBump)
		}
	}
}

// drawCircles is the generic fallback: five drifting circles.
func drawCircles(du DrawingUtils, img *image.RGBA, _ *domain.Pattern, phase float64) {
	w, h := size(img)
	const circles = 5

	for i := 0; i < circles; i++ {
		fi := float64(i)
		radius := 10 + math.Sin(phase*2+fi)*10
		x := w * (fi + 1) / (circles + 1)
		y := h/2 + math.Cos(phase+fi*0.7)*(h/4)
		du.DrawFilledCircle(img, int(x), int(y), radius, ambientTeal)
	}
}

func size(img *image.RGBA) (w, h float64) {
	b := img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}
