// Package render draws the timeline strip and the per-pattern animations into RGBA images.
// Nothing here touches Fyne: widgets wrap these renderers in canvas rasters.
package render

import (
	"image"
	"image/color"
	"math"
	"slices"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextAlign controls horizontal text anchoring.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
)

// DrawingUtils provides common drawing operations.
// All operations clip to the image bounds and blend translucent colors over the destination.
type DrawingUtils struct{}

// RGBA builds a non-premultiplied color from CSS-style rgba components.
func RGBA(r, g, b uint8, alpha float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

// WithAlpha returns col with its alpha replaced.
func WithAlpha(col color.NRGBA, alpha float64) color.NRGBA {
	col.A = uint8(math.Round(clamp01(alpha) * 255))
	return col
}

// FillBackground replaces every pixel with col.
func (DrawingUtils) FillBackground(img *image.RGBA, col color.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillRect blends col over the rectangle at (x, y) with size (w, h).
func (DrawingUtils) FillRect(img *image.RGBA, x, y, w, h int, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// DrawThickLine draws a line with the specified thickness.
func (du DrawingUtils) DrawThickLine(img *image.RGBA, x1, y1, x2, y2 float64, thickness int, col color.Color) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Sqrt(dx*dx + dy*dy)

	if length == 0 {
		du.blend(img, int(x1), int(y1), col)
		return
	}

	// Perpendicular unit vector for thickness
	perpX := -dy / length
	perpY := dx / length

	steps := int(length) + 1
	seen := make(map[image.Point]struct{}, steps*max(thickness, 1))

	for t := -thickness / 2; t <= thickness/2; t++ {
		offsetX := float64(t) * perpX
		offsetY := float64(t) * perpY

		for i := 0; i <= steps; i++ {
			progress := float64(i) / float64(steps)
			p := image.Pt(int(x1+dx*progress+offsetX), int(y1+dy*progress+offsetY))
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			du.blend(img, p.X, p.Y, col)
		}
	}
}

// DrawPolyline joins consecutive points with thick lines.
func (du DrawingUtils) DrawPolyline(img *image.RGBA, pts []Point, thickness int, col color.Color) {
	for i := 1; i < len(pts); i++ {
		du.DrawThickLine(img, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, thickness, col)
	}
}

// FillPolygon fills a closed polygon using the even-odd scanline rule.
// gradient, when non-nil, picks the color per scanline from the y coordinate.
func (du DrawingUtils) FillPolygon(img *image.RGBA, pts []Point, col color.Color, gradient func(y int) color.Color) {
	if len(pts) < 3 {
		return
	}

	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	b := img.Bounds()
	startY := max(int(math.Floor(minY)), b.Min.Y)
	endY := min(int(math.Ceil(maxY)), b.Max.Y-1)

	xs := make([]float64, 0, len(pts))
	for y := startY; y <= endY; y++ {
		sy := float64(y) + 0.5
		xs = xs[:0]
		for i := range pts {
			a, c := pts[i], pts[(i+1)%len(pts)]
			if (a.Y <= sy && c.Y > sy) || (c.Y <= sy && a.Y > sy) {
				xs = append(xs, a.X+(sy-a.Y)/(c.Y-a.Y)*(c.X-a.X))
			}
		}
		slices.Sort(xs)

		rowCol := col
		if gradient != nil {
			rowCol = gradient(y)
		}
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Round(xs[i]))
			x1 := int(math.Round(xs[i+1]))
			du.FillRect(img, x0, y, x1-x0, 1, rowCol)
		}
	}
}

// DrawCircle draws a circle outline.
func (du DrawingUtils) DrawCircle(img *image.RGBA, cx, cy int, radius float64, col color.Color) {
	steps := max(int(2*math.Pi*radius), 36)

	seen := make(map[image.Point]struct{}, steps)
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		p := image.Pt(int(float64(cx)+math.Cos(angle)*radius), int(float64(cy)+math.Sin(angle)*radius))
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		du.blend(img, p.X, p.Y, col)
	}
}

// DrawFilledCircle draws a filled circle. Non-positive radii draw nothing.
func (du DrawingUtils) DrawFilledCircle(img *image.RGBA, cx, cy int, radius float64, col color.Color) {
	if radius <= 0 {
		return
	}
	r := int(radius)

	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				du.blend(img, cx+dx, cy+dy, col)
			}
		}
	}
}

// VerticalGradient returns a per-row color interpolating from top to bottom over [0, height).
func (DrawingUtils) VerticalGradient(top, bottom color.NRGBA, height int) func(y int) color.Color {
	return func(y int) color.Color {
		t := 0.0
		if height > 1 {
			t = clamp01(float64(y) / float64(height-1))
		}
		lerp := func(a, b uint8) uint8 { return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t)) }
		return color.NRGBA{
			R: lerp(top.R, bottom.R),
			G: lerp(top.G, bottom.G),
			B: lerp(top.B, bottom.B),
			A: lerp(top.A, bottom.A),
		}
	}
}

// DrawText draws s with its baseline at y using the 7x13 bitmap face.
func (DrawingUtils) DrawText(img *image.RGBA, s string, x, y int, align TextAlign, col color.Color) {
	face := basicfont.Face7x13
	if align == AlignCenter {
		x -= font.MeasureString(face, s).Ceil() / 2
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// TextWidth returns the rendered width of s in pixels.
func (DrawingUtils) TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// blend composites col over the pixel at (x, y), ignoring out-of-bounds points.
func (DrawingUtils) blend(img *image.RGBA, x, y int, col color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	sr, sg, sb, sa := col.RGBA()
	if sa == 0 {
		return
	}
	if sa == 0xffff {
		img.Set(x, y, col)
		return
	}

	i := img.PixOffset(x, y)
	inv := 0xffff - sa
	px := img.Pix[i : i+4 : i+4]
	px[0] = uint8((sr + uint32(px[0])*0x101*inv/0xffff) >> 8)
	px[1] = uint8((sg + uint32(px[1])*0x101*inv/0xffff) >> 8)
	px[2] = uint8((sb + uint32(px[2])*0x101*inv/0xffff) >> 8)
	px[3] = uint8((sa + uint32(px[3])*0x101*inv/0xffff) >> 8)
}

// Point is a floating-point canvas coordinate.
type Point struct {
	X, Y float64
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
