package widgets

import (
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/render"
)

// ElementView animates one pattern. While playing, the animator advances the
// phase every frame; while paused the view holds the phase-0 frame.
type ElementView struct {
	widget.BaseWidget

	raster   *canvas.Raster
	renderer *render.ElementRenderer
	animator *render.Animator

	mu      sync.RWMutex
	pattern *domain.Pattern
	playing bool
	phase   float64
}

// NewElementView creates an idle element view.
func NewElementView(interval time.Duration, step float64) *ElementView {
	v := &ElementView{
		renderer: render.NewElementRenderer(),
		animator: render.NewAnimator(interval, step),
	}
	v.raster = canvas.NewRaster(v.draw)
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *ElementView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize implements fyne.Widget.
func (v *ElementView) MinSize() fyne.Size {
	return fyne.NewSize(160, 90)
}

// SetPattern switches the displayed pattern (nil shows the idle background)
// and restarts the animation from phase 0.
func (v *ElementView) SetPattern(p *domain.Pattern) {
	v.mu.Lock()
	if p != nil {
		clone := *p
		p = &clone
	}
	v.pattern = p
	playing := v.playing
	v.mu.Unlock()
	v.restart(playing)
}

// SetPlaying switches between the live loop and the static frame.
func (v *ElementView) SetPlaying(playing bool) {
	v.mu.Lock()
	if v.playing == playing {
		v.mu.Unlock()
		return
	}
	v.playing = playing
	v.mu.Unlock()
	v.restart(playing)
}

// Pattern returns the displayed pattern or nil.
func (v *ElementView) Pattern() *domain.Pattern {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pattern
}

// Live reports whether a frame loop is running.
func (v *ElementView) Live() bool {
	return v.animator.Live() > 0
}

// Stop ends the frame loop. The view keeps its last frame.
func (v *ElementView) Stop() {
	v.animator.Stop()
}

func (v *ElementView) restart(playing bool) {
	v.mu.RLock()
	hasPattern := v.pattern != nil
	v.mu.RUnlock()

	v.animator.Run(playing && hasPattern, v.frame)
}

func (v *ElementView) frame(phase float64) {
	v.mu.Lock()
	v.phase = phase
	v.mu.Unlock()
	fyne.Do(v.raster.Refresh)
}

func (v *ElementView) draw(w, h int) image.Image {
	v.mu.RLock()
	p, phase := v.pattern, v.phase
	v.mu.RUnlock()

	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	if p == nil {
		v.renderer.DrawEmpty(img)
		return img
	}
	v.renderer.Draw(img, *p, phase)
	return img
}
