// Package widgets provides custom Fyne widgets for the MixViz application.
package widgets

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/render"
)

// TimelineView is the scrubbable mix strip. A primary tap asks for a seek to
// the time under the pointer; everything else is drawn by render.Timeline.
type TimelineView struct {
	widget.BaseWidget

	raster *canvas.Raster
	onSeek func(seconds float64)

	mu          sync.RWMutex
	timeline    *render.Timeline
	annotations *domain.MixAnnotations
	current     float64
}

// NewTimelineView creates a timeline scaled to the default mix length.
// onSeek may be nil.
func NewTimelineView(onSeek func(seconds float64)) *TimelineView {
	t := &TimelineView{
		onSeek:      onSeek,
		timeline:    render.NewTimeline(0),
		annotations: domain.NewEmptyAnnotations(),
	}
	t.raster = canvas.NewRaster(t.draw)
	t.ExtendBaseWidget(t)
	return t
}

// CreateRenderer implements fyne.Widget.
func (t *TimelineView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.raster)
}

// MinSize keeps the strip tall enough for tick labels and both band rows.
func (t *TimelineView) MinSize() fyne.Size {
	return fyne.NewSize(320, 60)
}

// SetAnnotations replaces the bands drawn on the strip.
func (t *TimelineView) SetAnnotations(annotations *domain.MixAnnotations) {
	if annotations == nil {
		annotations = domain.NewEmptyAnnotations()
	}
	t.mu.Lock()
	t.annotations = annotations
	t.mu.Unlock()
	t.raster.Refresh()
}

// SetDuration rescales the strip.
func (t *TimelineView) SetDuration(seconds float64) {
	t.mu.Lock()
	t.timeline = render.NewTimeline(seconds)
	t.mu.Unlock()
	t.raster.Refresh()
}

// Duration returns the total length the strip is scaled to.
func (t *TimelineView) Duration() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.timeline.Duration()
}

// SetCurrentTime moves the playhead.
func (t *TimelineView) SetCurrentTime(seconds float64) {
	t.mu.Lock()
	if t.current == seconds {
		t.mu.Unlock()
		return
	}
	t.current = seconds
	t.mu.Unlock()
	t.raster.Refresh()
}

// Tapped implements fyne.Tappable.
func (t *TimelineView) Tapped(pe *fyne.PointEvent) {
	if t.onSeek == nil {
		return
	}
	t.mu.RLock()
	at := t.timeline.TimeAt(float64(pe.Position.X), float64(t.Size().Width))
	t.mu.RUnlock()
	t.onSeek(at)
}

// Cursor implements desktop.Cursorable.
func (t *TimelineView) Cursor() desktop.Cursor {
	return desktop.PointerCursor
}

func (t *TimelineView) draw(w, h int) image.Image {
	t.mu.RLock()
	timeline, annotations, current := t.timeline, t.annotations, t.current
	t.mu.RUnlock()
	return timeline.Render(w, h, annotations, current)
}

var (
	_ fyne.Tappable      = (*TimelineView)(nil)
	_ desktop.Cursorable = (*TimelineView)(nil)
)
