package widgets

import (
	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var (
	_ fyneapp.DoubleTappable = (*DoubleTapLabel)(nil)
	_ desktop.Cursorable     = (*DoubleTapLabel)(nil)
)

// DoubleTapLabel is a label that reports double taps together with its index.
// The info panels use it for the appearance list: double-tapping a row jumps
// to that appearance.
type DoubleTapLabel struct {
	widget.Label
	doubleTapped func(index int)
	index        int
}

// NewDoubleTapLabel creates a label whose double taps call doubleTapped with
// the label's index.
func NewDoubleTapLabel(text string, index int, doubleTapped func(index int)) *DoubleTapLabel {
	label := &DoubleTapLabel{
		doubleTapped: doubleTapped,
		index:        index,
	}
	label.Text = text
	label.ExtendBaseWidget(label)
	return label
}

// DoubleTapped implements fyne.DoubleTappable.
func (l *DoubleTapLabel) DoubleTapped(_ *fyneapp.PointEvent) {
	if l.doubleTapped != nil {
		l.doubleTapped(l.index)
	}
}

// Index returns the index passed to the callback.
func (l *DoubleTapLabel) Index() int {
	return l.index
}

// Cursor implements desktop.Cursorable.
func (l *DoubleTapLabel) Cursor() desktop.Cursor {
	if l.doubleTapped == nil {
		return desktop.DefaultCursor
	}
	return desktop.PointerCursor
}
