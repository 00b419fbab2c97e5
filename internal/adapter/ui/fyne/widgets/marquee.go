package widgets

import "strings"

// Marquee scrolls text that is wider than a fixed number of characters.
// Each call to Next shifts the text left by one rune and wraps it around.
type Marquee struct {
	runes []rune
	width int
	pos   int
}

// NewMarquee creates a marquee showing at most width characters.
func NewMarquee(text string, width int) *Marquee {
	m := &Marquee{width: width}
	m.SetText(text)
	return m
}

// SetText replaces the text and rewinds the marquee.
func (m *Marquee) SetText(text string) {
	runes := []rune(text)
	if len(runes) > m.width {
		runes = append(runes, []rune(strings.Repeat(" ", 4))...)
	}
	m.runes = runes
	m.pos = 0
}

// Scrolls reports whether the text is too wide to show at once.
func (m *Marquee) Scrolls() bool {
	return len(m.runes) > m.width
}

// Text returns the visible window without advancing.
func (m *Marquee) Text() string {
	if !m.Scrolls() {
		return string(m.runes)
	}
	out := make([]rune, m.width)
	for i := range out {
		out[i] = m.runes[(m.pos+i)%len(m.runes)]
	}
	return string(out)
}

// Next advances by one rune and returns the visible window.
func (m *Marquee) Next() string {
	if m.Scrolls() {
		m.pos = (m.pos + 1) % len(m.runes)
	}
	return m.Text()
}
