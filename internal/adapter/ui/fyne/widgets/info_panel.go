package widgets

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/render"
	"github.com/tejashwikalptaru/mixviz/res"
)

// InfoPanel is the per-genre side panel. It shows either the active pattern of
// its category or the genre overview when none is active.
type InfoPanel struct {
	widget.BaseWidget

	category domain.Category
	onSeek   func(seconds float64)

	card *widget.Card
	body *fyne.Container

	// showing is the displayed pattern's name, "" for the genre overview
	showing string
}

// NewInfoPanel creates a panel for category, initially showing the genre overview.
// onSeek receives the start of an appearance when its row is double-tapped.
func NewInfoPanel(category domain.Category, onSeek func(seconds float64)) *InfoPanel {
	p := &InfoPanel{
		category: category,
		onSeek:   onSeek,
		body:     container.NewVBox(),
	}
	p.card = widget.NewCard("", "", container.NewVScroll(p.body))
	p.ExtendBaseWidget(p)
	p.ShowGenre()
	return p
}

// CreateRenderer implements fyne.Widget.
func (p *InfoPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.card)
}

// Showing returns the displayed pattern name, or "" for the genre overview.
func (p *InfoPanel) Showing() string {
	return p.showing
}

// Title returns the card title.
func (p *InfoPanel) Title() string {
	return p.card.Title
}

// ShowGenre switches to the genre overview.
func (p *InfoPanel) ShowGenre() {
	info := res.Genre(p.category)
	p.showing = ""
	p.card.SetTitle(info.Title)
	p.card.SetSubTitle(info.BPM)

	objects := []fyne.CanvasObject{
		boldLabel(info.Characteristics),
		wrappedLabel(info.Description),
	}
	if info.LearnMoreURL != "" {
		if u, err := url.Parse(info.LearnMoreURL); err == nil {
			objects = append(objects, widget.NewHyperlink(info.LearnMoreText, u))
		}
	}
	p.setBody(objects)
}

// ShowPattern displays p with its fingerprint, appearances and optional sample.
// A nil pattern shows the genre overview.
func (p *InfoPanel) ShowPattern(pattern *domain.Pattern, sample *domain.SampleInfo) {
	if pattern == nil {
		p.ShowGenre()
		return
	}
	p.showing = pattern.Name
	p.card.SetTitle(pattern.Name)
	p.card.SetSubTitle(strings.ToUpper(pattern.Category.String()) + " element")

	var objects []fyne.CanvasObject
	if desc := pattern.Description(); desc != "" {
		objects = append(objects, wrappedLabel(desc))
	}

	if entries := pattern.Fingerprint.Entries(); len(entries) > 0 {
		objects = append(objects, boldLabel("Fingerprint"))
		for _, e := range entries {
			objects = append(objects, widget.NewLabel(fmt.Sprintf("%s: %s", e.Key, e.Value)))
		}
	}

	objects = append(objects, boldLabel(fmt.Sprintf("Appearances (%d)", len(pattern.Timestamps))))
	timestamps := pattern.Timestamps
	for i, ts := range timestamps {
		objects = append(objects, NewDoubleTapLabel(AppearanceText(ts), i, func(index int) {
			if p.onSeek != nil {
				p.onSeek(timestamps[index].Start)
			}
		}))
	}

	if sample != nil {
		objects = append(objects, boldLabel("Sample"), wrappedLabel(SampleText(sample)))
	}
	p.setBody(objects)
}

func (p *InfoPanel) setBody(objects []fyne.CanvasObject) {
	p.body.Objects = objects
	p.body.Refresh()
}

// AppearanceText renders one appearance row: the interval, its length and the song.
func AppearanceText(ts domain.Timestamp) string {
	text := render.FormatAppearance(ts)
	if ts.Song != "" {
		text += " · " + ts.Song
	}
	return text
}

// SampleText renders sample tags as one line, skipping empty fields.
func SampleText(s *domain.SampleInfo) string {
	text := s.Title
	if s.Artist != "" {
		text += " by " + s.Artist
	}
	var extra []string
	if s.Album != "" {
		extra = append(extra, s.Album)
	}
	if s.Year > 0 {
		extra = append(extra, strconv.Itoa(s.Year))
	}
	if s.Format != "" {
		extra = append(extra, s.Format)
	}
	if len(extra) > 0 {
		text += " (" + strings.Join(extra, ", ") + ")"
	}
	return text
}

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

func wrappedLabel(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.Wrapping = fyne.TextWrapWord
	return l
}
