package fyne

import (
	"log/slog"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/mixviz/res"
)

// AboutDialog is a helper for the Help > About dialog.
type AboutDialog struct {
	window  fyne.Window
	version string
}

// NewAboutDialog creates a new about dialog.
func NewAboutDialog(window fyne.Window, version string) *AboutDialog {
	return &AboutDialog{
		window:  window,
		version: version,
	}
}

// Show displays the about dialog.
func (d *AboutDialog) Show() {
	content := res.AboutContent
	if d.version != "" {
		content += "\n*" + d.version + "*\n"
	}
	text := widget.NewRichTextFromMarkdown(content)
	text.Wrapping = fyne.TextWrapWord

	about := dialog.NewCustom("About", "Close", container.NewVScroll(text), d.window)
	about.Resize(fyne.NewSize(420, 320))
	about.Show()
}

// PlayerPageDialog tells the user where the browser player page lives.
type PlayerPageDialog struct {
	window  fyne.Window
	address string
	logger  *slog.Logger
}

// NewPlayerPageDialog creates a new player page dialog for the bridge address.
func NewPlayerPageDialog(window fyne.Window, address string, logger *slog.Logger) *PlayerPageDialog {
	return &PlayerPageDialog{
		window:  window,
		address: address,
		logger:  logger,
	}
}

// Show displays the dialog. Without a bridge address it explains that the
// simulated player is in use.
func (d *PlayerPageDialog) Show() {
	if d.address == "" {
		dialog.ShowInformation("Player", "MixViz is running with the simulated player.", d.window)
		return
	}

	u, err := url.Parse(d.address)
	if err != nil {
		d.logger.Error("invalid player page address", slog.String("address", d.address), slog.Any("error", err))
		return
	}

	hint := widget.NewLabel("Open this page in your browser to play the mix:")
	link := widget.NewHyperlink(d.address, u)
	dialog.ShowCustom("Player Page", "Close", container.NewVBox(hint, link), d.window)
}
