package fyne

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/logger"
	"github.com/tejashwikalptaru/mixviz/internal/testutil"
)

func newTestWindow(t *testing.T) *MainWindow {
	t.Helper()
	return NewMainWindow(test.NewApp(), WindowConfig{Version: "test"}, logger.NewTestLogger())
}

func TestMainWindowAnnotations(t *testing.T) {
	w := newTestWindow(t)

	w.SetAnnotations(testMix())
	assert.Equal(t, "Jungle Mix", w.mixTitle.Text)
	assert.Equal(t, "MixViz - Jungle Mix", w.window.Title())
	assert.False(t, w.mixDesc.Visible())

	w.SetTimelineDuration(400)
	w.SetCurrentTime(75)
	assert.Equal(t, "1:15 / 6:40", w.timeLabel.Text)

	w.SetAnnotations(domain.NewEmptyAnnotations())
	assert.Equal(t, "No annotation data loaded", w.emptyLabel.Text)
}

func TestMainWindowElementsFollowPlayState(t *testing.T) {
	w := newTestWindow(t)
	defer testutil.VerifyNoLeaks(t, append(testutil.IgnoreFyneGoroutines(), goleak.IgnoreCurrent())...)

	mix := testMix()
	for i := range mix.Patterns {
		mix.Patterns[i].Category = domain.ParseCategory(mix.Patterns[i].Type)
	}

	w.SetActiveElements(domain.ActiveSet{Patterns: mix.Patterns[:2]})
	require.Len(t, w.views, 2)
	assert.Len(t, w.elementGrid.Objects, 2)
	assert.False(t, w.emptyLabel.Visible())
	assert.False(t, w.views[0].Live(), "paused views are static")

	w.SetPlayState(true)
	assert.True(t, w.views[0].Live())
	assert.True(t, w.views[1].Live())

	old := w.views[0]
	w.SetActiveElements(domain.ActiveSet{Patterns: mix.Patterns[2:]})
	assert.False(t, old.Live(), "replaced views stop animating")
	require.Len(t, w.views, 1)
	assert.True(t, w.views[0].Live(), "new views join the running state")

	w.SetActiveElements(domain.ActiveSet{})
	assert.True(t, w.emptyLabel.Visible())
	assert.Empty(t, w.elementGrid.Objects)
}

func TestMainWindowControlsAndSong(t *testing.T) {
	w := newTestWindow(t)

	assert.False(t, w.playButton.Visible())
	w.SetControlsEnabled(true)
	assert.True(t, w.playButton.Visible())

	w.SetCurrentSong("Original Nuttah")
	assert.Equal(t, "Now playing: Original Nuttah", w.songInfo.Text)

	long := "Valley of the Shadows (31 Seconds) [Origin Unknown Remix]"
	w.SetCurrentSong(long)
	first := w.songInfo.Text
	assert.Len(t, []rune(first), songWidth)

	w.SetCurrentTime(10)
	assert.Equal(t, first, w.songInfo.Text, "banner only scrolls while playing")
	w.SetPlayState(true)
	w.SetCurrentTime(11)
	assert.NotEqual(t, first, w.songInfo.Text)

	w.SetCurrentSong("")
	assert.Empty(t, w.songInfo.Text)
}

func TestMainWindowPanels(t *testing.T) {
	w := newTestWindow(t)

	amen := testMix().Patterns[0]
	w.SetJunglePanel(&amen, nil)
	assert.Equal(t, "Amen Break", w.junglePanel.Showing())

	w.SetJunglePanel(nil, nil)
	assert.Empty(t, w.junglePanel.Showing())
	assert.Equal(t, "JUNGLE", w.junglePanel.Title())
	assert.Equal(t, "DNB", w.dnbPanel.Title())
}
