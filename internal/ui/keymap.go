package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
)

const (
	seekStep     = 5 * time.Second
	seekStepLong = 60 * time.Second
	volumeStep   = 0.05
)

// keymap holds the key bindings for the player.
type keymap struct {
	playPause key.Binding
	next      key.Binding
	previous  key.Binding
	seekFwd   key.Binding
	seekBack  key.Binding
	seekFwdL  key.Binding
	seekBackL key.Binding
	seekStart key.Binding
	volumeUp  key.Binding
	volumeDn  key.Binding
	subtitles key.Binding
	help      key.Binding
	quit      key.Binding
}

func newKeymap() keymap {
	return keymap{
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		next: key.NewBinding(
			key.WithKeys("n", "pgdown"),
			key.WithHelp("n", "next entry"),
		),
		previous: key.NewBinding(
			key.WithKeys("p", "pgup"),
			key.WithHelp("p", "previous entry"),
		),
		seekFwd: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "seek +5s"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "seek -5s"),
		),
		seekFwdL: key.NewBinding(
			key.WithKeys("shift+right"),
			key.WithHelp("shift+→", "seek +60s"),
		),
		seekBackL: key.NewBinding(
			key.WithKeys("shift+left"),
			key.WithHelp("shift+←", "seek -60s"),
		),
		seekStart: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "seek to start"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		volumeDn: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
		subtitles: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle subtitles"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpBindings lists the bindings in help display order.
func (k keymap) helpBindings() []key.Binding {
	return []key.Binding{
		k.playPause, k.next, k.previous,
		k.seekFwd, k.seekBack, k.seekFwdL, k.seekBackL, k.seekStart,
		k.volumeUp, k.volumeDn,
		k.subtitles, k.help, k.quit,
	}
}
