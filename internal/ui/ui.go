// Package ui is the bubbletea presentation layer: one model driving the
// playback service from a tick loop and rendering the current frame,
// subtitles and the transport bar.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/saehun/mp/internal/config"
	"github.com/saehun/mp/internal/errmsg"
	"github.com/saehun/mp/internal/icons"
	"github.com/saehun/mp/internal/notify"
	"github.com/saehun/mp/internal/playback"
	"github.com/saehun/mp/internal/playlist"
	"github.com/saehun/mp/internal/stderr"
	"github.com/saehun/mp/internal/tags"
	"github.com/saehun/mp/internal/ui/playerbar"
	"github.com/saehun/mp/internal/ui/render"
	"github.com/saehun/mp/internal/ui/styles"
)

// tickInterval drives the playback service. Frame pickup happens here, so
// it bounds the effective display rate.
const tickInterval = 50 * time.Millisecond

const noticeDuration = 5 * time.Second

type tickMsg time.Time

// Model is the root bubbletea model.
type Model struct {
	svc *playback.Service
	cfg *config.Config
	sub *playback.Subscription

	width  int
	height int

	keys keymap

	subsOn   bool
	showHelp bool

	notice   string
	noticeAt time.Time

	notifier noticeSender
	notifyID uint32

	// curTag caches the metadata of the current audio entry; reading
	// tags on every render would reopen the file twenty times a second.
	curTag *tags.Tag

	now func() time.Time
}

// noticeSender is the subset of notify.Notifier the model uses.
type noticeSender interface {
	Notify(n notify.Notification) (uint32, error)
}

// New builds the root model over a playback service.
func New(svc *playback.Service, cfg *config.Config) Model {
	notifier, _ := notify.New()
	return Model{
		svc:      svc,
		cfg:      cfg,
		sub:      svc.Subscribe(),
		keys:     newKeymap(),
		subsOn:   true,
		notifier: notifier,
		now:      time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	m.svc.Start()
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.svc.Tick()
		m.drainEvents()
		if m.notice != "" && m.now().Sub(m.noticeAt) > noticeDuration {
			m.notice = ""
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.svc.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.playPause):
		m.svc.Toggle()
	case key.Matches(msg, m.keys.next):
		m.svc.Next()
	case key.Matches(msg, m.keys.previous):
		m.svc.Previous()
	case key.Matches(msg, m.keys.seekFwd):
		m.svc.Seek(seekStep)
	case key.Matches(msg, m.keys.seekBack):
		m.svc.Seek(-seekStep)
	case key.Matches(msg, m.keys.seekFwdL):
		m.svc.Seek(seekStepLong)
	case key.Matches(msg, m.keys.seekBackL):
		m.svc.Seek(-seekStepLong)
	case key.Matches(msg, m.keys.seekStart):
		m.svc.SeekTo(0)
	case key.Matches(msg, m.keys.volumeUp):
		m.svc.SetVolume(m.svc.Volume() + volumeStep)
	case key.Matches(msg, m.keys.volumeDn):
		m.svc.SetVolume(m.svc.Volume() - volumeStep)
	case key.Matches(msg, m.keys.subtitles):
		m.subsOn = !m.subsOn
	case key.Matches(msg, m.keys.help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// drainEvents picks up pending error events and captured native stderr
// lines without blocking the tick.
func (m *Model) drainEvents() {
	for {
		select {
		case e := <-m.sub.Error:
			m.setNotice(errmsg.FormatWith(errmsg.Op(e.Operation), e.Path, e.Err))
		case e := <-m.sub.TrackChanged:
			m.notifyTrack(e)
		case line := <-stderr.Messages:
			m.setNotice(line)
		default:
			return
		}
	}
}

// notifyTrack sends a desktop notification for the new entry, replacing
// the previous one so skips do not stack popups.
func (m *Model) notifyTrack(e playback.TrackChange) {
	m.curTag = nil
	if e.Current != nil && e.Current.Kind == playlist.KindAudio {
		m.curTag = tags.Read(e.Current.Path)
	}
	if m.notifier == nil || e.Current == nil {
		return
	}
	title := e.Current.Path
	if m.curTag != nil {
		title = m.curTag.Title
	}
	id, err := m.notifier.Notify(notify.Notification{
		Title:      title,
		Body:       "Now playing",
		Timeout:    3000,
		ReplacesID: m.notifyID,
		Urgency:    notify.UrgencyLow,
	})
	if err == nil && id != 0 {
		m.notifyID = id
	}
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeAt = m.now()
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		return m.viewHelp()
	}

	contentH := max(m.height-playerbar.Height-1, 0)

	var b strings.Builder
	b.WriteString(m.viewContent(contentH))
	b.WriteByte('\n')
	b.WriteString(m.viewSubtitleLine())
	b.WriteByte('\n')
	b.WriteString(playerbar.Render(m.barState(), m.width))
	return b.String()
}

// viewContent renders the frame area: the current video/image frame, or a
// metadata card for audio, or an idle message.
func (m Model) viewContent(height int) string {
	p := m.svc.Player()
	entry := m.svc.Current()
	if p == nil || entry == nil {
		return centerBlock(styles.Subtle.Render("nothing playing"), m.width, height)
	}

	if frame := p.Frame(); frame != nil {
		w, h := m.frameArea(height)
		return centerBlock(render.Frame(frame, w, h), m.width, height)
	}

	if entry.Kind == playlist.KindAudio {
		return centerBlock(m.audioCard(entry.Path), m.width, height)
	}

	return centerBlock(styles.Subtle.Render("decoding…"), m.width, height)
}

// frameArea applies the configured window geometry, clamped to the
// terminal.
func (m Model) frameArea(height int) (w, h int) {
	w, h = m.width, height
	if m.cfg.WindowWidth > 0 {
		w = min(w, m.cfg.WindowWidth)
	}
	if m.cfg.WindowHeight > 0 {
		h = min(h, m.cfg.WindowHeight)
	}
	return w, h
}

// audioCard shows tag metadata plus the file size for audio entries.
func (m Model) audioCard(path string) string {
	t := m.curTag
	if t == nil || t.Path != path {
		t = tags.Read(path)
	}

	lines := []string{styles.Title.Render(render.Truncate(t.Title, m.width-4))}
	if t.Artist != "" {
		lines = append(lines, styles.Base.Render(render.Truncate(t.Artist, m.width-4)))
	}
	if t.Album != "" {
		album := t.Album
		if t.Year > 0 {
			album = fmt.Sprintf("%s (%d)", album, t.Year)
		}
		lines = append(lines, styles.Muted.Render(render.Truncate(album, m.width-4)))
	}
	if fi, err := os.Stat(path); err == nil {
		lines = append(lines, styles.Subtle.Render(humanize.Bytes(uint64(fi.Size())))) //nolint:gosec
	}
	return strings.Join(lines, "\n")
}

// viewSubtitleLine renders the active subtitle cue, or the current notice
// when one is fresher.
func (m Model) viewSubtitleLine() string {
	if m.notice != "" {
		return render.Center(styles.Error.Render(render.Truncate(m.notice, m.width)), m.width)
	}
	if !m.subsOn {
		return strings.Repeat(" ", m.width)
	}
	p := m.svc.Player()
	if p == nil {
		return strings.Repeat(" ", m.width)
	}
	text := p.SubtitleText()
	if text == "" {
		return strings.Repeat(" ", m.width)
	}
	style := styles.Subtitle(m.cfg.Subtitle.Color)
	return render.Center(style.Render(render.Truncate(text, m.width)), m.width)
}

func (m Model) barState() playerbar.State {
	s := playerbar.State{
		Index:    m.svc.CurrentIndex(),
		Total:    len(m.svc.Entries()),
		Position: m.svc.Position(),
		Duration: m.svc.Length(),
		Volume:   m.svc.Volume(),
	}
	if e := m.svc.Current(); e != nil {
		s.Title = e.Path
		switch e.Kind {
		case playlist.KindAudio:
			if m.curTag != nil && m.curTag.Path == e.Path {
				s.Title = m.curTag.Title
			} else {
				s.Title = tags.Read(e.Path).Title
			}
			s.Icon = icons.Audio()
		case playlist.KindImage:
			s.Icon = icons.Image()
		case playlist.KindVideo:
			s.Icon = icons.Video()
		}
	}
	switch m.svc.State() {
	case playback.StatePlaying:
		s.Playing = true
	case playback.StatePaused:
		s.Paused = true
	case playback.StateEnded:
		s.Ended = true
	}
	return s
}

func (m Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Key bindings"))
	b.WriteByte('\n')
	b.WriteString(styles.Subtle.Render(render.Separator(min(m.width, 40))))
	b.WriteByte('\n')
	for _, kb := range m.keys.helpBindings() {
		h := kb.Help()
		b.WriteString(styles.Base.Render(render.Pad(h.Key, 12)))
		b.WriteString(styles.Muted.Render(h.Desc))
		b.WriteByte('\n')
	}
	return b.String()
}

// centerBlock places a multi-line block in the middle of a width x height
// area.
func centerBlock(block string, width, height int) string {
	lines := strings.Split(block, "\n")
	padTop := max((height-len(lines))/2, 0)

	var b strings.Builder
	for i := 0; i < padTop; i++ {
		b.WriteByte('\n')
	}
	for _, line := range lines {
		b.WriteString(render.Center(line, width))
		b.WriteByte('\n')
	}
	for i := padTop + len(lines); i < height; i++ {
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}
