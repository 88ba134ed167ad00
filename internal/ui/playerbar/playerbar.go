// Package playerbar renders the bottom transport bar.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/saehun/mp/internal/icons"
	"github.com/saehun/mp/internal/ui/render"
	"github.com/saehun/mp/internal/ui/styles"
)

// Height is the vertical space the bar occupies: two content rows plus
// the border.
const Height = 4

// State holds everything needed to render the bar.
type State struct {
	Playing  bool
	Paused   bool
	Ended    bool
	Icon     string
	Title    string
	Index    int
	Total    int
	Position time.Duration
	Duration time.Duration
	Volume   float64
}

// Render draws the bar at the given terminal width.
func Render(s State, width int) string {
	inner := max(width-2, 0)

	title := s.Icon + render.Truncate(s.Title, max(inner-20, 8))
	counter := ""
	if s.Total > 0 {
		counter = fmt.Sprintf("%d/%d", s.Index+1, s.Total)
	}
	top := render.Row(styles.Title.Render(title),
		styles.Muted.Render(counter)+"  "+renderVolume(s.Volume), inner)

	bottom := renderProgress(s, inner)

	return styles.Panel.Width(inner).Render(top + "\n" + bottom)
}

var (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// renderProgress draws: ▶  1:23  ▓▓▓▓▓░░░░░  4:56
func renderProgress(s State, width int) string {
	status := "▶"
	switch {
	case s.Paused:
		status = "⏸"
	case s.Ended:
		status = "⏹"
	}

	posStr := formatDuration(s.Position)
	durStr := formatDuration(s.Duration)

	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixed
	if barWidth < 3 {
		return status + "  " + posStr + " / " + durStr
	}

	var ratio float64
	if s.Duration > 0 {
		ratio = float64(s.Position) / float64(s.Duration)
	}
	filled := min(int(float64(barWidth)*ratio), barWidth)

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, barWidth-filled)

	return status + "  " + posStr + "  " + bar + "  " + durStr
}

func renderVolume(volume float64) string {
	icon := icons.Volume()
	if volume <= 0 {
		icon = icons.Muted()
	}
	return styles.Muted.Render(fmt.Sprintf("%s %3d%%", icon, int(volume*100)))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if m >= 60 {
		return fmt.Sprintf("%d:%02d:%02d", m/60, m%60, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
