package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/rmorales/opotutor/internal/ui/theme"
)

// Timer renders the exam countdown as mm:ss. The style shifts as time
// runs short.
type Timer struct {
	Seconds int
}

// View renders the remaining time.
func (t Timer) View() string {
	secs := t.Seconds
	if secs < 0 {
		secs = 0
	}
	label := fmt.Sprintf("⏱ %02d:%02d", secs/60, secs%60)

	style := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	switch {
	case secs <= 60:
		style = style.Foreground(theme.Error)
	case secs <= 300:
		style = style.Foreground(theme.Accent)
	}
	return style.Render(label)
}
