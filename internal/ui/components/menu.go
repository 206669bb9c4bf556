package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/rmorales/opotutor/internal/ui/theme"
)

// MenuItem is one selectable entry. Disabled entries render dimmed and
// are skipped during navigation.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical menu with wrap-around navigation.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu builds a menu selecting the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	if len(items) > 0 && items[0].Disabled {
		m.Selected = m.nextEnabled(0, 1)
	}
	return m
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// nextEnabled returns the nearest enabled index walking from start in
// direction dir, wrapping at the ends. Returns start when every item is
// disabled.
func (m Menu) nextEnabled(start, dir int) int {
	n := len(m.Items)
	for i := 1; i <= n; i++ {
		idx := ((start+dir*i)%n + n) % n
		if !m.Items[idx].Disabled {
			return idx
		}
	}
	return start
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = m.nextEnabled(m.Selected, -1)
	case "down", "j":
		m.Selected = m.nextEnabled(m.Selected, 1)
	case "enter":
		item := m.Items[m.Selected]
		if item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}

	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(theme.Hint.Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
