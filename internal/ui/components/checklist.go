package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rmorales/opotutor/internal/ui/theme"
)

// Checklist is a multi-select list. Used to pick syllabus topics when
// configuring a mock exam.
type Checklist struct {
	Items   []string
	Checked map[string]bool
	Cursor  int
	// OnToggle, when set, is called with the toggled item.
	OnToggle func(item string) tea.Cmd
}

// NewChecklist creates a checklist over the given items.
func NewChecklist(items []string) Checklist {
	return Checklist{
		Items:   items,
		Checked: make(map[string]bool),
	}
}

// Update handles navigation and toggling with space.
func (c Checklist) Update(msg tea.Msg) (Checklist, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Items)-1 {
			c.Cursor++
		}
	case " ":
		if c.Cursor >= 0 && c.Cursor < len(c.Items) {
			item := c.Items[c.Cursor]
			c.Checked[item] = !c.Checked[item]
			if c.OnToggle != nil {
				return c, c.OnToggle(item)
			}
		}
	}

	return c, nil
}

// Selected returns the checked items in list order.
func (c Checklist) Selected() []string {
	var out []string
	for _, item := range c.Items {
		if c.Checked[item] {
			out = append(out, item)
		}
	}
	return out
}

// View renders the checklist.
func (c Checklist) View() string {
	var s string
	for i, item := range c.Items {
		box := "[ ]"
		if c.Checked[item] {
			box = "[x]"
		}
		line := "  " + box + " " + item
		if i == c.Cursor {
			line = "▸ " + box + " " + item
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		} else {
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
