// Package app wires the services together and runs the Bubble Tea
// program.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rmorales/opotutor/internal/casegen"
	"github.com/rmorales/opotutor/internal/chat"
	"github.com/rmorales/opotutor/internal/llm"
	"github.com/rmorales/opotutor/internal/progress"
	"github.com/rmorales/opotutor/internal/router"
	"github.com/rmorales/opotutor/internal/screen"
	"github.com/rmorales/opotutor/internal/screens/home"
	"github.com/rmorales/opotutor/internal/store"
	"github.com/rmorales/opotutor/internal/ui/layout"
)

// Deps carries the constructed services into the TUI.
type Deps struct {
	Provider    llm.Provider
	Store       *store.Store
	Generator   *casegen.Generator
	ChatManager *chat.Manager
	ProgressSvc *progress.Service
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router      *router.Router
	progressSvc *progress.Service
	width       int
	height      int
	answered    int
	rate        float64
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(deps Deps) AppModel {
	homeScreen := home.New(deps.Generator, deps.ChatManager, deps.ProgressSvc, deps.Store.StateRepo(), deps.Provider.ModelID())
	m := AppModel{
		router:      router.New(homeScreen),
		progressSvc: deps.ProgressSvc,
	}
	m.refreshStats()
	return m
}

func (m *AppModel) refreshStats() {
	if m.progressSvc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if stats, err := m.progressSvc.Stats(ctx, progress.WindowAll); err == nil {
		m.answered = stats.Total
		m.rate = stats.Rate
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				m.refreshStats()
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.answered, m.rate, m.width)

	footerHints := m.footerHints(active)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if provider, ok := active.(screen.KeyHintProvider); ok {
		if hints := provider.KeyHints(); hints != nil {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Volver"},
			{Key: "Ctrl+C", Description: "Salir"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Mover"},
		{Key: "Enter", Description: "Elegir"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
