// Package home is the application's main menu.
package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rmorales/opotutor/internal/casegen"
	"github.com/rmorales/opotutor/internal/chat"
	"github.com/rmorales/opotutor/internal/progress"
	"github.com/rmorales/opotutor/internal/router"
	"github.com/rmorales/opotutor/internal/screen"
	"github.com/rmorales/opotutor/internal/screens/caseview"
	"github.com/rmorales/opotutor/internal/screens/chatview"
	"github.com/rmorales/opotutor/internal/screens/examview"
	"github.com/rmorales/opotutor/internal/screens/progressview"
	"github.com/rmorales/opotutor/internal/store"
	"github.com/rmorales/opotutor/internal/ui/components"
	"github.com/rmorales/opotutor/internal/ui/theme"
)

const banner = `
 ██████╗ ██████╗  ██████╗ ████████╗██╗   ██╗████████╗ ██████╗ ██████╗
██╔═══██╗██╔══██╗██╔═══██╗╚══██╔══╝██║   ██║╚══██╔══╝██╔═══██╗██╔══██╗
██║   ██║██████╔╝██║   ██║   ██║   ██║   ██║   ██║   ██║   ██║██████╔╝
██║   ██║██╔═══╝ ██║   ██║   ██║   ██║   ██║   ██║   ██║   ██║██╔══██╗
╚██████╔╝██║     ╚██████╔╝   ██║   ╚██████╔╝   ██║   ╚██████╔╝██║  ██║
 ╚═════╝ ╚═╝      ╚═════╝    ╚═╝    ╚══════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝`

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu     components.Menu
	answered int
	rate     float64
	model    string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen with all flows wired in.
func New(generator *casegen.Generator, chatManager *chat.Manager, progressSvc *progress.Service, state store.StateRepo, modelID string) *HomeScreen {
	var answered int
	var rate float64
	if progressSvc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if stats, err := progressSvc.Stats(ctx, progress.WindowAll); err == nil {
			answered = stats.Total
			rate = stats.Rate
		}
	}

	items := []components.MenuItem{
		{Label: "CASO PRÁCTICO", Action: func() tea.Cmd {
			return push(caseview.New(generator, progressSvc, state))
		}},
		{Label: "SIMULACRO DE EXAMEN", Action: func() tea.Cmd {
			return push(examview.New(generator, progressSvc))
		}},
		{Label: "CHAT CON EL TUTOR", Action: func() tea.Cmd {
			return push(chatview.New(chatManager))
		}},
		{Label: "PROGRESO", Action: func() tea.Cmd {
			return push(progressview.New(progressSvc))
		}},
		{Label: "SALIR", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:     components.NewMenu(items),
		answered: answered,
		rate:     rate,
		model:    modelID,
	}
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 24 || width < 100

	var sections []string
	if !compact {
		sections = append(sections, theme.Title.Render(banner))
	} else {
		sections = append(sections, theme.Title.Render("OpoTutor"))
	}
	sections = append(sections, theme.Subtitle.Render(
		"Tu preparador para la oposición de la Seguridad Social"))

	sections = append(sections, theme.Hint.Render(h.statsLine()))
	sections = append(sections, h.menu.View())

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) statsLine() string {
	var b strings.Builder
	if h.answered > 0 {
		fmt.Fprintf(&b, "%d respondidas · %.0f%% aciertos   ·   ", h.answered, h.rate)
	}
	b.WriteString("modelo: " + h.model)
	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Inicio"
}
