// Package progressview shows answer history: per-topic accuracy bars,
// selectable time window and a motivation message.
package progressview

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rmorales/opotutor/internal/progress"
	"github.com/rmorales/opotutor/internal/screen"
	"github.com/rmorales/opotutor/internal/ui/components"
	"github.com/rmorales/opotutor/internal/ui/layout"
	"github.com/rmorales/opotutor/internal/ui/theme"
)

var windows = []progress.Window{progress.WindowAll, progress.Window7Days, progress.Window30Days}

var windowLabels = map[progress.Window]string{
	progress.WindowAll:    "Todo",
	progress.Window7Days:  "Últimos 7 días",
	progress.Window30Days: "Últimos 30 días",
}

// statsMsg carries a freshly computed stats snapshot.
type statsMsg struct {
	Stats progress.Stats
	Err   error
}

// clearedMsg confirms history deletion.
type clearedMsg struct {
	Err error
}

// ProgressScreen renders the study statistics.
type ProgressScreen struct {
	service *progress.Service

	windowIdx  int
	stats      progress.Stats
	loaded     bool
	confirming bool
	errMsg     string
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates the progress screen.
func New(service *progress.Service) *ProgressScreen {
	return &ProgressScreen{service: service}
}

func (s *ProgressScreen) Init() tea.Cmd {
	return s.load()
}

func (s *ProgressScreen) Title() string {
	return "Progreso"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Borrar historial"},
			{Key: "N", Description: "Cancelar"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Cambiar periodo"},
		{Key: "X", Description: "Borrar historial"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *ProgressScreen) load() tea.Cmd {
	window := windows[s.windowIdx]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		stats, err := s.service.Stats(ctx, window)
		return statsMsg{Stats: stats, Err: err}
	}
}

func (s *ProgressScreen) clear() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return clearedMsg{Err: s.service.Clear(ctx)}
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.stats = msg.Stats
		s.loaded = true
		s.errMsg = ""
		return s, nil

	case clearedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, s.load()

	case tea.KeyMsg:
		if s.confirming {
			switch msg.String() {
			case "y", "Y":
				s.confirming = false
				return s, s.clear()
			case "n", "N", "esc":
				s.confirming = false
			}
			return s, nil
		}
		switch msg.String() {
		case "tab":
			s.windowIdx = (s.windowIdx + 1) % len(windows)
			return s, s.load()
		case "x", "X":
			s.confirming = true
			return s, nil
		}
	}
	return s, nil
}

func (s *ProgressScreen) View(width, height int) string {
	if s.confirming {
		return centered(width, height,
			theme.Warning.Render("¿Borrar todo el historial de respuestas?")+"\n\n"+
				theme.Hint.Render("Y para confirmar, N para cancelar"))
	}
	if !s.loaded {
		return centered(width, height, theme.Hint.Render("Cargando estadísticas..."))
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Tu progreso") + "\n")
	b.WriteString(theme.Subtitle.Render(windowLabels[windows[s.windowIdx]]) + "\n\n")

	if s.stats.Total == 0 {
		b.WriteString(theme.Hint.Render("Todavía no hay respuestas en este periodo.") + "\n")
	} else {
		b.WriteString(theme.Body.Render(fmt.Sprintf(
			"Respondidas: %d   Aciertos: %d   Tasa: %.0f%%",
			s.stats.Total, s.stats.Correct, s.stats.Rate)) + "\n\n")

		barWidth := min(width-8, 70)
		for _, ts := range s.stats.ByTopic {
			label := fmt.Sprintf("%-45s", truncate(ts.Topic, 45))
			bar := components.NewProgressBar(label, ts.Rate/100, true, barWidth)
			b.WriteString(bar.View() + "\n")
		}
	}

	b.WriteString("\n" + theme.Hint.Render(progress.Motivation(s.stats)))
	if s.errMsg != "" {
		b.WriteString("\n" + theme.Incorrect.Render(s.errMsg))
	}

	return centered(width, height, b.String())
}

func centered(width, height int, body string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
