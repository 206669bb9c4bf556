// Package progress derives aggregate study statistics from the
// append-only answer history.
package progress

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rmorales/opotutor/internal/store"
)

// Window filters the history to a recency range.
type Window string

const (
	WindowAll    Window = "all"
	Window7Days  Window = "7d"
	Window30Days Window = "30d"
)

// TopicStats aggregates outcomes for one topic label.
type TopicStats struct {
	Topic   string
	Total   int
	Correct int
	Rate    float64 // percentage, 0-100
}

// Stats is the aggregate view over a window of the history.
type Stats struct {
	Total   int
	Correct int
	Rate    float64 // percentage, 0-100
	ByTopic []TopicStats
}

// Service computes stats over the persisted history.
type Service struct {
	repo store.ProgressRepo
}

// NewService creates a stats service over the given repository.
func NewService(repo store.ProgressRepo) *Service {
	return &Service{repo: repo}
}

// Stats loads the history for the window and aggregates it.
func (s *Service) Stats(ctx context.Context, window Window) (Stats, error) {
	opts := store.QueryOpts{}
	switch window {
	case Window7Days:
		opts.From = time.Now().AddDate(0, 0, -7)
	case Window30Days:
		opts.From = time.Now().AddDate(0, 0, -30)
	case WindowAll, "":
	default:
		return Stats{}, fmt.Errorf("unknown window %q", window)
	}

	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return Stats{}, err
	}
	return Compute(entries), nil
}

// Record appends one outcome to the history.
func (s *Service) Record(ctx context.Context, questionID, topic string, correct bool) error {
	return s.repo.Append(ctx, &store.ProgressEntry{
		QuestionID: questionID,
		Topic:      topic,
		Correct:    correct,
	})
}

// Clear wipes the history.
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Compute aggregates a slice of entries. Topics are ordered by volume,
// then alphabetically for stable display.
func Compute(entries []store.ProgressEntry) Stats {
	stats := Stats{Total: len(entries)}

	byTopic := make(map[string]*TopicStats)
	for _, e := range entries {
		t, ok := byTopic[e.Topic]
		if !ok {
			t = &TopicStats{Topic: e.Topic}
			byTopic[e.Topic] = t
		}
		t.Total++
		if e.Correct {
			t.Correct++
			stats.Correct++
		}
	}

	for _, t := range byTopic {
		t.Rate = 100 * float64(t.Correct) / float64(t.Total)
		stats.ByTopic = append(stats.ByTopic, *t)
	}
	sort.Slice(stats.ByTopic, func(i, j int) bool {
		if stats.ByTopic[i].Total != stats.ByTopic[j].Total {
			return stats.ByTopic[i].Total > stats.ByTopic[j].Total
		}
		return stats.ByTopic[i].Topic < stats.ByTopic[j].Topic
	})

	if stats.Total > 0 {
		stats.Rate = 100 * float64(stats.Correct) / float64(stats.Total)
	}
	return stats
}

// Motivation returns the encouragement line for the aggregate success
// rate. An empty history gets its own message.
func Motivation(s Stats) string {
	if s.Total == 0 {
		return "Aún no hay datos. ¡Resuelve tu primer supuesto práctico para empezar!"
	}
	switch {
	case s.Rate >= 85:
		return "¡Excelente! Vas camino de la plaza. Mantén este ritmo."
	case s.Rate >= 70:
		return "¡Muy bien! Dominas la mayoría de los temas. Refuerza los más flojos."
	case s.Rate >= 50:
		return "Buen progreso. Repasa los temas con peor porcentaje y sigue practicando."
	case s.Rate >= 30:
		return "Vas avanzando. Dedica más tiempo a la teoría antes de cada supuesto."
	default:
		return "No te desanimes: cada fallo es una lección. Vuelve a la teoría y repite los supuestos."
	}
}
