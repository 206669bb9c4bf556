package progress

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rmorales/opotutor/internal/store"
)

func testService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewService(s.ProgressRepo()), s
}

func TestCompute(t *testing.T) {
	entries := []store.ProgressEntry{
		{Topic: "Jubilación", Correct: true},
		{Topic: "Jubilación", Correct: true},
		{Topic: "Jubilación", Correct: false},
		{Topic: "Incapacidad Temporal", Correct: true},
	}

	stats := Compute(entries)

	if stats.Total != 4 || stats.Correct != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Rate != 75 {
		t.Fatalf("rate = %v, want 75", stats.Rate)
	}
	if len(stats.ByTopic) != 2 {
		t.Fatalf("topics = %d, want 2", len(stats.ByTopic))
	}
	// Ordered by volume.
	if stats.ByTopic[0].Topic != "Jubilación" || stats.ByTopic[0].Total != 3 {
		t.Fatalf("first topic = %+v", stats.ByTopic[0])
	}
	if stats.ByTopic[1].Rate != 100 {
		t.Fatalf("second topic rate = %v", stats.ByTopic[1].Rate)
	}
}

func TestCompute_Empty(t *testing.T) {
	stats := Compute(nil)
	if stats.Total != 0 || stats.Rate != 0 || len(stats.ByTopic) != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestMotivationBands(t *testing.T) {
	tests := []struct {
		total int
		rate  float64
		want  string
	}{
		{0, 0, "Aún no hay datos"},
		{10, 90, "¡Excelente!"},
		{10, 85, "¡Excelente!"},
		{10, 70, "¡Muy bien!"},
		{10, 60, "Buen progreso"},
		{10, 35, "Vas avanzando"},
		{10, 10, "No te desanimes"},
	}
	for _, tt := range tests {
		got := Motivation(Stats{Total: tt.total, Rate: tt.rate})
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("Motivation(total=%d rate=%v) = %q, want prefix %q", tt.total, tt.rate, got, tt.want)
		}
	}
}

func TestServiceStatsWindows(t *testing.T) {
	svc, s := testService(t)
	ctx := context.Background()
	repo := s.ProgressRepo()

	now := time.Now().UTC()
	seed := []struct {
		ts      time.Time
		correct bool
	}{
		{now.AddDate(0, 0, -60), false},
		{now.AddDate(0, 0, -20), true},
		{now.AddDate(0, 0, -2), true},
	}
	for _, e := range seed {
		err := repo.Append(ctx, &store.ProgressEntry{
			QuestionID: "q", Topic: "Cotización y Recaudación",
			Correct: e.correct, Timestamp: e.ts,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := svc.Stats(ctx, WindowAll)
	if err != nil {
		t.Fatalf("stats all: %v", err)
	}
	if all.Total != 3 {
		t.Fatalf("all total = %d, want 3", all.Total)
	}

	month, err := svc.Stats(ctx, Window30Days)
	if err != nil {
		t.Fatalf("stats 30d: %v", err)
	}
	if month.Total != 2 {
		t.Fatalf("30d total = %d, want 2", month.Total)
	}

	week, err := svc.Stats(ctx, Window7Days)
	if err != nil {
		t.Fatalf("stats 7d: %v", err)
	}
	if week.Total != 1 || week.Rate != 100 {
		t.Fatalf("7d stats = %+v", week)
	}

	if _, err := svc.Stats(ctx, Window("bad")); err == nil {
		t.Fatal("expected error for unknown window")
	}
}

func TestServiceRecordAndClear(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if err := svc.Record(ctx, "Jubilación-q1", "Jubilación", true); err != nil {
		t.Fatalf("record: %v", err)
	}

	stats, err := svc.Stats(ctx, WindowAll)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 1 || stats.Correct != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	stats, err = svc.Stats(ctx, WindowAll)
	if err != nil {
		t.Fatalf("stats after clear: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("total after clear = %d", stats.Total)
	}
}
