package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rmorales/opotutor/internal/llm"
)

func TestAsk_ForwardsQueryAndDate(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.SearchResults = append(mock.SearchResults, &llm.SearchResult{
		Text: "El IPREM para 2025 es de 600 euros mensuales.",
		Sources: []llm.Source{
			{URI: "https://www.boe.es/buscar/act.php?id=BOE-A-2024-1", Title: "BOE"},
		},
	})

	svc := NewService(mock)
	result, err := svc.Ask(context.Background(), "¿Cuál es el IPREM vigente?", "2025-06-30")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(result.Text, "IPREM") {
		t.Errorf("unexpected answer: %q", result.Text)
	}

	req := mock.SearchCalls[0]
	if req.Query != "¿Cuál es el IPREM vigente?" {
		t.Errorf("query = %q", req.Query)
	}
	if req.Until != "2025-06-30" {
		t.Errorf("until = %q", req.Until)
	}
}

func TestAsk_BlankQuery(t *testing.T) {
	svc := NewService(llm.NewMockProvider())
	if _, err := svc.Ask(context.Background(), "   ", ""); !errors.Is(err, ErrBlankQuery) {
		t.Fatalf("want ErrBlankQuery, got %v", err)
	}
}

func TestAsk_BadDate(t *testing.T) {
	svc := NewService(llm.NewMockProvider())
	if _, err := svc.Ask(context.Background(), "pensiones", "30/06/2025"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestAsk_UnsupportedProvider(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.SearchErr = &llm.ErrUnsupported{Provider: "openai", Capability: "grounded search"}

	svc := NewService(mock)
	_, err := svc.Ask(context.Background(), "jubilación anticipada", "")
	var unsup *llm.ErrUnsupported
	if !errors.As(err, &unsup) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}
}

func TestFormatSources(t *testing.T) {
	result := &llm.SearchResult{
		Sources: []llm.Source{
			{URI: "https://www.seg-social.es", Title: "Seguridad Social"},
			{URI: "https://www.boe.es"},
		},
	}
	got := FormatSources(result)
	want := "[1] Seguridad Social - https://www.seg-social.es\n[2] https://www.boe.es - https://www.boe.es"
	if got != want {
		t.Errorf("FormatSources:\n got %q\nwant %q", got, want)
	}

	if FormatSources(&llm.SearchResult{}) != "" {
		t.Error("expected empty string for no sources")
	}
}
