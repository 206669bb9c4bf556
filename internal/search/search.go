// Package search answers normative questions with live web grounding.
package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rmorales/opotutor/internal/llm"
)

// ErrBlankQuery is returned when the query is empty or whitespace.
var ErrBlankQuery = fmt.Errorf("escribe una consulta")

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Service runs grounded searches against the configured provider.
type Service struct {
	provider llm.Provider
}

// NewService creates a search service.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// Ask answers a normative question with web grounding. until, when not
// empty, pins the answer to legislation in force on that date
// (YYYY-MM-DD).
func (s *Service) Ask(ctx context.Context, query, until string) (*llm.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrBlankQuery
	}
	if until != "" && !dateRE.MatchString(until) {
		return nil, fmt.Errorf("fecha no válida %q, usa el formato AAAA-MM-DD", until)
	}

	ctx = llm.WithPurpose(ctx, "search")

	result, err := s.provider.Search(ctx, llm.SearchRequest{Query: query, Until: until})
	if err != nil {
		return nil, fmt.Errorf("grounded search failed: %w", err)
	}
	return result, nil
}

// FormatSources renders the citation list, one "title - uri" line per
// source. Empty when the answer carries no citations.
func FormatSources(result *llm.SearchResult) string {
	if len(result.Sources) == 0 {
		return ""
	}
	var b strings.Builder
	for i, src := range result.Sources {
		if i > 0 {
			b.WriteByte('\n')
		}
		title := src.Title
		if title == "" {
			title = src.URI
		}
		fmt.Fprintf(&b, "[%d] %s - %s", i+1, title, src.URI)
	}
	return b.String()
}
