package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rmorales/opotutor/internal/store"
)

// LoggingProvider is a decorator that records every model request as an event.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging.
func WithLogging(p Provider, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	l.record(ctx, "generate", serializeRequest(req), resp, start, err)
	return resp, err
}

func (l *LoggingProvider) GenerateStream(ctx context.Context, req Request, emit func(string)) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.GenerateStream(ctx, req, emit)

	l.record(ctx, "generate_stream", serializeRequest(req), resp, start, err)
	return resp, err
}

func (l *LoggingProvider) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()

	result, err := l.inner.Search(ctx, req)

	var resp *Response
	if result != nil {
		resp = &Response{Content: json.RawMessage(result.Text), Model: l.inner.ModelID()}
	}
	l.record(ctx, "search", req.Query, resp, start, err)
	return result, err
}

func (l *LoggingProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	start := time.Now()

	img, err := l.inner.GenerateImage(ctx, prompt)

	var resp *Response
	if img != nil {
		resp = &Response{
			Content: json.RawMessage(fmt.Sprintf("%d image bytes", len(img))),
			Model:   l.inner.ModelID(),
		}
	}
	l.record(ctx, "generate_image", prompt, resp, start, err)
	return img, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) record(ctx context.Context, op, reqBody string, resp *Response, start time.Time, err error) {
	data := store.LLMRequestEventData{
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		Operation:   op,
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: reqBody,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		zap.L().Warn("model request event not recorded", zap.Error(logErr))
	}
}

// serializeRequest builds a readable representation of the model request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
