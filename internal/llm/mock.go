package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	// Fragments, when set, drive GenerateStream emission. When empty the
	// whole Content is emitted as a single fragment.
	Fragments []string
	Usage     Usage
	Err       error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// SearchResults and Images serve Search and GenerateImage, also FIFO.
	// SearchErr and ImageErr, when set, fail every call to the
	// corresponding operation.
	SearchResults []*SearchResult
	Images        [][]byte
	SearchCalls   []SearchRequest
	ImageCalls    []string
	SearchErr     error
	ImageErr      error
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	resp, err := m.next()
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateStream emits the next canned response's Fragments (or its whole
// Content when no fragments are set) and returns the response.
func (m *MockProvider) GenerateStream(_ context.Context, req Request, emit func(string)) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{Err: nil}
	}
	canned := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if canned.Err != nil {
		return nil, canned.Err
	}

	if len(canned.Fragments) > 0 {
		for _, f := range canned.Fragments {
			emit(f)
		}
	} else if len(canned.Content) > 0 {
		emit(string(canned.Content))
	}

	return &Response{
		Content:    canned.Content,
		Usage:      canned.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// Search returns the next canned search result.
func (m *MockProvider) Search(_ context.Context, req SearchRequest) (*SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SearchCalls = append(m.SearchCalls, req)

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if len(m.SearchResults) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}
	result := m.SearchResults[0]
	m.SearchResults = m.SearchResults[1:]
	return result, nil
}

// GenerateImage returns the next canned image.
func (m *MockProvider) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ImageCalls = append(m.ImageCalls, prompt)

	if m.ImageErr != nil {
		return nil, m.ImageErr
	}
	if len(m.Images) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}
	img := m.Images[0]
	m.Images = m.Images[1:]
	return img, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate and GenerateStream calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// next pops the response queue. Caller must hold m.mu.
func (m *MockProvider) next() (*Response, error) {
	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}
