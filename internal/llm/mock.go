package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MockResponse is one queued reply of a MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider answers from a FIFO queue of canned replies and keeps every
// request it saw in Calls. Once the queue is drained it asks Reply, and
// with no Reply it fails like an unreachable provider so the suggestion
// fallback is exercised.
type MockProvider struct {
	mu      sync.Mutex
	queue   []MockResponse
	Calls   []Request
	Reply   func(Request) (json.RawMessage, error)
	modelID string
}

// NewMockProvider queues responses in order.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses, modelID: "mock"}
}

// NewOfflineProvider is the provider selected by `llm.provider: mock`. It
// never touches the network: each request gets placeholder suggestions
// naming the question, which is enough to try the TUI and the HTTP API
// without an API key.
func NewOfflineProvider() *MockProvider {
	p := NewMockProvider()
	p.modelID = "mock-offline"
	p.Reply = offlineSuggestions
	return p
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	var next MockResponse
	switch {
	case len(m.queue) > 0:
		next, m.queue = m.queue[0], m.queue[1:]
	case m.Reply != nil:
		next.Content, next.Err = m.Reply(req)
		next.Usage = Usage{InputTokens: wordCount(req), OutputTokens: len(next.Content) / 4}
	default:
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("mock queue is empty")}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: m.modelID, StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string { return m.modelID }

// AddResponse queues one more reply.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.queue = append(m.queue, resp)
	m.mu.Unlock()
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// offlineSuggestions answers the suggestion schema with two generic
// answers naming the question found in the last user message.
func offlineSuggestions(req Request) (json.RawMessage, error) {
	topic := "la pregunta"
	if n := len(req.Messages); n > 0 {
		for line := range strings.Lines(req.Messages[n-1].Content) {
			if q, ok := strings.CutPrefix(strings.TrimSpace(line), "Pregunta:"); ok {
				topic = strings.TrimSpace(q)
				break
			}
		}
	}
	return json.Marshal(map[string][]string{
		"suggestions": {
			"Pendiente de confirmar con el cliente: " + topic,
			"Documentado parcialmente; requiere revisión",
		},
	})
}

func wordCount(req Request) int {
	n := len(strings.Fields(req.System))
	for _, msg := range req.Messages {
		n += len(strings.Fields(msg.Content))
	}
	return n
}
