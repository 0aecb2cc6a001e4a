package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anthropicStub serves one canned Messages API reply and keeps the last
// request body it received.
func anthropicStub(t *testing.T, status int, body map[string]any) (*AnthropicProvider, *map[string]any) {
	t.Helper()
	var seen map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&seen)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: client, model: anthropicModels["claude-haiku"]}, &seen
}

func anthropicMessage(text, stop string, out int) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       anthropicModels["claude-haiku"],
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 40, "output_tokens": out},
	}
}

func anthropicError(kind string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
}

func TestAnthropicProvider_Suggestions(t *testing.T) {
	p, seen := anthropicStub(t, http.StatusOK,
		anthropicMessage(`{"suggestions":["Integración vía MuleSoft"]}`, "end_turn", 12))

	resp, err := p.Generate(context.Background(), Request{
		System:    "Eres un consultor de Salesforce.",
		Messages:  []Message{{Role: RoleUser, Content: "Pregunta: ¿Qué middleware de integración usan?"}},
		Schema:    suggestionSchema(),
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"suggestions":["Integración vía MuleSoft"]}`, string(resp.Content))
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 12, TotalTokens: 52}, resp.Usage)

	body := *seen
	assert.EqualValues(t, 256, body["max_tokens"])
	assert.Equal(t, anthropicModels["claude-haiku"], body["model"])
	assert.NotEmpty(t, body["system"])
}

func TestAnthropicProvider_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
		check  func(t *testing.T, err error)
	}{
		{
			name:   "truncated structured reply",
			status: http.StatusOK,
			body:   anthropicMessage(`{"suggestions":["Mule`, "max_tokens", 16),
			check: func(t *testing.T, err error) {
				var maxTok *ErrMaxTokensExceeded
				require.ErrorAs(t, err, &maxTok)
				assert.Equal(t, 16, maxTok.MaxTokens)
			},
		},
		{
			name:   "reply outside the schema",
			status: http.StatusOK,
			body:   anthropicMessage(`{"ideas":[]}`, "end_turn", 5),
			check: func(t *testing.T, err error) {
				var invalid *ErrInvalidResponse
				require.ErrorAs(t, err, &invalid)
			},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   anthropicError("rate_limit_error"),
			check: func(t *testing.T, err error) {
				var rl *ErrRateLimit
				require.ErrorAs(t, err, &rl)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   anthropicError("api_error"),
			check: func(t *testing.T, err error) {
				var unavail *ErrProviderUnavailable
				require.ErrorAs(t, err, &unavail)
				assert.False(t, errors.Is(err, context.Canceled))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := anthropicStub(t, tt.status, tt.body)
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "Pregunta: ¿Usan Shield?"}},
				Schema:    suggestionSchema(),
				MaxTokens: 16,
			})
			tt.check(t, err)
		})
	}
}

func TestNewAnthropicProvider(t *testing.T) {
	_, err := NewAnthropicProvider("", "claude-haiku", "")
	assert.Error(t, err, "empty API key")

	tests := map[string]string{
		"claude-sonnet":            "claude-sonnet-4-20250514",
		"claude-haiku":             "claude-haiku-4-5-20251001",
		"claude-sonnet-4-20250514": "claude-sonnet-4-20250514",
	}
	for name, want := range tests {
		p, err := NewAnthropicProvider("sk-ant", name, "")
		require.NoError(t, err)
		assert.Equal(t, want, p.ModelID(), name)
	}
}
