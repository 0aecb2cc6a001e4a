package llm

import (
	"encoding/json"
	"net/http"
)

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// reply is what a vendor adapter pulls out of its SDK response.
type reply struct {
	text  string
	model string
	stop  string
	usage Usage
}

// finish runs the checks shared by every vendor: structured output cut off
// at the token limit is an ErrMaxTokensExceeded, and structured output
// must validate against the requested schema.
func finish(req Request, r reply) (*Response, error) {
	if r.stop == "" {
		r.stop = StopEnd
	}
	if r.stop == StopMaxTokens && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{MaxTokens: req.MaxTokens, Content: json.RawMessage(r.text)}
	}
	content := json.RawMessage(r.text)
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	if r.usage.TotalTokens == 0 {
		r.usage.TotalTokens = r.usage.InputTokens + r.usage.OutputTokens
	}
	return &Response{Content: content, Usage: r.usage, Model: r.model, StopReason: r.stop}, nil
}

// statusError wraps a vendor SDK error by HTTP status: 429 is retried
// after a pause, everything else is treated as the provider being down.
func statusError(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through as raw IDs.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
