package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func suggestionSchema() *Schema {
	return &Schema{
		Name:        "test-suggestions",
		Description: "Answer suggestions for a free-text question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"suggestions": map[string]any{
					"type":     "array",
					"maxItems": 5,
					"items":    map[string]any{"type": "string", "minLength": 1},
				},
				"confidence": map[string]any{"type": "string", "enum": []any{"low", "medium", "high"}},
			},
			"required": []any{"suggestions"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"suggestions":["MuleSoft","Dell Boomi"],"confidence":"high"}`, false},
		{"optional omitted", `{"suggestions":[]}`, false},
		{"missing required", `{"confidence":"low"}`, true},
		{"wrong item type", `{"suggestions":[1,2]}`, true},
		{"empty item", `{"suggestions":[""]}`, true},
		{"too many items", `{"suggestions":["a","b","c","d","e","f"]}`, true},
		{"bad enum", `{"suggestions":["a"],"confidence":"certain"}`, true},
		{"malformed", `{"suggestions":`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(suggestionSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %T", err)
			}
			if string(inv.Content) != tt.raw {
				t.Errorf("content = %q, want %q", inv.Content, tt.raw)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_CachesBySchemaName(t *testing.T) {
	s := suggestionSchema()
	s.Name = "test-cache"
	if err := validateResponse(s, json.RawMessage(`{"suggestions":["x"]}`)); err != nil {
		t.Fatal(err)
	}
	schemas.mu.Lock()
	_, ok := schemas.compiled["test-cache"]
	schemas.mu.Unlock()
	if !ok {
		t.Fatal("expected compiled schema to be cached")
	}
}
