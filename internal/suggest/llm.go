package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/sfassess/internal/llm"
)

const llmMaxSuggestions = 5

var suggestionSchema = &llm.Schema{
	Name:        "answer-suggestions",
	Description: "Candidate answers for a Salesforce assessment question",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"suggestions": map[string]any{
				"type":        "array",
				"description": "Short candidate answers in Spanish, best first",
				"maxItems":    llmMaxSuggestions,
				"items":       map[string]any{"type": "string", "minLength": 1, "maxLength": 200},
			},
		},
		"required": []any{"suggestions"},
	},
}

const systemPrompt = `Eres un consultor senior de Salesforce que ayuda a completar un assessment técnico de una organización.
Propón respuestas breves y concretas (una línea cada una) que un cliente real podría dar a la pregunta.
Responde en español. No inventes datos del cliente que no estén en el contexto.`

// LLM asks a provider for candidate answers.
type LLM struct {
	provider  llm.Provider
	maxTokens int
	log       *zap.Logger
}

// NewLLM returns a Suggester backed by p.
func NewLLM(p llm.Provider, log *zap.Logger) *LLM {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLM{provider: p, maxTokens: 512, log: log}
}

func (s *LLM) Suggest(ctx context.Context, c Context) ([]string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeSuggestion)
	ctx = llm.WithQuestion(ctx, c.ModuleID+"/"+c.SectionID+"/"+c.QuestionID)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildPrompt(c)}},
		Schema:      suggestionSchema,
		MaxTokens:   s.maxTokens,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	s.log.Debug("llm suggestions",
		zap.String("question", c.QuestionID),
		zap.Int("count", len(out.Suggestions)),
	)
	return dedupe(out.Suggestions, llmMaxSuggestions), nil
}

func buildPrompt(c Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Módulo: %s\n", c.ModuleName)
	fmt.Fprintf(&b, "Sección: %s\n", c.SectionName)
	fmt.Fprintf(&b, "Pregunta: %s\n", c.QuestionText)
	if len(c.Options) > 0 {
		fmt.Fprintf(&b, "Opciones: %s\n", strings.Join(c.Options, "; "))
	}
	if len(c.PreviousAnswers) > 0 {
		b.WriteString("\nRespuestas previas:\n")
		ids := make([]string, 0, len(c.PreviousAnswers))
		for id := range c.PreviousAnswers {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			fmt.Fprintf(&b, "- %s: %s\n", id, c.PreviousAnswers[id])
		}
	}
	fmt.Fprintf(&b, "\nDevuelve hasta %d sugerencias.", llmMaxSuggestions)
	return b.String()
}

// Fallback tries Primary and falls back to Secondary when it fails or
// returns nothing.
type Fallback struct {
	Primary   Suggester
	Secondary Suggester
	Log       *zap.Logger

	// OnFallback, when set, is called each time Secondary is used.
	OnFallback func(err error)
}

func (f *Fallback) Suggest(ctx context.Context, c Context) ([]string, error) {
	if f.Primary != nil {
		out, err := f.Primary.Suggest(ctx, c)
		if err == nil && len(out) > 0 {
			return out, nil
		}
		if f.Log != nil && err != nil {
			f.Log.Warn("primary suggester failed, using fallback",
				zap.String("question", c.QuestionID), zap.Error(err))
		}
		if f.OnFallback != nil {
			f.OnFallback(err)
		}
	}
	return f.Secondary.Suggest(ctx, c)
}

// New returns the static suggester, fronted by p when p is non-nil.
func New(p llm.Provider, log *zap.Logger) Suggester {
	if p == nil {
		return Static{}
	}
	return &Fallback{Primary: NewLLM(p, log), Secondary: Static{}, Log: log}
}
