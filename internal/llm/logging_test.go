package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/sfassess/internal/store"
)

type fakeEventRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, data)
	return nil
}

func (f *fakeEventRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) GetLLMEvent(context.Context, int) (*store.LLMEvent, error) {
	return nil, nil
}

func TestLogging_RecordsSuccessAndFailure(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"suggestions":["Heroku Connect"]}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, ProviderMock, repo, nil)
	ctx := WithPurpose(context.Background(), PurposeSuggestion)
	req := Request{
		System:   "Eres un consultor.",
		Messages: []Message{{Role: RoleUser, Content: "¿Qué sistemas externos?"}},
		Schema:   suggestionSchema(),
	}

	_, err := p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	ok, failed := repo.events[0], repo.events[1]

	assert.True(t, ok.Success)
	assert.Equal(t, ProviderMock, ok.Provider)
	assert.Equal(t, PurposeSuggestion, ok.Purpose)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, `{"suggestions":["Heroku Connect"]}`, ok.ResponseBody)
	assert.True(t, strings.HasPrefix(ok.RequestBody, "[system]\nEres un consultor."))
	assert.Contains(t, ok.RequestBody, "[schema: test-suggestions]")

	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "down")
	assert.Equal(t, "mock", failed.Model)
}

func TestLogging_RepoFailureIsWarnedNotReturned(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := &fakeEventRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	p := WithLogging(mock, ProviderMock, repo, zap.New(core))
	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to record LLM request event").Len())
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	_, err := NewProvider(ctx, DefaultConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = NewProvider(ctx, Config{Provider: ProviderOpenAI}, nil, nil)
	assert.Error(t, err)

	p, err := NewProvider(ctx, Config{Provider: ProviderOpenRouter, APIKey: "sk-or"}, &fakeEventRepo{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-exp", p.ModelID())
	_, isRetry := p.(*RetryProvider)
	assert.True(t, isRetry)

	p, err = NewProvider(ctx, Config{Provider: ProviderMock}, &fakeEventRepo{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock-offline", p.ModelID())

	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err = NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	_, isTimeout := p.(*timeoutProvider)
	assert.True(t, isTimeout)
}
