package classify

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector/pkg/anthropic"
	"github.com/sells-group/prospector/pkg/perplexity"
)

// fakeLLM returns a canned response and records whether it was called.
type fakeLLM struct {
	text   string
	err    error
	called bool
}

func (f *fakeLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.text}},
	}, nil
}

// forbiddenLLM fails the test when touched.
type forbiddenLLM struct {
	t *testing.T
}

func (f *forbiddenLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.t.Fatal("LLM must not be called for this input")
	return nil, eris.New("unreachable")
}

// fakeCompletion is a canned perplexity client.
type fakeCompletion struct {
	text   string
	err    error
	called bool
}

func (f *fakeCompletion) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return &perplexity.ChatCompletionResponse{
		Choices: []perplexity.Choice{{Message: perplexity.Message{Role: "assistant", Content: f.text}}},
	}, nil
}
