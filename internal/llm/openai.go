package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompatible talks to any chat-completions endpoint that speaks the
// OpenAI wire format (OpenAI, Groq, local gateways). The JSON response
// format is requested when supported, but output is still parsed
// tolerantly.
type OpenAICompatible struct {
	id        string
	name      string
	client    *openai.Client
	model     string
	timeout   time.Duration
	maxTokens int
}

// NewOpenAICompatible builds a provider from its config. Endpoint overrides
// the client base URL for non-OpenAI deployments.
func NewOpenAICompatible(cfg ProviderConfig) (*OpenAICompatible, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing api key")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &OpenAICompatible{
		id:        cfg.ID,
		name:      cfg.Name,
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		timeout:   timeout,
		maxTokens: maxTokens,
	}, nil
}

func (p *OpenAICompatible) ID() string   { return p.id }
func (p *OpenAICompatible) Name() string { return p.name }

func (p *OpenAICompatible) Decide(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		MaxTokens:   p.maxTokens,
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errEmptyResponse
	}
	return ParseResponse(resp.Choices[0].Message.Content)
}
