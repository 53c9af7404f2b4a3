package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProvider calls a plain text-generation endpoint (Hugging Face
// inference style): POST a prompt, read generated text back.
type HTTPProvider struct {
	id        string
	name      string
	endpoint  string
	apiKey    string
	maxTokens int
	client    *http.Client
}

// NewHTTPProvider builds a raw-HTTP provider from its config.
func NewHTTPProvider(cfg ProviderConfig) (*HTTPProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("missing endpoint")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 150
	}
	return &HTTPProvider{
		id:        cfg.ID,
		name:      cfg.Name,
		endpoint:  cfg.Endpoint,
		apiKey:    cfg.APIKey,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (p *HTTPProvider) ID() string   { return p.id }
func (p *HTTPProvider) Name() string { return p.name }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfResult struct {
	GeneratedText string `json:"generated_text"`
}

func (p *HTTPProvider) Decide(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: req.SystemPrompt + "\n\n" + req.UserPrompt,
		Parameters: hfParameters{
			MaxNewTokens:   p.maxTokens,
			Temperature:    0.7,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, data)
	}

	var results []hfResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, errEmptyResponse
	}
	return ParseResponse(results[0].GeneratedText)
}
