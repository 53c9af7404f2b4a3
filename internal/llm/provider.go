// Package llm implements the remote decision-provider chain: a
// priority-ordered list of providers that can each turn a situation
// description into a structured action decision, ending in a local
// rule-based fallback that always succeeds.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mineagent/internal/perception"
)

// errorThreshold is the per-session error budget; a provider that fails
// more often is skipped for the rest of the session.
const errorThreshold = 3

// Response is a provider's structured decision. Params stays raw here;
// the consuming brain decodes it against its own param schema.
type Response struct {
	Action      string          `json:"action"`
	Params      json.RawMessage `json:"params,omitempty"`
	Reason      string          `json:"reason"`
	InterruptOn []string        `json:"interrupt_on,omitempty"`
}

// Request carries everything a provider may need for one decision round.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Snapshot     *perception.Snapshot
}

// Provider turns a request into a decision. Implementations must respect
// ctx cancellation and their configured timeout.
type Provider interface {
	ID() string
	Name() string
	Decide(ctx context.Context, req Request) (*Response, error)
}

// ProviderConfig describes one configured provider.
type ProviderConfig struct {
	ID        string
	Type      string // openai_compatible, http, rules
	Name      string
	APIKey    string
	Endpoint  string
	Model     string
	Priority  int
	Timeout   time.Duration
	MaxTokens int
}

type providerState struct {
	provider   Provider
	errorCount int
	disabled   bool
}

// Chain tries providers in priority order, disabling ones that exceed the
// error threshold, and falls back to local rules when everything else
// fails. The rules fallback cannot itself fail, so Decide never returns an
// error.
type Chain struct {
	mu        sync.Mutex
	providers []*providerState
	fallback  Provider
	logger    *slog.Logger
	tracer    trace.Tracer
}

// SetTracer attaches a tracer; each provider attempt becomes a span.
func (c *Chain) SetTracer(t trace.Tracer) { c.tracer = t }

// NewChain builds a chain from configured providers, sorted by ascending
// priority value, with the rules fallback appended last.
func NewChain(configs []ProviderConfig, logger *slog.Logger) (*Chain, error) {
	c := &Chain{
		fallback: NewRulesProvider(),
		logger:   logger.With("component", "llm"),
	}

	sorted := make([]ProviderConfig, len(configs))
	copy(sorted, configs)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Priority < sorted[j-1].Priority; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	for _, cfg := range sorted {
		p, err := newProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", cfg.ID, err)
		}
		c.providers = append(c.providers, &providerState{provider: p})
	}
	return c, nil
}

func newProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case "openai_compatible":
		return NewOpenAICompatible(cfg)
	case "http":
		return NewHTTPProvider(cfg)
	case "rules":
		p := NewRulesProvider()
		if cfg.ID != "" {
			p.id = cfg.ID
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}

// Decide walks the provider chain and returns the first valid decision.
// The rules fallback guarantees a non-nil result.
func (c *Chain) Decide(ctx context.Context, req Request) *Response {
	c.mu.Lock()
	states := c.providers
	c.mu.Unlock()

	for _, st := range states {
		c.mu.Lock()
		disabled := st.disabled
		c.mu.Unlock()
		if disabled {
			continue
		}

		resp, err := c.decideTraced(ctx, st.provider, req)
		if err != nil {
			c.recordFailure(st, err)
			continue
		}
		c.recordSuccess(st)
		c.logger.Info("provider decided",
			"provider", st.provider.Name(),
			"action", resp.Action,
			"reason", resp.Reason)
		return resp
	}

	c.logger.Warn("all providers failed, using rule-based fallback")
	resp, _ := c.fallback.Decide(ctx, req)
	return resp
}

func (c *Chain) decideTraced(ctx context.Context, p Provider, req Request) (*Response, error) {
	if c.tracer == nil {
		return p.Decide(ctx, req)
	}
	ctx, span := c.tracer.Start(ctx, "provider.decide", trace.WithAttributes(
		attribute.String("gen_ai.operation.name", "chat"),
		attribute.String("gen_ai.system", p.Name()),
	))
	defer span.End()

	resp, err := p.Decide(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("agent.decision.action", resp.Action))
	return resp, nil
}

func (c *Chain) recordFailure(st *providerState, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st.errorCount++
	if st.errorCount > errorThreshold {
		st.disabled = true
	}
	c.logger.Error("provider failed",
		"provider", st.provider.Name(),
		"error", err,
		"error_count", st.errorCount,
		"disabled", st.disabled)
}

func (c *Chain) recordSuccess(st *providerState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st.errorCount = 0
}

var errEmptyResponse = errors.New("empty provider response")
