package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"mineagent/internal/perception"
)

type stubProvider struct {
	id    string
	resp  *Response
	err   error
	calls int
}

func (s *stubProvider) ID() string   { return s.id }
func (s *stubProvider) Name() string { return s.id }

func (s *stubProvider) Decide(ctx context.Context, req Request) (*Response, error) {
	s.calls++
	return s.resp, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func chainOf(providers ...Provider) *Chain {
	c := &Chain{fallback: NewRulesProvider(), logger: discardLogger()}
	for _, p := range providers {
		c.providers = append(c.providers, &providerState{provider: p})
	}
	return c
}

func TestChainFirstSuccessWins(t *testing.T) {
	first := &stubProvider{id: "a", resp: &Response{Action: "MINE", Reason: "ore"}}
	second := &stubProvider{id: "b", resp: &Response{Action: "IDLE", Reason: "nothing"}}
	c := chainOf(first, second)

	resp := c.Decide(context.Background(), Request{Snapshot: &perception.Snapshot{}})
	if resp.Action != "MINE" {
		t.Errorf("action = %q, want MINE", resp.Action)
	}
	if second.calls != 0 {
		t.Errorf("second provider called %d times, want 0", second.calls)
	}
}

func TestChainFallsThroughOnError(t *testing.T) {
	broken := &stubProvider{id: "a", err: errors.New("timeout")}
	working := &stubProvider{id: "b", resp: &Response{Action: "EAT", Reason: "hungry"}}
	c := chainOf(broken, working)

	resp := c.Decide(context.Background(), Request{Snapshot: &perception.Snapshot{}})
	if resp.Action != "EAT" {
		t.Errorf("action = %q, want EAT", resp.Action)
	}
}

func TestChainDisablesAfterRepeatedFailures(t *testing.T) {
	broken := &stubProvider{id: "a", err: errors.New("boom")}
	c := chainOf(broken)
	snap := &perception.Snapshot{Health: 20, Food: 20}

	for i := 0; i < errorThreshold+3; i++ {
		c.Decide(context.Background(), Request{Snapshot: snap})
	}
	// threshold failures plus the one that trips disabling
	if broken.calls != errorThreshold+1 {
		t.Errorf("broken provider called %d times, want %d", broken.calls, errorThreshold+1)
	}
}

func TestChainSuccessResetsErrorCount(t *testing.T) {
	flaky := &stubProvider{id: "a", err: errors.New("boom")}
	c := chainOf(flaky)
	snap := &perception.Snapshot{Health: 20, Food: 20}

	c.Decide(context.Background(), Request{Snapshot: snap})
	c.Decide(context.Background(), Request{Snapshot: snap})

	flaky.err = nil
	flaky.resp = &Response{Action: "IDLE", Reason: "ok"}
	c.Decide(context.Background(), Request{Snapshot: snap})

	if c.providers[0].errorCount != 0 {
		t.Errorf("errorCount = %d after success, want 0", c.providers[0].errorCount)
	}
	if c.providers[0].disabled {
		t.Error("provider disabled despite recovery")
	}
}

func TestChainAlwaysReturnsDecision(t *testing.T) {
	broken := &stubProvider{id: "a", err: errors.New("down")}
	c := chainOf(broken)

	resp := c.Decide(context.Background(), Request{
		Snapshot: &perception.Snapshot{Health: 20, Food: 20},
	})
	if resp == nil {
		t.Fatal("Decide returned nil")
	}
	if resp.Action != "IDLE" {
		t.Errorf("fallback action = %q, want IDLE", resp.Action)
	}
}

func TestNewChainSortsByPriority(t *testing.T) {
	c, err := NewChain([]ProviderConfig{
		{ID: "low", Type: "rules", Priority: 5},
		{ID: "high", Type: "rules", Priority: 1},
		{ID: "mid", Type: "rules", Priority: 3},
	}, discardLogger())
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	if len(c.providers) != 3 {
		t.Fatalf("providers = %d, want 3", len(c.providers))
	}
	want := []string{"high", "mid", "low"}
	for i, w := range want {
		if got := c.providers[i].provider.ID(); got != w {
			t.Errorf("providers[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestNewChainRejectsUnknownType(t *testing.T) {
	if _, err := NewChain([]ProviderConfig{{ID: "x", Type: "quantum"}}, discardLogger()); err == nil {
		t.Error("expected error for unknown provider type")
	}
}
