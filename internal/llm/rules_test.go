package llm

import (
	"context"
	"strings"
	"testing"

	"mineagent/internal/perception"
)

func rulesDecide(t *testing.T, snap *perception.Snapshot) *Response {
	t.Helper()
	resp, err := NewRulesProvider().Decide(context.Background(), Request{Snapshot: snap})
	if err != nil {
		t.Fatalf("rules Decide: %v", err)
	}
	return resp
}

func TestRulesFleeAtCriticalHealth(t *testing.T) {
	resp := rulesDecide(t, &perception.Snapshot{Health: 4, Food: 20})
	if resp.Action != "FLEE" {
		t.Errorf("action = %q, want FLEE", resp.Action)
	}
	if !strings.Contains(string(resp.Params), "sprint") {
		t.Errorf("params = %s, want sprint", resp.Params)
	}
}

func TestRulesFightWhenHealthy(t *testing.T) {
	snap := &perception.Snapshot{
		Health: 18, Food: 20,
		NearbyEntities: []perception.Entity{
			{Type: "zombie", Distance: 5, Hostile: true},
			{Type: "skeleton", Distance: 9, Hostile: true},
		},
	}
	resp := rulesDecide(t, snap)
	if resp.Action != "COMBAT" {
		t.Errorf("action = %q, want COMBAT", resp.Action)
	}
	if !strings.Contains(string(resp.Params), "zombie") {
		t.Errorf("params = %s, want nearest hostile zombie", resp.Params)
	}
}

func TestRulesFleeWhenThreatenedAndWeak(t *testing.T) {
	snap := &perception.Snapshot{
		Health: 8, Food: 20,
		NearbyEntities: []perception.Entity{{Type: "creeper", Distance: 6, Hostile: true}},
	}
	if resp := rulesDecide(t, snap); resp.Action != "FLEE" {
		t.Errorf("action = %q, want FLEE", resp.Action)
	}
}

func TestRulesEatWhenStarving(t *testing.T) {
	if resp := rulesDecide(t, &perception.Snapshot{Health: 20, Food: 4}); resp.Action != "EAT" {
		t.Errorf("action = %q, want EAT", resp.Action)
	}
}

func TestRulesIdleByDefault(t *testing.T) {
	resp := rulesDecide(t, &perception.Snapshot{Health: 20, Food: 20})
	if resp.Action != "IDLE" {
		t.Errorf("action = %q, want IDLE", resp.Action)
	}
	if len(resp.InterruptOn) == 0 {
		t.Error("idle decision should be interruptible")
	}
}

func TestRulesNilSnapshot(t *testing.T) {
	resp, err := NewRulesProvider().Decide(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if resp.Action != "IDLE" {
		t.Errorf("action = %q, want IDLE", resp.Action)
	}
}
