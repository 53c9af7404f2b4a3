package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// RulesProvider is the local fallback at the end of every chain. It
// never errors, so a chain that contains it always yields a decision.
type RulesProvider struct {
	id   string
	name string
}

// NewRulesProvider builds the rules fallback.
func NewRulesProvider() *RulesProvider {
	return &RulesProvider{id: "rules", name: "Local Rules"}
}

func (p *RulesProvider) ID() string   { return p.id }
func (p *RulesProvider) Name() string { return p.name }

func (p *RulesProvider) Decide(ctx context.Context, req Request) (*Response, error) {
	snap := req.Snapshot
	if snap == nil {
		return &Response{
			Action: "IDLE",
			Reason: "no perception available",
		}, nil
	}

	hostiles := snap.HostileEntities()

	switch {
	case snap.Health < 6:
		return &Response{
			Action:      "FLEE",
			Params:      mustParams(map[string]any{"sprint": true}),
			Reason:      "critical health, escaping",
			InterruptOn: []string{"health_damage"},
		}, nil
	case len(hostiles) > 0 && snap.Health > 10:
		return &Response{
			Action:      "COMBAT",
			Params:      mustParams(map[string]any{"target": hostiles[0].Type}),
			Reason:      fmt.Sprintf("engaging nearby %s", hostiles[0].Type),
			InterruptOn: []string{"health_damage"},
		}, nil
	case len(hostiles) > 0:
		return &Response{
			Action:      "FLEE",
			Reason:      "threats present at low health",
			InterruptOn: []string{"health_damage"},
		}, nil
	case snap.Food < 6:
		return &Response{
			Action: "EAT",
			Reason: "food critically low",
		}, nil
	default:
		return &Response{
			Action:      "IDLE",
			Reason:      "no pressing needs",
			InterruptOn: []string{"threat_detected", "health_damage"},
		}, nil
	}
}

func mustParams(v map[string]any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
