package brain

import (
	"fmt"

	"mineagent/internal/perception"
)

// Aggressive favors combat whenever the agent is strong and armed.
type Aggressive struct{}

// NewAggressive creates the aggressive brain.
func NewAggressive() *Aggressive { return &Aggressive{} }

func (a *Aggressive) Name() string { return "AggressiveBrain" }

func (a *Aggressive) Vote(snap *perception.Snapshot) int {
	score := 40

	threats := snap.HostileEntities()

	if snap.Health > 15 {
		score += 30
	} else if snap.Health < 8 {
		score -= 20
	}
	if snap.Food > 15 {
		score += 10
	}
	if snap.HasItemMatching("sword") {
		score += 30
	}
	if snap.HasItemMatching("diamond") {
		score += 20
	}
	score += len(threats) * 15
	if snap.TimePhase == perception.Night {
		score += 10
	}
	return clampScore(score)
}

func (a *Aggressive) Decide(snap *perception.Snapshot) Decision {
	threats := snap.HostileEntities()
	if len(threats) > 0 {
		nearest := threats[0]
		return Decision{
			Action:   ActionCombat,
			Priority: PriorityHigh,
			Params:   Params{EntityID: nearest.ID, Target: nearest.Type},
			Reason:   fmt.Sprintf("attack %s, no fear", nearest.Type),
		}
	}
	return Decision{
		Action:   ActionIdle,
		Priority: PriorityLow,
		Reason:   "looking for combat",
	}
}
