package brain

import (
	"fmt"

	"mineagent/internal/perception"
)

var healingFoods = []string{"bread", "beef", "porkchop", "apple"}

// Health watches hit points and hunger and pushes for eating and
// regeneration whenever either drops.
type Health struct{}

// NewHealth creates the health brain.
func NewHealth() *Health { return &Health{} }

func (h *Health) Name() string { return "HealthBrain" }

func (h *Health) Vote(snap *perception.Snapshot) int {
	score := 20

	if snap.Health < 20 {
		score += int(20-snap.Health) * 5
	}
	if snap.Food < 15 {
		score += 30
	}
	if snap.Food < 10 {
		score += 20
	}
	if h.hasFood(snap) && (snap.Health < 20 || snap.Food < 15) {
		score += 25
	}
	return clampScore(score)
}

func (h *Health) Decide(snap *perception.Snapshot) Decision {
	if snap.Food < 15 && h.hasFood(snap) {
		return Decision{
			Action:   ActionEat,
			Priority: PriorityHigh,
			Reason:   fmt.Sprintf("must eat, food at %.0f/20", snap.Food),
		}
	}
	if snap.Health < 20 {
		return Decision{
			Action:   ActionFlee,
			Priority: PriorityHigh,
			Params:   Params{Sprint: false},
			Reason:   fmt.Sprintf("healing, HP %.0f/20", snap.Health),
		}
	}
	return Decision{
		Action:   ActionIdle,
		Priority: PriorityLow,
		Reason:   "HP perfect, monitoring health",
	}
}

func (h *Health) hasFood(snap *perception.Snapshot) bool {
	for _, f := range healingFoods {
		if snap.HasItemMatching(f) {
			return true
		}
	}
	return false
}
