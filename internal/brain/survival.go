package brain

import (
	"fmt"
	"strings"

	"mineagent/internal/perception"
)

var survivalFoods = []string{
	"bread", "cooked_beef", "cooked_porkchop", "cooked_chicken",
	"apple", "golden_apple", "cooked_mutton", "baked_potato",
}

// Survival is the rule-based progression brain: danger first, then health,
// food, night shelter, and finally the wood-to-pickaxe tech tree.
type Survival struct{}

// NewSurvival creates the survival brain.
func NewSurvival() *Survival { return &Survival{} }

func (s *Survival) Name() string { return "SurvivalBrain" }

func (s *Survival) Vote(snap *perception.Snapshot) int {
	score := 30

	if snap.Food < 10 {
		score += 40
	}
	if snap.Health < 15 {
		score += 20
	}
	if !snap.HasItemMatching("pickaxe") {
		score += 20
	}
	return clampScore(score)
}

func (s *Survival) Decide(snap *perception.Snapshot) Decision {
	if d, ok := s.assessDanger(snap); ok {
		return d
	}
	if d, ok := s.manageHealth(snap); ok {
		return d
	}
	if d, ok := s.manageFood(snap); ok {
		return d
	}
	if snap.TimePhase == perception.Night {
		return Decision{
			Action:   ActionFlee,
			Priority: PriorityMedium,
			Params:   Params{Sprint: false},
			Reason:   "night time, hiding",
		}
	}
	if d, ok := s.progress(snap); ok {
		return d
	}
	return Decision{Action: ActionIdle, Priority: PriorityLow, Reason: "survival needs met"}
}

func (s *Survival) assessDanger(snap *perception.Snapshot) (Decision, bool) {
	if snap.Health <= 4 {
		return Decision{
			Action:   ActionFlee,
			Priority: PriorityHigh,
			Params:   Params{Sprint: true},
			Reason:   "critical health, immediate retreat",
		}, true
	}
	return Decision{}, false
}

func (s *Survival) manageHealth(snap *perception.Snapshot) (Decision, bool) {
	if snap.Health >= 10 {
		return Decision{}, false
	}
	if s.hasFood(snap) {
		return Decision{
			Action:   ActionEat,
			Priority: PriorityHigh,
			Reason:   fmt.Sprintf("low health (%.0f/20), eating for regen", snap.Health),
		}, true
	}
	return Decision{
		Action:   ActionFlee,
		Priority: PriorityHigh,
		Params:   Params{Sprint: false},
		Reason:   "low health, finding safe place",
	}, true
}

func (s *Survival) manageFood(snap *perception.Snapshot) (Decision, bool) {
	if snap.Food >= 6 {
		return Decision{}, false
	}
	if s.hasFood(snap) {
		return Decision{
			Action:   ActionEat,
			Priority: PriorityHigh,
			Reason:   fmt.Sprintf("hungry (%.0f/20), eating now", snap.Food),
		}, true
	}
	return Decision{
		Action:   ActionIdle,
		Priority: PriorityMedium,
		Reason:   "searching for food",
	}, true
}

func (s *Survival) progress(snap *perception.Snapshot) (Decision, bool) {
	if !s.hasWood(snap) {
		for _, b := range snap.NearbyBlocks {
			if strings.Contains(b.Name, "log") {
				return Decision{
					Action:   ActionMine,
					Priority: PriorityMedium,
					Params:   Params{Skill: true, Block: b.Name, Count: 4},
					Reason:   "getting wood for tools",
				}, true
			}
		}
		// No tree in sight either; still push toward wood.
		return Decision{
			Action:   ActionMine,
			Priority: PriorityMedium,
			Params:   Params{Skill: true, Block: "oak_log", Count: 4},
			Reason:   "searching for wood",
		}, true
	}
	if snap.Inventory["crafting_table"] == 0 {
		return Decision{
			Action:   ActionCraft,
			Priority: PriorityMedium,
			Params:   Params{Item: "crafting_table", Count: 1},
			Reason:   "crafting basic workstation",
		}, true
	}
	if !snap.HasItemMatching("pickaxe") {
		return Decision{
			Action:   ActionCraft,
			Priority: PriorityMedium,
			Params:   Params{Item: "wooden_pickaxe", Count: 1},
			Reason:   "crafting first pickaxe",
		}, true
	}
	return Decision{}, false
}

func (s *Survival) hasFood(snap *perception.Snapshot) bool {
	for _, f := range survivalFoods {
		if snap.Inventory[f] > 0 {
			return true
		}
	}
	return false
}

func (s *Survival) hasWood(snap *perception.Snapshot) bool {
	return snap.HasItemMatching("log") || snap.HasItemMatching("plank")
}
