package brain

import (
	"fmt"
	"strings"

	"mineagent/internal/perception"
)

// Strategic plans tool progression and targets valuable resources.
type Strategic struct{}

// NewStrategic creates the strategic brain.
func NewStrategic() *Strategic { return &Strategic{} }

func (s *Strategic) Name() string { return "StrategicBrain" }

func (s *Strategic) Vote(snap *perception.Snapshot) int {
	score := 50

	if snap.Health > 15 {
		score += 20
	}
	if len(snap.Inventory) > 5 {
		score += 15
	}
	for _, b := range snap.NearbyBlocks {
		if strings.Contains(b.Name, "diamond") || strings.Contains(b.Name, "iron") || strings.Contains(b.Name, "gold") {
			score += 20
			break
		}
	}
	if !snap.HasItemMatching("pickaxe") {
		score += 25
	}
	if snap.Dimension == "overworld" && !snap.HasItemMatching("obsidian") {
		score += 15
	}
	return clampScore(score)
}

func (s *Strategic) Decide(snap *perception.Snapshot) Decision {
	if !snap.HasItemMatching("log") && !snap.HasItemMatching("plank") {
		return Decision{
			Action:   ActionMine,
			Priority: PriorityMedium,
			Params:   Params{Skill: true, Block: "oak_log", Count: 4},
			Reason:   "strategic: need wood for tools",
		}
	}
	if !snap.HasItemMatching("crafting_table") {
		return Decision{
			Action:   ActionCraft,
			Priority: PriorityMedium,
			Params:   Params{Item: "crafting_table", Count: 1},
			Reason:   "strategic: need workbench",
		}
	}
	if !snap.HasItemMatching("pickaxe") {
		return Decision{
			Action:   ActionCraft,
			Priority: PriorityMedium,
			Params:   Params{Item: "wooden_pickaxe", Count: 1},
			Reason:   "strategic: need mining tool",
		}
	}

	var best *perception.BlockSighting
	bestValue := 0
	for i, b := range snap.NearbyBlocks {
		if !strings.Contains(b.Name, "ore") {
			continue
		}
		if v := oreValue(b.Name); v > bestValue {
			bestValue = v
			best = &snap.NearbyBlocks[i]
		}
	}
	if best != nil {
		return Decision{
			Action:   ActionMine,
			Priority: PriorityMedium,
			Params:   Params{Skill: true, Block: best.Name, Count: 1},
			Reason:   fmt.Sprintf("strategic: mine %s", best.Name),
		}
	}

	return Decision{
		Action:   ActionIdle,
		Priority: PriorityLow,
		Reason:   "strategic: scouting for resources",
	}
}

func oreValue(name string) int {
	switch {
	case strings.Contains(name, "diamond"):
		return 100
	case strings.Contains(name, "gold"), strings.Contains(name, "iron"):
		return 50
	case strings.Contains(name, "coal"):
		return 20
	default:
		return 10
	}
}
