package brain

import (
	"testing"

	"mineagent/internal/perception"
)

func hostile(typ string, dist float64) perception.Entity {
	return perception.Entity{Type: typ, Distance: dist, Hostile: true}
}

func TestCriticalHealthFavorsRetreatBrains(t *testing.T) {
	snap := &perception.Snapshot{
		Health: 3,
		Food:   5,
		NearbyEntities: []perception.Entity{
			hostile("zombie", 4),
		},
	}

	cautious := NewCautious().Vote(snap)
	survival := NewSurvival().Vote(snap)
	aggressive := NewAggressive().Vote(snap)

	if cautious <= 70 {
		t.Errorf("cautious vote = %d, want > 70 at critical health", cautious)
	}
	if survival <= 70 {
		t.Errorf("survival vote = %d, want > 70 at critical health", survival)
	}
	if aggressive >= cautious || aggressive >= survival {
		t.Errorf("aggressive vote = %d should trail cautious %d and survival %d",
			aggressive, cautious, survival)
	}
}

func TestCriticalHealthDecisionsRetreat(t *testing.T) {
	snap := &perception.Snapshot{Health: 3, Food: 5,
		NearbyEntities: []perception.Entity{hostile("zombie", 4)}}

	if d := NewCautious().Decide(snap); d.Action != ActionFlee || !d.Params.Sprint {
		t.Errorf("cautious decision = %+v, want sprinting FLEE", d)
	}
	if d := NewSurvival().Decide(snap); d.Action != ActionFlee || !d.Params.Sprint {
		t.Errorf("survival decision = %+v, want sprinting FLEE", d)
	}
}

func TestCalmAndToollessFavorsProgression(t *testing.T) {
	snap := &perception.Snapshot{Health: 20, Food: 20, TimePhase: perception.Noon}

	if d := NewStrategic().Decide(snap); d.Action != ActionMine || d.Params.Block != "oak_log" {
		t.Errorf("strategic decision = %+v, want MINE oak_log", d)
	}
	if d := NewSurvival().Decide(snap); d.Action != ActionMine {
		t.Errorf("survival decision = %+v, want MINE toward wood", d)
	}
}

func TestProgressionChainWoodToPickaxe(t *testing.T) {
	withWood := &perception.Snapshot{Health: 20, Food: 20, TimePhase: perception.Noon,
		Inventory: map[string]int{"oak_log": 4}}
	if d := NewStrategic().Decide(withWood); d.Action != ActionCraft || d.Params.Item != "crafting_table" {
		t.Errorf("with wood: %+v, want CRAFT crafting_table", d)
	}

	withTable := &perception.Snapshot{Health: 20, Food: 20, TimePhase: perception.Noon,
		Inventory: map[string]int{"oak_log": 4, "crafting_table": 1}}
	if d := NewStrategic().Decide(withTable); d.Action != ActionCraft || d.Params.Item != "wooden_pickaxe" {
		t.Errorf("with table: %+v, want CRAFT wooden_pickaxe", d)
	}
}

func TestStrategicTargetsBestOre(t *testing.T) {
	snap := &perception.Snapshot{
		Health: 20, Food: 20, TimePhase: perception.Noon,
		Inventory: map[string]int{"oak_log": 4, "crafting_table": 1, "wooden_pickaxe": 1},
		NearbyBlocks: []perception.BlockSighting{
			{Name: "coal_ore", Distance: 3},
			{Name: "diamond_ore", Distance: 12},
			{Name: "iron_ore", Distance: 5},
		},
	}
	d := NewStrategic().Decide(snap)
	if d.Action != ActionMine || d.Params.Block != "diamond_ore" {
		t.Errorf("decision = %+v, want MINE diamond_ore", d)
	}
	if !d.Params.Skill {
		t.Error("ore mining should request skill execution")
	}
}

func TestAggressiveAttacksNearestThreat(t *testing.T) {
	snap := &perception.Snapshot{
		Health: 20, Food: 20,
		Inventory: map[string]int{"iron_sword": 1},
		NearbyEntities: []perception.Entity{
			hostile("spider", 3),
			hostile("zombie", 7),
		},
	}
	if v := NewAggressive().Vote(snap); v <= 70 {
		t.Errorf("aggressive vote = %d, want > 70 when armed and healthy", v)
	}
	d := NewAggressive().Decide(snap)
	if d.Action != ActionCombat || d.Params.Target != "spider" {
		t.Errorf("decision = %+v, want COMBAT spider", d)
	}
}

func TestHealthBrainEatsWhenHungryWithFood(t *testing.T) {
	snap := &perception.Snapshot{
		Health: 12, Food: 10,
		Inventory: map[string]int{"bread": 3},
	}
	if d := NewHealth().Decide(snap); d.Action != ActionEat {
		t.Errorf("decision = %+v, want EAT", d)
	}
}

func TestCombatBrainFleesCloseCreeper(t *testing.T) {
	snap := &perception.Snapshot{
		Health: 18, Food: 20,
		NearbyEntities: []perception.Entity{hostile("creeper", 2)},
	}
	d := NewCombat().Decide(snap)
	if d.Action != ActionFlee || !d.Params.Sprint {
		t.Errorf("decision = %+v, want sprinting FLEE from close creeper", d)
	}
}

func TestCombatBrainAvoidsEnderman(t *testing.T) {
	snap := &perception.Snapshot{
		Health: 18, Food: 20,
		NearbyEntities: []perception.Entity{hostile("enderman", 7)},
	}
	if d := NewCombat().Decide(snap); d.Action != ActionFlee {
		t.Errorf("decision = %+v, want FLEE from enderman", d)
	}
}

func TestNightRaisesCaution(t *testing.T) {
	day := &perception.Snapshot{Health: 20, Food: 20, TimePhase: perception.Noon}
	night := &perception.Snapshot{Health: 20, Food: 20, TimePhase: perception.Night}

	c := NewCautious()
	if c.Vote(night) <= c.Vote(day) {
		t.Errorf("cautious night vote %d not above day vote %d", c.Vote(night), c.Vote(day))
	}
}
