package brain

import (
	"fmt"
	"strings"

	"mineagent/internal/perception"
)

// Combat applies per-mob tactics: creepers are hit-and-run, skeletons are
// closed down, endermen are avoided outright.
type Combat struct{}

// NewCombat creates the tactical combat brain.
func NewCombat() *Combat { return &Combat{} }

func (c *Combat) Name() string { return "CombatBrain" }

func (c *Combat) Vote(snap *perception.Snapshot) int {
	score := 0
	if len(snap.HostileEntities()) > 0 {
		score += 40
		if snap.Health > 10 {
			score += 20
		}
	}
	return clampScore(score)
}

func (c *Combat) Decide(snap *perception.Snapshot) Decision {
	threats := snap.HostileEntities()
	if len(threats) == 0 {
		return Decision{Action: ActionIdle, Priority: PriorityLow, Reason: "no threats found"}
	}
	if snap.Health < 6 {
		return Decision{
			Action:   ActionFlee,
			Priority: PriorityHigh,
			Params:   Params{Sprint: true},
			Reason:   "too low health for combat",
		}
	}

	nearest := threats[0]
	kind := strings.ToLower(nearest.Type)
	switch {
	case strings.Contains(kind, "creeper"):
		return c.fightCreeper(nearest)
	case strings.Contains(kind, "enderman"):
		return Decision{
			Action:   ActionFlee,
			Priority: PriorityHigh,
			Params:   Params{Sprint: true},
			Reason:   "avoiding enderman, too dangerous",
		}
	case strings.Contains(kind, "skeleton"):
		return c.closeAndStrike(nearest, "skeleton", 3)
	case strings.Contains(kind, "zombie"):
		return c.closeAndStrike(nearest, "zombie", 3)
	case strings.Contains(kind, "spider"):
		return Decision{
			Action:   ActionCombat,
			Priority: PriorityHigh,
			Params:   Params{EntityID: nearest.ID, Target: nearest.Type},
			Reason:   "attacking spider",
		}
	default:
		return c.closeAndStrike(nearest, nearest.Type, 3)
	}
}

// fightCreeper hits from mid range and backs off before the fuse.
func (c *Combat) fightCreeper(creeper perception.Entity) Decision {
	switch {
	case creeper.Distance < 3:
		return Decision{
			Action:   ActionFlee,
			Priority: PriorityHigh,
			Params:   Params{Sprint: true},
			Reason:   "creeper too close, avoiding explosion",
		}
	case creeper.Distance < 6:
		return Decision{
			Action:   ActionCombat,
			Priority: PriorityHigh,
			Params:   Params{EntityID: creeper.ID, Target: creeper.Type},
			Reason:   "hit creeper and retreat",
		}
	default:
		return Decision{
			Action:   ActionMove,
			Priority: PriorityMedium,
			Params: Params{MoveTo: &MoveTarget{
				X: creeper.Position.X, Y: creeper.Position.Y, Z: creeper.Position.Z, Sprint: true,
			}},
			Reason: "moving closer to creeper",
		}
	}
}

func (c *Combat) closeAndStrike(target perception.Entity, label string, reach float64) Decision {
	if target.Distance > reach {
		return Decision{
			Action:   ActionMove,
			Priority: PriorityHigh,
			Params: Params{MoveTo: &MoveTarget{
				X: target.Position.X, Y: target.Position.Y, Z: target.Position.Z, Sprint: true,
			}},
			Reason: fmt.Sprintf("closing distance to %s", label),
		}
	}
	return Decision{
		Action:   ActionCombat,
		Priority: PriorityHigh,
		Params:   Params{EntityID: target.ID, Target: target.Type},
		Reason:   fmt.Sprintf("attacking %s", label),
	}
}
