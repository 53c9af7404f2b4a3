package agent

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"

	"mineagent/internal/brain"
	"mineagent/internal/skills"
	"mineagent/internal/world"
)

// fleeDistance is how far the flee handler throws its random goal.
const fleeDistance = 15.0

// foodPreference is the eat handler's scan order, best first.
var foodPreference = []string{
	"golden_apple", "cooked_beef", "cooked_porkchop", "cooked_mutton",
	"cooked_chicken", "bread", "baked_potato", "apple", "carrot",
}

// Dispatcher maps a won decision to either an atomic world call or a
// skill invocation. Errors never propagate: they are logged and the
// command is retired regardless, favoring forward progress.
type Dispatcher struct {
	w      world.Interface
	skills *skills.Executor
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher over the world interface.
func NewDispatcher(w world.Interface, sk *skills.Executor, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{w: w, skills: sk, logger: logger.With("component", "dispatch")}
}

// Execute carries out one decision. The switch is exhaustive over the
// action set; adding an action without a handler is a compile-time
// reminder via the default branch log.
func (d *Dispatcher) Execute(ctx context.Context, dec brain.Decision) {
	d.logger.Info("dispatching", "action", dec.Action, "reason", dec.Reason)

	switch dec.Action {
	case brain.ActionMove:
		d.move(ctx, dec.Params)
	case brain.ActionLook:
		d.look(ctx, dec.Params)
	case brain.ActionControl:
		d.control(ctx, dec.Params)
	case brain.ActionCombat:
		d.combat(ctx, dec.Params)
	case brain.ActionFlee:
		d.flee(ctx, dec.Params)
	case brain.ActionMine:
		d.mine(ctx, dec.Params)
	case brain.ActionEat:
		d.eat(ctx)
	case brain.ActionCraft:
		d.skills.Execute(ctx, "craft_item", dec.Params)
	case brain.ActionBuild:
		d.skills.Execute(ctx, "build_structure", dec.Params)
	case brain.ActionFarm:
		d.skills.Execute(ctx, "farm", dec.Params)
	case brain.ActionTrade:
		d.skills.Execute(ctx, "trade", dec.Params)
	case brain.ActionChat:
		d.try(ctx, "chat", func(ctx context.Context) error {
			return d.w.Chat(ctx, dec.Params.Message)
		})
	case brain.ActionMount:
		d.try(ctx, "mount", func(ctx context.Context) error {
			return d.w.Mount(ctx, dec.Params.EntityID)
		})
	case brain.ActionDismount:
		d.try(ctx, "dismount", d.w.Dismount)
	case brain.ActionSleep:
		d.sleep(ctx, dec.Params)
	case brain.ActionWake:
		d.try(ctx, "wake", d.w.Wake)
	case brain.ActionUse:
		d.try(ctx, "use", d.w.UseHeld)
	case brain.ActionDrop:
		d.drop(ctx, dec.Params)
	case brain.ActionIdle:
		d.logger.Debug("idling", "reason", dec.Reason)
	default:
		d.logger.Error("unhandled action", "action", dec.Action)
	}
}

// try runs one actuator call with the not-ready recovery protocol: on
// ErrNotReady it reloads the client once and retries, then skips with a
// warning if the capability is still missing.
func (d *Dispatcher) try(ctx context.Context, op string, call func(context.Context) error) bool {
	err := call(ctx)
	if errors.Is(err, world.ErrNotReady) {
		d.logger.Warn("world not ready, reloading", "op", op)
		if rerr := d.w.Reload(ctx); rerr != nil {
			d.logger.Warn("reload failed, skipping action", "op", op, "error", rerr)
			return false
		}
		err = call(ctx)
	}
	if err != nil {
		d.logger.Error("action failed", "op", op, "error", err)
		return false
	}
	return true
}

func (d *Dispatcher) move(ctx context.Context, p brain.Params) {
	if p.MoveTo == nil {
		d.logger.Warn("move without target")
		return
	}
	t := p.MoveTo
	d.try(ctx, "move", func(ctx context.Context) error {
		return d.w.SetMoveGoal(ctx, t.X, t.Y, t.Z, t.Sprint)
	})
}

func (d *Dispatcher) look(ctx context.Context, p brain.Params) {
	if p.LookAt == nil {
		d.logger.Warn("look without target")
		return
	}
	d.try(ctx, "look", func(ctx context.Context) error {
		return d.w.LookAt(ctx, *p.LookAt)
	})
}

func (d *Dispatcher) control(ctx context.Context, p brain.Params) {
	if p.Control == nil {
		d.logger.Warn("control without state")
		return
	}
	d.try(ctx, "control", func(ctx context.Context) error {
		return d.w.SetControl(ctx, p.Control.State, p.Control.On)
	})
}

func (d *Dispatcher) combat(ctx context.Context, p brain.Params) {
	if p.Skill || p.EntityID == 0 {
		d.skills.Execute(ctx, "combat_hunt", p)
		return
	}
	d.try(ctx, "attack", func(ctx context.Context) error {
		return d.w.Attack(ctx, p.EntityID)
	})
}

// flee throws a movement goal a fixed distance in a random direction.
// Fire-and-forget like every other movement call.
func (d *Dispatcher) flee(ctx context.Context, p brain.Params) {
	pos := d.w.Position()
	angle := rand.Float64() * 2 * math.Pi
	dx := fleeDistance * math.Cos(angle)
	dz := fleeDistance * math.Sin(angle)
	d.try(ctx, "flee", func(ctx context.Context) error {
		return d.w.SetMoveGoal(ctx, pos.X+dx, pos.Y, pos.Z+dz, p.Sprint)
	})
}

func (d *Dispatcher) mine(ctx context.Context, p brain.Params) {
	if p.Skill {
		d.skills.Execute(ctx, "collect_resource", p)
		return
	}
	if p.Block == "" {
		d.logger.Warn("mine without block name")
		return
	}
	blocks := d.w.FindBlocks(p.Block, 32, 1)
	if len(blocks) == 0 {
		d.logger.Info("no block to mine", "block", p.Block)
		return
	}
	target := blocks[0].Position
	d.try(ctx, "mine", func(ctx context.Context) error {
		return d.w.Dig(ctx, target)
	})
}

func (d *Dispatcher) eat(ctx context.Context) {
	inv := d.w.Inventory()
	for _, food := range foodPreference {
		if inv[food] == 0 {
			continue
		}
		if !d.try(ctx, "equip food", func(ctx context.Context) error {
			return d.w.Equip(ctx, food)
		}) {
			return
		}
		d.try(ctx, "consume", d.w.Consume)
		return
	}
	d.logger.Info("nothing edible in inventory")
}

func (d *Dispatcher) sleep(ctx context.Context, p brain.Params) {
	bedName := p.Block
	if bedName == "" {
		bedName = "bed"
	}
	beds := d.w.FindBlocks(bedName, 16, 1)
	if len(beds) == 0 {
		d.logger.Info("no bed nearby")
		return
	}
	bed := beds[0].Position
	d.try(ctx, "sleep", func(ctx context.Context) error {
		return d.w.Sleep(ctx, bed)
	})
}

func (d *Dispatcher) drop(ctx context.Context, p brain.Params) {
	if p.Item == "" {
		d.logger.Warn("drop without item")
		return
	}
	count := p.Count
	if count <= 0 {
		count = 1
	}
	d.try(ctx, "drop", func(ctx context.Context) error {
		return d.w.DropItem(ctx, p.Item, count)
	})
}
