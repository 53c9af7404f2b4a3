// Package skills implements the multi-step procedures the dispatcher
// delegates to: combat engagement, crafting with prerequisite lookup,
// structure building, resource collection, farming and trading. Every
// skill is synchronous and bounded; false means it found nothing to do,
// not that something broke.
package skills

import (
	"context"
	"log/slog"
	"math"

	"mineagent/internal/brain"
	"mineagent/internal/world"
)

const (
	defaultHuntRadius = 30
	searchDistance    = 32
	matureCropStage   = 7
	maxHarvestTargets = 5
	floorBlock        = "cobblestone"
	wallBlock         = "planks"
)

// Executor runs skills against the world interface.
type Executor struct {
	w      world.Interface
	logger *slog.Logger
}

// NewExecutor creates a skill executor.
func NewExecutor(w world.Interface, logger *slog.Logger) *Executor {
	return &Executor{w: w, logger: logger.With("component", "skills")}
}

// Execute dispatches to a skill by name. Unknown names are logged and
// treated as a no-op.
func (e *Executor) Execute(ctx context.Context, name string, p brain.Params) bool {
	e.logger.Info("executing skill", "skill", name)
	switch name {
	case "combat_hunt":
		return e.combatHunt(ctx, p)
	case "craft_item":
		return e.craftItem(ctx, p)
	case "build_structure":
		return e.buildStructure(ctx, p)
	case "collect_resource":
		return e.collectResource(ctx, p)
	case "farm":
		return e.farm(ctx, p)
	case "trade":
		return e.trade(ctx, p)
	default:
		e.logger.Warn("unknown skill", "skill", name)
		return false
	}
}

// combatHunt locates the nearest entity of the target type within radius
// and attacks it. No target nearby is a normal no-op.
func (e *Executor) combatHunt(ctx context.Context, p brain.Params) bool {
	target := p.Target
	if target == "" {
		target = "zombie"
	}
	radius := p.Radius
	if radius <= 0 {
		radius = defaultHuntRadius
	}

	var found *world.Entity
	for _, ent := range e.w.NearbyEntities(radius) {
		if ent.Type != target {
			continue
		}
		if found == nil || ent.Distance < found.Distance {
			cp := ent
			found = &cp
		}
	}
	if found == nil {
		e.logger.Info("no hunt target nearby", "target", target)
		return false
	}

	if err := e.w.LookAt(ctx, found.Position); err != nil {
		e.logger.Warn("look at target failed", "error", err)
	}
	if err := e.w.Attack(ctx, found.ID); err != nil {
		e.logger.Error("attack failed", "target", target, "error", err)
		return false
	}
	e.logger.Info("engaged target", "target", target, "distance", found.Distance)
	return true
}

// craftItem resolves a recipe for the item, walking to a crafting table
// when the table-less lookup comes up empty, then crafts. Missing recipe
// or resources yields false without touching the world.
func (e *Executor) craftItem(ctx context.Context, p brain.Params) bool {
	item := p.Item
	if item == "" {
		e.logger.Warn("craft requested without item")
		return false
	}
	count := p.Count
	if count <= 0 {
		count = 1
	}

	recipes := e.w.RecipesFor(item, nil)
	var station *world.Block
	if len(recipes) == 0 {
		tables := e.w.FindBlocks("crafting_table", searchDistance, 1)
		if len(tables) == 0 {
			e.logger.Info("no recipe and no crafting table", "item", item)
			return false
		}
		station = &tables[0]
		recipes = e.w.RecipesFor(item, station)
		if len(recipes) == 0 {
			e.logger.Info("no recipe even with table", "item", item)
			return false
		}
	}

	if station != nil {
		pos := station.Position
		if err := e.w.SetMoveGoal(ctx, pos.X, pos.Y, pos.Z, false); err != nil {
			e.logger.Warn("pathing to crafting table failed", "error", err)
		}
	}

	if err := e.w.Craft(ctx, recipes[0], count, station); err != nil {
		e.logger.Error("craft failed", "item", item, "error", err)
		return false
	}
	e.logger.Info("crafted", "item", item, "count", count)
	return true
}

// planCell is one block of a structure plan.
type planCell struct {
	Pos  world.Vec3
	Item string
}

// shelterPlan is the fixed 3x3x3 hollow box: cobblestone floor and roof,
// plank walls with a two-cell doorway gap on the north face.
func shelterPlan(origin world.Vec3) []planCell {
	var plan []planCell
	for x := 0; x < 3; x++ {
		for z := 0; z < 3; z++ {
			plan = append(plan, planCell{origin.Offset(float64(x), -1, float64(z)), floorBlock})
		}
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			for z := 0; z < 3; z++ {
				if x != 0 && x != 2 && z != 0 && z != 2 {
					continue
				}
				if x == 1 && z == 0 && y < 2 {
					continue // doorway
				}
				plan = append(plan, planCell{origin.Offset(float64(x), float64(y), float64(z)), wallBlock})
			}
		}
	}
	for x := 0; x < 3; x++ {
		for z := 0; z < 3; z++ {
			plan = append(plan, planCell{origin.Offset(float64(x), 3, float64(z)), floorBlock})
		}
	}
	return plan
}

// buildStructure executes the block plan for a known structure, placing
// cell by cell and logging each failed cell. It succeeds when at least one
// block lands; a plan that places nothing is a no-op failure.
func (e *Executor) buildStructure(ctx context.Context, p brain.Params) bool {
	structure := p.Structure
	if structure == "" {
		structure = "shelter"
	}
	if structure != "shelter" {
		e.logger.Warn("unknown structure", "structure", structure)
		return false
	}

	origin := e.w.Position().Offset(2, 0, 2)
	origin = world.Vec3{X: math.Floor(origin.X), Y: math.Floor(origin.Y), Z: math.Floor(origin.Z)}

	placed, failed := 0, 0
	for _, cell := range shelterPlan(origin) {
		if err := e.placeBlock(ctx, cell.Pos, cell.Item); err != nil {
			failed++
			e.logger.Warn("cell placement failed",
				"structure", structure, "item", cell.Item,
				"x", cell.Pos.X, "y", cell.Pos.Y, "z", cell.Pos.Z,
				"error", err)
			continue
		}
		placed++
	}
	e.logger.Info("structure pass complete", "structure", structure, "placed", placed, "failed", failed)
	return placed > 0
}

// placeBlock is the atomic placement primitive: face the cell, equip the
// material, place.
func (e *Executor) placeBlock(ctx context.Context, pos world.Vec3, item string) error {
	if err := e.w.LookAt(ctx, pos); err != nil {
		return err
	}
	if err := e.w.Equip(ctx, item); err != nil {
		return err
	}
	return e.w.PlaceBlock(ctx, pos, item)
}

// collectResource finds nearby blocks by name and digs up to count of
// them, pathing to each first.
func (e *Executor) collectResource(ctx context.Context, p brain.Params) bool {
	if p.Block == "" {
		e.logger.Warn("collect requested without block name")
		return false
	}
	count := p.Count
	if count <= 0 {
		count = 1
	}

	blocks := e.w.FindBlocks(p.Block, searchDistance, count)
	if len(blocks) == 0 {
		e.logger.Info("no blocks found", "block", p.Block)
		return false
	}

	dug := 0
	for _, b := range blocks {
		pos := b.Position
		if err := e.w.SetMoveGoal(ctx, pos.X, pos.Y, pos.Z, false); err != nil {
			e.logger.Warn("pathing to block failed", "block", p.Block, "error", err)
		}
		if err := e.w.Dig(ctx, pos); err != nil {
			e.logger.Warn("dig failed", "block", p.Block, "error", err)
			continue
		}
		dug++
	}
	e.logger.Info("collected", "block", p.Block, "count", dug)
	return dug > 0
}

// farm harvests mature crops near the agent. Planting and tilling are not
// implemented; requesting them is a no-op.
func (e *Executor) farm(ctx context.Context, p brain.Params) bool {
	action := p.FarmAction
	if action == "" {
		action = "harvest"
	}
	if action != "harvest" {
		e.logger.Warn("unsupported farm action", "action", action)
		return false
	}
	crop := p.Crop
	if crop == "" {
		crop = "wheat"
	}

	harvested := 0
	for _, b := range e.w.FindBlocks(crop, searchDistance, maxHarvestTargets) {
		if b.Metadata != matureCropStage {
			continue
		}
		pos := b.Position
		if err := e.w.SetMoveGoal(ctx, pos.X, pos.Y, pos.Z, false); err != nil {
			e.logger.Warn("pathing to crop failed", "error", err)
		}
		if err := e.w.Dig(ctx, pos); err != nil {
			e.logger.Warn("harvest failed", "crop", crop, "error", err)
			continue
		}
		harvested++
	}
	if harvested == 0 {
		e.logger.Info("no mature crops found", "crop", crop)
		return false
	}
	e.logger.Info("harvested", "crop", crop, "count", harvested)
	return true
}

// trade walks to the nearest villager and greets it. Without a trade
// partner in range this is a no-op.
func (e *Executor) trade(ctx context.Context, p brain.Params) bool {
	var villager *world.Entity
	for _, ent := range e.w.NearbyEntities(searchDistance) {
		if ent.Type != "villager" {
			continue
		}
		if villager == nil || ent.Distance < villager.Distance {
			cp := ent
			villager = &cp
		}
	}
	if villager == nil {
		e.logger.Info("no villager in range")
		return false
	}

	pos := villager.Position
	if err := e.w.SetMoveGoal(ctx, pos.X, pos.Y, pos.Z, false); err != nil {
		e.logger.Warn("pathing to villager failed", "error", err)
	}
	if err := e.w.LookAt(ctx, pos); err != nil {
		e.logger.Warn("look at villager failed", "error", err)
	}
	e.logger.Info("approached villager for trade", "distance", villager.Distance)
	return true
}
