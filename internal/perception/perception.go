// Package perception builds the normalized, immutable snapshot of world
// state consumed by every brain once per decision cycle. Snapshot
// construction also detects changes (damage, hunger, threats, players) and
// emits them on the event bus as a side effect.
package perception

import (
	"log/slog"
	"sort"
	"strings"

	"mineagent/internal/events"
	"mineagent/internal/knowledge"
	"mineagent/internal/world"
)

// ThreatLevel is the derived danger assessment.
type ThreatLevel string

const (
	ThreatSafe     ThreatLevel = "SAFE"
	ThreatMedium   ThreatLevel = "MEDIUM"
	ThreatHigh     ThreatLevel = "HIGH"
	ThreatCritical ThreatLevel = "CRITICAL"
)

// ResourcePriority is the derived gathering focus.
type ResourcePriority string

const (
	PriorityCraftTools    ResourcePriority = "CRAFT_TOOLS"
	PriorityCraftWeapons  ResourcePriority = "CRAFT_WEAPONS"
	PriorityMineResources ResourcePriority = "MINE_RESOURCES"
)

// TimePhase is the derived phase of the day-night cycle.
type TimePhase string

const (
	Morning  TimePhase = "Morning"
	Noon     TimePhase = "Noon"
	Sunset   TimePhase = "Sunset"
	Night    TimePhase = "Night"
	Midnight TimePhase = "Midnight"
	Sunrise  TimePhase = "Sunrise"
)

// Entity is a nearby mob with derived hostility.
type Entity struct {
	ID       int        `json:"id"`
	Type     string     `json:"type"`
	Distance float64    `json:"distance"`
	Hostile  bool       `json:"hostile"`
	Position world.Vec3 `json:"position"`
}

// BlockSighting is a nearby block of interest.
type BlockSighting struct {
	Name     string     `json:"name"`
	Distance float64    `json:"distance"`
	Position world.Vec3 `json:"position"`
}

// Snapshot is the point-in-time perception record. It is never mutated
// after construction and never shared across decision cycles.
type Snapshot struct {
	Health    float64         `json:"health"`
	Food      float64         `json:"food"`
	Position  world.Vec3      `json:"position"`
	Dimension world.Dimension `json:"dimension"`
	Biome     string          `json:"biome"`
	Weather   world.Weather   `json:"weather"`
	TimeOfDay int             `json:"time_of_day"`
	TimePhase TimePhase       `json:"time_phase"`
	Gamemode  string          `json:"gamemode"`
	Effects   []world.Effect  `json:"effects"`

	Inventory map[string]int `json:"inventory"`
	Equipped  string         `json:"equipped,omitempty"`

	NearbyEntities []Entity        `json:"nearby_entities"`
	NearbyPlayers  []string        `json:"nearby_players"`
	NearbyBlocks   []BlockSighting `json:"nearby_blocks"`

	RecentChat string `json:"recent_chat"`

	ThreatLevel      ThreatLevel      `json:"threat_level"`
	ResourcePriority ResourcePriority `json:"resource_priority"`
	Craftable        []string         `json:"craftable_items"`

	// MemoryContext is the memory store's digest at capture time.
	MemoryContext string `json:"memory_context,omitempty"`
}

// HostileEntities returns the hostile subset of NearbyEntities, preserving
// the ascending-distance ordering.
func (s *Snapshot) HostileEntities() []Entity {
	var out []Entity
	for _, e := range s.NearbyEntities {
		if e.Hostile {
			out = append(out, e)
		}
	}
	return out
}

// HasItemMatching reports whether any inventory key contains substr.
func (s *Snapshot) HasItemMatching(substr string) bool {
	for name := range s.Inventory {
		if strings.Contains(name, substr) {
			return true
		}
	}
	return false
}

const (
	entityScanRadius = 32
	blockScanRadius  = 16
	maxBlockResults  = 10
	threatEmitRange  = 10
	closeHostileDist = 8
)

// MemorySource supplies the memory digest captured into each snapshot.
type MemorySource interface {
	Context() string
}

// Builder constructs snapshots from the world sensor and emits change
// events while doing so.
type Builder struct {
	sensor world.Sensor
	bus    *events.Bus
	know   *knowledge.Base
	mem    MemorySource
	logger *slog.Logger

	lastHealth float64
	lastFood   float64
}

// NewBuilder creates a snapshot builder. The first snapshot establishes
// the health/food baselines for change detection. mem may be nil.
func NewBuilder(sensor world.Sensor, bus *events.Bus, know *knowledge.Base, mem MemorySource, logger *slog.Logger) *Builder {
	return &Builder{
		sensor:     sensor,
		bus:        bus,
		know:       know,
		mem:        mem,
		logger:     logger.With("component", "perception"),
		lastHealth: 20,
		lastFood:   20,
	}
}

// Snapshot gathers a complete perception record. When the world sensor is
// not ready it returns a documented minimal default instead of failing.
func (b *Builder) Snapshot() *Snapshot {
	if b.sensor == nil || !b.sensor.Ready() {
		return minimalSnapshot()
	}

	health := b.sensor.Health()
	food := b.sensor.Food()
	prevHealth, prevFood := b.lastHealth, b.lastFood
	// Baselines update before the emits: interrupt handlers re-perceive
	// from inside the emit and must not trip the same change twice.
	b.lastHealth, b.lastFood = health, food
	if health < prevHealth {
		b.bus.Emit(events.HealthDamage, DamageReport{Old: prevHealth, New: health})
	}
	if food < prevFood {
		b.bus.Emit(events.FoodDecrease, DamageReport{Old: prevFood, New: food})
	}

	entities := b.scanEntities()
	players := b.sensor.NearbyPlayers()
	inventory := b.sensor.Inventory()

	snap := &Snapshot{
		Health:         health,
		Food:           food,
		Position:       b.sensor.Position(),
		Dimension:      b.sensor.Dimension(),
		Biome:          b.sensor.Biome(),
		Weather:        b.sensor.Weather(),
		TimeOfDay:      b.sensor.TimeOfDay(),
		TimePhase:      PhaseOf(b.sensor.TimeOfDay()),
		Gamemode:       b.sensor.Gamemode(),
		Effects:        b.sensor.Effects(),
		Inventory:      inventory,
		NearbyEntities: entities,
		NearbyPlayers:  players,
		NearbyBlocks:   b.scanBlocks(),
		RecentChat:     b.sensor.RecentChat(),
	}
	if held, ok := b.sensor.HeldItem(); ok {
		snap.Equipped = held
	}
	if b.mem != nil {
		snap.MemoryContext = b.mem.Context()
	}

	snap.ThreatLevel = deriveThreatLevel(health, entities)
	snap.ResourcePriority = deriveResourcePriority(inventory)
	snap.Craftable = deriveCraftable(inventory)

	b.emitDetections(entities, players)
	return snap
}

// DamageReport is the payload for health_damage and food_decrease events.
type DamageReport struct {
	Old float64
	New float64
}

func minimalSnapshot() *Snapshot {
	return &Snapshot{
		Health:           20,
		Food:             20,
		Dimension:        world.Overworld,
		TimePhase:        Morning,
		Gamemode:         "survival",
		Inventory:        map[string]int{},
		ThreatLevel:      ThreatSafe,
		ResourcePriority: PriorityCraftTools,
	}
}

func (b *Builder) scanEntities() []Entity {
	raw := b.sensor.NearbyEntities(entityScanRadius)
	out := make([]Entity, 0, len(raw))
	for _, e := range raw {
		out = append(out, Entity{
			ID:       e.ID,
			Type:     e.Type,
			Distance: e.Distance,
			Hostile:  b.isHostile(e.Type),
			Position: e.Position,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

func (b *Builder) isHostile(entityType string) bool {
	name := strings.ToLower(entityType)
	if b.know.IsHostile(name) {
		return true
	}
	for _, h := range b.know.HostileMobs() {
		if strings.Contains(name, h) {
			return true
		}
	}
	return false
}

func (b *Builder) scanBlocks() []BlockSighting {
	interesting := make([]string, 0, 12)
	interesting = append(interesting, b.know.BlockGroup("valuable")...)
	interesting = append(interesting, b.know.BlockGroup("wood")...)
	interesting = append(interesting, "chest", "crafting_table", "furnace")

	pos := b.sensor.Position()
	var out []BlockSighting
	for _, name := range interesting {
		for _, blk := range b.sensor.FindBlocks(name, blockScanRadius, 5) {
			out = append(out, BlockSighting{
				Name:     blk.Name,
				Distance: pos.DistanceTo(blk.Position),
				Position: blk.Position,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if len(out) > maxBlockResults {
		out = out[:maxBlockResults]
	}
	return out
}

func (b *Builder) emitDetections(entities []Entity, players []string) {
	var close []Entity
	for _, e := range entities {
		if e.Hostile && e.Distance < threatEmitRange {
			close = append(close, e)
		}
	}
	if len(close) > 0 {
		b.bus.Emit(events.ThreatDetected, close)
	}
	if len(players) > 0 {
		b.bus.Emit(events.PlayerDetected, players)
	}
}

// PhaseOf maps a time-of-day tick to its phase.
func PhaseOf(tick int) TimePhase {
	switch {
	case tick < 6000:
		return Morning
	case tick < 12000:
		return Noon
	case tick < 13000:
		return Sunset
	case tick < 18000:
		return Night
	case tick < 23000:
		return Midnight
	default:
		return Sunrise
	}
}

func deriveThreatLevel(health float64, entities []Entity) ThreatLevel {
	if health < 6 {
		return ThreatCritical
	}
	for _, e := range entities {
		if e.Hostile && e.Distance < closeHostileDist {
			return ThreatHigh
		}
	}
	if health < 12 {
		return ThreatMedium
	}
	return ThreatSafe
}

func deriveResourcePriority(inventory map[string]int) ResourcePriority {
	hasPickaxe := false
	hasSword := false
	for name := range inventory {
		if strings.Contains(name, "pickaxe") {
			hasPickaxe = true
		}
		if strings.Contains(name, "sword") {
			hasSword = true
		}
	}
	switch {
	case !hasPickaxe:
		return PriorityCraftTools
	case !hasSword:
		return PriorityCraftWeapons
	default:
		return PriorityMineResources
	}
}

// deriveCraftable is a heuristic check for common early-game items; it does
// not consult the full recipe graph.
func deriveCraftable(inventory map[string]int) []string {
	var logs, planks int
	for name, count := range inventory {
		if strings.Contains(name, "log") {
			logs += count
		}
		if strings.Contains(name, "plank") {
			planks += count
		}
	}
	sticks := inventory["stick"]
	cobble := inventory["cobblestone"]
	iron := inventory["iron_ingot"]

	var craftable []string
	if logs > 0 {
		craftable = append(craftable, "planks")
	}
	if planks >= 2 {
		craftable = append(craftable, "stick")
	}
	if planks >= 4 {
		craftable = append(craftable, "crafting_table")
	}
	if planks >= 3 && sticks >= 2 {
		craftable = append(craftable, "wooden_pickaxe")
	}
	if planks >= 2 && sticks >= 1 {
		craftable = append(craftable, "wooden_sword")
	}
	if cobble >= 3 && sticks >= 2 {
		craftable = append(craftable, "stone_pickaxe")
	}
	if cobble >= 2 && sticks >= 1 {
		craftable = append(craftable, "stone_sword")
	}
	if cobble >= 8 {
		craftable = append(craftable, "furnace")
	}
	if iron >= 3 && sticks >= 2 {
		craftable = append(craftable, "iron_pickaxe")
	}
	return craftable
}
