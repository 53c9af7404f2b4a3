package perception

import (
	"io"
	"log/slog"
	"testing"

	"mineagent/internal/events"
	"mineagent/internal/knowledge"
	"mineagent/internal/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSensor implements world.Sensor with fixed data.
type fakeSensor struct {
	ready     bool
	health    float64
	food      float64
	entities  []world.Entity
	players   []string
	inventory map[string]int
	blocks    map[string][]world.Block
	timeOfDay int
}

func (f *fakeSensor) Ready() bool                { return f.ready }
func (f *fakeSensor) Health() float64            { return f.health }
func (f *fakeSensor) Food() float64              { return f.food }
func (f *fakeSensor) Position() world.Vec3       { return world.Vec3{} }
func (f *fakeSensor) Dimension() world.Dimension { return world.Overworld }
func (f *fakeSensor) Biome() string              { return "plains" }
func (f *fakeSensor) Weather() world.Weather     { return world.Weather{} }
func (f *fakeSensor) TimeOfDay() int             { return f.timeOfDay }
func (f *fakeSensor) Gamemode() string           { return "survival" }
func (f *fakeSensor) Effects() []world.Effect    { return nil }
func (f *fakeSensor) Inventory() map[string]int {
	if f.inventory == nil {
		return map[string]int{}
	}
	return f.inventory
}
func (f *fakeSensor) HeldItem() (string, bool) { return "", false }
func (f *fakeSensor) NearbyEntities(radius float64) []world.Entity {
	return f.entities
}
func (f *fakeSensor) NearbyPlayers() []string { return f.players }
func (f *fakeSensor) FindBlocks(name string, maxDistance float64, limit int) []world.Block {
	return f.blocks[name]
}
func (f *fakeSensor) RecipesFor(item string, station *world.Block) []world.Recipe {
	return nil
}
func (f *fakeSensor) RecentChat() string { return "" }

func newTestBuilder(sensor *fakeSensor) (*Builder, *events.Bus) {
	bus := events.NewBus(testLogger())
	return NewBuilder(sensor, bus, knowledge.NewBase(), nil, testLogger()), bus
}

func TestMinimalSnapshotWhenNotReady(t *testing.T) {
	b, _ := newTestBuilder(&fakeSensor{ready: false})
	snap := b.Snapshot()

	if snap.Health != 20 || snap.Food != 20 {
		t.Errorf("expected full vitals in minimal snapshot, got health=%v food=%v", snap.Health, snap.Food)
	}
	if snap.ThreatLevel != ThreatSafe {
		t.Errorf("expected SAFE threat level, got %s", snap.ThreatLevel)
	}
	if snap.Dimension != world.Overworld {
		t.Errorf("expected overworld, got %s", snap.Dimension)
	}
}

func TestThreatLevelDerivation(t *testing.T) {
	hostileAt := func(d float64) []world.Entity {
		return []world.Entity{{ID: 1, Type: "zombie", Distance: d}}
	}
	cases := []struct {
		name     string
		health   float64
		entities []world.Entity
		want     ThreatLevel
	}{
		{"critical health overrides entities", 3, nil, ThreatCritical},
		{"critical health with hostile", 5, hostileAt(2), ThreatCritical},
		{"hostile within 8", 15, hostileAt(7), ThreatHigh},
		{"hostile beyond 8, low health", 10, hostileAt(12), ThreatMedium},
		{"no close hostile, low health", 11, nil, ThreatMedium},
		{"healthy and clear", 20, hostileAt(20), ThreatSafe},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := newTestBuilder(&fakeSensor{
				ready:    true,
				health:   tc.health,
				food:     20,
				entities: tc.entities,
			})
			snap := b.Snapshot()
			if snap.ThreatLevel != tc.want {
				t.Errorf("expected %s, got %s", tc.want, snap.ThreatLevel)
			}
		})
	}
}

func TestHealthDamageEventEmittedOnDecrease(t *testing.T) {
	sensor := &fakeSensor{ready: true, health: 20, food: 20}
	b, bus := newTestBuilder(sensor)

	var reports []DamageReport
	bus.Subscribe(events.HealthDamage, func(ev events.Event) {
		reports = append(reports, ev.Payload.(DamageReport))
	})

	b.Snapshot() // baseline
	sensor.health = 14
	b.Snapshot()
	b.Snapshot() // no further decrease

	if len(reports) != 1 {
		t.Fatalf("expected exactly 1 health_damage event, got %d", len(reports))
	}
	if reports[0].Old != 20 || reports[0].New != 14 {
		t.Errorf("expected damage 20->14, got %+v", reports[0])
	}
}

func TestDamageBaselineUpdatesBeforeEmit(t *testing.T) {
	sensor := &fakeSensor{ready: true, health: 20, food: 20}
	b, bus := newTestBuilder(sensor)
	b.Snapshot() // baseline

	// Interrupt handlers re-perceive from inside the emission; that inner
	// snapshot must not report the same health drop a second time.
	emits := 0
	bus.Subscribe(events.HealthDamage, func(events.Event) {
		emits++
		if emits == 1 {
			b.Snapshot()
		}
	})

	sensor.health = 3
	b.Snapshot()

	if emits != 1 {
		t.Errorf("health_damage emitted %d times for one drop, want 1", emits)
	}
}

type staticMemory string

func (m staticMemory) Context() string { return string(m) }

func TestSnapshotCapturesMemoryContext(t *testing.T) {
	bus := events.NewBus(testLogger())
	sensor := &fakeSensor{ready: true, health: 20, food: 20}
	b := NewBuilder(sensor, bus, knowledge.NewBase(), staticMemory("base at spawn"), testLogger())

	if got := b.Snapshot().MemoryContext; got != "base at spawn" {
		t.Errorf("memory context = %q, want the store digest", got)
	}
}

func TestThreatDetectedEmittedForCloseHostiles(t *testing.T) {
	sensor := &fakeSensor{
		ready:  true,
		health: 20,
		food:   20,
		entities: []world.Entity{
			{ID: 1, Type: "zombie", Distance: 6},
			{ID: 2, Type: "cow", Distance: 3},
			{ID: 3, Type: "skeleton", Distance: 25},
		},
	}
	b, bus := newTestBuilder(sensor)

	var detected []Entity
	bus.Subscribe(events.ThreatDetected, func(ev events.Event) {
		detected = ev.Payload.([]Entity)
	})

	b.Snapshot()

	if len(detected) != 1 {
		t.Fatalf("expected 1 close threat, got %d", len(detected))
	}
	if detected[0].Type != "zombie" {
		t.Errorf("expected zombie, got %s", detected[0].Type)
	}
}

func TestEntitiesSortedByDistance(t *testing.T) {
	sensor := &fakeSensor{
		ready:  true,
		health: 20, food: 20,
		entities: []world.Entity{
			{ID: 1, Type: "spider", Distance: 20},
			{ID: 2, Type: "zombie", Distance: 11},
			{ID: 3, Type: "sheep", Distance: 15},
		},
	}
	b, _ := newTestBuilder(sensor)
	snap := b.Snapshot()

	last := -1.0
	for _, e := range snap.NearbyEntities {
		if e.Distance < last {
			t.Fatalf("entities not sorted ascending: %+v", snap.NearbyEntities)
		}
		last = e.Distance
	}
	if snap.NearbyEntities[0].Type != "zombie" {
		t.Errorf("expected closest entity zombie, got %s", snap.NearbyEntities[0].Type)
	}
}

func TestResourcePriorityProgression(t *testing.T) {
	cases := []struct {
		inventory map[string]int
		want      ResourcePriority
	}{
		{map[string]int{}, PriorityCraftTools},
		{map[string]int{"wooden_pickaxe": 1}, PriorityCraftWeapons},
		{map[string]int{"wooden_pickaxe": 1, "stone_sword": 1}, PriorityMineResources},
	}
	for _, tc := range cases {
		if got := deriveResourcePriority(tc.inventory); got != tc.want {
			t.Errorf("inventory %v: expected %s, got %s", tc.inventory, tc.want, got)
		}
	}
}

func TestCraftableHeuristics(t *testing.T) {
	got := deriveCraftable(map[string]int{
		"oak_planks":  4,
		"stick":       2,
		"cobblestone": 8,
	})
	want := map[string]bool{
		"stick": true, "crafting_table": true,
		"wooden_pickaxe": true, "wooden_sword": true,
		"stone_pickaxe": true, "stone_sword": true, "furnace": true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d craftables, got %v", len(want), got)
	}
	for _, item := range got {
		if !want[item] {
			t.Errorf("unexpected craftable %q", item)
		}
	}
}

func TestPhaseOf(t *testing.T) {
	cases := []struct {
		tick int
		want TimePhase
	}{
		{0, Morning}, {5999, Morning},
		{6000, Noon}, {12500, Sunset},
		{13000, Night}, {18000, Midnight},
		{23000, Sunrise},
	}
	for _, tc := range cases {
		if got := PhaseOf(tc.tick); got != tc.want {
			t.Errorf("tick %d: expected %s, got %s", tc.tick, tc.want, got)
		}
	}
}
