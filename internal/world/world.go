// Package world defines the capability surface the agent consumes to sense
// and act on the game world. The agent never speaks the game protocol
// itself; a client implementing Interface is supplied at composition time.
package world

import (
	"context"
	"errors"
	"math"
)

// ErrNotReady is returned by actuator calls before the client has spawned
// or after a capability (such as pathing) is lost. The dispatcher attempts
// one reload and then skips the action.
var ErrNotReady = errors.New("world: client not ready")

// Dimension identifies which world the agent currently occupies.
type Dimension string

const (
	Overworld Dimension = "overworld"
	Nether    Dimension = "nether"
	End       Dimension = "end"
)

// Vec3 is a world-space position.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo returns the euclidean distance between two positions.
func (v Vec3) DistanceTo(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Offset returns a copy of v shifted by the given deltas.
func (v Vec3) Offset(dx, dy, dz float64) Vec3 {
	return Vec3{X: v.X + dx, Y: v.Y + dy, Z: v.Z + dz}
}

// Entity is a mob or player visible to the client.
type Entity struct {
	ID       int     `json:"id"`
	Type     string  `json:"type"`
	Position Vec3    `json:"position"`
	Distance float64 `json:"distance"`
}

// Block is a block of interest located by a scan.
type Block struct {
	Name     string `json:"name"`
	Position Vec3   `json:"position"`
	// Metadata carries block state such as crop growth stage.
	Metadata int `json:"metadata"`
}

// Effect is an active status effect on the agent.
type Effect struct {
	ID        int `json:"id"`
	Amplifier int `json:"amplifier"`
	Duration  int `json:"duration"`
}

// Weather is the current weather state.
type Weather struct {
	Raining    bool `json:"raining"`
	Thundering bool `json:"thundering"`
}

// Recipe is an opaque handle to a craftable recipe resolved by the client.
type Recipe struct {
	Item          string
	ResultCount   int
	RequiresTable bool
}

// Sensor exposes read-only queries over current world state. Implementations
// return zero values rather than blocking when data is not yet available;
// Ready reports whether the client has spawned and queries are meaningful.
type Sensor interface {
	Ready() bool
	Health() float64
	Food() float64
	Position() Vec3
	Dimension() Dimension
	Biome() string
	Weather() Weather
	TimeOfDay() int
	Gamemode() string
	Effects() []Effect
	Inventory() map[string]int
	HeldItem() (string, bool)

	// NearbyEntities returns mobs within radius of the agent.
	NearbyEntities(radius float64) []Entity
	// NearbyPlayers returns usernames of other players currently tracked.
	NearbyPlayers() []string
	// FindBlocks locates up to limit blocks with the given name within
	// maxDistance of the agent.
	FindBlocks(name string, maxDistance float64, limit int) []Block
	// RecipesFor resolves recipes for an item, optionally using a crafting
	// station. Empty result means the item cannot be crafted right now.
	RecipesFor(item string, station *Block) []Recipe
	RecentChat() string
}

// Actuator exposes the control calls the dispatcher and skills issue.
// Movement goals are fire-and-forget: SetMoveGoal returns once the goal is
// accepted, not when the agent arrives.
type Actuator interface {
	SetMoveGoal(ctx context.Context, x, y, z float64, sprint bool) error
	ClearGoals(ctx context.Context) error
	LookAt(ctx context.Context, pos Vec3) error
	SetControl(ctx context.Context, state string, on bool) error
	Attack(ctx context.Context, entityID int) error
	Dig(ctx context.Context, pos Vec3) error
	PlaceBlock(ctx context.Context, pos Vec3, item string) error
	Equip(ctx context.Context, item string) error
	Consume(ctx context.Context) error
	Craft(ctx context.Context, recipe Recipe, count int, station *Block) error
	Chat(ctx context.Context, text string) error
	Mount(ctx context.Context, entityID int) error
	Dismount(ctx context.Context) error
	Sleep(ctx context.Context, bedPos Vec3) error
	Wake(ctx context.Context) error
	UseHeld(ctx context.Context) error
	DropItem(ctx context.Context, item string, count int) error

	// Reload re-attaches optional capabilities (pathing, combat helpers)
	// after the client reports ErrNotReady. Safe to call repeatedly.
	Reload(ctx context.Context) error
}

// Lifecycle delivers connection-level notifications. The composition root
// bridges these onto the event bus.
type Lifecycle interface {
	OnSpawn(func())
	OnChat(func(username, message string))
	OnDeath(func())
	OnDisconnect(func(reason string))
}

// Interface is the full surface the agent consumes.
type Interface interface {
	Sensor
	Actuator
	Lifecycle
}
