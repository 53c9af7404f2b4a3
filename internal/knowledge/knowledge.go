// Package knowledge holds the static lookup tables brains and the decision
// provider consult: mob classes, block groups, food tiers, and structure
// notes.
package knowledge

// Base is the agent's built-in game knowledge. It is immutable after
// construction and safe for concurrent reads.
type Base struct {
	hostileMobs map[string]bool
	passiveMobs map[string]bool
	neutralMobs map[string]bool

	blockGroups map[string][]string
	foodTiers   map[string][]string
	structures  map[string]string
}

// NewBase builds the default knowledge tables.
func NewBase() *Base {
	b := &Base{
		hostileMobs: toSet("zombie", "skeleton", "creeper", "spider", "enderman", "witch", "phantom"),
		passiveMobs: toSet("cow", "sheep", "pig", "chicken", "villager", "horse"),
		neutralMobs: toSet("wolf", "bee", "iron_golem", "zombified_piglin"),
		blockGroups: map[string][]string{
			"valuable": {"diamond_ore", "gold_ore", "iron_ore", "coal_ore", "ancient_debris"},
			"wood":     {"oak_log", "birch_log", "spruce_log", "jungle_log", "acacia_log", "dark_oak_log"},
			"stone":    {"stone", "cobblestone", "deepslate", "granite", "diorite", "andesite"},
		},
		foodTiers: map[string][]string{
			"high_saturation": {"golden_carrot", "steak", "cooked_porkchop"},
			"medium":          {"bread", "cooked_chicken", "baked_potato"},
			"low":             {"carrot", "potato", "sweet_berries"},
		},
		structures: map[string]string{
			"village":       "Found in plains, savanna, taiga, desert. Good for food and beds.",
			"desert_temple": "Found in deserts. Has 4 chests at bottom. Watch out for TNT.",
			"stronghold":    "Underground. Contains End Portal.",
			"fortress":      "Nether. Contains Blaze Spawners and Nether Wart.",
		},
	}
	return b
}

func toSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// IsHostile reports whether the mob type is hostile.
func (b *Base) IsHostile(mob string) bool { return b.hostileMobs[mob] }

// MobInfo describes how to handle a mob.
func (b *Base) MobInfo(mob string) string {
	switch {
	case b.hostileMobs[mob]:
		return "Hostile. Attack or flee."
	case b.passiveMobs[mob]:
		return "Passive. Good for food or farming."
	case b.neutralMobs[mob]:
		return "Neutral. Do not provoke."
	default:
		return "Unknown mob."
	}
}

// BlockInfo describes the worth of a block.
func (b *Base) BlockInfo(block string) string {
	for _, name := range b.blockGroups["valuable"] {
		if name == block {
			return "Valuable resource. Mine with Iron Pickaxe or better."
		}
	}
	return "Common block."
}

// BlockGroup returns the block names in a group (valuable, wood, stone).
func (b *Base) BlockGroup(group string) []string {
	return b.blockGroups[group]
}

// FoodTier returns the food items in a tier.
func (b *Base) FoodTier(tier string) []string {
	return b.foodTiers[tier]
}

// HostileMobs returns every known hostile mob type.
func (b *Base) HostileMobs() []string {
	out := make([]string, 0, len(b.hostileMobs))
	for m := range b.hostileMobs {
		out = append(out, m)
	}
	return out
}

// Structures returns the structure notes keyed by structure name.
func (b *Base) Structures() map[string]string {
	out := make(map[string]string, len(b.structures))
	for k, v := range b.structures {
		out[k] = v
	}
	return out
}
