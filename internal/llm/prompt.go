package llm

import (
	"fmt"
	"sort"
	"strings"

	"mineagent/internal/knowledge"
	"mineagent/internal/perception"
)

// SystemPrompt frames every remote decision request.
const SystemPrompt = `You are the decision core of an autonomous Minecraft agent.
Given the agent's current situation, choose exactly one action and respond
with a single JSON object and nothing else:

{"action": "<ACTION>", "params": {...}, "reason": "<short explanation>", "interrupt_on": ["<event>", ...]}

Valid actions: MOVE, LOOK, CONTROL, COMBAT, FLEE, MINE, EAT, CRAFT, BUILD,
FARM, TRADE, CHAT, MOUNT, DISMOUNT, SLEEP, WAKE, USE, DROP, IDLE.

Guidelines:
- Survival comes first: low health or hunger outranks everything else.
- Fight only when healthy and armed; flee otherwise.
- When safe, make progress: gather wood, craft tools, mine valuable ores.
- interrupt_on lists event names that should cancel this action early,
  e.g. "health_damage" or "threat_detected".
- Keep reason under one sentence.`

// BuildPrompt renders a snapshot into the user prompt sent to remote
// providers. Sections with nothing to say are omitted to keep the
// prompt small.
func BuildPrompt(snap *perception.Snapshot, know *knowledge.Base) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Status: health %.1f/20, food %.1f/20, %s in %s (%s), threat %s\n",
		snap.Health, snap.Food, snap.TimePhase, snap.Biome, snap.Dimension, snap.ThreatLevel)
	fmt.Fprintf(&b, "Position: %.1f, %.1f, %.1f\n",
		snap.Position.X, snap.Position.Y, snap.Position.Z)

	if len(snap.Inventory) > 0 {
		items := make([]string, 0, len(snap.Inventory))
		for name, count := range snap.Inventory {
			items = append(items, fmt.Sprintf("%s x%d", name, count))
		}
		sort.Strings(items)
		if len(items) > 8 {
			items = items[:8]
		}
		fmt.Fprintf(&b, "Inventory: %s\n", strings.Join(items, ", "))
	} else {
		b.WriteString("Inventory: empty\n")
	}

	hostiles := snap.HostileEntities()
	if len(hostiles) > 0 {
		if len(hostiles) > 3 {
			hostiles = hostiles[:3]
		}
		b.WriteString("Threats:\n")
		for _, e := range hostiles {
			fmt.Fprintf(&b, "  - %s at %.1f blocks\n", e.Type, e.Distance)
		}
	}

	if len(snap.NearbyPlayers) > 0 {
		players := snap.NearbyPlayers
		if len(players) > 5 {
			players = players[:5]
		}
		fmt.Fprintf(&b, "Players nearby: %s\n", strings.Join(players, ", "))
	}

	if len(snap.NearbyBlocks) > 0 {
		blocks := snap.NearbyBlocks
		if len(blocks) > 5 {
			blocks = blocks[:5]
		}
		b.WriteString("Visible resources:\n")
		for _, blk := range blocks {
			fmt.Fprintf(&b, "  - %s at %.1f blocks\n", blk.Name, blk.Distance)
		}
	}

	if len(snap.Craftable) > 0 {
		fmt.Fprintf(&b, "Craftable now: %s\n", strings.Join(snap.Craftable, ", "))
	}

	if snap.RecentChat != "" {
		fmt.Fprintf(&b, "Recent chat: %s\n", snap.RecentChat)
	}

	if snap.MemoryContext != "" {
		b.WriteString("Memory:\n")
		b.WriteString(snap.MemoryContext)
		b.WriteString("\n")
	}

	if know != nil && len(hostiles) > 0 {
		if info := know.MobInfo(hostiles[0].Type); info != "" {
			fmt.Fprintf(&b, "Tip: %s\n", info)
		}
	}

	b.WriteString("\nDecide the next action.")
	return b.String()
}
