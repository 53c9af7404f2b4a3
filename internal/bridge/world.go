package bridge

import (
	"context"
	"encoding/json"

	"mineagent/internal/world"
)

// Sensor surface, served from the polled cache.

func (c *Client) Ready() bool {
	if c.session == nil {
		return false
	}
	return c.snapshot().Spawned
}

func (c *Client) Health() float64 { return c.snapshot().Health }

func (c *Client) Food() float64 { return c.snapshot().Food }

func (c *Client) Position() world.Vec3 { return c.snapshot().Position }

func (c *Client) Dimension() world.Dimension {
	switch c.snapshot().Dimension {
	case "the_nether", "nether":
		return world.Nether
	case "the_end", "end":
		return world.End
	default:
		return world.Overworld
	}
}

func (c *Client) Biome() string { return c.snapshot().Biome }

func (c *Client) Weather() world.Weather {
	st := c.snapshot()
	return world.Weather{Raining: st.Raining, Thundering: st.Thundering}
}

func (c *Client) TimeOfDay() int { return c.snapshot().TimeOfDay }

func (c *Client) Gamemode() string { return c.snapshot().Gamemode }

func (c *Client) Effects() []world.Effect { return c.snapshot().Effects }

func (c *Client) Inventory() map[string]int {
	inv := c.snapshot().Inventory
	out := make(map[string]int, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

func (c *Client) HeldItem() (string, bool) {
	held := c.snapshot().HeldItem
	return held, held != ""
}

func (c *Client) NearbyEntities(radius float64) []world.Entity {
	var out []world.Entity
	for _, e := range c.snapshot().Entities {
		if e.Distance <= radius {
			out = append(out, e)
		}
	}
	return out
}

func (c *Client) NearbyPlayers() []string { return c.snapshot().Players }

func (c *Client) RecentChat() string { return c.snapshot().RecentChat }

// FindBlocks queries the sidecar directly; block scans are too expensive
// to keep in the poll cache.
func (c *Client) FindBlocks(name string, maxDistance float64, limit int) []world.Block {
	text, err := c.callTool(context.Background(), "find_blocks", map[string]any{
		"name":         name,
		"max_distance": maxDistance,
		"limit":        limit,
	})
	if err != nil {
		c.logger.Debug("find_blocks failed", "block", name, "error", err)
		return nil
	}
	var blocks []world.Block
	if err := json.Unmarshal([]byte(text), &blocks); err != nil {
		c.logger.Warn("failed to parse find_blocks result", "error", err)
		return nil
	}
	return blocks
}

func (c *Client) RecipesFor(item string, station *world.Block) []world.Recipe {
	args := map[string]any{"item": item}
	if station != nil {
		args["station"] = map[string]any{
			"x": station.Position.X,
			"y": station.Position.Y,
			"z": station.Position.Z,
		}
	}
	text, err := c.callTool(context.Background(), "recipes_for", args)
	if err != nil {
		c.logger.Debug("recipes_for failed", "item", item, "error", err)
		return nil
	}
	var recipes []world.Recipe
	if err := json.Unmarshal([]byte(text), &recipes); err != nil {
		c.logger.Warn("failed to parse recipes_for result", "error", err)
		return nil
	}
	return recipes
}

// Actuator surface, direct tool calls.

func (c *Client) SetMoveGoal(ctx context.Context, x, y, z float64, sprint bool) error {
	_, err := c.callTool(ctx, "set_move_goal", map[string]any{
		"x": x, "y": y, "z": z, "sprint": sprint,
	})
	return err
}

func (c *Client) ClearGoals(ctx context.Context) error {
	_, err := c.callTool(ctx, "clear_goals", nil)
	return err
}

func (c *Client) LookAt(ctx context.Context, pos world.Vec3) error {
	_, err := c.callTool(ctx, "look_at", map[string]any{
		"x": pos.X, "y": pos.Y, "z": pos.Z,
	})
	return err
}

func (c *Client) SetControl(ctx context.Context, stateName string, on bool) error {
	_, err := c.callTool(ctx, "set_control", map[string]any{
		"state": stateName, "on": on,
	})
	return err
}

func (c *Client) Attack(ctx context.Context, entityID int) error {
	_, err := c.callTool(ctx, "attack", map[string]any{"entity_id": entityID})
	return err
}

func (c *Client) Dig(ctx context.Context, pos world.Vec3) error {
	_, err := c.callTool(ctx, "dig", map[string]any{
		"x": pos.X, "y": pos.Y, "z": pos.Z,
	})
	return err
}

func (c *Client) PlaceBlock(ctx context.Context, pos world.Vec3, item string) error {
	_, err := c.callTool(ctx, "place_block", map[string]any{
		"x": pos.X, "y": pos.Y, "z": pos.Z, "item": item,
	})
	return err
}

func (c *Client) Equip(ctx context.Context, item string) error {
	_, err := c.callTool(ctx, "equip", map[string]any{"item": item})
	return err
}

func (c *Client) Consume(ctx context.Context) error {
	_, err := c.callTool(ctx, "consume", nil)
	return err
}

func (c *Client) Craft(ctx context.Context, recipe world.Recipe, count int, station *world.Block) error {
	args := map[string]any{"item": recipe.Item, "count": count}
	if station != nil {
		args["station"] = map[string]any{
			"x": station.Position.X,
			"y": station.Position.Y,
			"z": station.Position.Z,
		}
	}
	_, err := c.callTool(ctx, "craft", args)
	return err
}

func (c *Client) Chat(ctx context.Context, text string) error {
	_, err := c.callTool(ctx, "chat", map[string]any{"text": text})
	return err
}

func (c *Client) Mount(ctx context.Context, entityID int) error {
	_, err := c.callTool(ctx, "mount", map[string]any{"entity_id": entityID})
	return err
}

func (c *Client) Dismount(ctx context.Context) error {
	_, err := c.callTool(ctx, "dismount", nil)
	return err
}

func (c *Client) Sleep(ctx context.Context, bedPos world.Vec3) error {
	_, err := c.callTool(ctx, "sleep", map[string]any{
		"x": bedPos.X, "y": bedPos.Y, "z": bedPos.Z,
	})
	return err
}

func (c *Client) Wake(ctx context.Context) error {
	_, err := c.callTool(ctx, "wake", nil)
	return err
}

func (c *Client) UseHeld(ctx context.Context) error {
	_, err := c.callTool(ctx, "use_held", nil)
	return err
}

func (c *Client) DropItem(ctx context.Context, item string, count int) error {
	_, err := c.callTool(ctx, "drop_item", map[string]any{
		"item": item, "count": count,
	})
	return err
}

func (c *Client) Reload(ctx context.Context) error {
	_, err := c.callTool(ctx, "reload", nil)
	return err
}

// Lifecycle registration.

func (c *Client) OnSpawn(cb func()) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.onSpawn = append(c.onSpawn, cb)
}

func (c *Client) OnChat(cb func(username, message string)) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.onChat = append(c.onChat, cb)
}

func (c *Client) OnDeath(cb func()) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.onDeath = append(c.onDeath, cb)
}

func (c *Client) OnDisconnect(cb func(reason string)) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.onDisconnect = append(c.onDisconnect, cb)
}

var _ world.Interface = (*Client)(nil)
