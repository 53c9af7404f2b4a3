// Package bridge implements the world interface over MCP: the agent
// launches a sidecar process that speaks the game protocol and exposes
// sensing and control as MCP tools over stdio. Sensor reads come from a
// polled state cache; actuator calls go straight to the sidecar.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mineagent/internal/world"
)

const defaultPollInterval = 250 * time.Millisecond

// Config describes how to launch and poll the sidecar.
type Config struct {
	Command      string   // e.g. "node"
	Args         []string // e.g. ["bridge/index.js", "--host", "localhost"]
	PollInterval time.Duration
}

// state mirrors the sidecar's get_state JSON document.
type state struct {
	Spawned    bool           `json:"spawned"`
	Health     float64        `json:"health"`
	Food       float64        `json:"food"`
	Position   world.Vec3     `json:"position"`
	Dimension  string         `json:"dimension"`
	Biome      string         `json:"biome"`
	Raining    bool           `json:"raining"`
	Thundering bool           `json:"thundering"`
	TimeOfDay  int            `json:"time_of_day"`
	Gamemode   string         `json:"gamemode"`
	Effects    []world.Effect `json:"effects"`
	Inventory  map[string]int `json:"inventory"`
	HeldItem   string         `json:"held_item"`
	Entities   []world.Entity `json:"entities"`
	Players    []string       `json:"players"`
	RecentChat string         `json:"recent_chat"`
}

// sideEvent is one lifecycle notification from the sidecar's event queue.
type sideEvent struct {
	Type     string `json:"type"` // spawn, chat, death, disconnect
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Client is the MCP-backed world client.
type Client struct {
	cfg     Config
	client  *mcp.Client
	logger  *slog.Logger
	session *mcp.ClientSession

	mu    sync.RWMutex
	state state

	cbMu         sync.Mutex
	onSpawn      []func()
	onChat       []func(username, message string)
	onDeath      []func()
	onDisconnect []func(reason string)

	stopPoll context.CancelFunc
}

// NewClient creates a client; Connect launches the sidecar.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Client{
		cfg: cfg,
		client: mcp.NewClient(&mcp.Implementation{
			Name:    "mineagent",
			Version: "v1.0.0",
		}, nil),
		logger: logger.With("component", "bridge"),
	}
}

// Connect launches the sidecar process, establishes the MCP session and
// starts the state poll loop.
func (c *Client) Connect(ctx context.Context) error {
	cmd := exec.Command(c.cfg.Command, c.cfg.Args...)
	transport := mcp.NewCommandTransport(cmd)

	session, err := c.client.Connect(ctx, transport)
	if err != nil {
		return fmt.Errorf("failed to connect to world sidecar: %w", err)
	}
	c.session = session
	c.logger.Info("connected to world sidecar", "command", c.cfg.Command)

	pollCtx, cancel := context.WithCancel(context.Background())
	c.stopPoll = cancel
	go c.poll(pollCtx)
	return nil
}

// Close stops polling and tears down the session.
func (c *Client) Close() error {
	if c.stopPoll != nil {
		c.stopPoll()
	}
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

// poll refreshes the state cache and drains the sidecar's event queue,
// dispatching lifecycle callbacks.
func (c *Client) poll(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refreshState(ctx)
			c.drainEvents(ctx)
		}
	}
}

func (c *Client) refreshState(ctx context.Context) {
	text, err := c.callTool(ctx, "get_state", nil)
	if err != nil {
		c.logger.Debug("state poll failed", "error", err)
		return
	}
	var st state
	if err := json.Unmarshal([]byte(text), &st); err != nil {
		c.logger.Warn("failed to parse world state", "error", err)
		return
	}

	c.mu.Lock()
	wasSpawned := c.state.Spawned
	c.state = st
	c.mu.Unlock()

	if !wasSpawned && st.Spawned {
		c.fireSpawn()
	}
}

func (c *Client) drainEvents(ctx context.Context) {
	text, err := c.callTool(ctx, "poll_events", nil)
	if err != nil {
		return
	}
	var evs []sideEvent
	if err := json.Unmarshal([]byte(text), &evs); err != nil {
		c.logger.Warn("failed to parse sidecar events", "error", err)
		return
	}
	for _, ev := range evs {
		switch ev.Type {
		case "spawn":
			c.fireSpawn()
		case "chat":
			c.cbMu.Lock()
			cbs := c.onChat
			c.cbMu.Unlock()
			for _, cb := range cbs {
				cb(ev.Username, ev.Message)
			}
		case "death":
			c.cbMu.Lock()
			cbs := c.onDeath
			c.cbMu.Unlock()
			for _, cb := range cbs {
				cb()
			}
		case "disconnect":
			c.cbMu.Lock()
			cbs := c.onDisconnect
			c.cbMu.Unlock()
			for _, cb := range cbs {
				cb(ev.Reason)
			}
		}
	}
}

func (c *Client) fireSpawn() {
	c.cbMu.Lock()
	cbs := c.onSpawn
	c.cbMu.Unlock()
	for _, cb := range cbs {
		cb()
	}
}

// callTool invokes one sidecar tool and returns its text payload. Error
// payloads mentioning readiness map to world.ErrNotReady so the dispatcher
// can run its reload protocol.
func (c *Client) callTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if c.session == nil {
		return "", world.ErrNotReady
	}

	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", name, err)
	}

	var text string
	if len(result.Content) > 0 {
		if tc, ok := result.Content[0].(*mcp.TextContent); ok {
			text = tc.Text
		}
	}
	if result.IsError {
		if strings.Contains(text, "not ready") || strings.Contains(text, "not spawned") {
			return "", world.ErrNotReady
		}
		return "", fmt.Errorf("tool %s: %s", name, text)
	}
	return text, nil
}

func (c *Client) snapshot() state {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
