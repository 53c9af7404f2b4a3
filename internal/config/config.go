// Package config loads the agent configuration from a YAML file and
// fills in defaults so a minimal file is enough to run.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Bridge    BridgeConfig     `yaml:"bridge"`
	Agent     AgentConfig      `yaml:"agent"`
	Memory    MemoryConfig     `yaml:"memory"`
	Providers []ProviderConfig `yaml:"providers"`
	Logging   LoggingConfig    `yaml:"logging"`
	Tracing   TracingConfig    `yaml:"tracing"`
}

// ServerConfig locates the game server the world client connects to.
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Version  string `yaml:"version"`
}

// BridgeConfig describes the world sidecar process the agent launches
// and talks to over MCP stdio.
type BridgeConfig struct {
	Command      string        `yaml:"command"`
	Args         []string      `yaml:"args"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// AgentConfig tunes the decision loop.
type AgentConfig struct {
	TickInterval       time.Duration `yaml:"tick_interval"`
	SelfPromptInterval time.Duration `yaml:"self_prompt_interval"`
	VoteHistoryCap     int           `yaml:"vote_history_cap"`
	ReconnectDelay     time.Duration `yaml:"reconnect_delay"`
}

// MemoryConfig controls the persistent memory store.
type MemoryConfig struct {
	Dir      string `yaml:"dir"`
	MaxTurns int    `yaml:"max_turns"`
}

// ProviderConfig describes one remote decision provider.
type ProviderConfig struct {
	ID        string        `yaml:"id"`
	Type      string        `yaml:"type"` // openai_compatible, http, rules
	Name      string        `yaml:"name"`
	APIKey    string        `yaml:"api_key"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	Priority  int           `yaml:"priority"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// LoggingConfig controls the slog handler and the SQLite decision log.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	DecisionDB  string `yaml:"decision_db"`
	DebugEvents string `yaml:"debug_events"`
}

// TracingConfig controls the OTLP trace exporter.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Service  string `yaml:"service"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:     "localhost",
			Port:     25565,
			Username: "Agent",
		},
		Bridge: BridgeConfig{
			Command:      "node",
			Args:         []string{"bridge/index.js"},
			PollInterval: 250 * time.Millisecond,
		},
		Agent: AgentConfig{
			TickInterval:       100 * time.Millisecond,
			SelfPromptInterval: 5 * time.Second,
			VoteHistoryCap:     256,
			ReconnectDelay:     5 * time.Second,
		},
		Memory: MemoryConfig{
			Dir:      "data",
			MaxTurns: 20,
		},
		Logging: LoggingConfig{
			Level:      "info",
			DecisionDB: "data/decisions.db",
		},
		Tracing: TracingConfig{
			Service: "mineagent",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		if p.APIKey == "" && p.APIKeyEnv != "" {
			p.APIKey = os.Getenv(p.APIKeyEnv)
		}
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Bridge.Command == "" {
		c.Bridge.Command = def.Bridge.Command
		if len(c.Bridge.Args) == 0 {
			c.Bridge.Args = def.Bridge.Args
		}
	}
	if c.Bridge.PollInterval <= 0 {
		c.Bridge.PollInterval = def.Bridge.PollInterval
	}
	if c.Agent.TickInterval <= 0 {
		c.Agent.TickInterval = def.Agent.TickInterval
	}
	if c.Agent.SelfPromptInterval <= 0 {
		c.Agent.SelfPromptInterval = def.Agent.SelfPromptInterval
	}
	if c.Agent.VoteHistoryCap <= 0 {
		c.Agent.VoteHistoryCap = def.Agent.VoteHistoryCap
	}
	if c.Agent.ReconnectDelay <= 0 {
		c.Agent.ReconnectDelay = def.Agent.ReconnectDelay
	}
	if c.Memory.Dir == "" {
		c.Memory.Dir = def.Memory.Dir
	}
	if c.Memory.MaxTurns <= 0 {
		c.Memory.MaxTurns = def.Memory.MaxTurns
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.DecisionDB == "" {
		c.Logging.DecisionDB = def.Logging.DecisionDB
	}
	if c.Tracing.Service == "" {
		c.Tracing.Service = def.Tracing.Service
	}
}

// Validate rejects configurations the agent cannot start with.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.Username == "" {
		return fmt.Errorf("server.username is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q unknown", c.Logging.Level)
	}
	seen := map[string]bool{}
	for _, p := range c.Providers {
		if p.ID == "" {
			return fmt.Errorf("provider without id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate provider id %q", p.ID)
		}
		seen[p.ID] = true
		switch p.Type {
		case "openai_compatible", "http", "rules":
		default:
			return fmt.Errorf("provider %s: unknown type %q", p.ID, p.Type)
		}
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint required when tracing is enabled")
	}
	return nil
}
