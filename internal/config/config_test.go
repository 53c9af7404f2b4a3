package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Agent.TickInterval != 100*time.Millisecond {
		t.Errorf("tick interval = %v", cfg.Agent.TickInterval)
	}
	if cfg.Server.Port != 25565 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestLoadOverridesAndFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  host: mc.example.com
  port: 25566
  username: Scout
agent:
  self_prompt_interval: 10s
providers:
  - id: primary
    type: openai_compatible
    endpoint: https://api.example.com/v1
    model: gpt-4o-mini
    priority: 1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "mc.example.com" || cfg.Server.Port != 25566 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Agent.SelfPromptInterval != 10*time.Second {
		t.Errorf("self prompt interval = %v", cfg.Agent.SelfPromptInterval)
	}
	// untouched fields keep defaults
	if cfg.Agent.TickInterval != 100*time.Millisecond {
		t.Errorf("tick interval = %v, want default", cfg.Agent.TickInterval)
	}
	if cfg.Memory.MaxTurns != 20 {
		t.Errorf("memory max turns = %d, want default 20", cfg.Memory.MaxTurns)
	}
}

func TestLoadResolvesAPIKeyFromEnv(t *testing.T) {
	t.Setenv("TEST_PROVIDER_KEY", "sk-test")
	path := writeConfig(t, `
server:
  host: localhost
  port: 25565
  username: Agent
providers:
  - id: primary
    type: openai_compatible
    api_key_env: TEST_PROVIDER_KEY
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers[0].APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.Providers[0].APIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.Server.Host = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"missing username", func(c *Config) { c.Server.Username = "" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown provider type", func(c *Config) {
			c.Providers = []ProviderConfig{{ID: "x", Type: "psychic"}}
		}},
		{"duplicate provider id", func(c *Config) {
			c.Providers = []ProviderConfig{{ID: "x", Type: "rules"}, {ID: "x", Type: "rules"}}
		}},
		{"tracing without endpoint", func(c *Config) { c.Tracing.Enabled = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
