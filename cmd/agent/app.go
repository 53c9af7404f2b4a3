package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"mineagent/internal/agent"
	"mineagent/internal/brain"
	"mineagent/internal/bridge"
	"mineagent/internal/config"
	"mineagent/internal/debug"
	"mineagent/internal/events"
	"mineagent/internal/knowledge"
	"mineagent/internal/llm"
	"mineagent/internal/logging"
	"mineagent/internal/memory"
	"mineagent/internal/observability"
	"mineagent/internal/perception"
	"mineagent/internal/skills"
)

// spawnTimeout bounds how long one connection waits for the world to
// report the agent spawned before giving up and reconnecting.
const spawnTimeout = 60 * time.Second

// App holds everything that survives across reconnects. The event bus and
// arbitration manager are rebuilt per session: the bus has no unsubscribe,
// so session-scoped handlers must not outlive their connection.
type App struct {
	cfg         config.Config
	logger      *slog.Logger
	debugLog    *debug.Logger
	tracer      *observability.TracerProvider
	chain       *llm.Chain
	decisionLog *logging.DecisionLogger
	mem         *memory.Store
	know        *knowledge.Base
}

func createApp(ctx context.Context, configPath string) (*App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.Logging.Level)

	debugMode := os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true"
	debugLog := debug.NewLogger(debugMode, cfg.Logging.DebugEvents)

	tracer, err := observability.InitTracing(ctx, observability.Config{
		ServiceName:    cfg.Tracing.Service,
		ServiceVersion: "v1.0.0",
		Endpoint:       cfg.Tracing.Endpoint,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		logger.Warn("failed to initialize tracing", "error", err)
		tracer = nil
	}

	decisionLog, err := logging.NewDecisionLogger(cfg.Logging.DecisionDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize decision logger: %w", err)
	}

	know := knowledge.NewBase()

	mem, err := memory.Open(cfg.Memory.Dir, cfg.Server.Username, logger,
		memory.WithMaxTurns(cfg.Memory.MaxTurns))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open memory store: %w", err)
	}

	chain, err := llm.NewChain(providerConfigs(cfg.Providers), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build provider chain: %w", err)
	}
	if tracer != nil && tracer.IsEnabled() {
		chain.SetTracer(tracer.GetTracer("mineagent/llm"))
	}

	app := &App{
		cfg:         cfg,
		logger:      logger,
		debugLog:    debugLog,
		tracer:      tracer,
		chain:       chain,
		decisionLog: decisionLog,
		mem:         mem,
		know:        know,
	}

	cleanup := func() {
		decisionLog.Close()
		if tracer != nil {
			tracer.Shutdown(context.Background())
		}
	}
	return app, cleanup, nil
}

// Run connects, drives the agent loop, and reconnects on disconnect until
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := a.runSession(ctx); err != nil {
			a.logger.Error("session ended", "error", err)
		}
		if ctx.Err() != nil {
			return nil
		}
		a.logger.Info("reconnecting", "delay", a.cfg.Agent.ReconnectDelay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(a.cfg.Agent.ReconnectDelay):
		}
	}
}

// runSession is one connection lifetime: launch the sidecar, wait for
// spawn, run the decision loop until disconnect or shutdown.
func (a *App) runSession(ctx context.Context) error {
	client := bridge.NewClient(bridge.Config{
		Command:      a.cfg.Bridge.Command,
		Args:         a.bridgeArgs(),
		PollInterval: a.cfg.Bridge.PollInterval,
	}, a.logger)

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := events.NewBus(a.logger)
	brains := a.newBrains(bus)

	spawned := make(chan struct{}, 1)
	client.OnSpawn(func() {
		a.debugLog.Println("spawn event")
		select {
		case spawned <- struct{}{}:
		default:
		}
	})
	client.OnChat(func(username, message string) {
		bus.Emit(events.ChatReceived, events.ChatMessage{Username: username, Message: message})
	})
	client.OnDeath(func() {
		bus.Emit(events.AgentDeath, nil)
	})
	client.OnDisconnect(func(reason string) {
		a.logger.Warn("disconnected from world", "reason", reason)
		bus.Emit(events.Disconnected, reason)
		cancel()
	})

	a.logger.Info("waiting for spawn",
		"host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
	select {
	case <-spawned:
	case <-time.After(spawnTimeout):
		return fmt.Errorf("timed out waiting for spawn")
	case <-sessionCtx.Done():
		return sessionCtx.Err()
	}
	a.logger.Info("spawned, starting decision loop", "agent", a.cfg.Server.Username)

	perc := perception.NewBuilder(client, bus, a.know, a.mem, a.logger)
	executor := skills.NewExecutor(client, a.logger)
	dispatcher := agent.NewDispatcher(client, executor, a.logger)

	loop := agent.New(perc, brains, dispatcher, a.mem, bus, a.logger, agent.Options{
		TickInterval:       a.cfg.Agent.TickInterval,
		SelfPromptInterval: a.cfg.Agent.SelfPromptInterval,
	})
	loop.Run(sessionCtx)
	return nil
}

// newBrains builds the per-session arbitration manager with the full
// policy set: six rule brains plus the provider-backed brain.
func (a *App) newBrains(bus *events.Bus) *brain.Manager {
	brains := brain.NewManager(bus, a.logger,
		brain.WithHistoryCap(a.cfg.Agent.VoteHistoryCap),
		brain.WithRoundSink(a.decisionLog))
	brains.Register(brain.NewSurvival())
	brains.Register(brain.NewCombat())
	brains.Register(brain.NewHealth())
	brains.Register(brain.NewAggressive())
	brains.Register(brain.NewCautious())
	brains.Register(brain.NewStrategic())
	brains.Register(brain.NewLLMBrain(a.chain, a.know, a.logger))
	return brains
}

// bridgeArgs appends the server target to the configured sidecar args.
func (a *App) bridgeArgs() []string {
	args := append([]string{}, a.cfg.Bridge.Args...)
	return append(args,
		"--host", a.cfg.Server.Host,
		"--port", strconv.Itoa(a.cfg.Server.Port),
		"--username", a.cfg.Server.Username,
		"--version", a.cfg.Server.Version,
	)
}

func providerConfigs(cfgs []config.ProviderConfig) []llm.ProviderConfig {
	out := make([]llm.ProviderConfig, 0, len(cfgs))
	for _, c := range cfgs {
		out = append(out, llm.ProviderConfig{
			ID:        c.ID,
			Type:      c.Type,
			Name:      c.Name,
			APIKey:    c.APIKey,
			Endpoint:  c.Endpoint,
			Model:     c.Model,
			Priority:  c.Priority,
			Timeout:   c.Timeout,
			MaxTokens: c.MaxTokens,
		})
	}
	return out
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
