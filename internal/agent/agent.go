package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mineagent/internal/brain"
	"mineagent/internal/events"
	"mineagent/internal/memory"
	"mineagent/internal/perception"
)

const defaultTickInterval = 100 * time.Millisecond

// Agent is the scheduler: one goroutine ticking perception, self-prompt
// checks and command dispatch. Event handlers run synchronously on the
// emitter's stack; perception emits from inside the tick, so the
// emergency interrupt re-arbitrates on the scheduler goroutine.
type Agent struct {
	perc   *perception.Builder
	brains *brain.Manager
	queue  *Queue
	disp   *Dispatcher
	mem    *memory.Store
	bus    *events.Bus
	prompt *SelfPrompter
	logger *slog.Logger
	tick   time.Duration

	// interrupting guards the interrupt handlers: re-perceiving from
	// inside an event emission can emit further detections, which must
	// not arbitrate recursively. Only touched on the emitter goroutine.
	interrupting bool
}

// Options tunes the agent loop.
type Options struct {
	TickInterval       time.Duration
	SelfPromptInterval time.Duration
}

// New wires the agent and registers its event handlers on the bus.
func New(perc *perception.Builder, brains *brain.Manager, disp *Dispatcher,
	mem *memory.Store, bus *events.Bus, logger *slog.Logger, opts Options) *Agent {

	tick := opts.TickInterval
	if tick <= 0 {
		tick = defaultTickInterval
	}
	a := &Agent{
		perc:   perc,
		brains: brains,
		queue:  NewQueue(),
		disp:   disp,
		mem:    mem,
		bus:    bus,
		prompt: NewSelfPrompter(opts.SelfPromptInterval),
		logger: logger.With("component", "agent"),
		tick:   tick,
	}

	bus.Subscribe(events.HealthDamage, a.onHealthDamage)
	bus.Subscribe(events.ThreatDetected, a.onThreatDetected)
	bus.Subscribe(events.ChatReceived, a.onChatReceived)
	bus.Subscribe(events.AgentDeath, a.onDeath)
	return a
}

// Run drives the loop until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) {
	a.logger.Info("agent loop started", "tick", a.tick)
	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("agent loop stopped")
			return
		case <-ticker.C:
			a.step(ctx)
		}
	}
}

// step is one scheduler tick: refresh perception (which may emit events
// whose handlers clear the queue and re-arbitrate), then either drain one
// command or consider a self-prompt.
func (a *Agent) step(ctx context.Context) {
	snap := a.perc.Snapshot()

	if cmd := a.queue.PeekNext(); cmd != nil {
		cmd.Status = StatusDispatched
		a.disp.Execute(ctx, cmd.Decision)
		a.queue.PopCompleted()
		return
	}

	if a.prompt.ShouldFire(a.queue.IsEmpty(), time.Now()) {
		a.decideAndEnqueue(snap, "self-prompt")
	}
}

// decideAndEnqueue runs one arbitration round and queues the result.
// IDLE results are dropped rather than queued.
func (a *Agent) decideAndEnqueue(snap *perception.Snapshot, trigger string) {
	d := a.brains.Decide(snap)
	if d.Action == brain.ActionIdle {
		a.logger.Debug("idle decision dropped", "trigger", trigger, "brain", d.Brain)
		return
	}
	a.queue.Enqueue(NewCommand(d))
	a.mem.AddTurn("agent", fmt.Sprintf("%s: %s (%s)", d.Action, d.Reason, d.Brain))
	a.logger.Info("decision queued",
		"trigger", trigger, "action", d.Action, "brain", d.Brain, "score", d.Score)
}

// onHealthDamage is the emergency interrupt: drop everything pending and
// arbitrate immediately.
func (a *Agent) onHealthDamage(ev events.Event) {
	dropped := a.queue.Clear()
	a.logger.Warn("taking damage, interrupting", "dropped_commands", dropped)
	a.interrupt("health_damage")
}

// onThreatDetected re-arbitrates only when nothing is queued; a busy agent
// finishes what it is doing.
func (a *Agent) onThreatDetected(ev events.Event) {
	if !a.queue.IsEmpty() {
		return
	}
	a.interrupt("threat_detected")
}

// interrupt perceives fresh state and runs one arbitration round, so the
// brains see the situation as it is after the triggering change, not the
// previous tick's view of it.
func (a *Agent) interrupt(trigger string) {
	if a.interrupting {
		return
	}
	a.interrupting = true
	defer func() { a.interrupting = false }()

	a.decideAndEnqueue(a.perc.Snapshot(), trigger)
	a.prompt.Reset(time.Now())
}

// onChatReceived records the line into memory for future prompts.
func (a *Agent) onChatReceived(ev events.Event) {
	msg, ok := ev.Payload.(events.ChatMessage)
	if !ok {
		return
	}
	a.mem.AddTurn("chat", fmt.Sprintf("%s: %s", msg.Username, msg.Message))
}

// onDeath clears the queue; the composition root handles respawn.
func (a *Agent) onDeath(ev events.Event) {
	dropped := a.queue.Clear()
	a.mem.AddTurn("agent", "died")
	a.logger.Warn("agent died", "dropped_commands", dropped)
}

// Queue exposes the command queue for inspection.
func (a *Agent) Queue() *Queue { return a.queue }
