package brain

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mineagent/internal/events"
	"mineagent/internal/perception"
)

// VoteRecord is one brain's score in an arbitration round.
type VoteRecord struct {
	Brain string `json:"brain"`
	Score int    `json:"score"`
}

// Round is the observable record of one arbitration: every vote plus the
// winning decision.
type Round struct {
	Votes     []VoteRecord `json:"votes"`
	Decision  Decision     `json:"decision"`
	Timestamp time.Time    `json:"timestamp"`
}

// RoundSink receives completed arbitration rounds for durable logging.
type RoundSink interface {
	LogRound(snap *perception.Snapshot, round Round) error
}

const defaultHistoryCap = 256

// Manager runs the arbitration protocol: every registered brain votes on
// the snapshot, the highest scorer decides, ties resolve to the
// earliest-registered brain.
type Manager struct {
	mu      sync.Mutex
	brains  []Brain
	bus     *events.Bus
	logger  *slog.Logger
	sink    RoundSink
	history []Round
	histCap int
	histPos int
	full    bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithHistoryCap sets the vote-history ring size (default 256).
func WithHistoryCap(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.histCap = n
		}
	}
}

// WithRoundSink attaches a durable sink (the SQLite decision log) that
// receives every completed round.
func WithRoundSink(sink RoundSink) ManagerOption {
	return func(m *Manager) { m.sink = sink }
}

// NewManager creates an arbitration manager bound to the shared event bus.
func NewManager(bus *events.Bus, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		bus:     bus,
		logger:  logger.With("component", "brains"),
		histCap: defaultHistoryCap,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.history = make([]Round, m.histCap)
	return m
}

// Register adds a brain to the competition. Brains declaring the
// EventBusAware capability receive the shared bus here. Registration order
// is the tie-break order for equal scores.
func (m *Manager) Register(b Brain) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if aware, ok := b.(EventBusAware); ok {
		aware.SetEventBus(m.bus)
	}
	m.brains = append(m.brains, b)
	m.logger.Info("brain registered", "brain", b.Name())
}

// Decide runs one arbitration round. It never panics: a brain whose Vote
// panics is scored 0, and an empty brain set yields a default IDLE
// decision.
func (m *Manager) Decide(snap *perception.Snapshot) Decision {
	m.mu.Lock()
	brains := m.brains
	m.mu.Unlock()

	if len(brains) == 0 {
		return Decision{
			Action:   ActionIdle,
			Priority: PriorityLow,
			Reason:   "no brains registered",
		}
	}

	votes := make([]VoteRecord, len(brains))
	for i, b := range brains {
		votes[i] = VoteRecord{Brain: b.Name(), Score: m.safeVote(b, snap)}
	}

	// Stable selection: strictly-greater comparison keeps the
	// earliest-registered brain on equal scores.
	winner := 0
	for i := 1; i < len(votes); i++ {
		if votes[i].Score > votes[winner].Score {
			winner = i
		}
	}

	for i, v := range votes {
		m.logger.Debug("brain vote", "brain", v.Brain, "score", v.Score, "winner", i == winner)
	}

	decision := m.safeDecide(brains[winner], snap)
	decision.Brain = brains[winner].Name()
	decision.Score = votes[winner].Score

	round := Round{Votes: votes, Decision: decision, Timestamp: time.Now()}
	m.record(snap, round)
	return decision
}

func (m *Manager) safeVote(b Brain, snap *perception.Snapshot) (score int) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("brain vote panicked", "brain", b.Name(), "panic", fmt.Sprint(r))
			score = 0
		}
	}()
	return clampScore(b.Vote(snap))
}

func (m *Manager) safeDecide(b Brain, snap *perception.Snapshot) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("brain decide panicked", "brain", b.Name(), "panic", fmt.Sprint(r))
			d = Decision{
				Action:   ActionIdle,
				Priority: PriorityLow,
				Reason:   "winning brain failed to decide",
			}
		}
	}()
	return b.Decide(snap)
}

func (m *Manager) record(snap *perception.Snapshot, round Round) {
	m.mu.Lock()
	m.history[m.histPos] = round
	m.histPos = (m.histPos + 1) % m.histCap
	if m.histPos == 0 {
		m.full = true
	}
	m.mu.Unlock()

	if m.sink != nil {
		if err := m.sink.LogRound(snap, round); err != nil {
			m.logger.Warn("decision log write failed", "error", err)
		}
	}
}

// History returns the recorded rounds, oldest first.
func (m *Manager) History() []Round {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		out := make([]Round, m.histPos)
		copy(out, m.history[:m.histPos])
		return out
	}
	out := make([]Round, 0, m.histCap)
	out = append(out, m.history[m.histPos:]...)
	out = append(out, m.history[:m.histPos]...)
	return out
}
