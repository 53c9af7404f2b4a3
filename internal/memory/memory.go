// Package memory implements the agent's persistent history store: a bounded
// log of recent turns, named locations, and a free-text summary. The store
// is loaded once at startup and rewritten to disk after every mutation.
package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultMaxTurns = 20

// Turn is one entry in the short-term history.
type Turn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type persisted struct {
	Summary   string               `json:"memory_summary"`
	Locations map[string][]float64 `json:"locations"`
	Turns     []Turn               `json:"turns"`
}

// Store holds the agent's memory and persists it to a JSON file.
type Store struct {
	mu        sync.Mutex
	path      string
	maxTurns  int
	turns     []Turn
	summary   string
	locations map[string][]float64
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMaxTurns overrides the turn cap (default 20).
func WithMaxTurns(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxTurns = n
		}
	}
}

// Open loads (or initializes) the memory file for the named agent under dir.
func Open(dir, agentName string, logger *slog.Logger, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}
	s := &Store{
		path:      filepath.Join(dir, agentName+"_memory.json"),
		maxTurns:  defaultMaxTurns,
		locations: make(map[string][]float64),
		logger:    logger.With("component", "memory"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read memory file: %w", err)
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse memory file: %w", err)
	}
	s.summary = p.Summary
	s.turns = p.Turns
	if p.Locations != nil {
		s.locations = p.Locations
	}
	return nil
}

// AddTurn appends an entry to the short-term history, dropping the oldest
// once the cap is exceeded, and persists.
func (s *Store) AddTurn(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().Format("15:04:05"),
	})
	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
	s.save()
}

// RememberLocation stores a named point of interest and persists.
func (s *Store) RememberLocation(name string, x, y, z float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[name] = []float64{round1(x), round1(y), round1(z)}
	s.save()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RecallLocation returns a saved location's coordinates, if any.
func (s *Store) RecallLocation(name string) ([]float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[name]
	return loc, ok
}

// Turns returns a copy of the current short-term history.
func (s *Store) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Context builds the memory block handed to the decision provider: summary,
// known locations, then the last ten turns.
func (s *Store) Context() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	if s.summary != "" {
		sb.WriteString("MEMORY: " + s.summary + "\n")
	}
	if len(s.locations) > 0 {
		parts := make([]string, 0, len(s.locations))
		for name, loc := range s.locations {
			parts = append(parts, fmt.Sprintf("%s:%v", name, loc))
		}
		sb.WriteString("KNOWN LOCATIONS: " + strings.Join(parts, ", ") + "\n")
	}
	sb.WriteString("RECENT HISTORY:\n")
	turns := s.turns
	if len(turns) > 10 {
		turns = turns[len(turns)-10:]
	}
	for _, t := range turns {
		fmt.Fprintf(&sb, "[%s] %s: %s\n", t.Timestamp, strings.ToUpper(t.Role), t.Content)
	}
	return sb.String()
}

// save writes the store to disk. Callers hold s.mu. Write failures are
// logged rather than propagated: memory durability is best-effort and must
// never stall the decision loop.
func (s *Store) save() {
	p := persisted{
		Summary:   s.summary,
		Locations: s.locations,
		Turns:     s.turns,
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		s.logger.Error("marshal memory", "error", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("write memory file", "error", err, "path", s.path)
	}
}
