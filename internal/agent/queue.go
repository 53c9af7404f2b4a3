// Package agent runs the decision loop: a single scheduler goroutine
// ticks perception, arbitration, self-prompting and command dispatch.
package agent

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"mineagent/internal/brain"
)

// Status tracks a command through its lifecycle. Execution failures do
// not get their own terminal state; a failed command is completed and
// retired like any other.
type Status string

const (
	StatusPending    Status = "pending"
	StatusDispatched Status = "dispatched"
	StatusCompleted  Status = "completed"
)

const commandHistoryCap = 50

// Command is one queued decision awaiting dispatch.
type Command struct {
	ID         uuid.UUID      `json:"id"`
	Decision   brain.Decision `json:"decision"`
	Status     Status         `json:"status"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// NewCommand wraps a decision for queueing.
func NewCommand(d brain.Decision) *Command {
	return &Command{
		ID:         uuid.New(),
		Decision:   d,
		Status:     StatusPending,
		EnqueuedAt: time.Now(),
	}
}

// Queue is the FIFO of pending commands plus a bounded archive of
// completed ones. Mutation normally happens on the scheduler goroutine,
// but lifecycle events (death, disconnect) can clear it from the client's
// goroutine, so access is locked.
type Queue struct {
	mu      sync.Mutex
	pending []*Command
	history []*Command
}

// NewQueue creates an empty command queue.
func NewQueue() *Queue { return &Queue{} }

// Enqueue appends a command to the back of the queue.
func (q *Queue) Enqueue(c *Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, c)
}

// PeekNext returns the front command without removing it, or nil when
// the queue is empty.
func (q *Queue) PeekNext() *Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	return q.pending[0]
}

// PopCompleted removes the front command and archives it as completed.
// The archive keeps the most recent commands up to its cap.
func (q *Queue) PopCompleted() *Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	c := q.pending[0]
	q.pending = q.pending[1:]
	c.Status = StatusCompleted

	q.history = append(q.history, c)
	if len(q.history) > commandHistoryCap {
		q.history = q.history[len(q.history)-commandHistoryCap:]
	}
	return c
}

// Clear drops every pending command and reports how many were dropped.
// Used by the emergency interrupt.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.pending)
	q.pending = q.pending[:0]
	return n
}

// IsEmpty reports whether no commands are pending.
func (q *Queue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) == 0
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// History returns a copy of the archived completed commands, oldest first.
func (q *Queue) History() []*Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Command, len(q.history))
	copy(out, q.history)
	return out
}
