package agent

import "time"

// defaultIdleInterval is how long the agent sits idle before prompting
// itself for something to do.
const defaultIdleInterval = 5 * time.Second

// SelfPrompter decides when an idle agent should run a fresh arbitration
// round. It fires only when the queue is empty and the idle interval has
// elapsed since the last fire.
type SelfPrompter struct {
	interval time.Duration
	lastFire time.Time
}

// NewSelfPrompter creates a self-prompter with the given idle interval.
// Non-positive intervals fall back to the default.
func NewSelfPrompter(interval time.Duration) *SelfPrompter {
	if interval <= 0 {
		interval = defaultIdleInterval
	}
	return &SelfPrompter{interval: interval}
}

// ShouldFire reports whether a self-prompt is due, and records the fire
// time when it is.
func (s *SelfPrompter) ShouldFire(queueEmpty bool, now time.Time) bool {
	if !queueEmpty {
		return false
	}
	if now.Sub(s.lastFire) < s.interval {
		return false
	}
	s.lastFire = now
	return true
}

// Reset pushes the next fire out a full interval from now. Called when
// something else already produced a decision.
func (s *SelfPrompter) Reset(now time.Time) { s.lastFire = now }
