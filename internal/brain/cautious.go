package brain

import "mineagent/internal/perception"

// Cautious votes up when the agent is weak or threatened and always
// proposes retreating.
type Cautious struct{}

// NewCautious creates the cautious brain.
func NewCautious() *Cautious { return &Cautious{} }

func (c *Cautious) Name() string { return "CautiousBrain" }

func (c *Cautious) Vote(snap *perception.Snapshot) int {
	score := 30

	threats := snap.HostileEntities()

	if snap.Health < 8 {
		score += 60
	} else if snap.Health < 15 {
		score += 30
	}
	for _, t := range threats {
		switch {
		case t.Distance < 5:
			score += 40
		case t.Distance < 10:
			score += 20
		default:
			score += 5
		}
	}
	if snap.TimePhase == perception.Night {
		score += 25
	}
	if len(threats) > 2 {
		score += 20
	}
	return clampScore(score)
}

func (c *Cautious) Decide(snap *perception.Snapshot) Decision {
	if snap.Health < 10 || len(snap.HostileEntities()) > 0 {
		return Decision{
			Action:   ActionFlee,
			Priority: PriorityHigh,
			Params:   Params{Sprint: true},
			Reason:   "too dangerous, running away",
		}
	}
	return Decision{
		Action:   ActionFlee,
		Priority: PriorityMedium,
		Params:   Params{Sprint: false},
		Reason:   "being cautious, finding safe spot",
	}
}
