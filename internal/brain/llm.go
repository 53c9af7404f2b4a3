package brain

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"mineagent/internal/events"
	"mineagent/internal/knowledge"
	"mineagent/internal/llm"
	"mineagent/internal/perception"
)

// llmVote is the flat participation score of the language-model brain.
// It outbids rule brains in calm situations but loses to the specialists
// when their votes spike (combat, starvation, critical health).
const llmVote = 60

// decideTimeout bounds one full walk of the provider chain.
const decideTimeout = 30 * time.Second

// LLMBrain delegates decisions to the provider chain, translating the
// perception snapshot into a prompt and the chain's structured response
// back into a decision. The chain's rule fallback means Decide always
// produces something usable.
type LLMBrain struct {
	chain  *llm.Chain
	know   *knowledge.Base
	logger *slog.Logger
}

// NewLLMBrain wraps a provider chain as a brain.
func NewLLMBrain(chain *llm.Chain, know *knowledge.Base, logger *slog.Logger) *LLMBrain {
	return &LLMBrain{
		chain:  chain,
		know:   know,
		logger: logger.With("brain", "llm"),
	}
}

func (b *LLMBrain) Name() string { return "LLMBrain" }

func (b *LLMBrain) Vote(snap *perception.Snapshot) int {
	return llmVote
}

func (b *LLMBrain) Decide(snap *perception.Snapshot) Decision {
	ctx, cancel := context.WithTimeout(context.Background(), decideTimeout)
	defer cancel()

	resp := b.chain.Decide(ctx, llm.Request{
		SystemPrompt: llm.SystemPrompt,
		UserPrompt:   llm.BuildPrompt(snap, b.know),
		Snapshot:     snap,
	})
	return b.toDecision(resp)
}

func (b *LLMBrain) toDecision(resp *llm.Response) Decision {
	action := Action(resp.Action)
	if !action.Valid() {
		b.logger.Warn("provider returned unknown action", "action", resp.Action)
		return Decision{
			Action:   ActionIdle,
			Priority: PriorityLow,
			Reason:   "unusable model response",
		}
	}

	var params Params
	if len(resp.Params) > 0 {
		if err := json.Unmarshal(resp.Params, &params); err != nil {
			b.logger.Warn("undecodable action params", "action", resp.Action, "error", err)
			params = Params{}
		}
	}

	interrupts := make([]events.EventType, 0, len(resp.InterruptOn))
	for _, name := range resp.InterruptOn {
		interrupts = append(interrupts, events.EventType(name))
	}

	return Decision{
		Action:      action,
		Priority:    PriorityMedium,
		Params:      params,
		Reason:      resp.Reason,
		InterruptOn: interrupts,
	}
}
