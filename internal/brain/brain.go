// Package brain implements the multi-strategy arbitration layer: a set of
// independent policies ("brains") that score each perception snapshot, and
// a manager that lets the highest scorer decide the next action.
package brain

import (
	"mineagent/internal/events"
	"mineagent/internal/perception"
	"mineagent/internal/world"
)

// Action is the closed set of things the agent can be told to do. The
// dispatcher switches exhaustively over these values.
type Action string

const (
	ActionMove     Action = "MOVE"
	ActionLook     Action = "LOOK"
	ActionControl  Action = "CONTROL"
	ActionCombat   Action = "COMBAT"
	ActionFlee     Action = "FLEE"
	ActionMine     Action = "MINE"
	ActionEat      Action = "EAT"
	ActionCraft    Action = "CRAFT"
	ActionBuild    Action = "BUILD"
	ActionFarm     Action = "FARM"
	ActionTrade    Action = "TRADE"
	ActionChat     Action = "CHAT"
	ActionIdle     Action = "IDLE"
	ActionMount    Action = "MOUNT"
	ActionDismount Action = "DISMOUNT"
	ActionSleep    Action = "SLEEP"
	ActionWake     Action = "WAKE"
	ActionUse      Action = "USE"
	ActionDrop     Action = "DROP"
)

// Valid reports whether a is a known action tag. Used to reject provider
// output that names actions the dispatcher cannot execute.
func (a Action) Valid() bool {
	switch a {
	case ActionMove, ActionLook, ActionControl, ActionCombat, ActionFlee,
		ActionMine, ActionEat, ActionCraft, ActionBuild, ActionFarm,
		ActionTrade, ActionChat, ActionIdle, ActionMount, ActionDismount,
		ActionSleep, ActionWake, ActionUse, ActionDrop:
		return true
	}
	return false
}

// Priority orders decisions for logging and interruption semantics.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// MoveTarget is a pathing goal.
type MoveTarget struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Sprint bool    `json:"sprint,omitempty"`
}

// ControlChange toggles a control state (jump, sneak, sprint).
type ControlChange struct {
	State string `json:"state"`
	On    bool   `json:"on"`
}

// Params is the action-specific payload of a decision. Fields are optional;
// which ones matter depends on the action. Skill requests multi-step
// execution for actions that support both atomic and skill forms.
type Params struct {
	Skill bool `json:"skill,omitempty"`

	MoveTo  *MoveTarget    `json:"move_to,omitempty"`
	LookAt  *world.Vec3    `json:"look_at,omitempty"`
	Control *ControlChange `json:"control,omitempty"`

	Target   string  `json:"target,omitempty"` // entity type for combat/hunt
	EntityID int     `json:"entity_id,omitempty"`
	Radius   float64 `json:"radius,omitempty"`

	Block string `json:"block,omitempty"` // block name for mining/collection
	Item  string `json:"item,omitempty"`  // item name for craft/use/drop
	Count int    `json:"count,omitempty"`

	Structure  string `json:"structure,omitempty"`   // BUILD plan name
	FarmAction string `json:"farm_action,omitempty"` // harvest/plant/till
	Crop       string `json:"crop,omitempty"`

	Message string `json:"message,omitempty"` // CHAT text
	Sprint  bool   `json:"sprint,omitempty"`  // FLEE speed
}

// Decision is a single winning policy's proposed next action. Brain and
// Score are stamped by the manager before the decision is queued.
type Decision struct {
	Action      Action             `json:"action"`
	Priority    Priority           `json:"priority"`
	Params      Params             `json:"params"`
	Reason      string             `json:"reason"`
	InterruptOn []events.EventType `json:"interrupt_on,omitempty"`

	Brain string `json:"brain,omitempty"`
	Score int    `json:"score,omitempty"`
}

// Brain is a self-contained decision strategy. Vote returns a score in
// [0,100]; Decide is only invoked on the brain that won the round.
type Brain interface {
	Name() string
	Vote(snap *perception.Snapshot) int
	Decide(snap *perception.Snapshot) Decision
}

// EventBusAware is the optional capability a brain declares to receive the
// shared event bus at registration time.
type EventBusAware interface {
	SetEventBus(bus *events.Bus)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
