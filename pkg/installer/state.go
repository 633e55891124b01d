package installer

import (
	"fmt"
	"log/slog"
)

// State is a stage in the overall run state machine.
type State string

const (
	StateNotStarted        State = "NotStarted"
	StateProbing           State = "Probing"
	StateValidating        State = "Validating"
	StateGated             State = "Gated"
	StateConfiguringInputs State = "ConfiguringInputs"
	StateBackingUp         State = "BackingUp"
	StateExecutingSteps    State = "ExecutingSteps"
	StateDone              State = "Done"
	StateAborted           State = "Aborted"
)

// Event triggers a state transition.
type Event string

const (
	// EventBegin starts the run.
	EventBegin Event = "begin"
	// EventProbed fires when the environment report is complete.
	EventProbed Event = "probed"
	// EventValidated fires when no blocking finding remains.
	EventValidated Event = "validated"
	// EventBlocked fires when a blocking finding gates the run.
	EventBlocked Event = "blocked"
	// EventOverridden fires when the operator overrides the gate.
	EventOverridden Event = "overridden"
	// EventConfigured fires when configuration is accepted.
	EventConfigured Event = "configured"
	// EventBackupNeeded routes a non-fresh run through backup.
	EventBackupNeeded Event = "backup-needed"
	// EventBackedUp fires when the backup phase completes.
	EventBackedUp Event = "backed-up"
	// EventCompleted fires when every step has executed.
	EventCompleted Event = "completed"
	// EventFatal aborts the run from any active state.
	EventFatal Event = "fatal"
)

type transitionKey struct {
	state State
	event Event
}

// transitions is the full legal transition table. Every run transition is
// a pure function of (state, event); anything not listed is an error.
var transitions = map[transitionKey]State{
	{StateNotStarted, EventBegin}:               StateProbing,
	{StateProbing, EventProbed}:                 StateValidating,
	{StateValidating, EventValidated}:           StateConfiguringInputs,
	{StateValidating, EventBlocked}:             StateGated,
	{StateGated, EventOverridden}:               StateConfiguringInputs,
	{StateGated, EventFatal}:                    StateAborted,
	{StateConfiguringInputs, EventBackupNeeded}: StateBackingUp,
	{StateConfiguringInputs, EventConfigured}:   StateExecutingSteps,
	{StateConfiguringInputs, EventFatal}:        StateAborted,
	{StateBackingUp, EventBackedUp}:             StateExecutingSteps,
	{StateBackingUp, EventFatal}:                StateAborted,
	{StateExecutingSteps, EventCompleted}:       StateDone,
	{StateExecutingSteps, EventFatal}:           StateAborted,
}

// Transition returns the successor of state under event, or an error for
// an illegal pair.
func Transition(state State, event Event) (State, error) {
	next, ok := transitions[transitionKey{state, event}]
	if !ok {
		return state, fmt.Errorf("illegal transition: %s on %s", event, state)
	}
	return next, nil
}

// advance moves the installer's state machine, treating an illegal
// transition as a programming error.
func (i *Installer) advance(event Event) {
	next, err := Transition(i.state, event)
	if err != nil {
		panic(err)
	}
	slog.Debug("state transition", "from", i.state, "event", event, "to", next)
	i.state = next
}
