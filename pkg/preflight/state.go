package preflight

import (
	"fmt"
	"time"
)

// State is a preflight workflow state.
type State string

// Workflow states. Ready and Blocked are terminal.
const (
	StateInit              State = "init"
	StateCheckingProviders State = "checking_providers"
	StateScored            State = "scored"
	StateReady             State = "ready"
	StateBlocked           State = "blocked"
)

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateReady || s == StateBlocked
}

// Transition is one recorded state change.
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
}

var allowed = map[State][]State{
	StateInit:              {StateCheckingProviders},
	StateCheckingProviders: {StateScored},
	StateScored:            {StateReady, StateBlocked},
}

// machine tracks one run. It is not safe for concurrent use; a run
// drives it from a single goroutine.
type machine struct {
	state   State
	history []Transition
	now     func() time.Time
}

func newMachine(now func() time.Time) *machine {
	return &machine{state: StateInit, now: now}
}

func (m *machine) to(next State) error {
	for _, s := range allowed[m.state] {
		if s == next {
			m.history = append(m.history, Transition{From: m.state, To: next, At: m.now()})
			m.state = next
			return nil
		}
	}
	return fmt.Errorf("invalid preflight transition %s -> %s", m.state, next)
}
