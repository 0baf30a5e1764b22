// Package dfa builds deterministic finite automata from the line-oriented
// automaton description format and evaluates byte strings against them.
package dfa

import "fmt"

// AlphabetSize is the number of distinct input symbols (one byte each).
const AlphabetSize = 256

// MaxStateCount bounds the number of user states one automaton may declare.
const MaxStateCount = 1 << 16

// Outcome is the verdict of running an automaton over an input.
type Outcome bool

const (
	Reject Outcome = false
	Accept Outcome = true
)

func (o Outcome) String() string {
	if o == Accept {
		return "ACCEPTED"
	}
	return "REJECTED"
}

// Transition is one explicit edge of an automaton.
type Transition struct {
	Origin      int
	Destination int
	Symbol      byte
}

// Automaton is a DFA over bytes with states 0..StateCount()-1 plus one
// implicit non-final sink state. State 0 is the start state.
type Automaton struct {
	stateCount int
	// next is a flat (stateCount+1) x AlphabetSize table.
	next  []uint32
	final []bool
}

// New allocates an automaton whose transitions all lead to the sink.
func New(stateCount int) (*Automaton, error) {
	if stateCount < 1 {
		return nil, fmt.Errorf("state count must be greater than 0, got %d", stateCount)
	}
	if stateCount > MaxStateCount {
		return nil, fmt.Errorf("state count %d exceeds maximum %d", stateCount, MaxStateCount)
	}

	sink := uint32(stateCount)
	next := make([]uint32, (stateCount+1)*AlphabetSize)
	for i := range next {
		next[i] = sink
	}

	return &Automaton{
		stateCount: stateCount,
		next:       next,
		final:      make([]bool, stateCount+1),
	}, nil
}

// StateCount returns the number of user-addressable states.
func (a *Automaton) StateCount() int { return a.stateCount }

// Sink returns the ID of the implicit rejecting state.
func (a *Automaton) Sink() int { return a.stateCount }

// MarkFinal marks a user state as accepting.
func (a *Automaton) MarkFinal(state int) {
	a.mustBeUserState(state)
	a.final[state] = true
}

// AddTransition routes symbol from origin to destination, replacing any
// previous route.
func (a *Automaton) AddTransition(origin, destination int, symbol byte) {
	a.mustBeUserState(origin)
	a.mustBeUserState(destination)
	a.next[origin*AlphabetSize+int(symbol)] = uint32(destination)
}

// Next returns the state reached from state on symbol.
func (a *Automaton) Next(state int, symbol byte) int {
	return int(a.next[state*AlphabetSize+int(symbol)])
}

// IsFinal reports whether state is accepting. The sink never is.
func (a *Automaton) IsFinal(state int) bool {
	if state < 0 || state >= len(a.final) {
		return false
	}
	return a.final[state]
}

// Run consumes the whole input from state 0.
func (a *Automaton) Run(input []byte) Outcome {
	current := 0
	for _, b := range input {
		current = int(a.next[current*AlphabetSize+int(b)])
	}
	return Outcome(a.final[current])
}

// RunString is Run over the bytes of s.
func (a *Automaton) RunString(s string) Outcome {
	current := 0
	for i := 0; i < len(s); i++ {
		current = int(a.next[current*AlphabetSize+int(s[i])])
	}
	return Outcome(a.final[current])
}

// FinalStates returns the accepting states in ascending order.
func (a *Automaton) FinalStates() []int {
	out := make([]int, 0)
	for state := 0; state < a.stateCount; state++ {
		if a.final[state] {
			out = append(out, state)
		}
	}
	return out
}

// Transitions lists every edge that does not lead to the sink, ordered by
// origin and then symbol.
func (a *Automaton) Transitions() []Transition {
	sink := uint32(a.stateCount)
	out := make([]Transition, 0)
	for origin := 0; origin < a.stateCount; origin++ {
		row := a.next[origin*AlphabetSize : (origin+1)*AlphabetSize]
		for symbol, dest := range row {
			if dest == sink {
				continue
			}
			out = append(out, Transition{Origin: origin, Destination: int(dest), Symbol: byte(symbol)})
		}
	}
	return out
}

func (a *Automaton) mustBeUserState(state int) {
	if state < 0 || state >= a.stateCount {
		panic(fmt.Sprintf("dfa: state %d outside 0..%d", state, a.stateCount-1))
	}
}
