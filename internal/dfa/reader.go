package dfa

import (
	"math"
	"strconv"
)

// Phase is the section of the description a Reader expects next.
type Phase int

const (
	PhaseStateCount Phase = iota
	PhaseFinalStates
	PhaseTransitions
)

func (p Phase) String() string {
	switch p {
	case PhaseStateCount:
		return "number of states"
	case PhaseFinalStates:
		return "final states descriptor"
	case PhaseTransitions:
		return "a valid transition descriptor"
	default:
		return "unknown phase " + strconv.Itoa(int(p))
	}
}

// transitionFact is an accepted transition together with the line that
// declared it.
type transitionFact struct {
	Transition
	line int
}

// Reader consumes an automaton description one line at a time. The first
// error is latched: after it every Feed is ignored and Err keeps returning it.
//
// A description is a state count line, a final states line ("NONE" or state
// IDs) and any number of "origin -> destination : symbol" lines. Blank lines
// are ignored everywhere.
type Reader struct {
	phase      Phase
	line       int
	stateCount int

	finalStates []int
	transitions []transitionFact

	err error
}

// NewReader returns a Reader expecting the state count line.
func NewReader() *Reader {
	return &Reader{phase: PhaseStateCount}
}

// Feed consumes one line, without its trailing newline.
func (r *Reader) Feed(line string) {
	if r.err != nil {
		return
	}

	r.line++
	if isBlank(line) {
		return
	}

	switch r.phase {
	case PhaseStateCount:
		r.err = r.readStateCount(line)
	case PhaseFinalStates:
		r.err = r.readFinalStates(line)
	case PhaseTransitions:
		r.err = r.readTransition(line)
	}
}

// HasError reports whether an error has been latched.
func (r *Reader) HasError() bool { return r.err != nil }

// Err returns the latched error, or nil.
func (r *Reader) Err() error { return r.err }

// CanFinalize reports whether the lines read so far describe an automaton.
func (r *Reader) CanFinalize() bool {
	return r.err == nil && r.phase == PhaseTransitions
}

// Finalize builds a new automaton from the lines read so far. It returns
// false when CanFinalize does. The reader is left untouched.
func (r *Reader) Finalize() (*Automaton, bool) {
	if !r.CanFinalize() {
		return nil, false
	}

	a, err := New(r.stateCount)
	if err != nil {
		return nil, false
	}
	for _, state := range r.finalStates {
		a.MarkFinal(state)
	}
	for _, t := range r.transitions {
		a.AddTransition(t.Origin, t.Destination, t.Symbol)
	}
	return a, true
}

func (r *Reader) Phase() Phase { return r.phase }

// Line returns the number of lines fed so far, blank ones included.
func (r *Reader) Line() int { return r.line }

func (r *Reader) StateCount() int { return r.stateCount }

func (r *Reader) FinalStates() []int {
	return append([]int(nil), r.finalStates...)
}

// Transitions returns the accepted transitions in declaration order,
// duplicates removed.
func (r *Reader) Transitions() []Transition {
	out := make([]Transition, 0, len(r.transitions))
	for _, t := range r.transitions {
		out = append(out, t.Transition)
	}
	return out
}

func (r *Reader) readStateCount(line string) error {
	num, ok := matchStateCount(line)
	if !ok {
		return &LineSyntaxError{Line: r.line, Text: line, Expected: PhaseStateCount.String()}
	}

	const purpose = "number of states"
	if hasLeadingZero(num) {
		return &NumberFormatError{Line: r.line, Text: num, Purpose: purpose, Reason: reasonLeadingZeroes}
	}
	count := parseStateID(num)
	if count == 0 {
		return &NumberFormatError{Line: r.line, Text: num, Purpose: purpose, Reason: reasonNotPositive}
	}
	if count > MaxStateCount {
		return &NumberFormatError{Line: r.line, Text: num, Purpose: purpose, Reason: reasonOverLimit}
	}

	r.stateCount = int(count)
	r.phase = PhaseFinalStates
	return nil
}

func (r *Reader) readFinalStates(line string) error {
	if matchNone(line) {
		r.phase = PhaseTransitions
		return nil
	}

	tokens, ok := matchFinalStates(line)
	if !ok {
		return &LineSyntaxError{Line: r.line, Text: line, Expected: PhaseFinalStates.String()}
	}

	states := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		state, err := r.stateID(tok, "final state")
		if err != nil {
			return err
		}
		states = append(states, state)
	}

	if dup, found := firstRepeated(states); found {
		return &DuplicateFinalStateError{Line: r.line, State: dup}
	}

	r.finalStates = states
	r.phase = PhaseTransitions
	return nil
}

func (r *Reader) readTransition(line string) error {
	m, ok := matchTransition(line)
	if !ok {
		return &LineSyntaxError{Line: r.line, Text: line, Expected: PhaseTransitions.String()}
	}

	origin, err := r.stateID(m.origin, "origin state of transition")
	if err != nil {
		return err
	}
	destination, err := r.stateID(m.destination, "destination state of transition")
	if err != nil {
		return err
	}

	fact := transitionFact{
		Transition: Transition{Origin: origin, Destination: destination, Symbol: m.symbol},
		line:       r.line,
	}

	for _, prev := range r.transitions {
		if prev.Origin != fact.Origin || prev.Symbol != fact.Symbol {
			continue
		}
		if prev.Destination != fact.Destination {
			return &ConflictingTransitionError{
				FirstLine:         prev.line,
				SecondLine:        fact.line,
				Origin:            fact.Origin,
				Symbol:            fact.Symbol,
				FirstDestination:  prev.Destination,
				SecondDestination: fact.Destination,
			}
		}
		return nil
	}

	r.transitions = append(r.transitions, fact)
	return nil
}

// stateID validates a digit run naming a user state.
func (r *Reader) stateID(num string, purpose string) (int, error) {
	if hasLeadingZero(num) {
		return 0, &NumberFormatError{Line: r.line, Text: num, Purpose: purpose, Reason: reasonLeadingZeroes}
	}
	id := parseStateID(num)
	if id >= uint64(r.stateCount) {
		return 0, &OutOfBoundsError{Line: r.line, State: id, StateCount: r.stateCount}
	}
	return int(id), nil
}

// parseStateID converts a digit run, saturating at MaxUint64.
func parseStateID(num string) uint64 {
	v, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return math.MaxUint64
	}
	return v
}

// firstRepeated returns the earliest listed value that occurs more than once.
func firstRepeated(values []int) (int, bool) {
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	for _, v := range values {
		if counts[v] > 1 {
			return v, true
		}
	}
	return 0, false
}
