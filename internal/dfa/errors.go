package dfa

import "fmt"

const errorPrefix = "error while reading DFA"

const (
	reasonLeadingZeroes = "the number should not have leading zeroes"
	reasonNotPositive   = "must be greater than 0"
)

// reasonOverLimit rejects counts this implementation will not allocate; the
// format itself puts no upper bound on the number of states.
var reasonOverLimit = fmt.Sprintf("exceeds the implementation limit of %d states", MaxStateCount)

// LineSyntaxError reports a non-blank line that does not have the shape the
// current phase expects.
type LineSyntaxError struct {
	Line     int
	Text     string
	Expected string
}

func (e *LineSyntaxError) Error() string {
	return fmt.Sprintf("%s on line #%d: could not interpret line %q; expected %s", errorPrefix, e.Line, e.Text, e.Expected)
}

// NumberFormatError reports a numeric token with leading zeroes or an
// unacceptable state count.
type NumberFormatError struct {
	Line    int
	Text    string
	Purpose string
	Reason  string
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("%s on line #%d: bad number %q for %s: %s", errorPrefix, e.Line, e.Text, e.Purpose, e.Reason)
}

// OutOfBoundsError reports a state ID outside 0..StateCount-1.
type OutOfBoundsError struct {
	Line       int
	State      uint64
	StateCount int
}

// ValidRange renders the accepted state IDs.
func (e *OutOfBoundsError) ValidRange() string {
	if e.StateCount == 1 {
		return "0"
	}
	return fmt.Sprintf("0 to %d", e.StateCount-1)
}

func (e *OutOfBoundsError) Error() string {
	explanation := fmt.Sprintf("Valid state IDs are numbers from %s (inclusive)", e.ValidRange())
	if e.StateCount == 1 {
		explanation = "Only valid state ID is 0"
	}
	return fmt.Sprintf("%s on line #%d: state %d is out of bounds. %s", errorPrefix, e.Line, e.State, explanation)
}

// DuplicateFinalStateError reports a state listed twice on the final states line.
type DuplicateFinalStateError struct {
	Line  int
	State int
}

func (e *DuplicateFinalStateError) Error() string {
	return fmt.Sprintf(
		"%s on line %d: while reading final states it was detected that state with ID %d repeats. Please ensure that there are no repeating final state IDs.",
		errorPrefix, e.Line, e.State,
	)
}

// ConflictingTransitionError reports two transitions that leave the same
// origin on the same symbol for different destinations.
type ConflictingTransitionError struct {
	FirstLine         int
	SecondLine        int
	Origin            int
	Symbol            byte
	FirstDestination  int
	SecondDestination int
}

func (e *ConflictingTransitionError) Error() string {
	return fmt.Sprintf(
		"%s: while reading transitions a conflict was detected. "+
			"Transitions defined on lines %d and %d are conflicting. "+
			"They have the same origin state %d and transition letter '%s', "+
			"but differing destination states: namely %d and %d.",
		errorPrefix,
		e.FirstLine, e.SecondLine,
		e.Origin, string([]byte{e.Symbol}),
		e.FirstDestination, e.SecondDestination,
	)
}

// IncompleteError reports input that ended before an automaton could be
// built. Loaders return it; a Reader never latches it.
type IncompleteError struct {
	Phase Phase
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: unexpected end of input; expected %s", errorPrefix, e.Phase)
}
