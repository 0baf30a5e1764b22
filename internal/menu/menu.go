// Package menu runs the interactive terminal loop: pick an automaton from
// the catalog, type words, see whether they are accepted.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rbright/dfarun/internal/dfa"
	"github.com/rbright/dfarun/internal/fsm"
	"github.com/rbright/dfarun/internal/logging"
)

const clearScreen = "\x1b[1;1H\x1b[2J"

// Loader resolves a catalog slot to a freshly built automaton.
type Loader interface {
	Load(slot string) (*dfa.Automaton, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(slot string) (*dfa.Automaton, error)

func (f LoaderFunc) Load(slot string) (*dfa.Automaton, error) {
	return f(slot)
}

// Session is one interactive run. It is not safe for concurrent use and
// Run may be called only once.
type Session struct {
	in     *bufio.Reader
	lines  chan lineResult
	out    io.Writer
	loader Loader
	slots  []string
	logger *slog.Logger

	state     fsm.State
	selected  string
	automaton *dfa.Automaton
	badOption bool
}

type lineResult struct {
	text string
	err  error
}

// New builds a session reading choices from in and drawing on out.
func New(in io.Reader, out io.Writer, loader Loader, slots []string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{
		in:     bufio.NewReader(in),
		out:    out,
		loader: loader,
		slots:  append([]string(nil), slots...),
		logger: logger,
		state:  fsm.StateMenu,
	}
}

// Selected returns the slot shown as the current automaton.
func (s *Session) Selected() string { return s.selected }

// Run loads the initial slot and loops until the user quits, input ends, or
// ctx is cancelled. Cancellation also interrupts a pending prompt.
func (s *Session) Run(ctx context.Context, initial string) error {
	stop := make(chan struct{})
	defer close(stop)
	s.lines = make(chan lineResult)
	go s.pumpLines(s.lines, stop)

	s.selected = initial
	if automaton, err := s.load(initial); err != nil {
		fmt.Fprintf(s.out, "%v\n", err)
	} else {
		s.automaton = automaton
	}

	for s.state != fsm.StateQuit {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			event fsm.Event
			err   error
		)
		switch s.state {
		case fsm.StateMenu:
			event, err = s.menu(ctx)
		case fsm.StateSelect:
			event, err = s.switchAutomaton(ctx)
		case fsm.StateWord:
			event, err = s.evaluateWord(ctx)
		}
		if errors.Is(err, io.EOF) {
			event, err = fsm.EventQuit, nil
		}
		if err != nil {
			return err
		}
		if event == "" {
			continue
		}

		next, err := fsm.Transition(s.state, event)
		if err != nil {
			return err
		}
		s.logger.Debug("menu transition", "from", s.state, "event", event, "to", next)
		s.state = next
	}
	return nil
}

// menu draws the option list and maps the answer to an event. An invalid
// answer redraws the menu with a notice and yields no event.
func (s *Session) menu(ctx context.Context) (fsm.Event, error) {
	fmt.Fprint(s.out, clearScreen)
	if s.badOption {
		fmt.Fprint(s.out, "\nBad option... try again\n\n")
	}
	fmt.Fprintf(s.out,
		"Options:\n"+
			"1 -- switch DFA\n"+
			"2 -- enter a word\n"+
			"3 -- quit\n"+
			"\n"+
			"  Currently selected DFA: #%s\n"+
			"> ",
		s.selected,
	)

	choice, err := s.readLine(ctx)
	if err != nil {
		return "", err
	}

	s.badOption = false
	switch strings.TrimSpace(choice) {
	case "1":
		return fsm.EventSwitch, nil
	case "2":
		return fsm.EventWord, nil
	case "3":
		return fsm.EventQuit, nil
	default:
		s.badOption = true
		return "", nil
	}
}

func (s *Session) switchAutomaton(ctx context.Context) (fsm.Event, error) {
	fmt.Fprint(s.out, clearScreen)
	fmt.Fprintf(s.out, "Select DFA (%s): ", listSlots(s.slots))

	choice, err := s.readLine(ctx)
	if err != nil {
		return "", err
	}

	slot := strings.TrimSpace(choice)
	if !s.hasSlot(slot) {
		fmt.Fprint(s.out, "\nInvalid selection...\n")
	} else if automaton, err := s.load(slot); err != nil {
		fmt.Fprintf(s.out, "\n%v\n", err)
		fmt.Fprint(s.out, "\nLoading new DFA failed...\n")
	} else {
		s.selected = slot
		s.automaton = automaton
		fmt.Fprint(s.out, "\nSuccessfully loaded... \n")
	}

	fmt.Fprint(s.out, "\n\nPress ENTER to continue... ")
	if _, err := s.readLine(ctx); err != nil {
		return "", err
	}
	return fsm.EventContinue, nil
}

func (s *Session) evaluateWord(ctx context.Context) (fsm.Event, error) {
	fmt.Fprint(s.out, clearScreen)
	fmt.Fprint(s.out, "Enter your word: ")

	word, err := s.readLine(ctx)
	if err != nil {
		return "", err
	}

	if s.automaton == nil {
		fmt.Fprint(s.out, "\n\nNo DFA loaded...\n")
	} else {
		outcome := s.automaton.RunString(word)
		s.logger.Info("word evaluated", "slot", s.selected, "length", len(word), "outcome", outcome.String())
		fmt.Fprintf(s.out, "\n\nWord %q is %s by the DFA...\n", word, outcome)
	}

	fmt.Fprint(s.out, "\nPress ENTER to continue...  ")
	if _, err := s.readLine(ctx); err != nil {
		return "", err
	}
	return fsm.EventContinue, nil
}

func (s *Session) load(slot string) (*dfa.Automaton, error) {
	automaton, err := s.loader.Load(slot)
	if err != nil {
		s.logger.Warn("automaton load failed", "slot", slot, "error", err.Error())
		return nil, err
	}
	s.logger.Info("automaton loaded", "slot", slot, "states", automaton.StateCount())
	return automaton, nil
}

func (s *Session) hasSlot(slot string) bool {
	for _, candidate := range s.slots {
		if candidate == slot {
			return true
		}
	}
	return false
}

// readLine waits for the next input line or for ctx to end.
func (s *Session) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}

// pumpLines forwards input lines to lines until input fails or stop closes.
// A read blocked on input outlives Run until that input ends.
func (s *Session) pumpLines(lines chan<- lineResult, stop <-chan struct{}) {
	defer close(lines)
	for {
		text, err := s.readRawLine()
		select {
		case lines <- lineResult{text: text, err: err}:
		case <-stop:
			return
		}
		if err != nil {
			return
		}
	}
}

// readRawLine returns one line without its terminator. A final unterminated
// line is returned before io.EOF is reported.
func (s *Session) readRawLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// listSlots renders slots as "1, 2 or 3".
func listSlots(slots []string) string {
	switch len(slots) {
	case 0:
		return "none"
	case 1:
		return slots[0]
	default:
		return strings.Join(slots[:len(slots)-1], ", ") + " or " + slots[len(slots)-1]
	}
}
