package fsm

import "fmt"

type State string

type Event string

const (
	StateMenu   State = "menu"
	StateSelect State = "select"
	StateWord   State = "word"
	StateQuit   State = "quit"
)

const (
	EventSwitch   Event = "switch"
	EventWord     Event = "word"
	EventContinue Event = "continue"
	EventQuit     Event = "quit"
)

func Transition(current State, event Event) (State, error) {
	if event == EventQuit {
		if current == StateQuit {
			return current, invalidTransition(current, event)
		}
		return StateQuit, nil
	}

	switch current {
	case StateMenu:
		switch event {
		case EventSwitch:
			return StateSelect, nil
		case EventWord:
			return StateWord, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSelect, StateWord:
		switch event {
		case EventContinue:
			return StateMenu, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateQuit:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
