package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	s := StateMenu

	next, err := Transition(s, EventSwitch)
	require.NoError(t, err)
	require.Equal(t, StateSelect, next)

	next, err = Transition(next, EventContinue)
	require.NoError(t, err)
	require.Equal(t, StateMenu, next)

	next, err = Transition(next, EventWord)
	require.NoError(t, err)
	require.Equal(t, StateWord, next)

	next, err = Transition(next, EventContinue)
	require.NoError(t, err)
	require.Equal(t, StateMenu, next)
}

func TestTransitionQuitFromAnyLiveState(t *testing.T) {
	states := []State{StateMenu, StateSelect, StateWord}
	for _, state := range states {
		next, err := Transition(state, EventQuit)
		require.NoError(t, err)
		require.Equal(t, StateQuit, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		wantErr bool
	}{
		{name: "menu continue invalid", state: StateMenu, event: EventContinue, want: StateMenu, wantErr: true},
		{name: "select switch invalid", state: StateSelect, event: EventSwitch, want: StateSelect, wantErr: true},
		{name: "select word invalid", state: StateSelect, event: EventWord, want: StateSelect, wantErr: true},
		{name: "word switch invalid", state: StateWord, event: EventSwitch, want: StateWord, wantErr: true},
		{name: "word word invalid", state: StateWord, event: EventWord, want: StateWord, wantErr: true},
		{name: "quit switch invalid", state: StateQuit, event: EventSwitch, want: StateQuit, wantErr: true},
		{name: "quit quit invalid", state: StateQuit, event: EventQuit, want: StateQuit, wantErr: true},
		{name: "word continue valid", state: StateWord, event: EventContinue, want: StateMenu, wantErr: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.want, next)
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "invalid transition")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventSwitch)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}
