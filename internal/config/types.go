// Package config resolves, parses, validates, and defaults dfarun configuration.
package config

import (
	"sort"
	"strconv"
)

// Config is the fully materialized runtime configuration used by dfarun.
type Config struct {
	// Automata maps a catalog slot name to an automaton description file.
	Automata map[string]string
	Default  string
	Serve    ServeConfig
	Log      LogConfig
}

// ServeConfig controls the gRPC evaluation endpoint.
type ServeConfig struct {
	Address       string
	DialTimeoutMS int
}

// LogConfig controls runtime log verbosity.
type LogConfig struct {
	Level string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}

// Slots returns catalog slot names, numeric names first in numeric order.
func (c Config) Slots() []string {
	slots := make([]string, 0, len(c.Automata))
	for slot := range c.Automata {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		ni, errI := strconv.Atoi(slots[i])
		nj, errJ := strconv.Atoi(slots[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return slots[i] < slots[j]
		}
	})
	return slots
}

// AutomatonPath returns the description file registered for slot.
func (c Config) AutomatonPath(slot string) (string, bool) {
	path, ok := c.Automata[slot]
	return path, ok
}
