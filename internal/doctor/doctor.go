// Package doctor runs readiness diagnostics for config and the automaton catalog.
package doctor

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/rbright/dfarun/internal/config"
	"github.com/rbright/dfarun/internal/dfa"
	"github.com/rbright/dfarun/internal/evalrpc"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes config and catalog checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	message := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		message = fmt.Sprintf("using defaults (%q not found)", cfg.Path)
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: message})

	for _, slot := range cfg.Config.Slots() {
		checks = append(checks, checkAutomaton(slot, cfg.Config.Automata[slot]))
	}

	checks = append(checks, checkDefaultSlot(cfg.Config))
	checks = append(checks, checkServeAddress(cfg.Config.Serve.Address))

	return Report{Checks: checks}
}

// checkAutomaton loads one catalog file and summarizes it.
func checkAutomaton(slot, path string) Check {
	name := "automaton." + slot
	automaton, err := dfa.LoadFile(path)
	if err != nil {
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("%s (%s)", Summary(automaton), path)}
}

func checkDefaultSlot(cfg config.Config) Check {
	if _, ok := cfg.AutomatonPath(cfg.Default); !ok {
		return Check{Name: "default", Pass: false, Message: fmt.Sprintf("slot %q is not in the catalog", cfg.Default)}
	}
	return Check{Name: "default", Pass: true, Message: fmt.Sprintf("slot %q", cfg.Default)}
}

func checkServeAddress(address string) Check {
	if path, ok := evalrpc.UnixSocketPath(address); ok {
		if _, err := os.Stat(filepath.Dir(path)); err != nil {
			return Check{Name: "serve.address", Pass: false, Message: fmt.Sprintf("socket directory: %v", err)}
		}
		return Check{Name: "serve.address", Pass: true, Message: address}
	}
	if _, _, err := net.SplitHostPort(address); err != nil {
		return Check{Name: "serve.address", Pass: false, Message: err.Error()}
	}
	return Check{Name: "serve.address", Pass: true, Message: address}
}

// Summary renders the shape of an automaton in one line.
func Summary(a *dfa.Automaton) string {
	return fmt.Sprintf("%d states, %d final, %d transitions", a.StateCount(), len(a.FinalStates()), len(a.Transitions()))
}
