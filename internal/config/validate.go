package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"
)

var logLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if len(cfg.Automata) == 0 {
		return nil, fmt.Errorf("automata must not be empty")
	}

	seen := make(map[string]string, len(cfg.Automata))
	for _, slot := range cfg.Slots() {
		path := cfg.Automata[slot]
		if slot == "" {
			return nil, fmt.Errorf("automata contains an empty slot name")
		}
		if strings.ContainsAny(slot, " \t\r\n") {
			return nil, fmt.Errorf("automata slot %q must not contain whitespace", slot)
		}
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("automata.%s must not be empty", slot)
		}
		clean := filepath.Clean(path)
		if other, ok := seen[clean]; ok {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("slots %q and %q point to the same file %q", other, slot, path)})
			continue
		}
		seen[clean] = slot
	}

	if _, ok := cfg.Automata[cfg.Default]; !ok {
		return nil, fmt.Errorf("default slot %q is not defined in automata", cfg.Default)
	}

	if strings.TrimSpace(cfg.Serve.Address) == "" {
		return nil, fmt.Errorf("serve.address must not be empty")
	}
	if !validServeAddress(cfg.Serve.Address) {
		return nil, fmt.Errorf("serve.address must be host:port or unix:<path>, got %q", cfg.Serve.Address)
	}
	if cfg.Serve.DialTimeoutMS <= 0 {
		return nil, fmt.Errorf("serve.dial_timeout_ms must be > 0")
	}

	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	return warnings, nil
}

// validServeAddress accepts host:port or unix:<path>.
func validServeAddress(address string) bool {
	if path, ok := strings.CutPrefix(address, "unix:"); ok {
		return strings.TrimLeft(path, "/") != ""
	}
	_, port, err := net.SplitHostPort(address)
	return err == nil && port != ""
}
