package config

import (
	"errors"
	"strings"
)

// Parse reads configuration content as JSONC layered over base. Catalog
// paths are kept as written.
func Parse(content string, base Config) (Config, []Warning, error) {
	return parse(content, base, "")
}

// parse is Parse with relative catalog paths from content anchored at dir.
// Paths inherited from base are never anchored.
func parse(content string, base Config, dir string) (Config, []Warning, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		validatedWarnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, validatedWarnings, nil
	}

	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "/*") {
		return Config{}, nil, errors.New("config must be a JSONC object")
	}
	return parseJSONC(content, base, dir)
}
