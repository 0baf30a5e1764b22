package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

type jsoncConfig struct {
	Automata map[string]string `json:"automata"`
	Default  *string           `json:"default"`
	Serve    *jsoncServe       `json:"serve"`
	Log      *jsoncLog         `json:"log"`
}

type jsoncServe struct {
	Address       *string `json:"address"`
	DialTimeoutMS *int    `json:"dial_timeout_ms"`
}

type jsoncLog struct {
	Level *string `json:"level"`
}

func parseJSONC(content string, base Config, dir string) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	warnings := payload.applyTo(&cfg, dir)

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validatedWarnings...)
	return cfg, warnings, nil
}

// applyTo overlays the payload on cfg. A provided automata object replaces
// the whole catalog; its relative paths are anchored at dir when set.
func (payload jsoncConfig) applyTo(cfg *Config, dir string) []Warning {
	warnings := make([]Warning, 0)

	if payload.Automata != nil {
		cfg.Automata = make(map[string]string, len(payload.Automata))
		for slot, path := range payload.Automata {
			cfg.Automata[strings.TrimSpace(slot)] = anchorPath(strings.TrimSpace(path), dir)
		}
	}

	if payload.Default != nil {
		cfg.Default = strings.TrimSpace(*payload.Default)
	} else if _, ok := cfg.Automata[cfg.Default]; !ok && len(cfg.Automata) > 0 {
		previous := cfg.Default
		cfg.Default = cfg.Slots()[0]
		warnings = append(warnings, Warning{Message: fmt.Sprintf("default slot %q not in automata; using %q", previous, cfg.Default)})
	}

	if payload.Serve != nil {
		if payload.Serve.Address != nil {
			cfg.Serve.Address = strings.TrimSpace(*payload.Serve.Address)
		}
		if payload.Serve.DialTimeoutMS != nil {
			cfg.Serve.DialTimeoutMS = *payload.Serve.DialTimeoutMS
		}
	}

	if payload.Log != nil && payload.Log.Level != nil {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(*payload.Log.Level))
	}

	return warnings
}

func anchorPath(path, dir string) string {
	if dir == "" || path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// normalizeJSONC blanks out comments and trailing commas so the result is
// plain JSON with every byte at its original offset.
func normalizeJSONC(content string) (string, error) {
	buf := []byte(content)

	inString := false
	escape := false
	for i := 0; i < len(buf); i++ {
		ch := buf[i]
		switch {
		case inString:
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == '/' && i+1 < len(buf) && buf[i+1] == '/':
			for i < len(buf) && buf[i] != '\n' && buf[i] != '\r' {
				buf[i] = ' '
				i++
			}
		case ch == '/' && i+1 < len(buf) && buf[i+1] == '*':
			end := bytes.Index(buf[i+2:], []byte("*/"))
			if end < 0 {
				return "", errors.New("unterminated block comment in JSONC")
			}
			stop := i + 2 + end + 2
			blank(buf[i:stop])
			i = stop - 1
		}
	}

	blankTrailingCommas(buf)
	return string(buf), nil
}

func blankTrailingCommas(buf []byte) {
	inString := false
	escape := false
	for i := 0; i < len(buf); i++ {
		ch := buf[i]
		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case ',':
			j := i + 1
			for j < len(buf) && isJSONWhitespace(buf[j]) {
				j++
			}
			if j < len(buf) && (buf[j] == '}' || buf[j] == ']') {
				buf[i] = ' '
			}
		}
	}
}

// blank replaces everything but line structure with spaces.
func blank(b []byte) {
	for i, ch := range b {
		if ch != '\n' && ch != '\r' && ch != '\t' {
			b[i] = ' '
		}
	}
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
