package dfa

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read feeds r line by line into a fresh Reader and finalizes it. Lines are
// split on '\n' with no length limit. Reading stops at the first
// description error.
func Read(r io.Reader) (*Automaton, error) {
	reader := NewReader()
	br := bufio.NewReader(r)

	for !reader.HasError() {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read automaton description: %w", err)
		}

		if errors.Is(err, io.EOF) {
			if line != "" {
				reader.Feed(line)
			}
			break
		}
		reader.Feed(strings.TrimSuffix(line, "\n"))
	}

	if err := reader.Err(); err != nil {
		return nil, err
	}
	automaton, ok := reader.Finalize()
	if !ok {
		return nil, &IncompleteError{Phase: reader.Phase()}
	}
	return automaton, nil
}

// LoadFile reads the automaton description stored at path. Failing to open
// the file is reported separately from description errors and keeps
// fs.ErrNotExist matchable.
func LoadFile(path string) (*Automaton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open automaton file %q: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}
