package dfa

// lineScanner walks one description line byte by byte. Whitespace follows
// the POSIX class: space, \t, \n, \v, \f and \r.
type lineScanner struct {
	src string
	pos int
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

func isBlank(line string) bool {
	for i := 0; i < len(line); i++ {
		if !isSpace(line[i]) {
			return false
		}
	}
	return true
}

func (s *lineScanner) skipSpace() {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

func (s *lineScanner) atEnd() bool { return s.pos >= len(s.src) }

// digits consumes a maximal run of digits; ok is false when there is none.
func (s *lineScanner) digits() (string, bool) {
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos], s.pos > start
}

func (s *lineScanner) literal(tok string) bool {
	if len(s.src)-s.pos < len(tok) || s.src[s.pos:s.pos+len(tok)] != tok {
		return false
	}
	s.pos += len(tok)
	return true
}

// symbol consumes exactly one non-whitespace byte.
func (s *lineScanner) symbol() (byte, bool) {
	if s.atEnd() || isSpace(s.src[s.pos]) {
		return 0, false
	}
	b := s.src[s.pos]
	s.pos++
	return b, true
}

// matchStateCount accepts `ws* digits ws*`.
func matchStateCount(line string) (string, bool) {
	s := lineScanner{src: line}
	s.skipSpace()
	num, ok := s.digits()
	if !ok {
		return "", false
	}
	s.skipSpace()
	return num, s.atEnd()
}

// matchNone accepts `ws* NONE ws*`.
func matchNone(line string) bool {
	s := lineScanner{src: line}
	s.skipSpace()
	if !s.literal("NONE") {
		return false
	}
	s.skipSpace()
	return s.atEnd()
}

// matchFinalStates accepts a line of whitespace-separated digit runs and
// returns the runs in order.
func matchFinalStates(line string) ([]string, bool) {
	s := lineScanner{src: line}
	var tokens []string
	for {
		s.skipSpace()
		if s.atEnd() {
			break
		}
		num, ok := s.digits()
		if !ok {
			return nil, false
		}
		tokens = append(tokens, num)
	}
	return tokens, len(tokens) > 0
}

type transitionMatch struct {
	origin      string
	destination string
	symbol      byte
}

// matchTransition accepts `ws* digits ws* -> ws* digits ws* : ws* sym ws*`.
func matchTransition(line string) (transitionMatch, bool) {
	var m transitionMatch
	var ok bool

	s := lineScanner{src: line}
	s.skipSpace()
	if m.origin, ok = s.digits(); !ok {
		return transitionMatch{}, false
	}
	s.skipSpace()
	if !s.literal("->") {
		return transitionMatch{}, false
	}
	s.skipSpace()
	if m.destination, ok = s.digits(); !ok {
		return transitionMatch{}, false
	}
	s.skipSpace()
	if !s.literal(":") {
		return transitionMatch{}, false
	}
	s.skipSpace()
	if m.symbol, ok = s.symbol(); !ok {
		return transitionMatch{}, false
	}
	s.skipSpace()
	if !s.atEnd() {
		return transitionMatch{}, false
	}
	return m, true
}

// hasLeadingZero reports whether a digit run is anything other than "0" or
// a number starting with a nonzero digit.
func hasLeadingZero(num string) bool {
	return len(num) > 1 && num[0] == '0'
}
