package lexer

// Scanner performs lexical analysis on expression source.
// Lexing is total: every character is either whitespace, a delimiter,
// or accumulates into the current token, so scanning cannot fail.
type Scanner struct {
	source string
	cursor int
	start  int // start of the accumulating token, -1 when none
	tokens []Token
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source string) *Scanner {
	return &Scanner{source: source, start: -1}
}

// Tokenize scans source into its token sequence, terminated by EOS.
func Tokenize(source string) []Token {
	return NewScanner(source).Scan()
}

// Scan runs the scanner over the whole source and returns the tokens.
func (s *Scanner) Scan() []Token {
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]
		switch {
		case isSpace(ch):
			s.flush()
			s.cursor++
		case isDelimiter(ch):
			s.flush()
			if isCompound(ch, s.peek()) {
				s.emit(s.source[s.cursor : s.cursor+2])
				s.cursor += 2
			} else {
				s.emit(s.source[s.cursor : s.cursor+1])
				s.cursor++
			}
		default:
			// Identifiers, numerals and keywords accumulate here.
			// Shape validation happens later via Token predicates.
			if s.start < 0 {
				s.start = s.cursor
			}
			s.cursor++
		}
	}
	s.flush()
	s.tokens = append(s.tokens, EOS)
	return s.tokens
}

// flush emits the pending accumulated token, if any.
func (s *Scanner) flush() {
	if s.start < 0 {
		return
	}
	s.emit(s.source[s.start:s.cursor])
	s.start = -1
}

func (s *Scanner) emit(text string) {
	s.tokens = append(s.tokens, Token(text))
}

func (s *Scanner) peek() byte {
	if s.cursor+1 >= len(s.source) {
		return 0
	}
	return s.source[s.cursor+1]
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '(', ')', '^', '{', '}', ',', '|', '[', ']', '<', '>', '=', '!', '&', '@':
		return true
	}
	return false
}

// isCompound reports whether the delimiter ch merges with the following
// character into a two-character operator: && || >= <= == != @@.
func isCompound(ch, next byte) bool {
	switch ch {
	case '&', '|', '@':
		return next == ch
	case '<', '>', '=', '!':
		return next == '='
	}
	return false
}
