package parser

import "fmt"

// Tag identifies the expectation that failed. Tags are machine-readable
// and stable; callers branch on them rather than on message text.
type Tag string

const (
	TagUnexpectedToken      Tag = "unexpected-token"
	TagUnexpectedEnd        Tag = "unexpected-end-of-input"
	TagTrailingInput        Tag = "trailing-input"
	TagExpectedOpenParen    Tag = "expected-opening-paren"
	TagExpectedCloseParen   Tag = "expected-closing-paren"
	TagExpectedOpenBracket  Tag = "expected-opening-bracket"
	TagExpectedCloseBracket Tag = "expected-closing-bracket"
	TagExpectedCloseBrace   Tag = "expected-closing-brace"
	TagExpectedCloseAngle   Tag = "expected-closing-angle"
	TagExpectedCloseBar     Tag = "expected-closing-bar"
	TagWrongArgCount        Tag = "wrong-argument-count"
)

var tagMessages = map[Tag]string{
	TagUnexpectedToken:      "unexpected token",
	TagUnexpectedEnd:        "unexpected end of input",
	TagTrailingInput:        "trailing input after complete expression",
	TagExpectedOpenParen:    "expected '('",
	TagExpectedCloseParen:   "expected ')'",
	TagExpectedOpenBracket:  "expected '['",
	TagExpectedCloseBracket: "expected ']'",
	TagExpectedCloseBrace:   "expected '}'",
	TagExpectedCloseAngle:   "expected '>'",
	TagExpectedCloseBar:     "expected closing '|'",
	TagWrongArgCount:        "wrong argument count",
}

// SyntaxError reports a grammar violation. Parsing aborts at the first
// failure; no partial tree is returned and nothing is retried.
type SyntaxError struct {
	Tag Tag
	Got string // description of the offending token, may be empty
}

func (e *SyntaxError) Error() string {
	msg, ok := tagMessages[e.Tag]
	if !ok {
		msg = string(e.Tag)
	}
	if e.Got != "" {
		return fmt.Sprintf("syntax error: %s, got %s", msg, e.Got)
	}
	return "syntax error: " + msg
}
