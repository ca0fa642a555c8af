package lexer

// EOS is the end-of-stream sentinel appended after the last real token.
// NUL cannot appear in valid input.
const EOS Token = "\x00"

// Token is a slice of source text. Tokens carry no stored type tag;
// classification is recomputed on demand through the predicate methods.
type Token string

// arity lists the built-in function names by required argument count.
// Index 3 is reserved and currently empty. The table is fixed at
// initialization and read-only afterwards, so concurrent parses may
// share it freely.
var arity = [5][]Token{
	0: {"zeros", "ones", "id", "rand"},
	1: {
		"sin", "cos", "tan", "asin", "acos", "atan",
		"exp", "ln", "sqrt", "abs", "sgn", "floor", "round",
		"det", "transpose", "norm", "re", "im", "conj",
	},
	2: {"log", "mod", "gcd", "binom", "cross"},
	3: {},
	4: {"sum", "prod"},
}

// IsEOS reports whether t is the end-of-stream sentinel.
func (t Token) IsEOS() bool { return t == EOS }

// IsBool reports whether t is a boolean literal.
func (t Token) IsBool() bool { return t == "true" || t == "false" }

// IsInfinity reports whether t is the infinity literal.
func (t Token) IsInfinity() bool { return t == "inf" }

// IsConstant reports whether t names a built-in irrational constant.
func (t Token) IsConstant() bool { return t == "pi" || t == "e" }

// IsIdentifier reports whether t has identifier shape: an alphabetic
// first character followed by alphanumerics.
func (t Token) IsIdentifier() bool {
	if len(t) == 0 || !isAlpha(t[0]) {
		return false
	}
	for i := 1; i < len(t); i++ {
		if !isAlpha(t[i]) && !isDigit(t[i]) {
			return false
		}
	}
	return true
}

// IsInteger reports whether t is an integer literal: "0" or a non-zero
// leading digit followed by any digits.
func (t Token) IsInteger() bool {
	if len(t) == 0 {
		return false
	}
	if t == "0" {
		return true
	}
	if t[0] < '1' || t[0] > '9' {
		return false
	}
	for i := 1; i < len(t); i++ {
		if !isDigit(t[i]) {
			return false
		}
	}
	return true
}

// IsReal reports whether t is a real literal: an integer part followed
// by '.' and any number of digits.
func (t Token) IsReal() bool {
	dot := -1
	for i := 0; i < len(t); i++ {
		if t[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return false
	}
	if !Token(t[:dot]).IsInteger() {
		return false
	}
	for i := dot + 1; i < len(t); i++ {
		if !isDigit(t[i]) {
			return false
		}
	}
	return true
}

// IsImaginary reports whether t is an imaginary literal: an integer or
// real literal with a trailing 'i', or the bare token "i" (denoting 1i).
func (t Token) IsImaginary() bool {
	if t == "i" {
		return true
	}
	if len(t) < 2 || t[len(t)-1] != 'i' {
		return false
	}
	mag := t[:len(t)-1]
	return mag.IsInteger() || mag.IsReal()
}

// Arity returns the argument count of the built-in function named t.
func (t Token) Arity() (int, bool) {
	for n, names := range arity {
		for _, name := range names {
			if t == name {
				return n, true
			}
		}
	}
	return 0, false
}

// IsFunction reports whether t names a built-in function of any arity class.
func (t Token) IsFunction() bool {
	_, ok := t.Arity()
	return ok
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
