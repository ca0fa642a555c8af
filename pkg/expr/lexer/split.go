package lexer

// SplitAmbiguous rewrites tokens that juxtapose several factors into
// implicit-multiplication-friendly atoms. Two heuristics, in order:
//
//  1. An identifier-shaped token that is not a boolean literal, not a
//     built-in constant and not a function name of any arity class is
//     exploded into one token per character ("xy" -> "x", "y").
//  2. A token of length >= 2 whose first character is a digit and whose
//     last character is alphabetic is split into its leading digit run
//     and a single trailing remainder ("3x" -> "3", "x"). The remainder
//     is not re-split, so "3xy" yields "3", "xy".
//
// Everything else passes through unchanged.
func SplitAmbiguous(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		switch {
		case tok.IsIdentifier() && !tok.IsBool() && !tok.IsInfinity() && !tok.IsConstant() && !tok.IsFunction():
			for i := 0; i < len(tok); i++ {
				out = append(out, tok[i:i+1])
			}
		case len(tok) >= 2 && isDigit(tok[0]) && isAlpha(tok[len(tok)-1]):
			i := 0
			for i < len(tok) && isDigit(tok[i]) {
				i++
			}
			out = append(out, tok[:i], tok[i:])
		default:
			out = append(out, tok)
		}
	}
	return out
}
