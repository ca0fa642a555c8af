package lexer

import "math/rand"

var choiceOps = map[Token]bool{"+": true, "-": true, "*": true, "/": true}

// ResolveChoices replaces every randomized-alternative group of the form
// "{ op | op | ... }" (each alternative exactly one of + - * /) with one
// uniformly chosen alternative. Groups that do not match the shape are
// left alone: the literal "{" passes through and scanning resumes right
// after it, so set-literal syntax survives.
//
// rng may be nil, in which case the process-wide source is used. Callers
// requiring reproducibility supply a seeded *rand.Rand.
func ResolveChoices(tokens []Token, rng *rand.Rand) []Token {
	out := make([]Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok != "{" {
			out = append(out, tok)
			continue
		}
		alts, end := matchChoiceGroup(tokens, i)
		if alts == nil {
			out = append(out, tok)
			continue
		}
		out = append(out, alts[intn(rng, len(alts))])
		i = end
	}
	return out
}

// matchChoiceGroup checks tokens[open:] for "{" op ("|" op)* "}" and
// returns the alternatives and the index of the closing brace. A nil
// result means the group does not match.
func matchChoiceGroup(tokens []Token, open int) ([]Token, int) {
	i := open + 1
	var alts []Token
	for {
		if i >= len(tokens) || !choiceOps[tokens[i]] {
			return nil, 0
		}
		alts = append(alts, tokens[i])
		i++
		if i >= len(tokens) {
			return nil, 0
		}
		switch tokens[i] {
		case "|":
			i++
		case "}":
			return alts, i
		default:
			return nil, 0
		}
	}
}

func intn(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.Intn(n)
	}
	return rand.Intn(n)
}
