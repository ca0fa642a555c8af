package term

import (
	"strconv"
	"strings"
)

// Precedence describes how strongly an expression holds together; a
// child is parenthesized when its glue is weaker than its parent's.
type Precedence int

const (
	LorPrecedence Precedence = iota
	LandPrecedence
	EqualPrecedence
	RelationalPrecedence
	AddPrecedence
	MulPrecedence
	PowPrecedence
	UnaryPrecedence
	AtomicPrecedence
)

var opPrecedence = map[string]Precedence{
	"||": LorPrecedence,
	"&&": LandPrecedence,
	"==": EqualPrecedence,
	"!=": EqualPrecedence,
	"<":  RelationalPrecedence,
	"<=": RelationalPrecedence,
	">":  RelationalPrecedence,
	">=": RelationalPrecedence,
	"+":  AddPrecedence,
	"-":  AddPrecedence,
	"*":  MulPrecedence,
	"/":  MulPrecedence,
	"^":  PowPrecedence,
}

// Precedence returns the binding strength of the node's top operator.
func (t *Term) Precedence() Precedence {
	if t.Kind != KindOp {
		return AtomicPrecedence
	}
	if len(t.Operands) == 1 && (t.Name == "-" || t.Name == "!") {
		return UnaryPrecedence
	}
	if p, ok := opPrecedence[t.Name]; ok {
		return p
	}
	return AtomicPrecedence
}

// String renders the tree back to surface syntax with minimal
// parentheses. The output re-parses to a structurally equal tree for
// everything the printer emits explicitly.
func (t *Term) String() string {
	switch t.Kind {
	case KindBool:
		if t.Bool {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(t.Int, 10)
	case KindReal:
		return strconv.FormatFloat(t.Real, 'g', -1, 64)
	case KindComplex:
		im := imag(t.Cmplx)
		if im == 1 {
			return "i"
		}
		return strconv.FormatFloat(im, 'g', -1, 64) + "i"
	case KindInfinity:
		return "inf"
	case KindIrrational, KindVariable:
		return t.Name
	}
	return t.opString()
}

func (t *Term) opString() string {
	switch t.Name {
	case "vector":
		return "[" + t.joinOperands(", ") + "]"
	case "matrix":
		return "[" + t.joinOperands(", ") + "]"
	case "set":
		return "{" + t.joinOperands(", ") + "}"
	case "abs":
		return "|" + t.Operands[0].String() + "|"
	case "index":
		return t.child(0) + "[" + t.Operands[1].String() + "]"
	case "index2":
		return t.child(0) + "[" + t.Operands[1].String() + ", " + t.Operands[2].String() + "]"
	case "!":
		return "!" + t.child(0)
	case "-":
		if len(t.Operands) == 1 {
			return "-" + t.child(0)
		}
	}

	if _, ok := opPrecedence[t.Name]; ok {
		parts := make([]string, len(t.Operands))
		for i := range t.Operands {
			parts[i] = t.child(i)
		}
		return strings.Join(parts, t.Name)
	}

	// Function call, optionally with dimension list.
	var sb strings.Builder
	sb.WriteString(t.Name)
	if len(t.Dims) > 0 {
		dims := make([]string, len(t.Dims))
		for i, d := range t.Dims {
			dims[i] = d.String()
		}
		sb.WriteString("<" + strings.Join(dims, ", ") + ">")
	}
	sb.WriteString("(" + t.joinOperands(", ") + ")")
	return sb.String()
}

// child renders operand i, parenthesized when it binds more loosely
// than this node.
func (t *Term) child(i int) string {
	c := t.Operands[i]
	if c.Precedence() < t.Precedence() {
		return "(" + c.String() + ")"
	}
	return c.String()
}

func (t *Term) joinOperands(sep string) string {
	parts := make([]string, len(t.Operands))
	for i, o := range t.Operands {
		parts[i] = o.String()
	}
	return strings.Join(parts, sep)
}
