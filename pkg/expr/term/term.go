package term

import (
	"github.com/agenthands/mathexpr/pkg/expr/parser"
)

// Kind represents the node variant in the Term tree.
type Kind uint8

const (
	KindOp Kind = iota
	KindVariable
	KindBool
	KindInteger
	KindReal
	KindComplex
	KindInfinity
	KindIrrational
)

// Term is one node of a parsed expression tree. Name carries the
// operator or function name for KindOp, the variable name for
// KindVariable and the constant name for KindIrrational.
type Term struct {
	Kind     Kind
	Name     string
	Operands []*Term
	Dims     []*Term

	Bool  bool
	Int   int64
	Real  float64
	Cmplx complex128
}

// Builder constructs *Term nodes. It satisfies the parser's Builder
// interface and is the default AST representation of this module.
type Builder struct{}

func (Builder) Op(name string, operands []parser.Term, dims []parser.Term) parser.Term {
	t := &Term{Kind: KindOp, Name: name}
	for _, o := range operands {
		t.Operands = append(t.Operands, o.(*Term))
	}
	for _, d := range dims {
		t.Dims = append(t.Dims, d.(*Term))
	}
	return t
}

func (Builder) Variable(name string) parser.Term {
	return &Term{Kind: KindVariable, Name: name}
}

func (Builder) Bool(v bool) parser.Term {
	return &Term{Kind: KindBool, Bool: v}
}

func (Builder) Integer(v int64) parser.Term {
	return &Term{Kind: KindInteger, Int: v}
}

func (Builder) Real(v float64) parser.Term {
	return &Term{Kind: KindReal, Real: v}
}

func (Builder) Complex(re, im float64) parser.Term {
	return &Term{Kind: KindComplex, Cmplx: complex(re, im)}
}

func (Builder) Infinity() parser.Term {
	return &Term{Kind: KindInfinity}
}

func (Builder) Irrational(name string) parser.Term {
	return &Term{Kind: KindIrrational, Name: name}
}

// Parse parses source into a *Term using the default builder.
func Parse(source string, opts ...parser.Option) (*Term, error) {
	t, err := parser.Parse(source, Builder{}, opts...)
	if err != nil {
		return nil, err
	}
	return t.(*Term), nil
}

// Equal reports deep structural equality of two trees.
func (t *Term) Equal(o *Term) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Name != o.Name ||
		t.Bool != o.Bool || t.Int != o.Int || t.Real != o.Real || t.Cmplx != o.Cmplx {
		return false
	}
	if len(t.Operands) != len(o.Operands) || len(t.Dims) != len(o.Dims) {
		return false
	}
	for i := range t.Operands {
		if !t.Operands[i].Equal(o.Operands[i]) {
			return false
		}
	}
	for i := range t.Dims {
		if !t.Dims[i].Equal(o.Dims[i]) {
			return false
		}
	}
	return true
}
