package parser

// Term is an opaque AST node produced by a Builder. The parser only
// builds trees bottom-up and returns the root; it never inspects or
// mutates a Term after construction.
type Term = any

// Builder constructs the AST nodes the parser emits. Implementations
// return their own node representation; the default lives in the term
// package.
type Builder interface {
	// Op builds an operator or function node. dims carries the optional
	// angle-bracket dimension operands of generator-style functions and
	// is nil everywhere else.
	Op(name string, operands []Term, dims []Term) Term

	// Variable builds a variable node from a single-character or full
	// identifier name.
	Variable(name string) Term

	Bool(v bool) Term
	Integer(v int64) Term
	Real(v float64) Term
	Complex(re, im float64) Term
	Infinity() Term
	Irrational(name string) Term
}
