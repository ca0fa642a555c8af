package parser

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/agenthands/mathexpr/pkg/expr/lexer"
)

// Option configures a Parser.
type Option func(*Parser)

// SplitIdentifiers controls the ambiguity-splitting pass that explodes
// juxtaposed variables ("xy" -> "x","y") and coefficient factors
// ("3x" -> "3","x"). Enabled by default.
func SplitIdentifiers(enabled bool) Option {
	return func(p *Parser) { p.split = enabled }
}

// WithRand injects the random source used to resolve "{+|-}" style
// alternative groups. The default is the process-wide source.
func WithRand(rng *rand.Rand) Option {
	return func(p *Parser) { p.rng = rng }
}

// Parser consumes a post-processed token stream via one-token lookahead
// and builds an AST bottom-up through the injected Builder. The cursor
// advances strictly forward; the grammar never backtracks.
type Parser struct {
	builder Builder
	tokens  []lexer.Token
	pos     int
	tok     lexer.Token
	split   bool
	rng     *rand.Rand
}

// New creates a parser for source. The token stream is lexed and
// post-processed up front; no state survives across parsers.
func New(source string, b Builder, opts ...Option) *Parser {
	p := &Parser{builder: b, split: true}
	for _, opt := range opts {
		opt(p)
	}
	tokens := lexer.Tokenize(source)
	if p.split {
		tokens = lexer.SplitAmbiguous(tokens)
	}
	tokens = lexer.ResolveChoices(tokens, p.rng)
	p.tokens = tokens
	p.tok = tokens[0]
	return p
}

// Parse parses source in a single call.
func Parse(source string, b Builder, opts ...Option) (Term, error) {
	return New(source, b, opts...).Parse()
}

// Tokens returns the post-processed token stream, including the EOS
// sentinel. Intended for diagnostics and testing.
func (p *Parser) Tokens() []lexer.Token {
	return p.tokens
}

// Parse consumes the whole token stream and returns the AST root. A
// non-empty unconsumed suffix after a complete parse is a failure.
func (p *Parser) Parse() (Term, error) {
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if !p.tok.IsEOS() {
		return nil, p.fail(TagTrailingInput)
	}
	return t, nil
}

func (p *Parser) next() {
	if p.pos+1 < len(p.tokens) {
		p.pos++
		p.tok = p.tokens[p.pos]
	}
}

func (p *Parser) expect(tok lexer.Token, tag Tag) error {
	if p.tok != tok {
		return p.fail(tag)
	}
	p.next()
	return nil
}

// fail builds a SyntaxError describing the current token.
func (p *Parser) fail(tag Tag) *SyntaxError {
	if p.tok.IsEOS() {
		if tag == TagUnexpectedToken {
			tag = TagUnexpectedEnd
		}
		return &SyntaxError{Tag: tag, Got: "end of input"}
	}
	return &SyntaxError{Tag: tag, Got: strconv.Quote(string(p.tok))}
}

// op builds an operator node without dimension operands.
func (p *Parser) op(name string, operands ...Term) Term {
	return p.builder.Op(name, operands, nil)
}

func (p *Parser) parseTerm() (Term, error) {
	return p.parseLor()
}

// parseLor: land [ "||" land ]. Non-chaining.
func (p *Parser) parseLor() (Term, error) {
	left, err := p.parseLand()
	if err != nil {
		return nil, err
	}
	if p.tok == "||" {
		p.next()
		right, err := p.parseLand()
		if err != nil {
			return nil, err
		}
		return p.op("||", left, right), nil
	}
	return left, nil
}

// parseLand: equal [ "&&" equal ]. Non-chaining.
func (p *Parser) parseLand() (Term, error) {
	left, err := p.parseEqual()
	if err != nil {
		return nil, err
	}
	if p.tok == "&&" {
		p.next()
		right, err := p.parseEqual()
		if err != nil {
			return nil, err
		}
		return p.op("&&", left, right), nil
	}
	return left, nil
}

// parseEqual: relational [ ("=="|"!=") relational ]. Non-chaining, so
// "a==b==c" leaves the second "==" for the caller, which rejects it as
// trailing input.
func (p *Parser) parseEqual() (Term, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	if p.tok == "==" || p.tok == "!=" {
		name := string(p.tok)
		p.next()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		return p.op(name, left, right), nil
	}
	return left, nil
}

// parseRelational: add [ ("<"|"<="|">"|">=") add ]. Non-chaining.
func (p *Parser) parseRelational() (Term, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	switch p.tok {
	case "<", "<=", ">", ">=":
		name := string(p.tok)
		p.next()
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		return p.op(name, left, right), nil
	}
	return left, nil
}

// parseAdd: mul { ("+"|"-") mul }. A chain folds into one n-ary "+"
// node with every operand following a "-" wrapped in unary negation,
// so "a-b+c" becomes +(a, -(b), c). The single-operator "-" case folds
// into a binary "-" node instead.
func (p *Parser) parseAdd() (Term, error) {
	first, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	var ops []lexer.Token
	operands := []Term{first}
	for p.tok == "+" || p.tok == "-" {
		op := p.tok
		p.next()
		operand, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		operands = append(operands, operand)
	}
	if len(ops) == 0 {
		return first, nil
	}
	if len(ops) == 1 && ops[0] == "-" {
		return p.op("-", operands[0], operands[1]), nil
	}
	for i, op := range ops {
		if op == "-" {
			operands[i+1] = p.op("-", operands[i+1])
		}
	}
	return p.builder.Op("+", operands, nil), nil
}

// parseMul: pow { ("*"|"/"|implicit) pow }. Juxtaposition counts as an
// implicit "*" whenever the next token is an identifier or an opening
// parenthesis, which is what lets "3 x (y+1)" parse without operators.
// A chain containing any "/" folds strictly left-to-right into binary
// nodes; a pure "*" chain folds into one n-ary "*" node.
func (p *Parser) parseMul() (Term, error) {
	first, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	var ops []lexer.Token
	operands := []Term{first}
	for {
		var op lexer.Token
		switch {
		case p.tok == "*" || p.tok == "/":
			op = p.tok
			p.next()
		case p.tok.IsIdentifier() || p.tok == "(":
			op = "*"
		default:
			if len(ops) == 0 {
				return first, nil
			}
			return p.foldMul(ops, operands), nil
		}
		operand, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		operands = append(operands, operand)
	}
}

func (p *Parser) foldMul(ops []lexer.Token, operands []Term) Term {
	for _, op := range ops {
		if op == "/" {
			acc := operands[0]
			for i, op := range ops {
				acc = p.op(string(op), acc, operands[i+1])
			}
			return acc
		}
	}
	return p.builder.Op("*", operands, nil)
}

// parsePow: unary [ "^" unary ]. Non-chaining.
func (p *Parser) parsePow() (Term, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.tok == "^" {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return p.op("^", left, right), nil
	}
	return left, nil
}

// parseUnary: "-" mul | "!" infix | infix [postfix]. A leading "-"
// recurses into mul so that "-a*b" negates the whole product. A leading
// "!" recurses into infix only; postfix indexing after a negated
// boolean is not parsed.
func (p *Parser) parseUnary() (Term, error) {
	switch p.tok {
	case "-":
		p.next()
		operand, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		return p.op("-", operand), nil
	case "!":
		p.next()
		operand, err := p.parseInfix()
		if err != nil {
			return nil, err
		}
		return p.op("!", operand), nil
	}
	t, err := p.parseInfix()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(t)
}

// parsePostfix attaches at most one indexing suffix: t[i] or t[i,j].
func (p *Parser) parsePostfix(base Term) (Term, error) {
	if p.tok != "[" {
		return base, nil
	}
	p.next()
	row, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.tok == "," {
		p.next()
		col, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]", TagExpectedCloseBracket); err != nil {
			return nil, err
		}
		return p.op("index2", base, row, col), nil
	}
	if err := p.expect("]", TagExpectedCloseBracket); err != nil {
		return nil, err
	}
	return p.op("index", base, row), nil
}

// parseInfix parses the atomic forms. Literal matching follows a fixed
// priority: booleans, inf, imaginary, integer, real, irrational
// constant, function call, bare identifier, then the bracketed forms.
func (p *Parser) parseInfix() (Term, error) {
	tok := p.tok
	switch {
	case tok.IsBool():
		p.next()
		return p.builder.Bool(tok == "true"), nil
	case tok.IsInfinity():
		p.next()
		return p.builder.Infinity(), nil
	case tok.IsImaginary():
		p.next()
		return p.builder.Complex(0, imagMagnitude(tok)), nil
	case tok.IsInteger():
		p.next()
		n, err := strconv.ParseInt(string(tok), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("integer literal %q: %w", tok, err)
		}
		return p.builder.Integer(n), nil
	case tok.IsReal():
		p.next()
		f, err := strconv.ParseFloat(string(tok), 64)
		if err != nil {
			return nil, fmt.Errorf("real literal %q: %w", tok, err)
		}
		return p.builder.Real(f), nil
	case tok.IsConstant():
		p.next()
		return p.builder.Irrational(string(tok)), nil
	case tok.IsFunction():
		return p.parseCall()
	case tok.IsIdentifier():
		p.next()
		return p.builder.Variable(string(tok)), nil
	case tok == "(":
		p.next()
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")", TagExpectedCloseParen); err != nil {
			return nil, err
		}
		return t, nil
	case tok == "|":
		p.next()
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if err := p.expect("|", TagExpectedCloseBar); err != nil {
			return nil, err
		}
		return p.op("abs", t), nil
	case tok == "[":
		return p.parseMatrixOrVector()
	case tok == "{":
		return p.parseSet()
	}
	return nil, p.fail(TagUnexpectedToken)
}

// parseCall parses a built-in function invocation, optionally preceded
// by a non-empty angle-bracket dimension list. The parenthesized
// argument count must equal the declared arity exactly. A unary
// function without a dimension list may also be applied to a single
// unary-level operand without parentheses ("sin x").
func (p *Parser) parseCall() (Term, error) {
	name := p.tok
	arity, _ := name.Arity()
	p.next()

	var dims []Term
	if p.tok == "<" {
		p.next()
		for {
			d, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			dims = append(dims, d)
			if p.tok != "," {
				break
			}
			p.next()
		}
		if err := p.expect(">", TagExpectedCloseAngle); err != nil {
			return nil, err
		}
	}

	if p.tok != "(" {
		if arity == 1 && dims == nil {
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return p.op(string(name), operand), nil
		}
		return nil, p.fail(TagExpectedOpenParen)
	}
	p.next()

	var args []Term
	if p.tok != ")" {
		for {
			arg, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok != "," {
				break
			}
			p.next()
		}
	}
	if err := p.expect(")", TagExpectedCloseParen); err != nil {
		return nil, err
	}
	if len(args) != arity {
		return nil, &SyntaxError{
			Tag: TagWrongArgCount,
			Got: fmt.Sprintf("%d argument(s) for %s/%d", len(args), name, arity),
		}
	}
	return p.builder.Op(string(name), args, dims), nil
}

// parseMatrixOrVector parses a bracketed literal. Disambiguation is
// structural: if the token right after the opening "[" is itself "[",
// the outer form is a matrix of vector rows, otherwise a flat vector.
func (p *Parser) parseMatrixOrVector() (Term, error) {
	p.next() // consume '['
	if p.tok != "[" {
		return p.parseVectorTail()
	}
	var rows []Term
	for {
		if err := p.expect("[", TagExpectedOpenBracket); err != nil {
			return nil, err
		}
		row, err := p.parseVectorTail()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		if p.tok != "," {
			break
		}
		p.next()
	}
	if err := p.expect("]", TagExpectedCloseBracket); err != nil {
		return nil, err
	}
	return p.builder.Op("matrix", rows, nil), nil
}

// parseVectorTail parses "term , term , ... ]" with the opening bracket
// already consumed.
func (p *Parser) parseVectorTail() (Term, error) {
	var elems []Term
	for {
		e, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.tok != "," {
			break
		}
		p.next()
	}
	if err := p.expect("]", TagExpectedCloseBracket); err != nil {
		return nil, err
	}
	return p.builder.Op("vector", elems, nil), nil
}

// parseSet parses "{ term , term , ... }". Empty sets are not
// supported: "{}" fails on the closing brace.
func (p *Parser) parseSet() (Term, error) {
	p.next() // consume '{'
	var elems []Term
	for {
		e, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.tok != "," {
			break
		}
		p.next()
	}
	if err := p.expect("}", TagExpectedCloseBrace); err != nil {
		return nil, err
	}
	return p.builder.Op("set", elems, nil), nil
}

// imagMagnitude extracts the magnitude of an imaginary literal token.
// Bare "i" denotes 1i.
func imagMagnitude(tok lexer.Token) float64 {
	if tok == "i" {
		return 1
	}
	f, _ := strconv.ParseFloat(string(tok[:len(tok)-1]), 64)
	return f
}
