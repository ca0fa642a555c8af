package term

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
)

// Env binds variable names to values during evaluation.
type Env map[string]Value

// EvalError reports a type or arity problem discovered while walking a
// tree. The parser guarantees structure, not operand types; those are
// checked here.
type EvalError struct {
	Op     string
	Reason string
}

func (e *EvalError) Error() string {
	if e.Op == "" {
		return "eval error: " + e.Reason
	}
	return fmt.Sprintf("eval error: %s: %s", e.Op, e.Reason)
}

func evalErr(op, format string, args ...any) error {
	return &EvalError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// Eval walks the tree and computes its value against env. env may be
// nil when the expression is closed.
func Eval(t *Term, env Env) (Value, error) {
	switch t.Kind {
	case KindBool:
		return BoolValue(t.Bool), nil
	case KindInteger:
		return IntValue(t.Int), nil
	case KindReal:
		return RealValue(t.Real), nil
	case KindComplex:
		return ComplexValue(t.Cmplx), nil
	case KindInfinity:
		return Value{Type: TypeInfinity}, nil
	case KindIrrational:
		switch t.Name {
		case "pi":
			return RealValue(math.Pi), nil
		case "e":
			return RealValue(math.E), nil
		}
		return Value{}, evalErr("", "unknown constant %q", t.Name)
	case KindVariable:
		if v, ok := env[t.Name]; ok {
			return v, nil
		}
		return Value{}, evalErr("", "unbound variable %q", t.Name)
	case KindOp:
		return evalOp(t, env)
	}
	return Value{}, evalErr("", "unknown node kind %d", t.Kind)
}

func evalOp(t *Term, env Env) (Value, error) {
	// Iterating operators bind their index variable themselves, so they
	// dispatch before operand evaluation.
	if t.Name == "sum" || t.Name == "prod" {
		return evalFold(t, env)
	}

	args := make([]Value, len(t.Operands))
	for i, o := range t.Operands {
		v, err := Eval(o, env)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	switch t.Name {
	case "+":
		return foldValues(t.Name, args, addValues)
	case "-":
		if len(args) == 1 {
			return negValue(args[0])
		}
		neg, err := negValue(args[1])
		if err != nil {
			return Value{}, err
		}
		return addValues(args[0], neg)
	case "*":
		return foldValues(t.Name, args, mulValues)
	case "/":
		return divValues(args[0], args[1])
	case "^":
		return powValues(args[0], args[1])
	case "==":
		return BoolValue(args[0].Equal(args[1])), nil
	case "!=":
		return BoolValue(!args[0].Equal(args[1])), nil
	case "<", "<=", ">", ">=":
		return compareValues(t.Name, args[0], args[1])
	case "&&", "||":
		if args[0].Type != TypeBool || args[1].Type != TypeBool {
			return Value{}, evalErr(t.Name, "operands must be boolean")
		}
		if t.Name == "&&" {
			return BoolValue(args[0].Bool && args[1].Bool), nil
		}
		return BoolValue(args[0].Bool || args[1].Bool), nil
	case "!":
		if args[0].Type != TypeBool {
			return Value{}, evalErr(t.Name, "operand must be boolean")
		}
		return BoolValue(!args[0].Bool), nil
	case "vector":
		return VectorValue(args), nil
	case "matrix":
		return makeMatrix(args)
	case "set":
		return makeSet(args), nil
	case "index":
		return indexValue(args[0], args[1])
	case "index2":
		return index2Value(args[0], args[1], args[2])
	case "zeros", "ones", "rand", "id":
		return evalGenerator(t, env)
	}
	return evalFunction(t.Name, args)
}

// evalFold handles sum/prod: (index variable, lower, upper, body).
func evalFold(t *Term, env Env) (Value, error) {
	idx := t.Operands[0]
	if idx.Kind != KindVariable {
		return Value{}, evalErr(t.Name, "first operand must be an index variable")
	}
	lo, err := evalInt(t.Name, t.Operands[1], env)
	if err != nil {
		return Value{}, err
	}
	hi, err := evalInt(t.Name, t.Operands[2], env)
	if err != nil {
		return Value{}, err
	}

	inner := make(Env, len(env)+1)
	for k, v := range env {
		inner[k] = v
	}

	acc := IntValue(0)
	if t.Name == "prod" {
		acc = IntValue(1)
	}
	for k := lo; k <= hi; k++ {
		inner[idx.Name] = IntValue(k)
		v, err := Eval(t.Operands[3], inner)
		if err != nil {
			return Value{}, err
		}
		if t.Name == "sum" {
			acc, err = addValues(acc, v)
		} else {
			acc, err = mulValues(acc, v)
		}
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

// evalGenerator handles the arity-0 shape producers, which take their
// size from the dimension list: zeros<2,3>(), id<4>().
func evalGenerator(t *Term, env Env) (Value, error) {
	if len(t.Dims) == 0 {
		return Value{}, evalErr(t.Name, "missing dimension list")
	}
	dims := make([]int64, len(t.Dims))
	for i, d := range t.Dims {
		n, err := evalInt(t.Name, d, env)
		if err != nil {
			return Value{}, err
		}
		if n < 0 {
			return Value{}, evalErr(t.Name, "negative dimension %d", n)
		}
		dims[i] = n
	}

	fill := func() Value { return IntValue(0) }
	switch t.Name {
	case "ones":
		fill = func() Value { return IntValue(1) }
	case "rand":
		fill = func() Value { return RealValue(rand.Float64()) }
	case "id":
		if len(dims) != 1 {
			return Value{}, evalErr(t.Name, "wants exactly one dimension, got %d", len(dims))
		}
		n := dims[0]
		rows := make([]Value, n)
		for i := int64(0); i < n; i++ {
			row := make([]Value, n)
			for j := int64(0); j < n; j++ {
				if i == j {
					row[j] = IntValue(1)
				} else {
					row[j] = IntValue(0)
				}
			}
			rows[i] = VectorValue(row)
		}
		return MatrixValue(rows), nil
	}

	switch len(dims) {
	case 1:
		elems := make([]Value, dims[0])
		for i := range elems {
			elems[i] = fill()
		}
		return VectorValue(elems), nil
	case 2:
		rows := make([]Value, dims[0])
		for i := range rows {
			row := make([]Value, dims[1])
			for j := range row {
				row[j] = fill()
			}
			rows[i] = VectorValue(row)
		}
		return MatrixValue(rows), nil
	}
	return Value{}, evalErr(t.Name, "wants one or two dimensions, got %d", len(dims))
}

func evalInt(op string, t *Term, env Env) (int64, error) {
	v, err := Eval(t, env)
	if err != nil {
		return 0, err
	}
	if v.Type != TypeInt {
		return 0, evalErr(op, "expected integer, got %s", v.Format())
	}
	return v.Int, nil
}

func foldValues(op string, args []Value, f func(a, b Value) (Value, error)) (Value, error) {
	if len(args) == 0 {
		return Value{}, evalErr(op, "no operands")
	}
	acc := args[0]
	var err error
	for _, v := range args[1:] {
		acc, err = f(acc, v)
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

// addValues adds scalars with tower promotion, vectors and matrices
// elementwise.
func addValues(a, b Value) (Value, error) {
	if a.IsNumeric() && b.IsNumeric() {
		if a.Type == TypeInt && b.Type == TypeInt {
			return IntValue(a.Int + b.Int), nil
		}
		if ar, ok := a.AsReal(); ok {
			if br, ok := b.AsReal(); ok {
				return RealValue(ar + br), nil
			}
		}
		ac, _ := a.AsComplex()
		bc, _ := b.AsComplex()
		return ComplexValue(ac + bc), nil
	}
	if a.Type == b.Type && (a.Type == TypeVector || a.Type == TypeMatrix) {
		if len(a.Elems) != len(b.Elems) {
			return Value{}, evalErr("+", "dimension mismatch")
		}
		elems := make([]Value, len(a.Elems))
		for i := range a.Elems {
			e, err := addValues(a.Elems[i], b.Elems[i])
			if err != nil {
				return Value{}, err
			}
			elems[i] = e
		}
		return Value{Type: a.Type, Elems: elems}, nil
	}
	return Value{}, evalErr("+", "cannot add %s and %s", a.Format(), b.Format())
}

func negValue(v Value) (Value, error) {
	switch v.Type {
	case TypeInt:
		return IntValue(-v.Int), nil
	case TypeReal:
		return RealValue(-v.Real), nil
	case TypeComplex:
		return ComplexValue(-v.Cmplx), nil
	case TypeInfinity:
		return RealValue(math.Inf(-1)), nil
	case TypeVector, TypeMatrix:
		elems := make([]Value, len(v.Elems))
		for i, e := range v.Elems {
			n, err := negValue(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = n
		}
		return Value{Type: v.Type, Elems: elems}, nil
	}
	return Value{}, evalErr("-", "cannot negate %s", v.Format())
}

// mulValues multiplies scalars, scales vectors/matrices, and performs
// matrix*matrix and matrix*vector products.
func mulValues(a, b Value) (Value, error) {
	if a.IsNumeric() && b.IsNumeric() {
		if a.Type == TypeInt && b.Type == TypeInt {
			return IntValue(a.Int * b.Int), nil
		}
		if ar, ok := a.AsReal(); ok {
			if br, ok := b.AsReal(); ok {
				return RealValue(ar * br), nil
			}
		}
		ac, _ := a.AsComplex()
		bc, _ := b.AsComplex()
		return ComplexValue(ac * bc), nil
	}
	if a.IsNumeric() && (b.Type == TypeVector || b.Type == TypeMatrix) {
		return scaleValue(a, b)
	}
	if b.IsNumeric() && (a.Type == TypeVector || a.Type == TypeMatrix) {
		return scaleValue(b, a)
	}
	if a.Type == TypeMatrix && (b.Type == TypeMatrix || b.Type == TypeVector) {
		return matMul(a, b)
	}
	return Value{}, evalErr("*", "cannot multiply %s and %s", a.Format(), b.Format())
}

func scaleValue(scalar, v Value) (Value, error) {
	elems := make([]Value, len(v.Elems))
	for i, e := range v.Elems {
		s, err := mulValues(scalar, e)
		if err != nil {
			return Value{}, err
		}
		elems[i] = s
	}
	return Value{Type: v.Type, Elems: elems}, nil
}

func matMul(a, b Value) (Value, error) {
	ar, ac, err := matrixShape(a)
	if err != nil {
		return Value{}, err
	}
	if b.Type == TypeVector {
		if ac != len(b.Elems) {
			return Value{}, evalErr("*", "dimension mismatch")
		}
		out := make([]Value, ar)
		for i := 0; i < ar; i++ {
			s, err := dotRow(a.Elems[i].Elems, b.Elems)
			if err != nil {
				return Value{}, err
			}
			out[i] = s
		}
		return VectorValue(out), nil
	}
	br, bc, err := matrixShape(b)
	if err != nil {
		return Value{}, err
	}
	if ac != br {
		return Value{}, evalErr("*", "dimension mismatch")
	}
	rows := make([]Value, ar)
	for i := 0; i < ar; i++ {
		row := make([]Value, bc)
		for j := 0; j < bc; j++ {
			col := make([]Value, br)
			for k := 0; k < br; k++ {
				col[k] = b.Elems[k].Elems[j]
			}
			s, err := dotRow(a.Elems[i].Elems, col)
			if err != nil {
				return Value{}, err
			}
			row[j] = s
		}
		rows[i] = VectorValue(row)
	}
	return MatrixValue(rows), nil
}

func dotRow(a, b []Value) (Value, error) {
	acc := IntValue(0)
	for i := range a {
		p, err := mulValues(a[i], b[i])
		if err != nil {
			return Value{}, err
		}
		acc, err = addValues(acc, p)
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

func matrixShape(m Value) (rows, cols int, err error) {
	if m.Type != TypeMatrix || len(m.Elems) == 0 {
		return 0, 0, evalErr("", "not a matrix")
	}
	cols = len(m.Elems[0].Elems)
	for _, r := range m.Elems {
		if r.Type != TypeVector || len(r.Elems) != cols {
			return 0, 0, evalErr("", "ragged matrix")
		}
	}
	return len(m.Elems), cols, nil
}

func divValues(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, evalErr("/", "operands must be numeric")
	}
	if a.Type == TypeInt && b.Type == TypeInt {
		if b.Int == 0 {
			return Value{}, evalErr("/", "division by zero")
		}
		if a.Int%b.Int == 0 {
			return IntValue(a.Int / b.Int), nil
		}
		return RealValue(float64(a.Int) / float64(b.Int)), nil
	}
	if ar, ok := a.AsReal(); ok {
		if br, ok := b.AsReal(); ok {
			if br == 0 {
				return Value{}, evalErr("/", "division by zero")
			}
			return RealValue(ar / br), nil
		}
	}
	ac, _ := a.AsComplex()
	bc, _ := b.AsComplex()
	if bc == 0 {
		return Value{}, evalErr("/", "division by zero")
	}
	return ComplexValue(ac / bc), nil
}

func powValues(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, evalErr("^", "operands must be numeric")
	}
	if a.Type == TypeInt && b.Type == TypeInt && b.Int >= 0 {
		acc := int64(1)
		for i := int64(0); i < b.Int; i++ {
			acc *= a.Int
		}
		return IntValue(acc), nil
	}
	if ar, ok := a.AsReal(); ok {
		if br, ok := b.AsReal(); ok && (ar >= 0 || br == math.Trunc(br)) {
			return RealValue(math.Pow(ar, br)), nil
		}
	}
	ac, _ := a.AsComplex()
	bc, _ := b.AsComplex()
	return ComplexValue(cmplx.Pow(ac, bc)), nil
}

func compareValues(op string, a, b Value) (Value, error) {
	ar, aok := a.AsReal()
	br, bok := b.AsReal()
	if !aok || !bok {
		return Value{}, evalErr(op, "operands must be real")
	}
	switch op {
	case "<":
		return BoolValue(ar < br), nil
	case "<=":
		return BoolValue(ar <= br), nil
	case ">":
		return BoolValue(ar > br), nil
	}
	return BoolValue(ar >= br), nil
}

func makeMatrix(rows []Value) (Value, error) {
	m := MatrixValue(rows)
	if _, _, err := matrixShape(m); err != nil {
		return Value{}, evalErr("matrix", "rows must be vectors of equal length")
	}
	return m, nil
}

func makeSet(elems []Value) Value {
	out := make([]Value, 0, len(elems))
	for _, e := range elems {
		if !containsValue(out, e) {
			out = append(out, e)
		}
	}
	return Value{Type: TypeSet, Elems: out}
}

// indexValue implements t[i]: 1-based element access on vectors and
// row access on matrices.
func indexValue(base, idx Value) (Value, error) {
	if idx.Type != TypeInt {
		return Value{}, evalErr("index", "index must be an integer")
	}
	if base.Type != TypeVector && base.Type != TypeMatrix {
		return Value{}, evalErr("index", "cannot index %s", base.Format())
	}
	i := idx.Int
	if i < 1 || i > int64(len(base.Elems)) {
		return Value{}, evalErr("index", "index %d out of range", i)
	}
	return base.Elems[i-1], nil
}

func index2Value(base, row, col Value) (Value, error) {
	if base.Type != TypeMatrix {
		return Value{}, evalErr("index", "double index needs a matrix")
	}
	r, err := indexValue(base, row)
	if err != nil {
		return Value{}, err
	}
	return indexValue(r, col)
}
