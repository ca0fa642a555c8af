package term

import (
	"math"
	"math/cmplx"
)

// realFuncs are the unary builtins defined over the reals. Complex
// arguments (and real arguments outside the domain of sqrt/ln) fall
// through to the complex variants below.
var realFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"sqrt": math.Sqrt,
}

var complexFuncs = map[string]func(complex128) complex128{
	"sin":  cmplx.Sin,
	"cos":  cmplx.Cos,
	"tan":  cmplx.Tan,
	"asin": cmplx.Asin,
	"acos": cmplx.Acos,
	"atan": cmplx.Atan,
	"exp":  cmplx.Exp,
	"ln":   cmplx.Log,
	"sqrt": cmplx.Sqrt,
}

// evalFunction dispatches the named builtins once their arguments are
// evaluated. The parser has already checked the argument counts.
func evalFunction(name string, args []Value) (Value, error) {
	if f, ok := realFuncs[name]; ok {
		a := args[0]
		if r, ok := a.AsReal(); ok {
			if r < 0 && (name == "sqrt" || name == "ln") {
				return ComplexValue(complexFuncs[name](complex(r, 0))), nil
			}
			return RealValue(f(r)), nil
		}
		c, ok := a.AsComplex()
		if !ok {
			return Value{}, evalErr(name, "operand must be numeric")
		}
		return ComplexValue(complexFuncs[name](c)), nil
	}

	switch name {
	case "abs":
		return absValue(args[0])
	case "sgn":
		r, ok := args[0].AsReal()
		if !ok {
			return Value{}, evalErr(name, "operand must be real")
		}
		switch {
		case r > 0:
			return IntValue(1), nil
		case r < 0:
			return IntValue(-1), nil
		}
		return IntValue(0), nil
	case "floor":
		r, ok := args[0].AsReal()
		if !ok {
			return Value{}, evalErr(name, "operand must be real")
		}
		return IntValue(int64(math.Floor(r))), nil
	case "round":
		r, ok := args[0].AsReal()
		if !ok {
			return Value{}, evalErr(name, "operand must be real")
		}
		return IntValue(int64(math.Round(r))), nil
	case "re", "im", "conj":
		c, ok := args[0].AsComplex()
		if !ok {
			return Value{}, evalErr(name, "operand must be numeric")
		}
		switch name {
		case "re":
			return RealValue(real(c)), nil
		case "im":
			return RealValue(imag(c)), nil
		}
		return ComplexValue(cmplx.Conj(c)), nil
	case "det":
		return detValue(args[0])
	case "transpose":
		return transposeValue(args[0])
	case "norm":
		return normValue(args[0])
	case "log":
		b, bok := args[0].AsReal()
		x, xok := args[1].AsReal()
		if !bok || !xok {
			return Value{}, evalErr(name, "operands must be real")
		}
		if b <= 0 || b == 1 || x <= 0 {
			return Value{}, evalErr(name, "log base %s of %s undefined", args[0].Format(), args[1].Format())
		}
		return RealValue(math.Log(x) / math.Log(b)), nil
	case "mod":
		if args[0].Type != TypeInt || args[1].Type != TypeInt {
			return Value{}, evalErr(name, "operands must be integer")
		}
		if args[1].Int == 0 {
			return Value{}, evalErr(name, "modulo by zero")
		}
		return IntValue(args[0].Int % args[1].Int), nil
	case "gcd":
		if args[0].Type != TypeInt || args[1].Type != TypeInt {
			return Value{}, evalErr(name, "operands must be integer")
		}
		return IntValue(gcd(args[0].Int, args[1].Int)), nil
	case "binom":
		if args[0].Type != TypeInt || args[1].Type != TypeInt {
			return Value{}, evalErr(name, "operands must be integer")
		}
		return binom(args[0].Int, args[1].Int)
	case "cross":
		return crossValue(args[0], args[1])
	}
	return Value{}, evalErr(name, "unknown function")
}

func absValue(v Value) (Value, error) {
	switch v.Type {
	case TypeInt:
		if v.Int < 0 {
			return IntValue(-v.Int), nil
		}
		return v, nil
	case TypeReal:
		return RealValue(math.Abs(v.Real)), nil
	case TypeInfinity:
		return v, nil
	case TypeComplex:
		return RealValue(cmplx.Abs(v.Cmplx)), nil
	case TypeVector:
		return normValue(v)
	}
	return Value{}, evalErr("abs", "cannot take absolute value of %s", v.Format())
}

// detValue computes the determinant by Laplace expansion along the
// first row. Entries must be real-convertible.
func detValue(m Value) (Value, error) {
	rows, cols, err := matrixShape(m)
	if err != nil {
		return Value{}, evalErr("det", "operand must be a matrix")
	}
	if rows != cols {
		return Value{}, evalErr("det", "matrix must be square")
	}
	grid := make([][]float64, rows)
	allInt := true
	for i, r := range m.Elems {
		grid[i] = make([]float64, cols)
		for j, e := range r.Elems {
			f, ok := e.AsReal()
			if !ok {
				return Value{}, evalErr("det", "entries must be real")
			}
			if e.Type != TypeInt {
				allInt = false
			}
			grid[i][j] = f
		}
	}
	d := det(grid)
	if allInt {
		return IntValue(int64(math.Round(d))), nil
	}
	return RealValue(d), nil
}

func det(m [][]float64) float64 {
	n := len(m)
	if n == 1 {
		return m[0][0]
	}
	acc, sign := 0.0, 1.0
	for j := 0; j < n; j++ {
		minor := make([][]float64, 0, n-1)
		for i := 1; i < n; i++ {
			row := make([]float64, 0, n-1)
			row = append(row, m[i][:j]...)
			row = append(row, m[i][j+1:]...)
			minor = append(minor, row)
		}
		acc += sign * m[0][j] * det(minor)
		sign = -sign
	}
	return acc
}

func transposeValue(m Value) (Value, error) {
	rows, cols, err := matrixShape(m)
	if err != nil {
		return Value{}, evalErr("transpose", "operand must be a matrix")
	}
	out := make([]Value, cols)
	for j := 0; j < cols; j++ {
		row := make([]Value, rows)
		for i := 0; i < rows; i++ {
			row[i] = m.Elems[i].Elems[j]
		}
		out[j] = VectorValue(row)
	}
	return MatrixValue(out), nil
}

// normValue computes the Euclidean norm of a vector or the Frobenius
// norm of a matrix.
func normValue(v Value) (Value, error) {
	switch v.Type {
	case TypeVector:
		acc := 0.0
		for _, e := range v.Elems {
			r, ok := e.AsReal()
			if !ok {
				c, ok := e.AsComplex()
				if !ok {
					return Value{}, evalErr("norm", "entries must be numeric")
				}
				acc += real(c)*real(c) + imag(c)*imag(c)
				continue
			}
			acc += r * r
		}
		return RealValue(math.Sqrt(acc)), nil
	case TypeMatrix:
		acc := 0.0
		for _, row := range v.Elems {
			r, err := normValue(row)
			if err != nil {
				return Value{}, err
			}
			acc += r.Real * r.Real
		}
		return RealValue(math.Sqrt(acc)), nil
	}
	return Value{}, evalErr("norm", "operand must be a vector or matrix")
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func binom(n, k int64) (Value, error) {
	if n < 0 || k < 0 || k > n {
		return IntValue(0), nil
	}
	if k > n-k {
		k = n - k
	}
	acc := int64(1)
	for i := int64(1); i <= k; i++ {
		acc = acc * (n - k + i) / i
	}
	return IntValue(acc), nil
}

func crossValue(a, b Value) (Value, error) {
	if a.Type != TypeVector || b.Type != TypeVector || len(a.Elems) != 3 || len(b.Elems) != 3 {
		return Value{}, evalErr("cross", "operands must be 3-vectors")
	}
	comp := func(i, j int) (Value, error) {
		p1, err := mulValues(a.Elems[i], b.Elems[j])
		if err != nil {
			return Value{}, err
		}
		p2, err := mulValues(a.Elems[j], b.Elems[i])
		if err != nil {
			return Value{}, err
		}
		n, err := negValue(p2)
		if err != nil {
			return Value{}, err
		}
		return addValues(p1, n)
	}
	x, err := comp(1, 2)
	if err != nil {
		return Value{}, err
	}
	y, err := comp(2, 0)
	if err != nil {
		return Value{}, err
	}
	z, err := comp(0, 1)
	if err != nil {
		return Value{}, err
	}
	return VectorValue([]Value{x, y, z}), nil
}
