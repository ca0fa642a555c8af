package term

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeBool Type = iota
	TypeInt
	TypeReal
	TypeComplex
	TypeInfinity
	TypeVector
	TypeMatrix
	TypeSet
)

// Value is the runtime result of evaluating a Term. Matrix values store
// their rows as vector Values in Elems.
type Value struct {
	Type  Type
	Bool  bool
	Int   int64
	Real  float64
	Cmplx complex128
	Elems []Value
}

func BoolValue(v bool) Value { return Value{Type: TypeBool, Bool: v} }

func IntValue(v int64) Value { return Value{Type: TypeInt, Int: v} }

func RealValue(v float64) Value { return Value{Type: TypeReal, Real: v} }

func ComplexValue(v complex128) Value { return Value{Type: TypeComplex, Cmplx: v} }

func VectorValue(elems []Value) Value { return Value{Type: TypeVector, Elems: elems} }

// MatrixValue builds a matrix from row vectors.
func MatrixValue(rows []Value) Value { return Value{Type: TypeMatrix, Elems: rows} }

// IsNumeric reports whether v takes part in the int/real/complex tower.
// Infinity joins the tower as the real +Inf.
func (v Value) IsNumeric() bool {
	return v.Type == TypeInt || v.Type == TypeReal || v.Type == TypeComplex || v.Type == TypeInfinity
}

// AsReal widens int to real. Complex values only convert when their
// imaginary part is zero.
func (v Value) AsReal() (float64, bool) {
	switch v.Type {
	case TypeInt:
		return float64(v.Int), true
	case TypeReal:
		return v.Real, true
	case TypeInfinity:
		return math.Inf(1), true
	case TypeComplex:
		if imag(v.Cmplx) == 0 {
			return real(v.Cmplx), true
		}
	}
	return 0, false
}

// AsComplex widens any numeric value to complex.
func (v Value) AsComplex() (complex128, bool) {
	switch v.Type {
	case TypeInt:
		return complex(float64(v.Int), 0), true
	case TypeReal:
		return complex(v.Real, 0), true
	case TypeInfinity:
		return complex(math.Inf(1), 0), true
	case TypeComplex:
		return v.Cmplx, true
	}
	return 0, false
}

// Equal compares two values. Numeric values compare across tags, so
// 2 == 2.0 holds.
func (v Value) Equal(o Value) bool {
	if v.IsNumeric() && o.IsNumeric() {
		a, _ := v.AsComplex()
		b, _ := o.AsComplex()
		return a == b
	}
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeBool:
		return v.Bool == o.Bool
	case TypeInfinity:
		return true
	case TypeVector, TypeMatrix:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case TypeSet:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for _, e := range v.Elems {
			if !containsValue(o.Elems, e) {
				return false
			}
		}
		return true
	}
	return false
}

func containsValue(elems []Value, v Value) bool {
	for _, e := range elems {
		if e.Equal(v) {
			return true
		}
	}
	return false
}

// Format returns a string representation of the value.
func (v Value) Format() string {
	switch v.Type {
	case TypeBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case TypeInt:
		return strconv.FormatInt(v.Int, 10)
	case TypeReal:
		return formatReal(v.Real)
	case TypeComplex:
		re, im := real(v.Cmplx), imag(v.Cmplx)
		if im == 0 {
			return formatReal(re)
		}
		if re == 0 {
			return formatReal(im) + "i"
		}
		if im < 0 {
			return fmt.Sprintf("%s-%si", formatReal(re), formatReal(-im))
		}
		return fmt.Sprintf("%s+%si", formatReal(re), formatReal(im))
	case TypeInfinity:
		return "inf"
	case TypeVector:
		return "[" + joinElems(v.Elems) + "]"
	case TypeMatrix:
		rows := make([]string, len(v.Elems))
		for i, r := range v.Elems {
			rows[i] = r.Format()
		}
		return "[" + strings.Join(rows, ", ") + "]"
	case TypeSet:
		return "{" + joinElems(v.Elems) + "}"
	}
	return "?"
}

func joinElems(elems []Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.Format()
	}
	return strings.Join(parts, ", ")
}

func formatReal(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
