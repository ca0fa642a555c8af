package term_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mathexpr/pkg/expr/term"
)

func eval(t *testing.T, src string, env term.Env) term.Value {
	t.Helper()
	tr, err := term.Parse(src)
	require.NoError(t, err, "parsing %q", src)
	v, err := term.Eval(tr, env)
	require.NoError(t, err, "evaluating %q", src)
	return v
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want term.Value
	}{
		{"1+2", term.IntValue(3)},
		{"2-5", term.IntValue(-3)},
		{"a-b+c", term.IntValue(0)}, // with a=1 b=2 c=1 below
		{"2*3*4", term.IntValue(24)},
		{"6/3", term.IntValue(2)},
		{"6/4", term.RealValue(1.5)},
		{"2^10", term.IntValue(1024)},
		{"2^0", term.IntValue(1)},
		{"1.5+1.5", term.RealValue(3)},
		{"-(2+3)", term.IntValue(-5)},
		{"3x", term.IntValue(3)}, // x=1
		{"mod(17,5)", term.IntValue(2)},
		{"gcd(12,18)", term.IntValue(6)},
		{"binom(5,2)", term.IntValue(10)},
		{"floor(3.7)", term.IntValue(3)},
		{"round(3.5)", term.IntValue(4)},
		{"sgn(-2.5)", term.IntValue(-1)},
		{"abs(-3)", term.IntValue(3)},
		{"|2-5|", term.IntValue(3)},
	}
	env := term.Env{
		"a": term.IntValue(1),
		"b": term.IntValue(2),
		"c": term.IntValue(1),
		"x": term.IntValue(1),
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := eval(t, tt.src, env)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want.Format(), got.Format())
		})
	}
}

func TestEvalBooleans(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"true", true},
		{"!true", false},
		{"true && false", false},
		{"true || false", true},
		{"1 < 2", true},
		{"2 <= 1", false},
		{"3 > 2", true},
		{"2 >= 2", true},
		{"1+1 == 2", true},
		{"2 == 2.0", true},
		{"1 != 2", true},
		{"{1,2} == {2,1}", true},
		{"[1,2] == [2,1]", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := eval(t, tt.src, nil)
			require.Equal(t, term.TypeBool, got.Type)
			assert.Equal(t, tt.want, got.Bool)
		})
	}
}

func TestEvalComplex(t *testing.T) {
	v := eval(t, "i*i", nil)
	require.Equal(t, term.TypeComplex, v.Type)
	assert.Equal(t, complex(-1, 0), v.Cmplx)

	v = eval(t, "abs(3+4i)", nil)
	r, ok := v.AsReal()
	require.True(t, ok)
	assert.InDelta(t, 5, r, 1e-12)

	v = eval(t, "re(2+3i)", nil)
	assert.Equal(t, term.RealValue(2), v)

	v = eval(t, "im(2+3i)", nil)
	assert.Equal(t, term.RealValue(3), v)

	v = eval(t, "sqrt(-4)", nil)
	require.Equal(t, term.TypeComplex, v.Type)
	assert.InDelta(t, 2, imag(v.Cmplx), 1e-12)
}

func TestEvalTrigAndConstants(t *testing.T) {
	v := eval(t, "sin(pi)", nil)
	r, ok := v.AsReal()
	require.True(t, ok)
	assert.InDelta(t, 0, r, 1e-12)

	v = eval(t, "ln(e)", nil)
	r, _ = v.AsReal()
	assert.InDelta(t, 1, r, 1e-12)

	v = eval(t, "log(2,8)", nil)
	r, _ = v.AsReal()
	assert.InDelta(t, 3, r, 1e-12)

	v = eval(t, "sin x", term.Env{"x": term.RealValue(math.Pi / 2)})
	r, _ = v.AsReal()
	assert.InDelta(t, 1, r, 1e-12)
}

func TestEvalVectorsAndMatrices(t *testing.T) {
	v := eval(t, "[1,2]+[3,4]", nil)
	assert.Equal(t, "[4, 6]", v.Format())

	v = eval(t, "2*[1,2,3]", nil)
	assert.Equal(t, "[2, 4, 6]", v.Format())

	v = eval(t, "det([[1,2],[3,4]])", nil)
	assert.Equal(t, term.IntValue(-2), v)

	v = eval(t, "transpose([[1,2],[3,4]])", nil)
	assert.Equal(t, "[[1, 3], [2, 4]]", v.Format())

	v = eval(t, "[[1,0],[0,1]]*[[4,7],[2,6]]", nil)
	assert.Equal(t, "[[4, 7], [2, 6]]", v.Format())

	v = eval(t, "[[1,2],[3,4]]*[5,6]", nil)
	assert.Equal(t, "[17, 39]", v.Format())

	v = eval(t, "cross([1,0,0],[0,1,0])", nil)
	assert.Equal(t, "[0, 0, 1]", v.Format())

	v = eval(t, "norm([3,4])", nil)
	r, _ := v.AsReal()
	assert.InDelta(t, 5, r, 1e-12)

	v = eval(t, "[10,20,30][2]", nil)
	assert.Equal(t, term.IntValue(20), v)

	v = eval(t, "[[1,2],[3,4]][2,1]", nil)
	assert.Equal(t, term.IntValue(3), v)
}

func TestEvalGenerators(t *testing.T) {
	v := eval(t, "zeros<2,3>()", nil)
	require.Equal(t, term.TypeMatrix, v.Type)
	require.Len(t, v.Elems, 2)
	assert.Len(t, v.Elems[0].Elems, 3)

	v = eval(t, "ones<4>()", nil)
	assert.Equal(t, "[1, 1, 1, 1]", v.Format())

	v = eval(t, "id<3>()", nil)
	assert.Equal(t, "[[1, 0, 0], [0, 1, 0], [0, 0, 1]]", v.Format())

	v = eval(t, "rand<2>()", nil)
	require.Equal(t, term.TypeVector, v.Type)
	for _, e := range v.Elems {
		r, ok := e.AsReal()
		require.True(t, ok)
		assert.GreaterOrEqual(t, r, 0.0)
		assert.Less(t, r, 1.0)
	}
}

func TestEvalFolds(t *testing.T) {
	v := eval(t, "sum(k,1,10,k)", nil)
	assert.Equal(t, term.IntValue(55), v)

	v = eval(t, "prod(k,1,5,k)", nil)
	assert.Equal(t, term.IntValue(120), v)

	v = eval(t, "sum(k,1,3,k^2+n)", term.Env{"n": term.IntValue(1)})
	assert.Equal(t, term.IntValue(17), v)

	// Empty range.
	v = eval(t, "sum(k,5,1,k)", nil)
	assert.Equal(t, term.IntValue(0), v)
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unbound variable", "x+1"},
		{"division by zero", "1/0"},
		{"non-square det", "det([[1,2,3],[4,5,6]])"},
		{"boolean and on numbers", "1 && 2"},
		{"comparison on complex", "i < 2i"},
		{"index out of range", "[1,2][3]"},
		{"index on scalar", "x[1]"},
		{"generator without dims", "zeros()"},
		{"fold needs index variable", "sum(1,1,5,1)"},
		{"ragged matrix", "[[1,2],[3]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := term.Env{}
			if tt.name == "index on scalar" {
				env["x"] = term.IntValue(3)
			}
			tr, err := term.Parse(tt.src)
			require.NoError(t, err, "parsing %q", tt.src)
			_, err = term.Eval(tr, env)
			var eerr *term.EvalError
			require.ErrorAs(t, err, &eerr, "source %q", tt.src)
		})
	}
}

func TestEvalSets(t *testing.T) {
	v := eval(t, "{1,2,2,3}", nil)
	require.Equal(t, term.TypeSet, v.Type)
	assert.Len(t, v.Elems, 3)
}

func TestEvalInfinity(t *testing.T) {
	v := eval(t, "inf", nil)
	assert.Equal(t, term.TypeInfinity, v.Type)

	v = eval(t, "-inf", nil)
	r, ok := v.AsReal()
	require.True(t, ok)
	assert.True(t, math.IsInf(r, -1))

	got := eval(t, "1 < inf", nil)
	assert.True(t, got.Bool)
}
