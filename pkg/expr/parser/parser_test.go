package parser_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mathexpr/pkg/expr/lexer"
	"github.com/agenthands/mathexpr/pkg/expr/parser"
	"github.com/agenthands/mathexpr/pkg/expr/term"
)

func mustParse(t *testing.T, src string, opts ...parser.Option) *term.Term {
	t.Helper()
	tr, err := term.Parse(src, opts...)
	require.NoError(t, err, "parsing %q", src)
	return tr
}

// TestEquivalentSources checks pairs of inputs that must produce
// structurally identical trees.
func TestEquivalentSources(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"coefficient factor", "3x", "3*x"},
		{"juxtaposed variables", "xy", "x*y"},
		{"three factors", "3 x (y+1)", "3*x*(y+1)"},
		{"paren-less unary function", "sin x", "sin(x)"},
		{"absolute value bars", "|x|", "abs(x)"},
		{"redundant parens", "(x)", "x"},
		{"whitespace irrelevant", " 1\t+\n2 ", "1+2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustParse(t, tt.a)
			b := mustParse(t, tt.b)
			assert.True(t, a.Equal(b), "%q -> %s, %q -> %s", tt.a, a, tt.b, b)
		})
	}
}

func TestSplitDisabledKeepsIdentifier(t *testing.T) {
	tr := mustParse(t, "xy", parser.SplitIdentifiers(false))
	require.Equal(t, term.KindVariable, tr.Kind)
	assert.Equal(t, "xy", tr.Name)

	split := mustParse(t, "xy")
	require.Equal(t, term.KindOp, split.Kind)
	assert.Equal(t, "*", split.Name)
	require.Len(t, split.Operands, 2)
}

func TestIntegerLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want int64
	}{
		{"0", 0},
		{"7", 7},
		{"42", 42},
		{"123456789", 123456789},
	}
	for _, tt := range tests {
		tr := mustParse(t, tt.src)
		require.Equal(t, term.KindInteger, tr.Kind, "source %q", tt.src)
		assert.Equal(t, tt.want, tr.Int)
	}
}

func TestLiteralForms(t *testing.T) {
	tr := mustParse(t, "3.25")
	require.Equal(t, term.KindReal, tr.Kind)
	assert.Equal(t, 3.25, tr.Real)

	// With splitting enabled "2i" becomes the factors 2 and i; the
	// imaginary literal itself is reachable with splitting off.
	tr = mustParse(t, "2i", parser.SplitIdentifiers(false))
	require.Equal(t, term.KindComplex, tr.Kind)
	assert.Equal(t, complex(0, 2), tr.Cmplx)

	tr = mustParse(t, "2i")
	require.Equal(t, term.KindOp, tr.Kind)
	assert.Equal(t, "*", tr.Name)

	tr = mustParse(t, "i")
	require.Equal(t, term.KindComplex, tr.Kind)
	assert.Equal(t, complex(0, 1), tr.Cmplx)

	tr = mustParse(t, "pi")
	require.Equal(t, term.KindIrrational, tr.Kind)
	assert.Equal(t, "pi", tr.Name)

	tr = mustParse(t, "inf")
	assert.Equal(t, term.KindInfinity, tr.Kind)

	tr = mustParse(t, "true")
	require.Equal(t, term.KindBool, tr.Kind)
	assert.True(t, tr.Bool)
}

// TestAdditionFolding checks the n-ary "+" fold with unary-negation
// wrapping and the single "-" special case.
func TestAdditionFolding(t *testing.T) {
	tr := mustParse(t, "a-b+c")
	require.Equal(t, "+", tr.Name)
	require.Len(t, tr.Operands, 3)
	assert.Equal(t, term.KindVariable, tr.Operands[0].Kind)
	neg := tr.Operands[1]
	require.Equal(t, "-", neg.Name)
	require.Len(t, neg.Operands, 1)
	assert.Equal(t, "b", neg.Operands[0].Name)

	tr = mustParse(t, "a-b")
	require.Equal(t, "-", tr.Name)
	assert.Len(t, tr.Operands, 2)

	tr = mustParse(t, "a+b+c+d")
	require.Equal(t, "+", tr.Name)
	assert.Len(t, tr.Operands, 4)
}

func TestMultiplicationFolding(t *testing.T) {
	tr := mustParse(t, "a*b*c")
	require.Equal(t, "*", tr.Name)
	assert.Len(t, tr.Operands, 3)

	// Any "/" in the chain forces a strict left-to-right binary fold.
	tr = mustParse(t, "a/b/c")
	require.Equal(t, "/", tr.Name)
	require.Len(t, tr.Operands, 2)
	inner := tr.Operands[0]
	require.Equal(t, "/", inner.Name)
	assert.Equal(t, "a", inner.Operands[0].Name)
	assert.Equal(t, "b", inner.Operands[1].Name)
	assert.Equal(t, "c", tr.Operands[1].Name)

	tr = mustParse(t, "a*b/c")
	require.Equal(t, "/", tr.Name)
	require.Equal(t, "*", tr.Operands[0].Name)
	assert.Len(t, tr.Operands[0].Operands, 2)
}

func TestUnaryMinusBindsProduct(t *testing.T) {
	tr := mustParse(t, "-a*b")
	require.Equal(t, "-", tr.Name)
	require.Len(t, tr.Operands, 1)
	assert.Equal(t, "*", tr.Operands[0].Name)
}

func TestPowerNonChaining(t *testing.T) {
	tr := mustParse(t, "a^b")
	require.Equal(t, "^", tr.Name)

	_, err := term.Parse("a^b^c")
	var serr *parser.SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, parser.TagTrailingInput, serr.Tag)
}

func TestComparisonsNonChaining(t *testing.T) {
	for _, src := range []string{"a==b==c", "a<b<c", "a&&b&&c", "a||b||c"} {
		_, err := term.Parse(src)
		var serr *parser.SyntaxError
		require.ErrorAs(t, err, &serr, "source %q", src)
		assert.Equal(t, parser.TagTrailingInput, serr.Tag, "source %q", src)
	}
	tr := mustParse(t, "a==b")
	assert.Equal(t, "==", tr.Name)
	tr = mustParse(t, "a<=b&&c>d")
	assert.Equal(t, "&&", tr.Name)
}

func TestVectorAndMatrixLiterals(t *testing.T) {
	tr := mustParse(t, "[1,2,3]")
	require.Equal(t, "vector", tr.Name)
	assert.Len(t, tr.Operands, 3)

	tr = mustParse(t, "[[1,2],[3,4]]")
	require.Equal(t, "matrix", tr.Name)
	require.Len(t, tr.Operands, 2)
	for _, row := range tr.Operands {
		require.Equal(t, "vector", row.Name)
		assert.Len(t, row.Operands, 2)
	}
}

func TestSetLiterals(t *testing.T) {
	tr := mustParse(t, "{1,2,3}")
	require.Equal(t, "set", tr.Name)
	assert.Len(t, tr.Operands, 3)

	// Empty sets are not supported.
	_, err := term.Parse("{}")
	var serr *parser.SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, parser.TagUnexpectedToken, serr.Tag)
}

func TestDimensionLists(t *testing.T) {
	tr := mustParse(t, "zeros<2,3>()")
	require.Equal(t, "zeros", tr.Name)
	assert.Empty(t, tr.Operands)
	require.Len(t, tr.Dims, 2)
	assert.Equal(t, int64(2), tr.Dims[0].Int)
	assert.Equal(t, int64(3), tr.Dims[1].Int)

	// Omitting the parentheses is a syntax error for a nullary function.
	_, err := term.Parse("zeros<2,3>")
	var serr *parser.SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, parser.TagExpectedOpenParen, serr.Tag)

	_, err = term.Parse("zeros")
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, parser.TagExpectedOpenParen, serr.Tag)
}

func TestFunctionArity(t *testing.T) {
	mustParse(t, "log(2,8)")
	mustParse(t, "sum(k,1,10,k^2)")

	tests := []struct {
		src string
	}{
		{"sin(x,y)"},
		{"sin()"},
		{"log(2)"},
		{"sum(k,1,10)"},
	}
	for _, tt := range tests {
		_, err := term.Parse(tt.src)
		var serr *parser.SyntaxError
		require.ErrorAs(t, err, &serr, "source %q", tt.src)
		assert.Equal(t, parser.TagWrongArgCount, serr.Tag, "source %q", tt.src)
	}
}

func TestPostfixIndexing(t *testing.T) {
	tr := mustParse(t, "v[2]")
	require.Equal(t, "index", tr.Name)
	require.Len(t, tr.Operands, 2)

	tr = mustParse(t, "m[1,2]")
	require.Equal(t, "index2", tr.Name)
	require.Len(t, tr.Operands, 3)

	// Postfix indexing is unreachable after a unary "!".
	_, err := term.Parse("!b[1]")
	var serr *parser.SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, parser.TagTrailingInput, serr.Tag)
}

func TestSyntaxErrorTags(t *testing.T) {
	tests := []struct {
		src string
		tag parser.Tag
	}{
		{"(1+2", parser.TagExpectedCloseParen},
		{"[1,2", parser.TagExpectedCloseBracket},
		{"{1,2", parser.TagExpectedCloseBrace},
		{"zeros<2(", parser.TagExpectedCloseAngle},
		{"|1+2", parser.TagExpectedCloseBar},
		{"1+2)", parser.TagTrailingInput},
		{"1+", parser.TagUnexpectedEnd},
		{"", parser.TagUnexpectedEnd},
		{"+", parser.TagUnexpectedToken},
		{"1+*2", parser.TagUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := term.Parse(tt.src)
			var serr *parser.SyntaxError
			require.ErrorAs(t, err, &serr, "source %q", tt.src)
			assert.Equal(t, tt.tag, serr.Tag)
			assert.NotEmpty(t, err.Error())
		})
	}
}

func TestDeterministicOutsideChoices(t *testing.T) {
	for _, src := range []string{"1+2*3", "sin x^2", "[[1,2],[3,4]]", "a&&b||c==d"} {
		a := mustParse(t, src)
		b := mustParse(t, src)
		assert.True(t, a.Equal(b), "source %q", src)
	}
}

func TestRandomizedAlternatives(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	plus := mustParse(t, "1+2")
	minus := mustParse(t, "1-2")
	seen := map[string]int{}
	for i := 0; i < 200; i++ {
		tr := mustParse(t, "1{+|-}2", parser.WithRand(rng))
		switch {
		case tr.Equal(plus):
			seen["+"]++
		case tr.Equal(minus):
			seen["-"]++
		default:
			t.Fatalf("unexpected tree %s", tr)
		}
	}
	assert.Positive(t, seen["+"])
	assert.Positive(t, seen["-"])
}

func TestTokensIntrospection(t *testing.T) {
	p := parser.New("3x", term.Builder{})
	assert.Equal(t, []lexer.Token{"3", "x", lexer.EOS}, p.Tokens())

	p = parser.New("3x", term.Builder{}, parser.SplitIdentifiers(false))
	assert.Equal(t, []lexer.Token{"3x", lexer.EOS}, p.Tokens())
}

func TestErrorsAreSyntaxErrors(t *testing.T) {
	_, err := term.Parse("((")
	require.Error(t, err)
	var serr *parser.SyntaxError
	assert.True(t, errors.As(err, &serr))
}
