package parser

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMatch(t *testing.T, term Term, input string, expected TreeElement) bool {
	t.Helper()
	v, err := Match(term, input)
	return assert.NoError(t, err) && assert.Equal(t, expected, v)
}

func assertMatchError(t *testing.T, term Term, input string, kind ErrorKind, offset int) *Error {
	t.Helper()
	v, err := Match(term, input)
	require.Error(t, err)
	assert.Nil(t, v)
	e := err.(*Error)
	assert.Equal(t, kind, e.Kind)
	assert.Equal(t, offset, e.Offset())
	return e
}

func tokenAtOffset(text string, src string, start int) Token {
	return NewToken(text, *NewScannerAt(src, start, len(text)))
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	assertMatch(t, S("foo"), "foo", tokenAtOffset("foo", "foo", 0))

	e := assertMatchError(t, S("foo"), "", KindExpected, 0)
	assert.Equal(t, `Expected("foo") at 0`, e.Error())

	assertMatchError(t, S("foo"), "fo", KindExpected, 0)

	e = assertMatchError(t, S("foo"), "foo ", KindUnexpectedToken, 3)
	assert.Equal(t, `Unexpected token ' ' at 3`, e.Error())
}

func TestCodePoint(t *testing.T) {
	t.Parallel()

	digit := CodePoint{Lo: '0', Hi: '9'}
	assertMatch(t, digit, "7", tokenAtOffset("7", "7", 0))
	assertMatchError(t, digit, "x", KindExpected, 0)
	assertMatchError(t, digit, "", KindExpected, 0)

	wide := CodePoint{Lo: 0x80, Hi: 0x10FFFF}
	assertMatch(t, wide, "é", tokenAtOffset("é", "é", 0))
	assertMatchError(t, wide, "e", KindExpected, 0)
}

func TestSeq(t *testing.T) {
	t.Parallel()

	src := "foobar"
	assertMatch(t, Seq{S("foo"), S("bar")}, src, Node{Children: []TreeElement{
		tokenAtOffset("foo", src, 0),
		tokenAtOffset("bar", src, 3),
	}})

	// The failing item's error propagates with its own offset, not the
	// sequence start's.
	e := assertMatchError(t, Seq{S("foo"), S("bar")}, "fooqux", KindUnexpectedToken, 3)
	assert.Equal(t, `Unexpected token "qux" at 3 (expected "bar")`, e.Error())
}

func TestSeqSplicesUntaggedChildren(t *testing.T) {
	t.Parallel()

	src := "abc"
	term := Seq{S("a"), Seq{S("b"), Seq{S("c")}}}
	assertMatch(t, term, src, Node{Children: []TreeElement{
		tokenAtOffset("a", src, 0),
		tokenAtOffset("b", src, 1),
		tokenAtOffset("c", src, 2),
	}})
}

func TestOneofFirstMatchWins(t *testing.T) {
	t.Parallel()

	// First success wins even when a later alternative would consume more.
	assertMatchError(t, Oneof{S("a"), S("ab")}, "ab", KindUnexpectedToken, 1)
	assertMatch(t, Oneof{S("ab"), S("a")}, "ab", tokenAtOffset("ab", "ab", 0))
}

func TestOneofBestEffortError(t *testing.T) {
	t.Parallel()

	term := Oneof{
		Seq{S("foo"), S("bar")},
		Seq{Some(S("foo")), S("baz")},
	}
	e := assertMatchError(t, term, "foofoobar", KindUnexpectedToken, 6)
	assert.Equal(t, `Unexpected token "bar" at 6 (expected "baz")`, e.Error())
}

func TestOneofTieKeepsEarliestAlternative(t *testing.T) {
	t.Parallel()

	e := assertMatchError(t, Oneof{S("foo"), S("fob")}, "qux", KindExpected, 0)
	assert.Equal(t, "foo", e.Desc)
}

func TestOptionalNeverFails(t *testing.T) {
	t.Parallel()

	assertMatch(t, Opt(S("foo")), "", Node{})
	assertMatch(t, Opt(S("foo")), "foo", tokenAtOffset("foo", "foo", 0))

	// An optional that cannot match consumes nothing.
	src := "bar"
	assertMatch(t, Seq{Opt(S("foo")), S("bar")}, src, Node{Children: []TreeElement{
		tokenAtOffset("bar", src, 0),
	}})
}

func TestZeroOrMore(t *testing.T) {
	t.Parallel()

	src := "foofoo"
	assertMatch(t, Any(S("foo")), src, Node{Children: []TreeElement{
		tokenAtOffset("foo", src, 0),
		tokenAtOffset("foo", src, 3),
	}})
	assertMatch(t, Any(S("foo")), "", Node{})
}

func TestZeroOrMoreZeroWidthTerminates(t *testing.T) {
	t.Parallel()

	// A zero-width success ends the loop without adding an empty child.
	assertMatch(t, Any(Opt(S("foo"))), "", Node{})

	src := "foofoo"
	assertMatch(t, Any(Opt(S("foo"))), src, Node{Children: []TreeElement{
		tokenAtOffset("foo", src, 0),
		tokenAtOffset("foo", src, 3),
	}})

	assertMatch(t, Any(Any(S("foo"))), "", Node{})
}

func TestOneOrMore(t *testing.T) {
	t.Parallel()

	src := "foo"
	assertMatch(t, Some(S("foo")), src, Node{Children: []TreeElement{
		tokenAtOffset("foo", src, 0),
	}})

	e := assertMatchError(t, Some(S("foo")), "bar", KindExpected, 0)
	assert.Equal(t, "foo", e.Desc)
}

func TestQuantBounds(t *testing.T) {
	t.Parallel()

	src := "aaa"
	assertMatch(t, Seq{Quant{Term: S("a"), Min: 0, Max: 2}, S("a")}, src, Node{Children: []TreeElement{
		tokenAtOffset("a", src, 0),
		tokenAtOffset("a", src, 1),
		tokenAtOffset("a", src, 2),
	}})

	assertMatchError(t, Quant{Term: S("a"), Min: 3}, "aa", KindUnexpectedToken, 2)
}

func TestQuantZeroWidthBelowMinFails(t *testing.T) {
	t.Parallel()

	// The inner term succeeds without consuming, so the loop stops before
	// Min; that is a failure, not a success with no tree.
	v, err := Match(Quant{Term: Opt(S("x")), Min: 2}, "")
	assert.Nil(t, v)
	require.Error(t, err)
	assert.Equal(t, 0, err.(*Error).Offset())
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	v, err := Match(Flatten{Term: Opt(S("foo"))}, "")
	require.NoError(t, err)
	tok := v.(Token)
	assert.Equal(t, "", tok.Text)
	assert.False(t, tok.HasSource())

	v, err = Match(Flatten{Term: Opt(S("foo"))}, "foo")
	require.NoError(t, err)
	tok = v.(Token)
	assert.Equal(t, "foo", tok.Text)
	assert.Equal(t, 0, tok.Offset())
	assert.Equal(t, 3, tok.EndOffset())
}

func TestFlattenSpansFragments(t *testing.T) {
	t.Parallel()

	term := Flatten{Term: Seq{S("a"), Discard{Term: S("b")}, Replace{Term: S("c"), With: "Z"}}}
	v, err := Match(term, "abc")
	require.NoError(t, err)
	tok := v.(Token)
	assert.Equal(t, "aZ", tok.Text)
	assert.Equal(t, 0, tok.Offset())
	assert.Equal(t, 3, tok.EndOffset())
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	// Discard drops the value but still consumes all six characters.
	assertMatch(t, Discard{Term: Seq{S("foo"), S("bar")}}, "foobar", Node{})
}

func TestReplace(t *testing.T) {
	t.Parallel()

	v, err := Match(Replace{Term: S("foo"), With: "X"}, "foo")
	require.NoError(t, err)
	tok := v.(Token)
	assert.Equal(t, "X", tok.Text)
	assert.Equal(t, 0, tok.Offset())
	assert.Equal(t, 3, tok.EndOffset())
}

func TestNamedWrapping(t *testing.T) {
	t.Parallel()

	// A token becomes the sole child.
	src := "x"
	assertMatch(t, Name("a", S("x")), src, Node{Tag: "a", Children: []TreeElement{
		tokenAtOffset("x", src, 0),
	}})

	// An untagged node's children are adopted directly.
	src = "xy"
	assertMatch(t, Name("a", Seq{S("x"), S("y")}), src, Node{Tag: "a", Children: []TreeElement{
		tokenAtOffset("x", src, 0),
		tokenAtOffset("y", src, 1),
	}})

	// A tagged node stays a single child.
	src = "x"
	assertMatch(t, Name("a", Name("b", S("x"))), src, Node{Tag: "a", Children: []TreeElement{
		Node{Tag: "b", Children: []TreeElement{tokenAtOffset("x", src, 0)}},
	}})
}

func TestReferenceRecursion(t *testing.T) {
	t.Parallel()

	expr := Name("expr", Oneof{
		S("x"),
		Seq{Discard{Term: S("(")}, REF("expr"), Discard{Term: S(")")}},
	})

	m := Compile(expr)
	for depth := 0; depth <= 100; depth++ {
		input := strings.Repeat("(", depth) + "x" + strings.Repeat(")", depth)
		v, err := m.Match(input)
		require.NoError(t, err, "depth %d", depth)

		n := v.(Node)
		for i := 0; i < depth; i++ {
			require.Equal(t, "expr", n.Tag)
			require.Equal(t, 1, n.Count())
			n = n.Children[0].(Node)
		}
		assert.Equal(t, "expr", n.Tag)
		assert.Equal(t, "x", n.Children[0].(Token).Text)
	}
}

func TestUnknownReferencePanics(t *testing.T) {
	t.Parallel()

	m := Compile(Seq{Name("a", S("x")), REF("nosuch")})
	assert.PanicsWithValue(t, BadReferenceError{Name: "nosuch"}, func() {
		_, _ = m.Match("xy")
	})
}

func TestOffsetsAreRuneUnits(t *testing.T) {
	t.Parallel()

	// "é" is two bytes but one character; the residue offset is 1, not 2.
	e := assertMatchError(t, S("é"), "éx", KindUnexpectedToken, 1)
	assert.Equal(t, `Unexpected token 'x' at 1`, e.Error())
}

func TestMatcherIsReusableConcurrently(t *testing.T) {
	t.Parallel()

	expr := Name("expr", Oneof{
		S("x"),
		Seq{Discard{Term: S("(")}, REF("expr"), Discard{Term: S(")")}},
	})
	m := Compile(expr)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				if _, err := m.Match("((x))"); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-done)
	}
}

func TestConcurrentMatchingWithTracing(t *testing.T) {
	// Not parallel: trace tracking is exercised through the global logger.
	oldLevel := logrus.GetLevel()
	oldOut := logrus.StandardLogger().Out
	logrus.SetLevel(logrus.TraceLevel)
	logrus.SetOutput(io.Discard)
	defer func() {
		logrus.SetLevel(oldLevel)
		logrus.SetOutput(oldOut)
	}()

	expr := Name("expr", Oneof{
		S("x"),
		Seq{Discard{Term: S("(")}, REF("expr"), Discard{Term: S(")")}},
	})
	m := Compile(expr)

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				if _, err := m.Match("((x))"); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 4; i++ {
		assert.NoError(t, <-done)
	}
}
