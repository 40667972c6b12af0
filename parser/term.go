package parser

import (
	"fmt"
	"strings"
)

// Term is one node of a grammar tree. A grammar is an immutable value; once
// built it is safe to share across any number of concurrent Match calls.
// Cycles are only expressible through Named/REF pairs, which are resolved by
// name when matching rather than by structural linkage.
type Term interface {
	fmt.Stringer

	// match attempts the term against input, writing the produced tree
	// element into output on success. Failures come back as *Error; input is
	// only advanced on success.
	match(m *Matcher, input *Scanner, output *TreeElement) error
}

// S matches an exact, non-empty string.
type S string

// CodePoint matches a single rune in the inclusive range [Lo, Hi].
type CodePoint struct {
	Lo, Hi rune
}

// Seq matches all of its terms consecutively.
type Seq []Term

// Oneof matches the first of its terms to succeed at the current position.
// Order is semantically significant: the first match wins, not the longest.
type Oneof []Term

// Quant matches Term repeatedly. Min is the fewest matches permitted; Max is
// the most, with 0 meaning unbounded. Use the Opt, Any and Some constructors
// rather than building Quant values by hand.
type Quant struct {
	Term Term
	Min  int
	Max  int
}

// Opt matches term zero or one times. It never fails.
func Opt(term Term) Quant {
	return Quant{Term: term, Min: 0, Max: 1}
}

// Any matches term zero or more times. It never fails.
func Any(term Term) Quant {
	return Quant{Term: term}
}

// Some matches term one or more times.
func Some(term Term) Quant {
	return Quant{Term: term, Min: 1}
}

// Flatten coalesces every token matched beneath Term into a single token.
type Flatten struct {
	Term Term
}

// Discard consumes input via Term but drops the produced value.
type Discard struct {
	Term Term
}

// Replace consumes input via Term and substitutes With for the result.
type Replace struct {
	Term Term
	With string
}

// Named tags a grammar subtree with a label. Labels drive transform dispatch
// and are the targets of REF resolution.
type Named struct {
	Name string
	Term Term
}

// Name is sugar for a Named literal.
func Name(name string, term Term) Named {
	return Named{Name: name, Term: term}
}

// REF matches the Named term elsewhere in the grammar that carries this
// name, as if it were substituted in place. This indirection is what lets an
// acyclic grammar value describe recursive structures.
type REF string

func (t S) String() string {
	return fmt.Sprintf("%q", string(t))
}

func (t CodePoint) String() string {
	if t.Lo == t.Hi {
		return fmt.Sprintf("%q", t.Lo)
	}
	return fmt.Sprintf("%q..%q", t.Lo, t.Hi)
}

func joinTerms(terms []Term, sep string) string {
	s := make([]string, 0, len(terms))
	for _, t := range terms {
		s = append(s, t.String())
	}
	return strings.Join(s, sep)
}

func (t Seq) String() string {
	return "(" + joinTerms(t, " ") + ")"
}

func (t Oneof) String() string {
	return "(" + joinTerms(t, " | ") + ")"
}

func (t Quant) String() string {
	switch {
	case t.Min == 0 && t.Max == 1:
		return t.Term.String() + "?"
	case t.Min == 0 && t.Max == 0:
		return t.Term.String() + "*"
	case t.Min == 1 && t.Max == 0:
		return t.Term.String() + "+"
	}
	return fmt.Sprintf("%s{%d,%d}", t.Term, t.Min, t.Max)
}

func (t Flatten) String() string {
	return "flatten(" + t.Term.String() + ")"
}

func (t Discard) String() string {
	return "discard(" + t.Term.String() + ")"
}

func (t Replace) String() string {
	return fmt.Sprintf("replace(%s, %q)", t.Term, t.With)
}

func (t Named) String() string {
	return fmt.Sprintf("%s=%s", t.Name, t.Term)
}

func (t REF) String() string {
	return "%" + string(t)
}
