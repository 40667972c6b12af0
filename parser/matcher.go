package parser

import (
	"github.com/arr-ai/frozen"
)

// Matcher is a grammar compiled for matching: the root term plus the label
// registry derived from it. A Matcher is immutable and safe for concurrent
// use.
type Matcher struct {
	root Term
	refs frozen.Map[string, Named]
}

// Compile builds the label registry for a grammar. The registry is derived
// once here, proportional to grammar size, so repeated Match calls pay
// nothing to resolve references.
func Compile(root Term) *Matcher {
	return &Matcher{root: root, refs: buildRegistry(root)}
}

// Grammar returns the root term the matcher was compiled from.
func (m *Matcher) Grammar() Term {
	return m.root
}

// Match matches the whole input against the grammar. A success accounts for
// 100% of the input; residue after a structurally successful match is an
// UnexpectedToken failure at the offset where consumption stopped.
func (m *Matcher) Match(input string) (TreeElement, error) {
	return m.MatchScanner(NewScanner(input))
}

// MatchScanner is Match over an existing scanner, so callers can attach a
// filename for diagnostics.
func (m *Matcher) MatchScanner(input *Scanner) (TreeElement, error) {
	var v TreeElement
	if err := m.root.match(m, input, &v); err != nil {
		return nil, externalize(err.(*Error))
	}
	if input.sliceLength > 0 {
		return nil, unexpectedTokenError("", *input)
	}
	return v, nil
}

// Match is the convenience entry point: compile and match in one call.
// Callers matching the same grammar repeatedly should Compile once instead.
func Match(root Term, input string) (TreeElement, error) {
	return Compile(root).Match(input)
}

// externalize converts the engine's internal failure into its outward form.
// A failure part way into the input means some of it was already accounted
// for, which reads better as an unexpected token carrying the expectation.
func externalize(e *Error) error {
	if e.Kind == KindExpected && e.at.ByteOffset() > 0 {
		return unexpectedTokenError(e.Desc, e.at)
	}
	return e
}

// appendChild splices the children of untagged nodes into the accumulating
// list, so that sequence, repetition and optional terms never introduce
// nesting of their own. Only Named terms create a nesting boundary.
func appendChild(children []TreeElement, v TreeElement) []TreeElement {
	if n, ok := v.(Node); ok && n.Tag == "" {
		return append(children, n.Children...)
	}
	return append(children, v)
}

func (t S) match(_ *Matcher, input *Scanner, output *TreeElement) error {
	var eaten Scanner
	if !input.EatString(string(t), &eaten) {
		return expectedError(string(t), *input)
	}
	*output = NewToken(eaten.String(), eaten)
	return nil
}

func (t CodePoint) match(_ *Matcher, input *Scanner, output *TreeElement) error {
	var eaten Scanner
	if !input.EatRuneInRange(t.Lo, t.Hi, &eaten) {
		return expectedError(t.String(), *input)
	}
	*output = NewToken(eaten.String(), eaten)
	return nil
}

func (t Seq) match(m *Matcher, input *Scanner, output *TreeElement) (out error) {
	defer enterf("seq %v", t).exitf("%v %v", &out, output)
	entry := *input
	result := make([]TreeElement, 0, len(t))
	for _, item := range t {
		var v TreeElement
		if err := item.match(m, input, &v); err != nil {
			// The failing item's error propagates untouched: its offset is
			// the diagnostic, not the sequence start.
			*input = entry
			return err
		}
		result = appendChild(result, v)
	}
	*output = Node{Children: result}
	return nil
}

func (t Oneof) match(m *Matcher, input *Scanner, output *TreeElement) (out error) {
	defer enterf("oneof %v", t).exitf("%v %v", &out, output)
	var furthest *Error
	for _, item := range t {
		var v TreeElement
		start := *input
		if err := item.match(m, &start, &v); err != nil {
			// Best-effort selection: the alternative that progressed
			// furthest is assumed the most informative. Ties keep the
			// earliest-listed alternative's error.
			e := err.(*Error)
			if furthest == nil || e.at.ByteOffset() > furthest.at.ByteOffset() {
				furthest = e
			}
			continue
		}
		*input = start
		*output = v
		return nil
	}
	if furthest == nil {
		return expectedError(t.String(), *input)
	}
	return furthest
}

func (t Quant) match(m *Matcher, input *Scanner, output *TreeElement) (out error) {
	defer enterf("quant %v", t).exitf("%v %v", &out, output)
	if t.Min == 0 && t.Max == 1 {
		// Optional: the inner result passes through untouched on success;
		// any failure becomes an empty match. Optional never fails.
		start := *input
		var v TreeElement
		if err := t.Term.match(m, &start, &v); err != nil {
			*output = Node{}
			return nil
		}
		*input = start
		*output = v
		return nil
	}

	entry := *input
	var result []TreeElement
	matched := 0
	var lastErr error
	for i := 0; t.Max == 0 || i < t.Max; i++ {
		start := *input
		var v TreeElement
		if err := t.Term.match(m, &start, &v); err != nil {
			lastErr = err
			break
		}
		matched++
		if start.ByteOffset() == input.ByteOffset() {
			// A zero-width success would repeat forever; treat it as the
			// terminating condition and add no empty child.
			break
		}
		*input = start
		result = appendChild(result, v)
	}
	if matched < t.Min {
		*input = entry
		if lastErr == nil {
			// The loop can stop without an inner failure when a zero-width
			// success terminates it before Min is reached.
			lastErr = expectedError(t.String(), entry)
		}
		return lastErr
	}
	*output = Node{Children: result}
	return nil
}

func (t Flatten) match(m *Matcher, input *Scanner, output *TreeElement) error {
	var v TreeElement
	if err := t.Term.match(m, input, &v); err != nil {
		return err
	}
	var tokens []Token
	collectTokens(v, &tokens)
	if len(tokens) == 0 {
		*output = Token{}
		return nil
	}
	text := ""
	sources := make([]Scanner, 0, len(tokens))
	for _, tok := range tokens {
		text += tok.Text
		if tok.HasSource() {
			sources = append(sources, tok.Source)
		}
	}
	if len(sources) == 0 {
		*output = Token{Text: text}
		return nil
	}
	merged, err := MergeScanners(sources...)
	if err != nil {
		return err
	}
	*output = NewToken(text, merged)
	return nil
}

// collectTokens gathers every token beneath e in document order.
func collectTokens(e TreeElement, tokens *[]Token) {
	switch e := e.(type) {
	case Token:
		*tokens = append(*tokens, e)
	case Node:
		for _, child := range e.Children {
			collectTokens(child, tokens)
		}
	}
}

func (t Discard) match(m *Matcher, input *Scanner, output *TreeElement) error {
	var v TreeElement
	if err := t.Term.match(m, input, &v); err != nil {
		return err
	}
	*output = Node{}
	return nil
}

func (t Replace) match(m *Matcher, input *Scanner, output *TreeElement) error {
	entry := *input
	var v TreeElement
	if err := t.Term.match(m, input, &v); err != nil {
		return err
	}
	consumed := entry.Slice(0, input.ByteOffset()-entry.ByteOffset())
	*output = NewToken(t.With, *consumed)
	return nil
}

func (t Named) match(m *Matcher, input *Scanner, output *TreeElement) (out error) {
	defer enterf("%s", t.Name).exitf("%v %v", &out, output)
	var v TreeElement
	if err := t.Term.match(m, input, &v); err != nil {
		return err
	}
	if n, ok := v.(Node); ok && n.Tag == "" {
		*output = Node{Tag: t.Name, Children: n.Children}
	} else {
		*output = Node{Tag: t.Name, Children: []TreeElement{v}}
	}
	return nil
}

func (t REF) match(m *Matcher, input *Scanner, output *TreeElement) error {
	bound, has := m.refs.Get(string(t))
	if !has {
		panic(BadReferenceError{Name: string(t)})
	}
	return bound.match(m, input, output)
}
