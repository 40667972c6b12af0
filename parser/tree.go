package parser

import (
	"fmt"

	"github.com/arr-ai/comb/gotree"
)

// TreeElement is one element of the tree produced by a successful match:
// either a Token or a Node. A match's caller owns the tree outright; the
// engine keeps no aliases past the Match call.
type TreeElement interface {
	IsTreeElement()
	fmt.Stringer
}

func (Token) IsTreeElement() {}
func (Node) IsTreeElement()  {}

// Token is a leaf: a run of matched text. Source locates the text in the
// input; it is nil only for a token produced by a zero-width Flatten (an
// Optional beneath it that matched nothing).
type Token struct {
	Text   string
	Source Scanner
}

// NewToken builds a token over the given slice of source.
func NewToken(text string, at Scanner) Token {
	return Token{Text: text, Source: at}
}

// HasSource reports whether the token has a source range.
func (t Token) HasSource() bool {
	return !t.Source.IsNil()
}

// Offset is the rune offset of the token's start in the source.
func (t Token) Offset() int {
	return t.Source.Offset()
}

// EndOffset is the rune offset just past the token's end in the source.
func (t Token) EndOffset() int {
	return t.Source.EndOffset()
}

func (t Token) String() string {
	return fmt.Sprintf("%q", t.Text)
}

// Node is an interior element. Tag is the label of the Named term that
// produced it, or empty for the transparent nodes introduced by sequences,
// repetitions and discards.
type Node struct {
	Tag      string
	Children []TreeElement
}

func NewNode(tag string, children ...TreeElement) Node {
	return Node{Tag: tag, Children: children}
}

func (n Node) Count() int {
	return len(n.Children)
}

// Get retrieves a descendant by child-index path.
func (n Node) Get(path ...int) TreeElement {
	var v TreeElement = n
	for _, i := range path {
		v = v.(Node).Children[i]
	}
	return v
}

func (n Node) GetNode(path ...int) Node {
	return n.Get(path...).(Node)
}

func (n Node) GetToken(path ...int) Token {
	return n.Get(path...).(Token)
}

func (n Node) String() string {
	return fmt.Sprintf("%s", n) //nolint:gosimple
}

func (n Node) Format(state fmt.State, c rune) {
	fmt.Fprint(state, n.Tag)
	format := "%" + string(c)
	fmt.Fprint(state, "[")
	for i, child := range n.Children {
		if i > 0 {
			fmt.Fprint(state, ", ")
		}
		fmt.Fprintf(state, format, child)
	}
	fmt.Fprint(state, "]")
}

// Dump renders the tree in a multi-line layout for debugging.
func Dump(e TreeElement) string {
	t := gotree.New("match")
	dumpInto(t, e)
	return t.Print()
}

func dumpInto(parent gotree.Tree, e TreeElement) {
	switch e := e.(type) {
	case Token:
		if e.HasSource() {
			parent.Add(fmt.Sprintf("%q @ %d..%d", e.Text, e.Offset(), e.EndOffset()))
		} else {
			parent.Add(fmt.Sprintf("%q", e.Text))
		}
	case Node:
		tag := e.Tag
		if tag == "" {
			tag = "(seq)"
		}
		t := gotree.New(tag)
		for _, child := range e.Children {
			dumpInto(t, child)
		}
		parent.AddTree(t)
	}
}
