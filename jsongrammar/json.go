// Package jsongrammar is a JSON parser built as a client of the combinator
// engine. It exists to exercise the engine end to end: labelled recursion
// through references, token flattening, literal replacement for escapes, and
// a transform down to native Go values.
package jsongrammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arr-ai/comb/parser"
)

var (
	grammar = build()
	matcher = parser.Compile(grammar)
)

// Grammar returns the JSON grammar term.
func Grammar() parser.Term {
	return grammar
}

// Matcher returns the compiled JSON grammar, for callers that want the raw
// match tree.
func Matcher() *parser.Matcher {
	return matcher
}

func build() parser.Term {
	ws := parser.Discard{Term: parser.Any(parser.Oneof{
		parser.S(" "), parser.S("\t"), parser.S("\n"), parser.S("\r"),
	})}
	digit := parser.CodePoint{Lo: '0', Hi: '9'}
	hex := parser.Oneof{
		digit,
		parser.CodePoint{Lo: 'a', Hi: 'f'},
		parser.CodePoint{Lo: 'A', Hi: 'F'},
	}

	number := parser.Name("number", parser.Flatten{Term: parser.Seq{
		parser.Opt(parser.S("-")),
		parser.Oneof{
			parser.S("0"),
			parser.Seq{parser.CodePoint{Lo: '1', Hi: '9'}, parser.Any(digit)},
		},
		parser.Opt(parser.Seq{parser.S("."), parser.Some(digit)}),
		parser.Opt(parser.Seq{
			parser.Oneof{parser.S("e"), parser.S("E")},
			parser.Opt(parser.Oneof{parser.S("+"), parser.S("-")}),
			parser.Some(digit),
		}),
	}})

	// Everything a string may contain outside an escape: anything but the
	// closing quote, the backslash and the control range.
	unescaped := parser.Oneof{
		parser.CodePoint{Lo: 0x20, Hi: 0x21},
		parser.CodePoint{Lo: 0x23, Hi: 0x5B},
		parser.CodePoint{Lo: 0x5D, Hi: 0x10FFFF},
	}
	escape := parser.Seq{
		parser.Discard{Term: parser.S(`\`)},
		parser.Oneof{
			parser.S(`"`),
			parser.S(`\`),
			parser.S("/"),
			parser.Replace{Term: parser.S("b"), With: "\b"},
			parser.Replace{Term: parser.S("f"), With: "\f"},
			parser.Replace{Term: parser.S("n"), With: "\n"},
			parser.Replace{Term: parser.S("r"), With: "\r"},
			parser.Replace{Term: parser.S("t"), With: "\t"},
			parser.Name("unicode", parser.Flatten{Term: parser.Seq{
				parser.Discard{Term: parser.S("u")}, hex, hex, hex, hex,
			}}),
		},
	}
	str := parser.Name("string", parser.Seq{
		parser.Discard{Term: parser.S(`"`)},
		parser.Any(parser.Oneof{
			parser.Flatten{Term: parser.Some(unescaped)},
			escape,
		}),
		parser.Discard{Term: parser.S(`"`)},
	})

	boolean := parser.Name("boolean", parser.Oneof{parser.S("true"), parser.S("false")})
	null := parser.Name("null", parser.Discard{Term: parser.S("null")})

	member := parser.Name("member", parser.Seq{
		parser.REF("string"), ws,
		parser.Discard{Term: parser.S(":")}, ws,
		parser.REF("value"),
	})
	object := parser.Name("object", parser.Seq{
		parser.Discard{Term: parser.S("{")}, ws,
		parser.Opt(parser.Seq{
			member,
			parser.Any(parser.Seq{ws, parser.Discard{Term: parser.S(",")}, ws, parser.REF("member")}),
		}),
		ws, parser.Discard{Term: parser.S("}")},
	})
	array := parser.Name("array", parser.Seq{
		parser.Discard{Term: parser.S("[")}, ws,
		parser.Opt(parser.Seq{
			parser.REF("value"),
			parser.Any(parser.Seq{ws, parser.Discard{Term: parser.S(",")}, ws, parser.REF("value")}),
		}),
		ws, parser.Discard{Term: parser.S("]")},
	})

	value := parser.Name("value", parser.Oneof{null, boolean, number, str, array, object})

	return parser.Seq{ws, value, ws}
}

// evaluate is the transform callback turning a JSON match tree into native
// values: map[string]interface{}, []interface{}, float64, bool, string and
// nil for null.
func evaluate(label string, children []interface{}) (interface{}, error) {
	switch label {
	case "null":
		return nil, nil
	case "boolean":
		return children[0].(string) == "true", nil
	case "number":
		n, err := strconv.ParseFloat(children[0].(string), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", children[0], err)
		}
		return n, nil
	case "unicode":
		code, err := strconv.ParseUint(children[0].(string), 16, 32)
		if err != nil {
			return nil, fmt.Errorf("bad unicode escape %q: %w", children[0], err)
		}
		return string(rune(code)), nil
	case "string":
		var sb strings.Builder
		for _, chunk := range children {
			sb.WriteString(chunk.(string))
		}
		return sb.String(), nil
	case "member":
		return [2]interface{}{children[0], children[1]}, nil
	case "array":
		return []interface{}(children), nil
	case "object":
		m := make(map[string]interface{}, len(children))
		for _, c := range children {
			kv := c.([2]interface{})
			m[kv[0].(string)] = kv[1]
		}
		return m, nil
	case "value":
		return children[0], nil
	}
	return nil, fmt.Errorf("unknown label %q", label)
}

// Parse parses a complete JSON document into native Go values.
func Parse(input string) (interface{}, error) {
	tree, err := matcher.Match(input)
	if err != nil {
		return nil, err
	}
	return parser.Transform(tree, evaluate)
}
