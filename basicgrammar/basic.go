// Package basicgrammar is a BASIC-flavoured arithmetic expression grammar:
// infix + - * /, parentheses, unary minus and the PI and E constants. It is
// the second grammar client of the engine, exercising code-point ranges,
// literal replacement and self-referential rules, and evaluating straight to
// float64 in its transform.
package basicgrammar

import (
	"fmt"
	"strconv"

	"github.com/arr-ai/comb/parser"
)

var (
	grammar = build()
	matcher = parser.Compile(grammar)
)

// Grammar returns the expression grammar term.
func Grammar() parser.Term {
	return grammar
}

// Matcher returns the compiled expression grammar.
func Matcher() *parser.Matcher {
	return matcher
}

func build() parser.Term {
	ws := parser.Discard{Term: parser.Any(parser.S(" "))}
	digit := parser.CodePoint{Lo: '0', Hi: '9'}
	numeral := parser.Flatten{Term: parser.Seq{
		parser.Some(digit),
		parser.Opt(parser.Seq{parser.S("."), parser.Some(digit)}),
	}}
	// Constants substitute their numeral text, so "number" sees one shape.
	number := parser.Name("number", parser.Oneof{
		numeral,
		parser.Replace{Term: parser.S("PI"), With: "3.141592653589793"},
		parser.Replace{Term: parser.S("E"), With: "2.718281828459045"},
	})

	factor := parser.Name("factor", parser.Oneof{
		number,
		parser.Seq{
			parser.Discard{Term: parser.S("(")}, ws,
			parser.REF("sum"), ws,
			parser.Discard{Term: parser.S(")")},
		},
		parser.Seq{parser.S("-"), ws, parser.REF("factor")},
	})
	product := parser.Name("product", parser.Seq{
		factor,
		parser.Any(parser.Seq{ws, parser.Oneof{parser.S("*"), parser.S("/")}, ws, parser.REF("factor")}),
	})
	sum := parser.Name("sum", parser.Seq{
		product,
		parser.Any(parser.Seq{ws, parser.Oneof{parser.S("+"), parser.S("-")}, ws, parser.REF("product")}),
	})

	return parser.Seq{ws, sum, ws}
}

// evaluate folds a labelled node to a float64. Operator tokens arrive as
// their raw text between operand values.
func evaluate(label string, children []interface{}) (interface{}, error) {
	switch label {
	case "number":
		n, err := strconv.ParseFloat(children[0].(string), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", children[0], err)
		}
		return n, nil
	case "factor":
		if len(children) == 2 {
			return -children[1].(float64), nil
		}
		return children[0], nil
	case "product", "sum":
		acc := children[0].(float64)
		for i := 1; i < len(children); i += 2 {
			rhs := children[i+1].(float64)
			switch op := children[i].(string); op {
			case "+":
				acc += rhs
			case "-":
				acc -= rhs
			case "*":
				acc *= rhs
			case "/":
				if rhs == 0 {
					return nil, fmt.Errorf("division by zero")
				}
				acc /= rhs
			}
		}
		return acc, nil
	}
	return nil, fmt.Errorf("unknown label %q", label)
}

// Eval parses and evaluates a BASIC-style arithmetic expression.
func Eval(input string) (float64, error) {
	tree, err := matcher.Match(input)
	if err != nil {
		return 0, err
	}
	v, err := parser.Transform(tree, evaluate)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}
