package parser

// TransformFunc is the user callback applied, bottom-up, to every labelled
// node of a match tree. children holds the already-transformed values
// beneath the node, flattened across any untagged structural levels, in
// document order. Returning Skip drops the node's value from its parent's
// child list; returning an error aborts the whole transform.
type TransformFunc func(label string, children []interface{}) (interface{}, error)

type skipValue struct{}

func (skipValue) String() string { return "skip" }

// Skip is the value a TransformFunc returns to signal "no value". It is also
// what Transform returns when the entire tree transformed away.
var Skip interface{} = skipValue{}

// Transform walks the tree depth-first, transforming children before
// parents. Untagged nodes do not invoke fn; their values bubble up to the
// nearest labelled ancestor. A bare token contributes its raw text.
//
// A callback error comes back as an Error of kind KindCustom stamped with
// the offset of the first token beneath the failing node; no partial result
// survives.
func Transform(e TreeElement, fn TransformFunc) (interface{}, error) {
	vals, err := transformElement(e, fn)
	if err != nil {
		return nil, err
	}
	switch len(vals) {
	case 0:
		return Skip, nil
	case 1:
		return vals[0], nil
	}
	return vals, nil
}

func transformElement(e TreeElement, fn TransformFunc) ([]interface{}, error) {
	switch e := e.(type) {
	case Token:
		return []interface{}{e.Text}, nil
	case Node:
		var vals []interface{}
		for _, child := range e.Children {
			cv, err := transformElement(child, fn)
			if err != nil {
				return nil, err
			}
			vals = append(vals, cv...)
		}
		if e.Tag == "" {
			return vals, nil
		}
		if vals == nil {
			vals = []interface{}{}
		}
		v, err := fn(e.Tag, vals)
		if err != nil {
			return nil, customError(err, firstTokenSource(e))
		}
		if v == Skip {
			return nil, nil
		}
		return []interface{}{v}, nil
	}
	return nil, nil
}

// firstTokenSource locates the source position of a node for error
// reporting: the first ranged token beneath it in document order.
func firstTokenSource(e TreeElement) Scanner {
	var tokens []Token
	collectTokens(e, &tokens)
	for _, t := range tokens {
		if t.HasSource() {
			return t.Source
		}
	}
	return Scanner{}
}
