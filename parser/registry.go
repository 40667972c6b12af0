package parser

import (
	"github.com/arr-ai/frozen"
	"github.com/sirupsen/logrus"
)

// buildRegistry walks the grammar once and records name → Named for every
// labelled subtree. The first binding for a name wins; a repeat is a
// grammar-configuration smell, so it is logged and otherwise ignored rather
// than allowed to shadow.
func buildRegistry(root Term) frozen.Map[string, Named] {
	reg := frozen.NewMap[string, Named]()
	walkNamed(root, func(t Named) {
		if reg.Has(t.Name) {
			logrus.Warnf("duplicate grammar label %q: keeping first binding", t.Name)
			return
		}
		reg = reg.With(t.Name, t)
	})
	return reg
}

// Labels lists every label in the grammar in document order, first
// occurrence only.
func Labels(root Term) []string {
	var labels []string
	seen := frozen.NewMap[string, struct{}]()
	walkNamed(root, func(t Named) {
		if seen.Has(t.Name) {
			return
		}
		seen = seen.With(t.Name, struct{}{})
		labels = append(labels, t.Name)
	})
	return labels
}

// walkNamed visits every Named term in the tree, parents before children.
// REF terms are not followed: the grammar value itself is acyclic.
func walkNamed(t Term, visit func(Named)) {
	switch t := t.(type) {
	case Seq:
		for _, item := range t {
			walkNamed(item, visit)
		}
	case Oneof:
		for _, item := range t {
			walkNamed(item, visit)
		}
	case Quant:
		walkNamed(t.Term, visit)
	case Flatten:
		walkNamed(t.Term, visit)
	case Discard:
		walkNamed(t.Term, visit)
	case Replace:
		walkNamed(t.Term, visit)
	case Named:
		visit(t)
		walkNamed(t.Term, visit)
	}
}
