package cmd

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/urfave/cli"

	"github.com/arr-ai/comb/parser"
)

var labelsCommand = cli.Command{
	Name:    "labels",
	Aliases: []string{"l"},
	Usage:   "Emit Go constants for the labels of an example grammar",
	Action:  labels,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:        "grammar",
			Usage:       "example grammar to use (json or basic)",
			Value:       "json",
			Destination: &grammarName,
		},
	},
}

// LabelConsts renders one Go const per grammar label, for clients that
// dispatch transforms on label names without stringly-typed call sites.
func LabelConsts(root parser.Term) string {
	var sb strings.Builder
	sb.WriteString("const (\n")
	for _, name := range parser.Labels(root) {
		fmt.Fprintf(&sb, "\t%sLabel = %q\n", strcase.ToCamel(name), name)
	}
	sb.WriteString(")\n")
	return sb.String()
}

func labels(c *cli.Context) error {
	g, err := grammarByName(grammarName)
	if err != nil {
		return err
	}
	fmt.Print(LabelConsts(g.matcher.Grammar()))
	return nil
}
