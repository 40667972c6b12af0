package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/arr-ai/comb/basicgrammar"
	"github.com/arr-ai/comb/jsongrammar"
	"github.com/arr-ai/comb/parser"
)

type VersionTags struct {
	Version   string
	GitCommit string
	BuildDate string
	BuildOS   string
}

func Main(info VersionTags) {
	app := cli.NewApp()

	app.EnableBashCompletion = true

	app.Name = "comb"
	app.Usage = "parser-combinator playground"
	app.Version = info.Version

	app.Commands = []cli.Command{parseCommand, labelsCommand}

	err := app.Run(os.Args)
	if err != nil {
		logrus.Fatal(err)
	}
}

type exampleGrammar struct {
	matcher   *parser.Matcher
	transform func(string) (interface{}, error)
}

func exampleGrammars() map[string]exampleGrammar {
	return map[string]exampleGrammar{
		"json": {
			matcher:   jsongrammar.Matcher(),
			transform: jsongrammar.Parse,
		},
		"basic": {
			matcher: basicgrammar.Matcher(),
			transform: func(input string) (interface{}, error) {
				return basicgrammar.Eval(input)
			},
		},
	}
}

func grammarByName(name string) (exampleGrammar, error) {
	g, has := exampleGrammars()[name]
	if !has {
		return exampleGrammar{}, fmt.Errorf("unknown grammar %q (want json or basic)", name)
	}
	return g, nil
}
