package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/arr-ai/comb/parser"
)

var grammarName string
var inFile string
var evalMode bool
var verboseMode bool
var parseCommand = cli.Command{
	Name:    "parse",
	Aliases: []string{"p"},
	Usage:   "Parse input with an example grammar",
	Action:  parse,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:        "grammar",
			Usage:       "example grammar to use (json or basic)",
			Value:       "json",
			Destination: &grammarName,
		},
		cli.StringFlag{
			Name:        "input",
			Usage:       "input file (defaults to stdin)",
			Required:    false,
			TakesFile:   true,
			Destination: &inFile,
		},
		cli.BoolFlag{
			Name:        "eval",
			Usage:       "print the transformed value instead of the match tree",
			Destination: &evalMode,
		},
		cli.BoolFlag{
			Name:        "v",
			Usage:       "verbose logging",
			Destination: &verboseMode,
		},
	},
}

func parse(c *cli.Context) error {
	g, err := grammarByName(grammarName)
	if err != nil {
		return err
	}

	var input string
	switch inFile {
	case "", "-":
		buf, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		input = string(buf)
	default:
		buf, err := ioutil.ReadFile(inFile)
		if err != nil {
			return err
		}
		input = string(buf)
	}

	if verboseMode {
		logrus.SetLevel(logrus.TraceLevel)
	}

	if evalMode {
		v, err := g.transform(input)
		if err != nil {
			return err
		}
		fmt.Printf("%v\n", v)
		return nil
	}

	var tree parser.TreeElement
	if inFile != "" && inFile != "-" {
		tree, err = g.matcher.MatchScanner(parser.NewScannerWithFilename(input, inFile))
	} else {
		tree, err = g.matcher.Match(input)
	}
	if err != nil {
		return err
	}
	fmt.Print(parser.Dump(tree))
	return nil
}
