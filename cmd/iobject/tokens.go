package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/maniartech/internet-object/iobject"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the tokens of a document",
	Long: `Tokenize a document and print one token per line with its position,
kind and raw text.

Examples:
  iobject tokens person.io
  iobject tokens --dump person.io`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

var tokensDump bool

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().BoolVar(&tokensDump, "dump", false, "dump full token structs")
}

func runTokens(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	tokens, err := iobject.Tokenize(text)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if tokensDump {
		dumpConfig.Fdump(out, tokens)
		return nil
	}
	for _, tok := range tokens {
		fmt.Fprintf(out, "%-8s %-8s %s\n", tok.Pos, tok.Kind, tok.Raw)
	}
	return nil
}

// dumpConfig prints structures without pointer addresses so output is stable.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}
