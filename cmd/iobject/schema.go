package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maniartech/internet-object/iobject"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [file]",
	Short: "Compile a schema and print its members",
	Long: `Compile a schema text such as "name, age?: {number, min: 0}" and print
one member per line. A document with a header may be given as well; only its
header is compiled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	tree, err := iobject.ParseText(text)
	if err != nil {
		return err
	}

	var schema *iobject.Schema
	if tree.Header != nil {
		schema, err = iobject.CompileHeader(tree.Header)
	} else {
		schema, err = iobject.CompileSchema(text)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, def := range schema.Members() {
		fmt.Fprintf(out, "%-8s %s\n", def.Pos, def)
	}
	return nil
}
