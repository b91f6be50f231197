package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maniartech/internet-object/iobject"
)

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Dump the parse tree of a document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	tree, err := iobject.ParseText(text)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if tree.Header != nil {
		fmt.Fprintln(out, "# header")
		dumpConfig.Fdump(out, tree.Header)
	}
	fmt.Fprintln(out, "# data")
	dumpConfig.Fdump(out, tree.Data)
	return nil
}
