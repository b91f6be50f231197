package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maniartech/internet-object/iobject"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a document and print its data",
	Long: `Run the full pipeline on a document and print the validated data.

The schema comes from the document header, else from --schema, else from
schema.path in the config file. Without any schema the data is printed as
parsed, with positional values keyed by index.

Examples:
  iobject parse person.io
  iobject parse --schema person.schema --output yaml people.io`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var (
	parseSchemaFile string
	parseOutput     string
)

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseSchemaFile, "schema", "s", "", "schema file")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "output format: json or yaml (overrides config)")
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	opts, err := parseOptions(parseSchemaFile)
	if err != nil {
		return err
	}

	doc, err := iobject.Parse(text, opts...)
	if err != nil {
		return err
	}

	format, indent := "json", 2
	if cfg != nil {
		format, indent = cfg.Output.Format, *cfg.Output.Indent
	}
	if parseOutput != "" {
		format = parseOutput
	}
	return writeData(cmd.OutOrStdout(), doc.Data, format, indent)
}

func writeData(w io.Writer, data any, format string, indent int) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", strings.Repeat(" ", indent))
		return enc.Encode(data)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(indent)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}
