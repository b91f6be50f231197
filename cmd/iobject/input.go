package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/maniartech/internet-object/iobject"
)

// readInput reads the file named by args[0], or stdin when args is empty or
// holds "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// parseOptions builds the pipeline options shared by parse and validate.
// The --schema flag wins over the configured schema path.
func parseOptions(schemaFile string) ([]iobject.Option, error) {
	opts := []iobject.Option{iobject.WithLogger(logger)}

	if schemaFile == "" && cfg != nil {
		schemaFile = cfg.Schema.Path
	}
	if schemaFile == "" {
		return opts, nil
	}

	data, err := os.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	schema, err := iobject.CompileSchema(string(data))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schemaFile, err)
	}
	logger.Debug().Str("file", schemaFile).Int("members", schema.Len()).Msg("schema loaded")

	return append(opts, iobject.WithSchema(schema)), nil
}
