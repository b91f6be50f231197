package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/maniartech/internet-object/iobject"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a document against its schema",
	Long: `Validate a document and report the first error with its position.

The exit status is non-zero when the document is invalid. With --watch the
file is validated again every time it (or the schema file) is written, until
interrupted.

Examples:
  iobject validate person.io
  iobject validate --schema person.schema --watch people.io`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var (
	validateSchemaFile string
	validateWatch      bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "", "schema file")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "validate again on every change")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if !validateWatch {
		return validateOnce(cmd, args)
	}
	if len(args) == 0 || args[0] == "-" {
		return errors.New("--watch requires a file argument")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Report the first result; the watch keeps going either way.
	_ = validateOnce(cmd, args)
	return watchFiles(ctx, watchedFiles(args[0]), func() {
		_ = validateOnce(cmd, args)
	})
}

func validateOnce(cmd *cobra.Command, args []string) error {
	name := "<stdin>"
	if len(args) > 0 && args[0] != "-" {
		name = args[0]
	}

	err := validateInput(cmd, args)
	reportValidation(cmd.OutOrStdout(), name, err)
	if err != nil {
		return fmt.Errorf("%s is invalid", name)
	}
	return nil
}

func validateInput(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	opts, err := parseOptions(validateSchemaFile)
	if err != nil {
		return err
	}
	_, err = iobject.Parse(text, opts...)
	return err
}

func reportValidation(w io.Writer, name string, err error) {
	if err == nil {
		fmt.Fprintf(w, "%s %s: valid\n", checkMark, name)
		return
	}

	var ioErr *iobject.Error
	if errors.As(err, &ioErr) && ioErr.HasPos {
		fmt.Fprintf(w, "%s %s:%s: %s error: %s\n", crossMark, name, ioErr.Pos, ioErr.Kind, ioErr.Code)
		if ioErr.Message != "" {
			fmt.Fprintf(w, "      %s\n", ioErr.Message)
		}
		return
	}
	fmt.Fprintf(w, "%s %s: %v\n", crossMark, name, err)
}

func watchedFiles(input string) []string {
	files := []string{input}
	schemaFile := validateSchemaFile
	if schemaFile == "" && cfg != nil {
		schemaFile = cfg.Schema.Path
	}
	if schemaFile != "" {
		files = append(files, schemaFile)
	}
	return files
}

// watchFiles calls onChange whenever one of files is written or recreated,
// until ctx is done. Directories are watched so editors that save by rename
// are noticed.
func watchFiles(ctx context.Context, files []string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	names := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f, err)
		}
		names[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		dirs[dir] = true
	}
	logger.Info().Strs("files", files).Msg("watching for changes")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !names[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("file changed")
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("file watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
