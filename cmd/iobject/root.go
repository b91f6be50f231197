package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maniartech/internet-object/config"
)

var (
	// Global flags
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger = zerolog.Nop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "iobject",
	Short: "Parse and validate Internet Object documents",
	Long: `iobject reads Internet Object documents, compiles their schema and
validates the data against it.

A document is an optional schema header, a "---" line and the data:

  name, age: {number, min: 0}
  ---
  Alice, 30

Examples:
  iobject parse person.io
  iobject parse --schema person.schema --output yaml people.io
  iobject validate --watch person.io
  cat person.io | iobject tokens`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "iobject.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
		if err := c.Validate(); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	cfg = c
	logger = setupLogger(cmd.ErrOrStderr(), c.Logging)
	return nil
}

// setupLogger builds the command logger. Logs go to stderr so they never mix
// with printed data.
func setupLogger(w io.Writer, lc config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		level = zerolog.WarnLevel
	}

	if lc.Format == "console" {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
