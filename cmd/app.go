// Package cmd implements the CLI application driving the reconciliation pipeline.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/ckaplan/perfdash"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands lists every subcommand for registration by the main package.
var Commands = []subcommands.Command{
	&processCmd{},
	&summaryCmd{},
	&benchmarksCmd{},
	&queryCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "perfdash.yaml", "Path to the configuration file")
var verbose = flag.Bool("v", false, "Enable debug logging")

// Logger builds the application logger. Every skip and anomaly is logged
// with the file and reason so a human can audit the result.
func Logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}

// LoadConfig loads and validates the application configuration.
func LoadConfig() (*perfdash.Config, error) {
	cfg, err := perfdash.LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", *configFile, err)
	}
	return cfg, nil
}

// OpenRecorder returns the audit recorder configured for this run. Without
// an audit database the recorder is a no-op.
func OpenRecorder(cfg *perfdash.Config, log zerolog.Logger) perfdash.Recorder {
	if cfg.AuditDB == "" {
		return perfdash.NoopRecorder{}
	}
	rec, err := perfdash.NewSQLiteRecorder(cfg.AuditDB)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.AuditDB).Msg("audit database unavailable, auditing disabled")
		return perfdash.NoopRecorder{}
	}
	return rec
}

// printMarkdown renders a markdown document to the terminal.
func printMarkdown(doc string) {
	out, err := glamour.Render(doc, "auto")
	if err != nil {
		// Fall back to the raw markdown.
		fmt.Println(doc)
		return
	}
	fmt.Print(out)
}
