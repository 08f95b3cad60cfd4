// Package cmd implements the CLI application to replay a ledger into tax lots.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/taxlots"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&normalizeCmd{}, "ledger")

	c.Register(&disposalsCmd{}, "reports")
	c.Register(&positionsCmd{}, "reports")
	c.Register(&taxReportCmd{}, "reports")

	c.Register(&settingsCmd{}, "settings")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var (
	ledgerFile   = "ledger.jsonl"
	settingsFile = "taxlots.toml"
	verbose      = false

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// RegisterFlags loads the .env file of the working directory, if any, and
// declares the global flags on f. Environment variables provide the flag
// defaults.
func RegisterFlags(f *flag.FlagSet) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Warning: could not load .env file: %v\n", err)
	}
	f.StringVar(&ledgerFile, "ledger-file", envOr("TAXLOTS_LEDGER_FILE", ledgerFile), "Path to the ledger file containing events (JSONL format)")
	f.StringVar(&settingsFile, "settings-file", envOr("TAXLOTS_SETTINGS_FILE", settingsFile), "Path to the settings file (TOML format)")
	v, _ := strconv.ParseBool(os.Getenv("TAXLOTS_VERBOSE"))
	f.BoolVar(&verbose, "v", v, "log replay details to stderr")
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// logger returns the application logger, writing to stderr.
func logger() *zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	l := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().
		Logger()
	return &l
}

// DecodeLedger decodes the events of the app ledger file.
func DecodeLedger() ([]taxlots.LedgerEvent, error) {
	f, err := os.Open(ledgerFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return taxlots.DecodeEvents(f)
}

// EncodeLedger replaces the content of the app ledger file with events.
func EncodeLedger(events []taxlots.LedgerEvent) error {
	f, err := os.OpenFile(ledgerFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if err := taxlots.EncodeEvents(f, events); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DecodeSettings reads the app settings file. A missing file yields the
// default settings.
func DecodeSettings() (taxlots.Settings, error) {
	f, err := os.Open(settingsFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger().Debug().Str("file", settingsFile).Msg("settings file does not exist, using defaults")
		return taxlots.DefaultSettings(), nil
	}
	if err != nil {
		return taxlots.Settings{}, err
	}
	defer f.Close()
	return taxlots.DecodeSettings(f)
}

// parseMethod parses an optional lot method flag.
func parseMethod(s string) (*taxlots.LotMethod, error) {
	if s == "" {
		return nil, nil
	}
	m, err := taxlots.ParseLotMethod(s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// printMarkdown renders md for the terminal, or prints it as is when the
// output is not a terminal.
func printMarkdown(md string) {
	if f, ok := stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
		if err == nil {
			out, err := r.Render(md)
			if err == nil {
				fmt.Fprint(stdout, out)
				return
			}
		}
	}
	fmt.Fprint(stdout, md)
}

// exitOnError reports err on stderr and returns the matching exit status.
// Invalid ledgers are failures, not usage errors.
func exitOnError(what string, err error) subcommands.ExitStatus {
	if taxlots.IsValidation(err) {
		fmt.Fprintf(stderr, "Error: invalid ledger %q: %v\n", ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stderr, "Error %s: %v\n", what, err)
	return subcommands.ExitFailure
}
