package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aweist/schedule-importer/config"
	"github.com/aweist/schedule-importer/converter"
	"github.com/aweist/schedule-importer/exporter"
	"github.com/aweist/schedule-importer/models"
	"github.com/aweist/schedule-importer/parser"
	"github.com/aweist/schedule-importer/web"
)

var version = "0.1.0"

type rootFlags struct {
	configFile string
	envFile    string
	homeTeam   []string
	timezone   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "schedule-importer",
		Short: "Turn a pasted USTA team schedule into an iCalendar file",
		Long: `schedule-importer reads the match schedule text copied from the USTA
team page, extracts one record per match, checks the records, and writes
an .ics calendar with a two hour event and a 30 minute reminder per match.

Input is read from the named file, or from stdin when no file is given.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "YAML config file (overrides environment)")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	pf.StringArrayVar(&flags.homeTeam, "home-team", nil, "identifier that must appear in our home team name (repeatable)")
	pf.StringVar(&flags.timezone, "timezone", "", "IANA timezone the schedule times are in (default from config)")

	rootCmd.AddCommand(parseCmd(flags))
	rootCmd.AddCommand(validateCmd(flags))
	rootCmd.AddCommand(exportCmd(flags))
	rootCmd.AddCommand(serveCmd(flags))

	return rootCmd
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.envFile, flags.configFile)
	if err != nil {
		return nil, err
	}

	if len(flags.homeTeam) > 0 {
		cfg.Team.Identifiers = flags.homeTeam
	}
	if flags.timezone != "" {
		cfg.Calendar.Timezone = flags.timezone
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newConverter(cfg *config.Config) (*converter.Converter, error) {
	loc, err := cfg.GetLocation()
	if err != nil {
		return nil, err
	}

	return converter.New(converter.Config{
		HomeTeam:  parser.TeamIdentifiers(cfg.Team.Identifiers),
		Location:  loc,
		ProductID: cfg.Calendar.ProductID,
	}), nil
}

func setup(flags *rootFlags) (*config.Config, *converter.Converter, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.Team.Identifiers) == 0 {
		log.Println("WARNING: No home team identifiers configured. Every match will be treated as away.")
	}

	ctrl, err := newConverter(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ctrl, nil
}

// readInput returns the schedule text from the file argument, or stdin when
// there is none or it is "-".
func readInput(cmd *cobra.Command, args []string, maxBytes int64) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("input exceeds %d bytes", maxBytes)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Extract match records and print them as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctrl, err := setup(flags)
			if err != nil {
				return err
			}

			text, err := readInput(cmd, args, cfg.Input.MaxBytes)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), ctrl.Parse(text))
		},
	}
}

type validateReport struct {
	Records    []models.MatchRecord    `json:"records"`
	Errors     []string                `json:"errors"`
	Validation models.ValidationResult `json:"validation"`
}

func validateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Extract and check match records, printing the report as JSON",
		Long: `validate prints the extracted records, the parse errors, and the
validation report. It exits non-zero when validation finds errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctrl, err := setup(flags)
			if err != nil {
				return err
			}

			text, err := readInput(cmd, args, cfg.Input.MaxBytes)
			if err != nil {
				return err
			}

			outcome := ctrl.Parse(text)
			validation := ctrl.Validate(outcome.Records)

			if err := writeJSON(cmd.OutOrStdout(), validateReport{
				Records:    outcome.Records,
				Errors:     outcome.Errors,
				Validation: validation,
			}); err != nil {
				return err
			}

			if !validation.IsValid {
				return converter.ErrInvalidSchedule
			}
			return nil
		},
	}
}

func exportCmd(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the schedule as an iCalendar file",
		Long: `export converts the schedule and writes the calendar. Nothing is written
while validation errors remain. Use -o - to write to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctrl, err := setup(flags)
			if err != nil {
				return err
			}

			text, err := readInput(cmd, args, cfg.Input.MaxBytes)
			if err != nil {
				return err
			}

			result, err := ctrl.Convert(text)
			if err != nil {
				if errors.Is(err, converter.ErrInvalidSchedule) {
					stderr := cmd.ErrOrStderr()
					for _, msg := range result.Outcome.Errors {
						fmt.Fprintf(stderr, "parse error: %s\n", msg)
					}
					for _, msg := range result.Validation.Errors {
						fmt.Fprintf(stderr, "error: %s\n", msg)
					}
				}
				return err
			}

			for _, msg := range result.Outcome.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "parse error: %s\n", msg)
			}
			for _, msg := range result.Validation.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
			}

			var exp exporter.Exporter
			switch output {
			case "-":
				exp = exporter.NewWriterExporter(cmd.OutOrStdout())
			case "":
				exp = exporter.NewFileExporter(exporter.DefaultFilename(ctrl.Now()))
			default:
				exp = exporter.NewFileExporter(output)
			}

			if err := exp.Export(result.Calendar); err != nil {
				return fmt.Errorf("exporting calendar: %w", err)
			}

			if fe, ok := exp.(*exporter.FileExporter); ok {
				log.Printf("Wrote %d matches to %s", len(result.Outcome.Records), fe.Path())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default usta-schedule-YYYY-MM-DD.ics, - for stdout)")
	return cmd
}

func serveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctrl, err := setup(flags)
			if err != nil {
				return err
			}

			server := web.NewServer(web.Options{
				Port:        cfg.Web.Port,
				CORSOrigins: cfg.Web.CORSOrigins,
				MaxBytes:    cfg.Input.MaxBytes,
			}, ctrl)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			return runServer(server, sigChan)
		},
	}
}

// runServer serves until a signal arrives or the listener fails, and only
// returns once the shutdown goroutine has finished.
func runServer(server *web.Server, sigChan <-chan os.Signal) error {
	shutdown := make(chan bool)
	stopped := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		select {
		case <-sigChan:
			log.Println("Shutting down schedule importer...")
		case <-stopped:
		}
		close(shutdown)
	}()

	err := server.ListenAndServe(shutdown, &wg)
	close(stopped)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("web server error: %w", err)
	}
	return nil
}
