// Package main implements the tix CLI tool.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/amonks/tix/internal/config"
	"github.com/amonks/tix/internal/paths"
	"github.com/amonks/tix/ticket"
	"github.com/amonks/tix/tracker"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tix",
	Short: "tix - a small local ticket tracker",
	Long: `tix keeps a list of tickets in a single JSON file.

Tickets move pending -> in_progress -> completed -> archived. Ticket IDs may
be abbreviated to any unique prefix.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var (
	globalStorePath string
	globalFormat    string
	globalVerbose   bool

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalStorePath, "store", "", "Ticket store file (default: $TIX_STORE, config, or ~/.config/tix/tickets.json)")
	flags.Var(newEnumValue(&globalFormat, parseOutputFormat, outputFormatNames()), "format", "Output format (table, compact, json)")
	flags.BoolVarP(&globalVerbose, "verbose", "v", false, "Log debug output to stderr")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if globalVerbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// app bundles what a command needs to run use cases.
type app struct {
	cfg   *config.Config
	store *ticket.FileStore
	svc   *tracker.Service
}

// openApp loads configuration, resolves the store path, and wires the
// service. Nothing touches the store file until a use case runs.
func openApp() (*app, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	storePath, err := paths.ResolveStorePath(globalStorePath, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	defaults, err := ticketDefaults(cfg.Tickets)
	if err != nil {
		return nil, err
	}
	defaults.Logger = logger

	store, err := ticket.Open(storePath, ticket.Options{
		MaxTitleLength: cfg.Tickets.MaxTitleLength,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("opened store", "path", storePath)

	return &app{cfg: cfg, store: store, svc: tracker.New(store, defaults)}, nil
}

func ticketDefaults(cfg config.Tickets) (tracker.Options, error) {
	var opts tracker.Options
	if cfg.DefaultPriority != "" {
		priority, err := ticket.ParsePriority(cfg.DefaultPriority)
		if err != nil {
			return opts, fmt.Errorf("config tickets.default-priority: %w", err)
		}
		opts.DefaultPriority = priority
	}
	if cfg.DefaultType != "" {
		typ, err := ticket.ParseType(cfg.DefaultType)
		if err != nil {
			return opts, fmt.Errorf("config tickets.default-type: %w", err)
		}
		opts.DefaultType = typ
	}
	if cfg.DefaultPrivacy != "" {
		privacy, err := ticket.ParsePrivacy(cfg.DefaultPrivacy)
		if err != nil {
			return opts, fmt.Errorf("config tickets.default-privacy: %w", err)
		}
		opts.DefaultPrivacy = privacy
	}
	return opts, nil
}
