// Package cli wires configuration, logging and the record store into the
// lexico commands: seed, page, serve and migrate.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/maxviazov/lexico-users/internal/config"
	"github.com/maxviazov/lexico-users/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

// app carries what PersistentPreRunE resolved for the subcommand being run.
type app struct {
	configPath string
	storeFlag  string
	open       opener

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCmd builds a fresh command tree. Each call has its own flag state.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{open: openBackend})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "lexico",
		Short:         "Seed, page and serve user records",
		Long:          "Command line interface to generate synthetic user records, submit them to the users API, read them back page by page and run the API itself.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "Path to the YAML config file")
	root.PersistentFlags().StringVar(&a.storeFlag, "store", "", "Record store override: mongo, postgres or memory")

	root.AddCommand(
		newSeedCmd(a),
		newPageCmd(a),
		newServeCmd(a),
		newMigrateCmd(a),
	)
	return root
}

// Execute runs the root command. It should be invoked from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command) error {
	path := a.configPath
	// The default file is optional; an explicit --config must exist.
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config loading failed: %w", err)
	}
	if a.storeFlag != "" {
		switch a.storeFlag {
		case "mongo", "postgres", "memory":
			cfg.Store.Driver = a.storeFlag
		default:
			return fmt.Errorf("unknown store %q", a.storeFlag)
		}
	}
	if cfg.Logger.Env == "" {
		cfg.Logger.Env = cfg.App.Env
	}
	if cfg.Logger.ServiceVersion == "" {
		cfg.Logger.ServiceVersion = cfg.App.Version
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	a.cfg = cfg
	a.log = log
	return nil
}
