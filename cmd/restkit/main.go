// Command restkit serves the clubs and instances REST resources.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/restkit/internal/config"
	"github.com/jbweber/homelab/restkit/internal/logging"
)

// Build-time variables set via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	driver     string
	dbPath     string
	dsn        string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "restkit",
		Short:         "REST resources over SQLite, PostgreSQL or memory",
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "path to a YAML configuration file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format (json, console)")
	pf.StringVar(&flags.driver, "db-driver", "", "database driver (sqlite, postgres, memory)")
	pf.StringVar(&flags.dbPath, "db-path", "", "sqlite database file")
	pf.StringVar(&flags.dsn, "db-dsn", "", "postgres connection string")

	cmd.AddCommand(newServeCmd(flags), newMigrateCmd(flags))
	return cmd
}

// loadConfig reads the configuration file, if any, and applies flag overrides on top
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg := config.NewConfig()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if flags.driver != "" {
		cfg.Database.Driver = flags.driver
	}
	if flags.dbPath != "" {
		cfg.Database.Path = flags.dbPath
	}
	if flags.dsn != "" {
		cfg.Database.DSN = flags.dsn
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
