package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/restkit/internal/config"
	"github.com/jbweber/homelab/restkit/internal/migrations"
)

func newMigrateCmd(flags *rootFlags) *cobra.Command {
	var rollback bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == config.DriverMemory {
				return errors.New("the memory driver has no schema to migrate")
			}

			// InitializeDatabase applies every pending migration
			ds, err := cfg.InitializeDatabase()
			if err != nil {
				return err
			}
			defer ds.Close()

			migrator := migrations.NewMigrator(ds.DB)
			for _, m := range migrations.All() {
				migrator.AddMigration(m)
			}

			if rollback {
				if err := migrator.Rollback(); err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
			}

			version, err := migrator.GetCurrentVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}

	cmd.Flags().BoolVar(&rollback, "rollback", false, "revert the most recent migration after applying")
	return cmd
}
