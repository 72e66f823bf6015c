package migrations

import (
	"github.com/jmoiron/sqlx"
)

// GetPerformanceMigrations returns performance optimization migrations
func GetPerformanceMigrations() []Migration {
	return []Migration{
		{
			Version: 10,
			Name:    "add_performance_indices",
			Up: func(tx *sqlx.Tx) error {
				// Listing non-removable resources filters on the enabled flag
				indices := []string{
					"CREATE INDEX IF NOT EXISTS idx_instances_enabled ON instances(enabled)",
					"CREATE INDEX IF NOT EXISTS idx_clubs_town ON clubs(town)",
				}

				for _, indexSQL := range indices {
					if _, err := tx.Exec(indexSQL); err != nil {
						return err
					}
				}

				return nil
			},
			Down: func(tx *sqlx.Tx) error {
				indices := []string{
					"DROP INDEX IF EXISTS idx_instances_enabled",
					"DROP INDEX IF EXISTS idx_clubs_town",
				}

				for _, dropSQL := range indices {
					if _, err := tx.Exec(dropSQL); err != nil {
						return err
					}
				}

				return nil
			},
		},
	}
}
