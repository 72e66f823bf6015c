package migrations

import (
	"github.com/jmoiron/sqlx"
)

// serialPrimaryKey returns the auto-assigned integer primary key declaration for the driver
func serialPrimaryKey(tx *sqlx.Tx) string {
	if tx.DriverName() == "postgres" {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// GetInitialMigrations returns all initial migrations
func GetInitialMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_clubs_table",
			Up: func(tx *sqlx.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE clubs (
						id ` + serialPrimaryKey(tx) + `,
						version BIGINT NOT NULL DEFAULT 0,
						name TEXT NOT NULL UNIQUE,
						town TEXT NOT NULL,
						email TEXT NOT NULL DEFAULT '',
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
					)
				`)
				return err
			},
			Down: func(tx *sqlx.Tx) error {
				_, err := tx.Exec(`DROP TABLE IF EXISTS clubs`)
				return err
			},
		},
		{
			Version: 2,
			Name:    "create_instances_table",
			Up: func(tx *sqlx.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE instances (
						id ` + serialPrimaryKey(tx) + `,
						version BIGINT NOT NULL DEFAULT 0,
						enabled BOOLEAN NOT NULL DEFAULT TRUE,
						name TEXT NOT NULL UNIQUE,
						path TEXT NOT NULL,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
					)
				`)
				return err
			},
			Down: func(tx *sqlx.Tx) error {
				_, err := tx.Exec(`DROP TABLE IF EXISTS instances`)
				return err
			},
		},
	}
}
