package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// One table per entity. Retention columns are shared across the three record
// tables; treatments cascade away when their patient or caregiver is hard
// deleted, so a purged person never leaves orphaned encounters behind.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS patient (
		pid BIGSERIAL PRIMARY KEY,
		firstname TEXT NOT NULL,
		surname TEXT NOT NULL,
		date_of_birth DATE NOT NULL,
		carelevel TEXT NOT NULL,
		roomnumber TEXT NOT NULL,
		status TEXT NOT NULL,
		deletion_date DATE,
		archive_date DATE,
		changed_by TEXT,
		deleted_by TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS caregiver (
		id BIGSERIAL PRIMARY KEY,
		firstname TEXT NOT NULL,
		surname TEXT NOT NULL,
		phonenumber TEXT NOT NULL,
		status TEXT NOT NULL,
		deletion_date DATE,
		archive_date DATE,
		changed_by TEXT,
		deleted_by TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS treatment (
		tid BIGSERIAL PRIMARY KEY,
		pid BIGINT NOT NULL REFERENCES patient (pid) ON DELETE CASCADE,
		caregiver_id BIGINT NOT NULL REFERENCES caregiver (id) ON DELETE CASCADE,
		treatment_date DATE NOT NULL,
		begin TEXT NOT NULL,
		"end" TEXT NOT NULL,
		description TEXT NOT NULL,
		remark TEXT NOT NULL,
		status TEXT NOT NULL,
		deletion_date DATE,
		archive_date DATE,
		changed_by TEXT,
		deleted_by TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS "user" (
		id BIGSERIAL PRIMARY KEY,
		firstname TEXT NOT NULL,
		surname TEXT NOT NULL,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sqlx.DB) error {
	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// Wipe drops all tables, children first. Intended for tests and dev resets.
func Wipe(db *sqlx.DB) error {
	for _, table := range []string{"treatment", "patient", "caregiver", `"user"`} {
		if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}
