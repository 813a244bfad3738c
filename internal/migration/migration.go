// Package migration imports a survey table into Postgres so the panel can load it
// with DATABASE_URL and DATA_TABLE.
package migration

import (
	"context"
	"fmt"
	"strings"

	"stilidash/domain/survey"
	"stilidash/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Migrator defines the interface for table import operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB, tableName string, table *survey.Table) error
	Version() string
}

// MigrationRunner creates the survey table and copies rows into it
type MigrationRunner struct {
	version string
	replace bool
}

// NewRunner creates a new migration runner. With replace set an existing table of the
// same name is dropped first.
func NewRunner(replace bool) *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		replace: replace,
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run creates tableName with one TEXT column per field and copies every row in a
// single transaction. Missing cells are stored as NULL.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB, tableName string, table *survey.Table) error {
	if table == nil || table.Len() == 0 {
		return errors.InvalidInput("nothing to import")
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin import transaction")
	}
	defer tx.Rollback()

	if r.replace {
		if _, err := tx.ExecContext(ctx, dropTableStatement(tableName)); err != nil {
			return errors.Wrapf(err, "failed to drop table %s", tableName)
		}
	}

	if _, err := tx.ExecContext(ctx, createTableStatement(tableName, table.Fields())); err != nil {
		return errors.Wrapf(err, "failed to create table %s", tableName)
	}

	if err := r.copyRows(ctx, tx, tableName, table); err != nil {
		return errors.Wrapf(err, "failed to copy rows into %s", tableName)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit import")
	}
	return nil
}

func (r *MigrationRunner) copyRows(ctx context.Context, tx *sqlx.Tx, tableName string, table *survey.Table) error {
	fields := table.Fields()
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(tableName, fields...))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, args := range rowArgs(table) {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}

	// flush the COPY buffer
	_, err = stmt.ExecContext(ctx)
	return err
}

func dropTableStatement(tableName string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", pq.QuoteIdentifier(tableName))
}

func createTableStatement(tableName string, fields []string) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = pq.QuoteIdentifier(f) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(tableName), strings.Join(cols, ", "))
}

// rowArgs returns the COPY arguments of every row, nil for missing cells
func rowArgs(table *survey.Table) [][]interface{} {
	fields := table.Fields()
	out := make([][]interface{}, table.Len())
	for r := range out {
		args := make([]interface{}, len(fields))
		for i, f := range fields {
			if v, ok := table.Value(r, f); ok {
				args[i] = v.String()
			}
		}
		out[r] = args
	}
	return out
}
