package sqlengine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgysavva/scany/v2/dbscan"
	"github.com/rfberaldo/namedstmt"
)

func newScanner(tag string) *dbscan.API {
	scanner, err := dbscan.NewAPI(
		dbscan.WithStructTagKey(tag),
		dbscan.WithScannableTypes((*sql.Scanner)(nil)),
	)
	if err != nil {
		panic("namedstmt/sqlengine: creating scanner: " + err.Error())
	}
	return scanner
}

// ScanAll scans every row into dst, a pointer to a slice, then closes rows.
func (db *DB) ScanAll(dst any, rows *sql.Rows) error {
	return db.scanner.ScanAll(dst, rows)
}

// ScanOne scans a single row into dst then closes rows.
// If there are no rows, the error matches [sql.ErrNoRows].
func (db *DB) ScanOne(dst any, rows *sql.Rows) error {
	if err := db.scanner.ScanOne(dst, rows); err != nil {
		if dbscan.NotFound(err) {
			return errors.Join(sql.ErrNoRows, err)
		}
		return err
	}
	return nil
}

// Select executes stmt and scans all returned rows into dst.
func (db *DB) Select(ctx context.Context, stmt *namedstmt.Statement[*sql.Rows], dst any) error {
	rows, err := stmt.Execute(ctx)
	if err != nil {
		return err
	}
	return db.ScanAll(dst, rows)
}

// Get executes stmt and scans the first returned row into dst,
// see [DB.ScanOne].
func (db *DB) Get(ctx context.Context, stmt *namedstmt.Statement[*sql.Rows], dst any) error {
	rows, err := stmt.Execute(ctx)
	if err != nil {
		return err
	}
	return db.ScanOne(dst, rows)
}

// IsNotFound is a helper to check if err contains [sql.ErrNoRows].
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
