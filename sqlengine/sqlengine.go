// Package sqlengine implements [namedstmt.Engine] on top of [database/sql].
//
// Prepared statements are cached by query and shared between handles of
// the same [DB]. A statement evicted from the cache is closed once no
// execution is using it, and prepared again on the next use.
package sqlengine

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/dbscan"
	"github.com/rfberaldo/namedstmt"
	"github.com/rfberaldo/namedstmt/binds"
	"github.com/rfberaldo/namedstmt/internal/stmtcache"
)

const (
	defaultStmtCacheSize = 32
	defaultStructTag     = "db"
)

// ErrNotPrepared is returned when a handle executes before being prepared.
var ErrNotPrepared = errors.New("namedstmt/sqlengine: statement not prepared")

// Preparer is satisfied by [sql.DB], [sql.Tx] or [sql.Conn].
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Options are optional configs for [New] and [Connect].
// A zero Options consists entirely of default values.
type Options struct {
	// StmtCacheSize is how many prepared statements are kept open,
	// default is 32.
	StmtCacheSize int

	// StructTag is the reflection tag used by [DB.ScanAll] and [DB.ScanOne]
	// to map columns to struct fields, default is "db".
	StructTag string
}

// DB creates engine handles sharing a connection and a statement cache.
// It's safe for concurrent use, the handles it creates are not.
type DB struct {
	conn    Preparer
	pool    *sql.DB
	bind    binds.Bind
	cache   *stmtcache.StmtCache
	scanner *dbscan.API
}

// New returns a [DB] using an existing [sql.DB], [sql.Tx] or [sql.Conn].
// New panics if the driverName is not registered in [binds].
//
// The opts parameter can be set to nil for defaults.
//
// Example:
//
//	pool, err := sql.Open("mysql", dsn)
//	db := sqlengine.New("mysql", pool, nil)
func New(driverName string, conn Preparer, opts *Options) *DB {
	bind := binds.BindByDriver(driverName)
	if bind == binds.Unknown {
		panic(fmt.Sprintf("namedstmt/sqlengine: unable to find bind for %#v, register with [binds.Register]", driverName))
	}

	return newDB(conn, bind, opts)
}

// Connect opens a database specified by its database driver name and a
// driver-specific data source name, then verify the connection with a Ping.
// The pool is closed by [DB.Close].
//
// No database drivers are included in the Go standard library.
// See https://golang.org/s/sqldrivers for a list of third-party drivers.
func Connect(driverName, dataSourceName string, opts *Options) (*DB, error) {
	bind := binds.BindByDriver(driverName)
	if bind == binds.Unknown {
		return nil, fmt.Errorf("namedstmt/sqlengine: unable to find bind for %#v, register with [binds.Register]", driverName)
	}

	pool, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("namedstmt/sqlengine: unable to open sql connection: %w", err)
	}

	err = pool.Ping()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("namedstmt/sqlengine: unable to ping: %w", err)
	}

	db := newDB(pool, bind, opts)
	db.pool = pool
	return db, nil
}

func newDB(conn Preparer, bind binds.Bind, opts *Options) *DB {
	if opts == nil {
		opts = &Options{}
	}

	return &DB{
		conn:    conn,
		bind:    bind,
		cache:   stmtcache.New(cmp.Or(opts.StmtCacheSize, defaultStmtCacheSize)),
		scanner: newScanner(cmp.Or(opts.StructTag, defaultStructTag)),
	}
}

// Bind return the placeholder style of the driver.
func (db *DB) Bind() binds.Bind { return db.bind }

// Close closes all cached statements, and the pool if it was
// opened by [Connect].
func (db *DB) Close() error {
	db.cache.Clear()
	if db.pool != nil {
		return db.pool.Close()
	}
	return nil
}

// Exec returns a new handle for statements that don't return rows.
func (db *DB) Exec() *ExecHandle {
	return &ExecHandle{handle{db: db}}
}

// Query returns a new handle for statements that return rows.
// The rows must be closed, [DB.ScanAll] and [DB.ScanOne] do it.
func (db *DB) Query() *QueryHandle {
	return &QueryHandle{handle{db: db}}
}

func (db *DB) prepare(ctx context.Context, query string) (stmtcache.Stmt, error) {
	stmt, err := db.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// handle is one prepared statement as seen by a [namedstmt.Statement].
type handle struct {
	db    *DB
	query string
}

// Bind implements [namedstmt.Binder].
func (h *handle) Bind() binds.Bind { return h.db.bind }

// Prepare implements [namedstmt.Engine].
func (h *handle) Prepare(ctx context.Context, query string) error {
	if _, err := h.db.cache.Prepare(ctx, query, h.db.prepare); err != nil {
		return err
	}
	h.query = query
	return nil
}

// stmt return the prepared statement, preparing it again if it was
// evicted. It stays open until release is called.
func (h *handle) stmt(ctx context.Context) (stmt stmtcache.Stmt, release func(), err error) {
	if h.query == "" {
		return nil, nil, ErrNotPrepared
	}
	return h.db.cache.Acquire(ctx, h.query, h.db.prepare)
}

// ExecHandle implements [namedstmt.Engine] returning [sql.Result].
type ExecHandle struct {
	handle
}

// BindExecute implements [namedstmt.Engine].
func (h *ExecHandle) BindExecute(ctx context.Context, b namedstmt.Binding) (sql.Result, error) {
	stmt, release, err := h.stmt(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return stmt.ExecContext(ctx, b.Args()...)
}

// QueryHandle implements [namedstmt.Engine] returning [sql.Rows].
type QueryHandle struct {
	handle
}

// BindExecute implements [namedstmt.Engine].
func (h *QueryHandle) BindExecute(ctx context.Context, b namedstmt.Binding) (*sql.Rows, error) {
	stmt, release, err := h.stmt(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return stmt.QueryContext(ctx, b.Args()...)
}

// PrepareExec creates a statement for command on a new [ExecHandle]
// and prepares it.
func (db *DB) PrepareExec(ctx context.Context, command string, opts *namedstmt.Options) (*namedstmt.Statement[sql.Result], error) {
	return prepare[sql.Result](ctx, db.Exec(), command, opts)
}

// PrepareQuery creates a statement for command on a new [QueryHandle]
// and prepares it.
func (db *DB) PrepareQuery(ctx context.Context, command string, opts *namedstmt.Options) (*namedstmt.Statement[*sql.Rows], error) {
	return prepare[*sql.Rows](ctx, db.Query(), command, opts)
}

func prepare[R any](ctx context.Context, engine namedstmt.Engine[R], command string, opts *namedstmt.Options) (*namedstmt.Statement[R], error) {
	stmt, err := namedstmt.New(engine, command, opts)
	if err != nil {
		return nil, err
	}

	if err := stmt.Prepare(ctx); err != nil {
		return nil, err
	}

	return stmt, nil
}
