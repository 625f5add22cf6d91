// Package database owns the storage engine handle.  A Store is opened once
// at process start, passed explicitly to every repository and closed at
// shutdown.  It carries the goqu dialect matching the driver so query
// builders emit SQL the engine understands.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"   // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Options describes how to reach MySQL.
type Options struct {
	User         string
	Pass         string
	Host         string
	Port         string
	Name         string
	MaxOpenConns int
	OpTimeout    time.Duration
}

// Store is the shared, pooled storage handle.
type Store struct {
	db        *sqlx.DB
	driver    string
	dialect   goqu.DialectWrapper
	opTimeout time.Duration
}

// Open connects to MySQL and verifies the connection.
func Open(opts Options) (*Store, error) {
	mc := mysql.NewConfig()
	mc.User = opts.User
	mc.Passwd = opts.Pass
	mc.Net = "tcp"
	mc.Addr = opts.Host + ":" + opts.Port
	mc.DBName = opts.Name
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}

	db, err := sqlx.Open(DriverMySQL, mc.FormatDSN())
	if err != nil {
		return nil, err
	}
	maxOpen := opts.MaxOpenConns
	if maxOpen < 1 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db, DriverMySQL, opts.OpTimeout), nil
}

// New wraps an existing handle.  Tests use it with an in-memory SQLite
// database.
func New(db *sqlx.DB, driver string, opTimeout time.Duration) *Store {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &Store{
		db:        db,
		driver:    driver,
		dialect:   goqu.Dialect(driver),
		opTimeout: opTimeout,
	}
}

// DB exposes the pooled handle for read-only queries.
func (s *Store) DB() *sqlx.DB { return s.db }

// Driver returns the database/sql driver name.
func (s *Store) Driver() string { return s.driver }

// Builder returns the goqu dialect for this store.
func (s *Store) Builder() goqu.DialectWrapper { return s.dialect }

// LockClause returns the row-locking suffix for read-check-write
// sequences.  SQLite serialises writers itself and has no FOR UPDATE.
func (s *Store) LockClause() string {
	if s.driver == DriverMySQL {
		return " FOR UPDATE"
	}
	return ""
}

// WithTimeout bounds one logical operation.
func (s *Store) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) txOptions(readOnly bool) *sql.TxOptions {
	if s.driver != DriverMySQL {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: readOnly}
}

// WithTx runs fn inside one read-committed transaction bounded by the
// store's operation timeout.  fn receives the deadline-bound context and
// must issue every statement with it.  fn's error is returned unchanged
// after the rollback; commit failures are returned wrapped.  Nothing is
// committed unless fn returns nil.  When the deadline passes mid-way the
// error also matches context.DeadlineExceeded.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return s.runTx(ctx, false, fn)
}

// WithReadTx is WithTx for multi-statement reads that need one snapshot.
func (s *Store) WithReadTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return s.runTx(ctx, true, fn)
}

func (s *Store) runTx(ctx context.Context, readOnly bool, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	ctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, s.txOptions(readOnly))
	if err != nil {
		return withDeadline(ctx, fmt.Errorf("begin transaction: %w", err))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return withDeadline(ctx, err)
	}
	if err = tx.Commit(); err != nil {
		return withDeadline(ctx, fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// withDeadline attaches the context's error to err once the context is
// done.  database/sql rolls the transaction back itself when that happens
// and later statements only report sql.ErrTxDone or closed rows.
func withDeadline(ctx context.Context, err error) error {
	cerr := ctx.Err()
	if cerr == nil || errors.Is(err, cerr) {
		return err
	}
	return errors.Join(err, cerr)
}
