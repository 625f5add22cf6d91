package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	return newSQLiteStoreTimeout(t, time.Second)
}

func newSQLiteStoreTimeout(t *testing.T, opTimeout time.Duration) *Store {
	t.Helper()
	db, err := sqlx.Open(DriverSQLite, ":memory:?_foreign_keys=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE counter (id INTEGER PRIMARY KEY, n INTEGER NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO counter (id, n) VALUES (1, 0)`)
	require.NoError(t, err)
	return New(db, DriverSQLite, opTimeout)
}

func counterValue(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().Get(&n, `SELECT n FROM counter WHERE id = 1`))
	return n
}

func TestWithTx_Commits(t *testing.T) {
	s := newSQLiteStore(t)
	err := s.WithTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE counter SET n = n + 1 WHERE id = 1`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, counterValue(t, s))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newSQLiteStore(t)
	sentinel := errors.New("stop")
	err := s.WithTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.Exec(`UPDATE counter SET n = 42 WHERE id = 1`); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, counterValue(t, s))
}

func TestWithTx_OperationTimeout(t *testing.T) {
	s := newSQLiteStoreTimeout(t, 20*time.Millisecond)
	start := time.Now()
	err := s.WithTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE counter SET n = 9 WHERE id = 1`); err != nil {
			return err
		}
		<-ctx.Done()
		_, err := tx.ExecContext(ctx, `UPDATE counter SET n = n + 1 WHERE id = 1`)
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, Classify(err), ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 0, counterValue(t, s))
}

func TestWithTx_ReportsDeadlineBehindTxDone(t *testing.T) {
	s := newSQLiteStoreTimeout(t, 20*time.Millisecond)
	err := s.WithTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		<-ctx.Done()
		return sql.ErrTxDone
	})
	assert.ErrorIs(t, err, sql.ErrTxDone)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	s := newSQLiteStore(t)
	assert.Panics(t, func() {
		_ = s.WithTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
			_, _ = tx.Exec(`UPDATE counter SET n = 7 WHERE id = 1`)
			panic("boom")
		})
	})
	assert.Equal(t, 0, counterValue(t, s))
}

func TestStore_DialectHelpers(t *testing.T) {
	s := newSQLiteStore(t)
	assert.Equal(t, "", s.LockClause())
	assert.Nil(t, s.txOptions(false))

	q, _, err := s.Builder().From("counter").Select("n").ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT `n` FROM `counter`", q)

	m := New(s.DB(), DriverMySQL, 0)
	assert.Equal(t, " FOR UPDATE", m.LockClause())
	assert.Equal(t, 5*time.Second, m.opTimeout)
}
