package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sakila-rental-service/internal/model"
	"github.com/iliyamo/sakila-rental-service/internal/testutil"
)

func TestRentalRepo_MarkReturnedOnce(t *testing.T) {
	store := testutil.NewStore(t)
	repo := NewRentalRepo(store)
	ctx := context.Background()
	at := testutil.Base.Add(240 * time.Hour)

	var first, second bool
	err := store.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		r, err := repo.LockTx(ctx, tx, 1)
		if err != nil {
			return err
		}
		assert.Equal(t, model.RentalOpen, r.Status())
		first, err = repo.MarkReturnedTx(ctx, tx, 1, at)
		if err != nil {
			return err
		}
		second, err = repo.MarkReturnedTx(ctx, tx, 1, at.Add(time.Hour))
		return err
	})
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, second)

	r, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RentalReturned, r.Status())
	assert.True(t, r.ReturnDate.Time.Equal(at))
}

func TestRentalRepo_NotFound(t *testing.T) {
	store := testutil.NewStore(t)
	repo := NewRentalRepo(store)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := repo.LockTx(ctx, tx, 404)
		return err
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
