package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/sakila-rental-service/internal/database"
	"github.com/iliyamo/sakila-rental-service/internal/model"
)

const rentalColumns = `rental_id, rental_date, inventory_id, customer_id, return_date, staff_id`

// RentalRepo provides the row primitives for the rental return transition.
type RentalRepo struct {
	store *database.Store
}

// NewRentalRepo returns a RentalRepo bound to the given store.
func NewRentalRepo(store *database.Store) *RentalRepo { return &RentalRepo{store: store} }

// GetByID reads a rental outside any transaction.
func (r *RentalRepo) GetByID(ctx context.Context, rentalID int64) (*model.Rental, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()
	var rent model.Rental
	err := r.store.DB().GetContext(ctx, &rent, `SELECT `+rentalColumns+` FROM rental WHERE rental_id = ?`, rentalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rent, nil
}

// LockTx loads the rental and holds its row lock until the transaction
// ends, so a concurrent return of the same rental waits and then sees the
// committed return_date.
func (r *RentalRepo) LockTx(ctx context.Context, tx *sqlx.Tx, rentalID int64) (*model.Rental, error) {
	var rent model.Rental
	q := `SELECT ` + rentalColumns + ` FROM rental WHERE rental_id = ?` + r.store.LockClause()
	if err := tx.GetContext(ctx, &rent, q, rentalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rent, nil
}

// MarkReturnedTx sets return_date only while it is still NULL and reports
// whether this call performed the transition.
func (r *RentalRepo) MarkReturnedTx(ctx context.Context, tx *sqlx.Tx, rentalID int64, at time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE rental SET return_date = ? WHERE rental_id = ? AND return_date IS NULL`,
		at, rentalID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
