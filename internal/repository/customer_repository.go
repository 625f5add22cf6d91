package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/iliyamo/sakila-rental-service/internal/database"
	"github.com/iliyamo/sakila-rental-service/internal/model"
)

const customerColumns = `customer_id, store_id, first_name, last_name, email, address_id, active, create_date`

var customerSelect = []interface{}{
	"customer_id", "store_id", "first_name", "last_name", "email", "address_id", "active", "create_date",
}

// CustomerRepo reads customer profiles and rental history and provides
// the row primitives used by customer lifecycle operations.
type CustomerRepo struct {
	store *database.Store
}

// NewCustomerRepo returns a CustomerRepo bound to the given store.
func NewCustomerRepo(store *database.Store) *CustomerRepo { return &CustomerRepo{store: store} }

// RentalHistoryRow is one rental in a customer's history.
type RentalHistoryRow struct {
	RentalID   int64        `db:"rental_id"`
	FilmID     int64        `db:"film_id"`
	Title      string       `db:"title"`
	RentalDate time.Time    `db:"rental_date"`
	ReturnDate sql.NullTime `db:"return_date"`
}

// CustomerDetail is a profile with its full rental history.
type CustomerDetail struct {
	model.Customer
	Rentals []RentalHistoryRow
}

// Details returns the customer and their rentals, newest first, read from
// one snapshot.  An unknown id yields an empty result.
func (r *CustomerRepo) Details(ctx context.Context, customerID int64) (out []CustomerDetail, err error) {
	ctx, span := startSpan(ctx, "CustomerRepo.Details", attribute.Int64("customer_id", customerID))
	defer func() { endSpan(span, err) }()

	out = []CustomerDetail{}
	err = r.store.WithReadTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var c model.Customer
		q := `SELECT ` + customerColumns + ` FROM customer WHERE customer_id = ?`
		if err := tx.GetContext(ctx, &c, q, customerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		const hq = `SELECT r.rental_id, f.film_id, f.title, r.rental_date, r.return_date
                    FROM rental r
                    JOIN inventory i ON i.inventory_id = r.inventory_id
                    JOIN film f ON f.film_id = i.film_id
                    WHERE r.customer_id = ?
                    ORDER BY r.rental_date DESC, r.rental_id DESC`
		history := []RentalHistoryRow{}
		if err := tx.SelectContext(ctx, &history, hq, customerID); err != nil {
			return err
		}
		out = append(out, CustomerDetail{Customer: c, Rentals: history})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every customer ordered by id.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	return r.Search(ctx, "")
}

// Search returns customers whose first name, last name or id contains
// term.  Matching is LIKE '%term%' under the engine's default collation,
// with % and _ in term matched literally.
// An empty term lists everyone.
func (r *CustomerRepo) Search(ctx context.Context, term string) (out []model.Customer, err error) {
	ctx, span := startSpan(ctx, "CustomerRepo.Search", attribute.Bool("filtered", term != ""))
	defer func() { endSpan(span, err) }()

	ds := r.store.Builder().
		From("customer").
		Select(customerSelect...).
		Order(goqu.C("customer_id").Asc()).
		Prepared(true)
	if term != "" {
		like := containsPattern(term)
		ds = ds.Where(goqu.Or(
			goqu.L("? LIKE ? ESCAPE '"+likeEscape+"'", goqu.C("first_name"), like),
			goqu.L("? LIKE ? ESCAPE '"+likeEscape+"'", goqu.C("last_name"), like),
			goqu.L("CAST(customer_id AS CHAR) LIKE ? ESCAPE '"+likeEscape+"'", like),
		))
	}
	q, args, err := ds.ToSQL()
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()
	out = []model.Customer{}
	err = r.store.DB().SelectContext(ctx, &out, q, args...)
	return out, err
}

// InsertTx inserts c and reloads it so the assigned id and stored values
// are populated.
func (r *CustomerRepo) InsertTx(ctx context.Context, tx *sqlx.Tx, c *model.Customer) error {
	const q = `INSERT INTO customer (store_id, first_name, last_name, email, address_id, active, create_date)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, c.StoreID, c.FirstName, c.LastName, c.Email, c.AddressID, c.Active, c.CreateDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	return tx.GetContext(ctx, c, `SELECT `+customerColumns+` FROM customer WHERE customer_id = ?`, id)
}

// LockTx loads the customer and, on engines that support it, holds its
// row lock until the transaction ends.
func (r *CustomerRepo) LockTx(ctx context.Context, tx *sqlx.Tx, customerID int64) (*model.Customer, error) {
	var c model.Customer
	q := `SELECT ` + customerColumns + ` FROM customer WHERE customer_id = ?` + r.store.LockClause()
	if err := tx.GetContext(ctx, &c, q, customerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// UpdateFieldsTx applies the column/value pairs in one UPDATE statement.
// An empty record is a no-op.
func (r *CustomerRepo) UpdateFieldsTx(ctx context.Context, tx *sqlx.Tx, customerID int64, fields goqu.Record) error {
	if len(fields) == 0 {
		return nil
	}
	q, args, err := r.store.Builder().
		Update("customer").
		Set(fields).
		Where(goqu.C("customer_id").Eq(customerID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

// DeleteTx hard-deletes the customer.  Foreign keys from rental (and
// payment) rows are left to the engine to enforce.
func (r *CustomerRepo) DeleteTx(ctx context.Context, tx *sqlx.Tx, customerID int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM customer WHERE customer_id = ?`, customerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
