package service

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/iliyamo/sakila-rental-service/internal/apperr"
	"github.com/iliyamo/sakila-rental-service/internal/queue"
	"github.com/iliyamo/sakila-rental-service/internal/repository"
)

// ReturnedRental reports a completed return.
type ReturnedRental struct {
	RentalID   int64
	ReturnDate time.Time
}

// ReturnRental moves an open rental to returned, stamping return_date with
// the time the row was locked.  A rental that does not exist is NotFound and one that
// is already returned is AlreadyReturned; return_date is never rewritten.
// Two concurrent calls for the same rental cannot both succeed: the row is
// locked on read and the update only applies while return_date is NULL.
func (l *Lifecycle) ReturnRental(ctx context.Context, rentalID int64) (out ReturnedRental, err error) {
	ctx, span := l.startSpan(ctx, "Lifecycle.ReturnRental", attribute.Int64("rental_id", rentalID))
	defer func() { endSpan(span, err) }()

	if rentalID <= 0 {
		return out, apperr.Validation("rental_id must be a positive integer")
	}
	var at time.Time
	err = l.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		rent, err := l.rentals.LockTx(ctx, tx, rentalID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("rental %d not found", rentalID)
		}
		if err != nil {
			return err
		}
		if rent.ReturnDate.Valid {
			return apperr.AlreadyReturned("rental %d was already returned", rentalID)
		}
		at = l.now().UTC().Truncate(time.Second)
		ok, err := l.rentals.MarkReturnedTx(ctx, tx, rentalID, at)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.AlreadyReturned("rental %d was already returned", rentalID)
		}
		return nil
	})
	if err != nil {
		return out, l.storageError("return rental", err, apperr.KindTransaction)
	}

	l.log.Info("rental returned", "rental_id", rentalID)
	ev := queue.NewEvent(queue.RentalReturned, at)
	ev.RentalID = rentalID
	l.publish(ctx, ev)
	return ReturnedRental{RentalID: rentalID, ReturnDate: at}, nil
}

// RentalInput is what the rental-initiation process supplies when opening a
// rental.
type RentalInput struct {
	InventoryID *int64 `json:"inventory_id"`
	CustomerID  *int64 `json:"customer_id"`
	StaffID     *int64 `json:"staff_id"`
}

// ValidateRental checks the required fields of a new rental.  It performs
// no storage access; opening the rental belongs to another process.
func (l *Lifecycle) ValidateRental(in RentalInput) error {
	var missing []string
	for _, f := range []struct {
		name string
		v    *int64
	}{
		{"inventory_id", in.InventoryID},
		{"customer_id", in.CustomerID},
		{"staff_id", in.StaffID},
	} {
		if f.v == nil {
			missing = append(missing, f.name)
			continue
		}
		if *f.v <= 0 {
			return apperr.Validation("%s must be a positive integer", f.name)
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", joinNames(missing))
	}
	return nil
}
