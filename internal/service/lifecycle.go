// Package service holds the lifecycle manager: the only code allowed to
// change customer or rental state.  Every operation validates its input
// before touching storage, runs its read-check-write sequence inside one
// transaction and reports failures as *apperr.Error.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/sakila-rental-service/internal/apperr"
	"github.com/iliyamo/sakila-rental-service/internal/database"
	"github.com/iliyamo/sakila-rental-service/internal/logger"
	"github.com/iliyamo/sakila-rental-service/internal/queue"
	"github.com/iliyamo/sakila-rental-service/internal/repository"
)

var tracer = otel.Tracer("github.com/iliyamo/sakila-rental-service/internal/service")

// Lifecycle implements rental return and customer create/update/delete.
type Lifecycle struct {
	store     *database.Store
	rentals   *repository.RentalRepo
	customers *repository.CustomerRepo
	events    queue.Publisher
	log       *logger.Logger
	now       func() time.Time
}

// Option customises a Lifecycle.
type Option func(*Lifecycle)

// WithClock replaces the wall clock used for return_date and create_date.
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) { l.now = now }
}

// WithPublisher sets where committed transitions are announced.
func WithPublisher(p queue.Publisher) Option {
	return func(l *Lifecycle) { l.events = p }
}

// NewLifecycle wires the manager over store.
func NewLifecycle(store *database.Store, log *logger.Logger, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		store:     store,
		rentals:   repository.NewRentalRepo(store),
		customers: repository.NewCustomerRepo(store),
		events:    queue.NopPublisher{},
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Lifecycle) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// publish announces a committed transition.  Failures are logged only.
func (l *Lifecycle) publish(ctx context.Context, ev queue.LifecycleEvent) {
	if err := l.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		l.log.Warn("lifecycle event not published", "type", ev.Type, "event_id", ev.ID, "error", err)
	}
}

// storageError turns whatever left a transaction into the taxonomy.
// Already classified failures pass through; driver errors are classified
// so constraint violations become conflicts (on delete) or validation
// failures (on write) and everything else a transaction error.
func (l *Lifecycle) storageError(op string, err error, onConstraint apperr.Kind) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	classified := database.Classify(err)
	switch {
	case errors.Is(classified, database.ErrForeignKey), errors.Is(classified, database.ErrNotNull):
		if onConstraint == apperr.KindConflict {
			return apperr.Conflict(classified, "%s violates a referential constraint", op)
		}
		if onConstraint == apperr.KindValidation {
			return &apperr.Error{Kind: apperr.KindValidation, Message: op + " references a missing or required value", Err: classified}
		}
	case errors.Is(classified, database.ErrTimeout):
		l.log.Error("lifecycle operation timed out", "op", op, "error", err)
		return apperr.Transaction(classified, "%s timed out", op)
	}
	l.log.Error("lifecycle operation failed", "op", op, "error", err)
	return apperr.Transaction(classified, "%s failed", op)
}

// inTx runs fn inside one transaction.
func (l *Lifecycle) inTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return l.store.WithTx(ctx, fn)
}
