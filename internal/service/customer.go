package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/iliyamo/sakila-rental-service/internal/apperr"
	"github.com/iliyamo/sakila-rental-service/internal/model"
	"github.com/iliyamo/sakila-rental-service/internal/queue"
	"github.com/iliyamo/sakila-rental-service/internal/repository"
)

// NewCustomer is the input of CreateCustomer.  StoreID, FirstName and
// LastName are required; Email and AddressID may be omitted.
type NewCustomer struct {
	StoreID   *int64  `json:"store_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email"`
	AddressID *int64  `json:"address_id"`
}

func joinNames(names []string) string { return strings.Join(names, ", ") }

func (in NewCustomer) validate() error {
	var missing []string
	if in.StoreID == nil {
		missing = append(missing, "store_id")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(in.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", joinNames(missing))
	}
	if *in.StoreID <= 0 {
		return apperr.Validation("store_id must be a positive integer")
	}
	if in.AddressID != nil && *in.AddressID <= 0 {
		return apperr.Validation("address_id must be a positive integer")
	}
	return nil
}

// CreateCustomer inserts an active customer stamped with the current time
// and returns the stored record with its assigned id.
func (l *Lifecycle) CreateCustomer(ctx context.Context, in NewCustomer) (out model.Customer, err error) {
	ctx, span := l.startSpan(ctx, "Lifecycle.CreateCustomer")
	defer func() { endSpan(span, err) }()

	if err := in.validate(); err != nil {
		return out, err
	}
	c := model.Customer{
		StoreID:    *in.StoreID,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Active:     true,
		CreateDate: l.now().UTC().Truncate(time.Second),
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		c.Email = sql.NullString{String: strings.TrimSpace(*in.Email), Valid: true}
	}
	if in.AddressID != nil {
		c.AddressID = sql.NullInt64{Int64: *in.AddressID, Valid: true}
	}

	err = l.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error { return l.customers.InsertTx(ctx, tx, &c) })
	if err != nil {
		return out, l.storageError("create customer", err, apperr.KindValidation)
	}

	l.log.Info("customer created", "customer_id", c.ID)
	ev := queue.NewEvent(queue.CustomerCreated, c.CreateDate)
	ev.CustomerID = c.ID
	l.publish(ctx, ev)
	return c, nil
}

// fieldSetter converts one raw partial-update value into the value stored
// in its column.  A nil result with ok=false means the value is empty and
// the field is skipped.
type fieldSetter func(raw any) (v any, ok bool, err error)

// mutableFields is the allow-list of customer columns a partial update may
// touch.
var mutableFields = map[string]fieldSetter{
	"first_name": requiredString("first_name"),
	"last_name":  requiredString("last_name"),
	"email":      optionalString,
	"store_id":   positiveInt("store_id"),
	"address_id": positiveInt("address_id"),
	"active":     boolean,
}

// MutableCustomerFields lists the keys UpdateCustomer accepts.
func MutableCustomerFields() []string {
	out := make([]string, 0, len(mutableFields))
	for k := range mutableFields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func requiredString(name string) fieldSetter {
	return func(raw any) (any, bool, error) {
		s, ok := raw.(string)
		if !ok {
			return nil, false, apperr.Validation("%s must be a string", name)
		}
		if s = strings.TrimSpace(s); s == "" {
			return nil, false, nil
		}
		return s, true, nil
	}
}

func optionalString(raw any) (any, bool, error) {
	return requiredString("email")(raw)
}

func positiveInt(name string) fieldSetter {
	return func(raw any) (any, bool, error) {
		var n int64
		switch v := raw.(type) {
		case float64:
			if v != float64(int64(v)) {
				return nil, false, apperr.Validation("%s must be an integer", name)
			}
			n = int64(v)
		case int:
			n = int64(v)
		case int64:
			n = v
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, false, nil
			}
			parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, false, apperr.Validation("%s must be an integer", name)
			}
			n = parsed
		default:
			return nil, false, apperr.Validation("%s must be an integer", name)
		}
		if n <= 0 {
			return nil, false, apperr.Validation("%s must be a positive integer", name)
		}
		return n, true, nil
	}
}

func boolean(raw any) (any, bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, true, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "":
			return nil, false, nil
		case "true", "1":
			return true, true, nil
		case "false", "0":
			return false, true, nil
		}
	}
	return nil, false, apperr.Validation("active must be a boolean")
}

// buildUpdate validates fields against the allow-list and collects the
// non-empty ones.  Unknown keys are rejected.
func buildUpdate(fields map[string]any) (goqu.Record, []string, error) {
	rec := goqu.Record{}
	var unknown []string
	for k, raw := range fields {
		set, ok := mutableFields[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		if raw == nil {
			continue
		}
		v, apply, err := set(raw)
		if err != nil {
			return nil, nil, err
		}
		if apply {
			rec[k] = v
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, nil, apperr.Validation("unknown fields: %s", joinNames(unknown))
	}
	names := make([]string, 0, len(rec))
	for k := range rec {
		names = append(names, k)
	}
	sort.Strings(names)
	return rec, names, nil
}

// UpdateCustomer applies the non-empty values of fields to the customer.
// Absent keys, nil values and blank strings leave the stored value as it
// is.  All changes commit together.  It returns the names of the columns
// that were written.
func (l *Lifecycle) UpdateCustomer(ctx context.Context, customerID int64, fields map[string]any) (applied []string, err error) {
	ctx, span := l.startSpan(ctx, "Lifecycle.UpdateCustomer", attribute.Int64("customer_id", customerID))
	defer func() { endSpan(span, err) }()

	if customerID <= 0 {
		return nil, apperr.Validation("customer_id must be a positive integer")
	}
	rec, names, err := buildUpdate(fields)
	if err != nil {
		return nil, err
	}

	err = l.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := l.customers.LockTx(ctx, tx, customerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("customer %d not found", customerID)
			}
			return err
		}
		return l.customers.UpdateFieldsTx(ctx, tx, customerID, rec)
	})
	if err != nil {
		return nil, l.storageError("update customer", err, apperr.KindValidation)
	}

	l.log.Info("customer updated", "customer_id", customerID, "fields", names)
	if len(names) > 0 {
		ev := queue.NewEvent(queue.CustomerUpdated, l.now())
		ev.CustomerID = customerID
		ev.Fields = names
		l.publish(ctx, ev)
	}
	return names, nil
}

// DeleteCustomer hard-deletes the customer.  Nothing is cascaded: a
// customer still referenced by rentals is a Conflict.
func (l *Lifecycle) DeleteCustomer(ctx context.Context, customerID int64) (err error) {
	ctx, span := l.startSpan(ctx, "Lifecycle.DeleteCustomer", attribute.Int64("customer_id", customerID))
	defer func() { endSpan(span, err) }()

	if customerID <= 0 {
		return apperr.Validation("customer_id must be a positive integer")
	}
	err = l.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		err := l.customers.DeleteTx(ctx, tx, customerID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("customer %d not found", customerID)
		}
		return err
	})
	if err != nil {
		return l.storageError("delete customer", err, apperr.KindConflict)
	}

	l.log.Info("customer deleted", "customer_id", customerID)
	ev := queue.NewEvent(queue.CustomerDeleted, l.now())
	ev.CustomerID = customerID
	l.publish(ctx, ev)
	return nil
}
