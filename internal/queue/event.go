// Package queue defines the lifecycle events exchanged over the message
// broker, the publisher used by the lifecycle service and the consumer
// that records every event in an audit log.
package queue

import (
    "time"

    "github.com/google/uuid"
)

// EventType names a committed lifecycle transition.
type EventType string

const (
    RentalReturned  EventType = "rental.returned"
    CustomerCreated EventType = "customer.created"
    CustomerUpdated EventType = "customer.updated"
    CustomerDeleted EventType = "customer.deleted"
)

// LifecycleEvent is published after a lifecycle transaction commits.  It
// carries enough for consumers to log or notify without querying the
// database.  Fields lists the columns changed by a customer update.
type LifecycleEvent struct {
    ID         string    `json:"id"`
    Type       EventType `json:"type"`
    RentalID   int64     `json:"rental_id,omitempty"`
    CustomerID int64     `json:"customer_id,omitempty"`
    Fields     []string  `json:"fields,omitempty"`
    OccurredAt string    `json:"occurred_at"`
}

// NewEvent stamps a fresh id and the occurrence time.
func NewEvent(t EventType, at time.Time) LifecycleEvent {
    return LifecycleEvent{
        ID:         uuid.NewString(),
        Type:       t,
        OccurredAt: at.UTC().Format(time.RFC3339),
    }
}
