package queue

import (
    "context"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
    at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
    ev := NewEvent(RentalReturned, at)
    assert.Len(t, ev.ID, 36)
    assert.Equal(t, RentalReturned, ev.Type)
    assert.Equal(t, "2024-03-01T09:00:00Z", ev.OccurredAt)
    assert.NotEqual(t, ev.ID, NewEvent(RentalReturned, at).ID)
}

func TestFormatAuditLine(t *testing.T) {
    ev := LifecycleEvent{ID: "e1", Type: CustomerUpdated, CustomerID: 7, Fields: []string{"email", "last_name"}, OccurredAt: "2024-03-01T09:00:00Z"}
    assert.Equal(t, "[2024-03-01T09:00:00Z] customer.updated | event_id=e1 | customer_id=7 | fields=[email,last_name]\n", FormatAuditLine(ev))

    ev = LifecycleEvent{ID: "e2", Type: RentalReturned, RentalID: 10, OccurredAt: "2024-03-01T09:00:00Z"}
    assert.Equal(t, "[2024-03-01T09:00:00Z] rental.returned | event_id=e2 | rental_id=10\n", FormatAuditLine(ev))
}

func TestAuditConsumer_Handle(t *testing.T) {
    path := filepath.Join(t.TempDir(), "audit", "lifecycle.log")
    c := &AuditConsumer{LogPath: path}

    require.NoError(t, c.handle([]byte(`{"id":"a","type":"customer.deleted","customer_id":3,"occurred_at":"t0"}`)))
    require.NoError(t, c.handle([]byte(`{"id":"b","type":"rental.returned","rental_id":1,"occurred_at":"t1"}`)))
    assert.Error(t, c.handle([]byte(`not json`)))

    b, err := os.ReadFile(path)
    require.NoError(t, err)
    assert.Equal(t,
        "[t0] customer.deleted | event_id=a | customer_id=3\n[t1] rental.returned | event_id=b | rental_id=1\n",
        string(b))
}

func TestNopPublisher(t *testing.T) {
    var p Publisher = NopPublisher{}
    assert.NoError(t, p.Publish(context.Background(), NewEvent(CustomerCreated, time.Now())))
}
