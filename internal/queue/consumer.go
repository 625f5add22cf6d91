package queue

import (
    "context"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/sakila-rental-service/internal/logger"
)

// AuditConsumer reads lifecycle events from the queue and appends one line
// per event to an audit log.
type AuditConsumer struct {
    URL         string
    Queue       string
    LogPath     string
    DialTimeout time.Duration // zero means 2s
    Log         *logger.Logger
}

// Run consumes until ctx is cancelled, reconnecting with exponential
// backoff (capped at 30s) whenever the broker is unreachable or the
// delivery channel closes.
func (c *AuditConsumer) Run(ctx context.Context) error {
    dialTimeout := c.DialTimeout
    if dialTimeout <= 0 {
        dialTimeout = 2 * time.Second
    }
    backoff := time.Second
    for {
        conn, err := amqp.DialConfig(c.URL, amqp.Config{
            Heartbeat: 10 * time.Second,
            Locale:    "en_US",
            Dial:      amqp.DefaultDial(dialTimeout),
        })
        if err != nil {
            c.Log.Warn("audit consumer: dial failed", "error", err, "retry_in", backoff.String())
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.Log.Warn("audit consumer: loop ended, reconnecting", "error", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func (c *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.Log.Warn("audit consumer: set QoS failed", "error", err)
    }
    if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handle(d.Body); err != nil {
                c.Log.Error("audit consumer: handle message failed", "error", err)
                _ = d.Nack(false, false) // do not requeue poison messages
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (c *AuditConsumer) handle(body []byte) error {
    var ev LifecycleEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    return AppendAudit(c.LogPath, ev)
}

// AppendAudit writes the event's audit line to path, creating the file and
// its directory when missing.
func AppendAudit(path string, ev LifecycleEvent) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return fmt.Errorf("mkdir: %w", err)
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open audit log: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(FormatAuditLine(ev)); err != nil {
        return fmt.Errorf("write audit log: %w", err)
    }
    return nil
}

// FormatAuditLine renders one newline-terminated audit record.
func FormatAuditLine(ev LifecycleEvent) string {
    var b strings.Builder
    fmt.Fprintf(&b, "[%s] %s | event_id=%s", ev.OccurredAt, ev.Type, ev.ID)
    if ev.RentalID != 0 {
        fmt.Fprintf(&b, " | rental_id=%d", ev.RentalID)
    }
    if ev.CustomerID != 0 {
        fmt.Fprintf(&b, " | customer_id=%d", ev.CustomerID)
    }
    if len(ev.Fields) > 0 {
        fmt.Fprintf(&b, " | fields=[%s]", strings.Join(ev.Fields, ","))
    }
    b.WriteByte('\n')
    return b.String()
}
