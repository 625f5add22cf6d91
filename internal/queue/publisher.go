package queue

import (
    "context"
    "fmt"
    "sync"
    "time"

    jsoniter "github.com/json-iterator/go"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/sakila-rental-service/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Publisher delivers lifecycle events.  Implementations must be safe for
// concurrent use.
type Publisher interface {
    Publish(ctx context.Context, ev LifecycleEvent) error
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, LifecycleEvent) error { return nil }

// AMQPPublisher publishes persistent JSON messages to a durable queue via
// the default exchange.  The connection is dialled lazily and re-dialled
// after it drops; a dial never takes longer than the dial timeout.
type AMQPPublisher struct {
    url         string
    queue       string
    dialTimeout time.Duration
    log         *logger.Logger

    mu   sync.Mutex
    conn *amqp.Connection
    ch   *amqp.Channel
}

// NewAMQPPublisher returns a publisher for the given broker and queue.  No
// connection is made until the first Publish.
func NewAMQPPublisher(url, queue string, dialTimeout time.Duration, log *logger.Logger) *AMQPPublisher {
    if dialTimeout <= 0 {
        dialTimeout = 2 * time.Second
    }
    return &AMQPPublisher{url: url, queue: queue, dialTimeout: dialTimeout, log: log}
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() {
        return p.ch, nil
    }
    if p.conn == nil || p.conn.IsClosed() {
        conn, err := amqp.DialConfig(p.url, amqp.Config{
            Heartbeat: 10 * time.Second,
            Locale:    "en_US",
            Dial:      amqp.DefaultDial(p.dialTimeout),
        })
        if err != nil {
            return nil, fmt.Errorf("dial broker: %w", err)
        }
        p.conn = conn
    }
    ch, err := p.conn.Channel()
    if err != nil {
        return nil, fmt.Errorf("open channel: %w", err)
    }
    if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        return nil, fmt.Errorf("declare queue: %w", err)
    }
    p.ch = ch
    return ch, nil
}

// Publish encodes ev and sends it.  Failures are logged and returned; the
// lifecycle service treats them as non-fatal.
func (p *AMQPPublisher) Publish(ctx context.Context, ev LifecycleEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    p.mu.Lock()
    defer p.mu.Unlock()

    ch, err := p.channel()
    if err != nil {
        p.log.Warn("event publish failed", "type", ev.Type, "error", err)
        return err
    }
    err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.ID,
        Type:         string(ev.Type),
        Timestamp:    time.Now().UTC(),
        Body:         body,
    })
    if err != nil {
        p.log.Warn("event publish failed", "type", ev.Type, "error", err)
        _ = ch.Close()
        p.ch = nil
        return err
    }
    return nil
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        err := p.conn.Close()
        p.conn = nil
        return err
    }
    return nil
}
