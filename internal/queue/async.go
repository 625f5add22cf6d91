package queue

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/iliyamo/sakila-rental-service/internal/logger"
)

var (
    // ErrBacklogFull is returned when an event arrives while the buffer is
    // full.  The event is dropped.
    ErrBacklogFull = errors.New("event backlog full")
    // ErrPublisherClosed is returned after Close.
    ErrPublisherClosed = errors.New("publisher closed")
)

type pendingEvent struct {
    ctx context.Context
    ev  LifecycleEvent
}

// AsyncPublisher queues events in a bounded buffer and hands them to the
// wrapped Publisher from a single background goroutine, so callers never
// wait on the broker.  Each delivery gets its own timeout.
type AsyncPublisher struct {
    next    Publisher
    timeout time.Duration
    log     *logger.Logger

    mu     sync.RWMutex
    closed bool
    items  chan pendingEvent
    done   chan struct{}
}

// NewAsyncPublisher starts the delivery goroutine.  Close must be called to
// flush the backlog and stop it.
func NewAsyncPublisher(next Publisher, backlog int, timeout time.Duration, log *logger.Logger) *AsyncPublisher {
    if backlog < 1 {
        backlog = 1
    }
    if timeout <= 0 {
        timeout = 2 * time.Second
    }
    p := &AsyncPublisher{
        next:    next,
        timeout: timeout,
        log:     log,
        items:   make(chan pendingEvent, backlog),
        done:    make(chan struct{}),
    }
    go p.run()
    return p
}

// Publish enqueues ev without blocking.  Cancellation of ctx after the
// call returns does not affect delivery; its values (trace span) are kept.
func (p *AsyncPublisher) Publish(ctx context.Context, ev LifecycleEvent) error {
    p.mu.RLock()
    defer p.mu.RUnlock()
    if p.closed {
        return ErrPublisherClosed
    }
    select {
    case p.items <- pendingEvent{ctx: context.WithoutCancel(ctx), ev: ev}:
        return nil
    default:
        return ErrBacklogFull
    }
}

func (p *AsyncPublisher) run() {
    defer close(p.done)
    for it := range p.items {
        ctx, cancel := context.WithTimeout(it.ctx, p.timeout)
        if err := p.next.Publish(ctx, it.ev); err != nil {
            p.log.Warn("lifecycle event dropped", "type", it.ev.Type, "event_id", it.ev.ID, "error", err)
        }
        cancel()
    }
}

// Close stops accepting events and waits until the backlog is delivered
// or has timed out.
func (p *AsyncPublisher) Close() error {
    p.mu.Lock()
    if !p.closed {
        p.closed = true
        close(p.items)
    }
    p.mu.Unlock()
    <-p.done
    return nil
}
