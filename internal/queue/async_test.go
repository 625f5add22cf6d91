package queue

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/sakila-rental-service/internal/logger"
)

// gatedPublisher blocks every delivery until release is closed or the
// delivery context ends.
type gatedPublisher struct {
    started chan struct{}
    release chan struct{}

    mu   sync.Mutex
    ids  []string
    errs []error
}

func newGatedPublisher() *gatedPublisher {
    return &gatedPublisher{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (p *gatedPublisher) Publish(ctx context.Context, ev LifecycleEvent) error {
    p.started <- struct{}{}
    var err error
    select {
    case <-p.release:
    case <-ctx.Done():
        err = ctx.Err()
    }
    p.mu.Lock()
    defer p.mu.Unlock()
    p.ids = append(p.ids, ev.ID)
    p.errs = append(p.errs, err)
    return err
}

func (p *gatedPublisher) delivered() ([]string, []error) {
    p.mu.Lock()
    defer p.mu.Unlock()
    return append([]string(nil), p.ids...), append([]error(nil), p.errs...)
}

func TestAsyncPublisher_DeliversInOrderAndFlushesOnClose(t *testing.T) {
    inner := newGatedPublisher()
    close(inner.release)
    p := NewAsyncPublisher(inner, 8, time.Second, logger.Nop())

    for _, id := range []string{"a", "b", "c"} {
        require.NoError(t, p.Publish(context.Background(), LifecycleEvent{ID: id}))
    }
    require.NoError(t, p.Close())

    ids, errs := inner.delivered()
    assert.Equal(t, []string{"a", "b", "c"}, ids)
    assert.Equal(t, []error{nil, nil, nil}, errs)
}

func TestAsyncPublisher_PublishDoesNotWaitForBroker(t *testing.T) {
    inner := newGatedPublisher()
    p := NewAsyncPublisher(inner, 1, time.Minute, logger.Nop())

    start := time.Now()
    require.NoError(t, p.Publish(context.Background(), LifecycleEvent{ID: "first"}))
    <-inner.started
    require.NoError(t, p.Publish(context.Background(), LifecycleEvent{ID: "second"}))
    assert.ErrorIs(t, p.Publish(context.Background(), LifecycleEvent{ID: "third"}), ErrBacklogFull)
    assert.Less(t, time.Since(start), time.Second)

    close(inner.release)
    require.NoError(t, p.Close())
    ids, _ := inner.delivered()
    assert.Equal(t, []string{"first", "second"}, ids)
}

func TestAsyncPublisher_BoundsEachDelivery(t *testing.T) {
    inner := newGatedPublisher()
    p := NewAsyncPublisher(inner, 4, 20*time.Millisecond, logger.Nop())

    ctx, cancel := context.WithCancel(context.Background())
    require.NoError(t, p.Publish(ctx, LifecycleEvent{ID: "slow"}))
    cancel()
    require.NoError(t, p.Close())

    ids, errs := inner.delivered()
    assert.Equal(t, []string{"slow"}, ids)
    require.Len(t, errs, 1)
    assert.ErrorIs(t, errs[0], context.DeadlineExceeded)
}

func TestAsyncPublisher_RejectsAfterClose(t *testing.T) {
    p := NewAsyncPublisher(NopPublisher{}, 1, time.Second, logger.Nop())
    require.NoError(t, p.Close())
    require.NoError(t, p.Close())
    assert.ErrorIs(t, p.Publish(context.Background(), LifecycleEvent{ID: "late"}), ErrPublisherClosed)
}
