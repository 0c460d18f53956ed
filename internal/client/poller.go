package client

import (
    "context"
    "log"
    "sync"
    "time"
)

// ListFunc fetches one snapshot of reservations.
type ListFunc[T any] func(ctx context.Context) (T, error)

// Poller refreshes a reservation snapshot at a fixed interval.  It replaces
// the fire-and-forget timers of earlier clients with an explicit task tied
// to a context, and stamps every fetch with a generation so a slow response
// can never overwrite the result of a later fetch; manual refreshes and
// timer ticks may still race, but the stale one always loses.
type Poller[T any] struct {
    interval time.Duration
    fetch    ListFunc[T]

    mu        sync.Mutex
    nextGen   uint64
    appliedAt time.Time
    applied   uint64
    snapshot  T
}

// NewPoller returns a Poller fetching with fn every interval.
func NewPoller[T any](interval time.Duration, fn ListFunc[T]) *Poller[T] {
    if interval <= 0 {
        interval = 30 * time.Second
    }
    return &Poller[T]{interval: interval, fetch: fn}
}

// Run polls until ctx is cancelled.  The first fetch happens immediately.
// Fetch errors are logged and the previous snapshot is kept; the next tick
// tries again.
func (p *Poller[T]) Run(ctx context.Context) {
    ticker := time.NewTicker(p.interval)
    defer ticker.Stop()

    p.refresh(ctx)
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            p.refresh(ctx)
        }
    }
}

// Refresh triggers one out-of-band fetch, e.g. from a pull-to-refresh
// gesture.  Safe to call concurrently with Run.
func (p *Poller[T]) Refresh(ctx context.Context) error {
    return p.refresh(ctx)
}

func (p *Poller[T]) refresh(ctx context.Context) error {
    p.mu.Lock()
    p.nextGen++
    gen := p.nextGen
    p.mu.Unlock()

    snap, err := p.fetch(ctx)
    if err != nil {
        log.Printf("poller: fetch failed (generation %d): %v", gen, err)
        return err
    }

    p.mu.Lock()
    defer p.mu.Unlock()
    if gen <= p.applied {
        // A later fetch already landed; drop this stale result.
        return nil
    }
    p.applied = gen
    p.snapshot = snap
    p.appliedAt = time.Now().UTC()
    return nil
}

// Snapshot returns the most recently applied result and when it landed.
// The zero value of T with a zero time means nothing has been fetched yet.
func (p *Poller[T]) Snapshot() (T, time.Time) {
    p.mu.Lock()
    defer p.mu.Unlock()
    return p.snapshot, p.appliedAt
}
