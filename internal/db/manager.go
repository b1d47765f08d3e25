package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrConnectionFailure wraps every error produced by a connection attempt.
var ErrConnectionFailure = errors.New("store connection failed")

// DialFunc opens a new handle to the backing store.
type DialFunc[H comparable] func(ctx context.Context) (H, error)

type Options[H comparable] struct {
	// Name shows up in logs ("postgres", "mongo").
	Name string
	// Healthy reports whether a cached handle can still be handed out.
	// A nil Healthy treats every cached handle as ready. It runs under the manager's lock and
	// must not do I/O.
	Healthy func(H) bool
	// Close releases a handle that is being dropped.
	Close  func(H)
	Logger *slog.Logger
}

// Manager hands out one shared store handle per process. The first Acquire dials; callers that
// arrive while that dial is in flight wait for the same attempt. A failed attempt is forgotten so
// the next Acquire dials again.
type Manager[H comparable] struct {
	dial DialFunc[H]
	opts Options[H]

	mu     sync.Mutex
	handle H
	ready  bool

	group singleflight.Group
}

func NewManager[H comparable](dial DialFunc[H], opts Options[H]) *Manager[H] {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Name == "" {
		opts.Name = "store"
	}

	return &Manager[H]{dial: dial, opts: opts}
}

// Acquire returns the shared handle, connecting if needed. If ctx ends first the caller gets
// ErrConnectionFailure wrapping ctx.Err() while the in-flight attempt keeps running for the
// other waiters.
func (m *Manager[H]) Acquire(ctx context.Context) (H, error) {
	if h, ok := m.cached(); ok {
		return h, nil
	}

	ch := m.group.DoChan("connect", func() (interface{}, error) {
		// another attempt may have completed between cached() and DoChan
		if h, ok := m.cached(); ok {
			return h, nil
		}

		return m.connect(context.WithoutCancel(ctx))
	})

	var zero H

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(H), nil
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %w", ErrConnectionFailure, ctx.Err())
	}
}

// Invalidate drops h if it is still the cached handle, forcing the next Acquire to reconnect.
func (m *Manager[H]) Invalidate(h H) {
	m.mu.Lock()
	if !m.ready || m.handle != h {
		m.mu.Unlock()
		return
	}
	m.reset()
	m.mu.Unlock()

	m.opts.Logger.Warn("store handle invalidated", "store", m.opts.Name)
	m.release(h)
}

// Close releases the cached handle, if any. Used on process shutdown.
func (m *Manager[H]) Close() {
	m.mu.Lock()
	h, ok := m.handle, m.ready
	m.reset()
	m.mu.Unlock()

	if ok {
		m.release(h)
	}
}

func (m *Manager[H]) cached() (H, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ready {
		var zero H
		return zero, false
	}

	if m.opts.Healthy != nil && !m.opts.Healthy(m.handle) {
		stale := m.handle
		m.reset()
		// release outside the caller's critical path
		go m.release(stale)

		var zero H
		return zero, false
	}

	return m.handle, true
}

func (m *Manager[H]) connect(ctx context.Context) (H, error) {
	start := time.Now()

	h, err := m.dial(ctx)
	if err != nil {
		m.opts.Logger.Error("store connection failed", "store", m.opts.Name, "err", err)

		var zero H
		return zero, fmt.Errorf("%w: %w", ErrConnectionFailure, err)
	}

	m.mu.Lock()
	m.handle = h
	m.ready = true
	m.mu.Unlock()

	m.opts.Logger.Info("store connected", "store", m.opts.Name, "latency_ms", time.Since(start).Milliseconds())

	return h, nil
}

// caller holds mu
func (m *Manager[H]) reset() {
	var zero H
	m.handle = zero
	m.ready = false
}

func (m *Manager[H]) release(h H) {
	if m.opts.Close != nil {
		m.opts.Close(h)
	}
}
