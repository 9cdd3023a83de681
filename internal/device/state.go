package device

import (
	"context"
	"sync"

	"coyotectl/internal/protocol"
)

// State is the mirrored device state. It is only ever mutated by processed
// notifications (and battery pushes), never by outbound commands: the
// device echoes effective values back, and those echoes are authoritative.
type State struct {
	// Battery is the charge percentage, 0–100.
	Battery uint8
	// Intensity is the effective stimulation intensity per channel.
	Intensity protocol.Stereo[uint8]
	// Settings is the effective device configuration.
	Settings protocol.DeviceSettings
}

// StateSignal is a read handle on the mirrored device state: the current
// value can be read at any time without blocking, and changes can be
// awaited. Only this package implements it; the bridge's locking and
// deduplication invariants are part of the contract.
type StateSignal interface {
	// Get returns the most recently observed state. It never blocks on
	// notification processing and never fails.
	Get() State
	// Next blocks until the mirrored state changes to a value different
	// from the one cached when the change happened, and returns it.
	// Consecutive identical snapshots are not changes. If the notification
	// feed ends, Next keeps waiting — disconnection is not a change — so
	// the context is the only way out.
	//
	// Under rapid updates Next returns the latest state, not every
	// intermediate one.
	Next(ctx context.Context) (State, error)
	// Watch streams distinct states until the context ends, then closes
	// the channel. Like Next, a slow receiver observes the latest value
	// rather than every intermediate one.
	Watch(ctx context.Context) <-chan State

	sealed()
}

// stateBridge adapts the push feed of state snapshots into the StateSignal
// contract: a single goroutine owns the feed cursor, so advancing it is
// exclusive by construction, while the cached value sits behind a
// read-write lock so readers never contend with the cursor.
type stateBridge struct {
	mu      sync.RWMutex
	current State
	// changed is closed and replaced whenever current is replaced;
	// a snapshot equal to current closes nothing.
	changed chan struct{}
}

func newStateBridge(initial State, source <-chan State) *stateBridge {
	b := &stateBridge{
		current: initial,
		changed: make(chan struct{}),
	}
	go b.run(source)
	return b
}

func (b *stateBridge) run(source <-chan State) {
	for s := range source {
		b.mu.Lock()
		if s == b.current {
			b.mu.Unlock()
			continue
		}
		b.current = s
		close(b.changed)
		b.changed = make(chan struct{})
		b.mu.Unlock()
	}
	// The feed ended. That means "no further changes", not a final event:
	// pending waiters stay pending until their contexts end.
}

func (b *stateBridge) Get() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

func (b *stateBridge) Next(ctx context.Context) (State, error) {
	b.mu.RLock()
	ch := b.changed
	b.mu.RUnlock()

	select {
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-ch:
		return b.Get(), nil
	}
}

func (b *stateBridge) Watch(ctx context.Context) <-chan State {
	out := make(chan State, 1)
	go func() {
		defer close(out)
		last := b.Get()
		for {
			b.mu.RLock()
			s, ch := b.current, b.changed
			b.mu.RUnlock()

			if s != last {
				last = s
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
				continue
			}

			select {
			case <-ctx.Done():
				return
			case <-ch:
			}
		}
	}()
	return out
}

func (b *stateBridge) sealed() {}
