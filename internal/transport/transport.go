// Package transport reports whether the remote backend is reachable. The
// sync core consults the signal before attempting a write and a Monitor can
// turn an offline-to-online transition into a foreground sync trigger.
package transport

import (
	"context"
	"time"
)

// Signal answers the single question the sync core asks the transport layer.
type Signal interface {
	Online(ctx context.Context) bool
}

// Static is a fixed connectivity signal, used for tests and for forcing
// offline mode from the CLI.
type Static bool

func (s Static) Online(context.Context) bool {
	return bool(s)
}

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingSignal reports the backend as online when a short ping succeeds.
type PingSignal struct {
	pinger  Pinger
	timeout time.Duration
}

// NewPingSignal creates a PingSignal over the given pinger.
func NewPingSignal(pinger Pinger) *PingSignal {
	return &PingSignal{pinger: pinger, timeout: 2 * time.Second}
}

func (s *PingSignal) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.pinger.PingContext(ctx) == nil
}

// Monitor polls a Signal and reports offline-to-online transitions. Each
// transition is delivered once; a consumer typically responds with a single
// queue drain, there is no retry loop behind it.
type Monitor struct {
	signal   Signal
	interval time.Duration
}

// NewMonitor creates a Monitor polling the signal at the given interval.
func NewMonitor(signal Signal, interval time.Duration) *Monitor {
	return &Monitor{signal: signal, interval: interval}
}

// Watch emits one value per offline-to-online transition until the context
// is cancelled. The channel is closed on return.
func (m *Monitor) Watch(ctx context.Context) <-chan struct{} {
	events := make(chan struct{}, 1)

	go func() {
		defer close(events)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		wasOnline := m.signal.Online(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			online := m.signal.Online(ctx)
			if online && !wasOnline {
				select {
				case events <- struct{}{}:
				default:
					// Consumer is still handling the previous transition.
				}
			}
			wasOnline = online
		}
	}()

	return events
}
