package netmon

import (
	"context"
	"errors"
	"net"
	"net/url"
	"sync"

	"go.uber.org/zap"
)

// failureKind is the classification of a failed exchange.
type failureKind int

const (
	kindConnectTimeout failureKind = iota
	kindResponseTimeout
	kindTransport
	kindProtocol
)

func (k failureKind) String() string {
	switch k {
	case kindConnectTimeout:
		return "connect-timeout"
	case kindResponseTimeout:
		return "response-timeout"
	case kindTransport:
		return "transport"
	default:
		return "protocol"
	}
}

// Notifier receives the user-facing "network down" signal. It fires once
// per outage, on the up-to-down transition only.
type Notifier interface {
	NetworkDown()
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func()

func (f NotifierFunc) NetworkDown() { f() }

// Monitor wraps single network exchanges, classifies their failures, and
// edge-triggers the down notification. It performs no retries; callers own
// any retry policy.
type Monitor struct {
	log      *zap.Logger
	notifier Notifier

	mu   sync.Mutex
	down bool
}

// New returns a Monitor logging through log and signalling outages to
// notifier. A nil notifier disables the signal.
func New(log *zap.Logger, notifier Notifier) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{log: log.Named("netmon"), notifier: notifier}
}

// Down reports the current network-down flag.
func (m *Monitor) Down() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.down
}

// Execute runs one exchange through the monitor. Timeouts flip the
// process-wide down flag and notify on the false-to-true edge; any success
// resets the flag so the next outage re-notifies. Every failure resolves to
// a failed Result, never a panic or a propagated error.
func Execute[T any](ctx context.Context, m *Monitor, name string, op func(context.Context) (T, error)) Result[T] {
	v, err := op(ctx)
	if err == nil {
		m.markUp()
		return ok(v)
	}

	kind := classify(err)
	m.log.Warn("exchange failed",
		zap.String("op", name),
		zap.Stringer("kind", kind),
		zap.Error(err),
	)

	switch kind {
	case kindConnectTimeout, kindResponseTimeout:
		m.markDown()
		return failed[T](StatusTransportFailure, err)
	case kindTransport:
		return failed[T](StatusTransportFailure, err)
	default:
		return failed[T](StatusProtocolFailure, err)
	}
}

func (m *Monitor) markDown() {
	m.mu.Lock()
	wasDown := m.down
	m.down = true
	m.mu.Unlock()

	if !wasDown {
		m.log.Info("network down")
		if m.notifier != nil {
			m.notifier.NetworkDown()
		}
	}
}

func (m *Monitor) markUp() {
	m.mu.Lock()
	if m.down {
		m.log.Info("network recovered")
	}
	m.down = false
	m.mu.Unlock()
}

// classify maps an exchange error onto the failure taxonomy. Only timeouts
// count as outages; cancellation and other transport errors fail the call
// without touching the down flag.
func classify(err error) failureKind {
	if errors.Is(err, context.Canceled) {
		return kindTransport
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		var op *net.OpError
		if errors.As(err, &op) && op.Op == "dial" {
			return kindConnectTimeout
		}
		return kindResponseTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return kindResponseTimeout
	}

	var op *net.OpError
	if errors.As(err, &op) {
		return kindTransport
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return kindTransport
	}
	return kindProtocol
}
