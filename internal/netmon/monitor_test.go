package netmon_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"locshare/internal/netmon"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func responseTimeout() error {
	return &net.OpError{Op: "read", Net: "tcp", Err: timeoutErr{}}
}

func connectTimeout() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: timeoutErr{}}
}

type countingNotifier struct{ fired int }

func (n *countingNotifier) NetworkDown() { n.fired++ }

func run(m *netmon.Monitor, err error) netmon.Result[struct{}] {
	return netmon.Execute(context.Background(), m, "op", func(context.Context) (struct{}, error) {
		return struct{}{}, err
	})
}

func TestExecute_Success(t *testing.T) {
	m := netmon.New(nil, nil)
	res := netmon.Execute(context.Background(), m, "op", func(context.Context) (int, error) {
		return 7, nil
	})
	require.True(t, res.Ok())
	require.Equal(t, 7, res.Value)
	require.False(t, m.Down())
}

func TestExecute_TimeoutNotifiesOncePerOutage(t *testing.T) {
	n := &countingNotifier{}
	m := netmon.New(nil, n)

	for i := 0; i < 5; i++ {
		res := run(m, responseTimeout())
		require.False(t, res.Ok())
		require.Equal(t, netmon.StatusTransportFailure, res.Status)
	}
	require.True(t, m.Down())
	require.Equal(t, 1, n.fired)
}

func TestExecute_RecoveryRearmsNotification(t *testing.T) {
	n := &countingNotifier{}
	m := netmon.New(nil, n)

	run(m, connectTimeout())
	require.Equal(t, 1, n.fired)

	run(m, nil)
	require.False(t, m.Down())

	run(m, responseTimeout())
	require.True(t, m.Down())
	require.Equal(t, 2, n.fired)
}

func TestExecute_NonTimeoutTransportDoesNotNotify(t *testing.T) {
	n := &countingNotifier{}
	m := netmon.New(nil, n)

	res := run(m, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
	require.False(t, res.Ok())
	require.Equal(t, netmon.StatusTransportFailure, res.Status)
	require.False(t, m.Down())
	require.Equal(t, 0, n.fired)
}

func TestExecute_ProtocolFailure(t *testing.T) {
	m := netmon.New(nil, nil)

	res := run(m, errors.New("relay post /api/getkey: 404 Not Found"))
	require.False(t, res.Ok())
	require.Equal(t, netmon.StatusProtocolFailure, res.Status)
	require.False(t, m.Down())
}

func TestExecute_CancellationIsFailureNotOutage(t *testing.T) {
	n := &countingNotifier{}
	m := netmon.New(nil, n)

	res := run(m, context.Canceled)
	require.False(t, res.Ok())
	require.Equal(t, netmon.StatusTransportFailure, res.Status)
	require.False(t, m.Down())
	require.Equal(t, 0, n.fired)
}

func TestExecute_DeadlineExceededIsTimeout(t *testing.T) {
	n := &countingNotifier{}
	m := netmon.New(nil, n)

	res := run(m, context.DeadlineExceeded)
	require.False(t, res.Ok())
	require.Equal(t, netmon.StatusTransportFailure, res.Status)
	require.True(t, m.Down())
	require.Equal(t, 1, n.fired)
}
