package netmon

// Status partitions the outcome of a network exchange. Transport and
// protocol failures both resolve the call to a failed result; the split
// exists so callers and logs can tell an unreachable relay from a relay
// that answered with garbage.
type Status int

const (
	// StatusOK means the exchange completed and the value is usable.
	StatusOK Status = iota
	// StatusTransportFailure covers timeouts and other connectivity errors.
	StatusTransportFailure
	// StatusProtocolFailure covers non-success responses and malformed
	// payloads.
	StatusProtocolFailure
)

// Result is the outcome of one monitored exchange.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// Ok reports whether the exchange succeeded.
func (r Result[T]) Ok() bool { return r.Status == StatusOK }

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusOK}
}

func failed[T any](status Status, err error) Result[T] {
	return Result[T]{Status: status, Err: err}
}
