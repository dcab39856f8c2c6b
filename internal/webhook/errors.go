package webhook

import "fmt"

// NetworkError means the endpoint could not be reached: DNS failure, refused
// connection, or a connection dropped before a response arrived. Network
// errors are retried automatically up to the configured bound.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("webhook unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means no response arrived within the delivery deadline. It is
// retried like a NetworkError but reported distinctly.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("webhook timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ServerError means the endpoint answered with a non-2xx status. The webhook
// carries no structured error body, so only the status is surfaced. Server
// errors are never retried automatically.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("webhook rejected request: status %d", e.Status)
}
