package buddy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrSessionClosed is returned by any call on a session after Close.
	ErrSessionClosed = errors.New("buddy: session closed")

	// ErrScopeActive is returned by Enter while the scope holds a live session.
	ErrScopeActive = errors.New("buddy: scope already entered")

	// ErrScopeNotEntered is returned by Exit when no session is live.
	ErrScopeNotEntered = errors.New("buddy: scope not entered")
)

// ConnectionError reports a failure to set up or tear down a session.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("buddy %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransportError reports a network failure or timeout on a single call. The
// session stays usable.
type TransportError struct {
	Method  string
	Path    string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("buddy %s %s: timeout: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("buddy %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func newTransportError(method, path string, err error) *TransportError {
	te := &TransportError{Method: method, Path: path, Err: err}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		te.Timeout = true
	}
	return te
}

// ProtocolError reports a non-2xx response. The body is never decoded into a
// record.
type ProtocolError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *ProtocolError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("buddy %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("buddy %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// DecodeError reports a response body that is not JSON or does not match the
// expected shape.
type DecodeError struct {
	Shape string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("buddy decode %s: %v", e.Shape, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

const maxErrorMessage = 256

// serverMessage extracts a human readable message from an error body.
func serverMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, field := range []string{"error", "message", "msg"} {
			if v := gjson.GetBytes(body, field); v.Exists() && v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorMessage {
		msg = msg[:maxErrorMessage] + "..."
	}
	return msg
}
