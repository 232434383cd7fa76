package ui

import (
	"errors"

	"github.com/five82/buddyctl/internal/buddy"
)

// classifyError turns a poll failure into a short operator-facing message.
func classifyError(err error) string {
	var (
		conn  *buddy.ConnectionError
		trans *buddy.TransportError
		proto *buddy.ProtocolError
		dec   *buddy.DecodeError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &conn):
		return "cannot set up connection (check certificate)"
	case errors.As(err, &trans) && trans.Timeout:
		return "Buddy timed out"
	case errors.As(err, &trans):
		return "Buddy unreachable"
	case errors.As(err, &proto) && (proto.StatusCode == 401 || proto.StatusCode == 403):
		return "not paired with Buddy"
	case errors.As(err, &proto):
		return "Buddy error: " + proto.Message
	case errors.As(err, &dec):
		return "unexpected response from Buddy"
	default:
		return err.Error()
	}
}
