package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/five82/buddyctl/internal/buddy"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"connection", &buddy.ConnectionError{Op: "load certificate", Err: errors.New("no such file")}, "cannot set up connection (check certificate)"},
		{"timeout", &buddy.TransportError{Method: "GET", Path: "/hostInfo", Timeout: true, Err: context.DeadlineExceeded}, "Buddy timed out"},
		{"transport", &buddy.TransportError{Method: "GET", Path: "/hostInfo", Err: errors.New("refused")}, "Buddy unreachable"},
		{"unauthorized", &buddy.ProtocolError{Method: "GET", Path: "/hostInfo", StatusCode: 401, Message: "nope"}, "not paired with Buddy"},
		{"protocol", &buddy.ProtocolError{Method: "GET", Path: "/hostInfo", StatusCode: 500, Message: "busy"}, "Buddy error: busy"},
		{"decode", &buddy.DecodeError{Shape: "HostInfo", Err: errors.New("missing")}, "unexpected response from Buddy"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		if got := classifyError(tt.err); got != tt.want {
			t.Fatalf("%s: classifyError = %q, want %q", tt.name, got, tt.want)
		}
	}
}
