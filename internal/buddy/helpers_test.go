package buddy

import (
	"encoding/pem"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

type fakeBuddy struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
	certPath string
}

func (f *fakeBuddy) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		Body:   string(body),
	})
}

func (f *fakeBuddy) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no requests recorded")
	return f.requests[len(f.requests)-1]
}

func (f *fakeBuddy) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeBuddy) config(clientID string, timeout time.Duration) Config {
	host, portStr, _ := net.SplitHostPort(f.server.Listener.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return Config{Address: host, Port: port, ClientID: clientID, Timeout: timeout}
}

// newFakeBuddy starts a TLS server whose certificate is written to a temp
// PEM file for pinning. routes maps "METHOD /path" to a response body.
func newFakeBuddy(t *testing.T, routes map[string]string) *fakeBuddy {
	t.Helper()
	f := &fakeBuddy{}
	f.server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(f.server.Close)
	f.certPath = writeCert(t, f.server)
	return f
}

func writeCert(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buddy_cert.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func enterScope(t *testing.T, f *fakeBuddy, clientID string, opts ...Option) (*Scope, *Session) {
	t.Helper()
	scope := NewScope(f.config(clientID, 2*time.Second), f.certPath, opts...)
	sess, err := scope.Enter()
	require.NoError(t, err)
	t.Cleanup(func() { _ = scope.Exit() })
	return scope, sess
}
