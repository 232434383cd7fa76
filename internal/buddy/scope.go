package buddy

import (
	"context"
	"encoding/base64"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/buddyctl/internal/tlspin"
)

const (
	defaultUserAgent = "buddyctl/0.1"
	defaultTimeout   = 5 * time.Second
)

// Config identifies one Buddy endpoint and the client talking to it.
type Config struct {
	Address  string
	Port     int
	ClientID string
	Timeout  time.Duration
}

// BaseURL returns https://{address}:{port}.
func (c Config) BaseURL() *url.URL {
	return &url.URL{Scheme: "https", Host: net.JoinHostPort(c.Address, strconv.Itoa(c.Port))}
}

// AuthHeader returns the Authorization value Buddy expects: the literal
// "basic " followed by base64 of the client id. This is not RFC 7617.
func (c Config) AuthHeader() string {
	return "basic " + base64.StdEncoding.EncodeToString([]byte(c.ClientID))
}

type options struct {
	logger    zerolog.Logger
	metrics   *Metrics
	userAgent string
}

// Option customizes sessions created by a Scope.
type Option func(*options)

// WithLogger sets the logger used for per-request debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records every request in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// Scope owns at most one live Session for a Config. Enter and Exit must be
// paired; Do pairs them for the caller.
type Scope struct {
	cfg      Config
	certPath string
	opts     options

	mu   sync.Mutex
	live *Session
}

// NewScope prepares a scope. Nothing is read or dialed until Enter.
func NewScope(cfg Config, certPath string, opts ...Option) *Scope {
	o := options{logger: zerolog.Nop(), userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(&o)
	}
	return &Scope{cfg: cfg, certPath: certPath, opts: o}
}

// Config returns the scope's connection config.
func (s *Scope) Config() Config { return s.cfg }

// Enter loads the pinned certificate and builds a session.
func (s *Scope) Enter() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live != nil {
		return nil, &ConnectionError{Op: "enter", Err: ErrScopeActive}
	}
	sess, err := newSession(s.cfg, s.certPath, s.opts)
	if err != nil {
		return nil, err
	}
	s.live = sess
	return sess, nil
}

// Exit closes the live session. Calling Exit without a live session returns
// ErrScopeNotEntered.
func (s *Scope) Exit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live == nil {
		return &ConnectionError{Op: "exit", Err: ErrScopeNotEntered}
	}
	sess := s.live
	s.live = nil
	return sess.Close()
}

// Do enters the scope, runs fn and exits on every path, including a panic in
// fn. An Exit failure is reported only when fn succeeded.
func (s *Scope) Do(ctx context.Context, fn func(ctx context.Context, sess *Session) error) (err error) {
	sess, err := s.Enter()
	if err != nil {
		return err
	}
	defer func() {
		if exitErr := s.Exit(); exitErr != nil && err == nil {
			err = exitErr
		}
	}()
	return fn(ctx, sess)
}

// Session is an authenticated, certificate-pinned connection to Buddy. Its
// header, TLS config and base URL never change after construction, so calls
// may run concurrently.
type Session struct {
	cfg       Config
	baseURL   *url.URL
	auth      string
	userAgent string
	transport *http.Transport
	http      *http.Client
	log       zerolog.Logger
	metrics   *Metrics
	closed    atomic.Bool
}

func newSession(cfg Config, certPath string, o options) (*Session, error) {
	pin, err := tlspin.LoadFile(certPath)
	if err != nil {
		return nil, &ConnectionError{Op: "load certificate", Err: err}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := &http.Transport{
		TLSClientConfig:     pin.ClientConfig(),
		TLSHandshakeTimeout: timeout,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
		// Redirects surface as ProtocolError like any other non-2xx.
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	base := cfg.BaseURL()
	return &Session{
		cfg:       cfg,
		baseURL:   base,
		auth:      cfg.AuthHeader(),
		userAgent: o.userAgent,
		transport: transport,
		http:      client,
		log:       o.logger.With().Str("component", "buddy").Str("host", base.Host).Logger(),
		metrics:   o.metrics,
	}, nil
}

// Close releases the transport. A second Close returns ErrSessionClosed.
func (s *Session) Close() error {
	if s == nil || !s.closed.CompareAndSwap(false, true) {
		return &ConnectionError{Op: "close", Err: ErrSessionClosed}
	}
	s.transport.CloseIdleConnections()
	s.log.Debug().Msg("session closed")
	return nil
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	return s == nil || s.closed.Load()
}

// ClientID returns the client identifier the session authenticates with.
func (s *Session) ClientID() string {
	if s == nil {
		return ""
	}
	return s.cfg.ClientID
}
