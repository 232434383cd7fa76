package app

import (
	"context"

	"github.com/five82/buddyctl/internal/buddy"
)

// Host runs fn against a live Buddy session. The session is closed when fn
// returns, whatever the outcome.
type Host interface {
	Do(ctx context.Context, fn func(ctx context.Context, ops buddy.Operations) error) error
}

type scopeHost struct {
	cfg      buddy.Config
	certPath string
	opts     []buddy.Option
}

// NewHost returns a Host that opens a fresh scope for every Do, so the
// poller and user actions never contend for one session.
func NewHost(cfg buddy.Config, certPath string, opts ...buddy.Option) Host {
	return scopeHost{cfg: cfg, certPath: certPath, opts: opts}
}

func (h scopeHost) Do(ctx context.Context, fn func(ctx context.Context, ops buddy.Operations) error) error {
	scope := buddy.NewScope(h.cfg, h.certPath, h.opts...)
	return scope.Do(ctx, func(ctx context.Context, sess *buddy.Session) error {
		return fn(ctx, sess)
	})
}
