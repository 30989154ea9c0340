package memory

import (
	"context"

	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/session"
)

// SessionPool opens a fresh Session per scope. Sessions share mapping
// metadata and evaluators but never entities.
type SessionPool struct {
	opts []Option
}

var _ session.SessionPool = (*SessionPool)(nil)

func NewSessionPool(opts ...Option) *SessionPool {
	c := newConfig(opts)
	shared := append(opts[:len(opts):len(opts)], withEvaluators(c.evaluators))
	return &SessionPool{opts: shared}
}

func (p *SessionPool) Session(ctx context.Context, callback session.SessionPoolCallback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := append(p.opts[:len(p.opts):len(p.opts)], WithContext(ctx))
	return callback(New(opts...))
}
