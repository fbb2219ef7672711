package desk

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/domain/repository"
	"github.com/polkiloo/p2pdesk/internal/notify"
	"github.com/polkiloo/p2pdesk/internal/worker"
)

type sessionKey struct {
	orderID  string
	viewerID string
}

type entry struct {
	session *Session
	refs    int
	ready   chan struct{}
	err     error
}

// Registry shares sessions between concurrent users of the same
// (order, viewer) pair and closes a session when its last user releases it.
type Registry struct {
	deps    sessionDeps
	journal *orderJournal

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[sessionKey]*entry
	closed   bool
}

// NewRegistry builds a registry whose sessions poll every interval.
func NewRegistry(
	fetcher worker.OrderFetcher,
	reviews repository.ReviewRepository,
	journal repository.TransitionRepository,
	interval time.Duration,
	logger *slog.Logger,
) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		deps: sessionDeps{
			fetcher:  fetcher,
			reviews:  reviews,
			interval: interval,
			logger:   logger,
		},
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[sessionKey]*entry),
	}
	if journal != nil {
		r.journal = newOrderJournal(journal)
		r.deps.journal = r.journal
	}
	return r
}

// Acquire returns the live session for the pair, opening it with an initial
// fetch when none exists. The release func must be called exactly once.
func (r *Registry) Acquire(ctx context.Context, orderID string, viewer model.Viewer) (*Session, func(), error) {
	key := sessionKey{orderID: orderID, viewerID: viewer.ID}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, nil, domainErrors.ErrSessionClosed
	}
	if e, ok := r.sessions[key]; ok {
		e.refs++
		r.mu.Unlock()

		select {
		case <-e.ready:
		case <-ctx.Done():
			r.release(key, e)
			return nil, nil, ctx.Err()
		}
		if e.err != nil {
			r.release(key, e)
			return nil, nil, e.err
		}
		e.session.setCredential(viewer.Credential)
		return e.session, r.releaser(key, e), nil
	}

	s := newSession(r.ctx, orderID, viewer, r.deps)
	e := &entry{session: s, refs: 1, ready: make(chan struct{})}
	r.sessions[key] = e
	r.mu.Unlock()

	if err := s.open(ctx); err != nil {
		e.err = err
		r.mu.Lock()
		if r.sessions[key] == e {
			delete(r.sessions, key)
		}
		r.mu.Unlock()
		close(e.ready)
		s.Close()
		return nil, nil, err
	}
	close(e.ready)
	return s, r.releaser(key, e), nil
}

func (r *Registry) releaser(key sessionKey, e *entry) func() {
	return sync.OnceFunc(func() { r.release(key, e) })
}

func (r *Registry) release(key sessionKey, e *entry) {
	r.mu.Lock()
	e.refs--
	if e.refs > 0 || r.sessions[key] != e {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, key)
	followed := r.followedLocked(key.orderID)
	r.mu.Unlock()

	e.session.Close()
	if !followed && r.journal != nil {
		r.journal.forget(key.orderID)
	}
}

func (r *Registry) followedLocked(orderID string) bool {
	for key := range r.sessions {
		if key.orderID == orderID {
			return true
		}
	}
	return false
}

// Notify routes a notice to the sessions following its order. A notice with a
// viewer goes to that viewer only.
func (r *Registry) Notify(_ context.Context, n notify.Notice) {
	r.mu.Lock()
	var targets []*Session
	for key, e := range r.sessions {
		if key.orderID != n.OrderID {
			continue
		}
		if n.ViewerID != "" && key.viewerID != n.ViewerID {
			continue
		}
		targets = append(targets, e.session)
	}
	r.mu.Unlock()

	for _, s := range targets {
		s.Deliver(n)
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops every session and refuses new ones.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	entries := r.sessions
	r.sessions = make(map[sessionKey]*entry)
	r.mu.Unlock()

	r.cancel()
	for _, e := range entries {
		e.session.Close()
	}
	return nil
}

var _ notify.Sink = (*Registry)(nil)
