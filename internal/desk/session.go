// Package desk keeps live per-viewer order sessions: each one owns a
// reconciling poller and fans fresh projections and notices out to subscribers.
package desk

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/p2pdesk/internal/adapter/exchange"
	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/domain/repository"
	"github.com/polkiloo/p2pdesk/internal/lifecycle"
	"github.com/polkiloo/p2pdesk/internal/notify"
	"github.com/polkiloo/p2pdesk/internal/worker"
)

const subscriberBuffer = 16

// Event is pushed to subscribers whenever the projection changes or a notice
// is raised. Exactly one field is set.
type Event struct {
	Projection *lifecycle.Projection
	Notice     *notify.Notice
}

type sessionDeps struct {
	fetcher  worker.OrderFetcher
	reviews  repository.ReviewRepository
	journal  repository.TransitionRepository
	interval time.Duration
	logger   *slog.Logger
}

// Session is one viewer's live view of one order.
type Session struct {
	orderID    string
	deps       sessionDeps
	logger     *slog.Logger
	reconciler *worker.Reconciler

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.RWMutex
	viewer     model.Viewer
	projection lifecycle.Projection
	loaded     bool
	reviewed   bool
	busy       model.Action
	closed     bool
	subs       map[int]chan Event
	nextSub    int
}

func newSession(parent context.Context, orderID string, viewer model.Viewer, deps sessionDeps) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		orderID: orderID,
		viewer:  viewer,
		deps:    deps,
		logger:  deps.logger.With(slog.String("order", orderID), slog.String("viewer", viewer.ID)),
		ctx:     ctx,
		cancel:  cancel,
		subs:    make(map[int]chan Event),
	}
	s.reconciler = worker.NewReconciler(orderID, s, s, deps.interval, deps.logger)
	return s
}

func (s *Session) open(ctx context.Context) error {
	if s.deps.reviews != nil {
		reviewed, err := s.deps.reviews.Exists(ctx, s.orderID, s.viewer.ID)
		if err != nil {
			s.logger.Warn("review lookup failed", slog.String("error", err.Error()))
		}
		s.reviewed = reviewed
	}

	if _, err := s.reconciler.Refresh(ctx); err != nil {
		return err
	}
	s.reconciler.Start(s.ctx)
	return nil
}

// OrderID returns the order the session follows.
func (s *Session) OrderID() string { return s.orderID }

// Viewer returns the viewer the session projects for.
func (s *Session) Viewer() model.Viewer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewer
}

func (s *Session) setCredential(credential string) {
	if credential == "" {
		return
	}
	s.mu.Lock()
	s.viewer.Credential = credential
	s.mu.Unlock()
}

// GetOrder fetches the order upstream on the viewer's behalf.
func (s *Session) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return s.deps.fetcher.GetOrder(exchange.WithCredential(ctx, s.Viewer().Credential), orderID)
}

// Apply replaces the projection with one derived from order.
func (s *Session) Apply(order *model.Order) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	proj, err := lifecycle.Project(*order, s.viewer.ID, s.reviewed)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("project order", slog.String("error", err.Error()))
		return
	}
	prev, had := s.projection.Order.Status, s.loaded
	proj.Busy = s.busy
	s.projection = proj
	s.loaded = true
	s.mu.Unlock()

	if had && prev != proj.Order.Status {
		s.recordTransition(prev, proj.Order.Status)
	}
	s.publish(Event{Projection: &proj})
}

// FetchFailed surfaces background polling failures that need the viewer.
func (s *Session) FetchFailed(err error) {
	var authErr *domainErrors.AuthError
	if errors.As(err, &authErr) {
		s.Deliver(notify.New(s.orderID, s.Viewer().ID, notify.KindAuth, "exchange session expired, sign in again"))
	}
}

func (s *Session) recordTransition(from, to model.OrderStatus) {
	if !from.CanTransitionTo(to) {
		s.logger.Warn("unexpected status transition reported by exchange",
			slog.String("from", string(from)),
			slog.String("to", string(to)),
		)
	}
	if s.deps.journal == nil {
		return
	}
	t := model.Transition{OrderID: s.orderID, From: from, To: to, ObservedAt: time.Now().UTC()}
	if err := s.deps.journal.Append(s.ctx, t); err != nil && s.ctx.Err() == nil {
		s.logger.Error("record transition", slog.String("error", err.Error()))
	}
}

// Snapshot returns the latest projection.
func (s *Session) Snapshot() (lifecycle.Projection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return lifecycle.Projection{}, domainErrors.ErrSessionClosed
	}
	if !s.loaded {
		return lifecycle.Projection{}, domainErrors.ErrNotFound
	}
	return s.projection, nil
}

// Refresh refetches the order now and returns the reconciled projection.
func (s *Session) Refresh(ctx context.Context) (lifecycle.Projection, error) {
	if _, err := s.Snapshot(); errors.Is(err, domainErrors.ErrSessionClosed) {
		return lifecycle.Projection{}, err
	}
	if _, err := s.reconciler.Refresh(ctx); err != nil {
		return lifecycle.Projection{}, err
	}
	return s.Snapshot()
}

// SetBusy marks action as in flight and withholds every action until cleared.
func (s *Session) SetBusy(action model.Action) {
	s.updateProjection(func(p *lifecycle.Projection) {
		s.busy = action
		*p = p.WithBusy(action)
	})
}

// ClearBusy re-offers actions after a mutation settled.
func (s *Session) ClearBusy() {
	s.updateProjection(func(p *lifecycle.Projection) {
		s.busy = ""
		p.Busy = ""
	})
}

// MarkReviewed withdraws the review action for this viewer.
func (s *Session) MarkReviewed() lifecycle.Projection {
	s.updateProjection(func(p *lifecycle.Projection) {
		s.reviewed = true
		proj, err := lifecycle.Project(p.Order, s.viewer.ID, true)
		if err != nil {
			return
		}
		proj.Busy = s.busy
		*p = proj
	})
	proj, _ := s.Snapshot()
	return proj
}

func (s *Session) updateProjection(fn func(p *lifecycle.Projection)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	fn(&s.projection)
	proj, loaded := s.projection, s.loaded
	s.mu.Unlock()

	if loaded {
		s.publish(Event{Projection: &proj})
	}
}

// Deliver pushes a notice to every subscriber.
func (s *Session) Deliver(n notify.Notice) {
	s.publish(Event{Notice: &n})
}

// Subscribe registers for events. The current projection, if any, is queued
// first. The returned func unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	if s.loaded {
		proj := s.projection
		ch <- Event{Projection: &proj}
	}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

func (s *Session) publish(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.logger.Debug("subscriber lagging, event dropped", slog.Int("subscriber", id))
		}
	}
}

// Close stops polling and closes all subscriptions. Safe to call repeatedly.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	s.reconciler.Stop()
}
