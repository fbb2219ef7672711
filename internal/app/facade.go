package app

import (
	"context"
	"fmt"

	"github.com/polkiloo/p2pdesk/internal/desk"
	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/domain/repository"
	"github.com/polkiloo/p2pdesk/internal/lifecycle"
	pkgAuth "github.com/polkiloo/p2pdesk/internal/pkg/auth"
	"github.com/polkiloo/p2pdesk/internal/usecase"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// DeskFacade binds HTTP-level operations to live order sessions.
type DeskFacade struct {
	sessions     *desk.Registry
	orchestrator *usecase.Orchestrator
	reviews      *usecase.ReviewUseCase
	transitions  repository.TransitionRepository
	tokens       pkgAuth.Strategy
	health       HealthChecker
}

func NewDeskFacade(
	sessions *desk.Registry,
	orchestrator *usecase.Orchestrator,
	reviews *usecase.ReviewUseCase,
	repos repository.Factory,
	tokens pkgAuth.Strategy,
	health HealthChecker,
) *DeskFacade {
	return &DeskFacade{
		sessions:     sessions,
		orchestrator: orchestrator,
		reviews:      reviews,
		transitions:  repos.Transitions(),
		tokens:       tokens,
		health:       health,
	}
}

func (f *DeskFacade) Order(ctx context.Context, viewer model.Viewer, orderID string) (lifecycle.Projection, error) {
	session, release, err := f.acquire(ctx, viewer, orderID)
	if err != nil {
		return lifecycle.Projection{}, err
	}
	defer release()
	return session.Snapshot()
}

func (f *DeskFacade) Invoke(ctx context.Context, viewer model.Viewer, orderID string, req usecase.ActionRequest) (lifecycle.Projection, error) {
	session, release, err := f.acquire(ctx, viewer, orderID)
	if err != nil {
		return lifecycle.Projection{}, err
	}
	defer release()
	return f.orchestrator.Invoke(ctx, session, req)
}

func (f *DeskFacade) Review(ctx context.Context, viewer model.Viewer, orderID string, reviewType model.ReviewType, comment string) (lifecycle.Projection, error) {
	session, release, err := f.acquire(ctx, viewer, orderID)
	if err != nil {
		return lifecycle.Projection{}, err
	}
	defer release()
	return f.reviews.Submit(ctx, session, reviewType, comment)
}

// History lists observed transitions for participants of the order. The
// order is fetched under the viewer's credential first so the exchange
// decides who may see it.
func (f *DeskFacade) History(ctx context.Context, viewer model.Viewer, orderID string) ([]model.Transition, error) {
	session, release, err := f.acquire(ctx, viewer, orderID)
	if err != nil {
		return nil, err
	}
	proj, err := session.Snapshot()
	release()
	if err != nil {
		return nil, err
	}
	if !proj.Capabilities.Trading() && !proj.Capabilities.OwnsAd {
		return nil, fmt.Errorf("history of order %s: %w", orderID, domainErrors.ErrNotFound)
	}
	return f.transitions.ListByOrder(ctx, orderID)
}

// Watch keeps the session alive until the returned stop func is called.
func (f *DeskFacade) Watch(ctx context.Context, viewer model.Viewer, orderID string) (<-chan desk.Event, func(), error) {
	session, release, err := f.acquire(ctx, viewer, orderID)
	if err != nil {
		return nil, nil, err
	}
	events, unsubscribe := session.Subscribe()
	return events, func() {
		unsubscribe()
		release()
	}, nil
}

func (f *DeskFacade) ParseToken(token string) (string, error) {
	return f.tokens.ParseToken(token)
}

func (f *DeskFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *DeskFacade) acquire(ctx context.Context, viewer model.Viewer, orderID string) (*desk.Session, func(), error) {
	if err := usecase.ValidateOrderID(orderID); err != nil {
		return nil, nil, err
	}
	return f.sessions.Acquire(ctx, orderID, viewer)
}
