package handlers

import (
	"context"

	"github.com/polkiloo/p2pdesk/internal/desk"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/lifecycle"
	"github.com/polkiloo/p2pdesk/internal/usecase"
)

// OrderFacade exposes the per-order operations used by HTTP handlers.
type OrderFacade interface {
	Order(ctx context.Context, viewer model.Viewer, orderID string) (lifecycle.Projection, error)
	Invoke(ctx context.Context, viewer model.Viewer, orderID string, req usecase.ActionRequest) (lifecycle.Projection, error)
	Review(ctx context.Context, viewer model.Viewer, orderID string, reviewType model.ReviewType, comment string) (lifecycle.Projection, error)
	History(ctx context.Context, viewer model.Viewer, orderID string) ([]model.Transition, error)
}

// StreamFacade subscribes to live order updates.
type StreamFacade interface {
	Watch(ctx context.Context, viewer model.Viewer, orderID string) (<-chan desk.Event, func(), error)
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// DeskFacade aggregates the full set of operations used across handlers.
type DeskFacade interface {
	OrderFacade
	StreamFacade
	HealthFacade
	ParseToken(token string) (string, error)
}
