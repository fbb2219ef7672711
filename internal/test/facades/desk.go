// Package facades holds facade stubs for transport tests. It lives apart from
// package test because it depends on packages whose own tests import that one.
package facades

import (
	"context"

	"github.com/polkiloo/p2pdesk/internal/desk"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/lifecycle"
	"github.com/polkiloo/p2pdesk/internal/usecase"
	testhelpers "github.com/polkiloo/p2pdesk/internal/test"
)

// DeskFacadeStub provides controllable behaviour for HTTP handlers.
type DeskFacadeStub struct {
	OrderFn   func(context.Context, model.Viewer, string) (lifecycle.Projection, error)
	InvokeFn  func(context.Context, model.Viewer, string, usecase.ActionRequest) (lifecycle.Projection, error)
	ReviewFn  func(context.Context, model.Viewer, string, model.ReviewType, string) (lifecycle.Projection, error)
	HistoryFn func(context.Context, model.Viewer, string) ([]model.Transition, error)
	WatchFn   func(context.Context, model.Viewer, string) (<-chan desk.Event, func(), error)
	ParseFn   func(string) (string, error)
	HealthFn  func(context.Context) error
}

// Projection builds the projection of a fixture order for viewerID.
func Projection(orderID string, status model.OrderStatus, viewerID string) lifecycle.Projection {
	proj, err := lifecycle.Project(*testhelpers.NewOrder(orderID, status), viewerID, false)
	if err != nil {
		panic(err)
	}
	return proj
}

// Order returns the override result or a buyer projection of a pending order.
func (s DeskFacadeStub) Order(ctx context.Context, viewer model.Viewer, orderID string) (lifecycle.Projection, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, viewer, orderID)
	}
	return Projection(orderID, model.OrderStatusPending, viewer.ID), nil
}

// Invoke returns the override result or the unchanged projection.
func (s DeskFacadeStub) Invoke(ctx context.Context, viewer model.Viewer, orderID string, req usecase.ActionRequest) (lifecycle.Projection, error) {
	if s.InvokeFn != nil {
		return s.InvokeFn(ctx, viewer, orderID, req)
	}
	return Projection(orderID, model.OrderStatusPending, viewer.ID), nil
}

// Review returns the override result or a reviewed completed projection.
func (s DeskFacadeStub) Review(ctx context.Context, viewer model.Viewer, orderID string, reviewType model.ReviewType, comment string) (lifecycle.Projection, error) {
	if s.ReviewFn != nil {
		return s.ReviewFn(ctx, viewer, orderID, reviewType, comment)
	}
	proj, _ := lifecycle.Project(*testhelpers.NewOrder(orderID, model.OrderStatusCompleted), viewer.ID, true)
	return proj, nil
}

// History returns the override result or no transitions.
func (s DeskFacadeStub) History(ctx context.Context, viewer model.Viewer, orderID string) ([]model.Transition, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, viewer, orderID)
	}
	return nil, nil
}

// Watch returns the override result or a stream with a single projection.
func (s DeskFacadeStub) Watch(ctx context.Context, viewer model.Viewer, orderID string) (<-chan desk.Event, func(), error) {
	if s.WatchFn != nil {
		return s.WatchFn(ctx, viewer, orderID)
	}
	ch := make(chan desk.Event, 1)
	proj := Projection(orderID, model.OrderStatusPending, viewer.ID)
	ch <- desk.Event{Projection: &proj}
	close(ch)
	return ch, func() {}, nil
}

// ParseToken returns the override result or a fixed viewer.
func (s DeskFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return testhelpers.BuyerID, nil
}

// HealthCheck returns the override result or nil.
func (s DeskFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}
