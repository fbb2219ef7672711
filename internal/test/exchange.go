package test

import (
	"context"
	"sync"

	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

// ExchangeCall records a single mutating request sent to the stub.
type ExchangeCall struct {
	Method    string
	OrderID   string
	Party     model.CancelParty
	Proof     string
	Confirmed bool
	Review    model.ReviewType
	Comment   string
}

// ExchangeStub emulates the upstream exchange with per-method overrides.
type ExchangeStub struct {
	GetOrderFn            func(context.Context, string) (*model.Order, error)
	AcceptOrderFn         func(context.Context, string) error
	DeclineOrderFn        func(context.Context, string) error
	CancelOrderFn         func(context.Context, string, model.CancelParty) error
	MarkPaymentMadeFn     func(context.Context, string, string) error
	MarkPaymentReceivedFn func(context.Context, string, bool) error
	SubmitReviewFn        func(context.Context, string, model.ReviewType, string) error

	mu    sync.Mutex
	gets  int
	calls []ExchangeCall
}

// GetOrder returns the override result or a pending order.
func (s *ExchangeStub) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	if s.GetOrderFn != nil {
		return s.GetOrderFn(ctx, orderID)
	}
	return NewOrder(orderID, model.OrderStatusPending), nil
}

// AcceptOrder records the call.
func (s *ExchangeStub) AcceptOrder(ctx context.Context, orderID string) error {
	s.record(ExchangeCall{Method: "accept", OrderID: orderID})
	if s.AcceptOrderFn != nil {
		return s.AcceptOrderFn(ctx, orderID)
	}
	return nil
}

// DeclineOrder records the call.
func (s *ExchangeStub) DeclineOrder(ctx context.Context, orderID string) error {
	s.record(ExchangeCall{Method: "decline", OrderID: orderID})
	if s.DeclineOrderFn != nil {
		return s.DeclineOrderFn(ctx, orderID)
	}
	return nil
}

// CancelOrder records the call together with the cancelling party.
func (s *ExchangeStub) CancelOrder(ctx context.Context, orderID string, as model.CancelParty) error {
	s.record(ExchangeCall{Method: "cancel", OrderID: orderID, Party: as})
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, orderID, as)
	}
	return nil
}

// MarkPaymentMade records the call and its proof.
func (s *ExchangeStub) MarkPaymentMade(ctx context.Context, orderID, proof string) error {
	s.record(ExchangeCall{Method: "payment_made", OrderID: orderID, Proof: proof})
	if s.MarkPaymentMadeFn != nil {
		return s.MarkPaymentMadeFn(ctx, orderID, proof)
	}
	return nil
}

// MarkPaymentReceived records the call and the confirmation flag.
func (s *ExchangeStub) MarkPaymentReceived(ctx context.Context, orderID string, confirmed bool) error {
	s.record(ExchangeCall{Method: "payment_received", OrderID: orderID, Confirmed: confirmed})
	if s.MarkPaymentReceivedFn != nil {
		return s.MarkPaymentReceivedFn(ctx, orderID, confirmed)
	}
	return nil
}

// SubmitReview records the call.
func (s *ExchangeStub) SubmitReview(ctx context.Context, orderID string, reviewType model.ReviewType, comment string) error {
	s.record(ExchangeCall{Method: "review", OrderID: orderID, Review: reviewType, Comment: comment})
	if s.SubmitReviewFn != nil {
		return s.SubmitReviewFn(ctx, orderID, reviewType, comment)
	}
	return nil
}

// Calls returns a copy of the recorded mutating calls.
func (s *ExchangeStub) Calls() []ExchangeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ExchangeCall(nil), s.calls...)
}

// Gets returns the number of GetOrder invocations.
func (s *ExchangeStub) Gets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func (s *ExchangeStub) record(call ExchangeCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}
