package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

// ReviewRepositoryStub stores reviews in-memory for tests.
type ReviewRepositoryStub struct {
	CreateFn func(context.Context, model.Review) error
	ExistsFn func(context.Context, string, string) (bool, error)

	mu      sync.Mutex
	Reviews []model.Review
}

// Create stores the review unless the viewer already reviewed the order.
func (s *ReviewRepositoryStub) Create(ctx context.Context, review model.Review) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, review)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Reviews {
		if r.OrderID == review.OrderID && r.ViewerID == review.ViewerID {
			return domainErrors.ErrAlreadyExists
		}
	}
	s.Reviews = append(s.Reviews, review)
	return nil
}

// Exists reports whether a review is stored for the pair.
func (s *ReviewRepositoryStub) Exists(ctx context.Context, orderID, viewerID string) (bool, error) {
	if s.ExistsFn != nil {
		return s.ExistsFn(ctx, orderID, viewerID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Reviews {
		if r.OrderID == orderID && r.ViewerID == viewerID {
			return true, nil
		}
	}
	return false, nil
}

// TransitionRepositoryStub records observed transitions.
type TransitionRepositoryStub struct {
	AppendFn func(context.Context, model.Transition) error
	ListFn   func(context.Context, string) ([]model.Transition, error)

	mu    sync.Mutex
	Items []model.Transition
}

// Append stores the transition.
func (s *TransitionRepositoryStub) Append(ctx context.Context, t model.Transition) error {
	if s.AppendFn != nil {
		return s.AppendFn(ctx, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Items = append(s.Items, t)
	return nil
}

// ListByOrder returns stored transitions for the order.
func (s *TransitionRepositoryStub) ListByOrder(ctx context.Context, orderID string) ([]model.Transition, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Transition
	for _, t := range s.Items {
		if t.OrderID == orderID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Snapshot returns a copy of all stored transitions.
func (s *TransitionRepositoryStub) Snapshot() []model.Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transition(nil), s.Items...)
}
