package repository

import (
	"context"

	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

// TransitionRepository journals status changes observed by the reconciler.
type TransitionRepository interface {
	Append(ctx context.Context, transition model.Transition) error
	ListByOrder(ctx context.Context, orderID string) ([]model.Transition, error)
}
