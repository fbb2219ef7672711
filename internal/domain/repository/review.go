package repository

import (
	"context"

	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

// ReviewRepository keeps the ledger of submitted reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review model.Review) error
	Exists(ctx context.Context, orderID, viewerID string) (bool, error)
}
