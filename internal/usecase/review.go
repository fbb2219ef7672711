package usecase

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
)

// ReviewView is the live projection a review is submitted against.
type ReviewView interface {
	OrderID() string
	Viewer() model.Viewer
	Snapshot() (lifecycle.Projection, error)
	MarkReviewed() lifecycle.Projection
}

// ReviewUseCase submits the one review a viewer may leave on a completed order.
type ReviewUseCase struct {
	client  exchange.Client
	reviews repository.ReviewRepository
	logger  *slog.Logger

	pending sync.Map
}

// NewReviewUseCase constructs ReviewUseCase.
func NewReviewUseCase(client exchange.Client, reviews repository.ReviewRepository, logger *slog.Logger) *ReviewUseCase {
	return &ReviewUseCase{client: client, reviews: reviews, logger: logger}
}

// Submit sends the review upstream and records it in the ledger.
func (u *ReviewUseCase) Submit(ctx context.Context, view ReviewView, reviewType model.ReviewType, comment string) (lifecycle.Projection, error) {
	if err := ValidateReview(reviewType, comment); err != nil {
		return lifecycle.Projection{}, err
	}

	proj, err := view.Snapshot()
	if err != nil {
		return lifecycle.Projection{}, err
	}
	if proj.Order.Status != model.OrderStatusCompleted || proj.Reviewed {
		return lifecycle.Projection{}, domainErrors.ErrReviewUnavailable
	}

	orderID, viewer := view.OrderID(), view.Viewer()
	key := orderID + "\x00" + viewer.ID
	if _, busy := u.pending.LoadOrStore(key, struct{}{}); busy {
		return lifecycle.Projection{}, domainErrors.ErrActionInFlight
	}
	defer u.pending.Delete(key)

	exists, err := u.reviews.Exists(ctx, orderID, viewer.ID)
	if err != nil {
		return lifecycle.Projection{}, err
	}
	if exists {
		return view.MarkReviewed(), domainErrors.ErrReviewUnavailable
	}

	if err := u.client.SubmitReview(exchange.WithCredential(ctx, viewer.Credential), orderID, reviewType, comment); err != nil {
		return lifecycle.Projection{}, err
	}

	review := model.Review{
		OrderID:   orderID,
		ViewerID:  viewer.ID,
		Type:      reviewType,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.reviews.Create(ctx, review); err != nil && !errors.Is(err, domainErrors.ErrAlreadyExists) {
		u.logger.Error("record review",
			slog.String("order", orderID),
			slog.String("viewer", viewer.ID),
			slog.String("error", err.Error()),
		)
	}

	return view.MarkReviewed(), nil
}
