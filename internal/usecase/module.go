package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/p2pdesk/internal/adapter/exchange"
	"github.com/polkiloo/p2pdesk/internal/domain/repository"
)

// Module provides order mutation use cases to the fx container.
var Module = fx.Provide(
	NewOrchestrator,
	newReviewUseCase,
)

type reviewParams struct {
	fx.In

	Client       exchange.Client
	Repositories repository.Factory
	Logger       *slog.Logger
}

func newReviewUseCase(p reviewParams) *ReviewUseCase {
	return NewReviewUseCase(p.Client, p.Repositories.Reviews(), p.Logger)
}

