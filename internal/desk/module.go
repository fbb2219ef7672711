package desk

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/p2pdesk/internal/adapter/exchange"
	"github.com/polkiloo/p2pdesk/internal/config"
	"github.com/polkiloo/p2pdesk/internal/domain/repository"
	"github.com/polkiloo/p2pdesk/internal/notify"
)

// Module provides the session registry and the notice sink routed through it.
var Module = fx.Provide(
	newRegistry,
	newNoticeSink,
)

type registryParams struct {
	fx.In

	Config       *config.Config
	Client       exchange.Client
	Repositories repository.Factory
	Logger       *slog.Logger
}

func newRegistry(p registryParams) *Registry {
	return NewRegistry(
		p.Client,
		p.Repositories.Reviews(),
		p.Repositories.Transitions(),
		p.Config.OrderPollInterval,
		p.Logger,
	)
}

func newNoticeSink(registry *Registry, logger *slog.Logger) notify.Sink {
	return notify.Fanout(notify.Log(logger), registry)
}
