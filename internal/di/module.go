package di

import (
	"github.com/polkiloo/p2pdesk/internal/adapter/exchange"
	"github.com/polkiloo/p2pdesk/internal/app"
	"github.com/polkiloo/p2pdesk/internal/config"
	"github.com/polkiloo/p2pdesk/internal/desk"
	"github.com/polkiloo/p2pdesk/internal/logger"
	"github.com/polkiloo/p2pdesk/internal/pkg/auth"
	"github.com/polkiloo/p2pdesk/internal/server/http/router"
	"github.com/polkiloo/p2pdesk/internal/storage/postgres"
	"github.com/polkiloo/p2pdesk/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		exchange.Module,
		desk.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
