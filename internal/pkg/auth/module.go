package auth

import (
	"github.com/polkiloo/p2pdesk/internal/config"
	"go.uber.org/fx"
)

// Module provides viewer token verification via fx.
var Module = fx.Provide(newTokenStrategy)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.TokenSecret, Options{})
}
