package logger

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/p2pdesk/internal/config"
)

// Module wires the slog logger and installs it as the process default.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(installDefault),
)

func installDefault(logger *slog.Logger, cfg *config.Config) {
	slog.SetDefault(logger)
	if cfg.UsesDefaultSecret() {
		logger.Warn("viewer tokens are signed with the built-in secret, set TOKEN_SECRET")
	}
}
