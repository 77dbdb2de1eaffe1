package bootstrap

import (
	"log/slog"

	"go.uber.org/fx"

	"finca-reservations/internal/handler/middleware"
	"finca-reservations/internal/pkg/config"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}
