package components

import (
	"finca-reservations/internal/handler"
	"finca-reservations/internal/handler/api"
	"finca-reservations/internal/handler/middleware"
	"finca-reservations/internal/pkg/config"
	"finca-reservations/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewCalendarHandler,
		api.NewAdminHandler,
		api.NewOpsHandler,
		NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewAuthMiddleware(jwtService *jwt.Service, cfg config.Config) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtService, cfg.Ops.CronSecret)
}
