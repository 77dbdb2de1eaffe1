package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"finca-reservations/internal/handler/api"
	"finca-reservations/internal/handler/middleware"
	"finca-reservations/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	calendarHandler *api.CalendarHandler,
	adminHandler *api.AdminHandler,
	opsHandler *api.OpsHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, bookingHandler, paymentHandler, calendarHandler, adminHandler, opsHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	calendarHandler *api.CalendarHandler,
	adminHandler *api.AdminHandler,
	opsHandler *api.OpsHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				// Guest admission; the override block inside the request body
				// only takes effect on authenticated admin calls routed below.
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "/availability", Handler: bookingHandler.Availability},
				{Method: http.MethodGet, Path: "/price-preview", Handler: bookingHandler.PricePreview},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodPost, Path: "/:id/checkout", Handler: paymentHandler.Checkout},
				{Method: http.MethodPost, Path: "/:id/evidence", Handler: paymentHandler.SubmitEvidence},
				{Method: http.MethodGet, Path: "/:id/payment", Handler: paymentHandler.PaymentStatus},
			})
		}

		calendarGroup := apiGroup.Group("/calendar")
		{
			addRoutes(calendarGroup, []route{
				{Method: http.MethodGet, Path: "/holidays/:year", Handler: calendarHandler.Holidays},
				{Method: http.MethodGet, Path: "/context", Handler: calendarHandler.Context},
			})
		}

		apiGroup.POST("/payments/webhook", paymentHandler.Webhook)

		admin := apiGroup.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)

			authRequired := admin.Group("")
			authRequired.Use(authMiddleware.RequireAdmin())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/bookings", Handler: bookingHandler.ListBookings},
				{Method: http.MethodPost, Path: "/bookings", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodPost, Path: "/bookings/:id/cancel", Handler: adminHandler.CancelBooking},
				{Method: http.MethodPost, Path: "/bookings/:id/complete", Handler: adminHandler.CompleteBooking},
				{Method: http.MethodPost, Path: "/blocks", Handler: adminHandler.BlockDates},
				{Method: http.MethodPost, Path: "/payments/:id/confirm-transfer", Handler: paymentHandler.ConfirmBankTransfer},
				{Method: http.MethodPost, Path: "/payments/:id/confirm-direct", Handler: paymentHandler.ConfirmDirectPayment},
				{Method: http.MethodPost, Path: "/payments/:id/reject", Handler: paymentHandler.RejectPayment},
				{Method: http.MethodPost, Path: "/payments/:id/refund", Handler: paymentHandler.Refund},
				{Method: http.MethodPost, Path: "/holidays", Handler: adminHandler.AddHoliday},
				{Method: http.MethodDelete, Path: "/holidays/:date", Handler: adminHandler.RemoveHoliday},
				{Method: http.MethodGet, Path: "/finance/revenue", Handler: adminHandler.RevenueSummary},
			})
		}

		ops := apiGroup.Group("/ops")
		ops.Use(authMiddleware.RequireCronSecret())
		{
			addRoutes(ops, []route{
				{Method: http.MethodPost, Path: "/sweep", Handler: opsHandler.Sweep},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
