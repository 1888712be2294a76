package handler

import (
	"net/http"

	"fitbook/internal/domain/actor"
	"fitbook/internal/handler/api"
	"fitbook/internal/handler/middleware"
	"fitbook/internal/pkg/config"

	"github.com/gin-gonic/gin"
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
	registrationHandler *api.RegistrationHandler,
	batchHandler *api.BatchHandler,
	auditHandler *api.AuditHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, bookingHandler, registrationHandler, batchHandler, auditHandler, authMiddleware)
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
	registrationHandler *api.RegistrationHandler,
	batchHandler *api.BatchHandler,
	auditHandler *api.AuditHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		bookings := apiGroup.Group("/bookings")
		{
			staffOnly := authMiddleware.RequireRoleAtLeast(actor.RoleStaff)
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodPatch, Path: "/:id/move", Handler: bookingHandler.MoveBooking},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.CancelBooking},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: bookingHandler.CompleteBooking, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/:id/no-show", Handler: bookingHandler.MarkNoShow, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/:id/registrations", Handler: registrationHandler.Register},
			})
		}

		registrations := apiGroup.Group("/registrations")
		{
			staffOnly := authMiddleware.RequireRoleAtLeast(actor.RoleStaff)
			addRoutes(registrations, []route{
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: registrationHandler.Cancel},
				{Method: http.MethodPost, Path: "/:id/check-in", Handler: registrationHandler.CheckIn, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/:id/no-show", Handler: registrationHandler.MarkNoShow, Mw: []gin.HandlerFunc{staffOnly}},
			})
		}

		rooms := apiGroup.Group("/rooms")
		addRoutes(rooms, []route{
			{Method: http.MethodGet, Path: "/:id/schedule", Handler: bookingHandler.ListRoomSchedule},
		})

		clients := apiGroup.Group("/clients")
		addRoutes(clients, []route{
			{Method: http.MethodGet, Path: "/:id/bookings", Handler: bookingHandler.ListClientBookings},
		})

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireRoleAtLeast(actor.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/classes/expand", Handler: batchHandler.ExpandClasses},
				{Method: http.MethodPost, Path: "/payouts/calculate", Handler: batchHandler.CalculatePayouts},
				{Method: http.MethodGet, Path: "/audit", Handler: auditHandler.List},
			})
		}
	}
}

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
