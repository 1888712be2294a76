package components

import (
	"fitbook/internal/handler"
	"fitbook/internal/handler/api"
	"fitbook/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewRegistrationHandler,
		api.NewBatchHandler,
		api.NewAuditHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
