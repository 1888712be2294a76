package components

import (
	"fitbook/internal/infra/readstore"
	"fitbook/internal/infra/uow"
	"fitbook/internal/usecase/queries"
	"fitbook/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// Booking read model
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		// Audit read model
		fx.Annotate(
			readstore.NewAuditReadStore,
			fx.As(new(queries.AuditReadStore)),
		),
	),
)
