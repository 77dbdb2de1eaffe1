package components

import (
	"finca-reservations/internal/infra/readstore"
	"finca-reservations/internal/infra/repository"
	"finca-reservations/internal/infra/uow"
	"finca-reservations/internal/usecase/queries"
	"finca-reservations/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReads)),
		),
		// Payment
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentReads)),
		),
		// Finance
		fx.Annotate(
			readstore.NewFinanceReadStore,
			fx.As(new(queries.FinanceReads)),
		),
		// Holiday overrides read the write-side table directly
		fx.Annotate(
			repository.NewHolidayRepository,
			fx.As(new(queries.HolidayReads)),
		),
	),
)
