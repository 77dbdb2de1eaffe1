package components

import (
	"time"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/pricing"
	"finca-reservations/internal/infra/gateway"
	"finca-reservations/internal/pkg/clock"
	"finca-reservations/internal/pkg/config"
	"finca-reservations/internal/usecase/commands"
	"finca-reservations/internal/usecase/queries"
	"finca-reservations/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewValidator,
	NewPricingResolver,
	NewPaymentGateway,
)

func NewValidator(cfg config.Config, clk clock.Clock) *booking.Validator {
	policy := booking.Policy{
		MinGroupSize:    cfg.Booking.MinGroupSize,
		FamilyMaxGuests: cfg.Booking.FamilyMaxGuests,
	}
	return booking.NewValidator(policy, func() time.Time { return clk.Now() })
}

func NewPricingResolver(cfg config.Config) *pricing.Resolver {
	return pricing.NewResolver(pricing.Rates{
		Currency:       cfg.Pricing.Currency,
		DayPassRate:    cfg.Pricing.DayPassRate,
		WeekdayRate:    cfg.Pricing.WeekdayRate,
		WeekendRate:    cfg.Pricing.WeekendRate,
		HolidayRate:    cfg.Pricing.HolidayRate,
		FamilyPlanRate: cfg.Pricing.FamilyPlanRate,
		CleaningFee:    cfg.Pricing.CleaningFee,
		Deposit:        cfg.Pricing.Deposit,
	})
}

func NewPaymentGateway(cfg config.Config, clk clock.Clock) commands.PaymentGateway {
	return gateway.NewDummyGateway(cfg.Gateway, clk)
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewBookingCommands,
		commands.NewPaymentCommands,
		commands.NewCalendarCommands,
		commands.NewSweepCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewPaymentQueries,
		queries.NewCalendarQueries,
		NewFinanceQueries,
	),
)

func NewFinanceQueries(uow shared.UnitOfWork, reads queries.FinanceReads, cfg config.Config) queries.FinanceQueries {
	return queries.NewFinanceQueries(uow, reads, cfg.Pricing.Currency)
}
