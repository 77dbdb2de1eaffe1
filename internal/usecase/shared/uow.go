package shared

import (
	"context"
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/calendar"
	"finca-reservations/internal/domain/payment"
	"finca-reservations/internal/infra/db"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Properties() PropertyRepository
	Bookings() BookingRepository
	Payments() PaymentRepository
	Holidays() HolidayRepository
	Notifications() NotificationRepository
	Audit() AuditRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	PropertyByID(ctx context.Context, id uuid.UUID) (*PropertySnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	PaymentByID(ctx context.Context, id uuid.UUID) (*PaymentSnapshot, error)
	PaymentByGatewayRef(ctx context.Context, ref string) (*PaymentSnapshot, error)
	HolidayOverrides(ctx context.Context, year int) ([]calendar.Holiday, error)
	AdminByEmail(ctx context.Context, email string) (*AdminSnapshot, error)
}

type PropertyRepository interface {
	// Lock takes the property row FOR UPDATE, serializing concurrent
	// admissions for the same property within the transaction.
	Lock(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	// FindHolding returns bookings whose status holds dates and whose stay
	// may touch the given range. Expired-but-unswept pending holds are the
	// caller's concern.
	FindHolding(ctx context.Context, tx db.DBTX, propertyID uuid.UUID, stay booking.StayRange) ([]*booking.Booking, error)
	// ListExpiredPending returns pending bookings whose payment window has
	// lapsed as of now.
	ListExpiredPending(ctx context.Context, tx db.DBTX, now time.Time) ([]*booking.Booking, error)
	// ExpireIfPending flips a booking to expired only while it is still
	// pending, reporting whether the write happened. A hold confirmed by a
	// concurrent settlement is left untouched.
	ExpireIfPending(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *payment.Payment) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, p *payment.Payment) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*payment.Payment, error)
	FindByBookingID(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (*payment.Payment, error)
}

type HolidayRepository interface {
	// ListOverrides returns admin-added holidays for the year, merged by the
	// caller with the algorithmic calendar.
	ListOverrides(ctx context.Context, tx db.DBTX, year int) ([]calendar.Holiday, error)
	CreateOverride(ctx context.Context, tx db.DBTX, h calendar.Holiday) error
	DeleteOverride(ctx context.Context, tx db.DBTX, date time.Time) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type AuditRepository interface {
	Append(ctx context.Context, tx db.DBTX, entry AuditEntry) error
}
