package shared

import (
	"time"

	"github.com/google/uuid"
)

type PropertySnapshot struct {
	ID       uuid.UUID
	Name     string
	Timezone string
}

type BookingSnapshot struct {
	ID          uuid.UUID
	PropertyID  uuid.UUID
	CheckIn     time.Time
	CheckOut    time.Time
	Plan        string
	Status      string
	GuestCount  int
	ExpiresAt   *time.Time
	ManualTotal *int64
}

type PaymentSnapshot struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	Method      string
	Status      string
	Amount      int64
	AmountPaid  int64
	IsPartial   bool
	GatewayRef  *string
	EvidenceRef *string
}

type AdminSnapshot struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
}

// AuditEntry is an append-only record of an admin-visible state change.
type AuditEntry struct {
	Action    string
	BookingID *uuid.UUID
	PaymentID *uuid.UUID
	ActorID   *uuid.UUID
	Detail    string
	At        time.Time
}
