package payment

// Method is how the guest settles the booking.
type Method string

const (
	MethodOnlineGateway   Method = "online_gateway"
	MethodBankTransfer    Method = "bank_transfer"
	MethodDirectAgreement Method = "direct_agreement"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodOnlineGateway, MethodBankTransfer, MethodDirectAgreement:
		return true
	}
	return false
}

// Status is the payment lifecycle state.
type Status string

const (
	StatusPendingPayment  Status = "pending_payment"
	StatusAwaitingConfirm Status = "awaiting_confirmation"
	StatusPendingDirect   Status = "pending_direct_payment"
	StatusPaid            Status = "paid"
	StatusConfirmedDirect Status = "confirmed_direct"
	StatusFailed          Status = "failed"
	StatusRefunded        Status = "refunded"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusAwaitingConfirm, StatusPendingDirect,
		StatusPaid, StatusConfirmedDirect, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// IsSettled reports whether the payment has reached a state that confirms the
// booking's hold on its dates.
func (s Status) IsSettled() bool {
	return s == StatusPaid || s == StatusConfirmedDirect
}

// IsTerminal reports whether no further transition except refund is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusConfirmedDirect, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// transitions is the exhaustive legal-move table. Any pair absent here is an
// invalid transition.
var transitions = map[Status][]Status{
	StatusPendingPayment:  {StatusPaid, StatusFailed, StatusAwaitingConfirm},
	StatusAwaitingConfirm: {StatusPaid, StatusFailed},
	StatusPendingDirect:   {StatusConfirmedDirect, StatusFailed},
	StatusPaid:            {StatusRefunded},
	StatusConfirmedDirect: {StatusRefunded},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
