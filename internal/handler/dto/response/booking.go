package response

import (
	"time"

	"github.com/google/uuid"

	"finca-reservations/internal/usecase/commands"
	"finca-reservations/internal/usecase/queries"
	"finca-reservations/internal/usecase/readmodel"
)

type QuoteResponse struct {
	Subtotal    int64    `json:"subtotal"`
	CleaningFee int64    `json:"cleaning_fee"`
	Deposit     int64    `json:"deposit"`
	Total       int64    `json:"total"`
	Currency    string   `json:"currency"`
	Breakdown   []string `json:"breakdown"`
}

type CreateBookingResponse struct {
	BookingID     uuid.UUID     `json:"booking_id"`
	Status        string        `json:"status"`
	RulesBypassed []string      `json:"rules_bypassed,omitempty"`
	Quote         QuoteResponse `json:"quote"`
}

func FromCreateBookingResult(result *commands.CreateBookingResult) *CreateBookingResponse {
	return &CreateBookingResponse{
		BookingID:     result.BookingID,
		Status:        result.Status,
		RulesBypassed: result.RulesBypassed,
		Quote: QuoteResponse{
			Subtotal:    result.Quote.Subtotal,
			CleaningFee: result.Quote.CleaningFee,
			Deposit:     result.Quote.Deposit,
			Total:       result.Quote.Total,
			Currency:    result.Quote.Currency,
			Breakdown:   result.Quote.Breakdown,
		},
	}
}

type BookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	PropertyID      uuid.UUID  `json:"property_id"`
	PropertyName    string     `json:"property_name"`
	CheckIn         string     `json:"check_in"`
	CheckOut        string     `json:"check_out"`
	Plan            string     `json:"plan"`
	Status          string     `json:"status"`
	GuestCount      int        `json:"guest_count"`
	GuestName       string     `json:"guest_name"`
	GuestEmail      string     `json:"guest_email,omitempty"`
	GuestPhone      string     `json:"guest_phone,omitempty"`
	GuestCity       string     `json:"guest_city,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	ManualTotal     *int64     `json:"manual_total,omitempty"`
	OverrideReason  *string    `json:"override_reason,omitempty"`
	OverrideRules   []string   `json:"override_rules,omitempty"`
	OverrideAdminID *uuid.UUID `json:"override_admin_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func FromBookingRM(rm *readmodel.BookingRM) *BookingResponse {
	return &BookingResponse{
		ID:              rm.ID,
		PropertyID:      rm.PropertyID,
		PropertyName:    rm.PropertyName,
		CheckIn:         rm.CheckIn.Format("2006-01-02"),
		CheckOut:        rm.CheckOut.Format("2006-01-02"),
		Plan:            rm.Plan,
		Status:          rm.Status,
		GuestCount:      rm.GuestCount,
		GuestName:       rm.GuestName,
		GuestEmail:      rm.GuestEmail,
		GuestPhone:      rm.GuestPhone,
		GuestCity:       rm.GuestCity,
		ExpiresAt:       rm.ExpiresAt,
		ManualTotal:     rm.ManualTotal,
		OverrideReason:  rm.OverrideReason,
		OverrideRules:   rm.OverrideRules,
		OverrideAdminID: rm.OverrideAdminID,
		CreatedAt:       rm.CreatedAt,
		UpdatedAt:       rm.UpdatedAt,
	}
}

type AvailabilityDayResponse struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

func FromAvailability(days []queries.AvailabilityDay) []AvailabilityDayResponse {
	out := make([]AvailabilityDayResponse, len(days))
	for i, d := range days {
		out[i] = AvailabilityDayResponse{
			Date:      d.Date.Format("2006-01-02"),
			Available: d.Available,
		}
	}
	return out
}
