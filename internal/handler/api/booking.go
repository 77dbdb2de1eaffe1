package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"finca-reservations/internal/domain/booking"
	reqdto "finca-reservations/internal/handler/dto/request"
	resdto "finca-reservations/internal/handler/dto/response"
	"finca-reservations/internal/handler/middleware"
	"finca-reservations/internal/infra"
	"finca-reservations/internal/usecase/commands"
	"finca-reservations/internal/usecase/queries"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Request admission for a stay. The override block is honored only on the admin route.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	cmd := commands.CreateBookingCommand{
		PropertyID: req.PropertyID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Plan:       req.Plan,
		GuestCount: req.GuestCount,
		Guest: booking.Guest{
			Name:  req.GuestName,
			Email: req.GuestEmail,
			Phone: req.GuestPhone,
			City:  req.GuestCity,
		},
	}

	if req.Override != nil {
		adminID, ok := middleware.GetAdminID(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Override requires admin authentication",
			})
			return
		}
		cmd.Override = &commands.OverrideRequest{
			AdminID:     adminID,
			Reason:      req.Override.Reason,
			ManualTotal: req.Override.ManualTotal,
		}
	}

	result, err := h.bookingCommands.CreateBooking(c.Request.Context(), cmd)
	if err != nil {
		var ruleErr *booking.RuleViolationError
		var overErr *booking.OverbookingError
		switch {
		case errors.As(err, &ruleErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": ruleErr.Message,
				"rule":  ruleErr.Rule,
			})
		case errors.As(err, &overErr):
			c.JSON(http.StatusConflict, gin.H{
				"error": overErr.Message,
			})
		case errors.Is(err, commands.ErrPropertyNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Property not found",
			})
		case errors.Is(err, commands.ErrInvalidStay),
			errors.Is(err, commands.ErrInvalidPlan),
			errors.Is(err, commands.ErrOverrideReasonRequired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCreateBookingResult(result))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	rm, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRM(rm))
}

// @Summary List bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Success 200 {array} resdto.BookingResponse
// @Router /admin/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	status := c.Query("status")
	from, ok := parseOptionalDate(c, "from")
	if !ok {
		return
	}
	to, ok := parseOptionalDate(c, "to")
	if !ok {
		return
	}

	rms, err := h.bookingQueries.List(c.Request.Context(), status, from, to, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	out := make([]*resdto.BookingResponse, len(rms))
	for i, rm := range rms {
		out[i] = resdto.FromBookingRM(rm)
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Availability
// @Description Per-day availability for a property over a date window.
// @Tags bookings
// @Produce json
// @Param property_id query string true "Property ID"
// @Param from query string true "Window start (YYYY-MM-DD)"
// @Param to query string true "Window end (YYYY-MM-DD)"
// @Success 200 {array} resdto.AvailabilityDayResponse
// @Router /availability [get]
func (h *BookingHandler) Availability(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Query("property_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid property ID format",
		})
		return
	}
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid 'from' date",
		})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid 'to' date",
		})
		return
	}

	days, err := h.bookingQueries.Availability(c.Request.Context(), propertyID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidRange), errors.Is(err, queries.ErrRangeTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailability(days))
}

// @Summary Price preview
// @Description Quote a stay against the rate card without admitting it.
// @Tags bookings
// @Produce json
// @Param plan query string true "Plan"
// @Param check_in query string true "Check-in (YYYY-MM-DD)"
// @Param check_out query string true "Check-out (YYYY-MM-DD)"
// @Param guests query int true "Guest count"
// @Success 200 {object} queries.PricePreview
// @Router /price-preview [get]
func (h *BookingHandler) PricePreview(c *gin.Context) {
	checkIn, err := time.Parse("2006-01-02", c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid check_in date",
		})
		return
	}
	checkOut, err := time.Parse("2006-01-02", c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid check_out date",
		})
		return
	}
	guests, err := intQuery(c, "guests")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid guest count",
		})
		return
	}

	preview, err := h.bookingQueries.PricePreview(c.Request.Context(), c.Query("plan"), checkIn, checkOut, guests)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidPlan), errors.Is(err, queries.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, preview)
}
