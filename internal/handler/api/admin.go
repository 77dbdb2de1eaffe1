package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finca-reservations/internal/domain/booking"
	reqdto "finca-reservations/internal/handler/dto/request"
	resdto "finca-reservations/internal/handler/dto/response"
	"finca-reservations/internal/handler/middleware"
	"finca-reservations/internal/usecase/commands"
	"finca-reservations/internal/usecase/queries"
)

type AdminHandler struct {
	authCommands     commands.AuthCommands
	bookingCommands  commands.BookingCommands
	calendarCommands commands.CalendarCommands
	financeQueries   queries.FinanceQueries
}

func NewAdminHandler(
	authCommands commands.AuthCommands,
	bookingCommands commands.BookingCommands,
	calendarCommands commands.CalendarCommands,
	financeQueries queries.FinanceQueries,
) *AdminHandler {
	return &AdminHandler{
		authCommands:     authCommands,
		bookingCommands:  bookingCommands,
		calendarCommands: calendarCommands,
		financeQueries:   financeQueries,
	}
}

// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Credentials"
// @Success 200 {object} resdto.LoginResponse
// @Failure 401 {object} map[string]string
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.authCommands.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, commands.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoginResult(result))
}

// @Summary Block dates
// @Description Marks a range unavailable for maintenance or personal use.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BlockDatesRequest true "Range to block"
// @Success 201 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/blocks [post]
func (h *AdminHandler) BlockDates(c *gin.Context) {
	var req reqdto.BlockDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := h.bookingCommands.BlockDates(c.Request.Context(), req.PropertyID, req.CheckIn, req.CheckOut, adminID, req.Reason)
	if err != nil {
		var overErr *booking.OverbookingError
		switch {
		case errors.As(err, &overErr):
			c.JSON(http.StatusConflict, gin.H{
				"error": overErr.Message,
			})
		case errors.Is(err, commands.ErrPropertyNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Property not found",
			})
		case errors.Is(err, commands.ErrInvalidStay):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date range",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"block_id": id.String()})
}

// @Summary Cancel a booking
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/bookings/{id}/cancel [post]
func (h *AdminHandler) CancelBooking(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.bookingCommands.CancelBooking(c.Request.Context(), id, &adminID); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, booking.ErrInvalidStatus):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking cannot be cancelled in its current status",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Complete a booking
// @Description Closes out a confirmed stay after checkout.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/bookings/{id}/complete [post]
func (h *AdminHandler) CompleteBooking(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.bookingCommands.CompleteBooking(c.Request.Context(), id, adminID); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, booking.ErrInvalidStatus):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Only a confirmed booking can be completed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Add a holiday override
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddHolidayRequest true "Holiday"
// @Success 201
// @Failure 409 {object} map[string]string
// @Router /admin/holidays [post]
func (h *AdminHandler) AddHoliday(c *gin.Context) {
	var req reqdto.AddHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.calendarCommands.AddHoliday(c.Request.Context(), req.Date, req.Name, adminID); err != nil {
		if errors.Is(err, commands.ErrHolidayExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Holiday override already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.Status(http.StatusCreated)
}

// @Summary Remove a holiday override
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/holidays/{date} [delete]
func (h *AdminHandler) RemoveHoliday(c *gin.Context) {
	date, err := parseDateParam(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date",
		})
		return
	}
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.calendarCommands.RemoveHoliday(c.Request.Context(), date, adminID); err != nil {
		if errors.Is(err, commands.ErrHolidayNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Holiday override not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Revenue summary
// @Description Settled revenue for stays starting in the range, by plan and method.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param from query string true "From date (YYYY-MM-DD)"
// @Param to query string true "To date (YYYY-MM-DD)"
// @Success 200 {object} queries.RevenueSummary
// @Failure 400 {object} map[string]string
// @Router /admin/finance/revenue [get]
func (h *AdminHandler) RevenueSummary(c *gin.Context) {
	from, ok := parseRequiredDate(c, "from")
	if !ok {
		return
	}
	to, ok := parseRequiredDate(c, "to")
	if !ok {
		return
	}

	summary, err := h.financeQueries.RevenueSummary(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "to must not be before from",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}
