package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"finca-reservations/internal/usecase/queries"
)

type CalendarHandler struct {
	calendarQueries queries.CalendarQueries
}

func NewCalendarHandler(calendarQueries queries.CalendarQueries) *CalendarHandler {
	return &CalendarHandler{calendarQueries: calendarQueries}
}

// @Summary Holidays for a year
// @Description Colombian holidays plus any admin-added overrides.
// @Tags calendar
// @Produce json
// @Param year path int true "Year"
// @Success 200 {array} queries.HolidayView
// @Failure 400 {object} map[string]string
// @Router /calendar/holidays/{year} [get]
func (h *CalendarHandler) Holidays(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 2999 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid year",
		})
		return
	}

	views, err := h.calendarQueries.Year(c.Request.Context(), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Holiday context for a stay
// @Description Shows which holidays the pricing window around a stay picks up.
// @Tags calendar
// @Produce json
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} queries.HolidayContextView
// @Failure 400 {object} map[string]string
// @Router /calendar/context [get]
func (h *CalendarHandler) Context(c *gin.Context) {
	checkIn, ok := parseRequiredDate(c, "check_in")
	if !ok {
		return
	}
	checkOut, ok := parseRequiredDate(c, "check_out")
	if !ok {
		return
	}

	view, err := h.calendarQueries.Context(c.Request.Context(), checkIn, checkOut)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "check_out must not be before check_in",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}
