package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func parseDateParam(c *gin.Context, name string) (time.Time, error) {
	return time.Parse("2006-01-02", c.Param(name))
}

// parseOptionalDate reads a YYYY-MM-DD query parameter. Returns ok=false
// after writing the 400 response when the value is present but malformed.
func parseOptionalDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid '" + name + "' date",
		})
		return nil, false
	}
	return &t, true
}

// parseRequiredDate is parseOptionalDate for parameters that must be set.
func parseRequiredDate(c *gin.Context, name string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing '" + name + "' date",
		})
		return time.Time{}, false
	}
	return t, true
}

func intQuery(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Query(name))
}
