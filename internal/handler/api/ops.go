package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finca-reservations/internal/usecase/commands"
)

type OpsHandler struct {
	sweepCommands commands.SweepCommands
}

func NewOpsHandler(sweepCommands commands.SweepCommands) *OpsHandler {
	return &OpsHandler{sweepCommands: sweepCommands}
}

// @Summary Sweep expired holds
// @Description Releases pending bookings whose payment window lapsed. Also runs on the internal schedule; this endpoint exists for external cron triggers.
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]int
// @Router /ops/sweep [post]
func (h *OpsHandler) Sweep(c *gin.Context) {
	count, err := h.sweepCommands.SweepExpired(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": count})
}
