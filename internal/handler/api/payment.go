package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/payment"
	reqdto "finca-reservations/internal/handler/dto/request"
	resdto "finca-reservations/internal/handler/dto/response"
	"finca-reservations/internal/handler/httperr"
	"finca-reservations/internal/handler/middleware"
	"finca-reservations/internal/infra"
	"finca-reservations/internal/usecase/commands"
	"finca-reservations/internal/usecase/queries"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	paymentQueries  queries.PaymentQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		paymentQueries:  paymentQueries,
	}
}

// @Summary Checkout
// @Description Open the payment window for a pending booking.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/checkout [post]
func (h *PaymentHandler) Checkout(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	var req reqdto.CheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.paymentCommands.Checkout(c.Request.Context(), commands.CheckoutCommand{
		BookingID: bookingID,
		Method:    req.Method,
		IsPartial: req.IsPartial,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrBookingNotPayable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking is not payable",
			})
		case errors.Is(err, payment.ErrInvalidMethod):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid payment method",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCheckoutResult(result))
}

// @Summary Submit payment evidence
// @Description Attach a transfer receipt reference to the booking's payment.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.EvidenceRequest true "Evidence reference"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/evidence [post]
func (h *PaymentHandler) SubmitEvidence(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	var req reqdto.EvidenceRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	err = h.paymentCommands.SubmitEvidence(c.Request.Context(), bookingID, req.EvidenceRef)
	if err != nil {
		h.respondPaymentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Payment status
// @Tags payments
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/payment [get]
func (h *PaymentHandler) PaymentStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	rm, err := h.paymentQueries.StatusByBookingID(c.Request.Context(), bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Payment not found",
			})
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentRM(rm))
}

// @Summary Gateway webhook
// @Description Settlement callback from the payment provider. Replays return {"status":"ignored"}.
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} commands.WebhookResult
// @Failure 400 {object} map[string]string
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unreadable payload",
		})
		return
	}
	signature := c.GetHeader("X-Gateway-Signature")

	result, err := h.paymentCommands.SettleFromWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		var overErr *booking.OverbookingError
		switch {
		case errors.Is(err, commands.ErrGatewayFailed):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid webhook payload or signature",
			})
		case errors.Is(err, commands.ErrUnknownGatewayPayment):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Unknown payment reference",
			})
		case errors.As(err, &overErr):
			c.JSON(http.StatusConflict, gin.H{
				"error": overErr.Message,
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": result.Status})
}

// ConfirmBankTransfer, ConfirmDirectPayment, RejectPayment and Refund are
// the admin settlement verbs; all take the payment ID path parameter.

func (h *PaymentHandler) ConfirmBankTransfer(c *gin.Context) {
	h.adminSettlement(c, func(paymentID, adminID uuid.UUID) error {
		return h.paymentCommands.ConfirmBankTransfer(c.Request.Context(), paymentID, adminID)
	})
}

func (h *PaymentHandler) ConfirmDirectPayment(c *gin.Context) {
	h.adminSettlement(c, func(paymentID, adminID uuid.UUID) error {
		return h.paymentCommands.ConfirmDirectPayment(c.Request.Context(), paymentID, adminID)
	})
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	h.adminSettlement(c, func(paymentID, adminID uuid.UUID) error {
		return h.paymentCommands.Refund(c.Request.Context(), paymentID, adminID)
	})
}

func (h *PaymentHandler) RejectPayment(c *gin.Context) {
	var req reqdto.RejectPaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	h.adminSettlement(c, func(paymentID, adminID uuid.UUID) error {
		return h.paymentCommands.RejectPayment(c.Request.Context(), paymentID, adminID, req.FailCode)
	})
}

func (h *PaymentHandler) adminSettlement(c *gin.Context, run func(paymentID, adminID uuid.UUID) error) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid payment ID format",
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

	if err := run(paymentID, adminID); err != nil {
		h.respondPaymentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PaymentHandler) respondPaymentError(c *gin.Context, err error) {
	var transErr *payment.InvalidTransitionError
	var overErr *booking.OverbookingError
	switch {
	case errors.Is(err, commands.ErrPaymentNotFound), errors.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Not found",
		})
	case errors.Is(err, commands.ErrEvidenceOnExpired):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking has expired; evidence is no longer accepted",
		})
	case errors.Is(err, commands.ErrEvidenceRequired):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Evidence must be submitted before confirming a bank transfer",
		})
	case errors.As(err, &transErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": transErr.Error(),
		})
	case errors.As(err, &overErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": overErr.Message,
		})
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
