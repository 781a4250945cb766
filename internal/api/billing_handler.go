package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pantrypal/meal-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Webhook-Signature"

// BillingHandler receives subscription webhooks from the billing provider.
type BillingHandler struct {
	billingService service.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// HandleWebhook verifies the signature over the raw body, then applies the
// subscription event. The endpoint is unauthenticated; the signature is the
// only trust anchor.
func (h *BillingHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read webhook body.")
		return
	}

	if err := h.billingService.VerifySignature(body, c.GetHeader(SignatureHeader)); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid webhook signature.")
		return
	}

	var event service.SubscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		abortWithError(c, http.StatusBadRequest, "Malformed webhook payload.")
		return
	}

	if err := h.billingService.HandleEvent(c.Request.Context(), event); err != nil {
		if errors.Is(err, service.ErrUnknownUser) {
			abortWithError(c, http.StatusBadRequest, "Webhook references an unknown user.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to process webhook event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
