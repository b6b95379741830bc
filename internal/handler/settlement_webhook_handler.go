package handler

import (
	"log"
	"net/http"

	"opina/internal/service"

	"github.com/gin-gonic/gin"
)

// SettlementWebhookHandler receives payout results from the external
// settlement service and advances the matching conversion request. Refunds on
// failure happen inside the service transaction.
type SettlementWebhookHandler struct {
	conversionSvc *service.ConversionService
}

func NewSettlementWebhookHandler(conversionSvc *service.ConversionService) *SettlementWebhookHandler {
	return &SettlementWebhookHandler{conversionSvc: conversionSvc}
}

// SettlementCallback is the payload the settlement provider posts back.
type SettlementCallback struct {
	ConversionID uint   `json:"conversion_id" binding:"required"`
	Status       string `json:"status" binding:"required"` // processing, completed, failed
	ProviderRef  string `json:"provider_ref"`
}

func (h *SettlementWebhookHandler) Handle(c *gin.Context) {
	var payload SettlementCallback
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[Settlement callback] bad payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	conversion, err := h.conversionSvc.AdvanceStatus(payload.ConversionID, payload.Status)
	if err != nil {
		log.Printf("[Settlement callback] conversion %d -> %s failed: %v",
			payload.ConversionID, payload.Status, err)
		respondError(c, err)
		return
	}
	log.Printf("[Settlement callback] conversion %d now %s", conversion.ID, conversion.Status)
	c.JSON(http.StatusOK, gin.H{"received": true, "status": conversion.Status})
}
