package handler

import (
	"net/http"
	"strconv"

	"opina/internal/domain"
	"opina/internal/middleware"
	"opina/internal/models"
	"opina/internal/service"

	"github.com/gin-gonic/gin"
)

type ConversionHandler struct {
	conversionSvc *service.ConversionService
}

func NewConversionHandler(conversionSvc *service.ConversionService) *ConversionHandler {
	return &ConversionHandler{conversionSvc: conversionSvc}
}

// Calculate previews the fee breakdown without creating anything.
func (h *ConversionHandler) Calculate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Points int `json:"points" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.conversionSvc.Validate(userID, req.Points); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.conversionSvc.Calculate(req.Points))
}

// Request creates a pending conversion, debiting the points immediately.
func (h *ConversionHandler) Request(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Points         int            `json:"points" binding:"required,min=1"`
		PaymentMethod  string         `json:"payment_method" binding:"required"`
		PaymentDetails models.JSONMap `json:"payment_details" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidPaymentMethod(req.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method"})
		return
	}
	conversion, err := h.conversionSvc.Request(userID, req.Points, req.PaymentMethod, req.PaymentDetails)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "conversion request created",
		"conversion": conversion,
	})
}

func (h *ConversionHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	conversions, err := h.conversionSvc.History(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversions)
}
