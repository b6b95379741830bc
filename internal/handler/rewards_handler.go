package handler

import (
	"net/http"
	"strconv"

	"opina/internal/middleware"
	"opina/internal/models"
	"opina/internal/repository"
	"opina/internal/service"
	"opina/pkg/shipping"

	"github.com/gin-gonic/gin"
)

// RewardsHandler serves the redemption catalog, points balance and orders.
type RewardsHandler struct {
	productRepo *repository.ProductRepository
	ledger      *repository.LedgerRepository
	orderSvc    *service.OrderService
	shipCalc    shipping.Calculator
}

func NewRewardsHandler(productRepo *repository.ProductRepository, ledger *repository.LedgerRepository, orderSvc *service.OrderService, shipCalc shipping.Calculator) *RewardsHandler {
	return &RewardsHandler{productRepo: productRepo, ledger: ledger, orderSvc: orderSvc, shipCalc: shipCalc}
}

func (h *RewardsHandler) ListProducts(c *gin.Context) {
	products, err := h.productRepo.ListActive()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetPoints returns the caller's balance snapshot, creating the account on first use.
func (h *RewardsHandler) GetPoints(c *gin.Context) {
	userID := middleware.GetUserID(c)
	acct, err := h.ledger.GetBalance(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}

func (h *RewardsHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	txs, err := h.ledger.Transactions(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// ShippingQuote prices delivery for a prospective order. The quote is advisory;
// the client passes the cost back when placing the order.
func (h *RewardsHandler) ShippingQuote(c *gin.Context) {
	var req struct {
		Items      []service.OrderItemInput `json:"items" binding:"required,min=1,dive"`
		PostalCode string                   `json:"postal_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ids := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := h.productRepo.GetByIDs(ids)
	if err != nil {
		respondError(c, err)
		return
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	shipItems := make([]shipping.Item, 0, len(req.Items))
	for _, it := range req.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		var volume float64
		if p.Dimensions != nil {
			volume = p.Dimensions.VolumeM3()
		}
		shipItems = append(shipItems, shipping.Item{
			WeightKg: p.WeightKg,
			VolumeM3: volume,
			Quantity: it.Quantity,
		})
	}
	quote := h.shipCalc.Quote(shipItems, req.PostalCode)
	c.JSON(http.StatusOK, quote)
}

// CreateOrder redeems points for products.
func (h *RewardsHandler) CreateOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Items           []service.OrderItemInput `json:"items" binding:"required,min=1,dive"`
		ShippingAddress models.JSONMap           `json:"shipping_address" binding:"required"`
		ShippingCost    float64                  `json:"shipping_cost" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.orderSvc.Create(userID, req.Items, req.ShippingAddress, req.ShippingCost)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *RewardsHandler) ListOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orders, err := h.orderSvc.ListByUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
