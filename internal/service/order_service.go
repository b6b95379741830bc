package service

import (
	"errors"
	"fmt"
	"time"

	"opina/internal/domain"
	"opina/internal/models"
	"opina/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService redeems points for physical products. An order reserves stock,
// debits points and snapshots the purchased items in one transaction; a
// failure at any step rolls the whole thing back.
type OrderService struct {
	db          *gorm.DB
	productRepo *repository.ProductRepository
	orderRepo   *repository.OrderRepository
	ledger      *repository.LedgerRepository
}

func NewOrderService(db *gorm.DB, productRepo *repository.ProductRepository, orderRepo *repository.OrderRepository, ledger *repository.LedgerRepository) *OrderService {
	return &OrderService{db: db, productRepo: productRepo, orderRepo: orderRepo, ledger: ledger}
}

type OrderItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// Create places an order. Shipping cost is cash computed by the shipping
// collaborator and stored as-is; only product prices are charged in points.
func (s *OrderService) Create(userID uint, items []OrderItemInput, shippingAddress models.JSONMap, shippingCost float64) (*models.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidAmount
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, domain.ErrInvalidAmount
		}
	}

	var created *models.Order
	err := runInTx(s.db, func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		totalPoints := 0
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			product, err := products.GetByID(it.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrProductNotFound
				}
				return err
			}
			if !product.IsActive {
				return domain.ErrProductInactive
			}
			ok, err := products.ReserveStock(product.ID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrInsufficientStock
			}
			totalPoints += product.PointsPrice * it.Quantity
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				Quantity:    it.Quantity,
				PointsPrice: product.PointsPrice,
				ProductSnapshot: models.ProductSnapshot{
					Name:        product.Name,
					Description: product.Description,
					ImageURL:    product.ImageURL,
				},
			})
		}

		estimated := time.Now().Add(7 * 24 * time.Hour)
		order := &models.Order{
			UserID:            userID,
			OrderNumber:       "ord-" + uuid.New().String(),
			Status:            domain.OrderStatusPending,
			TotalPoints:       totalPoints,
			ShippingCost:      shippingCost,
			ShippingAddress:   shippingAddress,
			EstimatedDelivery: &estimated,
			Items:             orderItems,
		}
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}

		_, err := s.ledger.WithTx(tx).Debit(
			userID,
			totalPoints,
			domain.TxTypeSpent,
			fmt.Sprintf("Order %s", order.OrderNumber),
			repository.TxRefs{OrderID: &order.ID},
		)
		if err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AdvanceStatus moves an order forward through its lifecycle. Cancelling an
// undelivered order refunds the charged points and restores stock.
func (s *OrderService) AdvanceStatus(orderID uint, newStatus string) (*models.Order, error) {
	var updated *models.Order
	err := runInTx(s.db, func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)
		order, err := orders.GetByID(orderID)
		if err != nil {
			return err
		}
		if !domain.ValidOrderTransition(order.Status, newStatus) {
			return domain.ErrInvalidTransition
		}
		order.Status = newStatus
		if err := orders.Update(order); err != nil {
			return err
		}
		if newStatus == domain.OrderStatusCancelled {
			products := s.productRepo.WithTx(tx)
			for _, item := range order.Items {
				if err := products.Restock(item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			_, err := s.ledger.WithTx(tx).Credit(
				order.UserID,
				order.TotalPoints,
				domain.TxTypeRefund,
				fmt.Sprintf("Order %s cancelled", order.OrderNumber),
				repository.TxRefs{OrderID: &order.ID},
			)
			if err != nil {
				return err
			}
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListByUser returns the caller's orders with their items, newest first.
func (s *OrderService) ListByUser(userID uint) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}
