package service

import (
	"testing"

	"opina/internal/domain"
	"opina/internal/models"
	"opina/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db,
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
		repository.NewLedgerRepository(db))
}

func testAddress() models.JSONMap {
	return models.JSONMap{"street": "Rua A, 123", "city": "Sao Paulo", "postal_code": "01001000"}
}

func TestOrderCreate(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db, "buyer@example.com")
	creditPoints(t, db, user.ID, 1000)
	product := seedProduct(t, db, 300, 5)

	order, err := svc.Create(user.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 2}}, testAddress(), 15.00)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.Equal(t, 600, order.TotalPoints)
	require.Equal(t, 15.00, order.ShippingCost)
	require.NotEmpty(t, order.OrderNumber)
	require.NotNil(t, order.EstimatedDelivery)
	require.Len(t, order.Items, 1)
	require.Equal(t, 300, order.Items[0].PointsPrice)
	require.Equal(t, product.Name, order.Items[0].ProductSnapshot.Name)

	require.Equal(t, 400, availablePoints(t, db, user.ID))
	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	require.Equal(t, 3, fresh.Stock)
}

func TestOrderCreateSnapshotSurvivesCatalogEdit(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db, "buyer2@example.com")
	creditPoints(t, db, user.ID, 1000)
	product := seedProduct(t, db, 300, 5)

	order, err := svc.Create(user.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 1}}, testAddress(), 0)
	require.NoError(t, err)

	require.NoError(t, db.Model(product).
		Updates(map[string]interface{}{"name": "Renamed", "points_price": 999}).Error)

	reloaded, err := repository.NewOrderRepository(db).GetByID(order.ID)
	require.NoError(t, err)
	require.Equal(t, "Wireless earbuds", reloaded.Items[0].ProductSnapshot.Name)
	require.Equal(t, 300, reloaded.Items[0].PointsPrice)
}

func TestOrderCreateRollsBackMidSequence(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db, "buyer3@example.com")
	creditPoints(t, db, user.ID, 5000)
	plenty := seedProduct(t, db, 100, 10)
	scarce := seedProduct(t, db, 100, 1)

	// the second line fails; the first line's reservation must be undone
	_, err := svc.Create(user.ID, []OrderItemInput{
		{ProductID: plenty.ID, Quantity: 2},
		{ProductID: scarce.ID, Quantity: 3},
	}, testAddress(), 0)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var p1, p2 models.Product
	require.NoError(t, db.First(&p1, plenty.ID).Error)
	require.NoError(t, db.First(&p2, scarce.ID).Error)
	require.Equal(t, 10, p1.Stock)
	require.Equal(t, 1, p2.Stock)
	require.Equal(t, 5000, availablePoints(t, db, user.ID))

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	require.Zero(t, orders)
}

func TestOrderCreateInsufficientBalanceRestoresStock(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db, "broke@example.com")
	creditPoints(t, db, user.ID, 100)
	product := seedProduct(t, db, 300, 5)

	_, err := svc.Create(user.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 1}}, testAddress(), 0)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	require.Equal(t, 5, fresh.Stock)
	require.Equal(t, 100, availablePoints(t, db, user.ID))
}

func TestOrderNoOversell(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	creditPoints(t, db, a.ID, 2000)
	creditPoints(t, db, b.ID, 2000)
	product := seedProduct(t, db, 500, 2)

	_, err := svc.Create(a.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 2}}, testAddress(), 0)
	require.NoError(t, err)

	// stock is gone; the second buyer cannot push it negative
	_, err = svc.Create(b.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 2}}, testAddress(), 0)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	require.Equal(t, 0, fresh.Stock)
	require.Equal(t, 2000, availablePoints(t, db, b.ID))
}

func TestOrderCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db, "val@example.com")
	creditPoints(t, db, user.ID, 1000)

	_, err := svc.Create(user.ID, nil, testAddress(), 0)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	product := seedProduct(t, db, 100, 5)
	_, err = svc.Create(user.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 0}}, testAddress(), 0)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(user.ID, []OrderItemInput{{ProductID: 9999, Quantity: 1}}, testAddress(), 0)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	require.NoError(t, db.Model(product).Update("is_active", false).Error)
	_, err = svc.Create(user.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 1}}, testAddress(), 0)
	require.ErrorIs(t, err, domain.ErrProductInactive)
}

func TestOrderCancelRefundsAndRestocks(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db, "cancel@example.com")
	creditPoints(t, db, user.ID, 1000)
	product := seedProduct(t, db, 200, 5)

	order, err := svc.Create(user.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 2}}, testAddress(), 0)
	require.NoError(t, err)
	require.Equal(t, 600, availablePoints(t, db, user.ID))

	cancelled, err := svc.AdvanceStatus(order.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	require.Equal(t, 1000, availablePoints(t, db, user.ID))
	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	require.Equal(t, 5, fresh.Stock)

	txs, err := repository.NewLedgerRepository(db).Transactions(user.ID, 10)
	require.NoError(t, err)
	require.Equal(t, domain.TxTypeRefund, txs[0].Type)
	require.Equal(t, 600, txs[0].Amount)
}

func TestOrderStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db, "ship@example.com")
	creditPoints(t, db, user.ID, 1000)
	product := seedProduct(t, db, 100, 5)

	order, err := svc.Create(user.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 1}}, testAddress(), 0)
	require.NoError(t, err)

	// forward only: pending cannot jump straight to shipped
	_, err = svc.AdvanceStatus(order.ID, domain.OrderStatusShipped)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	for _, status := range []string{
		domain.OrderStatusProcessing,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	} {
		updated, err := svc.AdvanceStatus(order.ID, status)
		require.NoError(t, err)
		require.Equal(t, status, updated.Status)
	}

	// delivered is terminal; no refund possible
	_, err = svc.AdvanceStatus(order.ID, domain.OrderStatusCancelled)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	require.Equal(t, 900, availablePoints(t, db, user.ID))
}
