package service

import (
	"testing"
	"time"

	"opina/internal/domain"
	"opina/internal/models"
	"opina/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newConversionService(db *gorm.DB) *ConversionService {
	return NewConversionService(db, testRewardsConfig(),
		repository.NewUserRepository(db),
		repository.NewConversionRepository(db),
		repository.NewLedgerRepository(db))
}

func pixDetails() models.JSONMap {
	return models.JSONMap{"pix_key": "alice@example.com"}
}

func TestConversionCalculate(t *testing.T) {
	db := newTestDB(t)
	svc := newConversionService(db)

	// 2000 points at 0.005/point: gross 10.00, 5% fee 0.50, net 9.50
	quote := svc.Calculate(2000)
	require.Equal(t, 2000, quote.Points)
	require.Equal(t, 10.00, quote.CashAmount)
	require.Equal(t, 0.50, quote.FeeAmount)
	require.Equal(t, 9.50, quote.NetAmount)

	quote = svc.Calculate(5500)
	require.InDelta(t, 27.50, quote.CashAmount, 0.001)
	require.InDelta(t, 1.38, quote.FeeAmount, 0.001)
	require.InDelta(t, 26.12, quote.NetAmount, 0.001)
}

func TestConversionRequest(t *testing.T) {
	db := newTestDB(t)
	svc := newConversionService(db)
	user := seedVIPUser(t, db, "vip@example.com")
	creditPoints(t, db, user.ID, 3000)

	conversion, err := svc.Request(user.ID, 2000, domain.PaymentMethodPix, pixDetails())
	require.NoError(t, err)
	require.Equal(t, domain.ConversionStatusPending, conversion.Status)
	require.Equal(t, 2000, conversion.PointsConverted)
	require.Equal(t, 10.00, conversion.CashAmount)
	require.Equal(t, 0.50, conversion.FeeAmount)
	require.Equal(t, 9.50, conversion.NetAmount)

	// points leave the balance with the request, not with settlement
	require.Equal(t, 1000, availablePoints(t, db, user.ID))

	txs, err := repository.NewLedgerRepository(db).Transactions(user.ID, 10)
	require.NoError(t, err)
	require.Equal(t, domain.TxTypeSpent, txs[0].Type)
	require.Equal(t, -2000, txs[0].Amount)
	require.NotNil(t, txs[0].ConversionID)
	require.Equal(t, conversion.ID, *txs[0].ConversionID)
}

func TestConversionEligibility(t *testing.T) {
	db := newTestDB(t)
	svc := newConversionService(db)

	t.Run("below minimum", func(t *testing.T) {
		user := seedVIPUser(t, db, "vip-min@example.com")
		creditPoints(t, db, user.ID, 3000)
		_, err := svc.Request(user.ID, 1999, domain.PaymentMethodPix, pixDetails())
		require.ErrorIs(t, err, domain.ErrBelowMinimum)
	})

	t.Run("free tier", func(t *testing.T) {
		user := seedUser(t, db, "free@example.com")
		creditPoints(t, db, user.ID, 3000)
		_, err := svc.Request(user.ID, 2000, domain.PaymentMethodPix, pixDetails())
		require.ErrorIs(t, err, domain.ErrIneligibleTier)
	})

	t.Run("expired vip", func(t *testing.T) {
		user := seedVIPUser(t, db, "vip-old@example.com")
		expired := time.Now().Add(-24 * time.Hour)
		require.NoError(t, db.Model(user).Update("subscription_end_date", expired).Error)
		creditPoints(t, db, user.ID, 3000)
		_, err := svc.Request(user.ID, 2000, domain.PaymentMethodPix, pixDetails())
		require.ErrorIs(t, err, domain.ErrIneligibleTier)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		user := seedVIPUser(t, db, "vip-poor@example.com")
		creditPoints(t, db, user.ID, 1000)
		_, err := svc.Request(user.ID, 2000, domain.PaymentMethodPix, pixDetails())
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)
		require.Equal(t, 1000, availablePoints(t, db, user.ID))
	})
}

func TestConversionMonthlyCap(t *testing.T) {
	db := newTestDB(t)
	svc := newConversionService(db)
	user := seedVIPUser(t, db, "whale@example.com")
	// 500.00 gross cap at 0.005/point is 100000 points per month
	creditPoints(t, db, user.ID, 200000)

	_, err := svc.Request(user.ID, 80000, domain.PaymentMethodPix, pixDetails())
	require.NoError(t, err)

	// 80000 used 400.00 of the cap; 30000 more would be 550.00
	_, err = svc.Request(user.ID, 30000, domain.PaymentMethodPix, pixDetails())
	require.ErrorIs(t, err, domain.ErrMonthlyCapExceeded)

	// a request that fits the remaining 100.00 still goes through
	_, err = svc.Request(user.ID, 20000, domain.PaymentMethodPix, pixDetails())
	require.NoError(t, err)

	// the rejected request debited nothing
	require.Equal(t, 100000, availablePoints(t, db, user.ID))
}

func TestConversionCancelledRequestsFreeTheCap(t *testing.T) {
	db := newTestDB(t)
	svc := newConversionService(db)
	user := seedVIPUser(t, db, "retry@example.com")
	creditPoints(t, db, user.ID, 200000)

	first, err := svc.Request(user.ID, 100000, domain.PaymentMethodPix, pixDetails())
	require.NoError(t, err)

	_, err = svc.Request(user.ID, 2000, domain.PaymentMethodPix, pixDetails())
	require.ErrorIs(t, err, domain.ErrMonthlyCapExceeded)

	_, err = svc.AdvanceStatus(first.ID, domain.ConversionStatusCancelled)
	require.NoError(t, err)

	_, err = svc.Request(user.ID, 2000, domain.PaymentMethodPix, pixDetails())
	require.NoError(t, err)
}

func TestConversionStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newConversionService(db)
	user := seedVIPUser(t, db, "settle@example.com")
	creditPoints(t, db, user.ID, 10000)

	conversion, err := svc.Request(user.ID, 2000, domain.PaymentMethodPix, pixDetails())
	require.NoError(t, err)

	// pending cannot complete without passing through processing
	_, err = svc.AdvanceStatus(conversion.ID, domain.ConversionStatusCompleted)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	processing, err := svc.AdvanceStatus(conversion.ID, domain.ConversionStatusProcessing)
	require.NoError(t, err)
	require.NotNil(t, processing.ProcessedAt)
	require.NotEmpty(t, processing.TransactionID)

	completed, err := svc.AdvanceStatus(conversion.ID, domain.ConversionStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.ConversionStatusCompleted, completed.Status)

	// completion keeps the debit: points are gone for good
	require.Equal(t, 8000, availablePoints(t, db, user.ID))

	// completed is terminal
	_, err = svc.AdvanceStatus(conversion.ID, domain.ConversionStatusCancelled)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConversionFailureRefunds(t *testing.T) {
	db := newTestDB(t)
	svc := newConversionService(db)
	user := seedVIPUser(t, db, "fail@example.com")
	creditPoints(t, db, user.ID, 10000)

	conversion, err := svc.Request(user.ID, 2000, domain.PaymentMethodPix, pixDetails())
	require.NoError(t, err)
	require.Equal(t, 8000, availablePoints(t, db, user.ID))

	_, err = svc.AdvanceStatus(conversion.ID, domain.ConversionStatusProcessing)
	require.NoError(t, err)
	_, err = svc.AdvanceStatus(conversion.ID, domain.ConversionStatusFailed)
	require.NoError(t, err)

	require.Equal(t, 10000, availablePoints(t, db, user.ID))
	txs, err := repository.NewLedgerRepository(db).Transactions(user.ID, 10)
	require.NoError(t, err)
	require.Equal(t, domain.TxTypeRefund, txs[0].Type)
	require.Equal(t, 2000, txs[0].Amount)
}

func TestConversionPendingQueue(t *testing.T) {
	db := newTestDB(t)
	svc := newConversionService(db)
	user := seedVIPUser(t, db, "queue@example.com")
	creditPoints(t, db, user.ID, 10000)

	first, err := svc.Request(user.ID, 2000, domain.PaymentMethodPix, pixDetails())
	require.NoError(t, err)
	second, err := svc.Request(user.ID, 2000, domain.PaymentMethodBankTransfer, pixDetails())
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(first.ID, domain.ConversionStatusProcessing)
	require.NoError(t, err)

	pending, err := svc.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, second.ID, pending[0].ID)

	history, err := svc.History(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
}
