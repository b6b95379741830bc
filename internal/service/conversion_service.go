package service

import (
	"fmt"
	"math"
	"time"

	"opina/config"
	"opina/internal/domain"
	"opina/internal/models"
	"opina/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConversionService exchanges points for money at a fixed rate minus a
// processing fee. Only active VIP subscribers may convert, and each request
// debits points atomically with its creation.
type ConversionService struct {
	db             *gorm.DB
	cfg            config.RewardsConfig
	userRepo       *repository.UserRepository
	conversionRepo *repository.ConversionRepository
	ledger         *repository.LedgerRepository
}

func NewConversionService(db *gorm.DB, cfg config.RewardsConfig, userRepo *repository.UserRepository, conversionRepo *repository.ConversionRepository, ledger *repository.LedgerRepository) *ConversionService {
	return &ConversionService{db: db, cfg: cfg, userRepo: userRepo, conversionRepo: conversionRepo, ledger: ledger}
}

// Quote is the fee breakdown for converting a number of points.
type Quote struct {
	Points     int     `json:"points"`
	CashAmount float64 `json:"cash_amount"`
	FeeAmount  float64 `json:"fee_amount"`
	NetAmount  float64 `json:"net_amount"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Calculate is the pure fee math: gross = points * rate, fee = gross * pct,
// net = gross - fee, each rounded to cents.
func (s *ConversionService) Calculate(points int) Quote {
	gross := round2(float64(points) * s.cfg.ConversionRate)
	fee := round2(gross * s.cfg.FeePercentage)
	return Quote{
		Points:     points,
		CashAmount: gross,
		FeeAmount:  fee,
		NetAmount:  round2(gross - fee),
	}
}

// Validate runs the eligibility checks without touching any state. Used by the
// preview endpoint and as the first step of Request.
func (s *ConversionService) Validate(userID uint, points int) error {
	if points <= 0 {
		return domain.ErrInvalidAmount
	}
	if points < s.cfg.MinConversionPoints {
		return domain.ErrBelowMinimum
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.IsVIPActive(time.Now()) {
		return domain.ErrIneligibleTier
	}
	acct, err := s.ledger.GetBalance(userID)
	if err != nil {
		return err
	}
	if acct.AvailablePoints < points {
		return domain.ErrInsufficientBalance
	}
	return nil
}

// Request creates a pending conversion, debiting the points in the same
// transaction. The monthly gross cap is checked inside the transaction so
// racing requests cannot both squeeze under it.
func (s *ConversionService) Request(userID uint, points int, paymentMethod string, paymentDetails models.JSONMap) (*models.CashConversion, error) {
	if points <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if points < s.cfg.MinConversionPoints {
		return nil, domain.ErrBelowMinimum
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if !user.IsVIPActive(now) {
		return nil, domain.ErrIneligibleTier
	}
	quote := s.Calculate(points)

	var created *models.CashConversion
	err = runInTx(s.db, func(tx *gorm.DB) error {
		conversions := s.conversionRepo.WithTx(tx)

		monthTotal, err := conversions.MonthlyGrossTotal(userID, now)
		if err != nil {
			return err
		}
		if monthTotal+quote.CashAmount > s.cfg.MaxMonthlyCash {
			return domain.ErrMonthlyCapExceeded
		}

		conversion := &models.CashConversion{
			UserID:          userID,
			PointsConverted: points,
			CashAmount:      quote.CashAmount,
			FeeAmount:       quote.FeeAmount,
			NetAmount:       quote.NetAmount,
			Status:          domain.ConversionStatusPending,
			PaymentMethod:   paymentMethod,
			PaymentDetails:  paymentDetails,
		}
		if err := conversions.Create(conversion); err != nil {
			return err
		}

		_, err = s.ledger.WithTx(tx).Debit(
			userID,
			points,
			domain.TxTypeSpent,
			fmt.Sprintf("Cash conversion #%d", conversion.ID),
			repository.TxRefs{ConversionID: &conversion.ID},
		)
		if err != nil {
			return err
		}

		created = conversion
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AdvanceStatus is driven by the settlement collaborator (or an admin).
// Transitions only run forward; moving to failed or cancelled refunds the
// debited points in the same transaction.
func (s *ConversionService) AdvanceStatus(conversionID uint, newStatus string) (*models.CashConversion, error) {
	var updated *models.CashConversion
	err := runInTx(s.db, func(tx *gorm.DB) error {
		conversions := s.conversionRepo.WithTx(tx)
		conversion, err := conversions.GetByID(conversionID)
		if err != nil {
			return err
		}
		if !domain.ValidConversionTransition(conversion.Status, newStatus) {
			return domain.ErrInvalidTransition
		}
		conversion.Status = newStatus
		switch newStatus {
		case domain.ConversionStatusProcessing:
			now := time.Now()
			conversion.ProcessedAt = &now
			conversion.TransactionID = "tx-" + uuid.New().String()
		case domain.ConversionStatusFailed, domain.ConversionStatusCancelled:
			_, err := s.ledger.WithTx(tx).Credit(
				conversion.UserID,
				conversion.PointsConverted,
				domain.TxTypeRefund,
				fmt.Sprintf("Cash conversion #%d %s", conversion.ID, newStatus),
				repository.TxRefs{ConversionID: &conversion.ID},
			)
			if err != nil {
				return err
			}
		}
		if err := conversions.Update(conversion); err != nil {
			return err
		}
		updated = conversion
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// History returns the caller's conversion requests, newest first.
func (s *ConversionService) History(userID uint, limit int) ([]models.CashConversion, error) {
	return s.conversionRepo.ListByUser(userID, limit)
}

// ListPending returns conversions awaiting settlement, oldest first.
func (s *ConversionService) ListPending() ([]models.CashConversion, error) {
	return s.conversionRepo.ListByStatus(domain.ConversionStatusPending)
}
