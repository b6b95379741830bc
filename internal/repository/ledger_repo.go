package repository

import (
	"errors"
	"time"

	"opina/internal/domain"
	"opina/internal/models"

	"gorm.io/gorm"
)

// TxRefs links a ledger entry to the record that caused it. At most one field
// is set; the referenced entity never points back at the transaction.
type TxRefs struct {
	OrderID      *uint
	SurveyID     *uint
	ConversionID *uint
}

// LedgerRepository is the single source of truth for point balances. Every
// balance change creates an immutable PointsTransaction alongside the account
// update. Mutations use guarded UPDATEs so concurrent debits cannot drive a
// balance negative.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WithTx returns a copy bound to an open transaction. Callers composing a
// ledger mutation with other writes must go through this.
func (r *LedgerRepository) WithTx(tx *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

// GetOrCreate lazily initializes a zero-balance account on first use.
func (r *LedgerRepository) GetOrCreate(userID uint) (*models.PointsAccount, error) {
	var acct models.PointsAccount
	err := r.db.Where("user_id = ?", userID).First(&acct).Error
	if err == nil {
		return &acct, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	acct = models.PointsAccount{UserID: userID}
	if err := r.db.Create(&acct).Error; err != nil {
		// lost a race with another initializer; the row exists now
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = r.db.Where("user_id = ?", userID).First(&acct).Error
		}
		if err != nil {
			return nil, err
		}
	}
	return &acct, nil
}

var creditTypes = map[string]bool{
	domain.TxTypeEarned: true,
	domain.TxTypeBonus:  true,
	domain.TxTypeRefund: true,
}

var debitTypes = map[string]bool{
	domain.TxTypeSpent:   true,
	domain.TxTypePenalty: true,
}

// Credit adds amount to the available and lifetime-earned balances and appends
// an earned/bonus/refund ledger entry. Returns the updated account.
func (r *LedgerRepository) Credit(userID uint, amount int, txType, description string, refs TxRefs) (*models.PointsAccount, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !creditTypes[txType] {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := r.GetOrCreate(userID); err != nil {
		return nil, err
	}
	now := time.Now()
	res := r.db.Model(&models.PointsAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"available_points": gorm.Expr("available_points + ?", amount),
			"total_points":     gorm.Expr("total_points + ?", amount),
			"last_earned":      now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	return r.record(userID, amount, txType, description, refs)
}

// Debit moves amount from available to used and appends a spent/penalty ledger
// entry. Fails with ErrInsufficientBalance when the available balance cannot
// cover the amount; the guard is in the UPDATE itself, so racing debits
// serialize on the account row.
func (r *LedgerRepository) Debit(userID uint, amount int, txType, description string, refs TxRefs) (*models.PointsAccount, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !debitTypes[txType] {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := r.GetOrCreate(userID); err != nil {
		return nil, err
	}
	now := time.Now()
	res := r.db.Model(&models.PointsAccount{}).
		Where("user_id = ? AND available_points >= ?", userID, amount).
		Updates(map[string]interface{}{
			"available_points": gorm.Expr("available_points - ?", amount),
			"used_points":      gorm.Expr("used_points + ?", amount),
			"last_used":        now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInsufficientBalance
	}
	return r.record(userID, -amount, txType, description, refs)
}

// record reloads the account and appends the ledger entry with its balance snapshot.
func (r *LedgerRepository) record(userID uint, signedAmount int, txType, description string, refs TxRefs) (*models.PointsAccount, error) {
	var acct models.PointsAccount
	if err := r.db.Where("user_id = ?", userID).First(&acct).Error; err != nil {
		return nil, err
	}
	entry := models.PointsTransaction{
		UserID:       userID,
		Type:         txType,
		Amount:       signedAmount,
		Description:  description,
		OrderID:      refs.OrderID,
		SurveyID:     refs.SurveyID,
		ConversionID: refs.ConversionID,
		BalanceAfter: acct.AvailablePoints,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

// GetBalance returns the current snapshot, lazily initializing the account.
func (r *LedgerRepository) GetBalance(userID uint) (*models.PointsAccount, error) {
	return r.GetOrCreate(userID)
}

// Transactions returns the user's ledger entries, newest first.
func (r *LedgerRepository) Transactions(userID uint, limit int) ([]models.PointsTransaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var txs []models.PointsTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}

// ReplayBalance folds all ledger entries in creation order from zero. Used to
// audit that the materialized available balance matches the history.
func (r *LedgerRepository) ReplayBalance(userID uint) (int, error) {
	var txs []models.PointsTransaction
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&txs).Error; err != nil {
		return 0, err
	}
	balance := 0
	for _, t := range txs {
		balance += t.Amount
	}
	return balance, nil
}
