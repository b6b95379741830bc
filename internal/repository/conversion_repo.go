package repository

import (
	"time"

	"opina/internal/domain"
	"opina/internal/models"

	"gorm.io/gorm"
)

type ConversionRepository struct {
	db *gorm.DB
}

func NewConversionRepository(db *gorm.DB) *ConversionRepository {
	return &ConversionRepository{db: db}
}

func (r *ConversionRepository) WithTx(tx *gorm.DB) *ConversionRepository {
	return &ConversionRepository{db: tx}
}

func (r *ConversionRepository) Create(c *models.CashConversion) error {
	return r.db.Create(c).Error
}

func (r *ConversionRepository) GetByID(id uint) (*models.CashConversion, error) {
	var c models.CashConversion
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConversionRepository) Update(c *models.CashConversion) error {
	return r.db.Save(c).Error
}

func (r *ConversionRepository) ListByUser(userID uint, limit int) ([]models.CashConversion, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []models.CashConversion
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *ConversionRepository) ListByStatus(status string) ([]models.CashConversion, error) {
	var list []models.CashConversion
	err := r.db.Where("status = ?", status).Order("created_at ASC").Find(&list).Error
	return list, err
}

// MonthlyGrossTotal sums the gross amounts the user converted in the calendar
// month containing t, ignoring failed and cancelled requests.
func (r *ConversionRepository) MonthlyGrossTotal(userID uint, t time.Time) (float64, error) {
	monthStart := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	var sum struct{ Total float64 }
	err := r.db.Model(&models.CashConversion{}).
		Select("COALESCE(SUM(cash_amount), 0) as total").
		Where("user_id = ? AND created_at >= ? AND status NOT IN ?",
			userID, monthStart, []string{domain.ConversionStatusFailed, domain.ConversionStatusCancelled}).
		Scan(&sum).Error
	return sum.Total, err
}
