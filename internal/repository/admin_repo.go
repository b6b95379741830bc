package repository

import (
	"opina/internal/domain"
	"opina/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalUsers         int64   `json:"total_users"`
	TotalSurveys       int64   `json:"total_surveys"`
	ActiveSurveys      int64   `json:"active_surveys"`
	TotalResponses     int64   `json:"total_responses"`
	TotalOrders        int64   `json:"total_orders"`
	PendingConversions int64   `json:"pending_conversions"`
	PointsIssued       int64   `json:"points_issued"`
	PointsSpent        int64   `json:"points_spent"`
	CashPaidOut        float64 `json:"cash_paid_out"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	r.db.Model(&models.User{}).Count(&s.TotalUsers)
	r.db.Model(&models.Survey{}).Count(&s.TotalSurveys)
	r.db.Model(&models.Survey{}).Where("is_active = ? AND remaining_points > 0", true).Count(&s.ActiveSurveys)
	r.db.Model(&models.SurveyResponse{}).Count(&s.TotalResponses)
	r.db.Model(&models.Order{}).Count(&s.TotalOrders)
	r.db.Model(&models.CashConversion{}).Where("status = ?", domain.ConversionStatusPending).Count(&s.PendingConversions)

	var issued struct{ Total int64 }
	r.db.Model(&models.PointsTransaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("amount > 0").
		Scan(&issued)
	s.PointsIssued = issued.Total

	var spent struct{ Total int64 }
	r.db.Model(&models.PointsTransaction{}).
		Select("COALESCE(SUM(-amount), 0) as total").
		Where("amount < 0").
		Scan(&spent)
	s.PointsSpent = spent.Total

	var paid struct{ Total float64 }
	r.db.Model(&models.CashConversion{}).
		Select("COALESCE(SUM(net_amount), 0) as total").
		Where("status = ?", domain.ConversionStatusCompleted).
		Scan(&paid)
	s.CashPaidOut = paid.Total

	return &s, nil
}
