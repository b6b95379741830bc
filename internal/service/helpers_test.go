package service

import (
	"fmt"
	"testing"
	"time"

	"opina/config"
	"opina/internal/domain"
	"opina/internal/models"
	"opina/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.PointsAccount{},
		&models.PointsTransaction{},
		&models.Survey{},
		&models.SurveyResponse{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.CashConversion{},
		&models.SystemSetting{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{
		Name:             "Test User",
		Email:            email,
		PasswordHash:     "x",
		Role:             domain.RoleMember,
		SubscriptionType: domain.TierFree,
		IsActive:         true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedVIPUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	end := time.Now().Add(30 * 24 * time.Hour)
	u := &models.User{
		Name:                "VIP User",
		Email:               email,
		PasswordHash:        "x",
		Role:                domain.RoleMember,
		SubscriptionType:    domain.TierVIP,
		SubscriptionEndDate: &end,
		IsActive:            true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedSurvey(t *testing.T, db *gorm.DB, reward, pool int) *models.Survey {
	t.Helper()
	s := &models.Survey{
		Title:       "Consumer habits",
		Description: "Tell us how you shop.",
		Questions: models.QuestionList{
			{ID: "q1", Text: "How often do you shop online?", Type: "single_choice", Options: []string{"weekly", "monthly"}, Required: true},
			{ID: "q2", Text: "Anything else?", Type: "text", Required: false},
		},
		PointsReward:    reward,
		InitialPoints:   pool,
		RemainingPoints: pool,
		Category:        domain.SurveyCategoryGeneral,
		IsActive:        true,
		StartDate:       time.Now(),
		CreatedBy:       1,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedProduct(t *testing.T, db *gorm.DB, price, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        "Wireless earbuds",
		Description: "Bluetooth 5.3",
		PointsPrice: price,
		Category:    "electronics",
		Stock:       stock,
		WeightKg:    0.2,
		IsActive:    true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func creditPoints(t *testing.T, db *gorm.DB, userID uint, amount int) {
	t.Helper()
	_, err := repository.NewLedgerRepository(db).Credit(userID, amount, domain.TxTypeBonus, "seed", repository.TxRefs{})
	require.NoError(t, err)
}

func availablePoints(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	acct, err := repository.NewLedgerRepository(db).GetBalance(userID)
	require.NoError(t, err)
	return acct.AvailablePoints
}

func testRewardsConfig() config.RewardsConfig {
	return config.RewardsConfig{
		ConversionRate:      0.005,
		FeePercentage:       0.05,
		MinConversionPoints: 2000,
		MaxMonthlyCash:      500.00,
		SignupBonusPoints:   100,
		ShippingBaseRate:    15.00,
		ShippingPerKg:       2.50,
		ShippingPerCubicM:   100.00,
	}
}

func validAnswers() models.AnswerList {
	return models.AnswerList{{QuestionID: "q1", Answer: "weekly"}}
}
