package router

import (
	"time"

	"opina/config"
	"opina/internal/handler"
	"opina/internal/middleware"
	"opina/internal/repository"
	"opina/internal/service"
	"opina/pkg/shipping"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	conversionRepo := repository.NewConversionRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, db, userRepo, ledgerRepo)
	surveySvc := service.NewSurveyService(db, surveyRepo, ledgerRepo)
	orderSvc := service.NewOrderService(db, productRepo, orderRepo, ledgerRepo)
	conversionSvc := service.NewConversionService(db, cfg.Rewards, userRepo, conversionRepo, ledgerRepo)

	shipCalc := shipping.NewWeightBasedCalculator(
		cfg.Rewards.ShippingBaseRate,
		cfg.Rewards.ShippingPerKg,
		cfg.Rewards.ShippingPerCubicM,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	surveyHandler := handler.NewSurveyHandler(surveySvc)
	rewardsHandler := handler.NewRewardsHandler(productRepo, ledgerRepo, orderSvc, shipCalc)
	conversionHandler := handler.NewConversionHandler(conversionSvc)
	settlementHandler := handler.NewSettlementWebhookHandler(conversionSvc)
	adminHandler := handler.NewAdminHandler(surveyRepo, productRepo, userRepo, settingRepo, adminRepo, orderSvc, conversionSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/me", authMw, authHandler.Me)
		}

		surveys := api.Group("/surveys")
		surveys.Use(authMw)
		{
			surveys.GET("", surveyHandler.List)
			surveys.GET("/history", surveyHandler.History)
			surveys.GET("/:id", surveyHandler.Get)
			surveys.POST("/:id/participate", surveyHandler.Participate)
		}

		rewards := api.Group("/rewards")
		rewards.Use(authMw)
		{
			rewards.GET("/products", rewardsHandler.ListProducts)
			rewards.GET("/points", rewardsHandler.GetPoints)
			rewards.GET("/transactions", rewardsHandler.GetTransactions)
			rewards.POST("/shipping-quote", rewardsHandler.ShippingQuote)
			rewards.POST("/orders", rewardsHandler.CreateOrder)
			rewards.GET("/orders", rewardsHandler.ListOrders)
		}

		conversions := api.Group("/conversions")
		conversions.Use(authMw)
		{
			conversions.POST("/calculate", conversionHandler.Calculate)
			conversions.POST("", conversionHandler.Request)
			conversions.GET("", conversionHandler.History)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireAdmin())
		{
			admin.POST("/surveys", adminHandler.CreateSurvey)
			admin.PATCH("/surveys/:id", adminHandler.UpdateSurvey)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PATCH("/products/:id", adminHandler.UpdateProduct)
			admin.POST("/products/:id/restock", adminHandler.RestockProduct)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/conversions/pending", adminHandler.ListPendingConversions)
			admin.PATCH("/conversions/:id/status", adminHandler.AdvanceConversion)
			admin.PATCH("/orders/:id/status", adminHandler.AdvanceOrder)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.PutSetting)
		}

		api.POST("/webhooks/settlement", settlementHandler.Handle)
	}

	return r
}
