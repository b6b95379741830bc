package handler

import (
	"net/http"
	"strconv"
	"time"

	"opina/internal/middleware"
	"opina/internal/models"
	"opina/internal/repository"
	"opina/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler manages surveys, products, settlements and settings.
type AdminHandler struct {
	surveyRepo    *repository.SurveyRepository
	productRepo   *repository.ProductRepository
	userRepo      *repository.UserRepository
	settingRepo   *repository.SettingRepository
	adminRepo     *repository.AdminRepository
	orderSvc      *service.OrderService
	conversionSvc *service.ConversionService
}

func NewAdminHandler(
	surveyRepo *repository.SurveyRepository,
	productRepo *repository.ProductRepository,
	userRepo *repository.UserRepository,
	settingRepo *repository.SettingRepository,
	adminRepo *repository.AdminRepository,
	orderSvc *service.OrderService,
	conversionSvc *service.ConversionService,
) *AdminHandler {
	return &AdminHandler{
		surveyRepo:    surveyRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		settingRepo:   settingRepo,
		adminRepo:     adminRepo,
		orderSvc:      orderSvc,
		conversionSvc: conversionSvc,
	}
}

// CreateSurvey publishes a survey; the point pool starts full.
func (h *AdminHandler) CreateSurvey(c *gin.Context) {
	var req struct {
		Title         string              `json:"title" binding:"required,min=5,max=100"`
		Description   string              `json:"description" binding:"required,min=10,max=500"`
		Questions     models.QuestionList `json:"questions" binding:"required,min=1"`
		PointsReward  int                 `json:"points_reward" binding:"required,min=1"`
		InitialPoints int                 `json:"initial_points" binding:"required,min=1"`
		Category      string              `json:"category"`
		EndDate       *time.Time          `json:"end_date"`
		MaxResponses  *int                `json:"max_responses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.InitialPoints < req.PointsReward {
		c.JSON(http.StatusBadRequest, gin.H{"error": "initial points must cover at least one reward"})
		return
	}
	category := req.Category
	if category == "" {
		category = "general"
	}
	survey := &models.Survey{
		Title:           req.Title,
		Description:     req.Description,
		Questions:       req.Questions,
		PointsReward:    req.PointsReward,
		InitialPoints:   req.InitialPoints,
		RemainingPoints: req.InitialPoints,
		Category:        category,
		IsActive:        true,
		StartDate:       time.Now(),
		EndDate:         req.EndDate,
		MaxResponses:    req.MaxResponses,
		CreatedBy:       middleware.GetUserID(c),
	}
	if err := h.surveyRepo.Create(survey); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

// UpdateSurvey toggles activation or extends the end date. The pool and reward
// are immutable after publication; republishing means creating a new survey.
func (h *AdminHandler) UpdateSurvey(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid survey id"})
		return
	}
	survey, err := h.surveyRepo.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	var req struct {
		IsActive *bool      `json:"is_active"`
		EndDate  *time.Time `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.IsActive != nil {
		survey.IsActive = *req.IsActive
	}
	if req.EndDate != nil {
		survey.EndDate = req.EndDate
	}
	if err := h.surveyRepo.Update(survey); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name        string             `json:"name" binding:"required,max=200"`
		Description string             `json:"description"`
		PointsPrice int                `json:"points_price" binding:"required,min=1"`
		Category    string             `json:"category"`
		ImageURL    string             `json:"image_url"`
		Stock       int                `json:"stock" binding:"min=0"`
		WeightKg    float64            `json:"weight_kg"`
		Dimensions  *models.Dimensions `json:"dimensions"`
		Featured    bool               `json:"featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := req.Category
	if category == "" {
		category = "general"
	}
	weight := req.WeightKg
	if weight <= 0 {
		weight = 0.1
	}
	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		PointsPrice: req.PointsPrice,
		Category:    category,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		WeightKg:    weight,
		Dimensions:  req.Dimensions,
		IsActive:    true,
		Featured:    req.Featured,
	}
	if err := h.productRepo.Create(product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	product, err := h.productRepo.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		PointsPrice *int     `json:"points_price"`
		ImageURL    *string  `json:"image_url"`
		WeightKg    *float64 `json:"weight_kg"`
		IsActive    *bool    `json:"is_active"`
		Featured    *bool    `json:"featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.PointsPrice != nil && *req.PointsPrice > 0 {
		product.PointsPrice = *req.PointsPrice
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.WeightKg != nil && *req.WeightKg > 0 {
		product.WeightKg = *req.WeightKg
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if err := h.productRepo.Update(product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) RestockProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.productRepo.GetByID(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	if err := h.productRepo.Restock(uint(id), req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	product, _ := h.productRepo.GetByID(uint(id))
	c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	users, total, err := h.userRepo.List(limit, (page-1)*limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListPendingConversions(c *gin.Context) {
	conversions, err := h.conversionSvc.ListPending()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversions)
}

// AdvanceConversion lets an admin drive a conversion through settlement
// manually (approve, complete, fail or cancel).
func (h *AdminHandler) AdvanceConversion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversion id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conversion, err := h.conversionSvc.AdvanceStatus(uint(id), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversion)
}

// AdvanceOrder moves an order through fulfillment; cancellation refunds.
func (h *AdminHandler) AdvanceOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.orderSvc.AdvanceStatus(uint(id), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingRepo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) PutSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settingRepo.Set(req.Key, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": req.Key, "value": req.Value})
}
