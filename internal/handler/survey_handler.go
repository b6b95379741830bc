package handler

import (
	"net/http"
	"strconv"

	"opina/internal/middleware"
	"opina/internal/models"
	"opina/internal/service"

	"github.com/gin-gonic/gin"
)

type SurveyHandler struct {
	surveySvc *service.SurveyService
}

func NewSurveyHandler(surveySvc *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveySvc: surveySvc}
}

// List returns active surveys with the caller's participation status.
func (h *SurveyHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	category := c.Query("category")

	surveys, total, err := h.surveySvc.ListForUser(userID, category, limit, (page-1)*limit)
	if err != nil {
		respondError(c, err)
		return
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	c.JSON(http.StatusOK, gin.H{
		"surveys": surveys,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

func (h *SurveyHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid survey id"})
		return
	}
	view, err := h.surveySvc.GetForUser(userID, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Participate submits answers and awards the survey's reward exactly once.
func (h *SurveyHandler) Participate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid survey id"})
		return
	}
	var req struct {
		Answers models.AnswerList `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.surveySvc.Complete(userID, uint(id), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "survey completed",
		"points_earned": result.PointsEarned,
		"new_balance":   result.NewBalance,
		"response_id":   result.ResponseID,
		"completed_at":  result.CompletedAt,
	})
}

// History returns the caller's past participations.
func (h *SurveyHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	responses, total, err := h.surveySvc.History(userID, limit, (page-1)*limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"responses": responses,
		"total":     total,
	})
}
