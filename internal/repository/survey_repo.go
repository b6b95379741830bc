package repository

import (
	"errors"

	"opina/internal/models"

	"gorm.io/gorm"
)

type SurveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

func (r *SurveyRepository) WithTx(tx *gorm.DB) *SurveyRepository {
	return &SurveyRepository{db: tx}
}

func (r *SurveyRepository) Create(s *models.Survey) error {
	return r.db.Create(s).Error
}

func (r *SurveyRepository) GetByID(id uint) (*models.Survey, error) {
	var s models.Survey
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SurveyRepository) Update(s *models.Survey) error {
	return r.db.Save(s).Error
}

// ListActive returns active surveys with remaining budget, newest first.
func (r *SurveyRepository) ListActive(category string, limit, offset int) ([]models.Survey, int64, error) {
	q := r.db.Model(&models.Survey{}).
		Where("is_active = ? AND remaining_points > 0", true)
	if category != "" && category != "all" {
		q = q.Where("category = ?", category)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var surveys []models.Survey
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&surveys).Error
	return surveys, total, err
}

// ConsumeBudget burns one reward from the survey's pool and bumps the response
// count, but only while the pool still covers the reward and the response
// ceiling has not been hit. Returns false when the guard rejects the update,
// which is how racing completions lose.
func (r *SurveyRepository) ConsumeBudget(surveyID uint, reward int) (bool, error) {
	res := r.db.Model(&models.Survey{}).
		Where("id = ? AND remaining_points >= ? AND (max_responses IS NULL OR current_responses < max_responses)",
			surveyID, reward).
		Updates(map[string]interface{}{
			"remaining_points":  gorm.Expr("remaining_points - ?", reward),
			"current_responses": gorm.Expr("current_responses + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *SurveyRepository) CreateResponse(resp *models.SurveyResponse) error {
	return r.db.Create(resp).Error
}

func (r *SurveyRepository) GetResponse(userID, surveyID uint) (*models.SurveyResponse, error) {
	var resp models.SurveyResponse
	err := r.db.Where("user_id = ? AND survey_id = ?", userID, surveyID).First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *SurveyRepository) HasResponded(userID, surveyID uint) (bool, error) {
	_, err := r.GetResponse(userID, surveyID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// RespondedSurveyIDs returns the ids of surveys the user has already completed.
func (r *SurveyRepository) RespondedSurveyIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&models.SurveyResponse{}).
		Where("user_id = ?", userID).
		Pluck("survey_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *SurveyRepository) ResponsesByUser(userID uint, limit, offset int) ([]models.SurveyResponse, int64, error) {
	q := r.db.Model(&models.SurveyResponse{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var responses []models.SurveyResponse
	err := q.Preload("Survey").Order("completed_at DESC").Limit(limit).Offset(offset).Find(&responses).Error
	return responses, total, err
}
