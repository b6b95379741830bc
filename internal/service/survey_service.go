package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"opina/internal/domain"
	"opina/internal/models"
	"opina/internal/repository"

	"gorm.io/gorm"
)

// SurveyService runs the survey completion state machine: a (user, survey)
// pair moves from not-participated to completed exactly once, and each
// completion burns the reward from the survey's point pool.
type SurveyService struct {
	db         *gorm.DB
	surveyRepo *repository.SurveyRepository
	ledger     *repository.LedgerRepository
}

func NewSurveyService(db *gorm.DB, surveyRepo *repository.SurveyRepository, ledger *repository.LedgerRepository) *SurveyService {
	return &SurveyService{db: db, surveyRepo: surveyRepo, ledger: ledger}
}

// CompletionResult is what a successful completion returns to the caller.
type CompletionResult struct {
	ResponseID   uint      `json:"response_id"`
	PointsEarned int       `json:"points_earned"`
	NewBalance   int       `json:"new_balance"`
	CompletedAt  time.Time `json:"completed_at"`
}

// SurveyView is a survey decorated with the caller's participation status.
type SurveyView struct {
	models.Survey
	CanParticipate      bool `json:"can_participate"`
	AlreadyParticipated bool `json:"already_participated"`
}

// Complete validates and applies one survey completion as a single atomic
// unit: participation record, pool decrement, response count bump and ledger
// credit all commit together or not at all.
func (s *SurveyService) Complete(userID, surveyID uint, answers models.AnswerList) (*CompletionResult, error) {
	var result *CompletionResult
	err := runInTx(s.db, func(tx *gorm.DB) error {
		surveys := s.surveyRepo.WithTx(tx)

		survey, err := surveys.GetByID(surveyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSurveyNotFound
			}
			return err
		}
		now := time.Now()
		if survey.Expired(now) {
			return domain.ErrSurveyInactive
		}
		if !survey.CanAccept(now) {
			return domain.ErrSurveyExhausted
		}

		responded, err := surveys.HasResponded(userID, surveyID)
		if err != nil {
			return err
		}
		if responded {
			return domain.ErrAlreadyParticipated
		}

		if err := validateAnswers(survey.Questions, answers); err != nil {
			return err
		}

		resp := &models.SurveyResponse{
			UserID:       userID,
			SurveyID:     surveyID,
			Answers:      answers,
			PointsEarned: survey.PointsReward,
			CompletedAt:  now,
		}
		if err := surveys.CreateResponse(resp); err != nil {
			// the unique (user, survey) index decides races between two submits
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyParticipated
			}
			return err
		}

		ok, err := surveys.ConsumeBudget(surveyID, survey.PointsReward)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrSurveyExhausted
		}

		acct, err := s.ledger.WithTx(tx).Credit(
			userID,
			survey.PointsReward,
			domain.TxTypeEarned,
			fmt.Sprintf("Survey: %s", survey.Title),
			repository.TxRefs{SurveyID: &survey.ID},
		)
		if err != nil {
			return err
		}

		result = &CompletionResult{
			ResponseID:   resp.ID,
			PointsEarned: survey.PointsReward,
			NewBalance:   acct.AvailablePoints,
			CompletedAt:  now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// validateAnswers checks that every required question has a non-empty answer.
func validateAnswers(questions models.QuestionList, answers models.AnswerList) error {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		if strings.TrimSpace(a.Answer) != "" {
			answered[a.QuestionID] = true
		}
	}
	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			return domain.ErrIncompleteAnswers
		}
	}
	return nil
}

// ListForUser returns active surveys annotated with whether the caller can
// still participate. Availability is decided per survey from its own budget
// state plus the caller's participation record, never from aggregate counts.
func (s *SurveyService) ListForUser(userID uint, category string, limit, offset int) ([]SurveyView, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	surveys, total, err := s.surveyRepo.ListActive(category, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responded, err := s.surveyRepo.RespondedSurveyIDs(userID)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	views := make([]SurveyView, 0, len(surveys))
	for _, sv := range surveys {
		views = append(views, SurveyView{
			Survey:              sv,
			CanParticipate:      !responded[sv.ID] && sv.CanAccept(now),
			AlreadyParticipated: responded[sv.ID],
		})
	}
	return views, total, nil
}

// GetForUser returns one survey with the caller's participation status.
func (s *SurveyService) GetForUser(userID, surveyID uint) (*SurveyView, error) {
	survey, err := s.surveyRepo.GetByID(surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSurveyNotFound
		}
		return nil, err
	}
	responded, err := s.surveyRepo.HasResponded(userID, surveyID)
	if err != nil {
		return nil, err
	}
	return &SurveyView{
		Survey:              *survey,
		CanParticipate:      !responded && survey.CanAccept(time.Now()),
		AlreadyParticipated: responded,
	}, nil
}

// History returns the caller's past participations, newest first.
func (s *SurveyService) History(userID uint, limit, offset int) ([]models.SurveyResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.surveyRepo.ResponsesByUser(userID, limit, offset)
}
