package service

import (
	"testing"
	"time"

	"opina/internal/domain"
	"opina/internal/models"
	"opina/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSurveyService(db *gorm.DB) *SurveyService {
	return NewSurveyService(db, repository.NewSurveyRepository(db), repository.NewLedgerRepository(db))
}

func TestSurveyCompleteCreditsReward(t *testing.T) {
	db := newTestDB(t)
	svc := newSurveyService(db)
	user := seedUser(t, db, "alice@example.com")
	survey := seedSurvey(t, db, 100, 300)

	result, err := svc.Complete(user.ID, survey.ID, validAnswers())
	require.NoError(t, err)
	require.Equal(t, 100, result.PointsEarned)
	require.Equal(t, 100, result.NewBalance)
	require.NotZero(t, result.ResponseID)

	var fresh models.Survey
	require.NoError(t, db.First(&fresh, survey.ID).Error)
	require.Equal(t, 200, fresh.RemainingPoints)
	require.Equal(t, 1, fresh.CurrentResponses)

	ledger := repository.NewLedgerRepository(db)
	txs, err := ledger.Transactions(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, domain.TxTypeEarned, txs[0].Type)
	require.Equal(t, 100, txs[0].Amount)
	require.NotNil(t, txs[0].SurveyID)
	require.Equal(t, survey.ID, *txs[0].SurveyID)
}

func TestSurveyCompleteExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newSurveyService(db)
	user := seedUser(t, db, "bob@example.com")
	survey := seedSurvey(t, db, 50, 500)

	_, err := svc.Complete(user.ID, survey.ID, validAnswers())
	require.NoError(t, err)

	_, err = svc.Complete(user.ID, survey.ID, validAnswers())
	require.ErrorIs(t, err, domain.ErrAlreadyParticipated)

	// the rejected retry must not touch balance or pool
	require.Equal(t, 50, availablePoints(t, db, user.ID))
	var fresh models.Survey
	require.NoError(t, db.First(&fresh, survey.ID).Error)
	require.Equal(t, 450, fresh.RemainingPoints)
	require.Equal(t, 1, fresh.CurrentResponses)
}

func TestSurveyPoolExhaustion(t *testing.T) {
	db := newTestDB(t)
	svc := newSurveyService(db)
	// pool of 150 with a 100-point reward funds exactly one completion
	survey := seedSurvey(t, db, 100, 150)
	first := seedUser(t, db, "first@example.com")
	second := seedUser(t, db, "second@example.com")

	_, err := svc.Complete(first.ID, survey.ID, validAnswers())
	require.NoError(t, err)

	_, err = svc.Complete(second.ID, survey.ID, validAnswers())
	require.ErrorIs(t, err, domain.ErrSurveyExhausted)

	// the loser earns nothing and the 50-point remainder stays put
	require.Equal(t, 0, availablePoints(t, db, second.ID))
	var fresh models.Survey
	require.NoError(t, db.First(&fresh, survey.ID).Error)
	require.Equal(t, 50, fresh.RemainingPoints)
	require.Equal(t, 1, fresh.CurrentResponses)
}

func TestSurveyCompleteValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newSurveyService(db)
	user := seedUser(t, db, "carol@example.com")

	t.Run("not found", func(t *testing.T) {
		_, err := svc.Complete(user.ID, 9999, validAnswers())
		require.ErrorIs(t, err, domain.ErrSurveyNotFound)
	})

	t.Run("inactive", func(t *testing.T) {
		survey := seedSurvey(t, db, 50, 500)
		require.NoError(t, db.Model(survey).Update("is_active", false).Error)
		_, err := svc.Complete(user.ID, survey.ID, validAnswers())
		require.ErrorIs(t, err, domain.ErrSurveyInactive)
	})

	t.Run("expired", func(t *testing.T) {
		survey := seedSurvey(t, db, 50, 500)
		past := time.Now().Add(-time.Hour)
		require.NoError(t, db.Model(survey).Update("end_date", past).Error)
		_, err := svc.Complete(user.ID, survey.ID, validAnswers())
		require.ErrorIs(t, err, domain.ErrSurveyInactive)
	})

	t.Run("max responses reached", func(t *testing.T) {
		survey := seedSurvey(t, db, 50, 500)
		require.NoError(t, db.Model(survey).
			Updates(map[string]interface{}{"max_responses": 1, "current_responses": 1}).Error)
		_, err := svc.Complete(user.ID, survey.ID, validAnswers())
		require.ErrorIs(t, err, domain.ErrSurveyExhausted)
	})

	t.Run("incomplete answers", func(t *testing.T) {
		survey := seedSurvey(t, db, 50, 500)

		_, err := svc.Complete(user.ID, survey.ID, models.AnswerList{})
		require.ErrorIs(t, err, domain.ErrIncompleteAnswers)

		// whitespace does not answer a required question
		_, err = svc.Complete(user.ID, survey.ID, models.AnswerList{{QuestionID: "q1", Answer: "   "}})
		require.ErrorIs(t, err, domain.ErrIncompleteAnswers)

		// the rejected submits leave no response and no credit
		require.Equal(t, 0, availablePoints(t, db, user.ID))
		var count int64
		db.Model(&models.SurveyResponse{}).Where("survey_id = ?", survey.ID).Count(&count)
		require.Zero(t, count)
	})

	t.Run("optional question may be skipped", func(t *testing.T) {
		survey := seedSurvey(t, db, 50, 500)
		_, err := svc.Complete(user.ID, survey.ID, validAnswers())
		require.NoError(t, err)
	})
}

func TestSurveyListForUser(t *testing.T) {
	db := newTestDB(t)
	svc := newSurveyService(db)
	user := seedUser(t, db, "dave@example.com")
	done := seedSurvey(t, db, 50, 500)
	open := seedSurvey(t, db, 50, 500)

	_, err := svc.Complete(user.ID, done.ID, validAnswers())
	require.NoError(t, err)

	views, total, err := svc.ListForUser(user.ID, "", 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	byID := make(map[uint]SurveyView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}
	require.True(t, byID[done.ID].AlreadyParticipated)
	require.False(t, byID[done.ID].CanParticipate)
	require.False(t, byID[open.ID].AlreadyParticipated)
	require.True(t, byID[open.ID].CanParticipate)
}

func TestSurveyHistory(t *testing.T) {
	db := newTestDB(t)
	svc := newSurveyService(db)
	user := seedUser(t, db, "eve@example.com")
	survey := seedSurvey(t, db, 75, 500)

	_, err := svc.Complete(user.ID, survey.ID, validAnswers())
	require.NoError(t, err)

	responses, total, err := svc.History(user.ID, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, responses, 1)
	require.Equal(t, 75, responses[0].PointsEarned)
	require.Equal(t, survey.Title, responses[0].Survey.Title)
}
