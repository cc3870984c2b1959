package services

import (
	"testing"

	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type attemptFixture struct {
	db      *gorm.DB
	svc     *AttemptService
	teacher models.User
	student models.User
	quiz    models.Quiz
}

func newAttemptFixture(t *testing.T) attemptFixture {
	db := newTestDB(t)
	teacher := seedUser(t, db, models.RoleTeacher)
	student := seedUser(t, db, models.RoleStudent)
	seedActiveSubscription(t, db, student.ID, teacher.ID)
	quiz := seedTwoQuestionQuiz(t, db, teacher.ID)

	return attemptFixture{
		db:      db,
		svc:     NewAttemptService(db, NewEntitlementService(db)),
		teacher: teacher,
		student: student,
		quiz:    quiz,
	}
}

func (f attemptFixture) answerRows(t *testing.T, attemptID uuid.UUID) []models.StudentAnswer {
	t.Helper()
	var rows []models.StudentAnswer
	require.NoError(t, f.db.Where("attempt_id = ?", attemptID).Find(&rows).Error)
	return rows
}

func TestStartRequiresSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttemptService(db, NewEntitlementService(db))
	teacher := seedUser(t, db, models.RoleTeacher)
	outsider := seedUser(t, db, models.RoleStudent)
	quiz := seedTwoQuestionQuiz(t, db, teacher.ID)

	_, _, err := svc.Start(outsider.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestStartUnknownOrInactiveQuiz(t *testing.T) {
	f := newAttemptFixture(t)

	_, _, err := f.svc.Start(f.student.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.db.Model(&f.quiz).Update("is_active", false).Error)
	_, _, err = f.svc.Start(f.student.ID, f.quiz.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartResumesInProgressAttempt(t *testing.T) {
	f := newAttemptFixture(t)

	first, resumed, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.False(t, first.IsCompleted)

	second, resumed, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, f.db.Model(&models.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ?", f.student.ID, f.quiz.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResumeSurvivesLapsedSubscription(t *testing.T) {
	f := newAttemptFixture(t)

	first, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)

	err = f.db.Model(&models.Subscription{}).
		Where("student_id = ?", f.student.ID).
		Update("status", models.SubscriptionExpired).Error
	require.NoError(t, err)

	// Entitlement is only checked when creating, never when resuming.
	second, resumed, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, first.ID, second.ID)
}

func TestSubmitScoresAndCompletes(t *testing.T) {
	f := newAttemptFixture(t)
	attempt, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)

	q1, q2 := f.quiz.Questions[0], f.quiz.Questions[1]
	right := correctChoice(t, q1).ID

	// Answer the first question correctly, leave the second blank.
	got, err := f.svc.Submit(f.student.ID, attempt.ID, map[uuid.UUID]SubmittedAnswer{
		q1.ID: {SelectedChoiceID: &right},
	})
	require.NoError(t, err)

	assert.True(t, got.IsCompleted)
	assert.Equal(t, 1, got.Score)
	assert.Equal(t, 2, got.MaxPossibleScore)
	require.NotNil(t, got.Passed)
	assert.True(t, *got.Passed, "1 of 2 at a 50 percent threshold passes")
	require.NotNil(t, got.EndTime)
	require.NotNil(t, got.TimeTakenSeconds)
	assert.GreaterOrEqual(t, *got.TimeTakenSeconds, 0)

	rows := f.answerRows(t, attempt.ID)
	require.Len(t, rows, 2)
	byQuestion := map[uuid.UUID]models.StudentAnswer{}
	for _, r := range rows {
		byQuestion[r.QuestionID] = r
	}
	assert.True(t, byQuestion[q1.ID].IsCorrect)
	assert.Equal(t, 1, byQuestion[q1.ID].PointsAwarded)
	assert.Nil(t, byQuestion[q2.ID].SelectedChoiceID)
	assert.False(t, byQuestion[q2.ID].IsCorrect)
	assert.Zero(t, byQuestion[q2.ID].PointsAwarded)
}

func TestSubmitBelowThresholdFails(t *testing.T) {
	f := newAttemptFixture(t)
	attempt, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)

	q1, q2 := f.quiz.Questions[0], f.quiz.Questions[1]
	w1, w2 := wrongChoice(t, q1).ID, wrongChoice(t, q2).ID

	got, err := f.svc.Submit(f.student.ID, attempt.ID, map[uuid.UUID]SubmittedAnswer{
		q1.ID: {SelectedChoiceID: &w1},
		q2.ID: {SelectedChoiceID: &w2},
	})
	require.NoError(t, err)
	assert.Zero(t, got.Score)
	require.NotNil(t, got.Passed)
	assert.False(t, *got.Passed)
}

func TestSubmitZeroQuestionQuizAutoPasses(t *testing.T) {
	f := newAttemptFixture(t)
	empty := models.Quiz{TeacherID: f.teacher.ID, Title: "Placeholder", PassingThreshold: 50, IsActive: true}
	require.NoError(t, f.db.Create(&empty).Error)

	attempt, _, err := f.svc.Start(f.student.ID, empty.ID)
	require.NoError(t, err)

	got, err := f.svc.Submit(f.student.ID, attempt.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, got.Score)
	assert.Zero(t, got.MaxPossibleScore)
	require.NotNil(t, got.Passed)
	assert.True(t, *got.Passed)
}

func TestSubmitTwiceRejected(t *testing.T) {
	f := newAttemptFixture(t)
	attempt, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)

	_, err = f.svc.Submit(f.student.ID, attempt.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Submit(f.student.ID, attempt.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitForeignQuestionRejected(t *testing.T) {
	f := newAttemptFixture(t)
	attempt, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)

	choice := correctChoice(t, f.quiz.Questions[0]).ID
	_, err = f.svc.Submit(f.student.ID, attempt.ID, map[uuid.UUID]SubmittedAnswer{
		uuid.New(): {SelectedChoiceID: &choice},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// A rejected submission leaves the attempt open and unscored.
	var got models.QuizAttempt
	require.NoError(t, f.db.First(&got, "id = ?", attempt.ID).Error)
	assert.False(t, got.IsCompleted)
	assert.Empty(t, f.answerRows(t, attempt.ID))
}

func TestSubmitChoiceFromAnotherQuestionRejected(t *testing.T) {
	f := newAttemptFixture(t)
	attempt, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)

	q1, q2 := f.quiz.Questions[0], f.quiz.Questions[1]
	mismatched := correctChoice(t, q2).ID
	_, err = f.svc.Submit(f.student.ID, attempt.ID, map[uuid.UUID]SubmittedAnswer{
		q1.ID: {SelectedChoiceID: &mismatched},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitReplacesEarlierAnswerRows(t *testing.T) {
	f := newAttemptFixture(t)
	attempt, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)

	q1, q2 := f.quiz.Questions[0], f.quiz.Questions[1]

	// Rows left behind by an interrupted earlier submission must not
	// survive a completed one.
	stale := wrongChoice(t, q1).ID
	leftovers := []models.StudentAnswer{
		{AttemptID: attempt.ID, QuestionID: q1.ID, SelectedChoiceID: &stale},
		{AttemptID: attempt.ID, QuestionID: q1.ID, SelectedChoiceID: &stale},
	}
	require.NoError(t, f.db.Create(&leftovers).Error)

	right := correctChoice(t, q1).ID
	_, err = f.svc.Submit(f.student.ID, attempt.ID, map[uuid.UUID]SubmittedAnswer{
		q1.ID: {SelectedChoiceID: &right},
	})
	require.NoError(t, err)

	rows := f.answerRows(t, attempt.ID)
	require.Len(t, rows, 2)
	seen := map[uuid.UUID]int{}
	for _, r := range rows {
		seen[r.QuestionID]++
		if r.QuestionID == q1.ID {
			require.NotNil(t, r.SelectedChoiceID)
			assert.Equal(t, right, *r.SelectedChoiceID)
			assert.True(t, r.IsCorrect)
		}
	}
	assert.Equal(t, 1, seen[q1.ID])
	assert.Equal(t, 1, seen[q2.ID])
}

func TestSubmitEssayStoredVerbatimNeverScored(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := models.Quiz{
		TeacherID:        f.teacher.ID,
		Title:            "Mixed quiz",
		PassingThreshold: 50,
		IsActive:         true,
		Questions: []models.Question{
			{
				QuestionText: "Pick one",
				QuestionType: models.QuestionMultipleChoice,
				Points:       1,
				DisplayOrder: 0,
				Choices: []models.Choice{
					{ChoiceText: "yes", IsCorrect: true},
					{ChoiceText: "no"},
				},
			},
			{
				QuestionText: "Explain your reasoning",
				QuestionType: models.QuestionEssay,
				Points:       5,
				DisplayOrder: 1,
			},
		},
	}
	require.NoError(t, f.db.Create(&quiz).Error)

	attempt, _, err := f.svc.Start(f.student.ID, quiz.ID)
	require.NoError(t, err)

	mc, essay := quiz.Questions[0], quiz.Questions[1]
	right := correctChoice(t, mc).ID
	text := "Because 2 + 2 = 4."
	got, err := f.svc.Submit(f.student.ID, attempt.ID, map[uuid.UUID]SubmittedAnswer{
		mc.ID:    {SelectedChoiceID: &right},
		essay.ID: {EssayText: &text},
	})
	require.NoError(t, err)

	// Essay points count toward the maximum but are never auto-awarded.
	assert.Equal(t, 1, got.Score)
	assert.Equal(t, 6, got.MaxPossibleScore)
	require.NotNil(t, got.Passed)
	assert.False(t, *got.Passed)

	rows := f.answerRows(t, attempt.ID)
	for _, r := range rows {
		if r.QuestionID == essay.ID {
			require.NotNil(t, r.EssayAnswerText)
			assert.Equal(t, text, *r.EssayAnswerText)
			assert.False(t, r.IsCorrect)
			assert.Zero(t, r.PointsAwarded)
		}
	}
}

func TestReviewAggregateOnlyWithoutAllowReview(t *testing.T) {
	f := newAttemptFixture(t)
	attempt, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)
	_, err = f.svc.Submit(f.student.ID, attempt.ID, nil)
	require.NoError(t, err)

	review, err := f.svc.Review(f.student.ID, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, f.quiz.Title, review.QuizTitle)
	assert.True(t, review.Attempt.IsCompleted)
	assert.Nil(t, review.Breakdown)
}

func TestReviewBreakdownWhenAllowed(t *testing.T) {
	f := newAttemptFixture(t)
	require.NoError(t, f.db.Model(&f.quiz).Update("allow_answer_review", true).Error)

	attempt, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)

	q1 := f.quiz.Questions[0]
	right := correctChoice(t, q1).ID
	_, err = f.svc.Submit(f.student.ID, attempt.ID, map[uuid.UUID]SubmittedAnswer{
		q1.ID: {SelectedChoiceID: &right},
	})
	require.NoError(t, err)

	review, err := f.svc.Review(f.student.ID, attempt.ID)
	require.NoError(t, err)
	require.Len(t, review.Breakdown, 2)
	assert.Equal(t, q1.ID, review.Breakdown[0].QuestionID)
	assert.True(t, review.Breakdown[0].IsCorrect)
	assert.Equal(t, 1, review.Breakdown[0].PointsAwarded)
	assert.Equal(t, f.quiz.Questions[1].ID, review.Breakdown[1].QuestionID)
	assert.False(t, review.Breakdown[1].IsCorrect)
}

func TestReviewBeforeSubmitRejected(t *testing.T) {
	f := newAttemptFixture(t)
	attempt, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)

	_, err = f.svc.Review(f.student.ID, attempt.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReviewForeignAttemptHidden(t *testing.T) {
	f := newAttemptFixture(t)
	attempt, _, err := f.svc.Start(f.student.ID, f.quiz.ID)
	require.NoError(t, err)
	_, err = f.svc.Submit(f.student.ID, attempt.ID, nil)
	require.NoError(t, err)

	other := seedUser(t, f.db, models.RoleStudent)
	_, err = f.svc.Review(other.ID, attempt.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Submit(other.ID, attempt.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
