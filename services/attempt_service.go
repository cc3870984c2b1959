package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmittedAnswer is one entry of the typed answer map a student submits:
// a choice id for multiple-choice questions, raw text for essay questions.
type SubmittedAnswer struct {
	SelectedChoiceID *uuid.UUID `json:"selected_choice_id"`
	EssayText        *string    `json:"essay_text"`
}

// AnswerBreakdown is the per-question view of a completed attempt.
type AnswerBreakdown struct {
	QuestionID       uuid.UUID  `json:"question_id"`
	QuestionText     string     `json:"question_text"`
	QuestionType     string     `json:"question_type"`
	Points           int        `json:"points"`
	SelectedChoiceID *uuid.UUID `json:"selected_choice_id"`
	EssayAnswerText  *string    `json:"essay_answer_text"`
	IsCorrect        bool       `json:"is_correct"`
	PointsAwarded    int        `json:"points_awarded"`
}

// AttemptReview carries the aggregate result, plus the per-question
// breakdown when the quiz permits answer review.
type AttemptReview struct {
	Attempt   models.QuizAttempt `json:"attempt"`
	QuizTitle string             `json:"quiz_title"`
	Breakdown []AnswerBreakdown  `json:"breakdown,omitempty"`
}

// AttemptService runs the quiz attempt state machine: Start creates or
// resumes the single in-progress attempt for a (student, quiz) pair,
// Submit scores it and completes it exactly once, Review exposes results.
type AttemptService struct {
	db           *gorm.DB
	entitlements *EntitlementService
}

func NewAttemptService(db *gorm.DB, entitlements *EntitlementService) *AttemptService {
	return &AttemptService{db: db, entitlements: entitlements}
}

// Start returns the student's in-progress attempt for the quiz, creating
// one if none exists. Entitlement is checked only when creating: a lapsed
// subscription does not evict a student from an attempt already underway.
// The second return value reports whether an existing attempt was resumed.
func (s *AttemptService) Start(studentID, quizID uuid.UUID) (*models.QuizAttempt, bool, error) {
	var attempt models.QuizAttempt
	resumed := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		err := tx.Where("id = ? AND is_active = ?", quizID, true).First(&quiz).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: quiz", ErrNotFound)
			}
			return ErrUnavailable
		}

		err = tx.Where("student_id = ? AND quiz_id = ? AND is_completed = ?", studentID, quizID, false).
			First(&attempt).Error
		if err == nil {
			resumed = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnavailable
		}

		allowed, err := s.entitlements.CanAccessQuiz(studentID, &quiz)
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("%w: no access to this quiz", ErrUnauthorized)
		}

		attempt = models.QuizAttempt{
			StudentID: studentID,
			QuizID:    quizID,
			StartTime: time.Now(),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: attempt already in progress", ErrConflict)
			}
			return ErrUnavailable
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &attempt, resumed, nil
}

// Submit scores the in-progress attempt against the quiz catalog and
// completes it. Earlier answers for the attempt are replaced wholesale, so
// a resubmission leaves exactly one answer row per question. The attempt
// row is closed with a guarded update; whichever of two racing submissions
// loses sees the attempt already completed.
func (s *AttemptService) Submit(studentID, attemptID uuid.UUID, answers map[uuid.UUID]SubmittedAnswer) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND student_id = ?", attemptID, studentID).First(&attempt).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: attempt", ErrNotFound)
			}
			return ErrUnavailable
		}
		if attempt.IsCompleted {
			return fmt.Errorf("%w: attempt already submitted", ErrInvalidState)
		}

		var quiz models.Quiz
		if err := tx.First(&quiz, "id = ?", attempt.QuizID).Error; err != nil {
			return ErrUnavailable
		}

		var questions []models.Question
		err = tx.Preload("Choices").
			Where("quiz_id = ?", attempt.QuizID).
			Order("display_order ASC").
			Find(&questions).Error
		if err != nil {
			return ErrUnavailable
		}

		if err := validateAnswers(questions, answers); err != nil {
			return err
		}

		score, maxScore := 0, 0
		records := make([]models.StudentAnswer, 0, len(questions))
		for _, q := range questions {
			maxScore += q.Points
			record := models.StudentAnswer{
				AttemptID:  attempt.ID,
				QuestionID: q.ID,
			}

			sub, answered := answers[q.ID]
			switch q.QuestionType {
			case models.QuestionMultipleChoice:
				if answered && sub.SelectedChoiceID != nil {
					record.SelectedChoiceID = sub.SelectedChoiceID
					record.IsCorrect = choiceIsCorrect(q.Choices, *sub.SelectedChoiceID)
					if record.IsCorrect {
						record.PointsAwarded = q.Points
						score += q.Points
					}
				}
			case models.QuestionEssay:
				// Stored verbatim, never auto-scored.
				if answered {
					record.EssayAnswerText = sub.EssayText
				}
			}
			records = append(records, record)
		}

		now := time.Now()
		taken := int(now.Sub(attempt.StartTime).Seconds())
		passed := maxScore == 0 ||
			float64(score)/float64(maxScore)*100 >= quiz.PassingThreshold

		result := tx.Model(&models.QuizAttempt{}).
			Where("id = ? AND is_completed = ?", attempt.ID, false).
			Updates(map[string]interface{}{
				"end_time":           now,
				"score":              score,
				"max_possible_score": maxScore,
				"time_taken_seconds": taken,
				"is_completed":       true,
				"passed":             passed,
			})
		if result.Error != nil {
			return ErrUnavailable
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: attempt already submitted", ErrInvalidState)
		}

		if err := tx.Where("attempt_id = ?", attempt.ID).Delete(&models.StudentAnswer{}).Error; err != nil {
			return ErrUnavailable
		}
		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return ErrUnavailable
			}
		}

		attempt.EndTime = &now
		attempt.Score = score
		attempt.MaxPossibleScore = maxScore
		attempt.TimeTakenSeconds = &taken
		attempt.IsCompleted = true
		attempt.Passed = &passed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// validateAnswers rejects the whole submission before any scoring when it
// references questions outside the quiz or choices outside their question.
func validateAnswers(questions []models.Question, answers map[uuid.UUID]SubmittedAnswer) error {
	byID := make(map[uuid.UUID]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	for qid, sub := range answers {
		q, ok := byID[qid]
		if !ok {
			return fmt.Errorf("%w: question %s is not part of this quiz", ErrInvalidInput, qid)
		}
		if sub.SelectedChoiceID != nil {
			if q.QuestionType != models.QuestionMultipleChoice {
				return fmt.Errorf("%w: question %s takes no choice", ErrInvalidInput, qid)
			}
			if !choiceBelongs(q.Choices, *sub.SelectedChoiceID) {
				return fmt.Errorf("%w: choice does not belong to question %s", ErrInvalidInput, qid)
			}
		}
	}
	return nil
}

func choiceBelongs(choices []models.Choice, id uuid.UUID) bool {
	for _, c := range choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

func choiceIsCorrect(choices []models.Choice, id uuid.UUID) bool {
	for _, c := range choices {
		if c.ID == id {
			return c.IsCorrect
		}
	}
	return false
}

// Review returns the aggregate result of a completed attempt, including
// the per-question breakdown only when the owning quiz allows it.
func (s *AttemptService) Review(studentID, attemptID uuid.UUID) (*AttemptReview, error) {
	var attempt models.QuizAttempt
	err := s.db.Where("id = ? AND student_id = ?", attemptID, studentID).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: attempt", ErrNotFound)
		}
		return nil, ErrUnavailable
	}
	if !attempt.IsCompleted {
		return nil, fmt.Errorf("%w: attempt not submitted yet", ErrInvalidState)
	}

	var quiz models.Quiz
	if err := s.db.First(&quiz, "id = ?", attempt.QuizID).Error; err != nil {
		return nil, ErrUnavailable
	}

	review := &AttemptReview{Attempt: attempt, QuizTitle: quiz.Title}
	if !quiz.AllowAnswerReview {
		return review, nil
	}

	var records []models.StudentAnswer
	err = s.db.Preload("Question").Where("attempt_id = ?", attempt.ID).Find(&records).Error
	if err != nil {
		return nil, ErrUnavailable
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Question.DisplayOrder < records[j].Question.DisplayOrder
	})

	review.Breakdown = make([]AnswerBreakdown, 0, len(records))
	for _, r := range records {
		review.Breakdown = append(review.Breakdown, AnswerBreakdown{
			QuestionID:       r.QuestionID,
			QuestionText:     r.Question.QuestionText,
			QuestionType:     r.Question.QuestionType,
			Points:           r.Question.Points,
			SelectedChoiceID: r.SelectedChoiceID,
			EssayAnswerText:  r.EssayAnswerText,
			IsCorrect:        r.IsCorrect,
			PointsAwarded:    r.PointsAwarded,
		})
	}
	return review, nil
}
