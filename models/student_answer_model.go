package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentAnswer holds one answer of one attempt. Resubmitting an attempt
// replaces its rows wholesale, so there is never more than one per question.
type StudentAnswer struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AttemptID        uuid.UUID  `gorm:"not null;index" json:"attempt_id"`
	QuestionID       uuid.UUID  `gorm:"not null" json:"question_id"`
	SelectedChoiceID *uuid.UUID `json:"selected_choice_id"`
	EssayAnswerText  *string    `gorm:"type:text" json:"essay_answer_text"`
	IsCorrect        bool       `gorm:"not null;default:false" json:"is_correct"`
	PointsAwarded    int        `gorm:"not null;default:0" json:"points_awarded"`

	Attempt  QuizAttempt `gorm:"foreignkey:AttemptID" json:"-"`
	Question Question    `gorm:"foreignkey:QuestionID" json:"-"`
}

func (a *StudentAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
