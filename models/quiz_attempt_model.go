package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizAttempt is one student's timed engagement with one quiz. At most one
// incomplete attempt may exist per (student, quiz) pair; once completed the
// row never changes again.
type QuizAttempt struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudentID uuid.UUID  `gorm:"not null;index" json:"student_id"`
	QuizID    uuid.UUID  `gorm:"not null;index" json:"quiz_id"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	Score            int   `gorm:"not null;default:0" json:"score"`
	MaxPossibleScore int   `gorm:"not null;default:0" json:"max_possible_score"`
	TimeTakenSeconds *int  `json:"time_taken_seconds"`
	IsCompleted      bool  `gorm:"not null;default:false" json:"is_completed"`
	Passed           *bool `json:"passed"`

	Student User `gorm:"foreignkey:StudentID" json:"-"`
	Quiz    Quiz `gorm:"foreignkey:QuizID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
