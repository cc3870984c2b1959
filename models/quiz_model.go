package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Quiz struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TeacherID        uuid.UUID `gorm:"not null;index" json:"teacher_id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	TimeLimitMinutes int       `gorm:"not null;default:60" json:"time_limit_minutes"`

	// PassingThreshold is the minimum score percentage for a pass.
	PassingThreshold  float64 `gorm:"not null;default:50" json:"passing_threshold"`
	AllowAnswerReview bool    `gorm:"not null;default:false" json:"allow_answer_review"`

	ShareableLinkID uuid.UUID `gorm:"type:uuid;not null;unique" json:"shareable_link_id"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`

	Teacher   User       `gorm:"foreignkey:TeacherID" json:"-"`
	Questions []Question `gorm:"foreignkey:QuizID" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.ShareableLinkID == uuid.Nil {
		q.ShareableLinkID = uuid.New()
	}
	return nil
}
