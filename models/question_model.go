package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionMultipleChoice = "mc"
	QuestionEssay          = "essay"
)

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizID       uuid.UUID `gorm:"not null;index" json:"quiz_id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	QuestionType string    `gorm:"size:10;not null" json:"question_type"`
	Points       int       `gorm:"not null;default:1" json:"points"`
	ImageURL     *string   `gorm:"type:text" json:"image_url,omitempty"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`

	Choices []Choice `gorm:"foreignkey:QuestionID" json:"choices,omitempty"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Choice struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuestionID uuid.UUID `gorm:"not null;index" json:"question_id"`
	ChoiceText string    `gorm:"type:text;not null" json:"choice_text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"-"`
}

func (c *Choice) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
