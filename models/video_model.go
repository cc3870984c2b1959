package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TeacherID   uuid.UUID `gorm:"not null;index" json:"teacher_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	IsFree      bool      `gorm:"not null;default:false" json:"is_free"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	FileURL     *string   `gorm:"type:text" json:"file_url,omitempty"`

	Teacher User `gorm:"foreignkey:TeacherID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
