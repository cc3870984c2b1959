package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionActive             = "active"
	SubscriptionExpired            = "expired"
	SubscriptionCancelledByStudent = "cancelled_by_student"
	SubscriptionCancelledByAdmin   = "cancelled_by_admin"
)

// Subscription links a student to a teacher's paid content. At most one
// active row may exist per (student, teacher) pair; status transitions are
// owned by the billing side, the access-control core only reads them.
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudentID uuid.UUID `gorm:"not null;index" json:"student_id"`
	TeacherID uuid.UUID `gorm:"not null;index" json:"teacher_id"`
	Status    string    `gorm:"size:30;not null;default:'active'" json:"status"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	Student User `gorm:"foreignkey:StudentID" json:"-"`
	Teacher User `gorm:"foreignkey:TeacherID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
