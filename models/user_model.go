package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// DefaultFreeQuota is the number of free creation actions a new teacher
// gets for each content kind before a paid plan is required.
const DefaultFreeQuota = 3

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName    string    `gorm:"size:255;not null" json:"full_name"`
	Email       string    `gorm:"size:255;not null;unique" json:"email"`
	PhoneNumber *string   `gorm:"size:20;unique" json:"phone_number"`
	Password    string    `gorm:"not null" json:"-"`
	Role        string    `gorm:"size:20;not null;default:'student'" json:"role"`
	Country     *string   `gorm:"size:100" json:"country"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`

	FreeVideoQuota int `gorm:"not null;default:3" json:"free_video_quota"`
	FreeQuizQuota  int `gorm:"not null;default:3" json:"free_quiz_quota"`

	// OTPCode and OTPExpiry are both nil or both set; only the recovery
	// flow writes them.
	OTPCode   *string    `gorm:"size:8" json:"-"`
	OTPExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
