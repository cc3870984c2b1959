package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionService is the writer side of the subscription ledger: it
// records purchases and status transitions. The access-control core only
// ever reads the rows it maintains.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe records a paid subscription of the student to the teacher,
// together with the provider transaction reference. A second active row
// for the same pair is rejected.
func (s *SubscriptionService) Subscribe(studentID, teacherID uuid.UUID, duration time.Duration, amount float64, provider string, providerTxnID *string) (*models.Subscription, error) {
	var sub models.Subscription

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var teacher models.User
		err := tx.Where("id = ? AND role = ? AND is_active = ?", teacherID, models.RoleTeacher, true).
			First(&teacher).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: teacher", ErrNotFound)
			}
			return ErrUnavailable
		}

		var active int64
		err = tx.Model(&models.Subscription{}).
			Where("student_id = ? AND teacher_id = ? AND status = ?", studentID, teacherID, models.SubscriptionActive).
			Count(&active).Error
		if err != nil {
			return ErrUnavailable
		}
		if active > 0 {
			return fmt.Errorf("%w: subscription already active", ErrConflict)
		}

		sub = models.Subscription{
			StudentID: studentID,
			TeacherID: teacherID,
			Status:    models.SubscriptionActive,
			ExpiresAt: time.Now().Add(duration),
		}
		if err := tx.Create(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: subscription already active", ErrConflict)
			}
			return ErrUnavailable
		}

		payment := models.Payment{
			SubscriptionID: sub.ID,
			Amount:         amount,
			Provider:       provider,
			ProviderTxnID:  providerTxnID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return ErrUnavailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Cancel transitions an active subscription to the given cancelled status.
func (s *SubscriptionService) Cancel(subscriptionID uuid.UUID, status string) error {
	if status != models.SubscriptionCancelledByStudent && status != models.SubscriptionCancelledByAdmin {
		return fmt.Errorf("%w: invalid cancellation status %q", ErrInvalidInput, status)
	}

	result := s.db.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", subscriptionID, models.SubscriptionActive).
		Update("status", status)
	if result.Error != nil {
		return ErrUnavailable
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: no active subscription", ErrNotFound)
	}
	return nil
}

// ExpireOverdue flips every active subscription whose period has lapsed.
// Called from the scheduled billing job, never from the request path.
func (s *SubscriptionService) ExpireOverdue(now time.Time) (int64, error) {
	result := s.db.Model(&models.Subscription{}).
		Where("status = ? AND expires_at < ?", models.SubscriptionActive, now).
		Update("status", models.SubscriptionExpired)
	if result.Error != nil {
		return 0, ErrUnavailable
	}
	return result.RowsAffected, nil
}

// ListForStudent returns the student's subscription history, newest first.
func (s *SubscriptionService) ListForStudent(studentID uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&subs).Error
	if err != nil {
		return nil, ErrUnavailable
	}
	return subs, nil
}
