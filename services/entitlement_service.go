package services

import (
	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntitlementService decides whether a student may access a unit of
// content. Pure reads, safe to call repeatedly and concurrently.
type EntitlementService struct {
	db *gorm.DB
}

func NewEntitlementService(db *gorm.DB) *EntitlementService {
	return &EntitlementService{db: db}
}

// CanAccessVideo allows inactive content to nobody, free videos to
// everybody, and the rest to subscribers of the owning teacher.
func (s *EntitlementService) CanAccessVideo(studentID uuid.UUID, video *models.Video) (bool, error) {
	if !video.IsActive {
		return false, nil
	}
	if video.IsFree {
		return true, nil
	}
	return s.HasActiveSubscription(studentID, video.TeacherID)
}

// CanAccessQuiz requires an active subscription; the free-tier flag does
// not apply to quizzes.
func (s *EntitlementService) CanAccessQuiz(studentID uuid.UUID, quiz *models.Quiz) (bool, error) {
	if !quiz.IsActive {
		return false, nil
	}
	return s.HasActiveSubscription(studentID, quiz.TeacherID)
}

// HasActiveSubscription reports whether any active row links the pair.
// Duplicate rows should not exist, but any one active row is sufficient.
func (s *EntitlementService) HasActiveSubscription(studentID, teacherID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Subscription{}).
		Where("student_id = ? AND teacher_id = ? AND status = ?", studentID, teacherID, models.SubscriptionActive).
		Count(&count).Error
	if err != nil {
		return false, ErrUnavailable
	}
	return count > 0, nil
}
