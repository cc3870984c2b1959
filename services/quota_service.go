package services

import (
	"fmt"

	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotaKind string

const (
	QuotaVideo QuotaKind = "video"
	QuotaQuiz  QuotaKind = "quiz"
)

// QuotaService spends a teacher's free creation counters. TryConsume must
// run inside the same transaction as the creation it gates, so the
// decrement and the insert commit or roll back together.
type QuotaService struct {
	db *gorm.DB
}

func NewQuotaService(db *gorm.DB) *QuotaService {
	return &QuotaService{db: db}
}

// TryConsume decrements the teacher's counter for kind by one. Returns
// false without mutating anything when the counter is already zero. Pass
// the enclosing transaction as tx; nil falls back to the service handle.
func (s *QuotaService) TryConsume(tx *gorm.DB, teacherID uuid.UUID, kind QuotaKind) (bool, error) {
	var column string
	switch kind {
	case QuotaVideo:
		column = "free_video_quota"
	case QuotaQuiz:
		column = "free_quiz_quota"
	default:
		return false, fmt.Errorf("%w: unknown quota kind %q", ErrInvalidInput, kind)
	}

	if tx == nil {
		tx = s.db
	}

	result := tx.Model(&models.User{}).
		Where("id = ? AND role = ? AND "+column+" > 0", teacherID, models.RoleTeacher).
		UpdateColumn(column, gorm.Expr(column+" - 1"))
	if result.Error != nil {
		return false, ErrUnavailable
	}
	return result.RowsAffected > 0, nil
}
