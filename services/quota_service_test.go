package services

import (
	"errors"
	"testing"

	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTryConsumeSpendsDownToZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(db)
	teacher := seedUser(t, db, models.RoleTeacher)

	for i := 0; i < models.DefaultFreeQuota; i++ {
		ok, err := svc.TryConsume(nil, teacher.ID, QuotaVideo)
		require.NoError(t, err)
		assert.True(t, ok, "consume %d should succeed", i+1)
	}

	ok, err := svc.TryConsume(nil, teacher.ID, QuotaVideo)
	require.NoError(t, err)
	assert.False(t, ok)

	got := reloadUser(t, db, teacher.Email)
	assert.Equal(t, 0, got.FreeVideoQuota)
}

func TestTryConsumeCountersAreIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(db)
	teacher := seedUser(t, db, models.RoleTeacher)

	ok, err := svc.TryConsume(nil, teacher.ID, QuotaQuiz)
	require.NoError(t, err)
	require.True(t, ok)

	got := reloadUser(t, db, teacher.Email)
	assert.Equal(t, models.DefaultFreeQuota-1, got.FreeQuizQuota)
	assert.Equal(t, models.DefaultFreeQuota, got.FreeVideoQuota)
}

func TestTryConsumeRejectsNonTeacher(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(db)
	student := seedUser(t, db, models.RoleStudent)

	ok, err := svc.TryConsume(nil, student.ID, QuotaVideo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTryConsumeUnknownKind(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(db)
	teacher := seedUser(t, db, models.RoleTeacher)

	_, err := svc.TryConsume(nil, teacher.ID, QuotaKind("podcast"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuotaRollsBackWithFailedCreation(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(db)
	teacher := seedUser(t, db, models.RoleTeacher)

	boom := errors.New("insert failed")
	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := svc.TryConsume(tx, teacher.ID, QuotaVideo)
		require.NoError(t, err)
		require.True(t, ok)

		video := models.Video{TeacherID: teacher.ID, Title: "Doomed", IsActive: true}
		require.NoError(t, tx.Create(&video).Error)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got := reloadUser(t, db, teacher.Email)
	assert.Equal(t, models.DefaultFreeQuota, got.FreeVideoQuota)

	var videos int64
	require.NoError(t, db.Model(&models.Video{}).Count(&videos).Error)
	assert.Zero(t, videos)
}

func TestExhaustedQuotaBlocksCreation(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(db)
	teacher := seedUser(t, db, models.RoleTeacher)
	require.NoError(t, db.Model(&teacher).Update("free_quiz_quota", 0).Error)

	quotaSpent := errors.New("quota spent")
	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := svc.TryConsume(tx, teacher.ID, QuotaQuiz)
		require.NoError(t, err)
		if !ok {
			return quotaSpent
		}
		return tx.Create(&models.Quiz{TeacherID: teacher.ID, Title: "Blocked", IsActive: true}).Error
	})
	require.ErrorIs(t, err, quotaSpent)

	var quizzes int64
	require.NoError(t, db.Model(&models.Quiz{}).Count(&quizzes).Error)
	assert.Zero(t, quizzes)
}
