package services

import (
	"testing"
	"time"

	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeVideoAccessibleWithoutSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	teacher := seedUser(t, db, models.RoleTeacher)
	student := seedUser(t, db, models.RoleStudent)

	video := models.Video{TeacherID: teacher.ID, Title: "Intro", IsFree: true, IsActive: true}
	require.NoError(t, db.Create(&video).Error)

	ok, err := svc.CanAccessVideo(student.ID, &video)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPaidVideoRequiresActiveSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	teacher := seedUser(t, db, models.RoleTeacher)
	student := seedUser(t, db, models.RoleStudent)

	video := models.Video{TeacherID: teacher.ID, Title: "Lesson 2", IsActive: true}
	require.NoError(t, db.Create(&video).Error)

	ok, err := svc.CanAccessVideo(student.ID, &video)
	require.NoError(t, err)
	assert.False(t, ok)

	seedActiveSubscription(t, db, student.ID, teacher.ID)

	ok, err = svc.CanAccessVideo(student.ID, &video)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInactiveVideoDeniedEvenWithSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	teacher := seedUser(t, db, models.RoleTeacher)
	student := seedUser(t, db, models.RoleStudent)
	seedActiveSubscription(t, db, student.ID, teacher.ID)

	video := models.Video{TeacherID: teacher.ID, Title: "Retired", IsFree: true, IsActive: true}
	require.NoError(t, db.Create(&video).Error)
	require.NoError(t, db.Model(&video).Update("is_active", false).Error)
	video.IsActive = false

	ok, err := svc.CanAccessVideo(student.ID, &video)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuizAccessFollowsSubscriptionStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	teacher := seedUser(t, db, models.RoleTeacher)
	student := seedUser(t, db, models.RoleStudent)
	quiz := seedTwoQuestionQuiz(t, db, teacher.ID)

	ok, err := svc.CanAccessQuiz(student.ID, &quiz)
	require.NoError(t, err)
	assert.False(t, ok)

	sub := seedActiveSubscription(t, db, student.ID, teacher.ID)

	ok, err = svc.CanAccessQuiz(student.ID, &quiz)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, db.Model(&sub).Update("status", models.SubscriptionExpired).Error)

	ok, err = svc.CanAccessQuiz(student.ID, &quiz)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOverdueSubscriptionDeniesAfterSweep(t *testing.T) {
	db := newTestDB(t)
	entitlements := NewEntitlementService(db)
	subs := NewSubscriptionService(db)
	teacher := seedUser(t, db, models.RoleTeacher)
	student := seedUser(t, db, models.RoleStudent)

	sub := seedActiveSubscription(t, db, student.ID, teacher.ID)
	require.NoError(t, db.Model(&sub).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	// Still active until the billing sweep runs; access checks never look
	// at the expiry timestamp themselves.
	ok, err := entitlements.HasActiveSubscription(student.ID, teacher.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	flipped, err := subs.ExpireOverdue(time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, flipped)

	ok, err = entitlements.HasActiveSubscription(student.ID, teacher.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
