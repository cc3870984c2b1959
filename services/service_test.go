package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database, one per test, with the
// full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Payment{},
		&models.Video{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.QuizAttempt{},
		&models.StudentAnswer{},
	)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()

	phone := randomPhone()
	user := models.User{
		FullName:       "Test " + role,
		Email:          fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		PhoneNumber:    &phone,
		Password:       "$2a$10$placeholderhashplaceholderhashplaceh",
		Role:           role,
		FreeVideoQuota: models.DefaultFreeQuota,
		FreeQuizQuota:  models.DefaultFreeQuota,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func randomPhone() string {
	return "20" + fmt.Sprintf("%010d", time.Now().UnixNano()%1e10)
}

func seedActiveSubscription(t *testing.T, db *gorm.DB, studentID, teacherID uuid.UUID) models.Subscription {
	t.Helper()

	sub := models.Subscription{
		StudentID: studentID,
		TeacherID: teacherID,
		Status:    models.SubscriptionActive,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&sub).Error)
	return sub
}

// seedTwoQuestionQuiz creates an active quiz with two single-point
// multiple-choice questions whose first choice is the correct one.
func seedTwoQuestionQuiz(t *testing.T, db *gorm.DB, teacherID uuid.UUID) models.Quiz {
	t.Helper()

	quiz := models.Quiz{
		TeacherID:        teacherID,
		Title:            "Unit 1 checkpoint",
		TimeLimitMinutes: 30,
		PassingThreshold: 50,
		IsActive:         true,
		Questions: []models.Question{
			{
				QuestionText: "2 + 2 = ?",
				QuestionType: models.QuestionMultipleChoice,
				Points:       1,
				DisplayOrder: 0,
				Choices: []models.Choice{
					{ChoiceText: "4", IsCorrect: true},
					{ChoiceText: "5"},
				},
			},
			{
				QuestionText: "Capital of Egypt?",
				QuestionType: models.QuestionMultipleChoice,
				Points:       1,
				DisplayOrder: 1,
				Choices: []models.Choice{
					{ChoiceText: "Cairo", IsCorrect: true},
					{ChoiceText: "Giza"},
				},
			},
		},
	}
	require.NoError(t, db.Create(&quiz).Error)
	return quiz
}

func correctChoice(t *testing.T, q models.Question) models.Choice {
	t.Helper()
	for _, c := range q.Choices {
		if c.IsCorrect {
			return c
		}
	}
	t.Fatalf("question %s has no correct choice", q.ID)
	return models.Choice{}
}

func wrongChoice(t *testing.T, q models.Question) models.Choice {
	t.Helper()
	for _, c := range q.Choices {
		if !c.IsCorrect {
			return c
		}
	}
	t.Fatalf("question %s has no wrong choice", q.ID)
	return models.Choice{}
}
