package handlers

import (
	"errors"

	"github.com/KarimShetewy/Ikhtaberni-Platform/database"
	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/KarimShetewy/Ikhtaberni-Platform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChoiceRequest struct {
	ChoiceText string `json:"choice_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuestionRequest struct {
	QuestionText string          `json:"question_text" validate:"required"`
	QuestionType string          `json:"question_type" validate:"required,oneof=mc essay"`
	Points       int             `json:"points" validate:"omitempty,gt=0"`
	DisplayOrder int             `json:"display_order"`
	Choices      []ChoiceRequest `json:"choices" validate:"dive"`
}

type QuizRequest struct {
	Title             string            `json:"title" validate:"required"`
	Description       string            `json:"description"`
	TimeLimitMinutes  int               `json:"time_limit_minutes" validate:"omitempty,gt=0"`
	PassingThreshold  float64           `json:"passing_threshold" validate:"gte=0,lte=100"`
	AllowAnswerReview bool              `json:"allow_answer_review"`
	Questions         []QuestionRequest `json:"questions" validate:"dive"`
}

// CreateQuiz creates the quiz with its questions and choices, spending one
// unit of the teacher's free quiz quota in the same transaction.
func CreateQuiz(c *fiber.Ctx) error {
	teacherID := currentUserID(c)

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	for _, q := range req.Questions {
		if q.QuestionType == models.QuestionMultipleChoice && len(q.Choices) < 2 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Multiple-choice questions need at least two choices"})
		}
		if q.QuestionType == models.QuestionEssay && len(q.Choices) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Essay questions take no choices"})
		}
	}

	quiz := models.Quiz{
		TeacherID:         teacherID,
		Title:             req.Title,
		Description:       req.Description,
		TimeLimitMinutes:  req.TimeLimitMinutes,
		PassingThreshold:  req.PassingThreshold,
		AllowAnswerReview: req.AllowAnswerReview,
		IsActive:          true,
	}
	if quiz.TimeLimitMinutes == 0 {
		quiz.TimeLimitMinutes = 60
	}
	for i, q := range req.Questions {
		question := models.Question{
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			DisplayOrder: q.DisplayOrder,
		}
		if question.Points == 0 {
			question.Points = 1
		}
		if question.DisplayOrder == 0 {
			question.DisplayOrder = i
		}
		for _, ch := range q.Choices {
			question.Choices = append(question.Choices, models.Choice{
				ChoiceText: ch.ChoiceText,
				IsCorrect:  ch.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := quotaService.TryConsume(tx, teacherID, services.QuotaQuiz)
		if err != nil {
			return err
		}
		if !ok {
			return errQuotaExhausted
		}
		return tx.Create(&quiz).Error
	})
	if err != nil {
		if errors.Is(err, errQuotaExhausted) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Free quiz quota exhausted"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quiz"})
	}

	return c.Status(fiber.StatusCreated).JSON(quiz)
}

func ListMyQuizzes(c *fiber.Ctx) error {
	teacherID := currentUserID(c)

	var quizzes []models.Quiz
	database.DB.Preload("Questions.Choices").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&quizzes)
	return c.JSON(quizzes)
}

// GetQuizForStudent shows an entitled student the quiz and its questions.
// Choice correctness never serializes, so the payload is safe to expose.
func GetQuizForStudent(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	quizID := c.Params("quizId")

	var quiz models.Quiz
	err := database.DB.Preload("Questions.Choices").
		First(&quiz, "id = ? AND is_active = ?", quizID, true).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	allowed, err := entitlementService.CanAccessQuiz(studentID, &quiz)
	if err != nil {
		return serviceError(c, err)
	}
	if !allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "An active subscription to this teacher is required"})
	}

	return c.JSON(quiz)
}

func DeactivateQuiz(c *fiber.Ctx) error {
	teacherID := currentUserID(c)
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz ID format"})
	}

	result := database.DB.Model(&models.Quiz{}).
		Where("id = ? AND teacher_id = ?", quizID, teacherID).
		Update("is_active", false)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate quiz"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
