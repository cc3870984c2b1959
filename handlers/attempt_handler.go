package handlers

import (
	"fmt"

	"github.com/KarimShetewy/Ikhtaberni-Platform/database"
	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/KarimShetewy/Ikhtaberni-Platform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// StartAttempt creates or resumes the student's in-progress attempt and
// returns the questions to answer, without correctness flags.
func StartAttempt(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz ID format"})
	}

	attempt, resumed, err := attemptService.Start(studentID, quizID)
	if err != nil {
		return serviceError(c, err)
	}

	var quiz models.Quiz
	if err := database.DB.Preload("Questions.Choices").First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load quiz"})
	}

	status := fiber.StatusCreated
	if resumed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(fiber.Map{
		"attempt_id":         attempt.ID,
		"resumed":            resumed,
		"quiz_title":         quiz.Title,
		"time_limit_minutes": quiz.TimeLimitMinutes,
		"started_at":         attempt.StartTime,
		"questions":          quiz.Questions,
	})
}

type SubmitAttemptRequest struct {
	// Answers maps question id to the submitted value; unlisted questions
	// count as unanswered.
	Answers map[string]services.SubmittedAnswer `json:"answers"`
}

func SubmitAttempt(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	attemptID, err := uuid.Parse(c.Params("attemptId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attempt ID format"})
	}

	var req SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	answers := make(map[uuid.UUID]services.SubmittedAnswer, len(req.Answers))
	for key, value := range req.Answers {
		questionID, err := uuid.Parse(key)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("Invalid question ID %q", key)})
		}
		answers[questionID] = value
	}

	attempt, err := attemptService.Submit(studentID, attemptID, answers)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":            "Quiz submitted successfully",
		"score":              attempt.Score,
		"max_possible_score": attempt.MaxPossibleScore,
		"passed":             attempt.Passed,
		"time_taken_seconds": attempt.TimeTakenSeconds,
	})
}

// GetAttemptResult returns the aggregate result, with the per-question
// breakdown only when the quiz allows answer review.
func GetAttemptResult(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	attemptID, err := uuid.Parse(c.Params("attemptId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attempt ID format"})
	}

	review, err := attemptService.Review(studentID, attemptID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(review)
}

// GetAttemptCertificate renders the pass certificate PDF for a completed,
// passed attempt.
func GetAttemptCertificate(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	attemptID := c.Params("attemptId")

	var attempt models.QuizAttempt
	err := database.DB.Preload("Student").Preload("Quiz.Teacher").
		First(&attempt, "id = ? AND student_id = ?", attemptID, studentID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attempt not found"})
	}
	if !attempt.IsCompleted || attempt.Passed == nil || !*attempt.Passed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No certificate for this attempt"})
	}

	percent := 100.0
	if attempt.MaxPossibleScore > 0 {
		percent = float64(attempt.Score) / float64(attempt.MaxPossibleScore) * 100
	}

	pdf, err := services.GeneratePassCertificate(
		attempt.Student.FullName,
		attempt.Quiz.Teacher.FullName,
		attempt.Quiz.Title,
		percent,
		*attempt.EndTime,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate certificate"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="certificate.pdf"`)
	return c.Send(pdf)
}
