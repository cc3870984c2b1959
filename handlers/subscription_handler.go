package handlers

import (
	"time"

	"github.com/KarimShetewy/Ikhtaberni-Platform/database"
	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubscribeRequest struct {
	DurationDays  int     `json:"duration_days" validate:"required,gt=0"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Provider      string  `json:"provider" validate:"required"`
	ProviderTxnID *string `json:"provider_txn_id,omitempty"`
}

// SubscribeToTeacher records a paid subscription. The payment itself
// happened elsewhere; only its reference is kept.
func SubscribeToTeacher(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher ID format"})
	}

	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	duration := time.Duration(req.DurationDays) * 24 * time.Hour
	sub, err := subscriptionService.Subscribe(studentID, teacherID, duration, req.Amount, req.Provider, req.ProviderTxnID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

func ListMySubscriptions(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	subs, err := subscriptionService.ListForStudent(studentID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(subs)
}

// CancelMySubscription lets a student cancel their own active subscription.
func CancelMySubscription(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	subID, err := uuid.Parse(c.Params("subscriptionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid subscription ID format"})
	}

	var sub models.Subscription
	if err := database.DB.First(&sub, "id = ? AND student_id = ?", subID, studentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subscription not found"})
	}

	if err := subscriptionService.Cancel(subID, models.SubscriptionCancelledByStudent); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
