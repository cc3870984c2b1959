package handlers

import (
	"github.com/KarimShetewy/Ikhtaberni-Platform/database"
	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ListUsers(c *fiber.Ctx) error {
	var users []models.User
	query := database.DB.Order("created_at DESC")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	return c.JSON(users)
}

func DeactivateUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	result := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate user"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminCancelSubscription revokes an active subscription on behalf of the
// platform (refunds, abuse).
func AdminCancelSubscription(c *fiber.Ctx) error {
	subID, err := uuid.Parse(c.Params("subscriptionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid subscription ID format"})
	}

	if err := subscriptionService.Cancel(subID, models.SubscriptionCancelledByAdmin); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
