package handlers

import (
	"errors"

	"github.com/KarimShetewy/Ikhtaberni-Platform/notifications"
	"github.com/KarimShetewy/Ikhtaberni-Platform/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

var (
	recoveryService     *services.RecoveryService
	entitlementService  *services.EntitlementService
	quotaService        *services.QuotaService
	subscriptionService *services.SubscriptionService
	attemptService      *services.AttemptService
)

// Init wires the handler package to the shared database handle. Must run
// after database.ConnectDB.
func Init(db *gorm.DB) {
	recoveryService = services.NewRecoveryService(db, notifications.Delivery{})
	entitlementService = services.NewEntitlementService(db)
	quotaService = services.NewQuotaService(db)
	subscriptionService = services.NewSubscriptionService(db)
	attemptService = services.NewAttemptService(db, entitlementService)
}

func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	id, _ := uuid.Parse(claims["user_id"].(string))
	return id
}

// serviceError maps the core error kinds to HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidState):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
