package handlers

import (
	"errors"
	"fmt"
	"time"

	config "github.com/KarimShetewy/Ikhtaberni-Platform/configs"
	"github.com/KarimShetewy/Ikhtaberni-Platform/database"
	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/KarimShetewy/Ikhtaberni-Platform/notifications"
	"github.com/KarimShetewy/Ikhtaberni-Platform/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	FullName    string  `json:"full_name" validate:"required,min=3"`
	Email       string  `json:"email" validate:"required,email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Password    string  `json:"password" validate:"required,min=8"`
	Role        string  `json:"role" validate:"required,oneof=student teacher"`
	Country     *string `json:"country,omitempty"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.PhoneNumber != nil && !utils.ValidPhoneNumber(*req.PhoneNumber) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Phone number must be 7 to 15 digits"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	newUser := models.User{
		FullName:       req.FullName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Password:       string(hashedPassword),
		Role:           req.Role,
		Country:        req.Country,
		IsActive:       true,
		FreeVideoQuota: models.DefaultFreeQuota,
		FreeQuizQuota:  models.DefaultFreeQuota,
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email or phone number already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	go notifications.SendEmail(newUser.FullName, newUser.Email, "Welcome to Ikhtaberni!",
		fmt.Sprintf("<h1>Welcome, %s!</h1><p>Your account has been created.</p>", newUser.FullName))

	response := UserResponse{
		ID:        newUser.ID.String(),
		FullName:  newUser.FullName,
		Email:     newUser.Email,
		Role:      newUser.Role,
		CreatedAt: newUser.CreatedAt,
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	result := database.DB.Where("email = ? AND is_active = ?", req.Email, true).First(&user)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": t})
}

type RecoveryIdentifier struct {
	Identifier     string `json:"identifier" validate:"required"`
	IdentifierKind string `json:"identifier_kind" validate:"required,oneof=phone email"`
}

func RequestOTP(c *fiber.Ctx) error {
	var req RecoveryIdentifier
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := recoveryService.RequestCode(req.IdentifierKind, req.Identifier); err != nil {
		return serviceError(c, err)
	}

	// Same response whether or not the identifier matched an account.
	return c.JSON(fiber.Map{
		"message": "If an account exists for this identifier, a confirmation code has been sent. It is valid for 10 minutes.",
	})
}

func VerifyOTP(c *fiber.Ctx) error {
	type Request struct {
		RecoveryIdentifier
		OTPCode string `json:"otp_code" validate:"required"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := recoveryService.VerifyCode(req.IdentifierKind, req.Identifier, req.OTPCode); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Code verified. You may now reset your password."})
}

func ResetPassword(c *fiber.Ctx) error {
	type Request struct {
		RecoveryIdentifier
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := recoveryService.ResetPassword(req.IdentifierKind, req.Identifier, req.NewPassword); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password has been reset successfully."})
}
