package routes

import (
	"github.com/KarimShetewy/Ikhtaberni-Platform/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/request-otp", handlers.RequestOTP)
	auth.Post("/verify-otp", handlers.VerifyOTP)
	auth.Post("/reset-password", handlers.ResetPassword)
}
