package routes

import (
	"github.com/KarimShetewy/Ikhtaberni-Platform/handlers"
	"github.com/KarimShetewy/Ikhtaberni-Platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	teacherQuizzes := api.Group("/teacher/quizzes", middleware.Protected(), middleware.TeacherRequired())
	teacherQuizzes.Post("", handlers.CreateQuiz)
	teacherQuizzes.Get("", handlers.ListMyQuizzes)
	teacherQuizzes.Delete("/:quizId", handlers.DeactivateQuiz)

	quizzes := api.Group("/quizzes", middleware.Protected(), middleware.StudentRequired())
	quizzes.Get("/:quizId", handlers.GetQuizForStudent)
	quizzes.Post("/:quizId/attempts", handlers.StartAttempt)
}
