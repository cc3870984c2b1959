package routes

import (
	"github.com/KarimShetewy/Ikhtaberni-Platform/handlers"
	"github.com/KarimShetewy/Ikhtaberni-Platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func VideoRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	teacherVideos := api.Group("/teacher/videos", middleware.Protected(), middleware.TeacherRequired())
	teacherVideos.Post("", handlers.CreateVideo)
	teacherVideos.Get("", handlers.ListMyVideos)
	teacherVideos.Patch("/:videoId/file", handlers.SetVideoFile)
	teacherVideos.Delete("/:videoId", handlers.DeactivateVideo)

	videos := api.Group("/videos", middleware.Protected())
	videos.Get("/by-teacher/:teacherId", handlers.ListTeacherVideos)
	videos.Get("/:videoId/watch", middleware.StudentRequired(), handlers.WatchVideo)
}
