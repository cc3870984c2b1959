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

var errQuotaExhausted = errors.New("quota exhausted")

type VideoRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	IsFree      bool   `json:"is_free"`
}

// CreateVideo inserts the video row and spends one unit of the teacher's
// free video quota in the same transaction: if either fails, neither
// happens. The response carries the signed upload credentials for the
// actual file.
func CreateVideo(c *fiber.Ctx) error {
	teacherID := currentUserID(c)

	var req VideoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	video := models.Video{
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
		IsFree:      req.IsFree,
		IsActive:    true,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := quotaService.TryConsume(tx, teacherID, services.QuotaVideo)
		if err != nil {
			return err
		}
		if !ok {
			return errQuotaExhausted
		}
		return tx.Create(&video).Error
	})
	if err != nil {
		if errors.Is(err, errQuotaExhausted) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Free video quota exhausted"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create video"})
	}

	signature, err := buildUploadSignature(videoUploadFolder)
	if err != nil {
		// The row exists and the quota is spent; the teacher can fetch a
		// fresh signature from the uploads endpoint.
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"video": video})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"video": video, "upload": signature})
}

type VideoFileRequest struct {
	FileURL string `json:"file_url" validate:"required,url"`
}

// SetVideoFile records the uploaded file location on the teacher's video.
func SetVideoFile(c *fiber.Ctx) error {
	teacherID := currentUserID(c)
	videoID := c.Params("videoId")

	var req VideoFileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result := database.DB.Model(&models.Video{}).
		Where("id = ? AND teacher_id = ?", videoID, teacherID).
		Update("file_url", req.FileURL)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update video"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Video not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListMyVideos(c *fiber.Ctx) error {
	teacherID := currentUserID(c)

	var videos []models.Video
	database.DB.Where("teacher_id = ?", teacherID).Order("created_at DESC").Find(&videos)
	return c.JSON(videos)
}

// ListTeacherVideos is the student-facing catalog of a teacher's active
// videos: titles and free flags only, no file URLs.
func ListTeacherVideos(c *fiber.Ctx) error {
	teacherID := c.Params("teacherId")

	var videos []models.Video
	database.DB.Select("id", "teacher_id", "title", "description", "is_free", "created_at").
		Where("teacher_id = ? AND is_active = ?", teacherID, true).
		Order("created_at DESC").
		Find(&videos)
	return c.JSON(videos)
}

// WatchVideo gates the playable video behind the entitlement check.
func WatchVideo(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	videoID := c.Params("videoId")

	var video models.Video
	if err := database.DB.First(&video, "id = ?", videoID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Video not found"})
	}

	allowed, err := entitlementService.CanAccessVideo(studentID, &video)
	if err != nil {
		return serviceError(c, err)
	}
	if !allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "An active subscription to this teacher is required"})
	}

	return c.JSON(video)
}

func DeactivateVideo(c *fiber.Ctx) error {
	teacherID := currentUserID(c)
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid video ID format"})
	}

	result := database.DB.Model(&models.Video{}).
		Where("id = ? AND teacher_id = ?", videoID, teacherID).
		Update("is_active", false)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate video"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Video not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
