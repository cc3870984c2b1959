package handlers

import (
	"net/url"
	"strconv"
	"time"

	config "github.com/KarimShetewy/Ikhtaberni-Platform/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

const videoUploadFolder = "ikhtaberni_videos"

type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	Folder    string `json:"folder"`
}

// buildUploadSignature signs direct-upload parameters so the client can
// push the file to Cloudinary without the secret ever leaving the server.
func buildUploadSignature(folder string) (*UploadSignature, error) {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return nil, err
	}

	return &UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    cld.Config.Cloud.APIKey,
		Folder:    folder,
	}, nil
}

// GenerateUploadSignature lets a teacher fetch fresh upload credentials,
// for example after the signature returned at creation time expired.
func GenerateUploadSignature(c *fiber.Ctx) error {
	signature, err := buildUploadSignature(videoUploadFolder)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}
	return c.JSON(signature)
}
