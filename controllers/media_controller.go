package controllers

import (
	"errors"

	"academy/config"
	"academy/models"
	"academy/services"
	"academy/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MediaController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Storage *services.StorageService
}

func NewMediaController(db *gorm.DB, cfg *config.Config, storage *services.StorageService) *MediaController {
	return &MediaController{DB: db, Cfg: cfg, Storage: storage}
}

// UploadAvatar stores a profile image and updates the caller's profile.
func (mc *MediaController) UploadAvatar(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, mc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	url, err := mc.Storage.SaveAvatar(userID, file)
	if err != nil {
		if isUploadValidationError(err) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not store avatar",
		})
	}

	if err := mc.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("avatar_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update profile",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "Avatar uploaded",
		"avatar_url": url,
	})
}

// UploadVideo stores a lecture video and returns its public URL for use
// as a material URL. Instructor-gated by the route middleware.
func (mc *MediaController) UploadVideo(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, mc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	url, err := mc.Storage.SaveVideo(userID, file)
	if err != nil {
		if isUploadValidationError(err) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not store video",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Video uploaded",
		"url":     url,
	})
}

// UploadMaterial stores a generic lecture attachment.
func (mc *MediaController) UploadMaterial(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, mc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	url, err := mc.Storage.SaveMaterial(userID, file)
	if err != nil {
		if isUploadValidationError(err) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not store file",
		})
	}

	return c.JSON(fiber.Map{
		"message": "File uploaded",
		"url":     url,
	})
}

func isUploadValidationError(err error) bool {
	return errors.Is(err, services.ErrFileTooLarge) ||
		errors.Is(err, services.ErrNotAnImage) ||
		errors.Is(err, services.ErrNotAVideo) ||
		errors.Is(err, services.ErrTypeNotAllowed) ||
		errors.Is(err, services.ErrMissingFileName)
}
