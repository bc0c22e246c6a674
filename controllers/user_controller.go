package controllers

import (
	"errors"
	"strconv"
	"strings"

	"academy/config"
	"academy/models"
	"academy/services"
	"academy/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"id":                user.ID,
		"email":             user.Email,
		"full_name":         user.FullName,
		"education_level":   user.EducationLevel,
		"role":              user.Role,
		"role_display_name": services.RoleDisplayName(user.Role),
		"avatar_url":        user.AvatarURL,
		"theme":             user.Theme,
		"created_at":        user.CreatedAt,
		"navigation":        services.NavigationFor(user.Role),
	})
}

func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var input struct {
		FullName       string `json:"full_name"`
		EducationLevel string `json:"education_level"`
		Theme          string `json:"theme"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Update fields
	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.EducationLevel != "" {
		user.EducationLevel = input.EducationLevel
	}
	if input.Theme == models.ThemeLight || input.Theme == models.ThemeDark {
		user.Theme = input.Theme
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update profile",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"profile": fiber.Map{
			"id":              user.ID,
			"full_name":       user.FullName,
			"education_level": user.EducationLevel,
			"theme":           user.Theme,
			"avatar_url":      user.AvatarURL,
		},
	})
}

// ListUsers returns all users with their enrolled course counts.
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(uc.usersWithCourseCounts(users))
}

// SearchUsers filters users by email or name.
func (uc *UserController) SearchUsers(c *fiber.Ctx) error {
	term := strings.ToLower(c.Query("q"))
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing search term",
		})
	}

	var users []models.User
	if err := uc.DB.
		Where("lower(email) LIKE ? OR lower(full_name) LIKE ?", "%"+term+"%", "%"+term+"%").
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(uc.usersWithCourseCounts(users))
}

func (uc *UserController) usersWithCourseCounts(users []models.User) []fiber.Map {
	result := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		var count int64
		uc.DB.Model(&models.CourseAccess{}).Where("user_id = ?", user.ID).Count(&count)

		result = append(result, fiber.Map{
			"id":                     user.ID,
			"email":                  user.Email,
			"full_name":              user.FullName,
			"education_level":        user.EducationLevel,
			"role":                   user.Role,
			"role_display_name":      services.RoleDisplayName(user.Role),
			"avatar_url":             user.AvatarURL,
			"created_at":             user.CreatedAt,
			"enrolled_courses_count": count,
		})
	}
	return result
}

// UpdateUserRole changes a user's role. Admin only, enforced by the
// route middleware.
func (uc *UserController) UpdateUserRole(c *fiber.Ctx) error {
	targetID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if !models.ValidRole(input.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	var user models.User
	if err := uc.DB.First(&user, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	user.Role = input.Role
	if err := uc.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update role",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Role updated",
		"user": fiber.Map{
			"id":   user.ID,
			"role": user.Role,
		},
	})
}
