package controllers

import (
	"errors"
	"strconv"
	"time"

	"academy/config"
	"academy/models"
	"academy/services"
	"academy/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CodesController manages subscription codes. All routes are admin-gated.
type CodesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCodesController(db *gorm.DB, cfg *config.Config) *CodesController {
	return &CodesController{DB: db, Cfg: cfg}
}

func (cdc *CodesController) ListCodes(c *fiber.Ctx) error {
	var codes []models.SubscriptionCode
	if err := cdc.DB.Order("created_at DESC").Find(&codes).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	result := make([]fiber.Map, 0, len(codes))
	for _, code := range codes {
		var course models.Course
		cdc.DB.Select("title").First(&course, code.CourseID)

		result = append(result, fiber.Map{
			"id":            code.ID,
			"code":          code.Code,
			"course_id":     code.CourseID,
			"course_title":  course.Title,
			"validity_days": code.ValidityDays,
			"usage_limit":   code.UsageLimit,
			"used_count":    code.UsedCount,
			"expires_at":    code.ExpiresAt,
			"is_active":     code.IsActive,
			"created_at":    code.CreatedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

func (cdc *CodesController) CreateCode(c *fiber.Ctx) error {
	var input struct {
		CourseID     uint   `json:"course_id"`
		Code         string `json:"code"`
		ValidityDays int    `json:"validity_days"`
		UsageLimit   int    `json:"usage_limit"`
		ExpiresAt    string `json:"expires_at"` // RFC3339, optional
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.ValidityDays <= 0 || input.UsageLimit <= 0 {
		return utils.BadRequest(c, "validity_days and usage_limit must be positive")
	}

	var course models.Course
	if err := cdc.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	// Generate a code when none is supplied
	if input.Code == "" {
		input.Code = services.GenerateCode()
	}

	// Expiry defaults to the validity window from now; an explicit
	// expires_at overrides it
	var expiresAt *time.Time
	if input.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, input.ExpiresAt)
		if err != nil {
			return utils.BadRequest(c, "Invalid expires_at, expected RFC3339")
		}
		expiresAt = &parsed
	} else {
		computed := time.Now().AddDate(0, 0, input.ValidityDays)
		expiresAt = &computed
	}

	code := models.SubscriptionCode{
		CourseID:     input.CourseID,
		Code:         input.Code,
		ValidityDays: input.ValidityDays,
		UsageLimit:   input.UsageLimit,
		ExpiresAt:    expiresAt,
		IsActive:     true,
	}

	if err := cdc.DB.Create(&code).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	return utils.Success(c, fiber.StatusCreated, code)
}

func (cdc *CodesController) UpdateCode(c *fiber.Ctx) error {
	codeID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid code ID")
	}

	var input struct {
		ValidityDays int    `json:"validity_days"`
		UsageLimit   int    `json:"usage_limit"`
		ExpiresAt    string `json:"expires_at"`
		IsActive     *bool  `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var code models.SubscriptionCode
	if err := cdc.DB.First(&code, codeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Subscription code not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	if input.ValidityDays > 0 {
		code.ValidityDays = input.ValidityDays
	}
	if input.UsageLimit > 0 {
		code.UsageLimit = input.UsageLimit
	}
	if input.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, input.ExpiresAt)
		if err != nil {
			return utils.BadRequest(c, "Invalid expires_at, expected RFC3339")
		}
		code.ExpiresAt = &parsed
	} else if input.ValidityDays > 0 {
		// Changing the validity window recomputes the expiry
		computed := time.Now().AddDate(0, 0, input.ValidityDays)
		code.ExpiresAt = &computed
	}
	if input.IsActive != nil {
		code.IsActive = *input.IsActive
	}

	if err := cdc.DB.Save(&code).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	return utils.Success(c, fiber.StatusOK, code)
}

func (cdc *CodesController) DeleteCode(c *fiber.Ctx) error {
	codeID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid code ID")
	}

	result := cdc.DB.Delete(&models.SubscriptionCode{}, codeID)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Subscription code not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Code deleted"})
}

// GenerateCode returns a fresh random code without persisting it, for
// the admin creation form.
func (cdc *CodesController) GenerateCode(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, fiber.Map{"code": services.GenerateCode()})
}
