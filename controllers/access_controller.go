package controllers

import (
	"errors"
	"strconv"

	"academy/config"
	"academy/services"
	"academy/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AccessController struct {
	Cfg    *config.Config
	Access *services.AccessService
}

func NewAccessController(db *gorm.DB, cfg *config.Config) *AccessController {
	return &AccessController{Cfg: cfg, Access: services.NewAccessService(db)}
}

// RedeemCode exchanges a subscription code for a timed access grant.
func (ac *AccessController) RedeemCode(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var input struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Subscription code is required",
		})
	}

	access, err := ac.Access.RedeemCode(input.Code, userID, uint(courseID))
	if err != nil {
		if isRedemptionError(err) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not redeem subscription code",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Subscription activated",
		"access": fiber.Map{
			"course_id":  access.CourseID,
			"expires_at": access.ExpiresAt,
			"is_active":  access.IsActive,
		},
	})
}

// EnrollFree enrolls the caller into a zero-price course for one year.
func (ac *AccessController) EnrollFree(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	access, err := ac.Access.EnrollFree(userID, uint(courseID))
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if errors.Is(err, services.ErrCourseNotFree) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not enroll in course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Enrolled",
		"access": fiber.Map{
			"course_id":  access.CourseID,
			"expires_at": access.ExpiresAt,
			"is_active":  access.IsActive,
		},
	})
}

// CheckAccess reports the caller's current access state for a course.
func (ac *AccessController) CheckAccess(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	state, err := ac.Access.CheckAccess(userID, uint(courseID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not check course access",
		})
	}

	return c.JSON(fiber.Map{
		"course_id": courseID,
		"state":     state,
	})
}

func isRedemptionError(err error) bool {
	return errors.Is(err, services.ErrCodeNotFound) ||
		errors.Is(err, services.ErrCodeWrongCourse) ||
		errors.Is(err, services.ErrCodeInactive) ||
		errors.Is(err, services.ErrCodeExpired) ||
		errors.Is(err, services.ErrCodeExhausted)
}
