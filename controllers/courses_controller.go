package controllers

import (
	"errors"
	"strconv"

	"academy/config"
	"academy/models"
	"academy/services"
	"academy/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Access *services.AccessService
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Access: services.NewAccessService(db)}
}

func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := cc.DB.Where("is_active = ?", true).Order("created_at DESC").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":           course.ID,
			"title":        course.Title,
			"description":  course.Description,
			"price":        course.Price,
			"is_free":      course.Price == 0,
			"target_level": course.TargetLevel,
			"image_url":    course.ImageURL,
			"created_at":   course.CreatedAt,
		})
	}

	return c.JSON(result)
}

// GetCourse returns the course with its lectures and materials. Lecture
// content is included only when the caller holds valid access or may
// edit the course; otherwise the response carries locked=true.
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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

	var course models.Course
	err = cc.DB.
		Preload("Lectures", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("order_index ASC")
		}).
		Preload("Lectures.Materials", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("order_index ASC")
		}).
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Access is re-checked on every read, never cached
	state, err := cc.Access.CheckAccess(userID, uint(courseID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not check course access",
		})
	}
	unlocked := state == services.ActiveAccess || cc.canEditCourse(&course, userID)

	response := fiber.Map{
		"id":           course.ID,
		"title":        course.Title,
		"description":  course.Description,
		"price":        course.Price,
		"is_free":      course.Price == 0,
		"target_level": course.TargetLevel,
		"image_url":    course.ImageURL,
		"access_state": state,
		"locked":       !unlocked,
	}

	if unlocked {
		lectures := make([]fiber.Map, 0, len(course.Lectures))
		for _, lecture := range course.Lectures {
			materials := make([]fiber.Map, 0, len(lecture.Materials))
			for _, material := range lecture.Materials {
				materials = append(materials, fiber.Map{
					"id":               material.ID,
					"title":            material.Title,
					"type":             material.Type,
					"url":              material.URL,
					"duration_minutes": material.DurationMinutes,
					"order_index":      material.OrderIndex,
					"presentation":     services.MaterialPresentation(material),
				})
			}
			lectures = append(lectures, fiber.Map{
				"id":               lecture.ID,
				"title":            lecture.Title,
				"description":      lecture.Description,
				"duration_minutes": lecture.DurationMinutes,
				"order_index":      lecture.OrderIndex,
				"materials":        materials,
			})
		}
		response["lectures"] = lectures
	}

	return c.JSON(response)
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var input struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		TargetLevel string  `json:"target_level"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	course := models.Course{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		TargetLevel: input.TargetLevel,
		ImageURL:    input.ImageURL,
		OwnerID:     userID,
		IsActive:    true,
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course created",
		"course":  course,
	})
}

// ListOwnCourses returns the caller's courses; admins see every course.
func (cc *CoursesController) ListOwnCourses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := cc.DB.Order("created_at DESC")
	if !cc.isAdmin(userID) {
		query = query.Where("owner_id = ?", userID)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(courses)
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	course, errResp := cc.loadEditableCourse(c)
	if course == nil {
		return errResp
	}

	var input struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       *float64 `json:"price"`
		TargetLevel string   `json:"target_level"`
		ImageURL    string   `json:"image_url"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	// Update fields
	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.TargetLevel != "" {
		course.TargetLevel = input.TargetLevel
	}
	if input.ImageURL != "" {
		course.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		course.IsActive = *input.IsActive
	}

	if err := cc.DB.Save(course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course updated",
		"course":  course,
	})
}

// DeleteCourse honors the configured delete mode: soft clears is_active,
// hard removes the course with its lectures and materials.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	course, errResp := cc.loadEditableCourse(c)
	if course == nil {
		return errResp
	}

	if cc.Cfg.CourseDeleteMode == config.CourseDeleteHard {
		err := cc.DB.Transaction(func(tx *gorm.DB) error {
			var lectureIDs []uint
			if err := tx.Model(&models.Lecture{}).Where("course_id = ?", course.ID).Pluck("id", &lectureIDs).Error; err != nil {
				return err
			}
			if len(lectureIDs) > 0 {
				if err := tx.Unscoped().Where("lecture_id IN ?", lectureIDs).Delete(&models.LectureMaterial{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&models.Lecture{}).Error; err != nil {
				return err
			}
			return tx.Unscoped().Delete(course).Error
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not delete course",
			})
		}
	} else {
		course.IsActive = false
		if err := cc.DB.Save(course).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not deactivate course",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Course deleted",
	})
}

func (cc *CoursesController) AddLecture(c *fiber.Ctx) error {
	course, errResp := cc.loadEditableCourse(c)
	if course == nil {
		return errResp
	}

	var input struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	// Append to the end of the display order
	var lectureCount int64
	cc.DB.Model(&models.Lecture{}).Where("course_id = ?", course.ID).Count(&lectureCount)

	lecture := models.Lecture{
		CourseID:        course.ID,
		Title:           input.Title,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		OrderIndex:      int(lectureCount) + 1,
		IsActive:        true,
	}

	if err := cc.DB.Create(&lecture).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create lecture",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lecture added",
		"lecture": lecture,
	})
}

func (cc *CoursesController) UpdateLecture(c *fiber.Ctx) error {
	course, errResp := cc.loadEditableCourse(c)
	if course == nil {
		return errResp
	}

	lectureID, err := strconv.Atoi(c.Params("lectureId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lecture ID",
		})
	}

	var input struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		DurationMinutes int    `json:"duration_minutes"`
		OrderIndex      int    `json:"order_index"`
		IsActive        *bool  `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var lecture models.Lecture
	if err := cc.DB.Where("id = ? AND course_id = ?", lectureID, course.ID).First(&lecture).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lecture not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Update fields
	if input.Title != "" {
		lecture.Title = input.Title
	}
	if input.Description != "" {
		lecture.Description = input.Description
	}
	if input.DurationMinutes != 0 {
		lecture.DurationMinutes = input.DurationMinutes
	}
	if input.OrderIndex != 0 {
		lecture.OrderIndex = input.OrderIndex
	}
	if input.IsActive != nil {
		lecture.IsActive = *input.IsActive
	}

	if err := cc.DB.Save(&lecture).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update lecture",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lecture updated",
		"lecture": lecture,
	})
}

func (cc *CoursesController) DeleteLecture(c *fiber.Ctx) error {
	course, errResp := cc.loadEditableCourse(c)
	if course == nil {
		return errResp
	}

	lectureID, err := strconv.Atoi(c.Params("lectureId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lecture ID",
		})
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lecture_id = ?", lectureID).Delete(&models.LectureMaterial{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND course_id = ?", lectureID, course.ID).Delete(&models.Lecture{}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete lecture",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lecture deleted",
	})
}

func (cc *CoursesController) AddMaterial(c *fiber.Ctx) error {
	course, errResp := cc.loadEditableCourse(c)
	if course == nil {
		return errResp
	}

	lectureID, err := strconv.Atoi(c.Params("lectureId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lecture ID",
		})
	}

	var lecture models.Lecture
	if err := cc.DB.Where("id = ? AND course_id = ?", lectureID, course.ID).First(&lecture).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lecture not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		Title           string `json:"title"`
		Type            string `json:"type"`
		URL             string `json:"url"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var materialCount int64
	cc.DB.Model(&models.LectureMaterial{}).Where("lecture_id = ?", lectureID).Count(&materialCount)

	material := models.LectureMaterial{
		LectureID:       lecture.ID,
		Title:           input.Title,
		Type:            models.NormalizeMaterialType(input.Type),
		URL:             input.URL,
		DurationMinutes: input.DurationMinutes,
		OrderIndex:      int(materialCount) + 1,
		IsActive:        true,
	}

	if err := cc.DB.Create(&material).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create material",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Material added",
		"material": material,
	})
}

func (cc *CoursesController) UpdateMaterial(c *fiber.Ctx) error {
	course, errResp := cc.loadEditableCourse(c)
	if course == nil {
		return errResp
	}

	materialID, err := strconv.Atoi(c.Params("materialId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid material ID",
		})
	}

	var input struct {
		Title           string `json:"title"`
		Type            string `json:"type"`
		URL             string `json:"url"`
		DurationMinutes int    `json:"duration_minutes"`
		OrderIndex      int    `json:"order_index"`
		IsActive        *bool  `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var material models.LectureMaterial
	err = cc.DB.
		Joins("JOIN lectures ON lectures.id = lecture_materials.lecture_id").
		Where("lecture_materials.id = ? AND lectures.course_id = ?", materialID, course.ID).
		First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Material not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Update fields
	if input.Title != "" {
		material.Title = input.Title
	}
	if input.Type != "" {
		material.Type = models.NormalizeMaterialType(input.Type)
	}
	if input.URL != "" {
		material.URL = input.URL
	}
	if input.DurationMinutes != 0 {
		material.DurationMinutes = input.DurationMinutes
	}
	if input.OrderIndex != 0 {
		material.OrderIndex = input.OrderIndex
	}
	if input.IsActive != nil {
		material.IsActive = *input.IsActive
	}

	if err := cc.DB.Save(&material).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update material",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Material updated",
		"material": material,
	})
}

func (cc *CoursesController) DeleteMaterial(c *fiber.Ctx) error {
	course, errResp := cc.loadEditableCourse(c)
	if course == nil {
		return errResp
	}

	materialID, err := strconv.Atoi(c.Params("materialId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid material ID",
		})
	}

	var material models.LectureMaterial
	err = cc.DB.
		Joins("JOIN lectures ON lectures.id = lecture_materials.lecture_id").
		Where("lecture_materials.id = ? AND lectures.course_id = ?", materialID, course.ID).
		First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Material not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := cc.DB.Delete(&material).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete material",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Material deleted",
	})
}

// loadEditableCourse resolves the :id param and checks the caller may
// edit the course. On failure it returns (nil, alreadyWrittenResponse).
func (cc *CoursesController) loadEditableCourse(c *fiber.Ctx) (*models.Course, error) {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if !cc.canEditCourse(&course, userID) {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to edit this course",
		})
	}

	return &course, nil
}

func (cc *CoursesController) canEditCourse(course *models.Course, userID uint) bool {
	return course.OwnerID == userID || cc.isAdmin(userID)
}

func (cc *CoursesController) isAdmin(userID uint) bool {
	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return false
	}
	return services.CanManageUsers(user.Role)
}
