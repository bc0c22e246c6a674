package controllers_test

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"academy/config"
	"academy/models"
	"academy/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateCourseAsInstructor(t *testing.T) {
	resp, result := doJSON("POST", "/api/instructor/courses", instructorToken, map[string]interface{}{
		"title":        "HTTP From Scratch",
		"description":  "Build a web server",
		"price":        0,
		"target_level": "university",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Course created", result["message"])

	course := result["course"].(map[string]interface{})
	assert.Equal(t, "HTTP From Scratch", course["Title"])
}

func TestCreateCourseForbiddenForStudent(t *testing.T) {
	resp, _ := doJSON("POST", "/api/instructor/courses", studentToken, map[string]interface{}{
		"title": "Sneaky Course",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCourseContentLockedWithoutAccess(t *testing.T) {
	course := seedCourse(t, "Locked Course", 30)
	lecture := models.Lecture{CourseID: course.ID, Title: "Secret Lecture", OrderIndex: 1, IsActive: true}
	db.Create(&lecture)

	resp, result := doJSON("GET", fmt.Sprintf("/api/courses/%d", course.ID), studentToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, result["locked"])
	assert.Nil(t, result["lectures"])
}

func TestCourseContentUnlockedAfterEnroll(t *testing.T) {
	course := seedCourse(t, "Unlockable Course", 0)
	lecture := models.Lecture{CourseID: course.ID, Title: "Lecture One", OrderIndex: 1, IsActive: true}
	db.Create(&lecture)
	material := models.LectureMaterial{
		LectureID:  lecture.ID,
		Title:      "Intro Video",
		Type:       models.MaterialVideo,
		URL:        "https://youtu.be/dQw4w9WgXcQ",
		OrderIndex: 1,
		IsActive:   true,
	}
	db.Create(&material)

	doJSON("POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), studentToken, nil)

	resp, result := doJSON("GET", fmt.Sprintf("/api/courses/%d", course.ID), studentToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, result["locked"])

	lectures := result["lectures"].([]interface{})
	assert.Len(t, lectures, 1)

	materials := lectures[0].(map[string]interface{})["materials"].([]interface{})
	assert.Len(t, materials, 1)

	presentation := materials[0].(map[string]interface{})["presentation"].(map[string]interface{})
	assert.Equal(t, "youtube", presentation["kind"])
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", presentation["embed_url"])
}

func TestOwnerSeesOwnCourseContent(t *testing.T) {
	course := seedCourse(t, "Owner Course", 50)

	resp, result := doJSON("GET", fmt.Sprintf("/api/courses/%d", course.ID), instructorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, result["locked"])
}

func TestAddLectureAndMaterial(t *testing.T) {
	course := seedCourse(t, "Authoring Course", 40)

	resp, result := doJSON("POST", fmt.Sprintf("/api/instructor/courses/%d/lectures", course.ID), instructorToken, map[string]interface{}{
		"title":            "First Lecture",
		"description":      "Basics",
		"duration_minutes": 45,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	lecture := result["lecture"].(map[string]interface{})
	assert.Equal(t, float64(1), lecture["OrderIndex"])
	lectureID := int(lecture["ID"].(float64))

	resp, result = doJSON("POST",
		fmt.Sprintf("/api/instructor/courses/%d/lectures/%d/materials", course.ID, lectureID),
		instructorToken,
		map[string]interface{}{
			"title": "Slides",
			"type":  "holograph",
			"url":   "https://example.com/slides",
		})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Unrecognized types are stored as generic files
	material := result["material"].(map[string]interface{})
	assert.Equal(t, "file", material["Type"])
}

func TestLectureCRUDForbiddenForOtherInstructor(t *testing.T) {
	course := seedCourse(t, "Someone Elses Course", 40)
	intruder := seedUser("intruder@example.com", models.RoleInstructor)
	intruderToken := mustToken(intruder.ID)

	resp, _ := doJSON("POST", fmt.Sprintf("/api/instructor/courses/%d/lectures", course.ID), intruderToken, map[string]interface{}{
		"title": "Hijacked Lecture",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminCanEditAnyCourse(t *testing.T) {
	course := seedCourse(t, "Admin Editable", 40)

	resp, _ := doJSON("PUT", fmt.Sprintf("/api/instructor/courses/%d", course.ID), adminToken, map[string]interface{}{
		"title": "Renamed By Admin",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Course
	db.First(&reloaded, course.ID)
	assert.Equal(t, "Renamed By Admin", reloaded.Title)
}

func TestSoftDeleteCourse(t *testing.T) {
	course := seedCourse(t, "Soft Deleted", 40)

	resp, _ := doJSON("DELETE", fmt.Sprintf("/api/instructor/courses/%d", course.ID), instructorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Soft mode keeps the row and clears the active flag
	var reloaded models.Course
	assert.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestHardDeleteCourseRemovesContent(t *testing.T) {
	hardCfg := *cfg
	hardCfg.CourseDeleteMode = config.CourseDeleteHard
	hardApp := fiber.New()
	routes.SetupRoutes(hardApp, db, &hardCfg)

	course := seedCourse(t, "Hard Deleted", 40)
	lecture := models.Lecture{CourseID: course.ID, Title: "Doomed Lecture", OrderIndex: 1, IsActive: true}
	db.Create(&lecture)
	material := models.LectureMaterial{
		LectureID:  lecture.ID,
		Title:      "Doomed Handout",
		Type:       models.MaterialFile,
		URL:        "https://example.com/handout.pdf",
		OrderIndex: 1,
		IsActive:   true,
	}
	db.Create(&material)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/instructor/courses/%d", course.ID), nil)
	req.Header.Set("Authorization", instructorToken)
	resp, err := hardApp.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Hard mode removes the rows outright, lectures and materials included
	var count int64
	db.Unscoped().Model(&models.Course{}).Where("id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Unscoped().Model(&models.Lecture{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Unscoped().Model(&models.LectureMaterial{}).Where("lecture_id = ?", lecture.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListCoursesSkipsInactive(t *testing.T) {
	active := seedCourse(t, "Visible Course", 0)
	inactive := seedCourse(t, "Hidden Course", 0)
	db.Model(&inactive).Update("is_active", false)

	req, _ := doJSON("GET", "/api/courses", studentToken, nil)
	assert.Equal(t, fiber.StatusOK, req.StatusCode)

	resp, _ := doJSON("GET", fmt.Sprintf("/api/courses/%d", active.ID), studentToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUpdateUserRoleAsAdmin(t *testing.T) {
	target := seedUser("promote-me@example.com", models.RoleStudent)

	resp, _ := doJSON("PUT", fmt.Sprintf("/api/admin/users/%d/role", target.ID), adminToken, map[string]string{
		"role": "instructor",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.User
	db.First(&reloaded, target.ID)
	assert.Equal(t, models.RoleInstructor, reloaded.Role)
}

func TestUpdateUserRoleRejectsUnknownRole(t *testing.T) {
	target := seedUser("bad-role@example.com", models.RoleStudent)

	resp, _ := doJSON("PUT", fmt.Sprintf("/api/admin/users/%d/role", target.ID), adminToken, map[string]string{
		"role": "superuser",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateUserRoleForbiddenForInstructor(t *testing.T) {
	target := seedUser("untouchable@example.com", models.RoleStudent)

	resp, _ := doJSON("PUT", fmt.Sprintf("/api/admin/users/%d/role", target.ID), instructorToken, map[string]string{
		"role": "admin",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
