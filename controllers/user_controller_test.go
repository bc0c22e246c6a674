package controllers_test

import (
	"fmt"
	"testing"

	"academy/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestListUsersWithEnrollmentCounts(t *testing.T) {
	enrolled := seedUser("enrolled@example.com", models.RoleStudent)
	course := seedCourse(t, "Counted Course", 0)
	doJSON("POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), mustToken(enrolled.ID), nil)

	req := doJSONList(t, "GET", "/api/admin/users", adminToken)
	found := false
	for _, entry := range req {
		user := entry.(map[string]interface{})
		if user["email"] == "enrolled@example.com" {
			found = true
			assert.Equal(t, float64(1), user["enrolled_courses_count"])
		}
	}
	assert.True(t, found)
}

func TestSearchUsers(t *testing.T) {
	seedUser("findme-zq@example.com", models.RoleStudent)

	result := doJSONList(t, "GET", "/api/admin/users/search?q=findme-zq", adminToken)
	assert.Len(t, result, 1)
	assert.Equal(t, "findme-zq@example.com", result[0].(map[string]interface{})["email"])
}

func TestSearchUsersRequiresTerm(t *testing.T) {
	resp, _ := doJSON("GET", "/api/admin/users/search", adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListUsersForbiddenForStudent(t *testing.T) {
	resp, _ := doJSON("GET", "/api/admin/users", studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
