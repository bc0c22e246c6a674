package controllers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"academy/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func doUpload(t *testing.T, path, token, filename string, content []byte) (*http.Response, map[string]interface{}) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("could not create form file: %v", err)
	}
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func TestUploadAvatar(t *testing.T) {
	resp, result := doUpload(t, "/api/user/avatar", studentToken, "me.png", pngBytes)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, result["avatar_url"], "/files/avatars/")

	var reloaded models.User
	db.First(&reloaded, student.ID)
	assert.Equal(t, result["avatar_url"], reloaded.AvatarURL)
}

func TestUploadAvatarRejectsNonImage(t *testing.T) {
	resp, result := doUpload(t, "/api/user/avatar", studentToken, "resume.txt", []byte("plain text content"))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "file must be an image", result["error"])
}

func TestUploadVideoRequiresInstructor(t *testing.T) {
	webm := []byte{0x1A, 0x45, 0xDF, 0xA3}
	resp, _ := doUpload(t, "/api/instructor/videos", studentToken, "clip.webm", webm)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, result := doUpload(t, "/api/instructor/videos", instructorToken, "clip.webm", webm)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, result["url"], "/files/videos/")
}

func TestUploadVideoRejectsNonVideo(t *testing.T) {
	resp, result := doUpload(t, "/api/instructor/videos", instructorToken, "fake.mp4", pngBytes)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "file must be a video", result["error"])
}
