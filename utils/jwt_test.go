package utils

import (
	"net/http/httptest"
	"testing"

	"academy/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func extractVia(t *testing.T, cfg *config.Config, header string) (uint, error) {
	var gotID uint
	var gotErr error

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		gotID, gotErr = ExtractUserIDFromToken(c, cfg)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if _, err := app.Test(req, -1); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return gotID, gotErr
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	token, err := GenerateJWTToken(42, cfg)
	assert.NoError(t, err)

	userID, err := extractVia(t, cfg, token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestExtractRejectsMissingToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	_, err := extractVia(t, cfg, "")
	assert.Error(t, err)
}

func TestExtractRejectsForeignSecret(t *testing.T) {
	token, err := GenerateJWTToken(42, &config.Config{JWTSecret: "othersecret"})
	assert.NoError(t, err)

	_, err = extractVia(t, &config.Config{JWTSecret: "testsecret"}, token)
	assert.Error(t, err)
}
