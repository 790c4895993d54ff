package handler

import (
	"go-catalog-admin/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes token introspection; tokens are issued offline by cmd/issue-token.
type AuthHandler struct {
	secret string
	issuer string
}

func NewAuthHandler(secret, issuer string) *AuthHandler {
	return &AuthHandler{secret: secret, issuer: issuer}
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateToken handles JWT token validation
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Token == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Token is required"})
	}

	claims, err := jwt.ValidateToken(h.secret, h.issuer, req.Token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":    claims.UserID,
			"name":  claims.Name,
			"email": claims.Email,
		},
		"privileges": claims.Privileges,
		"expires_at": claims.ExpiresAt,
	})
}

// Me returns the operator behind the current token.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	privileges, _ := c.Locals("user_privileges").([]string)
	return c.JSON(fiber.Map{
		"id":         getUserID(c),
		"name":       getUserName(c),
		"email":      getUserEmail(c),
		"privileges": privileges,
	})
}
