package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-labs/support-insights/internal/api/dto"
	"github.com/helpdesk-labs/support-insights/internal/service"
	apperrors "github.com/helpdesk-labs/support-insights/pkg/util/errorutil"
)

// AuthHandler issues staff tokens.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// IssueToken POST /auth/token.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	grant, err := h.service.IssueToken(c.UserContext(), req.AgentID, req.Role, req.APIKey)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.TokenResponse{
		AccessToken: grant.Token,
		TokenType:   "Bearer",
		ExpiresAt:   grant.ExpiresAt,
		StaffID:     grant.Staff.ID,
		Role:        grant.Staff.Role,
	}})
}
