package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/dto"
	"github.com/civicdesk/complaint-service/internal/service"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// AuthHandler exposes login and registration endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterCitizen handles POST /auth/citizens/register.
func (h *AuthHandler) RegisterCitizen(c *fiber.Ctx) error {
	var req dto.CitizenRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	citizen, token, exp, err := h.auth.RegisterCitizen(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"citizen": dto.CitizenResponse{ID: citizen.ID, Name: citizen.Name, Email: citizen.Email},
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginCitizen handles POST /auth/citizens/login.
func (h *AuthHandler) LoginCitizen(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}

	citizen, token, exp, err := h.auth.LoginCitizen(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"citizen": dto.CitizenResponse{ID: citizen.ID, Name: citizen.Name, Email: citizen.Email},
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginOfficer handles POST /auth/officers/login.
func (h *AuthHandler) LoginOfficer(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}

	officer, token, exp, err := h.auth.LoginOfficer(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"officer": officerResponse(*officer),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

func parseLogin(c *fiber.Ctx) (dto.LoginRequest, error) {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return req, apperrors.NewValidationError("email and password required", nil)
	}
	return req, nil
}
