package handlers

import (
	"context"
	"strings"

	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/core/services"
	"caoguia-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthUseCases is what AuthHandler needs from the auth service
type AuthUseCases interface {
	Login(ctx context.Context, kind domain.PrincipalKind, email, secret string) (*services.LoginResult, error)
	RegisterUser(ctx context.Context, input *services.RegisterUserInput) (*models.UserResponse, error)
	RegisterInstitution(ctx context.Context, input *services.RegisterInstitutionInput) (*models.InstitutionResponse, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthUseCases
	log         *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthUseCases, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
	// Kind is "user" (default) or "institution"
	Kind string `json:"tipo" validate:"omitempty,oneof=user institution"`
}

// Login handles login for any principal kind
// @Summary Login
// @Description Authenticate a user, admin or institution and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	kind := domain.KindUser
	if req.Kind != "" {
		parsed, err := domain.ParsePrincipalKind(req.Kind)
		if err != nil {
			return response.BadRequest(c, "Invalid login kind")
		}
		kind = parsed
	}

	return h.login(c, kind, req.Email, req.Senha)
}

// LoginInstitution handles institution login
// @Summary Login institution
// @Description Authenticate an approved institution and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login-institution [post]
func (h *AuthHandler) LoginInstitution(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	return h.login(c, domain.KindInstitution, req.Email, req.Senha)
}

func (h *AuthHandler) login(c *fiber.Ctx, kind domain.PrincipalKind, email, secret string) error {
	result, err := h.authService.Login(c.UserContext(), kind, strings.TrimSpace(email), secret)
	if err != nil {
		return fail(c, h.log, err)
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       result.Identity,
	})
}

// Register handles PCD user registration
// @Summary Register user
// @Description Register a new PCD user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterUserInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterUserInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Nome = strings.TrimSpace(req.Nome)

	user, err := h.authService.RegisterUser(c.UserContext(), &req)
	if err != nil {
		return fail(c, h.log, err)
	}

	return response.Created(c, "User registered successfully", user)
}

// RegisterInstitution handles institution registration
// @Summary Register institution
// @Description Register a new institution; it must be approved by an admin before it can log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInstitutionInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register-institution [post]
func (h *AuthHandler) RegisterInstitution(c *fiber.Ctx) error {
	var req services.RegisterInstitutionInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.Email = strings.TrimSpace(req.Email)
	req.RazaoSocial = strings.TrimSpace(req.RazaoSocial)

	institution, err := h.authService.RegisterInstitution(c.UserContext(), &req)
	if err != nil {
		return fail(c, h.log, err)
	}

	return response.Created(c, "Institution registered, pending approval", institution)
}
