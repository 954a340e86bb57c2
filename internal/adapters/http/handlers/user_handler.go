package handlers

import (
	"caoguia-api/internal/adapters/http/middleware"
	"caoguia-api/internal/core/services"
	"caoguia-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UserHandler handles user account endpoints
type UserHandler struct {
	userService *services.UserService
	log         *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, log *logrus.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

// GetMe returns the calling user's account
// @Summary Get my account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user, err := h.userService.GetMe(c.UserContext(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "", user)
}

// GetByID returns a user by ID
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetByID(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "", user)
}

// Update updates a user account
// @Summary Update user
// @Description Update own account, or any account as admin
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req services.UpdateUserInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.userService.Update(c.UserContext(), middleware.IdentityFrom(c), id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "User updated successfully", user)
}

// Delete soft-deletes a user account
// @Summary Deactivate user
// @Description Deactivate own account, or any account as admin. Outstanding tokens stop working immediately.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.Deactivate(c.UserContext(), middleware.IdentityFrom(c), id); err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "User deactivated successfully", nil)
}
