package handlers

import (
	"context"

	"caoguia-api/internal/adapters/http/middleware"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/core/services"
	"caoguia-api/internal/pkg/pagination"
	"caoguia-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ValidationUseCases is what ValidationHandler needs from the approval workflow
type ValidationUseCases interface {
	List(ctx context.Context, kind domain.PrincipalKind, status domain.ApprovalStatus, params *pagination.Params) (interface{}, int64, error)
	SetStatus(ctx context.Context, actor *domain.Identity, kind domain.PrincipalKind, id uint, input *services.SetStatusInput) error
}

// ValidationHandler handles the admin approval endpoints
type ValidationHandler struct {
	validationService ValidationUseCases
	log               *logrus.Logger
}

// NewValidationHandler creates a new validation handler
func NewValidationHandler(validationService ValidationUseCases, log *logrus.Logger) *ValidationHandler {
	return &ValidationHandler{
		validationService: validationService,
		log:               log,
	}
}

// kindParam maps the route segment to a principal kind
func kindParam(c *fiber.Ctx) (domain.PrincipalKind, bool) {
	switch c.Params("kind") {
	case "users":
		return domain.KindUser, true
	case "institutions":
		return domain.KindInstitution, true
	}
	return "", false
}

// List lists registrations by approval status
// @Summary List registrations
// @Description List users or institutions in an approval status (default pending)
// @Tags Validations
// @Produce json
// @Security BearerAuth
// @Param kind path string true "users or institutions"
// @Param status query string false "pendente, aprovado or rejeitado"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} pagination.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /validations/{kind} [get]
func (h *ValidationHandler) List(c *fiber.Ctx) error {
	kind, ok := kindParam(c)
	if !ok {
		return response.NotFound(c, "Unknown registration kind")
	}

	status, err := domain.ParseApprovalStatus(c.Query("status", string(domain.StatusPending)))
	if err != nil {
		return fail(c, h.log, err)
	}

	params := pagination.GetParams(c)
	items, total, err := h.validationService.List(c.UserContext(), kind, status, params)
	if err != nil {
		return fail(c, h.log, err)
	}

	return c.JSON(pagination.NewResponse(items, params, total))
}

// SetStatus changes the approval status of a registration
// @Summary Set approval status
// @Description Approve, reject or return a registration to pending. Any transition is allowed.
// @Tags Validations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "users or institutions"
// @Param id path int true "Registration ID"
// @Param body body services.SetStatusInput true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /validations/{kind}/{id} [put]
func (h *ValidationHandler) SetStatus(c *fiber.Ctx) error {
	kind, ok := kindParam(c)
	if !ok {
		return response.NotFound(c, "Unknown registration kind")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid ID")
	}

	var req services.SetStatusInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.validationService.SetStatus(c.UserContext(), middleware.IdentityFrom(c), kind, id, &req); err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "Approval status updated", nil)
}
