package handlers

import (
	"caoguia-api/internal/adapters/http/middleware"
	"caoguia-api/internal/core/services"
	"caoguia-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// GuideDogHandler handles guide dog endpoints
type GuideDogHandler struct {
	dogService *services.GuideDogService
	log        *logrus.Logger
}

// NewGuideDogHandler creates a new guide dog handler
func NewGuideDogHandler(dogService *services.GuideDogService, log *logrus.Logger) *GuideDogHandler {
	return &GuideDogHandler{
		dogService: dogService,
		log:        log,
	}
}

// Create registers a guide dog for the caller
// @Summary Register guide dog
// @Description PCD users own the dog directly; institutions own the dogs they register
// @Tags GuideDogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateGuideDogInput true "Guide dog data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /guide-dogs [post]
func (h *GuideDogHandler) Create(c *fiber.Ctx) error {
	var req services.CreateGuideDogInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	dog, err := h.dogService.Create(c.UserContext(), middleware.IdentityFrom(c), &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Created(c, "Guide dog registered successfully", dog)
}

// ListMine lists the caller's active guide dogs
// @Summary List my guide dogs
// @Tags GuideDogs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /guide-dogs/mine [get]
func (h *GuideDogHandler) ListMine(c *fiber.Ctx) error {
	dogs, err := h.dogService.ListMine(c.UserContext(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "", dogs)
}

// GetMine returns one of the caller's guide dogs
// @Summary Get my guide dog
// @Tags GuideDogs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Guide dog ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guide-dogs/{id} [get]
func (h *GuideDogHandler) GetMine(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid guide dog ID")
	}

	dog, err := h.dogService.GetMine(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "", dog)
}

// Update changes the descriptive data of one of the caller's guide dogs
// @Summary Update my guide dog
// @Tags GuideDogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Guide dog ID"
// @Param body body services.UpdateGuideDogInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /guide-dogs/{id} [put]
func (h *GuideDogHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid guide dog ID")
	}

	var req services.UpdateGuideDogInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	dog, err := h.dogService.UpdateMine(c.UserContext(), middleware.IdentityFrom(c), id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "Guide dog updated successfully", dog)
}

// Delete deactivates one of the caller's guide dogs
// @Summary Deactivate my guide dog
// @Tags GuideDogs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Guide dog ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guide-dogs/{id} [delete]
func (h *GuideDogHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid guide dog ID")
	}

	if err := h.dogService.DeactivateMine(c.UserContext(), middleware.IdentityFrom(c), id); err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "Guide dog deactivated successfully", nil)
}
