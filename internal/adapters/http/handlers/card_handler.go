package handlers

import (
	"caoguia-api/internal/adapters/http/middleware"
	"caoguia-api/internal/core/services"
	"caoguia-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CardHandler handles guide dog identity card endpoints
type CardHandler struct {
	cardService *services.CardService
	log         *logrus.Logger
}

// NewCardHandler creates a new card handler
func NewCardHandler(cardService *services.CardService, log *logrus.Logger) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		log:         log,
	}
}

// Generate issues the identity card of one of the caller's dogs
// @Summary Issue guide dog card
// @Tags Cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.GenerateCardInput true "Guide dog"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /cards [post]
func (h *CardHandler) Generate(c *fiber.Ctx) error {
	var req services.GenerateCardInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	card, err := h.cardService.Generate(c.UserContext(), middleware.IdentityFrom(c), &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Created(c, "Card issued successfully", card)
}

// GetByDog returns the card of a guide dog
// @Summary Get card by guide dog
// @Tags Cards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Guide dog ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cards/dog/{id} [get]
func (h *CardHandler) GetByDog(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid guide dog ID")
	}

	card, err := h.cardService.GetByDog(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "", card)
}

// GetByCode verifies a card by its code
// @Summary Verify card by code
// @Tags Cards
// @Produce json
// @Security BearerAuth
// @Param code path string true "Card code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cards/code/{code} [get]
func (h *CardHandler) GetByCode(c *fiber.Ctx) error {
	details, err := h.cardService.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "", details)
}
