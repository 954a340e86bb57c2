package handlers

import (
	"caoguia-api/internal/adapters/http/middleware"
	"caoguia-api/internal/core/services"
	"caoguia-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// InstitutionHandler handles institution account endpoints
type InstitutionHandler struct {
	institutionService *services.InstitutionService
	log                *logrus.Logger
}

// NewInstitutionHandler creates a new institution handler
func NewInstitutionHandler(institutionService *services.InstitutionService, log *logrus.Logger) *InstitutionHandler {
	return &InstitutionHandler{
		institutionService: institutionService,
		log:                log,
	}
}

// GetMe returns the calling institution's record
// @Summary Get my institution
// @Tags Institutions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /institutions/me [get]
func (h *InstitutionHandler) GetMe(c *fiber.Ctx) error {
	institution, err := h.institutionService.GetMe(c.UserContext(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "", institution)
}

// UpdateMe updates the calling institution's record
// @Summary Update my institution
// @Tags Institutions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateInstitutionInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /institutions/me [put]
func (h *InstitutionHandler) UpdateMe(c *fiber.Ctx) error {
	var req services.UpdateInstitutionInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	institution, err := h.institutionService.UpdateMe(c.UserContext(), middleware.IdentityFrom(c), &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "Institution updated successfully", institution)
}

// SearchByCNPJ finds an approved institution by CNPJ
// @Summary Search institution by CNPJ
// @Tags Institutions
// @Produce json
// @Security BearerAuth
// @Param cnpj query string true "CNPJ, formatted or digits only"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /institutions/search [get]
func (h *InstitutionHandler) SearchByCNPJ(c *fiber.Ctx) error {
	cnpj := c.Query("cnpj")
	if cnpj == "" {
		return response.BadRequest(c, "cnpj query parameter is required")
	}

	institution, err := h.institutionService.SearchByCNPJ(c.UserContext(), cnpj)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, "", fiber.Map{
		"id":           institution.ID,
		"razao_social": institution.RazaoSocial,
		"cnpj":         institution.CNPJ,
	})
}
