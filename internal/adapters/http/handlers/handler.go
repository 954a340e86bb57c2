package handlers

import (
	"strconv"

	applog "caoguia-api/internal/pkg/logger"
	"caoguia-api/internal/pkg/response"
	"caoguia-api/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// fail writes the response for a service error and logs unexpected ones
func fail(c *fiber.Ctx, log *logrus.Logger, err error) error {
	if code, _ := response.StatusFor(err); code >= fiber.StatusInternalServerError {
		applog.Audit(c.UserContext(), log, "http.error").WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).WithError(err).Error("Request failed")
	}
	return response.FromError(c, err)
}

// bind parses and validates the request body into dst.
// It returns false after writing a 400 response.
func bind(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, response.BadRequest(c, "Invalid request body")
	}
	if fields := validator.ValidateStruct(dst); len(fields) > 0 {
		return false, response.ValidationError(c, fields)
	}
	return true, nil
}

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
