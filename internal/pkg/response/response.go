package response

import (
	"errors"

	"caoguia-api/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// ValidationError sends a 400 response listing the offending fields
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		Success: false,
		Error:   "Validation failed",
		Fields:  fields,
	})
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="caoguia-api"`)
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// StatusFor maps a domain error to its HTTP status and client message.
// Not-authenticated errors become 401, not-authorized errors 403.
func StatusFor(err error) (int, string) {
	switch {
	// 401: log in again
	case errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized, "Access token expired"
	case errors.Is(err, domain.ErrTokenInvalid):
		return fiber.StatusUnauthorized, "Invalid access token"
	case errors.Is(err, domain.ErrPrincipalNotFound):
		return fiber.StatusUnauthorized, "Account not found or inactive"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "Access token required"

	// 403: not allowed, or not yet eligible
	case errors.Is(err, domain.ErrRegistrationPending):
		return fiber.StatusForbidden, "Registration pending approval"
	case errors.Is(err, domain.ErrRegistrationRejected):
		return fiber.StatusForbidden, "Registration rejected"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "You don't have permission to access this resource"

	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found"
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidStatus):
		return fiber.StatusBadRequest, "Invalid approval status"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, err.Error()
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

// FromError sends the response StatusFor chooses for err
func FromError(c *fiber.Ctx, err error) error {
	code, message := StatusFor(err)
	if code == fiber.StatusUnauthorized {
		return Unauthorized(c, message)
	}
	return Error(c, code, message)
}
