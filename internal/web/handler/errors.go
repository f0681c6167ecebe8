package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/db/controller"
)

var (
	// ErrNilEnv is returned by Init when the router or the env is incomplete.
	ErrNilEnv = errors.New(ErrNilEnvFatalLogMsg)
	// ErrInvalidBody is returned when a request body can not be parsed.
	ErrInvalidBody = errors.New("invalid request body")
)

// DetailNotAuthorized is the body detail of every refused authorization.
const DetailNotAuthorized = "Not Authorized"

// Detail is the JSON error body.
type Detail struct {
	Detail string `json:"detail"`
}

// Status maps an error onto its HTTP status and client facing detail.
func Status(err error) (int, string) {
	var (
		fiberErr      *fiber.Error
		validationErr validator.ValidationErrors
	)

	switch {
	case errors.Is(err, authz.ErrNotAuthorized):
		return fiber.StatusUnauthorized, DetailNotAuthorized
	case errors.Is(err, controller.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, controller.ErrAlreadyExists):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, controller.ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, controller.ErrInvalidInput), errors.Is(err, ErrInvalidBody):
		return fiber.StatusBadRequest, err.Error()
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, "Internal Server Error"
	}
}

// Error writes err as JSON detail with the matching status.
func Error(c *fiber.Ctx, err error) error {
	code, detail := Status(err)
	if code == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(code).JSON(Detail{Detail: detail})
}

// ErrorHandler is the fiber error handler of the API.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return Error(c, err)
}
