package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrInvalidID is returned by ParseID for ids that are not positive integers.
var ErrInvalidID = errors.New("invalid id")

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// MessageResponse is the body of successful requests without a resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// Error responds with status and message.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// InternalError logs err and responds 500 with message. err never reaches the client.
func InternalError(c *fiber.Ctx, err error, message string) error {
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Msg(message)

	return Error(c, fiber.StatusInternalServerError, message)
}

// BadRequest responds 400. Validation failures carry the offending fields.
func BadRequest(c *fiber.Ctx, err error) error {
	resp := ErrorResponse{Error: MsgInvalidRequest}

	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}

	log.Debug().Err(err).Str("path", c.Path()).Msg("rejected request")

	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

// Message responds 200 with message.
func Message(c *fiber.Ctx, message string) error {
	return c.JSON(MessageResponse{Message: message})
}

// ParseID reads the id route parameter.
func ParseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params(ParamID), 10, 0)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}

	return uint(id), nil
}

// DB binds db to the request context so queries are cancelled with the request.
func DB(c *fiber.Ctx, db *gorm.DB) *gorm.DB {
	return db.WithContext(c.UserContext())
}

// ErrorHandler renders errors escaping the handlers, e.g. unknown routes or recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
		message = ferr.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	return Error(c, code, message)
}
