package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/rbacadmin/rbac-admin/internal/db/models"
)

// TagUserStatus validates a string as Active or Inactive, case-insensitive.
const TagUserStatus = "userstatus"

// ErrInvalidBody is returned by Bind for bodies that are not valid JSON.
var ErrInvalidBody = errors.New("invalid request body")

type (
	// FieldError describes one failed validation rule.
	FieldError struct {
		Field string `json:"field"`
		Tag   string `json:"tag"`
	}

	// ValidationError is returned by Bind when the decoded body breaks a rule.
	ValidationError struct {
		Fields []FieldError
	}

	// Validator wraps go-playground/validator with the rules used by the API.
	Validator struct {
		validate *validator.Validate
	}
)

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+":"+f.Tag)
	}

	return "validation failed: " + strings.Join(parts, ", ")
}

// NewValidator returns a Validator with the userstatus rule registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation(TagUserStatus, func(fl validator.FieldLevel) bool {
		_, err := models.ParseUserStatus(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Validate performs validation on data and returns the failed fields.
func (v *Validator) Validate(data any) []FieldError {
	var fieldErrors []FieldError

	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []FieldError{{Field: "", Tag: err.Error()}}
	}

	for _, e := range errs {
		fieldErrors = append(fieldErrors, FieldError{Field: e.Field(), Tag: e.Tag()})
	}

	return fieldErrors
}

// Bind decodes the JSON body into out and validates it.
func (v *Validator) Bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if fields := v.Validate(out); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}
