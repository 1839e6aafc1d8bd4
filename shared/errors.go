package shared

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FailedValidationError carries per-field messages for a 422 response.
type FailedValidationError struct {
	Fields map[string][]string
}

func (e *FailedValidationError) Error() string {
	return "request validation failed"
}

// NewFailedValidationError maps validator errors onto the payload's json tag
// names so clients see the field names they actually sent.
func NewFailedValidationError(payload any, errs validator.ValidationErrors) error {
	t := reflect.TypeOf(payload)
	fields := map[string][]string{}
	for _, fieldErr := range errs {
		name := fieldErr.StructField()
		if f, ok := t.FieldByName(fieldErr.StructField()); ok {
			if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" {
				name = tag
			}
		}
		fields[name] = append(fields[name], validationMessage(fieldErr))
	}
	return &FailedValidationError{Fields: fields}
}

func validationMessage(fieldErr validator.FieldError) string {
	if fieldErr.Tag() == "required" {
		return "field required"
	}
	return "failed on the '" + fieldErr.Tag() + "' rule"
}

// ErrorHandler renders every handler error as {"detail": ...}. Errors that are
// neither fiber errors nor validation errors become opaque 500s so driver
// internals never leak to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var failedValidation *FailedValidationError
	if errors.As(err, &failedValidation) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": failedValidation.Fields,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"detail": fiberErr.Message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"detail": "Internal server error",
	})
}
