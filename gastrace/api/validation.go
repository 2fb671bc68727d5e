package api

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrBodyParseFailed is returned when request body parsing fails.
var ErrBodyParseFailed = errors.New("failed to parse request body")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the 400 payload for malformed requests.
type ValidationErrors struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// ParseAndValidate decodes the JSON body into out and runs struct
// validation. The returned ValidationErrors is nil when the request is
// well-formed.
func ParseAndValidate(c *fiber.Ctx, out any) *ValidationErrors {
	if err := c.BodyParser(out); err != nil {
		return &ValidationErrors{Message: ErrBodyParseFailed.Error()}
	}

	if err := validatorInstance().Struct(out); err != nil {
		var invalid validator.ValidationErrors
		if !errors.As(err, &invalid) {
			return &ValidationErrors{Message: err.Error()}
		}

		fields := make([]FieldError, 0, len(invalid))
		for _, fe := range invalid {
			fields = append(fields, FieldError{
				Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
				Message: fieldMessage(fe),
			})
		}

		return &ValidationErrors{Message: "validation failed", Fields: fields}
	}

	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
