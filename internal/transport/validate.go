package transport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report json field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks a request against its validate tags and describes the first
// failing field.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("invalid validation error: %w", err)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field, param := fe.Field(), fe.Param()
	numeric := fe.Kind() >= reflect.Int && fe.Kind() <= reflect.Float64

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("field '%s' is required", field)
	case "email":
		return fmt.Errorf("field '%s' must be a valid email address", field)
	case "min":
		if numeric {
			return fmt.Errorf("field '%s' must be at least %s", field, param)
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Errorf("field '%s' must have at least %s entries", field, param)
		}
		return fmt.Errorf("field '%s' must be at least %s characters long", field, param)
	case "max":
		if numeric {
			return fmt.Errorf("field '%s' must be at most %s", field, param)
		}
		return fmt.Errorf("field '%s' must be at most %s characters long", field, param)
	case "eqfield":
		return fmt.Errorf("field '%s' does not match", field)
	default:
		return fmt.Errorf("field '%s' validation failed on tag '%s'", field, fe.Tag())
	}
}
