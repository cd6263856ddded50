package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-deepwalk/pkg/loader"
	"github.com/dd0wney/cluso-deepwalk/pkg/source"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	ErrNilStruct = errors.New("value to validate cannot be nil")
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil functions.
	_ = validate.RegisterValidation("graphformat", isGraphFormat)
	_ = validate.RegisterValidation("location", isLocation)
}

// isGraphFormat accepts every name loader.ParseFormat understands
func isGraphFormat(fl validator.FieldLevel) bool {
	_, err := loader.ParseFormat(fl.Field().String())
	return err == nil
}

// isLocation accepts "-", local paths, well-formed s3:// URIs and socket
// addresses.
func isLocation(fl validator.FieldLevel) bool {
	loc := fl.Field().String()
	if source.IsS3(loc) {
		_, _, err := source.ParseS3URI(loc)
		return err == nil
	}
	return strings.TrimSpace(loc) != ""
}

// Struct validates v against its `validate` tags and reports the first
// failure with the field's yaml name.
func Struct(v any) error {
	if v == nil {
		return ErrNilStruct
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "lt":
			return fmt.Errorf("%s: must be below %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: %q must be one of [%s]", field, e.Value(), param)
		case "graphformat":
			return fmt.Errorf("%s: unknown graph format %q", field, e.Value())
		case "location":
			return fmt.Errorf("%s: invalid location %q", field, e.Value())
		case "hostname_port":
			return fmt.Errorf("%s: %q is not a host:port address", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
