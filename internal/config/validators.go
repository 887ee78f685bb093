package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"
)

// newValidator returns a validator with English messages that names fields by their flag.
func newValidator() (*validator.Validator, error) {
	validate := validator.NewValidator()

	if err := registerExclusive(validate); err != nil {
		return nil, err
	}

	validate.Validator().RegisterTagNameFunc(flagName)

	return validate, nil
}

// registerExclusive adds a custom validator ensuring two fields are mutually exclusive.
// It registers both the validation logic and a human-readable error message.
func registerExclusive(validate *validator.Validator) error {
	if err := validate.RegisterValidationAndTranslation(
		"exclusive",
		validateExclusive,
		"{0} is mutually exclusive",
	); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	return nil
}

// flagName reports fields by their flag name, so errors read "key-file" rather than "KeyFile".
func flagName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(fld.Name)
	}

	return name
}

// validateExclusive checks if two fields are mutually exclusive.
// Returns false if both fields have non-empty values.
func validateExclusive(fl validator.FieldLevel) bool {
	otherFieldName := fl.Param()
	field := fl.Field()
	otherField := fl.Parent().FieldByName(otherFieldName)

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	if field.Kind() == reflect.String && otherField.Kind() == reflect.String {
		return field.String() == "" || otherField.String() == ""
	}

	return true
}
