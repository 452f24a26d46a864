package enum

import "github.com/go-playground/validator/v10"

type validatable interface {
	IsValid() bool
}

// ValidateEnum backs the `enum` validation tag for any type with IsValid.
func ValidateEnum(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(validatable)
	if !ok {
		return false
	}
	return value.IsValid()
}
