package validation

import (
	"errors"
	"fmt"
	"readafrik-checkout/internal/common/enum"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"

	"github.com/go-playground/validator/v10"
)

var (
	val       *validator.Validate
	setupOnce sync.Once
	setupErr  error
)

// emailPattern is a sanity check, not RFC 5322 validation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validationMessages = map[string]string{
	"required":   "is required",
	"url":        "must be a valid URL",
	"number":     "must be a number",
	"oneof":      "must be one of the allowed values: %s",
	"looseemail": "must be a valid email address",
	"min":        "must be greater than or equal to %s",
	"max":        "must be less than or equal to %s",
	"gt":         "must be greater than %s",
	"gte":        "must be greater than or equal to %s",
	"lt":         "must be less than %s",
	"lte":        "must be less than or equal to %s",
	"enum":       "must be one of the allowed enum values: %s",
}

// FieldError is one failed rule, named by the field's JSON name.
type FieldError struct {
	Field string
	Tag   string
}

// Setup builds the package validator and registers the custom rules on
// gin's binding engine as well. It is safe to call more than once.
func Setup() error {
	setupOnce.Do(func() {
		setupErr = setup()
	})
	return setupErr
}

func setup() error {
	val = validator.New(validator.WithRequiredStructEnabled())

	if err := registerValidations(val); err != nil {
		return fmt.Errorf("failed to register custom validations: %w", err)
	}

	val.RegisterTagNameFunc(jsonTagName)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := registerValidations(v); err != nil {
			return fmt.Errorf("failed to register custom validations in Gin engine: %w", err)
		}
		v.RegisterTagNameFunc(jsonTagName)
	} else {
		return fmt.Errorf("failed to get validation engine")
	}

	return nil
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func registerValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("enum", enum.ValidateEnum); err != nil {
		return fmt.Errorf("failed to register enum validation: %w", err)
	}
	if err := v.RegisterValidation("looseemail", validateLooseEmail); err != nil {
		return fmt.Errorf("failed to register looseemail validation: %w", err)
	}
	return nil
}

func validateLooseEmail(fl validator.FieldLevel) bool {
	return IsEmail(fl.Field().String())
}

// IsEmail reports whether s looks like local@domain.tld.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validate checks payload against its `validate` tags and returns a
// readable error listing every failed field.
func Validate(payload interface{}) error {
	if err := ensureSetup(); err != nil {
		return err
	}

	if err := val.Struct(payload); err != nil {
		message := "Validation failed: " + parsingErrorValidate(err)
		return errors.New(message)
	}

	return nil
}

// Check runs the same rules as Validate but returns the failures in a form
// callers can branch on.
func Check(payload interface{}) ([]FieldError, error) {
	if err := ensureSetup(); err != nil {
		return nil, err
	}

	err := val.Struct(payload)
	if err == nil {
		return nil, nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil, err
	}

	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Field: e.Field(), Tag: e.Tag()})
	}
	return out, nil
}

// HasTag reports whether any failure in errs is for field with tag.
func HasTag(errs []FieldError, field, tag string) bool {
	for _, e := range errs {
		if e.Field == field && e.Tag == tag {
			return true
		}
	}
	return false
}

func ensureSetup() error {
	return Setup()
}

func parsingErrorValidate(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		var sb strings.Builder
		for _, e := range errs {
			msg := validationMessages[e.Tag()]
			if msg == "" {
				msg = "is invalid"
			}
			switch e.Tag() {
			case "enum":
				msg = fmt.Sprintf(msg, e.Type())
			default:
				if strings.Contains(msg, "%s") {
					msg = fmt.Sprintf(msg, e.Param())
				}
			}
			sb.WriteString(fmt.Sprintf("%s %s", e.Field(), msg))
			sb.WriteString(", ")
		}
		return strings.TrimSuffix(sb.String(), ", ")
	}
	return err.Error()
}
