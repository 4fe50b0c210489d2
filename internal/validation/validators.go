package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/benvon/todo-everyday/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so error maps match the request body
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := Validate.RegisterValidation("priority", validatePriority); err != nil {
		panic(fmt.Sprintf("failed to register priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("batch_action", validateBatchAction); err != nil {
		panic(fmt.Sprintf("failed to register batch_action validator: %v", err))
	}
	if err := Validate.RegisterValidation("notblank_trimmed", validateNotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank_trimmed validator: %v", err))
	}
}

// validatePriority validates that an int is within the accepted priority range
func validatePriority(fl validator.FieldLevel) bool {
	p := fl.Field().Int()
	return p >= models.MinPriority && p <= models.MaxPriority
}

// validateBatchAction validates that a string is a known BatchAction value
func validateBatchAction(fl validator.FieldLevel) bool {
	return models.BatchAction(fl.Field().String()).Valid()
}

// validateNotBlank checks the value that will actually be stored
func validateNotBlank(fl validator.FieldLevel) bool {
	return SanitizeText(fl.Field().String()) != ""
}

// FieldErrors converts validator errors into a field name to message map.
// It returns nil if err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, exists := fields[name]; exists {
			continue
		}
		fields[name] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	name := displayName(fe.Field())
	switch fe.Tag() {
	case "required", "notblank_trimmed":
		return fmt.Sprintf("%s is required", name)
	case "max", "min":
		if fe.Kind() == reflect.String && fe.Field() == "title" {
			return fmt.Sprintf("%s must be between 1 and 255 characters", name)
		}
		if fe.Tag() == "max" {
			return fmt.Sprintf("%s must be at most %s", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "priority":
		return fmt.Sprintf("%s must be between %d and %d", name, models.MinPriority, models.MaxPriority)
	case "batch_action":
		return fmt.Sprintf("%s must be one of %s, %s or %s", name,
			models.BatchDeleteCompleted, models.BatchDeleteAll, models.BatchCompleteAll)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// displayName turns a JSON field name into the label used in messages
func displayName(field string) string {
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// SanitizeText removes control characters other than newline and tab, then trims whitespace
func SanitizeText(text string) string {
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return strings.TrimSpace(sanitized.String())
}
