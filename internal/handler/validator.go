package handler

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	validate     *Validator
	validateOnce sync.Once

	// strict strips every tag; text comes back HTML-escaped
	strict = bluemonday.StrictPolicy()
)

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	// Report json names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("txtype", validateTransactionType)
	_ = v.RegisterValidation("earnsource", validateEarnSource)
	_ = v.RegisterValidation("spendsource", validateSpendSource)
	_ = v.RegisterValidation("nomarkup", validateNoMarkup)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	validateOnce.Do(func() {
		if validate == nil {
			InitValidator()
		}
	})
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a map keyed by json
// field name
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "uuid", "uuid4":
			errs[field] = "Must be a valid UUID"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "gte":
			errs[field] = fmt.Sprintf("Must be %s or more", e.Param())
		case "lte":
			errs[field] = fmt.Sprintf("Must be %s or less", e.Param())
		case "oneof":
			errs[field] = fmt.Sprintf("Must be one of: %s", e.Param())
		case "txtype":
			errs[field] = "Unknown transaction type"
		case "earnsource":
			errs[field] = "Cannot be earned directly"
		case "spendsource":
			errs[field] = "Cannot be spent"
		case "excludesall":
			errs[field] = "Contains invalid characters"
		case "nomarkup":
			errs[field] = "Must not contain markup"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

func validateTransactionType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return domain.TransactionType(strings.ToUpper(s)).Valid()
}

func validateEarnSource(fl validator.FieldLevel) bool {
	return domain.TransactionType(strings.ToUpper(fl.Field().String())).Earnable()
}

func validateSpendSource(fl validator.FieldLevel) bool {
	return domain.TransactionType(strings.ToUpper(fl.Field().String())).Spendable()
}

// validateNoMarkup rejects text that changes when tags are stripped
func validateNoMarkup(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return html.UnescapeString(strict.Sanitize(s)) == s
}
