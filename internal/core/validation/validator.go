// Package validation turns go-playground/validator tags on the ports input
// structs into domain.ValidationError values listing every violation.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

// DateLayouts are the layouts accepted by the "flexdate" tag, tried in order.
var DateLayouts = []string{time.RFC3339, "2006-01-02"}

// Validator checks tagged structs. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator reporting fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("flexdate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	// An explicit empty string clears the field on partial updates.
	v.RegisterAlias("optionalurl", "len=0|url")
	return &Validator{v: v}
}

// Struct validates s and returns a *domain.ValidationError on failure.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &domain.ValidationError{Violations: make([]domain.FieldViolation, 0, len(ve))}
	for _, fe := range ve {
		out.Violations = append(out.Violations, domain.FieldViolation{
			Field:   fieldPath(fe),
			Message: fieldError(fe),
		})
	}
	return out
}

// ParseDate parses s with the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// fieldPath strips the root struct name: "CreateProjectInput.technologies[2]"
// becomes "technologies[2]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url", "optionalurl":
		return field + " must be a valid URL"
	case "min":
		if isCollection(fe) {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if isCollection(fe) {
			return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "flexdate":
		return field + " must be a date (YYYY-MM-DD or RFC 3339)"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func isCollection(fe validator.FieldError) bool {
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
