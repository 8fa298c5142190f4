package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Bounds the API accepts for offset pagination.
const (
	MaxPage     = 10000
	MaxPageSize = 1000
)

// newValidator reports fields by their JSON names so errors match the payload the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// toFieldErrors flattens validator output into FieldErrors. Non-validation
// errors come back as nil so callers can pass them through untouched.
func toFieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be > " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func checkPageWindow(page, pageSize int) []FieldError {
	var ferrs []FieldError
	if page < 1 || page > MaxPage {
		ferrs = append(ferrs, FieldError{Field: "page", Message: "must be between 1 and 10000"})
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		ferrs = append(ferrs, FieldError{Field: "limit", Message: "must be between 1 and 1000"})
	}
	return ferrs
}
