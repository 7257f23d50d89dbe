package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "retailreports/internal/errors"
	"retailreports/pkg/contracts/domain"
)

// SnapshotValidator checks an analytics snapshot against the struct tags on
// the domain types before any rendering starts.
type SnapshotValidator struct {
	validate *validator.Validate
}

// NewSnapshotValidator creates a validator with the custom "finite" tag
// registered and JSON names used in field paths.
func NewSnapshotValidator() *SnapshotValidator {
	v := validator.New()

	v.RegisterValidation("finite", isFinite)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &SnapshotValidator{validate: v}
}

// Validate returns a PreconditionError listing every violated field, or nil.
// The field list is attached under the "fields" context key.
func (v *SnapshotValidator) Validate(snapshot *domain.AnalyticsSnapshot) error {
	if snapshot == nil {
		return apperrors.NewPreconditionError("snapshot is required")
	}

	err := v.validate.Struct(snapshot)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate snapshot: %w", err)
	}

	fields := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fieldPath(fe)
		fields = append(fields, apperrors.ValidationError{
			Field:   path,
			Message: formatFieldError(path, fe),
		})
	}

	return apperrors.NewPreconditionError("snapshot is invalid: " + fields[0].Message).
		WithContext("fields", fields)
}

// fieldPath drops the root struct name: "AnalyticsSnapshot.peakHours[1].revenue"
// becomes "peakHours[1].revenue".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func formatFieldError(field string, fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must not be empty", field)
		}
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must not be empty", field)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "finite":
		return fmt.Sprintf("%s must be a finite number", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// isFinite rejects NaN and the infinities
func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}
