package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	crosserrors "github.com/alexisbeaulieu97/crosshair/pkg/errors"
)

// convertValidationError normalizes validator errors into document validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return crosserrors.NewValidationError(field, msg, err)
	}

	return crosserrors.NewValidationError("document", err.Error(), err)
}

// yamlishFieldName drops the root struct name from the namespace. Segment
// names come from yaml tags through the registered tag name func.
func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return strings.ToLower(ns)
}

func fieldForSeries(index int, field string) string {
	return fmt.Sprintf("series[%d].%s", index, field)
}

func fieldForAxis(axis, field string) string {
	return fmt.Sprintf("%s.%s", axis, field)
}
