package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	crosserrors "github.com/alexisbeaulieu97/crosshair/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern   = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	seriesIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(field.Name)
			}
			return name
		})

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("series_id", func(fl validator.FieldLevel) bool {
			return seriesIDPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateDocument performs schema and cross-field validation on a chart document.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return crosserrors.NewValidationError("document", "document is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(doc); err != nil {
		return convertValidationError(err)
	}

	if err := validateAxis("x_axis", doc.XAxis); err != nil {
		return err
	}
	if err := validateAxis("y_axis", doc.YAxis); err != nil {
		return err
	}
	if doc.YAxis.Kind() != AxisLinear {
		return crosserrors.NewValidationError(fieldForAxis("y_axis", "type"), "y axis must be linear", nil)
	}

	seen := make(map[string]int, len(doc.Series))
	for i, s := range doc.Series {
		if prev, exists := seen[s.ID]; exists {
			return crosserrors.NewValidationError(fieldForSeries(i, "id"), fmt.Sprintf("duplicate series id %q (first declared at series[%d])", s.ID, prev), nil)
		}
		seen[s.ID] = i

		if err := ValidateSeries(i, s, doc.XAxis); err != nil {
			return err
		}
	}

	return nil
}

// ValidateInteraction validates interaction settings on their own, as used
// when they are replaced at runtime.
func ValidateInteraction(cfg InteractionConfig) error {
	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}
	return nil
}

// ValidateSeries validates a single series spec. index labels errors.
func ValidateSeries(index int, s SeriesSpec, xAxis Axis) error {
	sources := 0
	if len(s.Points) > 0 {
		sources++
	}
	if len(s.Values) > 0 {
		sources++
	}
	if s.Source != nil {
		sources++
	}
	if sources != 1 {
		return crosserrors.NewValidationError(fieldForSeries(index, "points"), "exactly one of points, values or source is required", nil)
	}

	for j := 1; j < len(s.Points); j++ {
		if s.Points[j][0] < s.Points[j-1][0] {
			return crosserrors.NewValidationError(fmt.Sprintf("series[%d].points[%d]", index, j), "points must be sorted by ascending x", nil)
		}
	}

	if xAxis.Kind() == AxisBand && len(s.Values) > len(xAxis.Categories) {
		return crosserrors.NewValidationError(fieldForSeries(index, "values"), fmt.Sprintf("%d values for %d categories", len(s.Values), len(xAxis.Categories)), nil)
	}

	if s.Source != nil {
		if err := validatorInstance().Struct(s.Source); err != nil {
			return convertValidationError(err)
		}
	}

	return nil
}

func validateAxis(name string, axis Axis) error {
	if axis.Kind() == AxisBand && len(axis.Categories) == 0 {
		return crosserrors.NewValidationError(fieldForAxis(name, "categories"), "band axis requires categories", nil)
	}
	if axis.Min != nil && axis.Max != nil && *axis.Min >= *axis.Max {
		return crosserrors.NewValidationError(fieldForAxis(name, "min"), fmt.Sprintf("min %g must be below max %g", *axis.Min, *axis.Max), nil)
	}
	return nil
}
