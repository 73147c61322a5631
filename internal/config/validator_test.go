package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	crosserrors "github.com/alexisbeaulieu97/crosshair/pkg/errors"
)

func validDocument() *Document {
	return &Document{
		Version:     "1.0",
		Name:        "valid",
		Interaction: DefaultInteraction(),
		Series: []SeriesSpec{
			{ID: "a", Points: [][]float64{{0, 1}, {1, 2}}},
			{ID: "b", Values: []float64{3, 4}},
		},
	}
}

func ptr(v float64) *float64 { return &v }

func TestValidateDocument(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(doc *Document)
		field  string
	}{
		{
			name:   "duplicate series ids",
			mutate: func(doc *Document) { doc.Series[1].ID = "a" },
			field:  "series[1].id",
		},
		{
			name:   "series id pattern",
			mutate: func(doc *Document) { doc.Series[0].ID = "Has Space" },
			field:  "series[0].id",
		},
		{
			name:   "series without data",
			mutate: func(doc *Document) { doc.Series[1].Values = nil },
			field:  "series[1].points",
		},
		{
			name: "series with two data sources",
			mutate: func(doc *Document) {
				doc.Series[0].Values = []float64{1}
			},
			field: "series[0].points",
		},
		{
			name:   "unsorted points",
			mutate: func(doc *Document) { doc.Series[0].Points = [][]float64{{2, 1}, {1, 1}} },
			field:  "series[0].points[1]",
		},
		{
			name:   "point without y",
			mutate: func(doc *Document) { doc.Series[0].Points = [][]float64{{1}} },
			field:  "series[0].points[0]",
		},
		{
			name:   "bad color",
			mutate: func(doc *Document) { doc.Series[0].Color = "blue" },
			field:  "series[0].color",
		},
		{
			name:   "band axis without categories",
			mutate: func(doc *Document) { doc.XAxis.Type = AxisBand },
			field:  "x_axis.categories",
		},
		{
			name:   "band y axis",
			mutate: func(doc *Document) { doc.YAxis = Axis{Type: AxisBand, Categories: []string{"a"}} },
			field:  "y_axis.type",
		},
		{
			name: "inverted axis bounds",
			mutate: func(doc *Document) {
				doc.XAxis.Min = ptr(10)
				doc.XAxis.Max = ptr(1)
			},
			field: "x_axis.min",
		},
		{
			name: "more values than categories",
			mutate: func(doc *Document) {
				doc.XAxis = Axis{Type: AxisBand, Categories: []string{"mon"}}
				doc.Series[0].Points = nil
				doc.Series[0].Values = []float64{1, 2}
			},
			field: "series[0].values",
		},
		{
			name:   "negative threshold",
			mutate: func(doc *Document) { doc.Interaction.PointerPixelThreshold = -1 },
			field:  "interaction.pointer_pixel_threshold",
		},
		{
			name:   "unknown follow mode",
			mutate: func(doc *Document) { doc.Interaction.PopoverFollowMode = "cursor" },
			field:  "interaction.popover_follow_mode",
		},
		{
			name: "source column must be a letter reference",
			mutate: func(doc *Document) {
				doc.Series[1].Values = nil
				doc.Series[1].Source = &SourceSpec{Path: "data.xlsx", XColumn: "A", YColumn: "b1"}
			},
			field: "series[1].source.y_column",
		},
	}

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, ValidateDocument(validDocument()))
	})

	t.Run("nil document", func(t *testing.T) {
		t.Parallel()
		err := ValidateDocument(nil)
		var validationErr *crosserrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := validDocument()
			tc.mutate(doc)

			err := ValidateDocument(doc)
			require.Error(t, err)
			var validationErr *crosserrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestValidateInteraction(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, ValidateInteraction(DefaultInteraction()))
	})

	t.Run("negative timeout rejected", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultInteraction()
		cfg.StickyTimeout = -time.Second
		err := ValidateInteraction(cfg)
		var validationErr *crosserrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, "sticky_timeout", validationErr.Field)
	})

	t.Run("unknown lookup rejected", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultInteraction()
		cfg.Lookup = "radial"
		require.Error(t, ValidateInteraction(cfg))
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	cfg := InteractionConfig{}.Normalize()
	require.Equal(t, FollowCrosshair, cfg.PopoverFollowMode)
	require.Equal(t, LookupX, cfg.Lookup)
	require.Equal(t, AxisLinear, Axis{}.Kind())
}
