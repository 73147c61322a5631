package series

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	crosserrors "github.com/alexisbeaulieu97/crosshair/pkg/errors"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts sorted unique series", func(t *testing.T) {
		t.Parallel()
		err := Validate([]Series{
			{ID: "a", Points: []Point{{X: 0}, {X: 1}, {X: 1}, {X: 4}}},
			{ID: "b"},
		})
		require.NoError(t, err)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		t.Parallel()
		err := Validate([]Series{{ID: "a"}, {ID: "a"}})
		require.Error(t, err)

		var verr *crosserrors.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Equal(t, "series[1].id", verr.Field)
	})

	t.Run("rejects unsorted points", func(t *testing.T) {
		t.Parallel()
		err := Validate([]Series{{ID: "a", Points: []Point{{X: 3}, {X: 1}}}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "series[0].points[1]")
	})

	t.Run("rejects non-finite x", func(t *testing.T) {
		t.Parallel()
		for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			err := Validate([]Series{{ID: "a", Points: []Point{{X: 0}, {X: x}}}})
			require.Error(t, err)

			var verr *crosserrors.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Contains(t, err.Error(), "series[0].points[1].x")
		}
	})

	t.Run("rejects empty id", func(t *testing.T) {
		t.Parallel()
		require.Error(t, Validate([]Series{{}}))
	})
}

func TestMetadataAccessors(t *testing.T) {
	t.Parallel()

	meta := Metadata{"unit": "ms", "weight": 3, "ratio": 0.5, "primary": true}

	unit, ok := meta.String("unit")
	require.True(t, ok)
	require.Equal(t, "ms", unit)

	weight, ok := meta.Float("weight")
	require.True(t, ok)
	require.Equal(t, 3.0, weight)

	ratio, ok := meta.Float("ratio")
	require.True(t, ok)
	require.Equal(t, 0.5, ratio)

	primary, ok := meta.Bool("primary")
	require.True(t, ok)
	require.True(t, primary)

	_, ok = meta.Float("unit")
	require.False(t, ok)

	clone := meta.Clone()
	clone["unit"] = "s"
	require.Equal(t, "ms", meta["unit"])

	require.Nil(t, Metadata(nil).Clone())
}

func TestSeriesHelpers(t *testing.T) {
	t.Parallel()

	s := Series{ID: "cpu", Points: []Point{{X: 1, Y: 10}, {X: 2, Y: 20}}}
	require.Equal(t, "cpu", s.DisplayLabel())
	require.Equal(t, []float64{1, 2}, s.Xs())
	require.Equal(t, []float64{10, 20}, s.Ys())
	require.Equal(t, 2, s.Len())

	s.Label = "CPU"
	require.Equal(t, "CPU", s.DisplayLabel())

	require.Equal(t, 1, IndexOf([]Series{{ID: "a"}, {ID: "cpu"}}, "cpu"))
	require.Equal(t, -1, IndexOf(nil, "cpu"))
}
