package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	crosserrors "github.com/alexisbeaulieu97/crosshair/pkg/errors"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	validYAML := `version: "1.0"
name: "Latency"
description: "Request latency per region"
format: "%.1f ms"
interaction:
  multi_tooltip: false
  sticky_crosshair: true
  sticky_timeout: 2s
series:
  - id: eu
    label: Europe
    color: "#1f77b4"
    points:
      - [0, 10]
      - [5, 20]
      - [10, 5]
  - id: us
    values: [3, 4, 5]
`

	invalidYAML := `version: "1.0"
name: "Broken"
series:
  - id: eu
    points: nope
`

	missingRequired := `version: "1.0"
name: "No Series"
`

	badVersion := `version: "beta"
name: "Bad Version"
series:
  - id: a
    values: [1]
`

	cases := []struct {
		name     string
		contents string
		assert   func(t *testing.T, doc *Document, err error)
	}{
		{
			name:     "valid document is parsed",
			contents: validYAML,
			assert: func(t *testing.T, doc *Document, err error) {
				require.NoError(t, err)
				require.NotNil(t, doc)
				require.Equal(t, "Latency", doc.Name)
				require.Len(t, doc.Series, 2)
				require.Equal(t, "eu", doc.Series[0].ID)
				require.Equal(t, []float64{5, 20}, doc.Series[0].Points[1])

				// explicit keys override, omitted keys keep their defaults
				require.False(t, doc.Interaction.MultiTooltip)
				require.True(t, doc.Interaction.StickyCrosshair)
				require.Equal(t, 2*time.Second, doc.Interaction.StickyTimeout)
				require.True(t, doc.Interaction.LiveTooltip)
				require.Equal(t, FollowCrosshair, doc.Interaction.PopoverFollowMode)
				require.Equal(t, 32.0, doc.Interaction.PointerPixelThreshold)
				require.Equal(t, LookupX, doc.Interaction.Lookup)
			},
		},
		{
			name:     "invalid yaml returns parse error",
			contents: invalidYAML,
			assert: func(t *testing.T, doc *Document, err error) {
				require.Error(t, err)
				require.Nil(t, doc)
				var parseErr *crosserrors.ParseError
				require.ErrorAs(t, err, &parseErr)
				require.Contains(t, parseErr.Message, "cannot unmarshal")
				require.Equal(t, 5, parseErr.Line)
			},
		},
		{
			name:     "missing required fields returns validation error",
			contents: missingRequired,
			assert: func(t *testing.T, doc *Document, err error) {
				require.Error(t, err)
				var validationErr *crosserrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "series", validationErr.Field)
			},
		},
		{
			name:     "invalid version returns validation error",
			contents: badVersion,
			assert: func(t *testing.T, doc *Document, err error) {
				require.Error(t, err)
				var validationErr *crosserrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "version", validationErr.Field)
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "chart.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.contents), 0o644))

			doc, err := ParseConfig(path)
			tc.assert(t, doc, err)
		})
	}
}

func TestParseConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	var parseErr *crosserrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Zero(t, parseErr.Line)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseDocumentDefaultsInteraction(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`version: "1.0"
name: minimal
series:
  - id: a
    values: [1, 2]
`), "inline")
	require.NoError(t, err)
	require.Equal(t, DefaultInteraction(), doc.Interaction)
}
