// Package dataset loads series points from external sources.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/series"
	"github.com/alexisbeaulieu97/crosshair/internal/config"
	crosserrors "github.com/alexisbeaulieu97/crosshair/pkg/errors"
)

// ErrNoRows is returned when a sheet holds no data rows.
var ErrNoRows = errors.New("no data rows")

// LoadXLSX reads the points of one series from an .xlsx workbook. Relative
// paths are resolved against baseDir.
//
// Numeric x columns produce points sorted by x. When the first data row has a
// non-numeric x, the column is read as categories: X becomes the row ordinal
// and Category the cell text. Each point records its 1-based sheet row in
// Meta["row"]. Rows with both cells empty are skipped.
func LoadXLSX(seriesID string, src config.SourceSpec, baseDir string) ([]series.Point, error) {
	path := src.Path
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, crosserrors.NewSourceError(seriesID, path, err)
	}
	defer f.Close()

	sheet := src.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, crosserrors.NewSourceError(seriesID, path, errors.New("workbook has no sheets"))
		}
		sheet = sheets[0]
	}

	xCol, err := excelize.ColumnNameToNumber(src.XColumn)
	if err != nil {
		return nil, crosserrors.NewSourceError(seriesID, path, fmt.Errorf("x column: %w", err))
	}
	yCol, err := excelize.ColumnNameToNumber(src.YColumn)
	if err != nil {
		return nil, crosserrors.NewSourceError(seriesID, path, fmt.Errorf("y column: %w", err))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, crosserrors.NewSourceError(seriesID, path, fmt.Errorf("sheet %q: %w", sheet, err))
	}

	points, err := rowsToPoints(rows, xCol-1, yCol-1, src.Header)
	if err != nil {
		return nil, crosserrors.NewSourceError(seriesID, path, fmt.Errorf("sheet %q: %w", sheet, err))
	}
	return points, nil
}

func rowsToPoints(rows [][]string, xIdx, yIdx int, header bool) ([]series.Point, error) {
	start := 0
	if header {
		start = 1
	}

	var (
		points      []series.Point
		categorical bool
		decided     bool
	)
	for i := start; i < len(rows); i++ {
		rowNum := i + 1
		xText := strings.TrimSpace(cell(rows[i], xIdx))
		yText := strings.TrimSpace(cell(rows[i], yIdx))
		if xText == "" && yText == "" {
			continue
		}

		y, err := strconv.ParseFloat(yText, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: y value %q is not numeric", rowNum, yText)
		}

		x, xErr := strconv.ParseFloat(xText, 64)
		if !decided {
			categorical = xErr != nil
			decided = true
		}

		p := series.Point{Y: y, Meta: series.Metadata{"row": rowNum}}
		switch {
		case categorical:
			p.X = float64(len(points))
			p.Category = xText
		case xErr != nil:
			return nil, fmt.Errorf("row %d: x value %q is not numeric", rowNum, xText)
		case math.IsNaN(x) || math.IsInf(x, 0):
			return nil, fmt.Errorf("row %d: x value %q is not finite", rowNum, xText)
		default:
			p.X = x
		}
		points = append(points, p)
	}

	if len(points) == 0 {
		return nil, ErrNoRows
	}
	if !categorical {
		sort.SliceStable(points, func(i, j int) bool { return points[i].X < points[j].X })
	}
	return points, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
