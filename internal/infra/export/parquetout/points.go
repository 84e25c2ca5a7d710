package parquetout

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
)

// PointRow is one exported data point. Date and GDPText keep the upstream strings.
type PointRow struct {
	Timestamp int64   `parquet:"t"`
	Date      string  `parquet:"date"`
	GDP       float64 `parquet:"gdp"`
	GDPText   string  `parquet:"gdp_text,optional"`
}

// WritePoints encodes the chart's points as a Parquet file, in input order.
func WritePoints(w io.Writer, points []gdpchart.DataPoint) error {
	if err := parquet.Write(w, toRows(points)); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	return nil
}

func toRows(points []gdpchart.DataPoint) []PointRow {
	rows := make([]PointRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, PointRow{
			Timestamp: p.Date.UnixMilli(),
			Date:      p.DateTag,
			GDP:       p.Value,
			GDPText:   p.ValueTag,
		})
	}
	return rows
}
