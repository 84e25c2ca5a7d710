package gdpchart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	errInvalidColor = errors.New("bar fill color must be a hex color or a CSS color name")
	errBarIndex     = errors.New("bar index out of range")
)

// ToDataPoints parses every record in order. The first unparsable date aborts the conversion.
func ToDataPoints(records []RawRecord) ([]DataPoint, error) {
	points := make([]DataPoint, 0, len(records))
	for i, rec := range records {
		date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(rec.Date), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("record %d: parse date %q: %w", i, rec.Date, err)
		}
		valueTag := rec.ValueText
		if valueTag == "" {
			valueTag = strconv.FormatFloat(rec.Value, 'f', -1, 64)
		}
		points = append(points, DataPoint{
			Date:     date,
			Value:    rec.Value,
			DateTag:  rec.Date,
			ValueTag: valueTag,
		})
	}
	return points, nil
}

func dateExtent(points []DataPoint) (time.Time, time.Time) {
	if len(points) == 0 {
		return time.Time{}, time.Time{}
	}
	lo, hi := points[0].Date, points[0].Date
	for _, p := range points[1:] {
		if p.Date.Before(lo) {
			lo = p.Date
		}
		if p.Date.After(hi) {
			hi = p.Date
		}
	}
	return lo, hi
}

func maxValue(points []DataPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	hi := points[0].Value
	for _, p := range points[1:] {
		if p.Value > hi {
			hi = p.Value
		}
	}
	return hi
}
