package gdpchart

import (
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

const maxTicks = 1000

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns the nice step for count ticks over [start, stop]. Steps below
// one are returned as the negated inverse so callers can divide instead of multiply.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

func linearTicks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}

	var out []float64
	if inc > 0 {
		r0, r1 := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := 0.0; r0+i <= r1 && len(out) < maxTicks; i++ {
			out = append(out, (r0+i)*inc)
		}
	} else {
		inv := -inc
		r0, r1 := math.Ceil(start*inv), math.Floor(stop*inv)
		for i := 0.0; r0+i <= r1 && len(out) < maxTicks; i++ {
			out = append(out, (r0+i)/inv)
		}
	}
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func formatNumberTick(v float64) string {
	if v == 0 {
		return "0"
	}
	return humanize.Commaf(v)
}

type timeUnit int

const (
	unitSecond timeUnit = iota
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

const (
	msSecond = 1000.0
	msMinute = 60 * msSecond
	msHour   = 60 * msMinute
	msDay    = 24 * msHour
	msWeek   = 7 * msDay
	msMonth  = 30 * msDay
	msYear   = 365 * msDay
)

type timeInterval struct {
	unit   timeUnit
	step   int
	millis float64
}

var tickIntervals = []timeInterval{
	{unitSecond, 1, msSecond},
	{unitSecond, 5, 5 * msSecond},
	{unitSecond, 15, 15 * msSecond},
	{unitSecond, 30, 30 * msSecond},
	{unitMinute, 1, msMinute},
	{unitMinute, 5, 5 * msMinute},
	{unitMinute, 15, 15 * msMinute},
	{unitMinute, 30, 30 * msMinute},
	{unitHour, 1, msHour},
	{unitHour, 3, 3 * msHour},
	{unitHour, 6, 6 * msHour},
	{unitHour, 12, 12 * msHour},
	{unitDay, 1, msDay},
	{unitDay, 2, 2 * msDay},
	{unitWeek, 1, msWeek},
	{unitMonth, 1, msMonth},
	{unitMonth, 3, 3 * msMonth},
	{unitYear, 1, msYear},
}

func chooseInterval(start, stop time.Time, count int) timeInterval {
	target := (millis(stop) - millis(start)) / float64(count)
	i := sort.Search(len(tickIntervals), func(i int) bool {
		return tickIntervals[i].millis > target
	})
	switch {
	case i == len(tickIntervals):
		step := tickIncrement(millis(start)/msYear, millis(stop)/msYear, count)
		if step < 1 {
			step = 1
		}
		return timeInterval{unitYear, int(step), step * msYear}
	case i == 0:
		return tickIntervals[0]
	}
	if target/tickIntervals[i-1].millis < tickIntervals[i].millis/target {
		return tickIntervals[i-1]
	}
	return tickIntervals[i]
}

func timeTicks(start, stop time.Time, count int) []time.Time {
	if count <= 0 || start.IsZero() && stop.IsZero() {
		return nil
	}
	if stop.Before(start) {
		start, stop = stop, start
	}
	if start.Equal(stop) {
		return []time.Time{start}
	}
	iv := chooseInterval(start, stop, count)
	var out []time.Time
	for t := iv.ceil(start); !t.After(stop) && len(out) < maxTicks; t = iv.next(t) {
		out = append(out, t)
	}
	return out
}

func (iv timeInterval) floor(t time.Time) time.Time {
	t = floorUnit(t.UTC(), iv.unit)
	for mod(unitField(t, iv.unit), iv.step) != 0 {
		t = shiftUnit(t, iv.unit, -1)
	}
	return t
}

func (iv timeInterval) ceil(t time.Time) time.Time {
	f := iv.floor(t)
	if f.Before(t) {
		return iv.next(f)
	}
	return f
}

func (iv timeInterval) next(t time.Time) time.Time {
	t = shiftUnit(t, iv.unit, 1)
	for mod(unitField(t, iv.unit), iv.step) != 0 {
		t = shiftUnit(t, iv.unit, 1)
	}
	return t
}

func floorUnit(t time.Time, unit timeUnit) time.Time {
	y, mo, d := t.Date()
	switch unit {
	case unitSecond:
		return t.Truncate(time.Second)
	case unitMinute:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, time.UTC)
	case unitHour:
		return time.Date(y, mo, d, t.Hour(), 0, 0, 0, time.UTC)
	case unitDay:
		return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	case unitWeek:
		return time.Date(y, mo, d-int(t.Weekday()), 0, 0, 0, 0, time.UTC)
	case unitMonth:
		return time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

func shiftUnit(t time.Time, unit timeUnit, n int) time.Time {
	switch unit {
	case unitSecond:
		return t.Add(time.Duration(n) * time.Second)
	case unitMinute:
		return t.Add(time.Duration(n) * time.Minute)
	case unitHour:
		return t.Add(time.Duration(n) * time.Hour)
	case unitDay:
		return t.AddDate(0, 0, n)
	case unitWeek:
		return t.AddDate(0, 0, 7*n)
	case unitMonth:
		return t.AddDate(0, n, 0)
	default:
		return t.AddDate(n, 0, 0)
	}
}

func unitField(t time.Time, unit timeUnit) int {
	switch unit {
	case unitSecond:
		return t.Second()
	case unitMinute:
		return t.Minute()
	case unitHour:
		return t.Hour()
	case unitDay:
		return t.Day() - 1
	case unitWeek:
		return 0
	case unitMonth:
		return int(t.Month()) - 1
	default:
		return t.Year()
	}
}

func mod(a, b int) int {
	if b <= 1 {
		return 0
	}
	return ((a % b) + b) % b
}

// formatTimeTick labels a tick with the coarsest calendar field it does not sit on a boundary of.
func formatTimeTick(t time.Time) string {
	t = t.UTC()
	switch {
	case t.Nanosecond() != 0:
		return t.Format(".000")
	case t.Second() != 0:
		return t.Format(":05")
	case t.Minute() != 0:
		return t.Format("03:04")
	case t.Hour() != 0:
		return t.Format("03 PM")
	case t.Day() != 1:
		if t.Weekday() != time.Sunday {
			return t.Format("Mon 02")
		}
		return t.Format("Jan 02")
	case t.Month() != time.January:
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}
