package gdpchart

import "time"

// TimeScale maps instants linearly onto a pixel range.
type TimeScale struct {
	d0, d1 time.Time
	r0, r1 float64
}

// NewTimeScale builds a scale for the domain [d0, d1] and range [r0, r1].
func NewTimeScale(d0, d1 time.Time, r0, r1 float64) TimeScale {
	return TimeScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Map returns the pixel coordinate of t. A degenerate domain maps to the range midpoint.
func (s TimeScale) Map(t time.Time) float64 {
	return interpolate(millis(s.d0), millis(s.d1), s.r0, s.r1, millis(t))
}

// Domain returns the configured domain.
func (s TimeScale) Domain() (time.Time, time.Time) {
	return s.d0, s.d1
}

// Ticks returns calendar-aligned ticks inside the domain, roughly count of them.
func (s TimeScale) Ticks(count int) []Tick {
	instants := timeTicks(s.d0, s.d1, count)
	ticks := make([]Tick, 0, len(instants))
	for _, t := range instants {
		ticks = append(ticks, Tick{
			Value:  millis(t),
			Offset: s.Map(t),
			Label:  formatTimeTick(t),
		})
	}
	return ticks
}

// LinearScale maps numbers linearly onto a pixel range.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale builds a scale for the domain [d0, d1] and range [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Map returns the pixel coordinate of v. A degenerate domain maps to the range midpoint.
func (s LinearScale) Map(v float64) float64 {
	return interpolate(s.d0, s.d1, s.r0, s.r1, v)
}

// Domain returns the configured domain.
func (s LinearScale) Domain() (float64, float64) {
	return s.d0, s.d1
}

// Ticks returns "nice" ticks inside the domain, roughly count of them.
func (s LinearScale) Ticks(count int) []Tick {
	values := linearTicks(s.d0, s.d1, count)
	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{
			Value:  v,
			Offset: s.Map(v),
			Label:  formatNumberTick(v),
		})
	}
	return ticks
}

func interpolate(d0, d1, r0, r1, x float64) float64 {
	span := d1 - d0
	if span == 0 {
		return (r0 + r1) / 2
	}
	return r0 + (x-d0)/span*(r1-r0)
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}
