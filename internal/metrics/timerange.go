// Package metrics provides the time-range engine, the metrics snapshot model and
// the aggregation that turns recorded bundle executions into snapshots.
package metrics

import (
	"fmt"
	"time"
)

// Period is a named, relative time window ending at "now".
type Period string

const (
	Period1h     Period = "1h"
	Period4h     Period = "4h"
	Period12h    Period = "12h"
	Period24h    Period = "24h"
	Period7d     Period = "7d"
	Period30d    Period = "30d"
	PeriodAll    Period = "all"
	PeriodCustom Period = "custom"
)

// DefaultPeriod is used at startup and whenever a period cannot be resolved.
const DefaultPeriod = Period24h

// Granularity is the bucket width used to sample a range.
type Granularity int

const (
	GranularityMinute Granularity = iota
	GranularityHour
	GranularityDay
	GranularityWeek
)

// Duration returns the bucket width.
func (g Granularity) Duration() time.Duration {
	switch g {
	case GranularityMinute:
		return time.Minute
	case GranularityHour:
		return time.Hour
	case GranularityDay:
		return 24 * time.Hour
	case GranularityWeek:
		return 7 * 24 * time.Hour
	default:
		return time.Hour
	}
}

// String returns the granularity name.
func (g Granularity) String() string {
	switch g {
	case GranularityMinute:
		return "minute"
	case GranularityHour:
		return "hour"
	case GranularityDay:
		return "day"
	case GranularityWeek:
		return "week"
	default:
		return "hour"
	}
}

// MarshalText encodes the granularity by name.
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a granularity name.
func (g *Granularity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "minute":
		*g = GranularityMinute
	case "hour":
		*g = GranularityHour
	case "day":
		*g = GranularityDay
	case "week":
		*g = GranularityWeek
	default:
		return fmt.Errorf("unknown granularity %q", string(text))
	}
	return nil
}

type periodDef struct {
	duration    time.Duration
	granularity Granularity
	label       string
}

var periodTable = map[Period]periodDef{
	Period1h:  {time.Hour, GranularityMinute, "Last Hour"},
	Period4h:  {4 * time.Hour, GranularityMinute, "Last 4 Hours"},
	Period12h: {12 * time.Hour, GranularityHour, "Last 12 Hours"},
	Period24h: {24 * time.Hour, GranularityHour, "Last 24 Hours"},
	Period7d:  {7 * 24 * time.Hour, GranularityDay, "Last 7 Days"},
	Period30d: {30 * 24 * time.Hour, GranularityDay, "Last 30 Days"},
	PeriodAll: {365 * 24 * time.Hour, GranularityWeek, "All Time"},
}

// AllPeriods returns the selectable periods, narrowest first.
func AllPeriods() []Period {
	return []Period{Period1h, Period4h, Period12h, Period24h, Period7d, Period30d, PeriodAll}
}

// Valid reports whether p is one of the named relative periods.
func (p Period) Valid() bool {
	_, ok := periodTable[p]
	return ok
}

// Duration returns the window length, falling back to the 24h definition.
func (p Period) Duration() time.Duration {
	if def, ok := periodTable[p]; ok {
		return def.duration
	}
	return periodTable[DefaultPeriod].duration
}

// Next returns the following period in AllPeriods order, wrapping around.
func (p Period) Next() Period {
	all := AllPeriods()
	for i, candidate := range all {
		if candidate == p {
			return all[(i+1)%len(all)]
		}
	}
	return DefaultPeriod
}

// ParsePeriod parses a period name. Unknown names return an error; callers are
// expected to fall back to DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.Valid() {
		return DefaultPeriod, fmt.Errorf("unknown time range period %q", s)
	}
	return p, nil
}

// TimeRange is a concrete window with its sampling granularity.
// It is a value type: callers replace it, never mutate it.
type TimeRange struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Period      Period      `json:"period"`
	Granularity Granularity `json:"granularity"`
}

// ResolvePeriod converts a named period into a concrete range ending at now.
// Unknown periods resolve with the 24h definition.
func ResolvePeriod(p Period, now time.Time) TimeRange {
	def, ok := periodTable[p]
	if !ok {
		p = DefaultPeriod
		def = periodTable[p]
	}
	return TimeRange{
		Start:       now.Add(-def.duration),
		End:         now,
		Period:      p,
		Granularity: def.granularity,
	}
}

// NewCustomRange builds a range with explicit bounds. Granularity follows the
// same thresholds as the named periods.
func NewCustomRange(start, end time.Time) (TimeRange, error) {
	r := TimeRange{Start: start, End: end, Period: PeriodCustom}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	r.Granularity = granularityForSpan(end.Sub(start))
	return r, nil
}

func granularityForSpan(span time.Duration) Granularity {
	switch {
	case span <= 4*time.Hour:
		return GranularityMinute
	case span <= 24*time.Hour:
		return GranularityHour
	case span <= 30*24*time.Hour:
		return GranularityDay
	default:
		return GranularityWeek
	}
}

// FormatPeriod returns the display label for a range.
func FormatPeriod(r TimeRange) string {
	if def, ok := periodTable[r.Period]; ok {
		return def.label
	}
	return "Custom Range"
}

// Validate checks the start < end invariant.
func (r TimeRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("time range bounds must be set")
	}
	if !r.Start.Before(r.End) {
		return fmt.Errorf("time range start %s must be before end %s",
			r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	}
	return nil
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Contains reports whether t lies in [Start, End].
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Equal compares all fields, using time.Time.Equal for the bounds.
func (r TimeRange) Equal(o TimeRange) bool {
	return r.Period == o.Period &&
		r.Granularity == o.Granularity &&
		r.Start.Equal(o.Start) &&
		r.End.Equal(o.End)
}

// Key identifies the selection a range represents. Relative periods share a key
// regardless of when they were resolved; custom ranges are keyed by bounds.
func (r TimeRange) Key() string {
	if r.Period.Valid() {
		return string(r.Period)
	}
	return fmt.Sprintf("custom:%d-%d", r.Start.Unix(), r.End.Unix())
}

// Buckets returns the start time of every granularity bucket covering the range,
// aligned to the range start.
func (r TimeRange) Buckets() []time.Time {
	width := r.Granularity.Duration()
	if r.Validate() != nil || width <= 0 {
		return nil
	}
	n := int((r.Duration() + width - 1) / width)
	buckets := make([]time.Time, n)
	for i := range buckets {
		buckets[i] = r.Start.Add(time.Duration(i) * width)
	}
	return buckets
}

// BucketIndex returns the bucket t falls into, or -1 when outside the range.
func (r TimeRange) BucketIndex(t time.Time) int {
	if !r.Contains(t) {
		return -1
	}
	width := r.Granularity.Duration()
	idx := int(t.Sub(r.Start) / width)
	if n := int((r.Duration() + width - 1) / width); idx >= n {
		idx = n - 1
	}
	return idx
}

// String returns a short description for logs.
func (r TimeRange) String() string {
	return fmt.Sprintf("%s [%s .. %s] by %s", r.Period,
		r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339), r.Granularity)
}
