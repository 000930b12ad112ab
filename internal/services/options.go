package services

import "time"

type options struct {
	now      func() time.Time
	location *time.Location
}

type Option func(*options)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLocation sets the calendar used to compute "today". Defaults to UTC.
func WithLocation(location *time.Location) Option {
	return func(o *options) {
		if location != nil {
			o.location = location
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timestamp returns the current time as stored: UTC, millisecond precision.
func (o options) timestamp() time.Time {
	return normalizeTime(o.now())
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// dayBounds returns [start, end) of the calendar day containing now in loc.
func dayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC()
}

// laterThan returns now, or the smallest stored instant after prev when the
// clock has not moved past it yet.
func laterThan(now, prev time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Millisecond)
}
