package value

import "time"

// DateTime is a UTC instant with nanosecond resolution.
type DateTime struct {
	t time.Time
}

func NewDateTime(t time.Time) DateTime { return DateTime{t: t.UTC()} }

// NewDateTimeUnix builds a DateTime from seconds since the Unix epoch.
func NewDateTimeUnix(sec int64) DateTime { return DateTime{t: time.Unix(sec, 0).UTC()} }

// ParseDateTime parses an RFC-3339 timestamp.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{t: t.UTC()}, nil
}

func (d DateTime) Time() time.Time { return d.t }

func (d DateTime) Kind() Kind { return KindDateTime }

func (d DateTime) Equal(other Value) bool {
	od, ok := other.(DateTime)
	return ok && d.t.Equal(od.t)
}

func (d DateTime) String() string { return "t" + d.t.Format(time.RFC3339Nano) }

func (d DateTime) Compare(other DateTime) int {
	switch {
	case d.t.Before(other.t):
		return -1
	case d.t.After(other.t):
		return 1
	default:
		return 0
	}
}

// UnixSeconds returns seconds since the Unix epoch.
func (d DateTime) UnixSeconds() int64 { return d.t.Unix() }

func (d DateTime) Add(dur Duration) DateTime {
	return DateTime{t: d.t.Add(dur.AsTimeDuration())}
}

func (d DateTime) Sub(other DateTime) Duration {
	return NewDuration(d.t.Unix()-other.t.Unix(), int32(d.t.Nanosecond()-other.t.Nanosecond()))
}

func (d DateTime) Year() int64   { return int64(d.t.Year()) }
func (d DateTime) Month() int64  { return int64(d.t.Month()) }
func (d DateTime) Day() int64    { return int64(d.t.Day()) }
func (d DateTime) Hour() int64   { return int64(d.t.Hour()) }
func (d DateTime) Minute() int64 { return int64(d.t.Minute()) }
func (d DateTime) Second() int64 { return int64(d.t.Second()) }

// Week returns the ISO-8601 week number.
func (d DateTime) Week() int64 {
	_, w := d.t.ISOWeek()
	return int64(w)
}
