package value

import (
	"fmt"
	"time"
)

// Duration is a signed span of time with at least a 64-bit-seconds range
// (Go's time.Duration is an int64 count of nanoseconds and only spans
// about 292 years, which does not meet that bound, so Duration is its own
// seconds+nanoseconds pair instead of a thin wrapper over time.Duration).
type Duration struct {
	Seconds int64
	Nanos   int32 // always in [0, 1e9) with the same sign folded into Seconds
}

// NewDuration normalises (seconds, nanos) so Nanos is always non-negative.
func NewDuration(seconds int64, nanos int32) Duration {
	for nanos < 0 {
		nanos += 1_000_000_000
		seconds--
	}
	for nanos >= 1_000_000_000 {
		nanos -= 1_000_000_000
		seconds++
	}
	return Duration{Seconds: seconds, Nanos: nanos}
}

// NewDurationSeconds builds a Duration of whole seconds.
func NewDurationSeconds(seconds int64) Duration { return Duration{Seconds: seconds} }

func (d Duration) Kind() Kind { return KindDuration }

func (d Duration) Equal(other Value) bool {
	od, ok := other.(Duration)
	return ok && d.Seconds == od.Seconds && d.Nanos == od.Nanos
}

func (d Duration) String() string { return fmt.Sprintf("dur(%ds%dns)", d.Seconds, d.Nanos) }

func (d Duration) Compare(other Duration) int {
	switch {
	case d.Seconds != other.Seconds:
		if d.Seconds < other.Seconds {
			return -1
		}
		return 1
	case d.Nanos != other.Nanos:
		if d.Nanos < other.Nanos {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (d Duration) Add(other Duration) Duration {
	return NewDuration(d.Seconds+other.Seconds, d.Nanos+other.Nanos)
}

func (d Duration) Sub(other Duration) Duration {
	return NewDuration(d.Seconds-other.Seconds, d.Nanos-other.Nanos)
}

func (d Duration) Neg() Duration { return NewDuration(-d.Seconds, -d.Nanos) }

// AsTimeDuration converts to time.Duration, saturating rather than
// overflowing for spans beyond time.Duration's ~292 year range.
func (d Duration) AsTimeDuration() time.Duration {
	const maxSec = int64(1<<63-1) / int64(time.Second)
	if d.Seconds > maxSec {
		return time.Duration(1<<63 - 1)
	}
	if d.Seconds < -maxSec {
		return time.Duration(-(1<<63 - 1))
	}
	return time.Duration(d.Seconds)*time.Second + time.Duration(d.Nanos)
}

// truncSeconds is the whole-second count truncated toward zero. The
// normalised form folds a negative fraction into Seconds (-0.5s is
// stored as {-1s, +5e8ns}), so negative durations with a fractional
// part need the second added back.
func (d Duration) truncSeconds() int64 {
	if d.Seconds < 0 && d.Nanos > 0 {
		return d.Seconds + 1
	}
	return d.Seconds
}

// TotalDays/Hours/Minutes/Seconds truncate toward zero, per the
// Duration-extraction table.
func (d Duration) TotalSeconds() int64 { return d.truncSeconds() }
func (d Duration) TotalMinutes() int64 { return d.truncSeconds() / 60 }
func (d Duration) TotalHours() int64   { return d.truncSeconds() / 3600 }
func (d Duration) TotalDays() int64    { return d.truncSeconds() / 86400 }
func (d Duration) TotalWeeks() int64   { return d.truncSeconds() / (86400 * 7) }
