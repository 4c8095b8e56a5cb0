package repository

// Interval is a bar resolution understood by every market data provider.
type Interval string

const (
	IntervalDaily   Interval = "1day"
	IntervalWeekly  Interval = "1week"
	IntervalMonthly Interval = "1month"
)

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default interval.
func DefaultInterval() Interval { return IntervalDaily }

// NormalizeInterval converts raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}
