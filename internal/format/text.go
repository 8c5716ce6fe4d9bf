package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Countdown renders the time left until at, coarsest two units first.
func Countdown(now, at time.Time) string {
	d := at.Sub(now)
	if d <= 0 {
		return "now"
	}

	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "<1m"
	}
}

// UnixTime accepts seconds or milliseconds since the epoch.
func UnixTime(v float64) time.Time {
	if v > 1e12 {
		return time.UnixMilli(int64(v))
	}
	return time.Unix(int64(v), 0)
}

// Percent renders part/whole with one decimal, ok false when whole is zero.
func Percent(part, whole float64) (string, bool) {
	if whole <= 0 {
		return "", false
	}
	return strconv.FormatFloat(part/whole*100, 'f', 1, 64) + "%", true
}

// Integer renders a rating or counter without a fractional part.
func Integer(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}
