package format

import (
	"fmt"
	"math"
)

// Placeholder stands in for values that cannot be rendered.
const Placeholder = "—"

const (
	minPlausibleMinutes = 1.0 / 60
	maxPlausibleMinutes = 240
	// raw values at or above this are taken to be microseconds in the fallback
	fallbackMicrosAbove = 100_000_000
	// renders as 16666666:40; anything larger is clamped here so the
	// integer split below cannot overflow
	maxRenderMillis = 1e12
)

// unitScales are tried in order: milliseconds, seconds, centiseconds.
var unitScales = []float64{1, 1000, 10}

// Milliseconds infers the unit of raw and converts it. The first unit
// whose result lies between one second and four hours wins.
func Milliseconds(raw float64) (float64, bool) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, false
	}
	for _, scale := range unitScales {
		ms := raw * scale
		minutes := ms / 60000
		if minutes >= minPlausibleMinutes && minutes <= maxPlausibleMinutes {
			return ms, true
		}
	}
	if raw < fallbackMicrosAbove {
		return raw, true
	}
	return raw / 1000, true
}

// Duration renders raw as mm:ss, or mm:ss.t when tenths is set.
func Duration(raw float64, tenths bool) string {
	ms, ok := Milliseconds(raw)
	if !ok {
		return Placeholder
	}
	ms = math.Min(math.Max(ms, 0), maxRenderMillis)

	total := int64(math.Floor(ms))
	minutes := total / 60000
	seconds := (total % 60000) / 1000
	if !tenths {
		return fmt.Sprintf("%02d:%02d", minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d.%d", minutes, seconds, (total%1000)/100)
}
