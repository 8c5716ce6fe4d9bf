// Package rating maps a ladder rating onto its named tier and division.
package rating

import (
	"math"
)

type Tier struct {
	Name string
	Min  float64
	Max  float64
}

// Tiers are ordered and contiguous. Coal is open below, Netherite above.
var Tiers = []Tier{
	{Name: "Coal", Min: math.Inf(-1), Max: 599},
	{Name: "Iron", Min: 600, Max: 899},
	{Name: "Gold", Min: 900, Max: 1199},
	{Name: "Emerald", Min: 1200, Max: 1399},
	{Name: "Diamond", Min: 1400, Max: 1599},
	{Name: "Netherite", Min: 1600, Max: math.Inf(1)},
}

// Division labels by bucket. I is the lowest third of a tier.
var divisions = []string{"I", "II", "III"}

// netheriteSpan keeps division arithmetic finite for the open top tier.
const netheriteSpan = 600

const Unranked = "Unranked"

// TierFor returns the tier a rating falls into. A rating belongs to the last
// tier whose lower bound it reaches, so values between integer bounds
// (599.5) still land somewhere.
func TierFor(r float64) (Tier, bool) {
	if math.IsNaN(r) {
		return Tier{}, false
	}
	for i := len(Tiers) - 1; i >= 0; i-- {
		if r >= Tiers[i].Min {
			return Tiers[i], true
		}
	}
	return Tier{}, false
}

// Division returns I, II or III for r within t.
func Division(t Tier, r float64) string {
	low := math.Max(t.Min, 0)
	high := t.Max
	if math.IsInf(high, 1) {
		high = low + netheriteSpan
	}

	size := math.Max(1, math.Floor((high-low+1)/3))
	pos := int(math.Max(0, math.Min(2, math.Floor((r-low)/size))))
	if pos < 0 || pos >= len(divisions) {
		return ""
	}
	return divisions[pos]
}

// Label renders "{tier} {division}". ok is false for absent or non-finite
// ratings; callers show Unranked.
func Label(r float64, ok bool) (string, bool) {
	if !ok || math.IsNaN(r) || math.IsInf(r, 0) {
		return "", false
	}
	t, found := TierFor(r)
	if !found {
		return "", false
	}
	if div := Division(t, r); div != "" {
		return t.Name + " " + div, true
	}
	return t.Name, true
}

// LabelOrUnranked is Label with the Unranked fallback applied.
func LabelOrUnranked(r float64, ok bool) string {
	if label, found := Label(r, ok); found {
		return label
	}
	return Unranked
}
