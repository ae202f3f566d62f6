// Package metrics computes per-claim structural scores and landscape-level
// aggregates. Every weight here is a deliberate, uncalibrated design choice:
// the formulas are meant to be transparent and stable, not tuned.
package metrics

import (
	"math"
	"sort"

	"terrain/internal/model"
)

// Support-ratio bands used to rank claim prominence. A peak additionally
// needs at least two supporters so a single enthusiastic model cannot
// manufacture consensus on its own.
const (
	PeakSupportThreshold = 0.5  // supportRatio above this is a peak
	HillSupportThreshold = 0.25 // supportRatio above this (up to peak) is a hill
	PeakMinSupporters    = 2
)

// HighSupportFraction is the share of claims treated as the high-support
// cohort (top 30% by supporter count).
const HighSupportFraction = 0.3

// Band weights for the signal-strength formula: peaks carry full weight,
// hills half, floor claims almost none.
const (
	signalPeakWeight  = 1.0
	signalHillWeight  = 0.5
	signalFloorWeight = 0.1
)

// IsPeak reports whether a claim sits in the peak band
func IsPeak(c model.EnrichedClaim) bool {
	return c.SupportRatio > PeakSupportThreshold && len(c.Supporters) >= PeakMinSupporters
}

// IsHill reports whether a claim sits in the hill band
func IsHill(c model.EnrichedClaim) bool {
	return c.SupportRatio > HillSupportThreshold && !IsPeak(c)
}

// IsFloor reports whether a claim sits in the floor band
func IsFloor(c model.EnrichedClaim) bool {
	return c.SupportRatio <= HillSupportThreshold
}

// GetTopNCount returns the size of a top-fraction cohort, never below one
// for a non-empty population.
func GetTopNCount(total int, fraction float64) int {
	if total <= 0 {
		return 0
	}
	n := int(math.Round(float64(total) * fraction))
	if n < 1 {
		n = 1
	}
	return n
}

// Percentile returns the value at percentile p (0-100) using
// nearest-rank on a sorted copy. Empty input returns 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0]
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// SignalStrength is the weighted share of claims that carry real signal,
// used to scale sparse-landscape confidence.
func SignalStrength(peaks, hills, floors int) float64 {
	total := peaks + hills + floors
	if total == 0 {
		return 0
	}
	weighted := float64(peaks)*signalPeakWeight +
		float64(hills)*signalHillWeight +
		float64(floors)*signalFloorWeight
	return weighted / float64(total)
}

// TensionDynamics classifies the dynamics of a conflict from the two sides'
// support ratios: two established positions are a standoff, one established
// position under attack is a challenge, anything else a skirmish.
func TensionDynamics(ratioA, ratioB float64) model.ConflictDynamics {
	aPeak := ratioA > PeakSupportThreshold
	bPeak := ratioB > PeakSupportThreshold
	switch {
	case aPeak && bPeak:
		return model.DynamicsStandoff
	case aPeak || bPeak:
		return model.DynamicsChallenge
	default:
		return model.DynamicsSkirmish
	}
}
