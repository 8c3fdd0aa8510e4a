package usecase

import (
	"fmt"
	"math"
	"strings"

	"upbit-gem-screener/internal/domain"
)

// Per-dimension caps and slopes. The specific numbers are inherited
// heuristics; only the shape of each rule is load-bearing — monotonic
// scaling for more-is-better dimensions, distance-from-optimum for
// banded ones.
const (
	dimensionCap     = 15.0
	volumeGrowthCap  = 10.0
	rsiOptimum       = 50.0
	bandPenaltySlope = 0.3
	marketCapOptimum = 100_000_000_000
	marketCapSlope   = 10.0
)

// Measurements carries the per-dimension measured values of one asset
// into the composite scorer.
type Measurements struct {
	VolumeKRW    float64
	ATHDecline   float64
	Volatility   float64
	CCI          float64
	RSI          float64
	MarketCap    float64
	VolumeGrowth float64
}

// CalculateScore sums the capped per-dimension sub-scores. The result
// is nominally 0-100 but deliberately not clamped, so relative ranking
// survives when many dimensions max out.
func CalculateScore(m Measurements, c domain.ScreeningCriteria) float64 {
	return volumeScore(m.VolumeKRW, c) +
		athScore(m.ATHDecline) +
		volatilityScore(m.Volatility, c) +
		cciScore(m.CCI) +
		rsiScore(m.RSI) +
		marketCapScore(m.MarketCap) +
		volumeGrowthScore(m.VolumeGrowth)
}

// Monotonic: full cap at twice the floor, diminishing past it.
func volumeScore(volume float64, c domain.ScreeningCriteria) float64 {
	if c.MinDailyVolumeKRW <= 0 {
		return 0
	}
	return math.Min(dimensionCap, volume/c.MinDailyVolumeKRW*dimensionCap/2)
}

// Monotonic: a full 100% decline would hit the cap.
func athScore(decline float64) float64 {
	return clamp(decline/100*dimensionCap, 0, dimensionCap)
}

// Distance from the band midpoint.
func volatilityScore(volatility float64, c domain.ScreeningCriteria) float64 {
	mid := (c.VolatilityMin + c.VolatilityMax) / 2
	return math.Max(0, dimensionCap-math.Abs(volatility-mid)*bandPenaltySlope)
}

// Distance from zero.
func cciScore(cci float64) float64 {
	return math.Max(0, dimensionCap-math.Abs(cci)*bandPenaltySlope)
}

// Distance from the neutral 50.
func rsiScore(rsi float64) float64 {
	return math.Max(0, dimensionCap-math.Abs(rsi-rsiOptimum)*bandPenaltySlope)
}

// Distance from the target size, relative.
func marketCapScore(marketCap float64) float64 {
	return math.Max(0, dimensionCap-math.Abs(marketCap-marketCapOptimum)/marketCapOptimum*marketCapSlope)
}

// Monotonic: +100% growth hits the cap.
func volumeGrowthScore(growth float64) float64 {
	return clamp(growth/100*volumeGrowthCap, 0, volumeGrowthCap)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TierFor maps an overall score to its recommendation tier. The
// boundaries are fixed, not configuration.
func TierFor(score float64) string {
	switch {
	case score >= 80:
		return domain.TierHighlyRecommended
	case score >= 60:
		return domain.TierRecommended
	case score >= 40:
		return domain.TierWatch
	default:
		return domain.TierReview
	}
}

// BuildReason assembles a short human-readable rationale from up to
// three matched secondary thresholds.
func BuildReason(m Measurements, c domain.ScreeningCriteria) string {
	var reasons []string

	if m.VolumeKRW > c.MinDailyVolumeKRW*2 {
		reasons = append(reasons, "high volume")
	} else if m.VolumeKRW > c.MinDailyVolumeKRW {
		reasons = append(reasons, "sufficient volume")
	}

	if m.ATHDecline > 50 {
		reasons = append(reasons, "large upside room")
	} else if m.ATHDecline > 30 {
		reasons = append(reasons, "upside room")
	}

	if m.RSI >= 30 && m.RSI <= 70 {
		reasons = append(reasons, fmt.Sprintf("stable RSI (%.0f)", m.RSI))
	} else if m.RSI < 30 {
		reasons = append(reasons, "oversold zone")
	}

	if m.Volatility < 50 {
		reasons = append(reasons, "stable volatility")
	} else if m.Volatility > 100 {
		reasons = append(reasons, "high volatility")
	}

	if m.VolumeGrowth > 50 {
		reasons = append(reasons, "volume surge")
	} else if m.VolumeGrowth > 20 {
		reasons = append(reasons, "volume building")
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	if len(reasons) == 0 {
		return "meets baseline criteria"
	}
	return strings.Join(reasons, ", ")
}
