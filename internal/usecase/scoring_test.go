package usecase

import (
	"math"
	"strings"
	"testing"

	"upbit-gem-screener/internal/domain"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f)", label, got, want, tol)
	}
}

func TestCalculateScore_KnownValues(t *testing.T) {
	// volume 5e9 vs floor 1e8 -> capped 15
	// decline 40%           -> 6
	// volatility 60, mid 80 -> 15 - 20*0.3 = 9
	// CCI 10                -> 15 - 3 = 12
	// RSI 55                -> 15 - 1.5 = 13.5
	// cap 1.2e11            -> 15 - 0.2*10 = 13
	// growth 30%            -> 3
	m := Measurements{
		VolumeKRW:    5_000_000_000,
		ATHDecline:   40,
		Volatility:   60,
		CCI:          10,
		RSI:          55,
		MarketCap:    120_000_000_000,
		VolumeGrowth: 30,
	}
	score := CalculateScore(m, domain.DefaultCriteria())
	assertClose(t, "total score", score, 71.5, 0.0001)
	if tier := TierFor(score); tier != domain.TierRecommended {
		t.Errorf("tier: got %s, want %s", tier, domain.TierRecommended)
	}
}

func TestVolumeScore_CappedAndMonotonic(t *testing.T) {
	c := domain.DefaultCriteria()
	assertClose(t, "at floor", volumeScore(c.MinDailyVolumeKRW, c), 7.5, 0.0001)
	assertClose(t, "at twice the floor", volumeScore(c.MinDailyVolumeKRW*2, c), 15, 0.0001)
	assertClose(t, "far past the floor", volumeScore(c.MinDailyVolumeKRW*100, c), 15, 0.0001)

	prev := -1.0
	for v := 0.0; v <= c.MinDailyVolumeKRW*3; v += c.MinDailyVolumeKRW / 4 {
		s := volumeScore(v, c)
		if s < prev {
			t.Fatalf("volume score decreased: %.4f -> %.4f at volume %.0f", prev, s, v)
		}
		prev = s
	}
}

func TestVolumeScore_ZeroFloor(t *testing.T) {
	var c domain.ScreeningCriteria
	assertClose(t, "degenerate floor", volumeScore(1e9, c), 0, 0.0001)
}

func TestATHScore_Clamped(t *testing.T) {
	assertClose(t, "no decline", athScore(0), 0, 0.0001)
	assertClose(t, "negative decline", athScore(-10), 0, 0.0001)
	assertClose(t, "half decline", athScore(50), 7.5, 0.0001)
	assertClose(t, "full decline", athScore(100), 15, 0.0001)
	assertClose(t, "beyond full", athScore(250), 15, 0.0001)
}

func TestBandScores_PeakAtOptimum(t *testing.T) {
	c := domain.DefaultCriteria()
	mid := (c.VolatilityMin + c.VolatilityMax) / 2

	assertClose(t, "volatility at mid", volatilityScore(mid, c), 15, 0.0001)
	if volatilityScore(mid+30, c) >= volatilityScore(mid+10, c) {
		t.Error("volatility score should fall with distance from the band midpoint")
	}

	assertClose(t, "CCI at zero", cciScore(0), 15, 0.0001)
	if cciScore(150) >= cciScore(50) {
		t.Error("CCI score should fall with distance from zero")
	}
	assertClose(t, "CCI floor", cciScore(10000), 0, 0.0001)

	assertClose(t, "RSI at 50", rsiScore(50), 15, 0.0001)
	assertClose(t, "RSI symmetric", rsiScore(40), rsiScore(60), 0.0001)
	if rsiScore(80) >= rsiScore(60) {
		t.Error("RSI score should fall with distance from 50")
	}

	assertClose(t, "cap at optimum", marketCapScore(100_000_000_000), 15, 0.0001)
	assertClose(t, "cap 20% off", marketCapScore(120_000_000_000), 13, 0.0001)
}

func TestVolumeGrowthScore_Clamped(t *testing.T) {
	assertClose(t, "negative growth", volumeGrowthScore(-50), 0, 0.0001)
	assertClose(t, "30% growth", volumeGrowthScore(30), 3, 0.0001)
	assertClose(t, "100% growth", volumeGrowthScore(100), 10, 0.0001)
	assertClose(t, "beyond 100%", volumeGrowthScore(500), 10, 0.0001)
}

func TestTierFor_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, domain.TierHighlyRecommended},
		{80, domain.TierHighlyRecommended},
		{79.99, domain.TierRecommended},
		{60, domain.TierRecommended},
		{59.99, domain.TierWatch},
		{40, domain.TierWatch},
		{39.99, domain.TierReview},
		{0, domain.TierReview},
	}
	for _, tt := range tests {
		if got := TierFor(tt.score); got != tt.want {
			t.Errorf("TierFor(%.2f): got %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestBuildReason_PicksMatchedPhrases(t *testing.T) {
	c := domain.DefaultCriteria()

	m := Measurements{
		VolumeKRW:    300_000_000,
		ATHDecline:   60,
		RSI:          55,
		Volatility:   30,
		VolumeGrowth: 60,
	}
	got := BuildReason(m, c)
	want := "high volume, large upside room, stable RSI (55)"
	if got != want {
		t.Errorf("reason: got %q, want %q", got, want)
	}
	if n := len(strings.Split(got, ", ")); n > 3 {
		t.Errorf("reason has %d phrases, max is 3", n)
	}
}

func TestBuildReason_SecondaryPhrases(t *testing.T) {
	c := domain.DefaultCriteria()

	m := Measurements{
		VolumeKRW:  150_000_000,
		ATHDecline: 35,
		RSI:        25,
	}
	got := BuildReason(m, c)
	want := "sufficient volume, upside room, oversold zone"
	if got != want {
		t.Errorf("reason: got %q, want %q", got, want)
	}
}

func TestBuildReason_Default(t *testing.T) {
	c := domain.DefaultCriteria()

	// Nothing matches any phrase threshold.
	m := Measurements{
		VolumeKRW:    50_000_000,
		ATHDecline:   10,
		RSI:          75,
		Volatility:   75,
		VolumeGrowth: 5,
	}
	if got := BuildReason(m, c); got != "meets baseline criteria" {
		t.Errorf("reason: got %q, want the baseline fallback", got)
	}
}
