package domain

// ScreeningCriteria holds the thresholds and toggles for one screening
// pass. A criteria value is immutable during a pass; the fallback flow
// simply runs a second pass with a different value.
type ScreeningCriteria struct {
	MinDailyVolumeKRW float64 `json:"minDailyVolumeKrw"`
	VolumeWindowDays  int     `json:"volumeWindowDays"`

	MinDeclineFromATH float64 `json:"minDeclineFromAth"`
	ATHWindowDays     int     `json:"athWindowDays"`

	VolatilityMin  float64 `json:"volatilityMin"`
	VolatilityMax  float64 `json:"volatilityMax"`
	VolatilityDays int     `json:"volatilityDays"`

	CCIMin    float64 `json:"cciMin"`
	CCIMax    float64 `json:"cciMax"`
	CCIPeriod int     `json:"cciPeriod"`

	RSIMin    float64 `json:"rsiMin"`
	RSIMax    float64 `json:"rsiMax"`
	RSIPeriod int     `json:"rsiPeriod"`

	MinMarketCapKRW float64 `json:"minMarketCapKrw"`
	MaxMarketCapKRW float64 `json:"maxMarketCapKrw"`

	VolumeGrowthMin  float64 `json:"volumeGrowthMin"`
	VolumeGrowthDays int     `json:"volumeGrowthDays"`

	MaxConsecutiveDecline int     `json:"maxConsecutiveDecline"`
	MaxRecentSpike        float64 `json:"maxRecentSpike"`
	RecentSpikeDays       int     `json:"recentSpikeDays"`

	RequireAboveMA bool `json:"requireAboveMa"`
	MAPeriod       int  `json:"maPeriod"`

	// The original screener hardcoded these four checks to pass; they
	// are modeled as explicit toggles so the short-circuit chain stays
	// meaningful whichever set is active.
	CheckMarketCap          bool `json:"checkMarketCap"`
	CheckConsecutiveDecline bool `json:"checkConsecutiveDecline"`
	CheckRecentSpike        bool `json:"checkRecentSpike"`
	CheckMovingAverage      bool `json:"checkMovingAverage"`
}

// DefaultCriteria is the primary screening pass.
func DefaultCriteria() ScreeningCriteria {
	return ScreeningCriteria{
		MinDailyVolumeKRW: 100_000_000,
		VolumeWindowDays:  7,

		MinDeclineFromATH: 20,
		ATHWindowDays:     200,

		VolatilityMin:  10,
		VolatilityMax:  150,
		VolatilityDays: 30,

		CCIMin:    -200,
		CCIMax:    200,
		CCIPeriod: 20,

		RSIMin:    20,
		RSIMax:    80,
		RSIPeriod: 14,

		MinMarketCapKRW: 10_000_000_000,
		MaxMarketCapKRW: 500_000_000_000,

		VolumeGrowthMin:  20,
		VolumeGrowthDays: 7,

		MaxConsecutiveDecline: 5,
		MaxRecentSpike:        30,
		RecentSpikeDays:       3,

		RequireAboveMA: true,
		MAPeriod:       20,
	}
}

// RelaxedCriteria is the looser fallback pass used when the primary
// pass yields no candidates.
func RelaxedCriteria() ScreeningCriteria {
	c := DefaultCriteria()
	c.MinDailyVolumeKRW = 30_000_000
	c.MinDeclineFromATH = 15
	c.RSIMin = 20
	c.RSIMax = 80
	c.MinMarketCapKRW = 20_000_000_000
	c.MaxMarketCapKRW = 1_000_000_000_000
	c.VolumeGrowthMin = 10
	c.VolatilityMin = 5
	c.VolatilityMax = 150
	return c
}
