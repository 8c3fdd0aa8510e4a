package domain

import "time"

// Candle is one daily OHLCV bar. QuoteVolume is the accumulated trade
// value in the quote currency (KRW), which is what the volume criteria
// measure.
type Candle struct {
	Time        time.Time `json:"time"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      float64   `json:"volume"`
	QuoteVolume float64   `json:"quoteVolume"`
}

// Series is an OHLCV sequence ordered oldest to newest. It is never
// mutated after fetch; indicator functions read it through the slice
// accessors below.
type Series []Candle

func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.High
	}
	return out
}

func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Low
	}
	return out
}

func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Volume
	}
	return out
}

func (s Series) QuoteVolumes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.QuoteVolume
	}
	return out
}

// Ticker is a point-in-time price snapshot for one market.
type Ticker struct {
	Market     string  `json:"market"`
	TradePrice float64 `json:"tradePrice"`
}

// Market is one entry from the exchange listing.
type Market struct {
	Code        string `json:"code"`
	KoreanName  string `json:"koreanName"`
	EnglishName string `json:"englishName"`
}

// Recommendation tiers. Boundaries are fixed constants, not
// configuration (see TierFor in usecase).
const (
	TierHighlyRecommended = "HIGHLY_RECOMMENDED"
	TierRecommended       = "RECOMMENDED"
	TierWatch             = "WATCH"
	TierReview            = "REVIEW"
)

// Spike classifications for the recent-spike criterion.
const (
	SpikeNone         = "none"
	SpikeStrongUp     = "strong_up"
	SpikeModerateUp   = "moderate_up"
	SpikeStrongDown   = "strong_down"
	SpikeModerateDown = "moderate_down"
)

// Candidate is an asset that passed every enabled criterion. It carries
// every measured value plus the derived score, tier and rationale, and
// is never mutated after the orchestrator builds it.
type Candidate struct {
	Symbol             string  `json:"symbol"`
	Name               string  `json:"name"`
	CurrentPrice       float64 `json:"currentPrice"`
	VolumeKRW          float64 `json:"volumeKrw"`
	ATH                float64 `json:"ath"`
	ATHDecline         float64 `json:"athDecline"`
	Volatility         float64 `json:"volatility"`
	CCI                float64 `json:"cci"`
	RSI                float64 `json:"rsi"`
	MarketCap          float64 `json:"marketCap"`
	VolumeGrowth       float64 `json:"volumeGrowth"`
	ConsecutiveDecline int     `json:"consecutiveDecline"`
	RecentSpike        string  `json:"recentSpike"`
	MAPosition         float64 `json:"maPosition"`
	Score              float64 `json:"score"`
	Tier               string  `json:"tier"`
	Reason             string  `json:"reason"`
}

// TierCounts buckets a candidate list by recommendation tier.
type TierCounts struct {
	HighlyRecommended int `json:"highlyRecommended"`
	Recommended       int `json:"recommended"`
	Watch             int `json:"watch"`
	Review            int `json:"review"`
}

// Report is the read-only snapshot of one screening run. Candidates are
// sorted by score descending. Commentary is filled by the narrative
// layer after scoring and never feeds back into it.
type Report struct {
	Timestamp  time.Time         `json:"timestamp"`
	Criteria   ScreeningCriteria `json:"criteria"`
	Candidates []Candidate       `json:"candidates"`
	Tiers      TierCounts        `json:"tiers"`
	Commentary string            `json:"commentary,omitempty"`
}

// TopCandidate returns the highest-scored candidate, or nil when the
// report is empty.
func (r *Report) TopCandidate() *Candidate {
	if len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}
