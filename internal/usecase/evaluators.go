package usecase

import (
	"math"

	"upbit-gem-screener/internal/domain"
	"upbit-gem-screener/internal/infrastructure/indicators"
)

// Criterion names, used for rejection logging and metrics labels. The
// evaluation order in screenMarket follows this order.
const (
	CriterionVolume             = "volume"
	CriterionATHDecline         = "ath_decline"
	CriterionVolatility         = "volatility"
	CriterionCCI                = "cci"
	CriterionRSI                = "rsi"
	CriterionMarketCap          = "market_cap"
	CriterionVolumeGrowth       = "volume_growth"
	CriterionConsecutiveDecline = "consecutive_decline"
	CriterionRecentSpike        = "recent_spike"
	CriterionMovingAverage      = "ma_position"

	// Not a criterion: a survivor whose ticker fetch failed.
	rejectionTicker = "ticker"
)

// assumedSupply stands in for circulating supply when estimating market
// cap; Upbit exposes no supply data.
const assumedSupply = 1_000_000

// indicatorHistoryDays is the candle depth fetched for CCI/RSI.
const indicatorHistoryDays = 50

// Every evaluator has the shape (pass, measured value) and degrades any
// fetch error or short history to (false, zero value). Nothing here
// panics or returns an error to the orchestrator.

// checkVolume measures the trailing average daily notional volume in
// KRW and requires it to meet the configured floor.
func (uc *ScreenerUsecase) checkVolume(market string, c domain.ScreeningCriteria) (bool, float64) {
	series, err := uc.fetchCandles(market, c.VolumeWindowDays)
	if err != nil || len(series) == 0 {
		return false, 0
	}

	avg := indicators.Mean(series.QuoteVolumes())
	return avg >= c.MinDailyVolumeKRW, avg
}

// checkATHDecline measures the percent drop from the lookback high to
// the latest close and requires it to meet the configured floor.
func (uc *ScreenerUsecase) checkATHDecline(market string, c domain.ScreeningCriteria) (bool, float64, float64) {
	series, err := uc.fetchCandles(market, c.ATHWindowDays)
	if err != nil || len(series) == 0 {
		return false, 0, 0
	}

	ath := 0.0
	for _, h := range series.Highs() {
		if h > ath {
			ath = h
		}
	}
	if ath <= 0 {
		return false, 0, 0
	}

	current := series[len(series)-1].Close
	decline := (ath - current) / ath * 100
	return decline >= c.MinDeclineFromATH, ath, decline
}

// checkVolatility measures the annualized standard deviation of daily
// returns (percent) and requires it inside the configured band.
func (uc *ScreenerUsecase) checkVolatility(market string, c domain.ScreeningCriteria) (bool, float64) {
	series, err := uc.fetchCandles(market, c.VolatilityDays)
	if err != nil || len(series) < 3 {
		return false, 0
	}

	closes := series.Closes()
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return false, 0
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}

	mean := indicators.Mean(returns)
	sumSq := 0.0
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	// Sample standard deviation, annualized to percent.
	std := math.Sqrt(sumSq / float64(len(returns)-1))
	volatility := std * math.Sqrt(252) * 100

	return c.VolatilityMin <= volatility && volatility <= c.VolatilityMax, volatility
}

// checkCCI measures the latest CCI value and requires it inside the
// configured band.
func (uc *ScreenerUsecase) checkCCI(market string, c domain.ScreeningCriteria) (bool, float64) {
	series, err := uc.fetchCandles(market, indicatorHistoryDays)
	if err != nil || len(series) < c.CCIPeriod {
		return false, 0
	}

	cci := indicators.CalculateCCI(series.Highs(), series.Lows(), series.Closes(), c.CCIPeriod)
	current := cci[len(cci)-1]
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return false, 0
	}

	return c.CCIMin <= current && current <= c.CCIMax, current
}

// checkRSI measures the latest RSI value and requires it inside the
// configured band.
func (uc *ScreenerUsecase) checkRSI(market string, c domain.ScreeningCriteria) (bool, float64) {
	series, err := uc.fetchCandles(market, indicatorHistoryDays)
	if err != nil || len(series) < c.RSIPeriod+1 {
		return false, 0
	}

	rsi := indicators.CalculateRSI(series.Closes(), c.RSIPeriod)
	current := rsi[len(rsi)-1]

	return c.RSIMin <= current && current <= c.RSIMax, current
}

// checkMarketCap estimates market cap as price times an assumed supply
// and requires it inside the configured band.
func (uc *ScreenerUsecase) checkMarketCap(market string, c domain.ScreeningCriteria) (bool, float64) {
	tickers, err := uc.source.Tickers([]string{market})
	if err != nil || len(tickers) == 0 {
		uc.countFetchError()
		return false, 0
	}

	estimated := tickers[0].TradePrice * assumedSupply
	return c.MinMarketCapKRW <= estimated && estimated <= c.MaxMarketCapKRW, estimated
}

// checkVolumeGrowth measures the percent change of the recent N-day
// average volume against the prior N days and requires it to meet the
// configured floor.
func (uc *ScreenerUsecase) checkVolumeGrowth(market string, c domain.ScreeningCriteria) (bool, float64) {
	days := c.VolumeGrowthDays
	series, err := uc.fetchCandles(market, days*2)
	if err != nil || len(series) < days*2 {
		return false, 0
	}

	volumes := series.Volumes()
	n := len(volumes)
	recent := indicators.Mean(volumes[n-days:])
	previous := indicators.Mean(volumes[n-2*days : n-days])
	if previous <= 0 {
		return false, 0
	}

	growth := (recent - previous) / previous * 100
	return growth >= c.VolumeGrowthMin, growth
}

// checkConsecutiveDecline counts trailing days of monotonically falling
// closes and requires the streak to stay under the configured max.
func (uc *ScreenerUsecase) checkConsecutiveDecline(market string, c domain.ScreeningCriteria) (bool, int) {
	series, err := uc.fetchCandles(market, c.MaxConsecutiveDecline*2)
	if err != nil || len(series) < 2 {
		return false, 0
	}

	count := 0
	for i := len(series) - 1; i > 0 && count < c.MaxConsecutiveDecline; i-- {
		if series[i].Close < series[i-1].Close {
			count++
		} else {
			break
		}
	}

	return count < c.MaxConsecutiveDecline, count
}

// checkRecentSpike classifies the largest single-day move in the
// trailing window and fails when its magnitude reaches the configured
// spike threshold.
func (uc *ScreenerUsecase) checkRecentSpike(market string, c domain.ScreeningCriteria) (bool, string) {
	series, err := uc.fetchCandles(market, c.RecentSpikeDays*2)
	if err != nil || len(series) < 2 {
		return false, domain.SpikeNone
	}

	maxChange := 0.0
	n := len(series)
	start := n - c.RecentSpikeDays
	if start < 1 {
		start = 1
	}
	for i := start; i < n; i++ {
		prev := series[i-1].Close
		if prev == 0 {
			continue
		}
		change := (series[i].Close - prev) / prev * 100
		if math.Abs(change) > math.Abs(maxChange) {
			maxChange = change
		}
	}

	spikeType := classifySpike(maxChange)
	hasSpike := math.Abs(maxChange) >= c.MaxRecentSpike
	return !hasSpike, spikeType
}

func classifySpike(change float64) string {
	switch {
	case change > 20:
		return domain.SpikeStrongUp
	case change > 10:
		return domain.SpikeModerateUp
	case change < -20:
		return domain.SpikeStrongDown
	case change < -10:
		return domain.SpikeModerateDown
	default:
		return domain.SpikeNone
	}
}

// checkMovingAverage measures the percent offset of the latest close
// against its N-day moving average; when configured, the price must sit
// above the average.
func (uc *ScreenerUsecase) checkMovingAverage(market string, c domain.ScreeningCriteria) (bool, float64) {
	series, err := uc.fetchCandles(market, c.MAPeriod+10)
	if err != nil || len(series) < c.MAPeriod {
		return false, 0
	}

	closes := series.Closes()
	ma := indicators.Mean(closes[len(closes)-c.MAPeriod:])
	if ma == 0 {
		return false, 0
	}

	current := closes[len(closes)-1]
	position := (current - ma) / ma * 100

	if c.RequireAboveMA && position <= 0 {
		return false, position
	}
	return true, position
}

// fetchCandles wraps the market-data source and counts fetch failures.
func (uc *ScreenerUsecase) fetchCandles(market string, count int) (domain.Series, error) {
	series, err := uc.source.DailyCandles(market, count)
	if err != nil {
		uc.countFetchError()
	}
	return series, err
}
