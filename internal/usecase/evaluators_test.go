package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"upbit-gem-screener/internal/domain"
	"upbit-gem-screener/internal/repository"
)

// fakeSource is an in-memory MarketData. DailyCandles serves the
// trailing count candles of the stored series, mirroring how the
// exchange returns the most recent bars.
type fakeSource struct {
	markets    []domain.Market
	series     map[string]domain.Series
	prices     map[string]float64
	marketsErr error
	candlesErr map[string]error

	candleCalls map[string]int
	tickerCalls map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		series:      make(map[string]domain.Series),
		prices:      make(map[string]float64),
		candlesErr:  make(map[string]error),
		candleCalls: make(map[string]int),
		tickerCalls: make(map[string]int),
	}
}

func (f *fakeSource) KRWMarkets() ([]domain.Market, error) {
	if f.marketsErr != nil {
		return nil, f.marketsErr
	}
	return f.markets, nil
}

func (f *fakeSource) Tickers(markets []string) ([]domain.Ticker, error) {
	var out []domain.Ticker
	for _, m := range markets {
		f.tickerCalls[m]++
		if price, ok := f.prices[m]; ok {
			out = append(out, domain.Ticker{Market: m, TradePrice: price})
		}
	}
	return out, nil
}

func (f *fakeSource) DailyCandles(market string, count int) (domain.Series, error) {
	f.candleCalls[market]++
	if err := f.candlesErr[market]; err != nil {
		return nil, err
	}
	s := f.series[market]
	if len(s) > count {
		s = s[len(s)-count:]
	}
	return s, nil
}

func newTestUsecase(source MarketData) *ScreenerUsecase {
	return NewScreenerUsecase(
		source,
		repository.NewInMemoryReportRepository(),
		nil, // token repo
		nil, // fcm
		nil, // narrator
		nil, // metrics
		0,   // no pacing in tests
		time.Minute,
	)
}

// flatSeries builds n candles with a constant close and notional
// volume.
func flatSeries(n int, price, volume, quoteVolume float64) domain.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(domain.Series, n)
	for i := range s {
		s[i] = domain.Candle{
			Time:        base.AddDate(0, 0, i),
			Open:        price,
			High:        price,
			Low:         price,
			Close:       price,
			Volume:      volume,
			QuoteVolume: quoteVolume,
		}
	}
	return s
}

func TestCheckVolume(t *testing.T) {
	tests := []struct {
		name        string
		quoteVolume float64
		wantOK      bool
	}{
		{"above floor", 200_000_000, true},
		{"at floor", 100_000_000, true},
		{"below floor", 50_000_000, false},
	}
	c := domain.DefaultCriteria()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			source.series["KRW-ABC"] = flatSeries(10, 100, 1000, tt.quoteVolume)
			uc := newTestUsecase(source)

			ok, measured := uc.checkVolume("KRW-ABC", c)
			if ok != tt.wantOK {
				t.Errorf("ok: got %v, want %v", ok, tt.wantOK)
			}
			assertClose(t, "measured volume", measured, tt.quoteVolume, 0.0001)
		})
	}
}

func TestCheckVolume_FetchErrorFails(t *testing.T) {
	source := newFakeSource()
	source.candlesErr["KRW-ABC"] = errors.New("upstream down")
	uc := newTestUsecase(source)

	ok, measured := uc.checkVolume("KRW-ABC", domain.DefaultCriteria())
	if ok || measured != 0 {
		t.Errorf("expected degraded failure, got ok=%v measured=%f", ok, measured)
	}
}

func TestCheckATHDecline(t *testing.T) {
	source := newFakeSource()
	series := flatSeries(30, 100, 1000, 2e8)
	series[5].High = 200 // lookback high, 50% above the latest close
	source.series["KRW-ABC"] = series
	uc := newTestUsecase(source)

	ok, ath, decline := uc.checkATHDecline("KRW-ABC", domain.DefaultCriteria())
	if !ok {
		t.Fatal("expected a 50% decline to pass the 20% floor")
	}
	assertClose(t, "ath", ath, 200, 0.0001)
	assertClose(t, "decline", decline, 50, 0.0001)
}

func TestCheckATHDecline_ShallowDipFails(t *testing.T) {
	source := newFakeSource()
	series := flatSeries(30, 100, 1000, 2e8)
	series[5].High = 110 // only ~9.1% below the high
	source.series["KRW-ABC"] = series
	uc := newTestUsecase(source)

	ok, _, decline := uc.checkATHDecline("KRW-ABC", domain.DefaultCriteria())
	if ok {
		t.Errorf("expected a %.1f%% decline to fail the 20%% floor", decline)
	}
}

func TestCheckVolatility_FlatSeriesFails(t *testing.T) {
	source := newFakeSource()
	source.series["KRW-ABC"] = flatSeries(30, 100, 1000, 2e8)
	uc := newTestUsecase(source)

	// Zero volatility sits below the configured minimum.
	ok, measured := uc.checkVolatility("KRW-ABC", domain.DefaultCriteria())
	if ok {
		t.Error("expected a flat series to fail the volatility band")
	}
	assertClose(t, "volatility", measured, 0, 0.0001)
}

func TestCheckVolatility_AlternatingSeriesMeasuresPositive(t *testing.T) {
	source := newFakeSource()
	series := flatSeries(30, 100, 1000, 2e8)
	for i := range series {
		if i%2 == 1 {
			series[i].Close = 103
		}
	}
	source.series["KRW-ABC"] = series
	uc := newTestUsecase(source)

	c := domain.DefaultCriteria()
	c.VolatilityMin = 0.001
	c.VolatilityMax = 100000
	ok, measured := uc.checkVolatility("KRW-ABC", c)
	if !ok || measured <= 0 {
		t.Errorf("expected positive volatility inside a wide band, got ok=%v measured=%f", ok, measured)
	}
}

func TestCheckVolatility_TooShortFails(t *testing.T) {
	source := newFakeSource()
	source.series["KRW-ABC"] = flatSeries(2, 100, 1000, 2e8)
	uc := newTestUsecase(source)

	if ok, _ := uc.checkVolatility("KRW-ABC", domain.DefaultCriteria()); ok {
		t.Error("expected two candles to be insufficient")
	}
}

func TestCheckCCI_FlatSeriesIsNeutral(t *testing.T) {
	source := newFakeSource()
	source.series["KRW-ABC"] = flatSeries(50, 100, 1000, 2e8)
	uc := newTestUsecase(source)

	ok, measured := uc.checkCCI("KRW-ABC", domain.DefaultCriteria())
	if !ok {
		t.Error("expected CCI 0 to pass the default band")
	}
	assertClose(t, "cci", measured, 0, 0.0001)

	narrow := domain.DefaultCriteria()
	narrow.CCIMin = 50
	narrow.CCIMax = 100
	if ok, _ := uc.checkCCI("KRW-ABC", narrow); ok {
		t.Error("expected CCI 0 to fail a [50,100] band")
	}
}

func TestCheckRSI(t *testing.T) {
	flat := newFakeSource()
	flat.series["KRW-ABC"] = flatSeries(50, 100, 1000, 2e8)

	rising := newFakeSource()
	series := flatSeries(50, 100, 1000, 2e8)
	for i := range series {
		series[i].Close = 100 + float64(i)
	}
	rising.series["KRW-ABC"] = series

	c := domain.DefaultCriteria()

	ok, measured := newTestUsecase(flat).checkRSI("KRW-ABC", c)
	if !ok {
		t.Error("expected neutral RSI 50 to pass [20,80]")
	}
	assertClose(t, "flat RSI", measured, 50, 0.0001)

	ok, measured = newTestUsecase(rising).checkRSI("KRW-ABC", c)
	if ok {
		t.Error("expected RSI 100 to fail [20,80]")
	}
	assertClose(t, "rising RSI", measured, 100, 0.0001)
}

func TestCheckMarketCap(t *testing.T) {
	tests := []struct {
		name   string
		price  float64
		wantOK bool
	}{
		{"inside band", 50_000, true}, // 5e10 with the assumed supply
		{"too small", 1, false},
		{"too large", 1_000_000, false}, // 1e12
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			source.prices["KRW-ABC"] = tt.price
			uc := newTestUsecase(source)

			ok, measured := uc.checkMarketCap("KRW-ABC", domain.DefaultCriteria())
			if ok != tt.wantOK {
				t.Errorf("ok: got %v, want %v", ok, tt.wantOK)
			}
			assertClose(t, "estimated cap", measured, tt.price*assumedSupply, 0.0001)
		})
	}
}

func TestCheckVolumeGrowth(t *testing.T) {
	build := func(older, recent float64) domain.Series {
		s := flatSeries(14, 100, older, 2e8)
		for i := 7; i < 14; i++ {
			s[i].Volume = recent
		}
		return s
	}
	tests := []struct {
		name       string
		older      float64
		recent     float64
		wantOK     bool
		wantGrowth float64
	}{
		{"strong growth", 100, 150, true, 50},
		{"at floor", 100, 120, true, 20},
		{"shrinking", 150, 100, false, -100.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			source.series["KRW-ABC"] = build(tt.older, tt.recent)
			uc := newTestUsecase(source)

			ok, growth := uc.checkVolumeGrowth("KRW-ABC", domain.DefaultCriteria())
			if ok != tt.wantOK {
				t.Errorf("ok: got %v, want %v", ok, tt.wantOK)
			}
			assertClose(t, "growth", growth, tt.wantGrowth, 0.0001)
		})
	}
}

func TestCheckVolumeGrowth_DeadPriorWindowFails(t *testing.T) {
	source := newFakeSource()
	source.series["KRW-ABC"] = func() domain.Series {
		s := flatSeries(14, 100, 0, 2e8)
		for i := 7; i < 14; i++ {
			s[i].Volume = 500
		}
		return s
	}()
	uc := newTestUsecase(source)

	if ok, _ := uc.checkVolumeGrowth("KRW-ABC", domain.DefaultCriteria()); ok {
		t.Error("expected a zero prior window to fail rather than divide")
	}
}

func TestCheckConsecutiveDecline(t *testing.T) {
	build := func(closes ...float64) domain.Series {
		s := flatSeries(len(closes), 100, 1000, 2e8)
		for i, cl := range closes {
			s[i].Close = cl
		}
		return s
	}
	tests := []struct {
		name      string
		closes    []float64
		maxDays   int
		wantOK    bool
		wantCount int
	}{
		{"short dip", []float64{100, 101, 102, 101, 100}, 5, true, 2},
		{"no decline", []float64{100, 101, 102, 103, 104}, 5, true, 0},
		{"streak at limit", []float64{105, 104, 103, 102, 101}, 3, false, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			source.series["KRW-ABC"] = build(tt.closes...)
			uc := newTestUsecase(source)

			c := domain.DefaultCriteria()
			c.MaxConsecutiveDecline = tt.maxDays
			ok, count := uc.checkConsecutiveDecline("KRW-ABC", c)
			if ok != tt.wantOK || count != tt.wantCount {
				t.Errorf("got ok=%v count=%d, want ok=%v count=%d", ok, count, tt.wantOK, tt.wantCount)
			}
		})
	}
}

func TestCheckRecentSpike(t *testing.T) {
	quiet := flatSeries(10, 100, 1000, 2e8)

	spiked := flatSeries(10, 100, 1000, 2e8)
	spiked[len(spiked)-1].Close = 140 // +40% on the last day

	tests := []struct {
		name      string
		series    domain.Series
		wantOK    bool
		wantSpike string
	}{
		{"quiet market", quiet, true, domain.SpikeNone},
		{"fresh pump", spiked, false, domain.SpikeStrongUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			source.series["KRW-ABC"] = tt.series
			uc := newTestUsecase(source)

			ok, spike := uc.checkRecentSpike("KRW-ABC", domain.DefaultCriteria())
			if ok != tt.wantOK || spike != tt.wantSpike {
				t.Errorf("got ok=%v spike=%s, want ok=%v spike=%s", ok, spike, tt.wantOK, tt.wantSpike)
			}
		})
	}
}

func TestClassifySpike(t *testing.T) {
	tests := []struct {
		change float64
		want   string
	}{
		{35, domain.SpikeStrongUp},
		{15, domain.SpikeModerateUp},
		{5, domain.SpikeNone},
		{0, domain.SpikeNone},
		{-5, domain.SpikeNone},
		{-15, domain.SpikeModerateDown},
		{-35, domain.SpikeStrongDown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%+.0f", tt.change), func(t *testing.T) {
			if got := classifySpike(tt.change); got != tt.want {
				t.Errorf("classifySpike(%.0f): got %s, want %s", tt.change, got, tt.want)
			}
		})
	}
}

func TestCheckMovingAverage(t *testing.T) {
	rising := flatSeries(30, 100, 1000, 2e8)
	for i := range rising {
		rising[i].Close = 100 + float64(i)
	}

	sagging := flatSeries(30, 100, 1000, 2e8)
	sagging[len(sagging)-1].Close = 80

	tests := []struct {
		name   string
		series domain.Series
		wantOK bool
	}{
		{"above the average", rising, true},
		{"below the average", sagging, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			source.series["KRW-ABC"] = tt.series
			uc := newTestUsecase(source)

			ok, position := uc.checkMovingAverage("KRW-ABC", domain.DefaultCriteria())
			if ok != tt.wantOK {
				t.Errorf("ok: got %v (position %.2f), want %v", ok, position, tt.wantOK)
			}
			if tt.wantOK && position <= 0 {
				t.Errorf("expected a positive offset, got %.2f", position)
			}
		})
	}
}
