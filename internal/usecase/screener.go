package usecase

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"upbit-gem-screener/internal/domain"
	"upbit-gem-screener/internal/infrastructure/fcm"
	"upbit-gem-screener/internal/infrastructure/metrics"
	"upbit-gem-screener/internal/repository"
)

// MarketData is the upstream exchange collaborator. Implementations
// must return an error (not panic) on failure; the evaluators degrade
// every error to a criterion failure.
type MarketData interface {
	KRWMarkets() ([]domain.Market, error)
	Tickers(markets []string) ([]domain.Ticker, error)
	DailyCandles(market string, count int) (domain.Series, error)
}

// Narrator produces optional narrative commentary. Scoring never
// depends on it.
type Narrator interface {
	IsEnabled() bool
	Generate(prompt string) (string, error)
}

// Majors and stablecoins excluded from every screening pass.
var excludedMarkets = map[string]struct{}{
	"KRW-BTC":   {},
	"KRW-ETH":   {},
	"KRW-BNB":   {},
	"KRW-ADA":   {},
	"KRW-USDT":  {},
	"KRW-USDC":  {},
	"KRW-BUSD":  {},
	"KRW-DAI":   {},
	"KRW-TUSD":  {},
	"KRW-FDUSD": {},
}

// Neutral defaults recorded on a Candidate for criteria that are
// disabled in the active configuration.
const (
	defaultMarketCap          = 50_000_000_000
	defaultConsecutiveDecline = 2
	defaultMAPosition         = 5.0
)

type ScreenerUsecase struct {
	source    MarketData
	repo      domain.ReportRepository
	tokenRepo *repository.TokenRepository
	fcmClient *fcm.Client
	narrator  Narrator
	metrics   *metrics.Metrics

	pacingDelay    time.Duration
	notifyCooldown time.Duration

	notified map[string]time.Time
	mu       sync.Mutex
}

func NewScreenerUsecase(
	source MarketData,
	repo domain.ReportRepository,
	tokenRepo *repository.TokenRepository,
	fcmClient *fcm.Client,
	narrator Narrator,
	m *metrics.Metrics,
	pacingDelay time.Duration,
	notifyCooldown time.Duration,
) *ScreenerUsecase {
	return &ScreenerUsecase{
		source:         source,
		repo:           repo,
		tokenRepo:      tokenRepo,
		fcmClient:      fcmClient,
		narrator:       narrator,
		metrics:        m,
		pacingDelay:    pacingDelay,
		notifyCooldown: notifyCooldown,
		notified:       make(map[string]time.Time),
	}
}

// Run drives the screening loop until the context is cancelled. A
// cycle runs immediately on start and then every interval.
func (uc *ScreenerUsecase) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	uc.RunCycle()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.RunCycle()
		}
	}
}

// RunCycle executes one full screening pass (with the relaxed
// fallback), saves the report, attaches commentary and sends alerts.
func (uc *ScreenerUsecase) RunCycle() {
	start := time.Now()
	log.Println("Starting screening cycle...")

	report := uc.ScreenWithFallback(domain.DefaultCriteria(), domain.RelaxedCriteria())

	uc.attachCommentary(&report)
	uc.repo.SaveReport(report)
	uc.notifyTopCandidates(report.Candidates)

	if uc.metrics != nil {
		uc.metrics.CyclesTotal.Inc()
		uc.metrics.CycleDuration.Observe(time.Since(start).Seconds())
		uc.metrics.Candidates.Set(float64(len(report.Candidates)))
	}

	log.Printf("Cycle completed in %v. Found %d candidates.", time.Since(start), len(report.Candidates))
}

// ScreenWithFallback runs the primary pass and, when it yields no
// candidates, retries once with the relaxed criteria. The fallback is
// caller policy, not orchestrator logic: ScreenOnce stays single-pass.
func (uc *ScreenerUsecase) ScreenWithFallback(primary, relaxed domain.ScreeningCriteria) domain.Report {
	report := uc.ScreenOnce(primary)
	if len(report.Candidates) > 0 {
		return report
	}

	log.Println("No candidates under primary criteria, retrying with relaxed criteria")
	return uc.ScreenOnce(relaxed)
}

// ScreenOnce performs a single screening pass: enumerate markets, run
// the evaluator chain per market, score the survivors and build the
// ranked report. Per-market failures reject that market only; an
// unreachable listing yields an empty report.
func (uc *ScreenerUsecase) ScreenOnce(criteria domain.ScreeningCriteria) domain.Report {
	report := domain.Report{
		Timestamp: time.Now(),
		Criteria:  criteria,
	}

	markets, err := uc.source.KRWMarkets()
	if err != nil {
		log.Printf("Error listing markets: %v", err)
		uc.countFetchError()
		return report
	}

	fetched := false
	for _, market := range markets {
		if _, excluded := excludedMarkets[market.Code]; excluded {
			continue
		}

		// Pacing against the exchange rate limit; only between markets
		// that actually hit it.
		if fetched && uc.pacingDelay > 0 {
			time.Sleep(uc.pacingDelay)
		}
		fetched = true

		if uc.metrics != nil {
			uc.metrics.MarketsScreened.Inc()
		}

		candidate, rejectedAt := uc.screenMarket(market, criteria)
		if candidate != nil {
			report.Candidates = append(report.Candidates, *candidate)
		} else if uc.metrics != nil {
			uc.metrics.RejectionsTotal.WithLabelValues(rejectedAt).Inc()
		}
	}

	// Stable sort keeps enumeration order on ties.
	sort.SliceStable(report.Candidates, func(i, j int) bool {
		return report.Candidates[i].Score > report.Candidates[j].Score
	})

	for _, c := range report.Candidates {
		switch c.Tier {
		case domain.TierHighlyRecommended:
			report.Tiers.HighlyRecommended++
		case domain.TierRecommended:
			report.Tiers.Recommended++
		case domain.TierWatch:
			report.Tiers.Watch++
		default:
			report.Tiers.Review++
		}
	}

	return report
}

// screenMarket runs the fixed evaluator chain for one market,
// short-circuiting on the first failing criterion. It returns either a
// fully built candidate or the name of the criterion that rejected the
// market.
func (uc *ScreenerUsecase) screenMarket(market domain.Market, c domain.ScreeningCriteria) (*domain.Candidate, string) {
	code := market.Code

	volumeOK, volume := uc.checkVolume(code, c)
	if !volumeOK {
		return nil, CriterionVolume
	}

	athOK, ath, athDecline := uc.checkATHDecline(code, c)
	if !athOK {
		return nil, CriterionATHDecline
	}

	volatilityOK, volatility := uc.checkVolatility(code, c)
	if !volatilityOK {
		return nil, CriterionVolatility
	}

	cciOK, cci := uc.checkCCI(code, c)
	if !cciOK {
		return nil, CriterionCCI
	}

	rsiOK, rsi := uc.checkRSI(code, c)
	if !rsiOK {
		return nil, CriterionRSI
	}

	marketCap := float64(defaultMarketCap)
	if c.CheckMarketCap {
		ok, measured := uc.checkMarketCap(code, c)
		if !ok {
			return nil, CriterionMarketCap
		}
		marketCap = measured
	}

	growthOK, volumeGrowth := uc.checkVolumeGrowth(code, c)
	if !growthOK {
		return nil, CriterionVolumeGrowth
	}

	consecutiveDecline := defaultConsecutiveDecline
	if c.CheckConsecutiveDecline {
		ok, measured := uc.checkConsecutiveDecline(code, c)
		if !ok {
			return nil, CriterionConsecutiveDecline
		}
		consecutiveDecline = measured
	}

	recentSpike := domain.SpikeNone
	if c.CheckRecentSpike {
		ok, measured := uc.checkRecentSpike(code, c)
		if !ok {
			return nil, CriterionRecentSpike
		}
		recentSpike = measured
	}

	maPosition := defaultMAPosition
	if c.CheckMovingAverage {
		ok, measured := uc.checkMovingAverage(code, c)
		if !ok {
			return nil, CriterionMovingAverage
		}
		maPosition = measured
	}

	// The ticker is fetched only for survivors, so a rejected market
	// costs no extra call.
	tickers, err := uc.source.Tickers([]string{code})
	if err != nil || len(tickers) == 0 {
		uc.countFetchError()
		return nil, rejectionTicker
	}
	currentPrice := tickers[0].TradePrice

	m := Measurements{
		VolumeKRW:    volume,
		ATHDecline:   athDecline,
		Volatility:   volatility,
		CCI:          cci,
		RSI:          rsi,
		MarketCap:    marketCap,
		VolumeGrowth: volumeGrowth,
	}
	score := CalculateScore(m, c)

	name := market.EnglishName
	if name == "" {
		name = code
	}

	return &domain.Candidate{
		Symbol:             code,
		Name:               name,
		CurrentPrice:       currentPrice,
		VolumeKRW:          volume,
		ATH:                ath,
		ATHDecline:         athDecline,
		Volatility:         volatility,
		CCI:                cci,
		RSI:                rsi,
		MarketCap:          marketCap,
		VolumeGrowth:       volumeGrowth,
		ConsecutiveDecline: consecutiveDecline,
		RecentSpike:        recentSpike,
		MAPosition:         maPosition,
		Score:              score,
		Tier:               TierFor(score),
		Reason:             BuildReason(m, c),
	}, ""
}

func (uc *ScreenerUsecase) countFetchError() {
	if uc.metrics != nil {
		uc.metrics.FetchErrors.Inc()
	}
}
