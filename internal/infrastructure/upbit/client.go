package upbit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"upbit-gem-screener/internal/domain"
	"upbit-gem-screener/internal/infrastructure/cache"
)

const DefaultBaseURL = "https://api.upbit.com"

const marketsCacheKey = "markets"

// Client is a thin wrapper around the Upbit public REST API. The
// market listing goes through the injected TTL cache; candles and
// tickers are always fetched fresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	listings   *cache.TTL
}

func NewClient(baseURL string, listings *cache.TTL) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		listings:   listings,
	}
}

type marketPayload struct {
	Market      string `json:"market"`
	KoreanName  string `json:"korean_name"`
	EnglishName string `json:"english_name"`
}

type tickerPayload struct {
	Market     string  `json:"market"`
	TradePrice float64 `json:"trade_price"`
}

type candlePayload struct {
	CandleDateTimeUTC   string  `json:"candle_date_time_utc"`
	OpeningPrice        float64 `json:"opening_price"`
	HighPrice           float64 `json:"high_price"`
	LowPrice            float64 `json:"low_price"`
	TradePrice          float64 `json:"trade_price"`
	CandleAccTradeVol   float64 `json:"candle_acc_trade_volume"`
	CandleAccTradePrice float64 `json:"candle_acc_trade_price"`
}

// Markets returns the full exchange listing, served from the TTL cache
// when fresh.
func (c *Client) Markets() ([]domain.Market, error) {
	if c.listings != nil {
		if v, ok := c.listings.Get(marketsCacheKey); ok {
			return v.([]domain.Market), nil
		}
	}

	var payload []marketPayload
	if err := c.getJSON("/v1/market/all", nil, &payload); err != nil {
		return nil, err
	}

	markets := make([]domain.Market, 0, len(payload))
	for _, m := range payload {
		markets = append(markets, domain.Market{
			Code:        m.Market,
			KoreanName:  m.KoreanName,
			EnglishName: m.EnglishName,
		})
	}

	if c.listings != nil {
		c.listings.Set(marketsCacheKey, markets)
	}
	return markets, nil
}

// KRWMarkets returns the KRW-quoted subset of the listing.
func (c *Client) KRWMarkets() ([]domain.Market, error) {
	markets, err := c.Markets()
	if err != nil {
		return nil, err
	}

	var krw []domain.Market
	for _, m := range markets {
		if strings.HasPrefix(m.Code, "KRW-") {
			krw = append(krw, m)
		}
	}
	return krw, nil
}

// Tickers returns current price snapshots for the given market codes.
func (c *Client) Tickers(markets []string) ([]domain.Ticker, error) {
	if len(markets) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("markets", strings.Join(markets, ","))

	var payload []tickerPayload
	if err := c.getJSON("/v1/ticker", params, &payload); err != nil {
		return nil, err
	}

	tickers := make([]domain.Ticker, 0, len(payload))
	for _, t := range payload {
		tickers = append(tickers, domain.Ticker{Market: t.Market, TradePrice: t.TradePrice})
	}
	return tickers, nil
}

// DailyCandles returns up to count daily candles for one market,
// ordered oldest to newest (Upbit serves them newest first).
func (c *Client) DailyCandles(market string, count int) (domain.Series, error) {
	params := url.Values{}
	params.Set("market", market)
	params.Set("count", fmt.Sprintf("%d", count))

	var payload []candlePayload
	if err := c.getJSON("/v1/candles/days", params, &payload); err != nil {
		return nil, err
	}

	series := make(domain.Series, 0, len(payload))
	for _, p := range payload {
		ts, err := time.Parse("2006-01-02T15:04:05", p.CandleDateTimeUTC)
		if err != nil {
			ts = time.Time{}
		}
		series = append(series, domain.Candle{
			Time:        ts,
			Open:        p.OpeningPrice,
			High:        p.HighPrice,
			Low:         p.LowPrice,
			Close:       p.TradePrice,
			Volume:      p.CandleAccTradeVol,
			QuoteVolume: p.CandleAccTradePrice,
		})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})
	return series, nil
}

func (c *Client) getJSON(path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	resp, err := c.httpClient.Get(u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upbit API error: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
