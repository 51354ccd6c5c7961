// Package fetch retrieves and normalizes market data from the NSE public
// endpoints.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fnolab/pulse/greeks"
	"github.com/fnolab/pulse/shared"
	"github.com/tidwall/gjson"
)

const (
	nseBaseURL      = "https://www.nseindia.com"
	optionChainPath = "/api/option-chain-indices"
	intradayPath    = "/api/chart-databyindex"

	// cookieTTL bounds how long a warmed session cookie is reused. NSE
	// rotates sessions aggressively, so the window is kept short.
	cookieTTL = time.Second * 30

	// expiryLayout is the expiry date format used by the NSE option chain
	// payload.
	expiryLayout = "02-Jan-2006"
)

// NSEConfig represents the configuration for the NSE client.
type NSEConfig struct {
	// RiskFreeRate is the annualized rate used for greeks estimation.
	RiskFreeRate float64
}

// NSEClient represents the NSE public API client. The option chain endpoint
// rejects requests without a warmed session cookie, so the client transparently
// primes and caches one.
type NSEClient struct {
	cfg   *NSEConfig
	httpc http.Client

	cookieMtx    sync.Mutex
	cookies      string
	cookieExpiry time.Time
}

// Ensure the NSE client implements the ChainFetcher interface.
var _ ChainFetcher = (*NSEClient)(nil)

// NewNSEClient initializes a new NSE client.
func NewNSEClient(cfg *NSEConfig) *NSEClient {
	if cfg.RiskFreeRate == 0 {
		cfg.RiskFreeRate = greeks.DefaultRiskFreeRate
	}

	return &NSEClient{
		cfg:   cfg,
		httpc: http.Client{Timeout: time.Second * 10},
	}
}

// setBrowserHeaders applies the request headers NSE expects from a browser
// session.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) "+
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", nseBaseURL+"/option-chain")
}

// warmCookies primes the NSE session cookie, reusing a cached one while it
// remains fresh.
func (c *NSEClient) warmCookies(ctx context.Context) (string, error) {
	c.cookieMtx.Lock()
	defer c.cookieMtx.Unlock()

	if c.cookies != "" && time.Now().Before(c.cookieExpiry) {
		return c.cookies, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nseBaseURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating cookie warmup request: %w", err)
	}
	setBrowserHeaders(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("warming nse session cookies: %w", err)
	}
	defer resp.Body.Close()

	// Drain the body so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	parts := make([]string, 0, len(resp.Cookies()))
	for _, cookie := range resp.Cookies() {
		parts = append(parts, cookie.Name+"="+cookie.Value)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no session cookies in nse warmup response")
	}

	c.cookies = strings.Join(parts, "; ")
	c.cookieExpiry = time.Now().Add(cookieTTL)

	return c.cookies, nil
}

// get performs an authenticated GET against the provided NSE path.
func (c *NSEClient) get(ctx context.Context, path string, params string) ([]byte, error) {
	cookies, err := c.warmCookies(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nseBaseURL+path+"?"+params, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", path, err)
	}
	setBrowserHeaders(req)
	req.Header.Set("Cookie", cookies)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Expired cookies surface as auth failures, force a re-warm on the
		// next call.
		c.cookieMtx.Lock()
		c.cookies = ""
		c.cookieMtx.Unlock()
		return nil, fmt.Errorf("fetching %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}

// FetchOptionChain fetches and normalizes the option chain for the provided
// index symbol.
func (c *NSEClient) FetchOptionChain(ctx context.Context, symbol string) (*shared.OptionChainSnapshot, error) {
	body, err := c.get(ctx, optionChainPath, "symbol="+symbol)
	if err != nil {
		return nil, err
	}

	snapshot, err := c.ParseOptionChain(body, symbol)
	if err != nil {
		return nil, fmt.Errorf("parsing option chain for %s: %w", symbol, err)
	}

	return snapshot, nil
}

// ParseOptionChain normalizes the NSE option chain payload into a snapshot
// for the nearest expiry. Rows without a matching expiry are skipped, and
// greeks are estimated per side from the reported implied volatility.
func (c *NSEClient) ParseOptionChain(body []byte, symbol string) (*shared.OptionChainSnapshot, error) {
	records := gjson.GetBytes(body, "records")
	if !records.Exists() {
		return nil, fmt.Errorf("no records in option chain payload")
	}

	spot := records.Get("underlyingValue").Float()
	if spot <= 0 {
		return nil, fmt.Errorf("invalid underlying value: %f", spot)
	}

	nearest := records.Get("expiryDates.0").String()
	if nearest == "" {
		return nil, fmt.Errorf("no expiry dates in option chain payload")
	}

	expiry, err := time.Parse(expiryLayout, nearest)
	if err != nil {
		return nil, fmt.Errorf("parsing expiry date %q: %w", nearest, err)
	}

	rows := records.Get("data").Array()
	quotes := make([]shared.OptionQuote, 0, len(rows))
	for idx := range rows {
		row := rows[idx]
		if row.Get("expiryDate").String() != nearest {
			continue
		}

		quote := shared.OptionQuote{Strike: row.Get("strikePrice").Float()}
		quote.Call = parseOptionSide(row.Get("CE"))
		quote.Put = parseOptionSide(row.Get("PE"))

		quote.Call.Delta, quote.Call.Gamma, quote.Call.Theta, quote.Call.Vega =
			sideGreeks(spot, quote.Strike, expiry, quote.Call.IV, greeks.Call, c.cfg.RiskFreeRate)
		quote.Put.Delta, quote.Put.Gamma, quote.Put.Theta, quote.Put.Vega =
			sideGreeks(spot, quote.Strike, expiry, quote.Put.IV, greeks.Put, c.cfg.RiskFreeRate)

		quotes = append(quotes, quote)
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("no quotes for expiry %s in option chain payload", nearest)
	}

	return &shared.OptionChainSnapshot{
		Symbol:     symbol,
		SpotPrice:  spot,
		Expiry:     expiry,
		Quotes:     quotes,
		CapturedAt: time.Now(),
	}, nil
}

// parseOptionSide normalizes one side (CE or PE) of an option chain row. A
// missing side yields zero values.
func parseOptionSide(side gjson.Result) shared.OptionSide {
	if !side.Exists() {
		return shared.OptionSide{}
	}

	return shared.OptionSide{
		OI:       side.Get("openInterest").Float(),
		OIChange: side.Get("changeinOpenInterest").Float(),
		Volume:   side.Get("totalTradedVolume").Float(),
		IV:       side.Get("impliedVolatility").Float(),
		LTP:      side.Get("lastPrice").Float(),
	}
}

// sideGreeks estimates greeks for one side of an option chain row.
func sideGreeks(spot, strike float64, expiry time.Time, ivPercent float64,
	optionType greeks.OptionType, rate float64) (delta, gamma, theta, vega float64) {
	g := greeks.ComputeOptionGreeks(spot, strike, expiry, ivPercent, optionType, rate)
	return g.Delta, g.Gamma, g.Theta, g.Vega
}

// FetchIntradayTicks fetches the intraday price graph for the provided index
// symbol. The endpoint returns [timestamp, price] pairs.
func (c *NSEClient) FetchIntradayTicks(ctx context.Context, symbol string) ([]Tick, error) {
	body, err := c.get(ctx, intradayPath, "index="+symbol+"&indices=true")
	if err != nil {
		return nil, err
	}

	return ParseIntradayTicks(body)
}

// Tick represents a single intraday price observation.
type Tick struct {
	At    time.Time
	Price float64
}

// ParseIntradayTicks parses the intraday graph payload into ticks.
func ParseIntradayTicks(body []byte) ([]Tick, error) {
	points := gjson.GetBytes(body, "grapthData").Array()
	if len(points) == 0 {
		return nil, fmt.Errorf("no graph data in intraday payload")
	}

	ticks := make([]Tick, 0, len(points))
	for idx := range points {
		pair := points[idx].Array()
		if len(pair) < 2 {
			continue
		}

		ticks = append(ticks, Tick{
			At:    time.UnixMilli(pair[0].Int()),
			Price: pair[1].Float(),
		})
	}

	return ticks, nil
}

// BuildCandles buckets intraday ticks into candlesticks of the provided
// timeframe, oldest first. Tick feeds carry no volume, so candle volumes are
// left at zero and volume weighted consumers fall back to equal weighting.
func BuildCandles(ticks []Tick, market string, timeframe shared.Timeframe) []shared.Candlestick {
	if len(ticks) == 0 {
		return nil
	}

	duration := timeframe.Duration()
	candles := make([]shared.Candlestick, 0, len(ticks))

	var current *shared.Candlestick
	for idx := range ticks {
		bucket := ticks[idx].At.Truncate(duration)
		price := ticks[idx].Price

		if current == nil || !current.Date.Equal(bucket) {
			candles = append(candles, shared.Candlestick{
				Open:      price,
				High:      price,
				Low:       price,
				Close:     price,
				Date:      bucket,
				Market:    market,
				Timeframe: timeframe,
			})
			current = &candles[len(candles)-1]
			continue
		}

		if price > current.High {
			current.High = price
		}
		if price < current.Low {
			current.Low = price
		}
		current.Close = price
	}

	return candles
}
