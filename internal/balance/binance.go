package balance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trade-analyst/internal/config"
	apperrors "trade-analyst/internal/errors"
	"trade-analyst/pkg/utils"
)

// DefaultBinanceURL is the production REST endpoint.
const DefaultBinanceURL = "https://api.binance.com"

// Binance values the whole account in quote currency: free+locked holdings
// of every asset converted at the current last price, plus the free quote
// balance directly.
type Binance struct {
	apiKey    string
	apiSecret string
	baseURL   string
	quote     string
	client    *http.Client
	retry     utils.RetryConfig
	now       func() time.Time
}

// NewBinance creates a Binance balance provider.
func NewBinance(creds config.BinanceCredentials, quote string) *Binance {
	return &Binance{
		apiKey:    creds.APIKey,
		apiSecret: creds.APISecret,
		baseURL:   DefaultBinanceURL,
		quote:     quote,
		client:    &http.Client{Timeout: 10 * time.Second},
		retry:     utils.DefaultRetryConfig(),
		now:       time.Now,
	}
}

// WithBaseURL points the provider at a different endpoint, used by tests.
func (b *Binance) WithBaseURL(baseURL string) *Binance {
	b.baseURL = baseURL
	return b
}

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type accountInfo struct {
	Balances []assetBalance `json:"balances"`
}

type assetBalance struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// TotalBalance implements Provider.
func (b *Binance) TotalBalance(ctx context.Context) (float64, error) {
	if b.apiKey == "" || b.apiSecret == "" {
		return 0, apperrors.NewBalanceError("account", fmt.Errorf("missing binance credentials"))
	}

	prices, err := b.quotePrices(ctx)
	if err != nil {
		return 0, err
	}

	account, err := b.account(ctx)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, bal := range account.Balances {
		free, err := strconv.ParseFloat(bal.Free, 64)
		if err != nil {
			continue
		}
		if bal.Asset == b.quote {
			total += free
			continue
		}
		price, ok := prices[bal.Asset+b.quote]
		if !ok {
			continue
		}
		locked, err := strconv.ParseFloat(bal.Locked, 64)
		if err != nil {
			continue
		}
		total += (free + locked) * price
	}

	return total, nil
}

// quotePrices fetches last prices for every quote-currency pair.
func (b *Binance) quotePrices(ctx context.Context) (map[string]float64, error) {
	var tickers []tickerPrice
	if err := b.getJSON(ctx, "/api/v3/ticker/price", nil, false, &tickers); err != nil {
		return nil, apperrors.NewBalanceError("ticker/price", err)
	}

	prices := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, b.quote) {
			continue
		}
		p, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			continue
		}
		prices[t.Symbol] = p
	}
	return prices, nil
}

// account fetches the signed account endpoint.
func (b *Binance) account(ctx context.Context) (*accountInfo, error) {
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(b.now().UnixMilli(), 10))

	var account accountInfo
	if err := b.getJSON(ctx, "/api/v3/account", params, true, &account); err != nil {
		return nil, apperrors.NewBalanceError("account", err)
	}
	return &account, nil
}

// getJSON performs one GET with retry/backoff, rate-limit friendly. Signed
// requests carry an HMAC-SHA256 signature over the query string plus the
// API key header.
func (b *Binance) getJSON(ctx context.Context, path string, params url.Values, signed bool, out interface{}) error {
	return utils.Retry(ctx, b.retry, func() error {
		query := ""
		if params != nil {
			query = params.Encode()
		}
		if signed {
			query += "&signature=" + b.sign(query)
		}

		endpoint := b.baseURL + path
		if query != "" {
			endpoint += "?" + query
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		if signed {
			req.Header.Set("X-MBX-APIKEY", b.apiKey)
		}

		resp, err := b.client.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("binance returned status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(out)
	})
}

func (b *Binance) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(b.apiSecret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}
