// Package brapi provides a client for the brapi.dev market data API.
// brapi serves delayed B3 stock quotes and currency rates; the free tier
// works without a token but is aggressively rate limited.
package brapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/domain"
)

const defaultBaseURL = "https://brapi.dev/api"

// Provider failure taxonomy. Callers map each to a distinct user-facing
// message; anything else is a transport error wrapped with %w.
var (
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrRateLimited    = errors.New("rate limited by quote provider")
	ErrUnauthorized   = errors.New("unauthorized by quote provider")
)

// Client is the brapi.dev API client.
type Client struct {
	baseURL    string
	token      string // Optional - lifts the free-tier rate limits
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new brapi client. token may be empty.
// baseURL overrides the production endpoint; pass "" for the default.
func NewClient(baseURL, token string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With().Str("client", "brapi").Logger(),
	}
}

// quoteResponse mirrors the /quote/{symbol} payload.
type quoteResponse struct {
	Results []struct {
		Symbol                     string  `json:"symbol"`
		ShortName                  string  `json:"shortName"`
		LongName                   string  `json:"longName"`
		Currency                   string  `json:"currency"`
		RegularMarketPrice         float64 `json:"regularMarketPrice"`
		RegularMarketChange        float64 `json:"regularMarketChange"`
		RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
		RegularMarketTime          string  `json:"regularMarketTime"`
	} `json:"results"`
}

// currencyResponse mirrors the /v2/currency payload. Numeric fields come
// back as strings.
type currencyResponse struct {
	Currency []struct {
		BidPrice         string `json:"bidPrice"`
		BidVariation     string `json:"bidVariation"`
		PercentageChange string `json:"percentageChange"`
		UpdatedAtTime    string `json:"updatedAtTime"`
	} `json:"currency"`
}

// GetQuote fetches the current price snapshot for a ticker symbol.
func (c *Client) GetQuote(symbol string) (domain.Quote, error) {
	endpoint := fmt.Sprintf("%s/quote/%s", c.baseURL, url.PathEscape(symbol))

	var result quoteResponse
	if err := c.getJSON(endpoint, nil, &result); err != nil {
		return domain.Quote{}, err
	}

	if len(result.Results) == 0 {
		return domain.Quote{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}

	r := result.Results[0]
	name := r.LongName
	if name == "" {
		name = r.ShortName
	}

	quote := domain.Quote{
		Symbol:        r.Symbol,
		Name:          name,
		Price:         r.RegularMarketPrice,
		Change:        r.RegularMarketChange,
		ChangePercent: r.RegularMarketChangePercent,
		Currency:      r.Currency,
		MarketTime:    r.RegularMarketTime,
	}

	c.log.Debug().
		Str("symbol", quote.Symbol).
		Float64("price", quote.Price).
		Msg("Fetched quote")

	return quote, nil
}

// GetUSDBRL fetches the current USD/BRL exchange rate.
func (c *Client) GetUSDBRL() (domain.ExchangeRate, error) {
	endpoint := c.baseURL + "/v2/currency"

	var result currencyResponse
	if err := c.getJSON(endpoint, url.Values{"currency": {"USD-BRL"}}, &result); err != nil {
		return domain.ExchangeRate{}, err
	}

	if len(result.Currency) == 0 {
		return domain.ExchangeRate{}, fmt.Errorf("%w: USD-BRL", ErrSymbolNotFound)
	}

	r := result.Currency[0]
	price, err := strconv.ParseFloat(r.BidPrice, 64)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("failed to parse rate %q: %w", r.BidPrice, err)
	}

	// Variation fields are optional on some plans
	change, _ := strconv.ParseFloat(r.BidVariation, 64)
	changePct, _ := strconv.ParseFloat(r.PercentageChange, 64)

	rate := domain.ExchangeRate{
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		LastUpdate:    r.UpdatedAtTime,
	}

	c.log.Debug().Float64("rate", rate.Price).Msg("Fetched USD/BRL rate")

	return rate, nil
}

// getJSON performs a GET with the token attached and decodes the body,
// translating HTTP status codes into the provider error taxonomy.
func (c *Client) getJSON(endpoint string, query url.Values, out interface{}) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %s: %w", endpoint, err)
	}

	if query == nil {
		query = url.Values{}
	}
	if c.token != "" {
		query.Set("token", c.token)
	}
	u.RawQuery = query.Encode()

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return ErrSymbolNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
