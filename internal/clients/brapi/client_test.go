package brapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "", zerolog.Nop())
}

func TestGetQuote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/PETR4", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{
				"symbol": "PETR4",
				"shortName": "PETROBRAS PN",
				"longName": "Petroleo Brasileiro S.A. - Petrobras",
				"currency": "BRL",
				"regularMarketPrice": 38.52,
				"regularMarketChange": -0.43,
				"regularMarketChangePercent": -1.1,
				"regularMarketTime": "2026-08-28T20:07:00.000Z"
			}]
		}`))
	})

	quote, err := client.GetQuote("PETR4")
	require.NoError(t, err)

	assert.Equal(t, "PETR4", quote.Symbol)
	assert.Equal(t, "Petroleo Brasileiro S.A. - Petrobras", quote.Name)
	assert.Equal(t, 38.52, quote.Price)
	assert.Equal(t, -0.43, quote.Change)
	assert.Equal(t, -1.1, quote.ChangePercent)
	assert.Equal(t, "BRL", quote.Currency)
}

func TestGetQuoteFallsBackToShortName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"symbol":"VALE3","shortName":"VALE ON","regularMarketPrice":61.2}]}`))
	})

	quote, err := client.GetQuote("VALE3")
	require.NoError(t, err)
	assert.Equal(t, "VALE ON", quote.Name)
}

func TestGetQuoteErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected error
	}{
		{"not found", http.StatusNotFound, ErrSymbolNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.GetQuote("XXXX4")
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestGetQuoteEmptyResultsIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := client.GetQuote("NOPE3")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestGetQuoteServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetQuote("PETR4")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSymbolNotFound)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGetUSDBRL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/currency", r.URL.Path)
		assert.Equal(t, "USD-BRL", r.URL.Query().Get("currency"))
		_, _ = w.Write([]byte(`{
			"currency": [{
				"bidPrice": "5.4321",
				"bidVariation": "0.0123",
				"percentageChange": "0.23",
				"updatedAtTime": "17:30:00"
			}]
		}`))
	})

	rate, err := client.GetUSDBRL()
	require.NoError(t, err)

	assert.Equal(t, 5.4321, rate.Price)
	assert.Equal(t, 0.0123, rate.Change)
	assert.Equal(t, 0.23, rate.ChangePercent)
	assert.Equal(t, "17:30:00", rate.LastUpdate)
}

func TestGetUSDBRLBadRate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"currency":[{"bidPrice":"not-a-number"}]}`))
	})

	_, err := client.GetUSDBRL()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse rate")
}

func TestTokenIsAttached(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		_, _ = w.Write([]byte(`{"results":[{"symbol":"PETR4","regularMarketPrice":1}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token", zerolog.Nop())
	_, err := client.GetQuote("PETR4")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", gotToken)
}
