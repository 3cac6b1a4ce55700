package quotes

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/domain"
)

// usdBRLKey is the fixed cache key for the exchange rate lookup.
const usdBRLKey = "USD-BRL"

// ProviderInterface defines the contract for the external quote provider.
type ProviderInterface interface {
	GetQuote(symbol string) (domain.Quote, error)
	GetUSDBRL() (domain.ExchangeRate, error)
}

// Service serves quote and exchange-rate lookups through a time-windowed
// cache in front of the provider. Provider failures propagate unchanged;
// retries, if any, are the caller's responsibility.
type Service struct {
	provider   ProviderInterface
	quoteCache *Cache[domain.Quote]
	rateCache  *Cache[domain.ExchangeRate]
	log        zerolog.Logger
}

// NewService creates a quote service with the given freshness window.
// now may be nil to use the wall clock.
func NewService(provider ProviderInterface, window time.Duration, now func() time.Time, log zerolog.Logger) *Service {
	return &Service{
		provider:   provider,
		quoteCache: NewCache[domain.Quote](window, now),
		rateCache:  NewCache[domain.ExchangeRate](window, now),
		log:        log.With().Str("service", "quotes").Logger(),
	}
}

// GetQuote returns the quote for symbol, served from cache when fresh.
func (s *Service) GetQuote(symbol string) (domain.Quote, error) {
	return s.quoteCache.Fetch(symbol, func() (domain.Quote, error) {
		quote, err := s.provider.GetQuote(symbol)
		if err != nil {
			return domain.Quote{}, err
		}
		s.log.Debug().
			Str("symbol", symbol).
			Float64("price", quote.Price).
			Msg("Quote fetched from provider")
		return quote, nil
	})
}

// GetUSDBRL returns the USD/BRL rate, served from cache when fresh.
func (s *Service) GetUSDBRL() (domain.ExchangeRate, error) {
	return s.rateCache.Fetch(usdBRLKey, func() (domain.ExchangeRate, error) {
		rate, err := s.provider.GetUSDBRL()
		if err != nil {
			return domain.ExchangeRate{}, err
		}
		s.log.Debug().Float64("rate", rate.Price).Msg("USD/BRL rate fetched from provider")
		return rate, nil
	})
}

// RefreshUSDBRL bypasses the cache, fetches the current rate and stores
// it. Used by the scheduled rate sync job to keep the cached rate warm.
func (s *Service) RefreshUSDBRL() (domain.ExchangeRate, error) {
	rate, err := s.provider.GetUSDBRL()
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	s.rateCache.Set(usdBRLKey, rate)
	s.log.Debug().Float64("rate", rate.Price).Msg("USD/BRL rate refreshed")
	return rate, nil
}

// ClearCache removes every cached quote and rate.
func (s *Service) ClearCache() {
	s.quoteCache.Clear()
	s.rateCache.Clear()
}

// CacheStats reports cache contents for the quote and rate caches.
func (s *Service) CacheStats() map[string]CacheStats {
	return map[string]CacheStats{
		"quotes": s.quoteCache.Stats(),
		"rates":  s.rateCache.Stats(),
	}
}
