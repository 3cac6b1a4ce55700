package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/domain"
)

// RateRefresher keeps the cached USD/BRL rate warm.
type RateRefresher interface {
	RefreshUSDBRL() (domain.ExchangeRate, error)
}

// PriceRefresher updates current prices for all holdings.
type PriceRefresher interface {
	RefreshPrices() (int, error)
}

// RateSyncJob refreshes the USD/BRL exchange rate on schedule so the
// dashboard rarely pays the provider round trip.
type RateSyncJob struct {
	refresher RateRefresher
	log       zerolog.Logger
}

// NewRateSyncJob creates a new rate sync job
func NewRateSyncJob(refresher RateRefresher, log zerolog.Logger) *RateSyncJob {
	return &RateSyncJob{
		refresher: refresher,
		log:       log.With().Str("job", "rate_sync").Logger(),
	}
}

// Name returns the job name
func (j *RateSyncJob) Name() string { return "rate_sync" }

// Run refreshes the exchange rate
func (j *RateSyncJob) Run() error {
	rate, err := j.refresher.RefreshUSDBRL()
	if err != nil {
		return err
	}
	j.log.Info().Float64("rate", rate.Price).Msg("USD/BRL rate synced")
	return nil
}

// PriceRefreshJob updates the current price of every registered holding.
type PriceRefreshJob struct {
	refresher PriceRefresher
	log       zerolog.Logger
}

// NewPriceRefreshJob creates a new price refresh job
func NewPriceRefreshJob(refresher PriceRefresher, log zerolog.Logger) *PriceRefreshJob {
	return &PriceRefreshJob{
		refresher: refresher,
		log:       log.With().Str("job", "price_refresh").Logger(),
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string { return "price_refresh" }

// Run refreshes holding prices
func (j *PriceRefreshJob) Run() error {
	updated, err := j.refresher.RefreshPrices()
	if err != nil {
		return err
	}
	j.log.Info().Int("updated", updated).Msg("Holding prices synced")
	return nil
}
