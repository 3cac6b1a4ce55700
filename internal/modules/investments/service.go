package investments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/domain"
)

// QuoteGetter resolves current market data for a symbol.
// Defined here to avoid importing the quotes package directly.
type QuoteGetter interface {
	GetQuote(symbol string) (domain.Quote, error)
}

// AccountGetter checks the owning account for a holding.
type AccountGetter interface {
	Get(id string) (*domain.Account, error)
}

// CreateInvestmentInput carries the fields submitted for a new holding.
type CreateInvestmentInput struct {
	AccountID     string  `json:"accountId"`
	Symbol        string  `json:"symbol"`
	Type          string  `json:"type"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
	PurchaseDate  string  `json:"purchaseDate"`
}

// Service orchestrates investment operations. Symbol names and current
// prices come from the quote service at registration and refresh time.
type Service struct {
	repo     *Repository
	quotes   QuoteGetter
	accounts AccountGetter
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates a new investment service. now may be nil to use the
// wall clock.
func NewService(
	repo *Repository,
	quotes QuoteGetter,
	accounts AccountGetter,
	now func() time.Time,
	log zerolog.Logger,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:     repo,
		quotes:   quotes,
		accounts: accounts,
		now:      now,
		log:      log.With().Str("service", "investments").Logger(),
	}
}

// List returns all investments, optionally filtered by account
func (s *Service) List(accountID string) ([]domain.Investment, error) {
	if accountID != "" {
		return s.repo.GetByAccount(accountID)
	}
	return s.repo.GetAll()
}

// Get returns the investment with the given ID, or nil if absent
func (s *Service) Get(id string) (*domain.Investment, error) {
	return s.repo.GetByID(id)
}

// Create validates the input, resolves the symbol through the quote
// provider and persists the holding. Quote-provider failures propagate
// to the caller unchanged.
func (s *Service) Create(input CreateInvestmentInput) (*domain.Investment, error) {
	if errs := s.validateCreate(input); len(errs) > 0 {
		return nil, errs
	}

	account, err := s.accounts.Get(input.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", input.AccountID, err)
	}
	if account == nil {
		return nil, domain.ValidationErrors{{Field: "accountId", Message: "account not found"}}
	}
	if account.Status != domain.AccountStatusActive {
		return nil, domain.ValidationErrors{{Field: "accountId", Message: "account is inactive"}}
	}

	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	quote, err := s.quotes.GetQuote(symbol)
	if err != nil {
		return nil, err
	}

	purchaseDate := input.PurchaseDate
	if purchaseDate == "" {
		purchaseDate = s.now().UTC().Format(time.RFC3339)
	}

	investment := domain.Investment{
		ID:            uuid.NewString(),
		AccountID:     input.AccountID,
		Symbol:        symbol,
		Name:          quote.Name,
		Type:          input.Type,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		CurrentPrice:  quote.Price,
		PurchaseDate:  purchaseDate,
		LastUpdate:    s.now().UTC().Format(time.RFC3339),
	}

	if err := s.repo.Create(investment); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("id", investment.ID).
		Str("symbol", symbol).
		Float64("quantity", investment.Quantity).
		Msg("Investment registered")

	return &investment, nil
}

// Delete removes a holding
func (s *Service) Delete(id string) error {
	return s.repo.Delete(id)
}

// DeleteByAccount removes every holding owned by an account
func (s *Service) DeleteByAccount(accountID string) error {
	return s.repo.DeleteByAccount(accountID)
}

// RefreshPrices updates the current price of every holding from the
// quote provider. Symbols that fail to resolve keep their previous price;
// the refresh carries on. Returns the number of holdings updated.
func (s *Service) RefreshPrices() (int, error) {
	investments, err := s.repo.GetAll()
	if err != nil {
		return 0, err
	}
	if len(investments) == 0 {
		return 0, nil
	}

	// Fetch each distinct symbol once; the cache absorbs repeats anyway
	prices := make(map[string]domain.Quote)
	updated := 0
	for i := range investments {
		quote, ok := prices[investments[i].Symbol]
		if !ok {
			var err error
			quote, err = s.quotes.GetQuote(investments[i].Symbol)
			if err != nil {
				s.log.Warn().
					Err(err).
					Str("symbol", investments[i].Symbol).
					Msg("Price refresh failed for symbol, keeping previous price")
				continue
			}
			prices[investments[i].Symbol] = quote
		}
		investments[i].CurrentPrice = quote.Price
		investments[i].LastUpdate = s.now().UTC().Format(time.RFC3339)
		updated++
	}

	if updated == 0 {
		return 0, nil
	}
	if err := s.repo.UpdateAll(investments); err != nil {
		return 0, err
	}

	s.log.Info().Int("updated", updated).Msg("Investment prices refreshed")
	return updated, nil
}

func (s *Service) validateCreate(input CreateInvestmentInput) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(input.AccountID) == "" {
		errs = append(errs, domain.ValidationError{Field: "accountId", Message: "must not be empty"})
	}
	if strings.TrimSpace(input.Symbol) == "" {
		errs = append(errs, domain.ValidationError{Field: "symbol", Message: "must not be empty"})
	}
	if input.Quantity <= 0 {
		errs = append(errs, domain.ValidationError{Field: "quantity", Message: "must be positive"})
	}
	if input.PurchasePrice <= 0 {
		errs = append(errs, domain.ValidationError{Field: "purchasePrice", Message: "must be positive"})
	}

	return errs
}
