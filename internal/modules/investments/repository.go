// Package investments provides stock holding management for accounts.
package investments

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/domain"
	"github.com/kevincoe/bankcore/internal/storage"
)

// Repository handles investment persistence on the collection store.
type Repository struct {
	store *storage.Store
	log   zerolog.Logger
}

// NewRepository creates a new investment repository
func NewRepository(store *storage.Store, log zerolog.Logger) *Repository {
	return &Repository{
		store: store,
		log:   log.With().Str("repo", "investments").Logger(),
	}
}

// GetAll returns all investments
func (r *Repository) GetAll() ([]domain.Investment, error) {
	var investments []domain.Investment
	if err := r.store.GetCollection(storage.CollectionInvestments, &investments); err != nil {
		return nil, fmt.Errorf("failed to load investments: %w", err)
	}
	return investments, nil
}

// GetByID returns the investment with the given ID, or nil if absent
func (r *Repository) GetByID(id string) (*domain.Investment, error) {
	investments, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range investments {
		if investments[i].ID == id {
			return &investments[i], nil
		}
	}
	return nil, nil
}

// GetByAccount returns the investments owned by an account
func (r *Repository) GetByAccount(accountID string) ([]domain.Investment, error) {
	investments, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	var owned []domain.Investment
	for _, inv := range investments {
		if inv.AccountID == accountID {
			owned = append(owned, inv)
		}
	}
	return owned, nil
}

// Create appends the investment to the collection
func (r *Repository) Create(investment domain.Investment) error {
	investments, err := r.GetAll()
	if err != nil {
		return err
	}
	investments = append(investments, investment)
	if err := r.store.SetCollection(storage.CollectionInvestments, investments); err != nil {
		return fmt.Errorf("failed to persist investment %s: %w", investment.ID, err)
	}
	return nil
}

// UpdateAll replaces the whole collection. Used by bulk price refreshes.
func (r *Repository) UpdateAll(investments []domain.Investment) error {
	if err := r.store.SetCollection(storage.CollectionInvestments, investments); err != nil {
		return fmt.Errorf("failed to persist investments: %w", err)
	}
	return nil
}

// Delete removes the investment with the given ID
func (r *Repository) Delete(id string) error {
	investments, err := r.GetAll()
	if err != nil {
		return err
	}
	for i := range investments {
		if investments[i].ID == id {
			investments = append(investments[:i], investments[i+1:]...)
			if err := r.store.SetCollection(storage.CollectionInvestments, investments); err != nil {
				return fmt.Errorf("failed to persist investments after delete: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("investment %s not found", id)
}

// DeleteByAccount removes every investment owned by an account
func (r *Repository) DeleteByAccount(accountID string) error {
	investments, err := r.GetAll()
	if err != nil {
		return err
	}
	kept := investments[:0]
	for _, inv := range investments {
		if inv.AccountID != accountID {
			kept = append(kept, inv)
		}
	}
	if len(kept) == len(investments) {
		return nil
	}
	if err := r.store.SetCollection(storage.CollectionInvestments, kept); err != nil {
		return fmt.Errorf("failed to persist investments after account delete: %w", err)
	}
	return nil
}
