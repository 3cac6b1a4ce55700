// Package accounts provides customer account management.
package accounts

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/domain"
	"github.com/kevincoe/bankcore/internal/storage"
)

// Repository handles account persistence on the collection store.
// Every mutation is a read-modify-write of the whole collection; the
// store offers no row-level operations and no locking discipline.
type Repository struct {
	store *storage.Store
	log   zerolog.Logger
}

// NewRepository creates a new account repository
func NewRepository(store *storage.Store, log zerolog.Logger) *Repository {
	return &Repository{
		store: store,
		log:   log.With().Str("repo", "accounts").Logger(),
	}
}

// GetAll returns all accounts
func (r *Repository) GetAll() ([]domain.Account, error) {
	var accounts []domain.Account
	if err := r.store.GetCollection(storage.CollectionAccounts, &accounts); err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return accounts, nil
}

// GetByID returns the account with the given ID, or nil if absent.
func (r *Repository) GetByID(id string) (*domain.Account, error) {
	accounts, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i], nil
		}
	}
	return nil, nil
}

// FindByDocument returns the first account whose cleaned CPF or CNPJ
// equals digits, or nil if none. Documents are stored cleaned, so the
// comparison is exact.
func (r *Repository) FindByDocument(digits string) (*domain.Account, error) {
	if digits == "" {
		return nil, nil
	}
	accounts, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].CustomerCPF == digits || accounts[i].BusinessCNPJ == digits {
			return &accounts[i], nil
		}
	}
	return nil, nil
}

// Create appends the account to the collection
func (r *Repository) Create(account domain.Account) error {
	accounts, err := r.GetAll()
	if err != nil {
		return err
	}
	accounts = append(accounts, account)
	if err := r.store.SetCollection(storage.CollectionAccounts, accounts); err != nil {
		return fmt.Errorf("failed to persist account %s: %w", account.ID, err)
	}
	return nil
}

// Update replaces the stored account with the same ID
func (r *Repository) Update(account domain.Account) error {
	accounts, err := r.GetAll()
	if err != nil {
		return err
	}
	for i := range accounts {
		if accounts[i].ID == account.ID {
			accounts[i] = account
			if err := r.store.SetCollection(storage.CollectionAccounts, accounts); err != nil {
				return fmt.Errorf("failed to persist account %s: %w", account.ID, err)
			}
			return nil
		}
	}
	return fmt.Errorf("account %s not found", account.ID)
}

// Delete removes the account with the given ID
func (r *Repository) Delete(id string) error {
	accounts, err := r.GetAll()
	if err != nil {
		return err
	}
	for i := range accounts {
		if accounts[i].ID == id {
			accounts = append(accounts[:i], accounts[i+1:]...)
			if err := r.store.SetCollection(storage.CollectionAccounts, accounts); err != nil {
				return fmt.Errorf("failed to persist accounts after delete: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("account %s not found", id)
}
