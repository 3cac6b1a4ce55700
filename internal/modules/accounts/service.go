package accounts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kevincoe/bankcore/internal/accountnumber"
	"github.com/kevincoe/bankcore/internal/documents"
	"github.com/kevincoe/bankcore/internal/domain"
)

// InvestmentRemover removes the investments owned by an account.
// Defined here to avoid an import cycle with the investments module.
type InvestmentRemover interface {
	DeleteByAccount(accountID string) error
}

// CreateAccountInput carries the fields submitted for account creation.
// Documents may arrive formatted or raw; they are cleaned before
// validation and stored cleaned.
type CreateAccountInput struct {
	AccountType    domain.AccountType `json:"accountType"`
	InitialBalance float64            `json:"initialBalance"`
	CustomerName   string             `json:"customerName"`
	CustomerCPF    string             `json:"customerCpf"`
	CustomerEmail  string             `json:"customerEmail"`
	CustomerPhone  string             `json:"customerPhone"`
	BusinessName   string             `json:"businessName,omitempty"`
	BusinessCNPJ   string             `json:"businessCnpj,omitempty"`
}

// UpdateAccountInput carries the mutable account fields. Documents and
// the account number are immutable after creation.
type UpdateAccountInput struct {
	CustomerName  *string  `json:"customerName,omitempty"`
	CustomerEmail *string  `json:"customerEmail,omitempty"`
	CustomerPhone *string  `json:"customerPhone,omitempty"`
	Balance       *float64 `json:"balance,omitempty"`
}

// Service orchestrates account operations: input validation, document
// checksum validation, duplicate-document rejection and account number
// generation.
type Service struct {
	repo      *Repository
	generator *accountnumber.Generator
	invests   InvestmentRemover // Optional: cascade delete of holdings
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates a new account service. now may be nil to use the
// wall clock; investments may be nil to skip cascade deletes.
func NewService(
	repo *Repository,
	generator *accountnumber.Generator,
	investments InvestmentRemover,
	now func() time.Time,
	log zerolog.Logger,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:      repo,
		generator: generator,
		invests:   investments,
		now:       now,
		log:       log.With().Str("service", "accounts").Logger(),
	}
}

// SetInvestmentRemover wires the cascade-delete dependency after
// construction. Accounts and investments reference each other, so one
// side has to be attached late.
func (s *Service) SetInvestmentRemover(r InvestmentRemover) {
	s.invests = r
}

// List returns all accounts
func (s *Service) List() ([]domain.Account, error) {
	return s.repo.GetAll()
}

// Get returns the account with the given ID, or nil if absent
func (s *Service) Get(id string) (*domain.Account, error) {
	return s.repo.GetByID(id)
}

// Create validates the input, rejects duplicate documents and persists a
// new account with a generated account number.
//
// Validation errors are field-scoped and collected across all fields;
// one bad field does not mask the others. A duplicate document rejects
// the whole create - nothing is written.
func (s *Service) Create(input CreateAccountInput) (*domain.Account, error) {
	cpf := documents.Clean(input.CustomerCPF)
	cnpj := documents.Clean(input.BusinessCNPJ)

	if errs := s.validateCreate(input, cpf, cnpj); len(errs) > 0 {
		return nil, errs
	}

	// Duplicate check runs on cleaned digits, so formatting differences
	// in submitted strings cannot smuggle in a second registration.
	if existing, err := s.repo.FindByDocument(cpf); err != nil {
		return nil, fmt.Errorf("failed to check for duplicate document: %w", err)
	} else if existing != nil {
		return nil, domain.DuplicateDocumentError{Document: documents.FormatCPF(cpf)}
	}
	if input.AccountType == domain.AccountTypeBusiness {
		if existing, err := s.repo.FindByDocument(cnpj); err != nil {
			return nil, fmt.Errorf("failed to check for duplicate document: %w", err)
		} else if existing != nil {
			return nil, domain.DuplicateDocumentError{Document: documents.FormatCNPJ(cnpj)}
		}
	}

	nowStr := s.now().UTC().Format(time.RFC3339)
	account := domain.Account{
		ID:            uuid.NewString(),
		AccountNumber: s.generator.Generate(input.AccountType),
		AccountType:   input.AccountType,
		Balance:       input.InitialBalance,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerCPF:   cpf,
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Status:        domain.AccountStatusActive,
		CreatedAt:     nowStr,
		UpdatedAt:     nowStr,
	}
	if input.AccountType == domain.AccountTypeBusiness {
		account.BusinessName = strings.TrimSpace(input.BusinessName)
		account.BusinessCNPJ = cnpj
	}

	if err := s.repo.Create(account); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("id", account.ID).
		Str("account_number", account.AccountNumber).
		Str("type", string(account.AccountType)).
		Msg("Account created")

	return &account, nil
}

// Update applies the given changes to an existing account
func (s *Service) Update(id string, input UpdateAccountInput) (*domain.Account, error) {
	account, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	var errs domain.ValidationErrors
	if input.CustomerName != nil {
		if strings.TrimSpace(*input.CustomerName) == "" {
			errs = append(errs, domain.ValidationError{Field: "customerName", Message: "must not be empty"})
		} else {
			account.CustomerName = strings.TrimSpace(*input.CustomerName)
		}
	}
	if input.CustomerEmail != nil {
		if !validEmail(*input.CustomerEmail) {
			errs = append(errs, domain.ValidationError{Field: "customerEmail", Message: "invalid email address"})
		} else {
			account.CustomerEmail = strings.TrimSpace(*input.CustomerEmail)
		}
	}
	if input.CustomerPhone != nil {
		if !validPhone(*input.CustomerPhone) {
			errs = append(errs, domain.ValidationError{Field: "customerPhone", Message: "invalid phone number"})
		} else {
			account.CustomerPhone = strings.TrimSpace(*input.CustomerPhone)
		}
	}
	if input.Balance != nil {
		if *input.Balance < 0 {
			errs = append(errs, domain.ValidationError{Field: "balance", Message: "must not be negative"})
		} else {
			account.Balance = *input.Balance
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	account.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.repo.Update(*account); err != nil {
		return nil, err
	}

	return account, nil
}

// SetStatus toggles the account between active and inactive
func (s *Service) SetStatus(id string, status domain.AccountStatus) (*domain.Account, error) {
	if status != domain.AccountStatusActive && status != domain.AccountStatusInactive {
		return nil, domain.ValidationErrors{{Field: "status", Message: "must be active or inactive"}}
	}

	account, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	account.Status = status
	account.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.repo.Update(*account); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", id).Str("status", string(status)).Msg("Account status changed")
	return account, nil
}

// Delete removes the account and, when an investment remover is wired,
// its holdings.
func (s *Service) Delete(id string) error {
	account, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("account %s not found", id)
	}

	if s.invests != nil {
		if err := s.invests.DeleteByAccount(id); err != nil {
			return fmt.Errorf("failed to delete investments for account %s: %w", id, err)
		}
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.log.Info().Str("id", id).Msg("Account deleted")
	return nil
}

// validateCreate collects field-level errors for a create request.
// cpf and cnpj arrive already cleaned.
func (s *Service) validateCreate(input CreateAccountInput, cpf, cnpj string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if !input.AccountType.Valid() {
		errs = append(errs, domain.ValidationError{Field: "accountType", Message: "must be checking, savings or business"})
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		errs = append(errs, domain.ValidationError{Field: "customerName", Message: "must not be empty"})
	}
	if !documents.ValidateCPF(cpf) {
		errs = append(errs, domain.ValidationError{Field: "customerCpf", Message: "invalid CPF"})
	}
	if !validEmail(input.CustomerEmail) {
		errs = append(errs, domain.ValidationError{Field: "customerEmail", Message: "invalid email address"})
	}
	if !validPhone(input.CustomerPhone) {
		errs = append(errs, domain.ValidationError{Field: "customerPhone", Message: "invalid phone number"})
	}
	if input.InitialBalance < 0 {
		errs = append(errs, domain.ValidationError{Field: "initialBalance", Message: "must not be negative"})
	}

	if input.AccountType == domain.AccountTypeBusiness {
		if strings.TrimSpace(input.BusinessName) == "" {
			errs = append(errs, domain.ValidationError{Field: "businessName", Message: "must not be empty"})
		}
		if !documents.ValidateCNPJ(cnpj) {
			errs = append(errs, domain.ValidationError{Field: "businessCnpj", Message: "invalid CNPJ"})
		}
	}

	return errs
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	// Minimal shape check; deliverability is not this layer's problem
	return at > 0 && strings.Contains(email[at+1:], ".")
}

func validPhone(phone string) bool {
	digits := documents.Clean(phone)
	// Brazilian numbers: DDD + 8 or 9 digits
	return len(digits) == 10 || len(digits) == 11
}
