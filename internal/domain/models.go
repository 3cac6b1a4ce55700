// Package domain provides core domain models and types.
package domain

// AccountType represents the account category
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeBusiness AccountType = "business"
)

// Valid reports whether the account type is one of the known categories
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeBusiness:
		return true
	}
	return false
}

// AccountStatus represents the account lifecycle state
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Account represents a customer account record.
// Field names follow the persisted JSON collection format.
type Account struct {
	ID            string        `json:"id"`
	AccountNumber string        `json:"accountNumber"`
	AccountType   AccountType   `json:"accountType"`
	Balance       float64       `json:"balance"`
	CustomerName  string        `json:"customerName"`
	CustomerCPF   string        `json:"customerCpf"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerPhone string        `json:"customerPhone"`
	BusinessName  string        `json:"businessName,omitempty"`
	BusinessCNPJ  string        `json:"businessCnpj,omitempty"`
	Status        AccountStatus `json:"status"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
}

// Investment represents a stock holding tied to an account.
type Investment struct {
	ID            string  `json:"id"`
	AccountID     string  `json:"accountId"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	PurchaseDate  string  `json:"purchaseDate"`
	LastUpdate    string  `json:"lastUpdate"`
}

// Quote is a price snapshot for a ticker symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Currency      string  `json:"currency"`
	MarketTime    string  `json:"marketTime"`
}

// ExchangeRate is the USD/BRL rate snapshot.
type ExchangeRate struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	LastUpdate    string  `json:"lastUpdate"`
}
