package investments

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevincoe/bankcore/internal/domain"
	"github.com/kevincoe/bankcore/internal/storage"
)

const testSchema = `
CREATE TABLE collections (
    name       TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

type stubQuotes struct {
	prices map[string]float64
	err    error
	calls  int
}

func (q *stubQuotes) GetQuote(symbol string) (domain.Quote, error) {
	q.calls++
	if q.err != nil {
		return domain.Quote{}, q.err
	}
	price, ok := q.prices[symbol]
	if !ok {
		return domain.Quote{}, errors.New("symbol not found")
	}
	return domain.Quote{Symbol: symbol, Name: symbol + " S.A.", Price: price, Currency: "BRL"}, nil
}

type stubAccounts struct {
	accounts map[string]domain.Account
}

func (a *stubAccounts) Get(id string) (*domain.Account, error) {
	acc, ok := a.accounts[id]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func newTestService(t *testing.T, quotes *stubQuotes, accounts *stubAccounts) *Service {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	store := storage.NewStore(db, zerolog.Nop())
	repo := NewRepository(store, zerolog.Nop())

	return NewService(repo, quotes, accounts, nil, zerolog.Nop())
}

func activeAccount(id string) *stubAccounts {
	return &stubAccounts{accounts: map[string]domain.Account{
		id: {ID: id, Status: domain.AccountStatusActive},
	}}
}

func TestCreateInvestment(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"PETR4": 38.52}}
	svc := newTestService(t, quotes, activeAccount("acc-1"))

	inv, err := svc.Create(CreateInvestmentInput{
		AccountID:     "acc-1",
		Symbol:        "petr4",
		Type:          "stock",
		Quantity:      100,
		PurchasePrice: 35.10,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, inv.ID)
	// Symbol is normalized and name/current price come from the provider
	assert.Equal(t, "PETR4", inv.Symbol)
	assert.Equal(t, "PETR4 S.A.", inv.Name)
	assert.Equal(t, 38.52, inv.CurrentPrice)
	assert.Equal(t, 35.10, inv.PurchasePrice)
	assert.NotEmpty(t, inv.PurchaseDate)
	assert.NotEmpty(t, inv.LastUpdate)
}

func TestCreateValidatesInput(t *testing.T) {
	svc := newTestService(t, &stubQuotes{}, activeAccount("acc-1"))

	_, err := svc.Create(CreateInvestmentInput{Quantity: -1, PurchasePrice: 0})

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.Fields()
	assert.Contains(t, fields, "accountId")
	assert.Contains(t, fields, "symbol")
	assert.Contains(t, fields, "quantity")
	assert.Contains(t, fields, "purchasePrice")
}

func TestCreateRejectsUnknownAccount(t *testing.T) {
	svc := newTestService(t, &stubQuotes{prices: map[string]float64{"PETR4": 1}}, &stubAccounts{})

	_, err := svc.Create(CreateInvestmentInput{
		AccountID: "missing", Symbol: "PETR4", Quantity: 1, PurchasePrice: 1,
	})

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Fields(), "accountId")
}

func TestCreateRejectsInactiveAccount(t *testing.T) {
	accounts := &stubAccounts{accounts: map[string]domain.Account{
		"acc-1": {ID: "acc-1", Status: domain.AccountStatusInactive},
	}}
	svc := newTestService(t, &stubQuotes{prices: map[string]float64{"PETR4": 1}}, accounts)

	_, err := svc.Create(CreateInvestmentInput{
		AccountID: "acc-1", Symbol: "PETR4", Quantity: 1, PurchasePrice: 1,
	})

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Fields(), "accountId")
}

func TestCreateProviderErrorPropagates(t *testing.T) {
	providerErr := errors.New("rate limited")
	svc := newTestService(t, &stubQuotes{err: providerErr}, activeAccount("acc-1"))

	_, err := svc.Create(CreateInvestmentInput{
		AccountID: "acc-1", Symbol: "PETR4", Quantity: 1, PurchasePrice: 1,
	})
	assert.ErrorIs(t, err, providerErr)

	// Nothing persisted
	list, listErr := svc.List("")
	require.NoError(t, listErr)
	assert.Empty(t, list)
}

func TestListByAccount(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"PETR4": 1, "VALE3": 2}}
	accounts := &stubAccounts{accounts: map[string]domain.Account{
		"acc-1": {ID: "acc-1", Status: domain.AccountStatusActive},
		"acc-2": {ID: "acc-2", Status: domain.AccountStatusActive},
	}}
	svc := newTestService(t, quotes, accounts)

	_, err := svc.Create(CreateInvestmentInput{AccountID: "acc-1", Symbol: "PETR4", Quantity: 1, PurchasePrice: 1})
	require.NoError(t, err)
	_, err = svc.Create(CreateInvestmentInput{AccountID: "acc-2", Symbol: "VALE3", Quantity: 1, PurchasePrice: 1})
	require.NoError(t, err)

	owned, err := svc.List("acc-1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "PETR4", owned[0].Symbol)

	all, err := svc.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteByAccount(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"PETR4": 1}}
	svc := newTestService(t, quotes, activeAccount("acc-1"))

	_, err := svc.Create(CreateInvestmentInput{AccountID: "acc-1", Symbol: "PETR4", Quantity: 1, PurchasePrice: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByAccount("acc-1"))

	list, err := svc.List("")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRefreshPrices(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"PETR4": 10}}
	svc := newTestService(t, quotes, activeAccount("acc-1"))

	_, err := svc.Create(CreateInvestmentInput{AccountID: "acc-1", Symbol: "PETR4", Quantity: 1, PurchasePrice: 1})
	require.NoError(t, err)

	quotes.prices["PETR4"] = 12.5
	updated, err := svc.RefreshPrices()
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	list, err := svc.List("")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 12.5, list[0].CurrentPrice)
}

func TestRefreshPricesSkipsFailingSymbols(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"PETR4": 10, "VALE3": 20}}
	accounts := activeAccount("acc-1")
	svc := newTestService(t, quotes, accounts)

	_, err := svc.Create(CreateInvestmentInput{AccountID: "acc-1", Symbol: "PETR4", Quantity: 1, PurchasePrice: 1})
	require.NoError(t, err)
	_, err = svc.Create(CreateInvestmentInput{AccountID: "acc-1", Symbol: "VALE3", Quantity: 1, PurchasePrice: 1})
	require.NoError(t, err)

	delete(quotes.prices, "VALE3")
	quotes.prices["PETR4"] = 11

	updated, err := svc.RefreshPrices()
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	list, err := svc.List("")
	require.NoError(t, err)
	for _, inv := range list {
		if inv.Symbol == "VALE3" {
			// Failed symbol keeps its previous price
			assert.Equal(t, 20.0, inv.CurrentPrice)
		}
	}
}

func TestRefreshPricesEmptyCollection(t *testing.T) {
	svc := newTestService(t, &stubQuotes{}, activeAccount("acc-1"))

	updated, err := svc.RefreshPrices()
	require.NoError(t, err)
	assert.Zero(t, updated)
}
