package storage

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevincoe/bankcore/internal/domain"
)

const testSchema = `
CREATE TABLE collections (
    name       TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return db
}

func TestSetGetRoundTrip(t *testing.T) {
	store := NewStore(setupTestDB(t), zerolog.Nop())

	accounts := []domain.Account{
		{ID: "a1", AccountNumber: "01123456789-0", CustomerName: "Maria Silva"},
		{ID: "a2", AccountNumber: "02987654321-4", CustomerName: "Joao Souza"},
	}

	require.NoError(t, store.SetCollection(CollectionAccounts, accounts))

	var got []domain.Account
	require.NoError(t, store.GetCollection(CollectionAccounts, &got))
	assert.Equal(t, accounts, got)
}

func TestGetMissingCollectionIsEmpty(t *testing.T) {
	store := NewStore(setupTestDB(t), zerolog.Nop())

	var got []domain.Account
	require.NoError(t, store.GetCollection(CollectionAccounts, &got))
	assert.Empty(t, got)
}

func TestGetCorruptCollectionDegradesToEmpty(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.Exec(
		"INSERT INTO collections (name, data, updated_at) VALUES (?, ?, ?)",
		CollectionAccounts, "{not json", 0,
	)
	require.NoError(t, err)

	store := NewStore(db, zerolog.Nop())

	var got []domain.Account
	require.NoError(t, store.GetCollection(CollectionAccounts, &got))
	assert.Empty(t, got)
}

func TestSetOverwritesWholeCollection(t *testing.T) {
	store := NewStore(setupTestDB(t), zerolog.Nop())

	require.NoError(t, store.SetCollection(CollectionAccounts, []domain.Account{{ID: "a1"}, {ID: "a2"}}))
	require.NoError(t, store.SetCollection(CollectionAccounts, []domain.Account{{ID: "a3"}}))

	var got []domain.Account
	require.NoError(t, store.GetCollection(CollectionAccounts, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a3", got[0].ID)
}

func TestSetWriteErrorPropagates(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db, zerolog.Nop())
	require.NoError(t, db.Close())

	err := store.SetCollection(CollectionAccounts, []domain.Account{{ID: "a1"}})
	assert.Error(t, err)
}

func TestDeleteCollection(t *testing.T) {
	store := NewStore(setupTestDB(t), zerolog.Nop())

	require.NoError(t, store.SetCollection(CollectionInvestments, []domain.Investment{{ID: "i1"}}))
	require.NoError(t, store.DeleteCollection(CollectionInvestments))

	var got []domain.Investment
	require.NoError(t, store.GetCollection(CollectionInvestments, &got))
	assert.Empty(t, got)
}

func TestCollectionsAreIndependent(t *testing.T) {
	store := NewStore(setupTestDB(t), zerolog.Nop())

	require.NoError(t, store.SetCollection(CollectionAccounts, []domain.Account{{ID: "a1"}}))
	require.NoError(t, store.SetCollection(CollectionInvestments, []domain.Investment{{ID: "i1"}}))

	var accounts []domain.Account
	var investments []domain.Investment
	require.NoError(t, store.GetCollection(CollectionAccounts, &accounts))
	require.NoError(t, store.GetCollection(CollectionInvestments, &investments))

	assert.Len(t, accounts, 1)
	assert.Len(t, investments, 1)
}
