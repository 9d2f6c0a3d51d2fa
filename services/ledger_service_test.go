package services

import (
	"context"
	"testing"

	"github.com/cardarena/arena-admin/models"
	"github.com/cardarena/arena-admin/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCreditAndDebit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.store.seedUser(1, 0)

	entry, err := env.ledger.Record(ctx, RecordParams{
		UserID: 1, Type: models.TransactionCoinPurchase, Amount: 100, Description: "topup",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), entry.Amount)

	_, err = env.ledger.Record(ctx, RecordParams{
		UserID: 1, Type: models.TransactionMatchEntry, Amount: -30,
	})
	require.NoError(t, err)

	balance, err := env.ledger.BalanceOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(70), balance)
	assert.Len(t, env.store.transactions, 2)
}

func TestRecordRejectsZeroAmount(t *testing.T) {
	env := newTestEnv()
	env.store.seedUser(1, 100)

	_, err := env.ledger.Record(context.Background(), RecordParams{
		UserID: 1, Type: models.TransactionAdminAdd, Amount: 0,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, env.store.transactions)
}

func TestRecordOverdraft(t *testing.T) {
	env := newTestEnv()
	env.store.seedUser(1, 20)

	_, err := env.ledger.Record(context.Background(), RecordParams{
		UserID: 1, Type: models.TransactionTournamentEntry, Amount: -50,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Rejected before anything was written.
	assert.Equal(t, int64(20), env.store.users[1].Balance)
	assert.Empty(t, env.store.transactions)
}

func TestRecordUnknownUser(t *testing.T) {
	env := newTestEnv()

	_, err := env.ledger.Record(context.Background(), RecordParams{
		UserID: 42, Type: models.TransactionAdminAdd, Amount: 10,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestHistoryFiltersByType(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.store.seedUser(1, 100)

	for _, p := range []RecordParams{
		{UserID: 1, Type: models.TransactionCoinPurchase, Amount: 50},
		{UserID: 1, Type: models.TransactionMatchEntry, Amount: -10},
		{UserID: 1, Type: models.TransactionMatchEntry, Amount: -10},
	} {
		_, err := env.ledger.Record(ctx, p)
		require.NoError(t, err)
	}

	entryType := models.TransactionMatchEntry
	history, err := env.ledger.History(ctx, repositories.ListTransactionsFilter{
		UserID: intPtr(1), Type: &entryType,
	})
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestReconcile(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.store.seedUser(1, 0)

	_, err := env.ledger.Record(ctx, RecordParams{UserID: 1, Type: models.TransactionCoinPurchase, Amount: 100})
	require.NoError(t, err)
	_, err = env.ledger.Record(ctx, RecordParams{UserID: 1, Type: models.TransactionMatchEntry, Amount: -30})
	require.NoError(t, err)

	cached, ledger, err := env.ledger.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(70), cached)
	assert.Equal(t, int64(70), ledger)

	// A balance touched outside the ledger shows up as a mismatch.
	env.store.users[1].Balance += 5
	cached, ledger, err = env.ledger.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(75), cached)
	assert.Equal(t, int64(70), ledger)
}

func intPtr(v int) *int { return &v }
