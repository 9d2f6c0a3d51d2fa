package services

import (
	"context"
	"testing"

	"github.com/cardarena/arena-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustCoinsPicksTypeBySign(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.store.seedUser(1, 100)

	entry, err := env.users.AdjustCoins(ctx, 1, 25, "promo credit")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionAdminAdd, entry.Type)
	assert.Equal(t, int64(125), env.store.users[1].Balance)

	entry, err = env.users.AdjustCoins(ctx, 1, -25, "chargeback")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionAdminRemove, entry.Type)
	assert.Equal(t, int64(100), env.store.users[1].Balance)

	_, err = env.users.AdjustCoins(ctx, 1, 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAdjustCoinsLargeAmountRaisesAlert(t *testing.T) {
	env := newTestEnv()
	env.store.seedUser(1, 0)

	_, err := env.users.AdjustCoins(context.Background(), 1, 15_000, "season reward")
	require.NoError(t, err)

	require.Len(t, env.store.alerts, 1)
	assert.Equal(t, models.AlertLargeAdjustment, env.store.alerts[0].Kind)
	require.NotNil(t, env.store.alerts[0].UserID)
	assert.Equal(t, 1, *env.store.alerts[0].UserID)
}

func TestAdjustCoinsSmallAmountNoAlert(t *testing.T) {
	env := newTestEnv()
	env.store.seedUser(1, 0)

	_, err := env.users.AdjustCoins(context.Background(), 1, 500, "")
	require.NoError(t, err)
	assert.Empty(t, env.store.alerts)
}

func TestPurchaseCoins(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.store.seedUser(1, 10)

	entry, err := env.users.PurchaseCoins(ctx, 1, 200)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionCoinPurchase, entry.Type)
	assert.Equal(t, int64(210), env.store.users[1].Balance)

	_, err = env.users.PurchaseCoins(ctx, 1, -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
