package services

import (
	"context"
	"testing"

	"github.com/cardarena/arena-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertPublishAndAcknowledge(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.alerts.Publish(ctx, models.AlertBalanceMismatch, "ledger drift for user 7", nil, intPtr(7))
	env.alerts.Publish(ctx, models.AlertTournamentCancelled, "rainout", intPtr(1), nil)

	unacked, err := env.alerts.List(ctx, true, 0)
	require.NoError(t, err)
	require.Len(t, unacked, 2)

	err = env.alerts.Acknowledge(ctx, unacked[0].ID.String())
	require.NoError(t, err)

	unacked, err = env.alerts.List(ctx, true, 0)
	require.NoError(t, err)
	assert.Len(t, unacked, 1)

	all, err := env.alerts.List(ctx, false, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAcknowledgeUnknownAlert(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.alerts.Acknowledge(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrAlertNotFound)

	err = env.alerts.Acknowledge(ctx, "7b7ab437-92cc-4a5e-9a8c-3c2b7f5d2f10")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}
