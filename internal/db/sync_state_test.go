package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/vitalsync/internal/models"
)

func TestAdvanceSyncState_MovesForward(t *testing.T) {
	database := testDB(t)

	now := time.Now()
	require.NoError(t, database.AdvanceSyncState(&models.SyncState{
		LastSyncAt:  &now,
		ArchiveHash: "abc",
		WatermarkMS: 1000,
		MergedSteps: 42,
	}))

	state, err := database.GetSyncState()
	require.NoError(t, err)
	assert.Equal(t, "abc", state.ArchiveHash)
	assert.Equal(t, int64(1000), state.WatermarkMS)
	assert.Equal(t, int64(42), state.MergedSteps)
	require.NotNil(t, state.LastSyncAt)
}

func TestAdvanceSyncState_RejectsBackwardWatermark(t *testing.T) {
	database := testDB(t)

	require.NoError(t, database.AdvanceSyncState(&models.SyncState{ArchiveHash: "new", WatermarkMS: 2000}))

	err := database.AdvanceSyncState(&models.SyncState{ArchiveHash: "old", WatermarkMS: 1500})
	require.ErrorIs(t, err, ErrStaleAdvance)

	state, err := database.GetSyncState()
	require.NoError(t, err)
	assert.Equal(t, "new", state.ArchiveHash)
	assert.Equal(t, int64(2000), state.WatermarkMS)
}

func TestAdvanceSyncState_InsideTransactionRollsBack(t *testing.T) {
	database := testDB(t)

	err := database.Transaction(func(tx *DB) error {
		if err := tx.AdvanceSyncState(&models.SyncState{ArchiveHash: "tx", WatermarkMS: 500}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	state, err := database.GetSyncState()
	require.NoError(t, err)
	assert.Empty(t, state.ArchiveHash)
	assert.Zero(t, state.WatermarkMS)
}
