package repository

import (
	"testing"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore"
	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContributionStore_SinceWindow(t *testing.T) {
	store, err := NewContributionStore(t.Context(), datastore.NewMemoryStore())
	require.NoError(t, err)

	now := time.Now()
	old := &entities.Contribution{MemberID: "m1", Amount: 25, CreatedAt: now.Add(-48 * time.Hour)}
	mid := &entities.Contribution{MemberID: "m2", Amount: 50, CreatedAt: now.Add(-2 * time.Hour)}
	recent := &entities.Contribution{MemberID: "m1", Amount: 75, CreatedAt: now.Add(-10 * time.Minute)}
	require.NoError(t, store.AddContribution(t.Context(), old))
	require.NoError(t, store.AddContribution(t.Context(), mid))
	require.NoError(t, store.AddContribution(t.Context(), recent))

	got, err := store.Since(t.Context(), now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Oldest first
	assert.Equal(t, mid.ID, got[0].ID)
	assert.Equal(t, recent.ID, got[1].ID)
}

func TestContributionStore_SinceIsStrict(t *testing.T) {
	store, err := NewContributionStore(t.Context(), datastore.NewMemoryStore())
	require.NoError(t, err)

	cutoff := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	exact := &entities.Contribution{MemberID: "m1", Amount: 10, CreatedAt: cutoff}
	require.NoError(t, store.AddContribution(t.Context(), exact))

	got, err := store.Since(t.Context(), cutoff)
	require.NoError(t, err)
	assert.Empty(t, got, "records at exactly the cutoff are not newer than it")
}

func TestContributionStore_AssignsIDAndTimestamp(t *testing.T) {
	store, err := NewContributionStore(t.Context(), datastore.NewMemoryStore())
	require.NoError(t, err)

	c := &entities.Contribution{MemberID: "m9", Amount: 5}
	require.NoError(t, store.AddContribution(t.Context(), c))
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
}
