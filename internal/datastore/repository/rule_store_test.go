package repository

import (
	"testing"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore"
	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestRule creates a rule with one condition and one action.
func createTestRule(t *testing.T, store RuleStore, name string) *entities.AlertRule {
	t.Helper()
	rule := &entities.AlertRule{
		Name:            name,
		Enabled:         true,
		Kind:            entities.RuleKindAmountThreshold,
		CooldownMinutes: 30,
		Priority:        entities.PriorityHigh,
		Conditions: []entities.AlertCondition{
			{Field: "total_amount", Operator: "greater_than", Value: entities.NumberValue(500)},
		},
		Actions: []entities.AlertAction{
			{Channel: entities.ChannelPush, TemplateID: "t1"},
		},
	}
	require.NoError(t, store.CreateRule(t.Context(), rule))
	return rule
}

func TestRuleStore_CreateAndGet(t *testing.T) {
	store, err := NewRuleStore(t.Context(), datastore.NewMemoryStore())
	require.NoError(t, err)

	rule := createTestRule(t, store, "Large contribution")
	assert.NotEmpty(t, rule.ID)
	assert.False(t, rule.CreatedAt.IsZero())

	got, err := store.GetRule(t.Context(), rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "Large contribution", got.Name)
	assert.Equal(t, entities.RuleKindAmountThreshold, got.Kind)
	assert.Equal(t, 30, got.CooldownMinutes)
	require.Len(t, got.Conditions, 1)
	assert.Equal(t, "total_amount", got.Conditions[0].Field)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, entities.ChannelPush, got.Actions[0].Channel)
}

func TestRuleStore_GetMissingRule(t *testing.T) {
	store, err := NewRuleStore(t.Context(), datastore.NewMemoryStore())
	require.NoError(t, err)

	_, err = store.GetRule(t.Context(), "nope")
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestRuleStore_ListFilters(t *testing.T) {
	store, err := NewRuleStore(t.Context(), datastore.NewMemoryStore())
	require.NoError(t, err)

	enabled := createTestRule(t, store, "enabled rule")
	disabled := createTestRule(t, store, "disabled rule")
	require.NoError(t, store.ToggleRule(t.Context(), disabled.ID, false))

	all, err := store.ListRules(t.Context(), RuleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := store.GetEnabledRules(t.Context())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, enabled.ID, got[0].ID)
}

func TestRuleStore_UpdatePreservesCreatedAt(t *testing.T) {
	store, err := NewRuleStore(t.Context(), datastore.NewMemoryStore())
	require.NoError(t, err)

	rule := createTestRule(t, store, "before")
	created := rule.CreatedAt

	updated := *rule
	updated.Name = "after"
	updated.CreatedAt = time.Time{}
	require.NoError(t, store.UpdateRule(t.Context(), &updated))

	got, err := store.GetRule(t.Context(), rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.True(t, created.Equal(got.CreatedAt), "update should not change created_at")
}

func TestRuleStore_DeleteRule(t *testing.T) {
	store, err := NewRuleStore(t.Context(), datastore.NewMemoryStore())
	require.NoError(t, err)

	rule := createTestRule(t, store, "doomed")
	require.NoError(t, store.DeleteRule(t.Context(), rule.ID))

	_, err = store.GetRule(t.Context(), rule.ID)
	assert.ErrorIs(t, err, ErrRuleNotFound)

	assert.ErrorIs(t, store.DeleteRule(t.Context(), rule.ID), ErrRuleNotFound)
}

func TestRuleStore_MarkTriggered(t *testing.T) {
	store, err := NewRuleStore(t.Context(), datastore.NewMemoryStore())
	require.NoError(t, err)

	rule := createTestRule(t, store, "fired")
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.MarkTriggered(t.Context(), rule.ID, at))

	got, err := store.GetRule(t.Context(), rule.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastTriggered)
	assert.True(t, at.Equal(*got.LastTriggered))
}

// TestRuleStore_PersistenceRoundTrip verifies that a second store built on
// the same document store sees earlier writes, including the typed
// condition values.
func TestRuleStore_PersistenceRoundTrip(t *testing.T) {
	docs := datastore.NewMemoryStore()

	store, err := NewRuleStore(t.Context(), docs)
	require.NoError(t, err)
	rule := createTestRule(t, store, "survives restart")

	reloaded, err := NewRuleStore(t.Context(), docs)
	require.NoError(t, err)

	got, err := reloaded.GetRule(t.Context(), rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "survives restart", got.Name)
	require.Len(t, got.Conditions, 1)
	f, ok := got.Conditions[0].Value.AsFloat()
	require.True(t, ok)
	assert.InDelta(t, 500.0, f, 0.001)
}

func TestRuleStore_CountRulesByName(t *testing.T) {
	store, err := NewRuleStore(t.Context(), datastore.NewMemoryStore())
	require.NoError(t, err)

	createTestRule(t, store, "dup")
	createTestRule(t, store, "dup")
	createTestRule(t, store, "other")

	count, err := store.CountRulesByName(t.Context(), "dup")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
