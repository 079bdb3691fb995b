package alerting

import (
	"io"
	"testing"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore"
	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/datastore/repository"
	"github.com/fundwatch/fundwatch/internal/logger"
	"github.com/fundwatch/fundwatch/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEngine struct {
	monitor       *Monitor
	rules         repository.RuleStore
	templates     repository.TemplateStore
	contributions repository.ContributionStore
	push          *fakePush
	docs          datastore.DocumentStore
}

// newTestEngine wires a full engine over a shared in-memory document
// store so restarts can be simulated by wiring a second engine on the
// same docs.
func newTestEngine(t *testing.T, docs datastore.DocumentStore) *testEngine {
	t.Helper()
	rules, err := repository.NewRuleStore(t.Context(), docs)
	require.NoError(t, err)
	templates, err := repository.NewTemplateStore(t.Context(), docs)
	require.NoError(t, err)
	contributions, err := repository.NewContributionStore(t.Context(), docs)
	require.NoError(t, err)

	push := &fakePush{}
	monitor, err := Initialize(t.Context(), InitializeConfig{
		Rules:         rules,
		Templates:     templates,
		Contributions: contributions,
		Push:          push,
		Messenger:     &fakeMessenger{},
		Webhook:       &fakeWebhook{},
		Metrics:       metrics.New(),
		Logger:        logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil),
		Interval:      time.Hour, // ticks never fire during a test
	})
	require.NoError(t, err)
	require.NoError(t, monitor.Start(t.Context()))
	t.Cleanup(monitor.Stop)

	return &testEngine{
		monitor: monitor, rules: rules, templates: templates,
		contributions: contributions, push: push, docs: docs,
	}
}

func TestInitialize_SeedsDefaults(t *testing.T) {
	e := newTestEngine(t, datastore.NewMemoryStore())

	rules, err := e.rules.ListRules(t.Context(), repository.RuleFilter{})
	require.NoError(t, err)
	assert.Len(t, rules, len(DefaultRules()))

	templates, err := e.templates.ListTemplates(t.Context())
	require.NoError(t, err)
	assert.Len(t, templates, len(DefaultTemplates()))
}

func TestInitialize_SeedSelfHealsByName(t *testing.T) {
	docs := datastore.NewMemoryStore()
	e := newTestEngine(t, docs)

	rules, err := e.rules.ListRules(t.Context(), repository.RuleFilter{})
	require.NoError(t, err)
	require.NoError(t, e.rules.DeleteRule(t.Context(), rules[0].ID))

	e2 := newTestEngine(t, docs)
	restored, err := e2.rules.ListRules(t.Context(), repository.RuleFilter{})
	require.NoError(t, err)
	assert.Len(t, restored, len(DefaultRules()), "deleted built-in is re-created on restart")
}

func TestMonitor_FiresAndSuppressesWithinCooldown(t *testing.T) {
	e := newTestEngine(t, datastore.NewMemoryStore())
	now := time.Now()

	rule := &entities.AlertRule{
		Name:            "burst",
		Enabled:         true,
		Kind:            entities.RuleKindAmountThreshold,
		CooldownMinutes: 30,
		Priority:        entities.PriorityHigh,
		Conditions: []entities.AlertCondition{
			{Field: FieldTotalAmount, Operator: OperatorGreaterThan, Value: entities.NumberValue(100), LookbackHours: 1},
		},
		Actions: []entities.AlertAction{{Channel: entities.ChannelPush}},
	}
	require.NoError(t, e.rules.CreateRule(t.Context(), rule))
	require.NoError(t, e.monitor.RefreshRules(t.Context()))

	require.NoError(t, e.contributions.AddContribution(t.Context(), &entities.Contribution{
		MemberID: "alice", MemberName: "alice", Amount: 150, CreatedAt: now.Add(-time.Minute),
	}))

	e.monitor.RunOnce(t.Context(), now)
	require.Len(t, e.push.titles, 1)
	assert.Equal(t, "Alert: burst", e.push.titles[0])

	got, err := e.rules.GetRule(t.Context(), rule.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastTriggered, "trigger time is persisted")

	// Still inside the 30 minute cooldown.
	e.monitor.RunOnce(t.Context(), now.Add(10*time.Minute))
	assert.Len(t, e.push.titles, 1, "cooldown suppresses the repeat fire")

	// Past the cooldown the rule fires again.
	e.monitor.RunOnce(t.Context(), now.Add(31*time.Minute))
	assert.Len(t, e.push.titles, 2)
}

func TestMonitor_CooldownSurvivesRestart(t *testing.T) {
	docs := datastore.NewMemoryStore()
	e := newTestEngine(t, docs)
	now := time.Now()

	rule := &entities.AlertRule{
		Name:            "persistent",
		Enabled:         true,
		CooldownMinutes: 60,
		Priority:        entities.PriorityMedium,
		Actions:         []entities.AlertAction{{Channel: entities.ChannelPush}},
	}
	require.NoError(t, e.rules.CreateRule(t.Context(), rule))
	require.NoError(t, e.monitor.RefreshRules(t.Context()))

	e.monitor.RunOnce(t.Context(), now)
	require.Len(t, e.push.titles, 1, "empty conditions fire unconditionally")

	// A fresh engine over the same documents seeds its cooldowns from the
	// persisted trigger times.
	e2 := newTestEngine(t, docs)
	e2.monitor.RunOnce(t.Context(), now.Add(10*time.Minute))
	assert.Empty(t, e2.push.titles, "restart does not re-fire inside the cooldown window")

	e2.monitor.RunOnce(t.Context(), now.Add(61*time.Minute))
	assert.Len(t, e2.push.titles, 1)
}

func TestMonitor_DisabledRulesAreSkipped(t *testing.T) {
	e := newTestEngine(t, datastore.NewMemoryStore())

	rule := &entities.AlertRule{
		Name:    "off",
		Enabled: false,
		Actions: []entities.AlertAction{{Channel: entities.ChannelPush}},
	}
	require.NoError(t, e.rules.CreateRule(t.Context(), rule))
	require.NoError(t, e.monitor.RefreshRules(t.Context()))

	e.monitor.RunOnce(t.Context(), time.Now())
	assert.Empty(t, e.push.titles)
}

func TestMonitor_InvalidateRuleClearsCooldown(t *testing.T) {
	e := newTestEngine(t, datastore.NewMemoryStore())
	now := time.Now()

	rule := &entities.AlertRule{
		Name:            "edited",
		Enabled:         true,
		CooldownMinutes: 60,
		Actions:         []entities.AlertAction{{Channel: entities.ChannelPush}},
	}
	require.NoError(t, e.rules.CreateRule(t.Context(), rule))
	require.NoError(t, e.monitor.RefreshRules(t.Context()))

	e.monitor.RunOnce(t.Context(), now)
	require.Len(t, e.push.titles, 1)

	require.NoError(t, e.monitor.InvalidateRule(t.Context(), rule.ID))
	e.monitor.RunOnce(t.Context(), now.Add(time.Minute))
	assert.Len(t, e.push.titles, 2, "invalidation drops the suppression window")
}

func TestMonitor_TestFireBypassesCooldown(t *testing.T) {
	e := newTestEngine(t, datastore.NewMemoryStore())

	rule := &entities.AlertRule{
		Name:            "probe",
		Enabled:         true,
		CooldownMinutes: 60,
		Actions:         []entities.AlertAction{{Channel: entities.ChannelPush}},
	}
	require.NoError(t, e.rules.CreateRule(t.Context(), rule))
	require.NoError(t, e.monitor.RefreshRules(t.Context()))

	fired, err := e.monitor.TestFire(t.Context(), rule.ID)
	require.NoError(t, err)
	assert.True(t, fired)

	fired, err = e.monitor.TestFire(t.Context(), rule.ID)
	require.NoError(t, err)
	assert.True(t, fired, "the test endpoint ignores cooldown")
	assert.Len(t, e.push.titles, 2)
}

func TestMonitor_TestFireUnknownRule(t *testing.T) {
	e := newTestEngine(t, datastore.NewMemoryStore())
	_, err := e.monitor.TestFire(t.Context(), "missing")
	assert.ErrorIs(t, err, repository.ErrRuleNotFound)
}
