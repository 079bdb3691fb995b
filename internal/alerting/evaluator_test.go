package alerting

import (
	"context"
	"testing"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedReader serves a canned contribution set, honoring the since cutoff.
type fixedReader struct {
	records []entities.Contribution
	err     error
}

func (f *fixedReader) Since(_ context.Context, since time.Time) ([]entities.Contribution, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entities.Contribution
	for i := range f.records {
		if f.records[i].CreatedAt.After(since) {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func contribution(member, platform string, amount float64, at time.Time) entities.Contribution {
	return entities.Contribution{
		ID: member + at.String(), MemberID: member, MemberName: member,
		Platform: platform, Amount: amount, CreatedAt: at,
	}
}

func TestEvaluateCondition_Fields(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []entities.Contribution{
		contribution("alice", "venmo", 100, now.Add(-3*time.Hour)),
		contribution("bob", "paypal", 50, now.Add(-2*time.Hour)),
		contribution("alice", "venmo", 150, now.Add(-1*time.Hour)),
	}

	tests := []struct {
		name string
		cond entities.AlertCondition
		want bool
	}{
		{"total above threshold", entities.AlertCondition{Field: FieldTotalAmount, Operator: OperatorGreaterThan, Value: entities.NumberValue(250)}, true},
		{"total below threshold", entities.AlertCondition{Field: FieldTotalAmount, Operator: OperatorGreaterThan, Value: entities.NumberValue(300)}, false},
		{"count equals", entities.AlertCondition{Field: FieldContributionCount, Operator: OperatorEquals, Value: entities.NumberValue(3)}, true},
		{"average between", entities.AlertCondition{Field: FieldAverageAmount, Operator: OperatorBetween, Value: entities.RangeValue(90, 110)}, true},
		{"unique contributors", entities.AlertCondition{Field: FieldUniqueContributors, Operator: OperatorEquals, Value: entities.NumberValue(2)}, true},
		{"hours since last below threshold", entities.AlertCondition{Field: FieldTimeSinceLast, Operator: OperatorGreaterThan, Value: entities.NumberValue(2)}, false},
		{"hours since last above threshold", entities.AlertCondition{Field: FieldTimeSinceLast, Operator: OperatorLessThan, Value: entities.NumberValue(2)}, true},
		{"unknown field fails closed", entities.AlertCondition{Field: "velocity", Operator: OperatorGreaterThan, Value: entities.NumberValue(0)}, false},
		{"unknown operator fails closed", entities.AlertCondition{Field: FieldTotalAmount, Operator: "near", Value: entities.NumberValue(300)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateCondition(&tt.cond, records, now))
		})
	}
}

// The condition value doubles as the match key for platform_usage and
// member_activity: the derived metric is the count of records matching the
// value, then compared against that same value.
func TestEvaluateCondition_PlatformAndMemberMatching(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []entities.Contribution{
		contribution("2", "Venmo", 100, now.Add(-3*time.Hour)),
		contribution("bob", "paypal", 50, now.Add(-2*time.Hour)),
		contribution("2", "venmo", 150, now.Add(-1*time.Hour)),
	}

	// Two records on venmo (matched case-insensitively); the count of 2 is
	// then compared to the text "2", which coerces to a number.
	cond := entities.AlertCondition{Field: FieldPlatformUsage, Operator: OperatorContains, Value: entities.TextValue("VENMO")}
	assert.False(t, EvaluateCondition(&cond, records, now), "the count never contains the platform name")

	cond = entities.AlertCondition{Field: FieldMemberActivity, Operator: OperatorEquals, Value: entities.TextValue("2")}
	assert.True(t, EvaluateCondition(&cond, records, now), "member \"2\" has exactly 2 records")

	cond = entities.AlertCondition{Field: FieldMemberActivity, Operator: OperatorGreaterThan, Value: entities.TextValue("alice")}
	assert.False(t, EvaluateCondition(&cond, records, now), "non-numeric comparand fails closed for greater_than")
}

func TestEvaluateCondition_BetweenInclusive(t *testing.T) {
	now := time.Now()
	records := []entities.Contribution{contribution("a", "venmo", 100, now.Add(-time.Hour))}

	low := entities.AlertCondition{Field: FieldTotalAmount, Operator: OperatorBetween, Value: entities.RangeValue(100, 200)}
	assert.True(t, EvaluateCondition(&low, records, now), "lower bound is inclusive")

	high := entities.AlertCondition{Field: FieldTotalAmount, Operator: OperatorBetween, Value: entities.RangeValue(50, 100)}
	assert.True(t, EvaluateCondition(&high, records, now), "upper bound is inclusive")

	out := entities.AlertCondition{Field: FieldTotalAmount, Operator: OperatorBetween, Value: entities.RangeValue(101, 200)}
	assert.False(t, EvaluateCondition(&out, records, now))

	noRange := entities.AlertCondition{Field: FieldTotalAmount, Operator: OperatorBetween, Value: entities.NumberValue(100)}
	assert.False(t, EvaluateCondition(&noRange, records, now), "between without a range fails closed")
}

func TestEvaluateCondition_TimeSinceLastEmptyWindow(t *testing.T) {
	cond := entities.AlertCondition{Field: FieldTimeSinceLast, Operator: OperatorGreaterThan, Value: entities.NumberValue(9999)}
	assert.True(t, EvaluateCondition(&cond, nil, time.Now()),
		"no activity at all satisfies any inactivity threshold")
}

func TestEvaluator_AllConditionsMustHold(t *testing.T) {
	now := time.Now()
	reader := &fixedReader{records: []entities.Contribution{
		contribution("alice", "venmo", 600, now.Add(-time.Hour)),
	}}
	eval := NewEvaluator(reader, 24*time.Hour)

	rule := &entities.AlertRule{
		Name: "combo",
		Conditions: []entities.AlertCondition{
			{Field: FieldTotalAmount, Operator: OperatorGreaterThan, Value: entities.NumberValue(500)},
			{Field: FieldContributionCount, Operator: OperatorGreaterThan, Value: entities.NumberValue(5)},
		},
	}
	fired, err := eval.Evaluate(t.Context(), rule, now)
	require.NoError(t, err)
	assert.False(t, fired, "second condition fails, so the rule must not fire")

	rule.Conditions = rule.Conditions[:1]
	fired, err = eval.Evaluate(t.Context(), rule, now)
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestEvaluator_EmptyConditionsAlwaysFire(t *testing.T) {
	eval := NewEvaluator(&fixedReader{}, 0)
	fired, err := eval.Evaluate(t.Context(), &entities.AlertRule{Name: "bare"}, time.Now())
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestEvaluator_PerConditionLookback(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	reader := &fixedReader{records: []entities.Contribution{
		contribution("alice", "venmo", 400, now.Add(-10*time.Hour)),
		contribution("bob", "venmo", 200, now.Add(-30*time.Minute)),
	}}
	eval := NewEvaluator(reader, 24*time.Hour)

	rule := &entities.AlertRule{
		Name: "recent only",
		Conditions: []entities.AlertCondition{
			{Field: FieldTotalAmount, Operator: OperatorGreaterThan, Value: entities.NumberValue(300), LookbackHours: 1},
		},
	}
	fired, err := eval.Evaluate(t.Context(), rule, now)
	require.NoError(t, err)
	assert.False(t, fired, "only the 200 falls inside the 1h window")

	rule.Conditions[0].LookbackHours = 0 // default window covers both
	fired, err = eval.Evaluate(t.Context(), rule, now)
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestEvaluator_ReadErrorAborts(t *testing.T) {
	eval := NewEvaluator(&fixedReader{err: errors.New("disk gone")}, 0)
	rule := &entities.AlertRule{
		Name: "broken",
		Conditions: []entities.AlertCondition{
			{Field: FieldTotalAmount, Operator: OperatorGreaterThan, Value: entities.NumberValue(1)},
		},
	}
	fired, err := eval.Evaluate(t.Context(), rule, time.Now())
	require.Error(t, err)
	assert.False(t, fired)
}
