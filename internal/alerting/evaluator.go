package alerting

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
)

// DefaultLookback is the condition window used when a condition does not
// set its own.
const DefaultLookback = 24 * time.Hour

// Evaluator decides whether a rule's conditions hold against the current
// contribution activity.
type Evaluator struct {
	reader   ActivityReader
	lookback time.Duration
}

// NewEvaluator creates an Evaluator. defaultLookback <= 0 falls back to
// DefaultLookback.
func NewEvaluator(reader ActivityReader, defaultLookback time.Duration) *Evaluator {
	if defaultLookback <= 0 {
		defaultLookback = DefaultLookback
	}
	return &Evaluator{reader: reader, lookback: defaultLookback}
}

// Evaluate reports whether all of the rule's conditions hold at now.
// An empty conditions list evaluates true (the rule triggers
// unconditionally, subject only to cooldown). A read failure aborts the
// rule's evaluation; the caller logs and moves on.
func (e *Evaluator) Evaluate(ctx context.Context, rule *entities.AlertRule, now time.Time) (bool, error) {
	for i := range rule.Conditions {
		cond := &rule.Conditions[i]
		records, err := e.reader.Since(ctx, now.Add(-e.conditionLookback(cond)))
		if err != nil {
			return false, fmt.Errorf("failed to read activity window for field %q: %w", cond.Field, err)
		}
		if !EvaluateCondition(cond, records, now) {
			return false, nil
		}
	}
	return true, nil
}

func (e *Evaluator) conditionLookback(cond *entities.AlertCondition) time.Duration {
	if cond.LookbackHours > 0 {
		return time.Duration(cond.LookbackHours) * time.Hour
	}
	return e.lookback
}

// EvaluateCondition checks a single condition against an activity window.
// Unknown fields and operators evaluate false (fail closed).
func EvaluateCondition(cond *entities.AlertCondition, records []entities.Contribution, now time.Time) bool {
	// No activity means "time since last" is unbounded: the condition is
	// satisfied immediately regardless of threshold.
	if cond.Field == FieldTimeSinceLast && len(records) == 0 {
		return true
	}

	value, ok := deriveMetric(cond, records, now)
	if !ok {
		return false
	}
	return compare(cond.Operator, value, cond.Value)
}

// deriveMetric computes the condition's scalar from the window.
func deriveMetric(cond *entities.AlertCondition, records []entities.Contribution, now time.Time) (float64, bool) {
	switch cond.Field {
	case FieldTotalAmount:
		return Snapshot(records).TotalAmount, true
	case FieldContributionCount:
		return float64(len(records)), true
	case FieldAverageAmount:
		return Snapshot(records).AverageAmount(), true
	case FieldUniqueContributors:
		return float64(Snapshot(records).UniqueContributors), true
	case FieldPlatformUsage:
		match := cond.Value.String()
		var count int
		for i := range records {
			if strings.EqualFold(records[i].Platform, match) {
				count++
			}
		}
		return float64(count), true
	case FieldMemberActivity:
		match := cond.Value.String()
		var count int
		for i := range records {
			if strings.EqualFold(records[i].MemberID, match) {
				count++
			}
		}
		return float64(count), true
	case FieldTimeSinceLast:
		latest := Snapshot(records).Latest
		if latest == nil {
			return 0, false
		}
		return now.Sub(latest.CreatedAt).Hours(), true
	default:
		return 0, false
	}
}

// compare applies the condition operator to the derived value.
func compare(operator string, actual float64, value entities.ConditionValue) bool {
	switch operator {
	case OperatorEquals:
		if expected, ok := value.AsFloat(); ok {
			return actual == expected
		}
		return formatMetric(actual) == value.String()
	case OperatorGreaterThan:
		expected, ok := value.AsFloat()
		return ok && actual > expected
	case OperatorLessThan:
		expected, ok := value.AsFloat()
		return ok && actual < expected
	case OperatorContains:
		return strings.Contains(
			strings.ToLower(formatMetric(actual)),
			strings.ToLower(value.String()),
		)
	case OperatorBetween:
		if value.Range == nil {
			return false
		}
		// Inclusive at both ends.
		return actual >= value.Range.Min && actual <= value.Range.Max
	default:
		return false
	}
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
