// Package entities defines the persisted FundWatch records.
package entities

import "time"

// Rule kinds tag what a rule watches. The tag is informational; the
// evaluator only looks at the conditions.
const (
	RuleKindAmountThreshold = "amount_threshold"
	RuleKindTimeBased       = "time_based"
	RuleKindMemberActivity  = "member_activity"
	RuleKindGoalProgress    = "goal_progress"
	RuleKindInactivity      = "inactivity"
)

// Rule priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// AlertRule defines a user-configurable alerting rule over contribution
// activity. All conditions must hold (AND logic) for the rule to fire;
// a rule with no conditions fires unconditionally once its cooldown has
// elapsed.
type AlertRule struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Enabled       bool             `json:"enabled"`
	BuiltIn       bool             `json:"built_in"`
	Kind          string           `json:"kind"`
	Conditions    []AlertCondition `json:"conditions"`
	Actions       []AlertAction    `json:"actions"`
	// Schedule is reserved for scheduled rule evaluation; the monitor
	// currently ignores it.
	Schedule        *ScheduleConfig `json:"schedule,omitempty"`
	CooldownMinutes int             `json:"cooldown_minutes"`
	Priority        string          `json:"priority"`
	CreatedAt       time.Time       `json:"created_at"`
	LastTriggered   *time.Time      `json:"last_triggered,omitempty"`
}

// Cooldown returns the rule's cooldown as a duration. Zero means no
// suppression between fires.
func (r *AlertRule) Cooldown() time.Duration {
	if r.CooldownMinutes <= 0 {
		return 0
	}
	return time.Duration(r.CooldownMinutes) * time.Minute
}
