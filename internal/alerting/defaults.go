package alerting

import "github.com/fundwatch/fundwatch/internal/datastore/entities"

// Fixed IDs for the built-in templates so seeded rules can reference them.
const (
	TemplateLargeContribution = "default-large-contribution"
	TemplateFundMilestone     = "default-fund-milestone"
	TemplateFundInactive      = "default-fund-inactive"
	TemplateDailySummary      = "default-daily-summary"
)

// DefaultTemplates returns the built-in notification templates. They are
// seeded on startup and restored by name if deleted.
func DefaultTemplates() []entities.NotificationTemplate {
	return []entities.NotificationTemplate{
		{
			ID:       TemplateLargeContribution,
			Name:     "Large contribution",
			Category: "alert",
			Subject:  "Large contribution received",
			Body:     "{rule_name}: latest contribution {latest_contribution}. Fund total is ${total_amount} across {contribution_count} contributions.",
			Variables: []string{
				VarRuleName, VarLatestContribution, VarTotalAmount, VarContributionCount,
			},
		},
		{
			ID:       TemplateFundMilestone,
			Name:     "Fund milestone",
			Category: "alert",
			Subject:  "Fund milestone reached",
			Body:     "{rule_name}: the fund reached ${total_amount} thanks to {unique_contributors} contributors.",
			Variables: []string{
				VarRuleName, VarTotalAmount, VarUniqueContributors,
			},
		},
		{
			ID:       TemplateFundInactive,
			Name:     "Fund inactivity",
			Category: "alert",
			Subject:  "Fund has gone quiet",
			Body:     "{rule_name}: no contributions recorded recently. Last activity: {latest_contribution}.",
			Variables: []string{
				VarRuleName, VarLatestContribution,
			},
		},
		{
			ID:       TemplateDailySummary,
			Name:     "Daily summary",
			Category: "summary",
			Subject:  "Daily fund summary",
			Body:     "As of {timestamp}: ${total_amount} from {contribution_count} contributions by {unique_contributors} members.",
			Variables: []string{
				VarTimestamp, VarTotalAmount, VarContributionCount, VarUniqueContributors,
			},
		},
	}
}

// DefaultRules returns the built-in alert rules that ship with FundWatch.
// They are seeded on first start; missing ones are re-created by name so
// partial seeds self-heal on restart.
func DefaultRules() []entities.AlertRule {
	return []entities.AlertRule{
		{
			Name:            "Large contribution received",
			Enabled:         true,
			BuiltIn:         true,
			Kind:            entities.RuleKindAmountThreshold,
			CooldownMinutes: 30,
			Priority:        entities.PriorityHigh,
			Conditions: []entities.AlertCondition{
				{Field: FieldTotalAmount, Operator: OperatorGreaterThan, Value: entities.NumberValue(500), LookbackHours: 1, SortOrder: 0},
			},
			Actions: []entities.AlertAction{
				{Channel: entities.ChannelPush, TemplateID: TemplateLargeContribution, SortOrder: 0},
			},
		},
		{
			Name:            "Fund milestone reached",
			Enabled:         true,
			BuiltIn:         true,
			Kind:            entities.RuleKindGoalProgress,
			CooldownMinutes: 1440,
			Priority:        entities.PriorityMedium,
			Conditions: []entities.AlertCondition{
				{Field: FieldTotalAmount, Operator: OperatorGreaterThan, Value: entities.NumberValue(10000), LookbackHours: 24 * 365, SortOrder: 0},
			},
			Actions: []entities.AlertAction{
				{Channel: entities.ChannelMessenger, TemplateID: TemplateFundMilestone, SortOrder: 0},
			},
		},
		{
			Name:            "Contribution surge",
			Enabled:         true,
			BuiltIn:         true,
			Kind:            entities.RuleKindMemberActivity,
			CooldownMinutes: 120,
			Priority:        entities.PriorityMedium,
			Conditions: []entities.AlertCondition{
				{Field: FieldContributionCount, Operator: OperatorGreaterThan, Value: entities.NumberValue(10), LookbackHours: 1, SortOrder: 0},
			},
			Actions: []entities.AlertAction{
				{Channel: entities.ChannelPush, TemplateID: TemplateLargeContribution, SortOrder: 0},
			},
		},
		{
			Name:            "Fund inactive for a week",
			Enabled:         false,
			BuiltIn:         true,
			Kind:            entities.RuleKindInactivity,
			CooldownMinutes: 1440,
			Priority:        entities.PriorityLow,
			Conditions: []entities.AlertCondition{
				{Field: FieldTimeSinceLast, Operator: OperatorGreaterThan, Value: entities.NumberValue(168), LookbackHours: 24 * 14, SortOrder: 0},
			},
			Actions: []entities.AlertAction{
				{Channel: entities.ChannelMessenger, TemplateID: TemplateFundInactive, SortOrder: 0},
			},
		},
	}
}
