// Package alerting provides the rule-driven alerting engine: the periodic
// monitor, condition evaluation over contribution activity windows,
// cooldown tracking, template rendering, and action dispatch.
package alerting

// Condition fields identify the derived activity metrics available for
// condition evaluation.
const (
	FieldTotalAmount        = "total_amount"
	FieldContributionCount  = "contribution_count"
	FieldAverageAmount      = "average_amount"
	FieldUniqueContributors = "unique_contributors"
	FieldPlatformUsage      = "platform_usage"
	FieldMemberActivity     = "member_activity"
	FieldTimeSinceLast      = "time_since_last"
)

// Condition operators define how derived values are compared.
const (
	OperatorEquals      = "equals"
	OperatorGreaterThan = "greater_than"
	OperatorLessThan    = "less_than"
	OperatorContains    = "contains"
	OperatorBetween     = "between"
)

// Template variables the renderer resolves from the activity snapshot.
const (
	VarRuleName           = "rule_name"
	VarTimestamp          = "timestamp"
	VarTotalAmount        = "total_amount"
	VarContributionCount  = "contribution_count"
	VarUniqueContributors = "unique_contributors"
	VarLatestContribution = "latest_contribution"
)
