package alerting

import "github.com/fundwatch/fundwatch/internal/datastore/entities"

// Schema describes the catalog of condition fields, operators, channels,
// and priorities available for rule building.
type Schema struct {
	Fields     []FieldSchema    `json:"fields"`
	Operators  []OperatorSchema `json:"operators"`
	Channels   []ChannelSchema  `json:"channels"`
	Priorities []string         `json:"priorities"`
	Variables  []VariableSchema `json:"variables"`
}

// FieldSchema describes a derived activity metric available for condition
// building.
type FieldSchema struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Type      string   `json:"type"` // "number" or "string"
	Unit      string   `json:"unit,omitempty"`
	Operators []string `json:"operators"`
}

// OperatorSchema describes a comparison operator for the UI.
type OperatorSchema struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"` // "string", "number", or "all"
}

// ChannelSchema describes a notification channel.
type ChannelSchema struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Supported bool   `json:"supported"`
}

// VariableSchema describes a template placeholder.
type VariableSchema struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// numericOperators are operators valid for numeric fields.
var numericOperators = []string{OperatorEquals, OperatorGreaterThan, OperatorLessThan, OperatorBetween}

// GetSchema returns the full rule-building schema for the UI.
func GetSchema() Schema {
	return Schema{
		Fields: []FieldSchema{
			{Name: FieldTotalAmount, Label: "Total Amount", Type: "number", Unit: "$", Operators: numericOperators},
			{Name: FieldContributionCount, Label: "Contribution Count", Type: "number", Operators: numericOperators},
			{Name: FieldAverageAmount, Label: "Average Amount", Type: "number", Unit: "$", Operators: numericOperators},
			{Name: FieldUniqueContributors, Label: "Unique Contributors", Type: "number", Operators: numericOperators},
			{Name: FieldPlatformUsage, Label: "Platform Usage", Type: "number", Operators: numericOperators},
			{Name: FieldMemberActivity, Label: "Member Activity", Type: "number", Operators: numericOperators},
			{Name: FieldTimeSinceLast, Label: "Hours Since Last Contribution", Type: "number", Unit: "h", Operators: numericOperators},
		},
		Operators: []OperatorSchema{
			{Name: OperatorEquals, Label: "equals", Type: "all"},
			{Name: OperatorGreaterThan, Label: "greater than", Type: "number"},
			{Name: OperatorLessThan, Label: "less than", Type: "number"},
			{Name: OperatorContains, Label: "contains", Type: "string"},
			{Name: OperatorBetween, Label: "between", Type: "number"},
		},
		Channels: []ChannelSchema{
			{Name: entities.ChannelPush, Label: "Push Notification", Supported: true},
			{Name: entities.ChannelMessenger, Label: "Messenger", Supported: true},
			{Name: entities.ChannelWebhook, Label: "Webhook", Supported: true},
			{Name: entities.ChannelEmail, Label: "Email", Supported: false},
		},
		Priorities: []string{
			entities.PriorityLow,
			entities.PriorityMedium,
			entities.PriorityHigh,
			entities.PriorityCritical,
		},
		Variables: []VariableSchema{
			{Name: VarRuleName, Label: "Rule Name"},
			{Name: VarTimestamp, Label: "Trigger Time"},
			{Name: VarTotalAmount, Label: "Total Amount"},
			{Name: VarContributionCount, Label: "Contribution Count"},
			{Name: VarUniqueContributors, Label: "Unique Contributors"},
			{Name: VarLatestContribution, Label: "Latest Contribution"},
		},
	}
}
