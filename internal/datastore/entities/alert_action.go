package entities

// Notification channels an action can target. Email is declared for
// completeness but has no delivery implementation; dispatching to it is
// rejected explicitly.
const (
	ChannelPush      = "push"
	ChannelMessenger = "messenger"
	ChannelWebhook   = "webhook"
	ChannelEmail     = "email"
)

// AlertAction defines one notification target for a fired rule.
type AlertAction struct {
	Channel    string   `json:"channel"`
	TemplateID string   `json:"template_id,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
	WebhookURL string   `json:"webhook_url,omitempty"`
	SortOrder  int      `json:"sort_order,omitempty"`
}
