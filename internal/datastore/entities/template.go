package entities

import "time"

// NotificationTemplate is a named message body with {variable} placeholders
// resolved at render time. Variables declares what the body references; the
// renderer tolerates undeclared placeholders and leaves them verbatim.
type NotificationTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Variables []string  `json:"variables,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
