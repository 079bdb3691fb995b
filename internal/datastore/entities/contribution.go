package entities

import "time"

// Contribution is a single fund contribution record, the raw activity the
// alerting engine evaluates over.
type Contribution struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"member_id"`
	MemberName string    `json:"member_name,omitempty"`
	Amount     float64   `json:"amount"`
	Platform   string    `json:"platform,omitempty"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
