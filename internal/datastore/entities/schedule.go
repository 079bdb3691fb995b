package entities

import "time"

// Recurrence types for scheduled notifications.
const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceCustom  = "custom"
)

// ScheduleConfig describes a recurring time-of-day slot.
type ScheduleConfig struct {
	Recurrence string `json:"recurrence"`
	// TimeOfDay is "HH:MM" in 24-hour form.
	TimeOfDay string `json:"time_of_day"`
	// Weekdays restricts weekly schedules (0=Sunday … 6=Saturday).
	// Empty means every day.
	Weekdays []int `json:"weekdays,omitempty"`
	// MonthDays restricts monthly schedules (1–31). Empty means every day.
	// Days a month doesn't have are skipped, not clamped.
	MonthDays []int `json:"month_days,omitempty"`
	// Timezone is carried as metadata only; arithmetic uses local time.
	Timezone string `json:"timezone,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// ScheduledNotification is a recurring notification independent of alert
// conditions. NextFireAt is recomputed and persisted on every schedule edit.
type ScheduledNotification struct {
	ID         string         `json:"id"`
	Type       string         `json:"type,omitempty"`
	Schedule   ScheduleConfig `json:"schedule"`
	TemplateID string         `json:"template_id"`
	Recipients []string       `json:"recipients,omitempty"`
	Enabled    bool           `json:"enabled"`
	LastSent   *time.Time     `json:"last_sent,omitempty"`
	NextFireAt *time.Time     `json:"next_fire_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
