// Package repository implements the persisted collections: alert rules,
// notification templates, scheduled notifications, and contributions.
// Each store caches its collection in memory and rewrites the backing
// document in full on every mutation.
package repository

import (
	"context"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/errors"
)

// Document keys, one per collection.
const (
	docKeyRules         = "alert_rules"
	docKeyTemplates     = "notification_templates"
	docKeySchedules     = "scheduled_notifications"
	docKeyContributions = "contributions"
)

// Not-found sentinels surfaced to API callers as rejections.
var (
	ErrRuleNotFound     = errors.New("alert rule not found")
	ErrTemplateNotFound = errors.New("notification template not found")
	ErrScheduleNotFound = errors.New("scheduled notification not found")
)

// RuleStore handles alert rule CRUD.
type RuleStore interface {
	ListRules(ctx context.Context, filter RuleFilter) ([]entities.AlertRule, error)
	GetRule(ctx context.Context, id string) (*entities.AlertRule, error)
	CreateRule(ctx context.Context, rule *entities.AlertRule) error
	UpdateRule(ctx context.Context, rule *entities.AlertRule) error
	DeleteRule(ctx context.Context, id string) error
	ToggleRule(ctx context.Context, id string, enabled bool) error
	GetEnabledRules(ctx context.Context) ([]entities.AlertRule, error)
	// MarkTriggered stamps LastTriggered on the rule record so cooldowns
	// survive a restart.
	MarkTriggered(ctx context.Context, id string, at time.Time) error
	CountRulesByName(ctx context.Context, name string) (int, error)
}

// RuleFilter controls rule listing.
type RuleFilter struct {
	Kind    string
	Enabled *bool
	BuiltIn *bool
}

// TemplateStore handles notification template CRUD.
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]entities.NotificationTemplate, error)
	GetTemplate(ctx context.Context, id string) (*entities.NotificationTemplate, error)
	CreateTemplate(ctx context.Context, tmpl *entities.NotificationTemplate) error
	UpdateTemplate(ctx context.Context, tmpl *entities.NotificationTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
}

// ScheduleStore handles scheduled notification CRUD. Mutations normally go
// through the schedule manager, which owns next-fire computation and
// scheduler registration.
type ScheduleStore interface {
	ListSchedules(ctx context.Context) ([]entities.ScheduledNotification, error)
	GetSchedule(ctx context.Context, id string) (*entities.ScheduledNotification, error)
	CreateSchedule(ctx context.Context, sched *entities.ScheduledNotification) error
	UpdateSchedule(ctx context.Context, sched *entities.ScheduledNotification) error
	DeleteSchedule(ctx context.Context, id string) error
}

// ContributionStore records contribution activity and serves windowed reads.
type ContributionStore interface {
	AddContribution(ctx context.Context, c *entities.Contribution) error
	// Since returns contributions strictly newer than the given instant,
	// oldest first.
	Since(ctx context.Context, since time.Time) ([]entities.Contribution, error)
}
