package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/fundwatch/fundwatch/internal/alerting"
	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/datastore/repository"
	"github.com/fundwatch/fundwatch/internal/logger"
	"github.com/fundwatch/fundwatch/internal/metrics"
)

// Manager owns scheduled notifications: every store mutation goes through
// it so the persisted NextFireAt and the registered timers never drift
// apart. When a schedule fires it renders the template over the recent
// activity window, delivers, stamps LastSent, and re-arms for the next
// slot.
type Manager struct {
	store     repository.ScheduleStore
	templates repository.TemplateStore
	reader    alerting.ActivityReader
	push      alerting.PushSender
	messenger alerting.MessageSender
	scheduler JobScheduler
	metrics   *metrics.Metrics
	log       logger.Logger
	lookback  time.Duration
	now       func() time.Time
}

// ManagerConfig wires a Manager's collaborators.
type ManagerConfig struct {
	Store     repository.ScheduleStore
	Templates repository.TemplateStore
	Reader    alerting.ActivityReader
	Push      alerting.PushSender
	Messenger alerting.MessageSender
	Scheduler JobScheduler
	Metrics   *metrics.Metrics
	Logger    logger.Logger
	// Lookback is the activity window rendered into templates.
	// <= 0 uses alerting.DefaultLookback.
	Lookback time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewManager creates a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Lookback <= 0 {
		cfg.Lookback = alerting.DefaultLookback
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		store:     cfg.Store,
		templates: cfg.Templates,
		reader:    cfg.Reader,
		push:      cfg.Push,
		messenger: cfg.Messenger,
		scheduler: cfg.Scheduler,
		metrics:   cfg.Metrics,
		log:       cfg.Logger,
		lookback:  cfg.Lookback,
		now:       cfg.Now,
	}
}

// Start registers timers for every enabled schedule. Stale persisted
// NextFireAt values (in the past after downtime) are recomputed first.
func (m *Manager) Start(ctx context.Context) error {
	schedules, err := m.store.ListSchedules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}
	now := m.now()
	var registered int
	for i := range schedules {
		sched := schedules[i]
		if !sched.Enabled {
			continue
		}
		if sched.NextFireAt == nil || !sched.NextFireAt.After(now) {
			next, err := NextFireTime(sched.Schedule, now)
			if err != nil {
				m.log.Warn("skipping schedule with invalid config",
					logger.String("id", sched.ID),
					logger.Error(err))
				continue
			}
			sched.NextFireAt = &next
			if err := m.store.UpdateSchedule(ctx, &sched); err != nil {
				m.log.Warn("failed to persist recomputed fire time",
					logger.String("id", sched.ID),
					logger.Error(err))
			}
		}
		m.register(&sched)
		registered++
	}
	m.log.Info("schedule manager started", logger.Int("registered", registered))
	return nil
}

// ListSchedules returns all scheduled notifications.
func (m *Manager) ListSchedules(ctx context.Context) ([]entities.ScheduledNotification, error) {
	return m.store.ListSchedules(ctx)
}

// GetSchedule returns one scheduled notification.
func (m *Manager) GetSchedule(ctx context.Context, id string) (*entities.ScheduledNotification, error) {
	return m.store.GetSchedule(ctx, id)
}

// CreateSchedule computes the first fire time, persists the schedule, and
// registers its timer when enabled.
func (m *Manager) CreateSchedule(ctx context.Context, sched *entities.ScheduledNotification) error {
	next, err := NextFireTime(sched.Schedule, m.now())
	if err != nil {
		return err
	}
	sched.NextFireAt = &next
	if err := m.store.CreateSchedule(ctx, sched); err != nil {
		return err
	}
	if sched.Enabled {
		m.register(sched)
	}
	return nil
}

// UpdateSchedule recomputes the fire time, persists, and re-registers or
// cancels depending on the enabled flag.
func (m *Manager) UpdateSchedule(ctx context.Context, sched *entities.ScheduledNotification) error {
	next, err := NextFireTime(sched.Schedule, m.now())
	if err != nil {
		return err
	}
	sched.NextFireAt = &next
	if err := m.store.UpdateSchedule(ctx, sched); err != nil {
		return err
	}
	if sched.Enabled {
		m.register(sched)
	} else {
		m.scheduler.Cancel(sched.ID)
	}
	return nil
}

// ToggleSchedule flips the enabled flag, re-arming or cancelling the timer.
func (m *Manager) ToggleSchedule(ctx context.Context, id string, enabled bool) error {
	sched, err := m.store.GetSchedule(ctx, id)
	if err != nil {
		return err
	}
	sched.Enabled = enabled
	return m.UpdateSchedule(ctx, sched)
}

// DeleteSchedule cancels the timer and removes the schedule.
func (m *Manager) DeleteSchedule(ctx context.Context, id string) error {
	if err := m.store.DeleteSchedule(ctx, id); err != nil {
		return err
	}
	m.scheduler.Cancel(id)
	return nil
}

func (m *Manager) register(sched *entities.ScheduledNotification) {
	id := sched.ID
	m.scheduler.Schedule(id, *sched.NextFireAt, func() {
		m.fire(context.Background(), id)
	})
}

// fire delivers one occurrence and re-arms the next. Delivery failures
// are logged; the schedule still advances so one broken send does not
// stall the recurrence.
func (m *Manager) fire(ctx context.Context, id string) {
	sched, err := m.store.GetSchedule(ctx, id)
	if err != nil {
		// Deleted between arming and firing.
		m.log.Debug("fired schedule no longer exists", logger.String("id", id))
		return
	}
	if !sched.Enabled {
		return
	}
	now := m.now()

	m.deliver(ctx, sched, now)
	m.metrics.ScheduleFires.Inc()

	sched.LastSent = &now
	next, err := NextFireTime(sched.Schedule, now)
	if err != nil {
		m.log.Error("cannot re-arm schedule",
			logger.String("id", id),
			logger.Error(err))
		sched.NextFireAt = nil
	} else {
		sched.NextFireAt = &next
	}
	if err := m.store.UpdateSchedule(ctx, sched); err != nil {
		m.log.Warn("failed to persist schedule fire",
			logger.String("id", id),
			logger.Error(err))
	}
	if sched.NextFireAt != nil {
		m.register(sched)
	}
}

func (m *Manager) deliver(ctx context.Context, sched *entities.ScheduledNotification, now time.Time) {
	tmpl, err := m.templates.GetTemplate(ctx, sched.TemplateID)
	if err != nil {
		m.log.Warn("scheduled notification references missing template",
			logger.String("id", sched.ID),
			logger.String("template", sched.TemplateID))
		return
	}

	records, err := m.reader.Since(ctx, now.Add(-m.lookback))
	if err != nil {
		m.log.Warn("failed to read activity for scheduled notification",
			logger.String("id", sched.ID),
			logger.Error(err))
		records = nil
	}
	name := tmpl.Name
	if sched.Type != "" {
		name = sched.Type
	}
	message := alerting.RenderBody(tmpl.Body, &entities.AlertRule{Name: name}, alerting.Snapshot(records), now)

	category := tmpl.Category
	if category == "" {
		category = "notification"
	}
	switch {
	case m.messenger != nil:
		err = m.messenger.SendMessage(ctx, category, message)
	case m.push != nil:
		title := tmpl.Subject
		if title == "" {
			title = tmpl.Name
		}
		err = m.push.SendPush(ctx, title, message)
	default:
		m.log.Warn("no delivery channel configured for scheduled notifications")
		return
	}
	if err != nil {
		m.log.Error("scheduled notification delivery failed",
			logger.String("id", sched.ID),
			logger.Error(err))
		return
	}
	m.log.Info("scheduled notification sent",
		logger.String("id", sched.ID),
		logger.String("template", tmpl.Name))
}
