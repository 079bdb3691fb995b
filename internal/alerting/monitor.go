package alerting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/datastore/repository"
	"github.com/fundwatch/fundwatch/internal/logger"
	"github.com/fundwatch/fundwatch/internal/metrics"
)

// DefaultInterval is the monitor's evaluation period when the
// configuration does not set one.
const DefaultInterval = 60 * time.Second

// Monitor periodically evaluates the enabled rules against contribution
// activity and dispatches alerts for the ones that fire. Rules are cached
// in memory and refreshed explicitly when the API mutates them.
type Monitor struct {
	rules      repository.RuleStore
	reader     ActivityReader
	evaluator  *Evaluator
	cooldowns  *CooldownTracker
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
	log        logger.Logger
	interval   time.Duration
	lookback   time.Duration

	mu     sync.RWMutex
	cached []entities.AlertRule

	runMu sync.Mutex
	stop  chan struct{}
	done  chan struct{}
}

// MonitorConfig wires a Monitor's collaborators.
type MonitorConfig struct {
	Rules      repository.RuleStore
	Reader     ActivityReader
	Evaluator  *Evaluator
	Cooldowns  *CooldownTracker
	Dispatcher *Dispatcher
	Metrics    *metrics.Metrics
	Logger     logger.Logger
	// Interval between evaluation sweeps. <= 0 uses DefaultInterval.
	Interval time.Duration
	// Lookback is the activity window used for rendering snapshots.
	// <= 0 uses DefaultLookback.
	Lookback time.Duration
}

// NewMonitor creates a Monitor. It does not start evaluating; call Start.
func NewMonitor(cfg MonitorConfig) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	return &Monitor{
		rules:      cfg.Rules,
		reader:     cfg.Reader,
		evaluator:  cfg.Evaluator,
		cooldowns:  cfg.Cooldowns,
		dispatcher: cfg.Dispatcher,
		metrics:    cfg.Metrics,
		log:        cfg.Logger,
		interval:   cfg.Interval,
		lookback:   cfg.Lookback,
	}
}

// Start loads the rule cache, seeds cooldowns from the persisted
// last-trigger stamps, and begins the periodic evaluation loop.
func (m *Monitor) Start(ctx context.Context) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.stop != nil {
		return nil
	}

	if err := m.RefreshRules(ctx); err != nil {
		return err
	}
	m.mu.RLock()
	m.cooldowns.Seed(m.cached)
	m.mu.RUnlock()

	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.run(m.stop, m.done)

	m.log.Info("alert monitor started",
		logger.Duration("interval", m.interval),
		logger.Int("rules", m.ruleCount()))
	return nil
}

// Stop halts the evaluation loop and waits for an in-flight sweep to
// finish. Safe to call more than once.
func (m *Monitor) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.stop == nil {
		return
	}
	close(m.stop)
	<-m.done
	m.stop = nil
	m.done = nil
	m.log.Info("alert monitor stopped")
}

func (m *Monitor) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			m.RunOnce(context.Background(), now)
		}
	}
}

// RefreshRules reloads the enabled rules into the cache. The API calls
// this after every rule mutation.
func (m *Monitor) RefreshRules(ctx context.Context) error {
	rules, err := m.rules.GetEnabledRules(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cached = rules
	m.mu.Unlock()
	return nil
}

// InvalidateRule drops a rule's cooldown state and refreshes the cache.
// Called when a rule is updated or deleted so stale suppression does not
// outlive the old definition.
func (m *Monitor) InvalidateRule(ctx context.Context, ruleID string) error {
	m.cooldowns.Clear(ruleID)
	return m.RefreshRules(ctx)
}

// RunOnce performs a single evaluation sweep at the given instant. Rules
// are evaluated sequentially; a panic or error in one rule is contained
// and the sweep continues.
func (m *Monitor) RunOnce(ctx context.Context, now time.Time) {
	m.mu.RLock()
	rules := make([]entities.AlertRule, len(m.cached))
	copy(rules, m.cached)
	m.mu.RUnlock()

	for i := range rules {
		m.evaluateRule(ctx, &rules[i], now)
	}
}

func (m *Monitor) evaluateRule(ctx context.Context, rule *entities.AlertRule, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("panic during rule evaluation",
				logger.String("rule", rule.Name),
				logger.String("panic", panicString(r)))
		}
	}()

	m.metrics.RulesEvaluated.Inc()

	if m.cooldowns.InCooldown(rule.ID, rule.Cooldown(), now) {
		return
	}

	fired, err := m.evaluator.Evaluate(ctx, rule, now)
	if err != nil {
		m.metrics.EvaluationErrors.Inc()
		m.log.Error("rule evaluation failed",
			logger.String("rule", rule.Name),
			logger.Error(err))
		return
	}
	if !fired {
		return
	}

	m.fire(ctx, rule, now)
}

func (m *Monitor) fire(ctx context.Context, rule *entities.AlertRule, now time.Time) {
	m.cooldowns.MarkFired(rule.ID, now)
	if err := m.rules.MarkTriggered(ctx, rule.ID, now); err != nil {
		m.log.Warn("failed to persist trigger time",
			logger.String("rule", rule.Name),
			logger.Error(err))
	}
	m.metrics.AlertsFired.WithLabelValues(rule.Priority).Inc()
	m.log.Info("alert rule fired",
		logger.String("rule", rule.Name),
		logger.String("priority", rule.Priority))

	records, err := m.reader.Since(ctx, now.Add(-m.lookback))
	if err != nil {
		m.log.Warn("failed to read activity for rendering",
			logger.String("rule", rule.Name),
			logger.Error(err))
		records = nil
	}

	if err := m.dispatcher.Dispatch(ctx, rule, Snapshot(records), now); err != nil {
		m.log.Warn("alert dispatched with failures",
			logger.String("rule", rule.Name),
			logger.Error(err))
	}
}

func panicString(v any) string {
	return fmt.Sprintf("%v", v)
}

// TestFire evaluates and, when the conditions hold, dispatches a rule on
// demand, bypassing cooldown. Used by the API's test endpoint. It reports
// whether the rule fired.
func (m *Monitor) TestFire(ctx context.Context, ruleID string) (bool, error) {
	rule, err := m.rules.GetRule(ctx, ruleID)
	if err != nil {
		return false, err
	}
	now := time.Now()
	fired, err := m.evaluator.Evaluate(ctx, rule, now)
	if err != nil || !fired {
		return false, err
	}
	m.fire(ctx, rule, now)
	return true, nil
}

func (m *Monitor) ruleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cached)
}
