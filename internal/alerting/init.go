package alerting

import (
	"context"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore/repository"
	"github.com/fundwatch/fundwatch/internal/logger"
	"github.com/fundwatch/fundwatch/internal/metrics"
)

// InitializeConfig carries everything Initialize needs to assemble the
// alerting engine.
type InitializeConfig struct {
	Rules         repository.RuleStore
	Templates     repository.TemplateStore
	Contributions repository.ContributionStore
	Push          PushSender
	Messenger     MessageSender
	Webhook       WebhookPoster
	Metrics       *metrics.Metrics
	Logger        logger.Logger
	Interval      time.Duration
	Lookback      time.Duration
}

// Initialize seeds the built-in templates and rules, assembles the
// evaluator, renderer, dispatcher, and cooldown tracker, and returns a
// Monitor ready to Start.
func Initialize(ctx context.Context, cfg InitializeConfig) (*Monitor, error) {
	if err := seedDefaultTemplates(ctx, cfg.Templates, cfg.Logger); err != nil {
		return nil, err
	}
	if err := seedDefaultRules(ctx, cfg.Rules, cfg.Logger); err != nil {
		return nil, err
	}

	renderer := NewRenderer(cfg.Templates)
	dispatcher := NewDispatcher(cfg.Push, cfg.Messenger, cfg.Webhook, renderer, cfg.Metrics, cfg.Logger)

	monitor := NewMonitor(MonitorConfig{
		Rules:      cfg.Rules,
		Reader:     cfg.Contributions,
		Evaluator:  NewEvaluator(cfg.Contributions, cfg.Lookback),
		Cooldowns:  NewCooldownTracker(),
		Dispatcher: dispatcher,
		Metrics:    cfg.Metrics,
		Logger:     cfg.Logger,
		Interval:   cfg.Interval,
		Lookback:   cfg.Lookback,
	})
	return monitor, nil
}

// seedDefaultRules ensures all built-in rules exist. It checks by name so
// partial seeds from previous runs self-heal on restart.
func seedDefaultRules(ctx context.Context, rules repository.RuleStore, log logger.Logger) error {
	var created int
	for _, def := range DefaultRules() {
		count, err := rules.CountRulesByName(ctx, def.Name)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := rules.CreateRule(ctx, &def); err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Info("seeded default alert rules", logger.Int("created", created))
	}
	return nil
}

// seedDefaultTemplates ensures all built-in templates exist, matching by
// name like the rule seeding does.
func seedDefaultTemplates(ctx context.Context, templates repository.TemplateStore, log logger.Logger) error {
	existing, err := templates.ListTemplates(ctx)
	if err != nil {
		return err
	}
	existingNames := make(map[string]struct{}, len(existing))
	for i := range existing {
		existingNames[existing[i].Name] = struct{}{}
	}

	var created int
	for _, def := range DefaultTemplates() {
		if _, ok := existingNames[def.Name]; ok {
			continue
		}
		if err := templates.CreateTemplate(ctx, &def); err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Info("seeded default notification templates", logger.Int("created", created))
	}
	return nil
}
