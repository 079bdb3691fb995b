package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundwatch/fundwatch/internal/alerting"
	"github.com/fundwatch/fundwatch/internal/api"
	"github.com/fundwatch/fundwatch/internal/channels"
	"github.com/fundwatch/fundwatch/internal/conf"
	"github.com/fundwatch/fundwatch/internal/datastore"
	"github.com/fundwatch/fundwatch/internal/datastore/repository"
	"github.com/fundwatch/fundwatch/internal/logger"
	"github.com/fundwatch/fundwatch/internal/metrics"
	"github.com/fundwatch/fundwatch/internal/scheduling"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the monitor, scheduler, and HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	settings, err := conf.Load(configFile)
	if err != nil {
		return err
	}

	log := logger.NewSlogLogger(os.Stdout, logger.ParseLevel(settings.Logging.Level), nil)
	log.Info("starting fundwatch",
		logger.String("data_path", settings.DataPath),
		logger.String("listen", settings.HTTP.Listen))

	docs, err := datastore.OpenSQLite(settings.DataPath)
	if err != nil {
		return err
	}

	rules, err := repository.NewRuleStore(ctx, docs)
	if err != nil {
		return err
	}
	templates, err := repository.NewTemplateStore(ctx, docs)
	if err != nil {
		return err
	}
	schedules, err := repository.NewScheduleStore(ctx, docs)
	if err != nil {
		return err
	}
	contributions, err := repository.NewContributionStore(ctx, docs)
	if err != nil {
		return err
	}

	push, messenger := buildSenders(settings, log)
	m := metrics.New()

	monitor, err := alerting.Initialize(ctx, alerting.InitializeConfig{
		Rules:         rules,
		Templates:     templates,
		Contributions: contributions,
		Push:          push,
		Messenger:     messenger,
		Webhook:       channels.NewWebhookClient(0),
		Metrics:       m,
		Logger:        log,
		Interval:      settings.Monitor.Interval.Std(),
		Lookback:      settings.Monitor.DefaultLookback.Std(),
	})
	if err != nil {
		return err
	}
	if err := monitor.Start(ctx); err != nil {
		return err
	}
	defer monitor.Stop()

	jobs := scheduling.NewTimerScheduler(log)
	defer jobs.Stop()
	manager := scheduling.NewManager(scheduling.ManagerConfig{
		Store:     schedules,
		Templates: templates,
		Reader:    contributions,
		Push:      push,
		Messenger: messenger,
		Scheduler: jobs,
		Metrics:   m,
		Logger:    log,
		Lookback:  settings.Monitor.DefaultLookback.Std(),
	})
	if err := manager.Start(ctx); err != nil {
		return err
	}

	controllerMetrics := m
	if !settings.Metrics.Enabled {
		controllerMetrics = nil
	}
	controller := api.NewController(api.ControllerConfig{
		Rules:         rules,
		Templates:     templates,
		Contributions: contributions,
		Monitor:       monitor,
		Schedules:     manager,
		Metrics:       controllerMetrics,
		Logger:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := controller.Start(settings.HTTP.Listen); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", logger.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("shutting down", logger.Error(ctx.Err()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return controller.Echo.Shutdown(shutdownCtx)
}

// buildSenders creates the configured shoutrrr senders. An unconfigured
// or invalid URL leaves that channel nil; the dispatcher rejects actions
// for it explicitly.
func buildSenders(settings *conf.Settings, log logger.Logger) (alerting.PushSender, alerting.MessageSender) {
	var push alerting.PushSender
	var messenger alerting.MessageSender

	if url := settings.Channels.PushURL; url != "" {
		sender, err := channels.NewShoutrrrSender(url)
		if err != nil {
			log.Warn("push channel disabled", logger.Error(err))
		} else {
			push = sender
		}
	}
	if url := settings.Channels.MessengerURL; url != "" {
		sender, err := channels.NewShoutrrrSender(url)
		if err != nil {
			log.Warn("messenger channel disabled", logger.Error(err))
		} else {
			messenger = sender
		}
	}
	return push, messenger
}
