// Package api exposes the HTTP interface: alert rule, template, schedule,
// and contribution endpoints plus the Prometheus metrics route.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/fundwatch/fundwatch/internal/alerting"
	"github.com/fundwatch/fundwatch/internal/datastore/repository"
	"github.com/fundwatch/fundwatch/internal/logger"
	"github.com/fundwatch/fundwatch/internal/metrics"
	"github.com/fundwatch/fundwatch/internal/scheduling"
)

// QueryValueTrue is the accepted truthy value for boolean query params.
const QueryValueTrue = "true"

// Controller holds the API's collaborators and registers the routes.
type Controller struct {
	Echo *echo.Echo

	rules         repository.RuleStore
	templates     repository.TemplateStore
	contributions repository.ContributionStore
	monitor       *alerting.Monitor
	schedules     *scheduling.Manager
	metrics       *metrics.Metrics
	log           logger.Logger
}

// ControllerConfig wires the Controller.
type ControllerConfig struct {
	Rules         repository.RuleStore
	Templates     repository.TemplateStore
	Contributions repository.ContributionStore
	Monitor       *alerting.Monitor
	Schedules     *scheduling.Manager
	Metrics       *metrics.Metrics
	Logger        logger.Logger
}

// NewController creates the echo instance and registers all routes.
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		Echo:          echo.New(),
		rules:         cfg.Rules,
		templates:     cfg.Templates,
		contributions: cfg.Contributions,
		monitor:       cfg.Monitor,
		schedules:     cfg.Schedules,
		metrics:       cfg.Metrics,
		log:           cfg.Logger,
	}
	c.Echo.HideBanner = true
	c.Echo.Use(echomiddleware.Recover())

	group := c.Echo.Group("/api/v1")
	c.initAlertRoutes(group)
	c.initTemplateRoutes(group)
	c.initScheduleRoutes(group)
	c.initContributionRoutes(group)

	if c.metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(c.metrics.Handler()))
	}
	return c
}

// Start begins serving on the given address. Blocks until shutdown.
func (c *Controller) Start(listen string) error {
	return c.Echo.Start(listen)
}

// handleError logs the failure and returns a JSON error payload.
func (c *Controller) handleError(ctx echo.Context, err error, message string, code int) error {
	c.log.Error(message, logger.Error(err))
	return ctx.JSON(code, map[string]string{"error": message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func notFound(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusNotFound, map[string]string{"error": message})
}
