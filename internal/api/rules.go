package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fundwatch/fundwatch/internal/alerting"
	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/datastore/repository"
	"github.com/fundwatch/fundwatch/internal/errors"
	"github.com/fundwatch/fundwatch/internal/logger"
)

// initAlertRoutes registers the alert rule endpoints.
func (c *Controller) initAlertRoutes(group *echo.Group) {
	alerts := group.Group("/alerts")
	alerts.GET("/schema", c.GetAlertSchema)
	alerts.GET("/rules", c.ListAlertRules)
	alerts.POST("/rules", c.CreateAlertRule)
	alerts.GET("/rules/:id", c.GetAlertRule)
	alerts.PUT("/rules/:id", c.UpdateAlertRule)
	alerts.PATCH("/rules/:id/toggle", c.ToggleAlertRule)
	alerts.DELETE("/rules/:id", c.DeleteAlertRule)
	alerts.POST("/rules/:id/test", c.TestAlertRule)
}

// GetAlertSchema returns the rule-building schema for the UI.
func (c *Controller) GetAlertSchema(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, alerting.GetSchema())
}

// ListAlertRules returns all alert rules, optionally filtered.
func (c *Controller) ListAlertRules(ctx echo.Context) error {
	filter := repository.RuleFilter{
		Kind: ctx.QueryParam("kind"),
	}
	if enabledParam := ctx.QueryParam("enabled"); enabledParam != "" {
		v := enabledParam == QueryValueTrue
		filter.Enabled = &v
	}
	if builtInParam := ctx.QueryParam("built_in"); builtInParam != "" {
		v := builtInParam == QueryValueTrue
		filter.BuiltIn = &v
	}

	rules, err := c.rules.ListRules(ctx.Request().Context(), filter)
	if err != nil {
		return c.handleError(ctx, err, "Failed to list alert rules", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"rules": rules,
		"count": len(rules),
	})
}

// GetAlertRule returns a single alert rule.
func (c *Controller) GetAlertRule(ctx echo.Context) error {
	rule, err := c.rules.GetRule(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			return notFound(ctx, "Alert rule not found")
		}
		return c.handleError(ctx, err, "Failed to get alert rule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, rule)
}

// CreateAlertRule creates a new alert rule.
func (c *Controller) CreateAlertRule(ctx echo.Context) error {
	var rule entities.AlertRule
	if err := ctx.Bind(&rule); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if rule.Name == "" {
		return badRequest(ctx, "Rule name is required")
	}

	// Prevent duplicate names
	count, err := c.rules.CountRulesByName(ctx.Request().Context(), rule.Name)
	if err != nil {
		return c.handleError(ctx, err, "Failed to create alert rule", http.StatusInternalServerError)
	}
	if count > 0 {
		return ctx.JSON(http.StatusConflict, map[string]string{"error": "A rule with this name already exists"})
	}

	if err := c.rules.CreateRule(ctx.Request().Context(), &rule); err != nil {
		return c.handleError(ctx, err, "Failed to create alert rule", http.StatusInternalServerError)
	}

	c.refreshMonitor(ctx)
	c.log.Info("alert rule created",
		logger.String("name", rule.Name),
		logger.String("id", rule.ID))
	return ctx.JSON(http.StatusCreated, rule)
}

// UpdateAlertRule replaces an existing alert rule.
func (c *Controller) UpdateAlertRule(ctx echo.Context) error {
	existing, err := c.rules.GetRule(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			return notFound(ctx, "Alert rule not found")
		}
		return c.handleError(ctx, err, "Failed to get alert rule", http.StatusInternalServerError)
	}

	var rule entities.AlertRule
	if err := ctx.Bind(&rule); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if rule.Name == "" {
		return badRequest(ctx, "Rule name is required")
	}

	rule.ID = existing.ID
	rule.CreatedAt = existing.CreatedAt

	if err := c.rules.UpdateRule(ctx.Request().Context(), &rule); err != nil {
		return c.handleError(ctx, err, "Failed to update alert rule", http.StatusInternalServerError)
	}

	// The old definition's cooldown must not suppress the new one.
	c.invalidateMonitor(ctx, rule.ID)
	return ctx.JSON(http.StatusOK, rule)
}

// ToggleAlertRule enables or disables an alert rule.
func (c *Controller) ToggleAlertRule(ctx echo.Context) error {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id := ctx.Param("id")
	if err := c.rules.ToggleRule(ctx.Request().Context(), id, body.Enabled); err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			return notFound(ctx, "Alert rule not found")
		}
		return c.handleError(ctx, err, "Failed to toggle alert rule", http.StatusInternalServerError)
	}

	// Disabling discards the cooldown entry; re-enabling restarts cold.
	c.invalidateMonitor(ctx, id)
	return ctx.JSON(http.StatusOK, map[string]any{"id": id, "enabled": body.Enabled})
}

// DeleteAlertRule deletes an alert rule.
func (c *Controller) DeleteAlertRule(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := c.rules.DeleteRule(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			return notFound(ctx, "Alert rule not found")
		}
		return c.handleError(ctx, err, "Failed to delete alert rule", http.StatusInternalServerError)
	}

	c.invalidateMonitor(ctx, id)
	return ctx.NoContent(http.StatusNoContent)
}

// TestAlertRule evaluates and dispatches a rule on demand, bypassing
// cooldown.
func (c *Controller) TestAlertRule(ctx echo.Context) error {
	fired, err := c.monitor.TestFire(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			return notFound(ctx, "Alert rule not found")
		}
		return c.handleError(ctx, err, "Failed to test alert rule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"fired": fired})
}

// refreshMonitor reloads the monitor's rule cache after a mutation.
func (c *Controller) refreshMonitor(ctx echo.Context) {
	if err := c.monitor.RefreshRules(ctx.Request().Context()); err != nil {
		c.log.Error("failed to refresh monitor rules", logger.Error(err))
	}
}

// invalidateMonitor clears a rule's cooldown and refreshes the cache.
func (c *Controller) invalidateMonitor(ctx echo.Context, ruleID string) {
	if err := c.monitor.InvalidateRule(ctx.Request().Context(), ruleID); err != nil {
		c.log.Error("failed to invalidate monitor rule", logger.Error(err))
	}
}
