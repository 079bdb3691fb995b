package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/logger"
)

// maxContributionWindowHours caps the query window for listing.
const maxContributionWindowHours = 24 * 365

// initContributionRoutes registers the contribution ingest endpoints.
func (c *Controller) initContributionRoutes(group *echo.Group) {
	contributions := group.Group("/contributions")
	contributions.POST("", c.AddContribution)
	contributions.GET("", c.ListContributions)
}

// AddContribution records a contribution. This is the activity feed the
// rule monitor evaluates against.
func (c *Controller) AddContribution(ctx echo.Context) error {
	var contribution entities.Contribution
	if err := ctx.Bind(&contribution); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if contribution.MemberID == "" {
		return badRequest(ctx, "Member id is required")
	}
	if contribution.Amount <= 0 {
		return badRequest(ctx, "Amount must be positive")
	}

	if err := c.contributions.AddContribution(ctx.Request().Context(), &contribution); err != nil {
		return c.handleError(ctx, err, "Failed to record contribution", http.StatusInternalServerError)
	}
	c.log.Info("contribution recorded",
		logger.String("member", contribution.MemberID),
		logger.Float64("amount", contribution.Amount))
	return ctx.JSON(http.StatusCreated, contribution)
}

// ListContributions returns contributions from the last N hours
// (default 24).
func (c *Controller) ListContributions(ctx echo.Context) error {
	hours := 24
	if hoursParam := ctx.QueryParam("hours"); hoursParam != "" {
		v, err := strconv.Atoi(hoursParam)
		if err != nil || v <= 0 {
			return badRequest(ctx, "Invalid hours parameter")
		}
		if v > maxContributionWindowHours {
			v = maxContributionWindowHours
		}
		hours = v
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	records, err := c.contributions.Since(ctx.Request().Context(), since)
	if err != nil {
		return c.handleError(ctx, err, "Failed to list contributions", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"contributions": records,
		"count":         len(records),
		"hours":         hours,
	})
}
