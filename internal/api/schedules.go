package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/datastore/repository"
	"github.com/fundwatch/fundwatch/internal/errors"
	"github.com/fundwatch/fundwatch/internal/logger"
	"github.com/fundwatch/fundwatch/internal/scheduling"
)

// initScheduleRoutes registers the scheduled notification endpoints. All
// mutations go through the schedule manager so timers and persisted fire
// times stay in sync.
func (c *Controller) initScheduleRoutes(group *echo.Group) {
	schedules := group.Group("/schedules")
	schedules.GET("", c.ListSchedules)
	schedules.POST("", c.CreateSchedule)
	schedules.GET("/:id", c.GetSchedule)
	schedules.PUT("/:id", c.UpdateSchedule)
	schedules.PATCH("/:id/toggle", c.ToggleSchedule)
	schedules.DELETE("/:id", c.DeleteSchedule)
}

// ListSchedules returns all scheduled notifications.
func (c *Controller) ListSchedules(ctx echo.Context) error {
	schedules, err := c.schedules.ListSchedules(ctx.Request().Context())
	if err != nil {
		return c.handleError(ctx, err, "Failed to list schedules", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"schedules": schedules,
		"count":     len(schedules),
	})
}

// GetSchedule returns a single scheduled notification.
func (c *Controller) GetSchedule(ctx echo.Context) error {
	sched, err := c.schedules.GetSchedule(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return notFound(ctx, "Schedule not found")
		}
		return c.handleError(ctx, err, "Failed to get schedule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, sched)
}

// CreateSchedule creates a scheduled notification and arms its timer.
func (c *Controller) CreateSchedule(ctx echo.Context) error {
	var sched entities.ScheduledNotification
	if err := ctx.Bind(&sched); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if sched.TemplateID == "" {
		return badRequest(ctx, "Template id is required")
	}

	if err := c.schedules.CreateSchedule(ctx.Request().Context(), &sched); err != nil {
		if errors.Is(err, scheduling.ErrUnsupportedRecurrence) {
			return badRequest(ctx, "Unsupported recurrence type")
		}
		if errors.Is(err, scheduling.ErrInvalidSchedule) {
			return badRequest(ctx, "Invalid schedule configuration")
		}
		return c.handleError(ctx, err, "Failed to create schedule", http.StatusInternalServerError)
	}
	c.log.Info("schedule created",
		logger.String("id", sched.ID),
		logger.String("recurrence", sched.Schedule.Recurrence))
	return ctx.JSON(http.StatusCreated, sched)
}

// UpdateSchedule replaces a scheduled notification, recomputing its fire
// time.
func (c *Controller) UpdateSchedule(ctx echo.Context) error {
	var sched entities.ScheduledNotification
	if err := ctx.Bind(&sched); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	sched.ID = ctx.Param("id")

	if err := c.schedules.UpdateSchedule(ctx.Request().Context(), &sched); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return notFound(ctx, "Schedule not found")
		}
		if errors.Is(err, scheduling.ErrUnsupportedRecurrence) || errors.Is(err, scheduling.ErrInvalidSchedule) {
			return badRequest(ctx, "Invalid schedule configuration")
		}
		return c.handleError(ctx, err, "Failed to update schedule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, sched)
}

// ToggleSchedule enables or disables a scheduled notification.
func (c *Controller) ToggleSchedule(ctx echo.Context) error {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id := ctx.Param("id")
	if err := c.schedules.ToggleSchedule(ctx.Request().Context(), id, body.Enabled); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return notFound(ctx, "Schedule not found")
		}
		return c.handleError(ctx, err, "Failed to toggle schedule", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"id": id, "enabled": body.Enabled})
}

// DeleteSchedule cancels and removes a scheduled notification.
func (c *Controller) DeleteSchedule(ctx echo.Context) error {
	if err := c.schedules.DeleteSchedule(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return notFound(ctx, "Schedule not found")
		}
		return c.handleError(ctx, err, "Failed to delete schedule", http.StatusInternalServerError)
	}
	return ctx.NoContent(http.StatusNoContent)
}
