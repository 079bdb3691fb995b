package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/datastore/repository"
	"github.com/fundwatch/fundwatch/internal/errors"
	"github.com/fundwatch/fundwatch/internal/logger"
)

// initTemplateRoutes registers the notification template endpoints.
func (c *Controller) initTemplateRoutes(group *echo.Group) {
	templates := group.Group("/templates")
	templates.GET("", c.ListTemplates)
	templates.POST("", c.CreateTemplate)
	templates.GET("/:id", c.GetTemplate)
	templates.PUT("/:id", c.UpdateTemplate)
	templates.DELETE("/:id", c.DeleteTemplate)
}

// ListTemplates returns all notification templates.
func (c *Controller) ListTemplates(ctx echo.Context) error {
	templates, err := c.templates.ListTemplates(ctx.Request().Context())
	if err != nil {
		return c.handleError(ctx, err, "Failed to list templates", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"templates": templates,
		"count":     len(templates),
	})
}

// GetTemplate returns a single template.
func (c *Controller) GetTemplate(ctx echo.Context) error {
	tmpl, err := c.templates.GetTemplate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return notFound(ctx, "Template not found")
		}
		return c.handleError(ctx, err, "Failed to get template", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

// CreateTemplate creates a notification template.
func (c *Controller) CreateTemplate(ctx echo.Context) error {
	var tmpl entities.NotificationTemplate
	if err := ctx.Bind(&tmpl); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if tmpl.Name == "" || tmpl.Body == "" {
		return badRequest(ctx, "Template name and body are required")
	}

	if err := c.templates.CreateTemplate(ctx.Request().Context(), &tmpl); err != nil {
		return c.handleError(ctx, err, "Failed to create template", http.StatusInternalServerError)
	}
	c.log.Info("template created", logger.String("name", tmpl.Name))
	return ctx.JSON(http.StatusCreated, tmpl)
}

// UpdateTemplate replaces an existing template.
func (c *Controller) UpdateTemplate(ctx echo.Context) error {
	var tmpl entities.NotificationTemplate
	if err := ctx.Bind(&tmpl); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if tmpl.Name == "" || tmpl.Body == "" {
		return badRequest(ctx, "Template name and body are required")
	}
	tmpl.ID = ctx.Param("id")

	if err := c.templates.UpdateTemplate(ctx.Request().Context(), &tmpl); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return notFound(ctx, "Template not found")
		}
		return c.handleError(ctx, err, "Failed to update template", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

// DeleteTemplate deletes a template. Rules referencing it keep their
// dangling reference and fall back to the generic message.
func (c *Controller) DeleteTemplate(ctx echo.Context) error {
	if err := c.templates.DeleteTemplate(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return notFound(ctx, "Template not found")
		}
		return c.handleError(ctx, err, "Failed to delete template", http.StatusInternalServerError)
	}
	return ctx.NoContent(http.StatusNoContent)
}
