package alerting

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/datastore/repository"
)

// Renderer resolves notification templates into message text. Placeholders
// use {variable} syntax; unknown placeholders are left verbatim so a typo
// in a template is visible in the delivered message instead of silently
// dropped.
type Renderer struct {
	templates repository.TemplateStore
}

// NewRenderer creates a Renderer over the template store.
func NewRenderer(templates repository.TemplateStore) *Renderer {
	return &Renderer{templates: templates}
}

// Render produces the message for a fired rule. When the action names no
// template, or the template has since been deleted, a generic fallback
// message is returned instead of an error so the alert still goes out.
func (r *Renderer) Render(ctx context.Context, rule *entities.AlertRule, templateID string, snap ActivitySnapshot, now time.Time) string {
	if templateID == "" {
		return fallbackMessage(rule)
	}
	tmpl, err := r.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return fallbackMessage(rule)
	}
	return RenderBody(tmpl.Body, rule, snap, now)
}

// RenderBody substitutes the template variables into a body.
func RenderBody(body string, rule *entities.AlertRule, snap ActivitySnapshot, now time.Time) string {
	replacer := strings.NewReplacer(
		placeholder(VarRuleName), rule.Name,
		placeholder(VarTimestamp), now.Format(time.RFC3339),
		placeholder(VarTotalAmount), fmt.Sprintf("%.2f", snap.TotalAmount),
		placeholder(VarContributionCount), strconv.Itoa(snap.ContributionCount),
		placeholder(VarUniqueContributors), strconv.Itoa(snap.UniqueContributors),
		placeholder(VarLatestContribution), latestContribution(snap),
	)
	return replacer.Replace(body)
}

func placeholder(name string) string {
	return "{" + name + "}"
}

func latestContribution(snap ActivitySnapshot) string {
	if snap.Latest == nil {
		return "None"
	}
	return fmt.Sprintf("$%.2f from %s", snap.Latest.Amount, snap.Latest.MemberName)
}

func fallbackMessage(rule *entities.AlertRule) string {
	return "Alert triggered: " + rule.Name
}
