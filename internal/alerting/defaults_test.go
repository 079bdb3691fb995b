package alerting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRules_AreWellFormed(t *testing.T) {
	schema := GetSchema()
	fields := make(map[string]bool)
	for _, f := range schema.Fields {
		fields[f.Name] = true
	}
	templateIDs := make(map[string]bool)
	for _, tmpl := range DefaultTemplates() {
		templateIDs[tmpl.ID] = true
	}

	names := make(map[string]bool)
	for _, rule := range DefaultRules() {
		assert.True(t, rule.BuiltIn, "default rule %q must be built-in", rule.Name)
		assert.False(t, names[rule.Name], "duplicate default rule name %q", rule.Name)
		names[rule.Name] = true

		for _, cond := range rule.Conditions {
			assert.True(t, fields[cond.Field], "rule %q uses unknown field %q", rule.Name, cond.Field)
		}
		for _, action := range rule.Actions {
			if action.TemplateID != "" {
				assert.True(t, templateIDs[action.TemplateID],
					"rule %q references unknown template %q", rule.Name, action.TemplateID)
			}
		}
	}
}

func TestDefaultTemplates_DeclareTheirVariables(t *testing.T) {
	for _, tmpl := range DefaultTemplates() {
		for _, v := range tmpl.Variables {
			assert.Contains(t, tmpl.Body, placeholder(v),
				"template %q declares %s but never uses it", tmpl.Name, v)
		}
	}
}
