package alerting

import (
	"testing"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSchema_CoversAllFields(t *testing.T) {
	schema := GetSchema()

	names := make(map[string]bool, len(schema.Fields))
	for _, f := range schema.Fields {
		names[f.Name] = true
		assert.NotEmpty(t, f.Label, "field %s needs a label", f.Name)
		assert.NotEmpty(t, f.Operators, "field %s needs operators", f.Name)
	}
	for _, want := range []string{
		FieldTotalAmount, FieldContributionCount, FieldAverageAmount,
		FieldUniqueContributors, FieldPlatformUsage, FieldMemberActivity,
		FieldTimeSinceLast,
	} {
		assert.True(t, names[want], "schema missing field %s", want)
	}
}

func TestGetSchema_EmailMarkedUnsupported(t *testing.T) {
	schema := GetSchema()
	var email *ChannelSchema
	for i := range schema.Channels {
		if schema.Channels[i].Name == entities.ChannelEmail {
			email = &schema.Channels[i]
		}
	}
	require.NotNil(t, email)
	assert.False(t, email.Supported)
}
