package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "in-progress", "completed", "cancelled", "no-show"} {
		s, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, string(s))
	}

	_, err := ParseStatus("archived")
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
	assert.EqualError(t, err, "invalid status")
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "#3b82f6", StatusConfirmed.Color())
	assert.Equal(t, "#10b981", StatusCompleted.Color())
	assert.Equal(t, "#6b7280", Status("mystery").Color())
}

func TestActiveAndInactiveStatusesPartitionAll(t *testing.T) {
	active := ActiveStatusValues()
	inactive := InactiveStatusValues()

	assert.ElementsMatch(t, []string{"cancelled", "no-show"}, inactive)
	assert.ElementsMatch(t, []string{"pending", "confirmed", "in-progress", "completed"}, active)
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("yape")
	require.NoError(t, err)
	assert.Equal(t, PaymentYape, m)

	_, err = ParsePaymentMethod("  ")
	assert.EqualError(t, err, "payment method is required")

	_, err = ParsePaymentMethod("bitcoin")
	assert.True(t, httperr.IsCode(err, "invalid_payment_method"))
}
