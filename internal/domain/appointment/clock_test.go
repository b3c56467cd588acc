package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
)

func TestComputeEndTime(t *testing.T) {
	tests := []struct {
		start    string
		duration int
		want     string
	}{
		{"09:00", 90, "10:30"},
		{"09:15", 45, "10:00"},
		{"00:00", 1, "00:01"},
		{"9:05", 60, "10:05"},
		{"23:30", 60, "24:30"},
		{"22:00", 180, "25:00"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got, err := ComputeEndTime(tt.start, tt.duration)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeEndTimeRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"", "9", "09:5", "24:00", "12:60", "ab:cd", "123:00", "-1:00"} {
		_, err := ComputeEndTime(raw, 30)
		assert.True(t, httperr.IsCode(err, "invalid_time"), raw)
	}

	_, err := ComputeEndTime("09:00", 0)
	assert.True(t, httperr.IsCode(err, "invalid_duration"))
}

func TestNormalizeClock(t *testing.T) {
	got, err := NormalizeClock(" 7:45 ")
	require.NoError(t, err)
	assert.Equal(t, "07:45", got)
	assert.Equal(t, "00:00", FormatClock(0))
}
