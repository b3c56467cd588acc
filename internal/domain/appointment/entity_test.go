package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

func TestNewAppointment(t *testing.T) {
	svc := &models.Service{ID: uuid.New(), Name: "Facial", DurationMin: 90, Price: decimal.RequireFromString("120.00")}
	date, _ := ParseCalendarDate("2026-03-10")
	clientID := uuid.New()

	ap, err := New(clientID, svc, date, "9:00", "first visit")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, ap.ID)
	assert.Equal(t, clientID, ap.ClientID)
	assert.Equal(t, svc.ID, ap.ServiceID)
	assert.Equal(t, "09:00", ap.StartTime)
	assert.Equal(t, "10:30", ap.EndTime)
	assert.Equal(t, "pending", ap.Status)
	assert.False(t, ap.IsPaid)
	assert.Nil(t, ap.PaidAt)
	assert.True(t, svc.Price.Equal(ap.Price))

	svc.Price = decimal.NewFromInt(999)
	assert.Equal(t, "120", ap.Price.String())
}

func TestConfirmPaymentForcesConfirmed(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusCompleted)}
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.FixedZone("PET", -5*3600))

	ConfirmPayment(ap, PaymentCash, now)

	assert.True(t, ap.IsPaid)
	assert.Equal(t, "cash", ap.PaymentMethod)
	assert.Equal(t, "confirmed", ap.Status)
	require.NotNil(t, ap.PaidAt)
	assert.Equal(t, time.UTC, ap.PaidAt.Location())
	assert.True(t, now.Equal(*ap.PaidAt))

	later := now.Add(time.Hour)
	ConfirmPayment(ap, PaymentPlin, later)
	assert.Equal(t, "plin", ap.PaymentMethod)
	assert.True(t, later.Equal(*ap.PaidAt))
}

func TestSlotOf(t *testing.T) {
	ap := &models.Appointment{
		ID:        uuid.New(),
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "10:00",
	}
	q := SlotOf(ap)
	assert.Equal(t, ap.ID, q.ExcludeID)
	assert.Equal(t, "appointments:2026-03-10", q.LockKey())
}

func TestConflictErrorNamesWitness(t *testing.T) {
	err := ConflictError(&models.Appointment{StartTime: "09:00", EndTime: "10:30"})
	assert.EqualError(t, err, "an appointment already exists in that slot (09:00 - 10:30)")
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		number, limit int
		want          Page
	}{
		{0, 0, Page{1, 10}},
		{-3, -5, Page{1, 1}},
		{2, 500, Page{2, 100}},
		{3, 25, Page{3, 25}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPage(tt.number, tt.limit))
	}

	p := NewPage(3, 10)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 3, p.TotalPages(21))
	assert.Equal(t, 0, p.TotalPages(0))
}
