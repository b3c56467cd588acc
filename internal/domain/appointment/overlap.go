package appointment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// OverlapQuery asks for any active appointment on Date whose [start, end)
// interval intersects [StartTime, EndTime). Touching endpoints do not
// intersect. ExcludeID, when set, skips the appointment being edited.
type OverlapQuery struct {
	Date      CalendarDate
	StartTime string
	EndTime   string
	ExcludeID uuid.UUID
}

func (q OverlapQuery) Window() Window {
	return DayWindow(q.Date)
}

// LockKey serialises bookings on the same day.
func (q OverlapQuery) LockKey() string {
	return "appointments:" + q.Date.String()
}

// ConflictError names the window of the appointment already holding the slot.
func ConflictError(existing *models.Appointment) error {
	return httperr.ErrConflict(
		"time_conflict",
		fmt.Sprintf("an appointment already exists in that slot (%s - %s)", existing.StartTime, existing.EndTime),
	)
}

// ErrSlotTaken is returned by stores when the storage level constraint rejects
// a write that passed the overlap check.
var ErrSlotTaken = httperr.ErrConflict("slot_taken", "an appointment already exists in that slot")
