package appointment

import "github.com/BruksfildServices01/spa-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no-show"
)

var allStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// InactiveStatuses never occupy a slot.
var InactiveStatuses = []Status{StatusCancelled, StatusNoShow}

var statusColors = map[Status]string{
	StatusPending:    "#f59e0b",
	StatusConfirmed:  "#3b82f6",
	StatusInProgress: "#8b5cf6",
	StatusCompleted:  "#10b981",
	StatusCancelled:  "#ef4444",
	StatusNoShow:     "#6b7280",
}

const defaultStatusColor = "#6b7280"

// ===============================
// Validations
// ===============================

func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Color is the calendar colour for a status; unknown values are gray.
func (s Status) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return defaultStatusColor
}

// ParseStatus accepts any of the six statuses. There is no transition table:
// every status is reachable from every other one.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", httperr.ErrValidation("invalid_status", "invalid status")
	}
	return s, nil
}

func InitialStatus() Status {
	return StatusPending
}

func statusStrings(list []Status) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = string(s)
	}
	return out
}

// InactiveStatusValues is InactiveStatuses as plain strings for store filters.
func InactiveStatusValues() []string {
	return statusStrings(InactiveStatuses)
}

// ActiveStatusValues are the statuses that hold their slot.
func ActiveStatusValues() []string {
	var out []string
	for _, s := range allStatuses {
		if s != StatusCancelled && s != StatusNoShow {
			out = append(out, string(s))
		}
	}
	return out
}
