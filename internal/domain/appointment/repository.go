package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// ErrRecordNotFound is returned by every store lookup that finds nothing.
var ErrRecordNotFound = errors.New("record not found")

// Field is a group of appointment attributes a write may touch. Writes only
// store the groups they name, so concurrent operations on other groups are
// not overwritten.
type Field int

const (
	FieldClient Field = iota + 1
	// FieldService covers the service reference and the price snapshot.
	FieldService
	// FieldSchedule covers date, start time and end time.
	FieldSchedule
	FieldStatus
	FieldNotes
	// FieldPayment covers the paid flag, payment method and paid-at instant.
	FieldPayment
)

type ClientLookup interface {
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)

	// FindClientIDs matches first name, last name or document number,
	// case-insensitive substring.
	FindClientIDs(ctx context.Context, search string) ([]uuid.UUID, error)
}

type ServiceLookup interface {
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

type AppointmentStore interface {
	// GetAppointment loads Client and Service along with the appointment.
	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)

	// FindOverlap returns one conflicting appointment, or nil when the slot
	// is free.
	FindOverlap(ctx context.Context, q OverlapQuery) (*models.Appointment, error)

	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	// UpdateAppointment writes the named field groups of ap and refreshes
	// UpdatedAt. It returns ErrRecordNotFound when the appointment no longer
	// exists and never recreates it.
	UpdateAppointment(ctx context.Context, ap *models.Appointment, fields ...Field) error

	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	// ListAppointments sorts by date then start time, newest first.
	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, int64, error)

	// ListPaidInWindow returns paid, non-cancelled appointments dated inside
	// w, oldest first.
	ListPaidInWindow(ctx context.Context, w Window) ([]models.Appointment, error)
}

type Repository interface {
	ClientLookup
	ServiceLookup
	AppointmentStore

	// Transaction runs fn against a repository bound to one unit of work.
	Transaction(ctx context.Context, fn func(Repository) error) error
}
