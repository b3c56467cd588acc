package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/dto"
)

type ListAppointmentsInput struct {
	Status string
	Date   string
	Search string
	Page   int
	Limit  int
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute lists appointments newest first. Search is resolved to client ids
// first; a search that matches nobody returns an empty page.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) (dto.AppointmentPageDTO, error) {

	filter := domain.ListFilter{
		Status: strings.TrimSpace(in.Status),
		Page:   domain.NewPage(in.Page, in.Limit),
	}

	if strings.TrimSpace(in.Date) != "" {
		date, err := domain.ParseCalendarDate(in.Date)
		if err != nil {
			return dto.AppointmentPageDTO{}, err
		}
		filter.Date = &date
	}

	if search := strings.TrimSpace(in.Search); search != "" {
		ids, err := uc.repo.FindClientIDs(ctx, search)
		if err != nil {
			return dto.AppointmentPageDTO{}, err
		}
		filter.ClientIDs = ids
	}

	aps, total, err := uc.repo.ListAppointments(ctx, filter)
	if err != nil {
		return dto.AppointmentPageDTO{}, err
	}

	return dto.NewAppointmentPageDTO(aps, filter.Page, total), nil
}
