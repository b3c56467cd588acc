package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/dto"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
)

type ListCalendar struct {
	repo domain.Repository
}

func NewListCalendar(repo domain.Repository) *ListCalendar {
	return &ListCalendar{repo: repo}
}

// Execute projects paid, non-cancelled appointments between two days
// (inclusive) into calendar events. Unpaid ones stay off the calendar.
func (uc *ListCalendar) Execute(
	ctx context.Context,
	rawStart string,
	rawEnd string,
) ([]dto.CalendarEventDTO, error) {

	if rawStart == "" || rawEnd == "" {
		return nil, httperr.ErrValidation("range_required", "start and end dates are required")
	}

	from, err := domain.ParseCalendarDate(rawStart)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseCalendarDate(rawEnd)
	if err != nil {
		return nil, err
	}

	aps, err := uc.repo.ListPaidInWindow(ctx, domain.RangeWindow(from, to))
	if err != nil {
		return nil, err
	}

	out := make([]dto.CalendarEventDTO, 0, len(aps))
	for i := range aps {
		out = append(out, dto.NewCalendarEventDTO(&aps[i]))
	}
	return out, nil
}
