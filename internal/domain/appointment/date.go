package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
)

const dateLayout = "2006-01-02"

// CalendarDate is a day with no time of day. The business runs in a single
// timezone, so days are anchored to UTC.
type CalendarDate struct {
	t time.Time
}

// ParseCalendarDate accepts "YYYY-MM-DD" or an ISO datetime, in which case
// only the date part before 'T' is used.
func ParseCalendarDate(raw string) (CalendarDate, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		raw = raw[:i]
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return CalendarDate{}, httperr.ErrValidation("invalid_date", "invalid date")
	}
	return CalendarDate{t: t}, nil
}

// DateOf is the UTC calendar day containing t.
func DateOf(t time.Time) CalendarDate {
	u := t.UTC()
	return CalendarDate{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// Time is midnight UTC of the day, the persisted form.
func (d CalendarDate) Time() time.Time {
	return d.t
}

func (d CalendarDate) IsZero() bool {
	return d.t.IsZero()
}

func (d CalendarDate) String() string {
	return d.t.Format(dateLayout)
}

func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *CalendarDate) UnmarshalText(b []byte) error {
	parsed, err := ParseCalendarDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Window is an inclusive range of instants.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayWindow spans [00:00:00.000, 23:59:59.999] UTC of d. Every date scoped
// query goes through it.
func DayWindow(d CalendarDate) Window {
	start := d.Time()
	return Window{
		Start: start,
		End:   start.Add(24*time.Hour - time.Millisecond),
	}
}

// RangeWindow spans from the start of `from` to the end of `to`.
func RangeWindow(from, to CalendarDate) Window {
	return Window{
		Start: DayWindow(from).Start,
		End:   DayWindow(to).End,
	}
}
