package appointment

import "github.com/google/uuid"

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Page is a 1-indexed page with a limit clamped to [1, 100].
type Page struct {
	Number int
	Limit  int
}

// NewPage applies the listing defaults: a zero page or limit means "not
// given", negatives are clamped.
func NewPage(number, limit int) Page {
	if number == 0 {
		number = defaultPage
	}
	if number < 1 {
		number = 1
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

func (p Page) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

type ListFilter struct {
	Status string
	Date   *CalendarDate

	// ClientIDs restricts results to these clients. Nil means no restriction;
	// an empty non-nil slice matches nothing.
	ClientIDs []uuid.UUID

	Page Page
}
