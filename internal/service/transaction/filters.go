// internal/service/transaction/filters.go
package transaction

import (
	"strconv"
	"time"

	"ezwallet-service/internal/domain/transaction"
	xerrors "ezwallet-service/internal/pkg/errors"
)

var (
	ErrInvalidDateFilter   = xerrors.BadRequest("Invalid date in one of query params")
	ErrDateWithRange       = xerrors.BadRequest(`Cannot specify "date" together with "from" or "upTo"`)
	ErrInvalidAmountFilter = xerrors.BadRequest("Invalid values in one of query params")
)

const dayLayout = "2006-01-02"

// QueryFilters carries the raw listing query parameters. Empty strings
// mean the parameter was not given.
type QueryFilters struct {
	Date string
	From string
	UpTo string
	Min  string
	Max  string
}

// Apply parses the raw parameters into filter bounds. Dates are whole UTC
// days; `date` selects exactly one day and cannot combine with the range
// parameters.
func (q QueryFilters) Apply(f *transaction.Filter) error {
	for _, v := range []string{q.Date, q.From, q.UpTo} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(dayLayout, v); err != nil {
			return ErrInvalidDateFilter
		}
	}

	if q.Date != "" {
		if q.From != "" || q.UpTo != "" {
			return ErrDateWithRange
		}
		day, _ := time.Parse(dayLayout, q.Date)
		end := endOfDay(day)
		f.MinDate = &day
		f.MaxDate = &end
	} else {
		if q.From != "" {
			day, _ := time.Parse(dayLayout, q.From)
			f.MinDate = &day
		}
		if q.UpTo != "" {
			day, _ := time.Parse(dayLayout, q.UpTo)
			end := endOfDay(day)
			f.MaxDate = &end
		}
	}

	if q.Min != "" {
		v, err := strconv.ParseFloat(q.Min, 64)
		if err != nil {
			return ErrInvalidAmountFilter
		}
		f.MinAmount = &v
	}
	if q.Max != "" {
		v, err := strconv.ParseFloat(q.Max, 64)
		if err != nil {
			return ErrInvalidAmountFilter
		}
		f.MaxAmount = &v
	}
	return nil
}

func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Millisecond)
}
