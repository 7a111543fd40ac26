package sales

import (
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/salescope/salescope-backend/pkg/errors"
	"github.com/salescope/salescope-backend/pkg/render"
)

// DateRange is a validated, inclusive calendar date filter. The zero
// value matches everything.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDateRange validates the optional start/end query values. An end
// bound without a start bound is rejected, as is any value that is not
// a dd.mm.yyyy date.
func ParseDateRange(start, end string) (DateRange, error) {
	var rng DateRange

	if end != "" && start == "" {
		return rng, pkgerrors.New(pkgerrors.CodeValidation, "end_date requires start_date").
			WithField("start_date", "is required when end_date is set")
	}

	if start != "" {
		parsed, err := render.ParseDate(start)
		if err != nil {
			return rng, pkgerrors.New(pkgerrors.CodeValidation, "not a valid date").
				WithField("start_date", "not a valid date")
		}
		rng.Start = &parsed
	}

	if end != "" {
		parsed, err := render.ParseDate(end)
		if err != nil {
			return rng, pkgerrors.New(pkgerrors.CodeValidation, "not a valid date").
				WithField("end_date", "not a valid date")
		}
		rng.End = &parsed
	}

	return rng, nil
}

// Apply narrows query to the range. Both bounds are inclusive.
func (r DateRange) Apply(query *gorm.DB) *gorm.DB {
	if r.Start != nil {
		query = query.Where("date >= ?", *r.Start)
	}
	if r.End != nil {
		query = query.Where("date <= ?", *r.End)
	}
	return query
}
