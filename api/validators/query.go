package validators

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/salescope/salescope-backend/pkg/errors"
)

// Int64URLParam parses a chi URL parameter as a positive integer.
func Int64URLParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).
			WithField(name, "must be a positive integer")
	}
	return value, nil
}

// DateRangeParams extracts the optional start_date/end_date query values.
func DateRangeParams(r *http.Request) (start, end string) {
	query := r.URL.Query()
	return query.Get("start_date"), query.Get("end_date")
}
