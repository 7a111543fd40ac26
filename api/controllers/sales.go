package controllers

import (
	"net/http"

	"github.com/salescope/salescope-backend/api/responses"
	"github.com/salescope/salescope-backend/api/validators"
	salesvc "github.com/salescope/salescope-backend/internal/sales"
	pkgerrors "github.com/salescope/salescope-backend/pkg/errors"
	"github.com/salescope/salescope-backend/pkg/logger"
)

// CreateSale records a new sale and returns its representation.
func CreateSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		var payload salesvc.SaleInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, sale)
	}
}

// UpdateSale fully replaces a sale's date and item set.
func UpdateSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		saleID, err := validators.Int64URLParam(r, "sale_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSaleID(ctx, saleID)
		}

		var payload salesvc.SaleInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sale, err := svc.Update(ctx, saleID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, sale)
	}
}

// GetSale returns one sale with its items.
func GetSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		saleID, err := validators.Int64URLParam(r, "sale_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSaleID(ctx, saleID)
		}

		sale, err := svc.Get(ctx, saleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, sale)
	}
}

// ListSales streams the filtered sales as `{"sales":[...]}`. Range
// validation happens before the stream opens, so filter errors still
// surface as a 400.
func ListSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		start, end := validators.DateRangeParams(r)
		rng, err := salesvc.ParseDateRange(start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lw := responses.NewListWriter(w, http.StatusOK, "sales")
		err = svc.StreamSales(r.Context(), rng, func(record salesvc.SaleDTO) error {
			return lw.WriteRecord(record)
		})
		if err != nil {
			if !lw.Started() {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if logg != nil {
				logg.Error(r.Context(), "sales.stream.aborted", err)
			}
		}
		lw.Close()
	}
}

// SalesMetrics returns the aggregate metrics over an optional range.
func SalesMetrics(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		start, end := validators.DateRangeParams(r)
		rng, err := salesvc.ParseDateRange(start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		metrics, err := svc.Metrics(r.Context(), rng)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, metrics)
	}
}
