package controllers

import (
	"net/http"

	"github.com/salescope/salescope-backend/api/responses"
	"github.com/salescope/salescope-backend/api/validators"
	productsvc "github.com/salescope/salescope-backend/internal/products"
	pkgerrors "github.com/salescope/salescope-backend/pkg/errors"
	"github.com/salescope/salescope-backend/pkg/logger"
)

// ImportProducts handles the bulk product import.
func ImportProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload productsvc.ImportInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Import(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

// ListProducts streams the full catalog as `{"products":[...]}`.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		lw := responses.NewListWriter(w, http.StatusOK, "products")
		err := svc.StreamProducts(r.Context(), func(record productsvc.ProductDTO) error {
			return lw.WriteRecord(record)
		})
		if err != nil {
			if !lw.Started() {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if logg != nil {
				logg.Error(r.Context(), "products.stream.aborted", err)
			}
		}
		lw.Close()
	}
}
