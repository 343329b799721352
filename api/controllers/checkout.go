package controllers

import (
	"net/http"

	"github.com/squareeyes/backend/api/responses"
	checkoutsvc "github.com/squareeyes/backend/internal/checkout"
	pkgerrors "github.com/squareeyes/backend/pkg/errors"
	"github.com/squareeyes/backend/pkg/logger"
)

// CheckoutTotals returns the money breakdown for the live cart.
func CheckoutTotals(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		totals, err := svc.Totals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toTotalsDTO(totals))
	}
}

// Checkout finalizes the purchase: writes the one-shot order record and
// clears the cart. An empty cart is a validation failure.
func Checkout(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		record, err := svc.Complete(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toOrderDTO(record))
	}
}

// LastOrder returns the confirmation record exactly once; the second read
// reports not found.
func LastOrder(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		record, err := svc.ConsumeLastOrder(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderDTO(record))
	}
}
