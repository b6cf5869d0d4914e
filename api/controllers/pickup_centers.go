package controllers

import (
	"net/http"

	"github.com/kasoahq/checkout-backend/api/responses"
	"github.com/kasoahq/checkout-backend/api/validators"
	"github.com/kasoahq/checkout-backend/internal/delivery"
	"github.com/kasoahq/checkout-backend/pkg/enums"
	pkgerrors "github.com/kasoahq/checkout-backend/pkg/errors"
	"github.com/kasoahq/checkout-backend/pkg/logger"
)

// ListPickupCenters returns the active pickup centers for a serviceable city.
func ListPickupCenters(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := validators.RequireQueryString(r, "city")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		city, err := enums.ParseCity(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported city"))
			return
		}

		centers, err := svc.PickupCenters(r.Context(), city)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, centers)
	}
}
