package controllers

import (
	"net/http"

	"github.com/kasoahq/checkout-backend/api/responses"
	"github.com/kasoahq/checkout-backend/internal/cart"
	"github.com/kasoahq/checkout-backend/pkg/logger"
)

// GetCart returns the buyer's active cart with a freshly computed subtotal.
func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Active(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}
