package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kasoahq/checkout-backend/api/responses"
	"github.com/kasoahq/checkout-backend/internal/wallet"
	"github.com/kasoahq/checkout-backend/pkg/logger"
)

type walletBalanceResponse struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// GetWalletBalance returns the buyer's store credit balance in cedis.
func GetWalletBalance(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.Balance(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, walletBalanceResponse{Balance: balance, Currency: "GHS"})
	}
}
