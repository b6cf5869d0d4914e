package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kasoahq/checkout-backend/api/middleware"
	"github.com/kasoahq/checkout-backend/api/responses"
	"github.com/kasoahq/checkout-backend/api/validators"
	"github.com/kasoahq/checkout-backend/internal/address"
	checkoutsvc "github.com/kasoahq/checkout-backend/internal/checkout"
	"github.com/kasoahq/checkout-backend/pkg/enums"
	pkgerrors "github.com/kasoahq/checkout-backend/pkg/errors"
	"github.com/kasoahq/checkout-backend/pkg/logger"
)

// GetCheckout returns the buyer's priced checkout view, creating a fresh
// session when none exists.
func GetCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.View(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type setAddressRequest struct {
	Mode       string         `json:"mode" validate:"required,oneof=existing new"`
	AddressID  *uuid.UUID     `json:"address_id,omitempty"`
	NewAddress *address.Input `json:"new_address,omitempty"`
}

// SetCheckoutAddress binds an existing or newly captured address to the session.
func SetCheckoutAddress(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, err := enums.ParseAddressMode(payload.Mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address mode"))
			return
		}

		sel := address.Selection{Mode: mode, New: payload.NewAddress}
		if payload.AddressID != nil {
			sel.AddressID = *payload.AddressID
		}

		view, err := svc.SetAddress(r.Context(), userID, sel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type setDeliveryRequest struct {
	Method         string     `json:"method" validate:"required,oneof=dispatch pickup_center"`
	Speed          string     `json:"speed,omitempty" validate:"omitempty,oneof=standard same_day"`
	PickupCenterID *uuid.UUID `json:"pickup_center_id,omitempty"`
}

// SetCheckoutDelivery switches the delivery method, speed, or pickup center.
func SetCheckoutDelivery(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParseDeliveryMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method"))
			return
		}

		in := checkoutsvc.DeliveryInput{Method: method, PickupCenterID: payload.PickupCenterID}
		if payload.Speed != "" {
			speed, err := enums.ParseDeliverySpeed(payload.Speed)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery speed"))
				return
			}
			in.Speed = speed
		}

		view, err := svc.SetDelivery(r.Context(), userID, in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,max=100"`
}

// ApplyCheckoutCoupon validates and applies a coupon code to the session.
func ApplyCheckoutCoupon(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ApplyCoupon(r.Context(), userID, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// RemoveCheckoutCoupon clears any applied coupon and reprices the session.
func RemoveCheckoutCoupon(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RemoveCoupon(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type setPaymentMethodRequest struct {
	Method string `json:"method" validate:"required,oneof=mobile_money bank credit_balance payment_on_delivery"`
}

// SetCheckoutPaymentMethod selects how the buyer intends to pay.
func SetCheckoutPaymentMethod(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setPaymentMethodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		view, err := svc.SetPaymentMethod(r.Context(), userID, method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// SubmitCheckout places the order on the orders platform and, for redirect
// payment methods, returns the payment authorization URL.
func SubmitCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		in := checkoutsvc.SubmitInput{
			AuthToken: middleware.TokenFromContext(r.Context()),
			Email:     middleware.EmailFromContext(r.Context()),
		}

		result, err := svc.Submit(r.Context(), userID, in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
