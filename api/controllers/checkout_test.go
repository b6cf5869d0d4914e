package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasoahq/checkout-backend/api/middleware"
	"github.com/kasoahq/checkout-backend/internal/address"
	checkoutsvc "github.com/kasoahq/checkout-backend/internal/checkout"
	"github.com/kasoahq/checkout-backend/pkg/enums"
)

type recordingCheckout struct {
	lastDelivery checkoutsvc.DeliveryInput
	lastCode     string
	lastSubmit   checkoutsvc.SubmitInput
}

func (s *recordingCheckout) View(ctx context.Context, userID uuid.UUID) (*checkoutsvc.View, error) {
	return &checkoutsvc.View{Session: checkoutsvc.NewSession(userID)}, nil
}

func (s *recordingCheckout) SetAddress(ctx context.Context, userID uuid.UUID, sel address.Selection) (*checkoutsvc.View, error) {
	return &checkoutsvc.View{Session: checkoutsvc.NewSession(userID)}, nil
}

func (s *recordingCheckout) SetDelivery(ctx context.Context, userID uuid.UUID, in checkoutsvc.DeliveryInput) (*checkoutsvc.View, error) {
	s.lastDelivery = in
	return &checkoutsvc.View{Session: checkoutsvc.NewSession(userID)}, nil
}

func (s *recordingCheckout) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*checkoutsvc.View, error) {
	s.lastCode = code
	return &checkoutsvc.View{Session: checkoutsvc.NewSession(userID)}, nil
}

func (s *recordingCheckout) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*checkoutsvc.View, error) {
	return &checkoutsvc.View{Session: checkoutsvc.NewSession(userID)}, nil
}

func (s *recordingCheckout) SetPaymentMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*checkoutsvc.View, error) {
	return &checkoutsvc.View{Session: checkoutsvc.NewSession(userID)}, nil
}

func (s *recordingCheckout) Submit(ctx context.Context, userID uuid.UUID, in checkoutsvc.SubmitInput) (*checkoutsvc.SubmitResult, error) {
	s.lastSubmit = in
	return &checkoutsvc.SubmitResult{State: enums.CheckoutStateConfirmed}, nil
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithEmail(ctx, "ama@example.com")
	ctx = middleware.WithToken(ctx, "raw-token")
	return req.WithContext(ctx)
}

func TestSetCheckoutDeliveryRejectsUnknownMethod(t *testing.T) {
	svc := &recordingCheckout{}
	handler := SetCheckoutDelivery(svc, nil)

	req := authedRequest(http.MethodPut, "/api/v1/checkout/delivery", `{"method":"drone"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetCheckoutDeliveryParsesPayload(t *testing.T) {
	svc := &recordingCheckout{}
	handler := SetCheckoutDelivery(svc, nil)

	req := authedRequest(http.MethodPut, "/api/v1/checkout/delivery", `{"method":"dispatch","speed":"same_day"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, enums.DeliveryMethodDispatch, svc.lastDelivery.Method)
	assert.Equal(t, enums.DeliverySpeedSameDay, svc.lastDelivery.Speed)
}

func TestApplyCheckoutCouponRequiresCode(t *testing.T) {
	svc := &recordingCheckout{}
	handler := ApplyCheckoutCoupon(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/checkout/coupon", `{}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.lastCode)
}

func TestSubmitCheckoutForwardsCredentials(t *testing.T) {
	svc := &recordingCheckout{}
	handler := SubmitCheckout(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/checkout/submit", "")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "raw-token", svc.lastSubmit.AuthToken)
	assert.Equal(t, "ama@example.com", svc.lastSubmit.Email)
}

func TestControllersRejectMissingUserContext(t *testing.T) {
	svc := &recordingCheckout{}
	handler := GetCheckout(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
