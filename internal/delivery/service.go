package delivery

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
	"github.com/kasoahq/checkout-backend/pkg/types"
)

// Service plans deliveries: lists pickup centers and prices dispatch quotes.
type Service interface {
	PickupCenters(ctx context.Context, city enums.City) ([]models.PickupCenter, error)
	ResolvePickupCenter(ctx context.Context, id uuid.UUID, city enums.City) (*models.PickupCenter, error)
	Quote(ctx context.Context, cfg QuoteConfig) (*Quote, error)
}

type deliveryRepo interface {
	ListPickupCenters(ctx context.Context, city enums.City) ([]models.PickupCenter, error)
	FindPickupCenter(ctx context.Context, id uuid.UUID) (*models.PickupCenter, error)
	FindRate(ctx context.Context, city enums.City, speed enums.DeliverySpeed) (*models.ShippingRate, error)
}

type service struct {
	repo deliveryRepo
}

// NewService builds a delivery service backed by the provided repository.
func NewService(repo deliveryRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("delivery repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) PickupCenters(ctx context.Context, city enums.City) ([]models.PickupCenter, error) {
	if !city.IsValid() {
		return nil, errors.NewReason(errors.CodeValidation, errors.ReasonUnsupportedCity, fmt.Sprintf("unsupported city %q", city))
	}
	rows, err := s.repo.ListPickupCenters(ctx, city)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list pickup centers")
	}
	return rows, nil
}

// ResolvePickupCenter loads a center and checks it serves the buyer's city.
func (s *service) ResolvePickupCenter(ctx context.Context, id uuid.UUID, city enums.City) (*models.PickupCenter, error) {
	row, err := s.repo.FindPickupCenter(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "pickup center not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load pickup center")
	}
	if row.City != city {
		return nil, errors.NewReason(errors.CodeValidation, errors.ReasonPickupCenterRequired, "pickup center is outside the delivery city")
	}
	return row, nil
}

// Quote prices dispatch delivery for the given configuration. The returned
// quote carries the configuration key so callers can discard it if the
// configuration has moved on by the time it lands.
func (s *service) Quote(ctx context.Context, cfg QuoteConfig) (*Quote, error) {
	if !cfg.City.IsValid() {
		return nil, errors.NewReason(errors.CodeValidation, errors.ReasonUnsupportedCity, fmt.Sprintf("unsupported city %q", cfg.City))
	}
	count := cfg.ShippableCount()
	if count == 0 {
		return nil, errors.NewReason(errors.CodeValidation, errors.ReasonShippingUnresolved, "no shippable items")
	}

	rate, err := s.repo.FindRate(ctx, cfg.City, cfg.Speed)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewReason(errors.CodeDependency, errors.ReasonShippingUnresolved, "no rate configured for city and speed")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "load shipping rate")
	}

	fee := rate.BaseFee.Add(rate.PerItemFee.Mul(decimal.NewFromInt(int64(count))))
	return &Quote{
		ConfigKey: cfg.Key(),
		Fee:       types.Round2(fee),
		Estimate:  rate.DeliveryEstimate,
	}, nil
}
