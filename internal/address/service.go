package address

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
)

// Selection identifies the delivery address a checkout should use: either a
// saved address by id or a new form to validate and save.
type Selection struct {
	Mode      enums.AddressMode `json:"mode"`
	AddressID uuid.UUID         `json:"address_id"`
	New       *Input            `json:"new_address"`
}

// Service exposes address book operations plus checkout address resolution.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, userID uuid.UUID, in Input) (*models.Address, error)
	Update(ctx context.Context, userID, id uuid.UUID, in Input) (*models.Address, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
	Preferred(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	Resolve(ctx context.Context, userID uuid.UUID, sel Selection) (*models.Address, error)
}

type addressRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, row *models.Address) (*models.Address, error)
	Save(ctx context.Context, row *models.Address) (*models.Address, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	SetDefault(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	repo addressRepo
}

// NewService builds an address service backed by the provided repository.
func NewService(repo addressRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	row, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "address not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load address")
	}
	return row, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, in Input) (*models.Address, error) {
	normalized, fields := in.Validate()
	if len(fields) > 0 {
		return nil, errors.NewFieldErrors("address validation failed", fields)
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "count addresses")
	}

	row := normalized.toModel(userID)
	// The first saved address becomes the default automatically.
	row.IsDefault = count == 0

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "create address")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, in Input) (*models.Address, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	normalized, fields := in.Validate()
	if len(fields) > 0 {
		return nil, errors.NewFieldErrors("address validation failed", fields)
	}

	updated := normalized.toModel(userID)
	updated.ID = existing.ID
	updated.IsDefault = existing.IsDefault
	updated.CreatedAt = existing.CreatedAt

	saved, err := s.repo.Save(ctx, updated)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "update address")
	}
	return saved, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "delete address")
	}
	return nil
}

func (s *service) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.SetDefault(ctx, id, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New(errors.CodeNotFound, "address not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "set default address")
	}
	return nil
}

// Preferred returns the address checkout should preselect: the default when
// one exists, otherwise the first saved address, otherwise nil.
func (s *service) Preferred(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list addresses")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	for i := range rows {
		if rows[i].IsDefault {
			return &rows[i], nil
		}
	}
	return &rows[0], nil
}

// Resolve turns an address selection into a concrete saved address. New-mode
// selections are validated and persisted so the buyer can reuse them later.
func (s *service) Resolve(ctx context.Context, userID uuid.UUID, sel Selection) (*models.Address, error) {
	switch sel.Mode {
	case enums.AddressModeExisting:
		if sel.AddressID == uuid.Nil {
			return nil, errors.NewReason(errors.CodeValidation, errors.ReasonNoAddressSelected, "no address selected")
		}
		return s.Get(ctx, userID, sel.AddressID)
	case enums.AddressModeNew:
		if sel.New == nil {
			return nil, errors.NewReason(errors.CodeValidation, errors.ReasonNoAddressSelected, "new address form missing")
		}
		return s.Create(ctx, userID, *sel.New)
	default:
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("unknown address mode %q", sel.Mode))
	}
}

func (n *Normalized) toModel(userID uuid.UUID) *models.Address {
	return &models.Address{
		UserID:         userID,
		FullName:       n.FullName,
		StreetAddress:  n.StreetAddress,
		Area:           n.Area,
		Landmark:       n.Landmark,
		City:           n.City,
		Region:         n.Region,
		ContactPhone:   n.ContactPhone,
		DigitalAddress: n.DigitalAddress,
	}
}
