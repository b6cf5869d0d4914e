package wallet

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/errors"
)

// Service exposes the buyer's store-credit balance.
type Service interface {
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error
}

type walletRepo interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.WalletAccount, error)
	DebitIfSufficient(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error
}

type service struct {
	repo walletRepo
}

// NewService builds a wallet service backed by the provided repository.
func NewService(repo walletRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	return &service{repo: repo}, nil
}

// Balance returns the current store-credit balance. A user without a wallet
// row simply has a zero balance.
func (s *service) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	row, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, errors.Wrap(errors.CodeInternal, err, "load wallet")
	}
	return row.Balance, nil
}

// Debit withdraws amount from the wallet, failing with InsufficientBalance
// when the balance cannot cover it.
func (s *service) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	err := s.repo.DebitIfSufficient(ctx, userID, amount)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NewReason(errors.CodeValidation, errors.ReasonInsufficientBalance, "wallet balance too low")
		}
		return errors.Wrap(errors.CodeInternal, err, "debit wallet")
	}
	return nil
}
