package address

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kasoahq/checkout-backend/pkg/db/models"
	"github.com/kasoahq/checkout-backend/pkg/enums"
	"github.com/kasoahq/checkout-backend/pkg/errors"
)

type stubRepo struct {
	rows      map[uuid.UUID]*models.Address
	userID    uuid.UUID
	failCount bool
}

func newStubRepo(userID uuid.UUID) *stubRepo {
	return &stubRepo{rows: map[uuid.UUID]*models.Address{}, userID: userID}
}

func (s *stubRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *stubRepo) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*models.Address, error) {
	row, ok := s.rows[id]
	if !ok || row.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *stubRepo) Create(_ context.Context, row *models.Address) (*models.Address, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	s.rows[row.ID] = row
	return row, nil
}

func (s *stubRepo) Save(_ context.Context, row *models.Address) (*models.Address, error) {
	s.rows[row.ID] = row
	return row, nil
}

func (s *stubRepo) Delete(_ context.Context, id, _ uuid.UUID) error {
	delete(s.rows, id)
	return nil
}

func (s *stubRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range s.rows {
		if row.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) SetDefault(_ context.Context, id, userID uuid.UUID) error {
	row, ok := s.rows[id]
	if !ok || row.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	for _, other := range s.rows {
		other.IsDefault = other.ID == id
	}
	return nil
}

func TestCreateFirstAddressBecomesDefault(t *testing.T) {
	userID := uuid.New()
	repo := newStubRepo(userID)
	svc, err := NewService(repo)
	require.NoError(t, err)

	first, err := svc.Create(context.Background(), userID, validInput())
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Create(context.Background(), userID, validInput())
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestCreateRejectsInvalidInputWithFieldMap(t *testing.T) {
	userID := uuid.New()
	svc, err := NewService(newStubRepo(userID))
	require.NoError(t, err)

	in := validInput()
	in.ContactPhone = "0301234567"

	_, err = svc.Create(context.Background(), userID, in)
	require.Error(t, err)

	typed := errors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, errors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	fields, ok := details["fields"].(errors.FieldErrors)
	require.True(t, ok)
	assert.Equal(t, errors.ReasonInvalidPhone, fields["contact_phone"])
}

func TestPreferredFallsBackToFirstWhenNoDefault(t *testing.T) {
	userID := uuid.New()
	repo := newStubRepo(userID)
	svc, err := NewService(repo)
	require.NoError(t, err)

	none, err := svc.Preferred(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, none)

	id := uuid.New()
	repo.rows[id] = &models.Address{ID: id, UserID: userID, City: enums.CityTema}

	got, err := svc.Preferred(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
}

func TestResolveExistingModeRequiresSelection(t *testing.T) {
	userID := uuid.New()
	svc, err := NewService(newStubRepo(userID))
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), userID, Selection{Mode: enums.AddressModeExisting})
	require.Error(t, err)

	reason, ok := errors.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ReasonNoAddressSelected, reason)
}

func TestResolveExistingModeScopedToOwner(t *testing.T) {
	userID := uuid.New()
	repo := newStubRepo(userID)
	svc, err := NewService(repo)
	require.NoError(t, err)

	otherID := uuid.New()
	repo.rows[otherID] = &models.Address{ID: otherID, UserID: uuid.New()}

	_, err = svc.Resolve(context.Background(), userID, Selection{
		Mode:      enums.AddressModeExisting,
		AddressID: otherID,
	})
	require.Error(t, err)

	typed := errors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, errors.CodeNotFound, typed.Code())
}

func TestResolveNewModePersistsAddress(t *testing.T) {
	userID := uuid.New()
	repo := newStubRepo(userID)
	svc, err := NewService(repo)
	require.NoError(t, err)

	in := validInput()
	resolved, err := svc.Resolve(context.Background(), userID, Selection{
		Mode: enums.AddressModeNew,
		New:  &in,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resolved.ID)
	assert.Len(t, repo.rows, 1)
}
