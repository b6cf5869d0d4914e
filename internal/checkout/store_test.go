package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasoahq/checkout-backend/pkg/enums"
	redisclient "github.com/kasoahq/checkout-backend/pkg/redis"
)

type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redisclient.ErrNotFound
	}
	return value, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	return nil
}

func (m *memoryCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryCache) SessionKey(userID string) string {
	return "kasoa:checkout:session:" + userID
}

func TestStoreLoadMissReturnsFreshSession(t *testing.T) {
	store, err := NewStore(newMemoryCache(), time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	session, err := store.Load(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, enums.CheckoutStateIdle, session.State)
	assert.Equal(t, enums.DeliveryMethodDispatch, session.Delivery.Method)
	assert.Equal(t, enums.DeliverySpeedStandard, session.Delivery.Speed)
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(newMemoryCache(), time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	session := NewSession(userID)
	session.State = enums.CheckoutStateBlocked
	session.PaymentMethod = enums.PaymentMethodMobileMoney
	addressID := uuid.New()
	session.AddressID = &addressID

	require.NoError(t, store.Save(context.Background(), session))

	loaded, err := store.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateBlocked, loaded.State)
	assert.Equal(t, enums.PaymentMethodMobileMoney, loaded.PaymentMethod)
	require.NotNil(t, loaded.AddressID)
	assert.Equal(t, addressID, *loaded.AddressID)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestStoreCorruptSessionStartsOver(t *testing.T) {
	cache := newMemoryCache()
	store, err := NewStore(cache, time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	cache.values[cache.SessionKey(userID.String())] = "{not json"

	session, err := store.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateIdle, session.State)
}

func TestStoreDelete(t *testing.T) {
	cache := newMemoryCache()
	store, err := NewStore(cache, time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, store.Save(context.Background(), NewSession(userID)))
	require.NoError(t, store.Delete(context.Background(), userID))
	assert.Empty(t, cache.values)
}
