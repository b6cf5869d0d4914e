package checkout

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kasoahq/checkout-backend/pkg/errors"
	redisclient "github.com/kasoahq/checkout-backend/pkg/redis"
)

type sessionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SessionKey(userID string) string
}

// Store persists checkout sessions in Redis with a sliding TTL. An expired
// or absent session simply means the buyer starts over from Idle.
type Store struct {
	cache sessionCache
	ttl   time.Duration
}

// NewStore builds a session store over the provided cache.
func NewStore(cache sessionCache, ttl time.Duration) (*Store, error) {
	if cache == nil {
		return nil, fmt.Errorf("session cache required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Store{cache: cache, ttl: ttl}, nil
}

// Load returns the user's session, or a fresh Idle session when none exists.
func (s *Store) Load(ctx context.Context, userID uuid.UUID) (*Session, error) {
	raw, err := s.cache.Get(ctx, s.cache.SessionKey(userID.String()))
	if err != nil {
		if isCacheMiss(err) {
			return NewSession(userID), nil
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "load checkout session")
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		// A corrupt session is unrecoverable state, not an outage. Start over.
		return NewSession(userID), nil
	}
	return &session, nil
}

// Save writes the session back, refreshing the TTL.
func (s *Store) Save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encode checkout session")
	}
	if err := s.cache.Set(ctx, s.cache.SessionKey(session.UserID.String()), payload, s.ttl); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "save checkout session")
	}
	return nil
}

// Delete removes the session, e.g. after a confirmed order.
func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.cache.Del(ctx, s.cache.SessionKey(userID.String())); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "delete checkout session")
	}
	return nil
}

func isCacheMiss(err error) bool {
	return stdErrors.Is(err, redisclient.ErrNotFound)
}
