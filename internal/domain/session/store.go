// internal/domain/session/store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/course-registration/internal/metrics"
)

// Slots of per-session state.
const (
	SlotCart  = "cart"
	SlotOrder = "orderData"
)

// Backend is the key-value storage behind the session store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Store is the explicit handle to session-scoped state. Every operation is
// best effort: failures are logged and read as absent, never returned.
//
// Callers load, mutate and save the full value each time. Two tabs sharing a
// session can race on that cycle; the last save wins.
type Store struct {
	backend Backend
	ttl     time.Duration
	lockTTL time.Duration
	logger  *logrus.Logger
}

// NewStore creates a session store. ttl bounds the lifetime of session data.
func NewStore(backend Backend, ttl, lockTTL time.Duration, logger *logrus.Logger) *Store {
	return &Store{
		backend: backend,
		ttl:     ttl,
		lockTTL: lockTTL,
		logger:  logger,
	}
}

// TTL returns the session lifetime
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Load decodes a slot into dest. It reports false when the slot is absent or unreadable.
func (s *Store) Load(ctx context.Context, sessionID, slot string, dest interface{}) bool {
	data, found, err := s.backend.Get(ctx, key(sessionID, slot))
	if err != nil {
		s.fail("load", sessionID, slot, err)
		return false
	}
	if !found {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.fail("decode", sessionID, slot, err)
		return false
	}
	return true
}

// Save replaces a slot with value.
func (s *Store) Save(ctx context.Context, sessionID, slot string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.fail("encode", sessionID, slot, err)
		return
	}

	if err := s.backend.Set(ctx, key(sessionID, slot), data, s.ttl); err != nil {
		s.fail("save", sessionID, slot, err)
	}
}

// Delete removes one slot.
func (s *Store) Delete(ctx context.Context, sessionID, slot string) {
	if err := s.backend.Del(ctx, key(sessionID, slot)); err != nil {
		s.fail("delete", sessionID, slot, err)
	}
}

// Clear removes the cart and the order data of a session.
func (s *Store) Clear(ctx context.Context, sessionID string) {
	if err := s.backend.Del(ctx, key(sessionID, SlotCart), key(sessionID, SlotOrder)); err != nil {
		s.fail("clear", sessionID, "*", err)
	}
}

// Acquire marks action as in flight for the session. It returns false when the
// action is already running. Storage failures fail open so a broken backend
// does not block checkout.
func (s *Store) Acquire(ctx context.Context, sessionID, action string) (release func(), ok bool) {
	lockKey := key(sessionID, "inflight:"+action)

	acquired, err := s.backend.SetNX(ctx, lockKey, []byte("1"), s.lockTTL)
	if err != nil {
		s.fail("acquire", sessionID, action, err)
		return func() {}, true
	}
	if !acquired {
		return func() {}, false
	}

	return func() {
		// the request context may already be cancelled
		if err := s.backend.Del(context.Background(), lockKey); err != nil {
			s.fail("release", sessionID, action, err)
		}
	}, true
}

func (s *Store) fail(op, sessionID, slot string, err error) {
	metrics.SessionStoreFailures.WithLabelValues(op).Inc()
	s.logger.WithFields(logrus.Fields{
		"operation":  op,
		"session_id": sessionID,
		"slot":       slot,
		"error":      err.Error(),
	}).Warn("Session storage failed, continuing with empty state")
}

func key(sessionID, slot string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, slot)
}
