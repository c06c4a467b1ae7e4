package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const sessionPrefix = "session:"

// Session is a nakes web login.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore keeps sessions in the KV under session:{user_id}:{id} so a
// user's sessions can be dropped together.
type SessionStore struct {
	kv  KV
	ttl time.Duration
	now func() time.Time
}

func NewSessionStore(kv KV, ttl time.Duration) *SessionStore {
	return &SessionStore{kv: kv, ttl: ttl, now: time.Now}
}

func sessionKey(userID int64, id string) string {
	return fmt.Sprintf("%s%d:%s", sessionPrefix, userID, id)
}

// Create starts a session for userID. The returned id is what the cookie carries.
func (s *SessionStore) Create(ctx context.Context, userID int64) (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:        fmt.Sprintf("%d.%s", userID, uuid.NewString()),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey(userID, sess.ID), string(raw), s.ttl); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// Get loads a session by cookie value. Unknown or expired ids return nil, nil.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	userID, ok := sessionOwner(id)
	if !ok {
		return nil, nil
	}
	raw, err := s.kv.Get(ctx, sessionKey(userID, id))
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Destroy removes one session. Unknown ids are ignored.
func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	userID, ok := sessionOwner(id)
	if !ok {
		return nil
	}
	return s.kv.Del(ctx, sessionKey(userID, id))
}

// DestroyUser removes every session of userID.
func (s *SessionStore) DestroyUser(ctx context.Context, userID int64) error {
	keys, err := s.kv.ScanKeys(ctx, fmt.Sprintf("%s%d:*", sessionPrefix, userID))
	if err != nil {
		return fmt.Errorf("failed to scan sessions: %w", err)
	}
	return s.kv.Del(ctx, keys...)
}

// sessionOwner extracts the user id prefix of a session id.
func sessionOwner(id string) (int64, bool) {
	var userID int64
	var rest string
	if n, err := fmt.Sscanf(id, "%d.%s", &userID, &rest); err != nil || n != 2 || userID <= 0 {
		return 0, false
	}
	return userID, true
}
