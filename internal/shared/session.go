package shared

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "inventario:session:"

// SessionManager keeps console sessions as Redis hashes named by an HTTP cookie.
// Every committed response slides the expiry forward.
type SessionManager struct {
	client     redis.Cmdable
	cookieName string
	ttl        time.Duration
	secure     bool
}

// Session holds the values of one console visitor.
type Session struct {
	ID      string
	values  map[string]string
	stored  bool
	changed bool
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client redis.Cmdable, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{client: client, cookieName: cookieName, ttl: ttl, secure: secure}
}

// Load returns the session named by the request cookie. A missing, malformed
// or expired cookie yields a fresh session with a new id.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		return newSession(), nil
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return newSession(), nil
	}

	values, err := sm.client.HGetAll(ctx, sessionKeyPrefix+id.String()).Result()
	if err != nil {
		return nil, fmt.Errorf("shared: load session: %w", err)
	}
	if len(values) == 0 {
		return newSession(), nil
	}
	return &Session{ID: id.String(), values: values, stored: true}, nil
}

// Commit writes a changed session, refreshes the expiry of an unchanged one
// and sets the cookie.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}
	key := sessionKeyPrefix + sess.ID
	switch {
	case sess.changed:
		pipe := sm.client.TxPipeline()
		pipe.Del(ctx, key)
		if len(sess.values) > 0 {
			fields := make([]any, 0, 2*len(sess.values))
			for field, value := range sess.values {
				fields = append(fields, field, value)
			}
			pipe.HSet(ctx, key, fields...)
			pipe.Expire(ctx, key, sm.ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("shared: store session: %w", err)
		}
		sess.stored = len(sess.values) > 0
		sess.changed = false
	case sess.stored:
		if err := sm.client.Expire(ctx, key, sm.ttl).Err(); err != nil {
			return fmt.Errorf("shared: refresh session: %w", err)
		}
	default:
		// Nothing worth keeping yet.
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(sm.ttl.Seconds()),
	})
	return nil
}

// Set stores a value; setting the current value is a no-op.
func (s *Session) Set(key, value string) {
	if current, ok := s.values[key]; ok && current == value {
		return
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.changed = true
}

// Get retrieves a value, empty when unset.
func (s *Session) Get(key string) string {
	return s.values[key]
}

// IsNew reports a session that is not stored in Redis yet.
func (s *Session) IsNew() bool {
	return !s.stored
}

func newSession() *Session {
	return &Session{ID: uuid.NewString(), values: make(map[string]string)}
}
