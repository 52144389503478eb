package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionRoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	sessions := NewSessionManager(client, "inventario_session", time.Hour, false)
	ctx := context.Background()

	sess, err := sessions.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.True(t, sess.IsNew())
	sess.Set("lang", "es")

	rr := httptest.NewRecorder()
	require.NoError(t, sessions.Commit(ctx, rr, sess))
	require.True(t, mr.Exists("inventario:session:"+sess.ID))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "inventario_session", cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	loaded, err := sessions.Load(ctx, req)
	require.NoError(t, err)
	require.False(t, loaded.IsNew())
	require.Equal(t, sess.ID, loaded.ID)
	require.Equal(t, "es", loaded.Get("lang"))
}

func TestSessionCommitSlidesExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	sessions := NewSessionManager(client, "inventario_session", time.Hour, false)
	ctx := context.Background()

	sess, err := sessions.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set(CSRFSessionKey, "token")
	rr := httptest.NewRecorder()
	require.NoError(t, sessions.Commit(ctx, rr, sess))

	key := "inventario:session:" + sess.ID
	mr.SetTTL(key, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rr.Result().Cookies()[0])
	loaded, err := sessions.Load(ctx, req)
	require.NoError(t, err)
	loaded.Set(CSRFSessionKey, "token")
	require.NoError(t, sessions.Commit(ctx, httptest.NewRecorder(), loaded))
	require.Equal(t, time.Hour, mr.TTL(key))
	require.Equal(t, "token", mr.HGet(key, CSRFSessionKey))
}

func TestEmptySessionIsNotStored(t *testing.T) {
	mr, client := newTestRedis(t)
	sessions := NewSessionManager(client, "inventario_session", time.Hour, false)

	sess, err := sessions.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	require.NoError(t, sessions.Commit(context.Background(), rr, sess))
	require.Empty(t, rr.Result().Cookies())
	require.Empty(t, mr.Keys())
}

func TestSessionIgnoresForeignCookie(t *testing.T) {
	_, client := newTestRedis(t)
	sessions := NewSessionManager(client, "inventario_session", time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "inventario_session", Value: "../../etc"})
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	require.True(t, sess.IsNew())
	require.NotEqual(t, "../../etc", sess.ID)
}

func TestCSRFTokenLifecycle(t *testing.T) {
	_, client := newTestRedis(t)
	sessions := NewSessionManager(client, "s", time.Hour, false)
	csrf := NewCSRFManager("csrfsecret")

	sess, err := sessions.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	token, err := csrf.EnsureToken(sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	again, err := csrf.EnsureToken(sess)
	require.NoError(t, err)
	require.Equal(t, token, again)

	require.NoError(t, csrf.VerifyToken(sess, token))
	require.ErrorIs(t, csrf.VerifyToken(sess, ""), ErrCSRFTokenMissing)
	require.ErrorIs(t, csrf.VerifyToken(sess, token+"x"), ErrCSRFTokenMismatch)
	require.ErrorIs(t, csrf.VerifyToken(nil, token), ErrSessionMissing)

	_, err = csrf.EnsureToken(nil)
	require.ErrorIs(t, err, ErrSessionMissing)
}

func TestRedisSequencerIssuesIncreasingTokens(t *testing.T) {
	mr, client := newTestRedis(t)
	seq := NewRedisSequencer(client, time.Hour)
	ctx := context.Background()

	current, err := seq.Current(ctx, "s1:seed-get")
	require.NoError(t, err)
	require.Zero(t, current)

	first, err := seq.Next(ctx, "s1:seed-get")
	require.NoError(t, err)
	second, err := seq.Next(ctx, "s1:seed-get")
	require.NoError(t, err)
	require.EqualValues(t, 1, first)
	require.EqualValues(t, 2, second)

	current, err = seq.Current(ctx, "s1:seed-get")
	require.NoError(t, err)
	require.EqualValues(t, 2, current)

	other, err := seq.Next(ctx, "s2:seed-get")
	require.NoError(t, err)
	require.EqualValues(t, 1, other)

	require.Equal(t, time.Hour, mr.TTL("inventario:token:s1:seed-get"))
}

func TestRedisSequencerConcurrentNext(t *testing.T) {
	_, client := newTestRedis(t)
	seq := NewRedisSequencer(client, 0)
	ctx := context.Background()

	const workers = 20
	seen := make(chan uint64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := seq.Next(ctx, "scope")
			if err == nil {
				seen <- token
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]bool)
	for token := range seen {
		unique[token] = true
	}
	require.Len(t, unique, workers)

	current, err := seq.Current(ctx, "scope")
	require.NoError(t, err)
	require.EqualValues(t, workers, current)
}

func TestRedisSequencerReportsConnectionErrors(t *testing.T) {
	mr, client := newTestRedis(t)
	seq := NewRedisSequencer(client, 0)
	mr.Close()

	_, err := seq.Next(context.Background(), "scope")
	require.Error(t, err)
	require.Contains(t, err.Error(), "shared: next token")
}

func TestSessionScope(t *testing.T) {
	require.Empty(t, SessionScope(context.Background()))
	ctx := ContextWithSession(context.Background(), &Session{ID: "abc"})
	require.Equal(t, "abc", SessionScope(ctx))
}

func TestCSRFTokenIsBoundToSession(t *testing.T) {
	csrf := NewCSRFManager("csrfsecret")
	owner := &Session{ID: "owner"}
	token, err := csrf.EnsureToken(owner)
	require.NoError(t, err)

	thief := &Session{ID: "thief"}
	thief.Set(CSRFSessionKey, token)
	require.ErrorIs(t, csrf.VerifyToken(thief, token), ErrCSRFTokenMismatch)

	fresh, err := csrf.EnsureToken(thief)
	require.NoError(t, err)
	require.NotEqual(t, token, fresh)

	rotated := NewCSRFManager("rotated")
	require.ErrorIs(t, rotated.VerifyToken(owner, token), ErrCSRFTokenMismatch)
}
