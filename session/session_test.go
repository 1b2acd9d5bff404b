package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorant/keyring"
	"gorant/models"
)

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func testToken(expire int64) models.AuthToken {
	return models.AuthToken{ID: 7, Key: "k3y", ExpireTime: expire, UserID: 501}
}

func TestLogInSuccess(t *testing.T) {
	login := func(ctx context.Context, username, password string) (models.AuthToken, error) {
		assert.Equal(t, "alice", username)
		assert.Equal(t, "hunter2", password)
		return testToken(2000), nil
	}
	m := New(login, WithClock(fixedClock(1000)))

	token, err := m.LogIn(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, 7, token.ID)

	got, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, token, got)
}

func TestLogInFailureSurfacesServerMessage(t *testing.T) {
	login := func(ctx context.Context, username, password string) (models.AuthToken, error) {
		return models.AuthToken{}, models.NewAuthError("invalid username or password")
	}
	m := New(login)

	_, err := m.LogIn(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid username or password", err.Error())

	_, ok := m.Token()
	assert.False(t, ok)
}

func TestEnsureValidFastPath(t *testing.T) {
	var calls atomic.Int32
	login := func(ctx context.Context, username, password string) (models.AuthToken, error) {
		calls.Add(1)
		return testToken(2000), nil
	}
	m := New(login, WithClock(fixedClock(1000)))

	_, err := m.LogIn(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	token, err := m.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "k3y", token.Key)
	assert.Equal(t, int32(1), calls.Load(), "fast path must not re-authenticate")
}

func TestEnsureValidRefreshesExpired(t *testing.T) {
	var calls atomic.Int32
	login := func(ctx context.Context, username, password string) (models.AuthToken, error) {
		if calls.Add(1) == 1 {
			return testToken(500), nil // already expired at clock time 1000
		}
		return testToken(9000), nil
	}
	m := New(login, WithClock(fixedClock(1000)))

	_, err := m.LogIn(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	token, err := m.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9000), token.ExpireTime)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEnsureValidWithoutLogin(t *testing.T) {
	m := New(func(ctx context.Context, u, p string) (models.AuthToken, error) {
		t.Fatal("login must not be called")
		return models.AuthToken{}, nil
	})

	_, err := m.EnsureValid(context.Background())
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeAuth, appErr.Code)
}

func TestEnsureValidFailureLeavesStateUnchanged(t *testing.T) {
	var calls atomic.Int32
	login := func(ctx context.Context, username, password string) (models.AuthToken, error) {
		if calls.Add(1) == 1 {
			return testToken(500), nil
		}
		return models.AuthToken{}, models.NewAuthError("throttled")
	}
	m := New(login, WithClock(fixedClock(1000)))

	_, err := m.LogIn(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	_, err = m.EnsureValid(context.Background())
	require.Error(t, err)

	// the stale token is still there; a later attempt may retry
	got, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, int64(500), got.ExpireTime)
}

func TestConcurrentRefreshCoalesces(t *testing.T) {
	var calls atomic.Int32
	login := func(ctx context.Context, username, password string) (models.AuthToken, error) {
		n := calls.Add(1)
		if n == 1 {
			return testToken(500), nil
		}
		time.Sleep(20 * time.Millisecond) // hold the refresh open
		return testToken(9000), nil
	}
	m := New(login, WithClock(fixedClock(1000)))

	_, err := m.LogIn(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	tokens := make([]models.AuthToken, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := m.EnsureValid(context.Background())
			assert.NoError(t, err)
			tokens[i] = token
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(2), calls.Load(), "expired session must trigger exactly one refresh")
	for _, token := range tokens {
		assert.Equal(t, int64(9000), token.ExpireTime)
	}
}

func TestPersistAndReload(t *testing.T) {
	ring, err := keyring.Open(":memory:", "test-seal-key")
	require.NoError(t, err)
	defer ring.Close()

	var calls atomic.Int32
	login := func(ctx context.Context, username, password string) (models.AuthToken, error) {
		calls.Add(1)
		return testToken(2000), nil
	}

	first := New(login, WithKeyring(ring), WithClock(fixedClock(1000)))
	_, err = first.LogIn(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	// a fresh manager over the same keyring picks the token up without a
	// network exchange
	second := New(login, WithKeyring(ring), WithClock(fixedClock(1000)))
	token, err := second.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "k3y", token.Key)
	assert.Equal(t, int32(1), calls.Load())
}

func TestReloadedCredentialsRefreshExpiredToken(t *testing.T) {
	ring, err := keyring.Open(":memory:", "test-seal-key")
	require.NoError(t, err)
	defer ring.Close()

	var calls atomic.Int32
	login := func(ctx context.Context, username, password string) (models.AuthToken, error) {
		calls.Add(1)
		assert.Equal(t, "alice", username)
		return testToken(2000), nil
	}

	first := New(login, WithKeyring(ring), WithClock(fixedClock(1000)))
	_, err = first.LogIn(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	// much later, the persisted token has expired; the stored login pair
	// drives the refresh
	second := New(login, WithKeyring(ring), WithClock(fixedClock(5000)))
	token, err := second.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2000), token.ExpireTime)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLogInFailureClearsPersisted(t *testing.T) {
	ring, err := keyring.Open(":memory:", "test-seal-key")
	require.NoError(t, err)
	defer ring.Close()

	ok := func(ctx context.Context, u, p string) (models.AuthToken, error) {
		return testToken(2000), nil
	}
	m := New(ok, WithKeyring(ring), WithClock(fixedClock(1000)))
	_, err = m.LogIn(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	bad := New(func(ctx context.Context, u, p string) (models.AuthToken, error) {
		return models.AuthToken{}, models.NewAuthError("invalid username or password")
	}, WithKeyring(ring), WithClock(fixedClock(1000)))
	_, err = bad.LogIn(context.Background(), "alice", "wrong")
	require.Error(t, err)

	_, found, err := ring.Get(keyring.Service, keyring.AccountToken)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLogOut(t *testing.T) {
	ring, err := keyring.Open(":memory:", "test-seal-key")
	require.NoError(t, err)
	defer ring.Close()

	login := func(ctx context.Context, u, p string) (models.AuthToken, error) {
		return testToken(2000), nil
	}
	m := New(login, WithKeyring(ring), WithClock(fixedClock(1000)))
	_, err = m.LogIn(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	m.LogOut()

	_, ok := m.Token()
	assert.False(t, ok)
	_, found, err := ring.Get(keyring.Service, keyring.AccountCredentials)
	require.NoError(t, err)
	assert.False(t, found)
}
