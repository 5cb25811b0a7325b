package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secyourflow/authkit/pkg/session"
	"github.com/secyourflow/authkit/pkg/sessiontrust"
)

func newManager(t *testing.T, opts ...session.Option) (*session.Manager, *sessiontrust.Keychain) {
	t.Helper()

	keychain, err := sessiontrust.NewKeychain([]byte("trust-key"))
	require.NoError(t, err)

	manager, err := session.NewManager(session.NewMemoryStore(), keychain, opts...)
	require.NoError(t, err)
	return manager, keychain
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	keychain, err := sessiontrust.NewKeychain([]byte("trust-key"))
	require.NoError(t, err)

	t.Run("missing store", func(t *testing.T) {
		t.Parallel()
		_, err := session.NewManager(nil, keychain)
		assert.ErrorIs(t, err, session.ErrNoStore)
	})

	t.Run("missing keychain", func(t *testing.T) {
		t.Parallel()
		_, err := session.NewManager(session.NewMemoryStore(), nil)
		assert.ErrorIs(t, err, session.ErrNoKeychain)
	})

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		manager, err := session.NewManager(session.NewMemoryStore(), keychain)
		require.NoError(t, err)
		assert.NotNil(t, manager)
	})
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	manager, _ := newManager(t)

	sess, err := manager.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "user-1", sess.UserID)
	assert.True(t, sess.IsAuthenticated())
	assert.False(t, sess.TwoFactorVerified())
	assert.False(t, sess.TOTPEnabled())

	loaded, err := manager.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "user-1", loaded.UserID)

	other, err := manager.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, sess.Token, other.Token)
}

func TestGetUnknownToken(t *testing.T) {
	t.Parallel()
	manager, _ := newManager(t)

	_, err := manager.Get(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestExpiredSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	manager, _ := newManager(t, session.WithTTL(10 * time.Millisecond))

	sess, err := manager.Create(ctx, "user-1")
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	_, err = manager.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrSessionExpired)
}

func TestDestroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	manager, _ := newManager(t)

	sess, err := manager.Create(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, manager.Destroy(ctx, sess.Token))

	_, err = manager.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestApplyTwoFactorUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("trusted update flips the flags", func(t *testing.T) {
		t.Parallel()
		manager, keychain := newManager(t)
		sess, err := manager.Create(ctx, "user-1")
		require.NoError(t, err)

		verifiedAt := time.Now().UnixMilli()
		updated, err := manager.ApplyTwoFactorUpdate(ctx, sess.Token, keychain.Build(sessiontrust.Update{
			TwoFactorVerified:   true,
			TwoFactorVerifiedAt: verifiedAt,
			TOTPEnabled:         true,
		}))
		require.NoError(t, err)
		assert.True(t, updated.TwoFactorVerified())
		assert.True(t, updated.TOTPEnabled())
		assert.Equal(t, time.UnixMilli(verifiedAt).UTC(), updated.TwoFactorVerifiedAt().UTC())

		// Persisted, not just returned.
		loaded, err := manager.Get(ctx, sess.Token)
		require.NoError(t, err)
		assert.True(t, loaded.TwoFactorVerified())
	})

	t.Run("untrusted update is a silent no-op", func(t *testing.T) {
		t.Parallel()
		manager, _ := newManager(t)
		sess, err := manager.Create(ctx, "user-1")
		require.NoError(t, err)

		// No Build call: the payload looks right but carries no tag.
		result, err := manager.ApplyTwoFactorUpdate(ctx, sess.Token, sessiontrust.Update{
			TwoFactorVerified:   true,
			TwoFactorVerifiedAt: time.Now().UnixMilli(),
			TOTPEnabled:         true,
		})
		require.NoError(t, err)
		assert.False(t, result.TwoFactorVerified())

		loaded, err := manager.Get(ctx, sess.Token)
		require.NoError(t, err)
		assert.False(t, loaded.TwoFactorVerified())
		assert.False(t, loaded.TOTPEnabled())
	})

	t.Run("update built by a foreign keychain is ignored", func(t *testing.T) {
		t.Parallel()
		manager, _ := newManager(t)
		foreign, err := sessiontrust.NewKeychain([]byte("some-other-key"))
		require.NoError(t, err)

		sess, err := manager.Create(ctx, "user-1")
		require.NoError(t, err)

		result, err := manager.ApplyTwoFactorUpdate(ctx, sess.Token, foreign.Build(sessiontrust.Update{
			TwoFactorVerified: true,
		}))
		require.NoError(t, err)
		assert.False(t, result.TwoFactorVerified())
	})

	t.Run("clearing update resets the flags", func(t *testing.T) {
		t.Parallel()
		manager, keychain := newManager(t)
		sess, err := manager.Create(ctx, "user-1")
		require.NoError(t, err)

		_, err = manager.ApplyTwoFactorUpdate(ctx, sess.Token, keychain.Build(sessiontrust.Update{
			TwoFactorVerified:   true,
			TwoFactorVerifiedAt: time.Now().UnixMilli(),
			TOTPEnabled:         true,
		}))
		require.NoError(t, err)

		cleared, err := manager.ApplyTwoFactorUpdate(ctx, sess.Token, keychain.Build(sessiontrust.Update{}))
		require.NoError(t, err)
		assert.False(t, cleared.TwoFactorVerified())
		assert.False(t, cleared.TOTPEnabled())
		assert.True(t, cleared.TwoFactorVerifiedAt().IsZero())
	})

	t.Run("refreshes authenticated-at when provided", func(t *testing.T) {
		t.Parallel()
		manager, keychain := newManager(t)
		sess, err := manager.Create(ctx, "user-1")
		require.NoError(t, err)

		authAt := time.Now().Add(time.Hour).UnixMilli()
		updated, err := manager.ApplyTwoFactorUpdate(ctx, sess.Token, keychain.Build(sessiontrust.Update{
			TwoFactorVerified: true,
			AuthenticatedAt:   authAt,
		}))
		require.NoError(t, err)
		assert.Equal(t, time.UnixMilli(authAt).UTC(), updated.AuthenticatedAt.UTC())
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		manager, keychain := newManager(t)

		_, err := manager.ApplyTwoFactorUpdate(ctx, "missing", keychain.Build(sessiontrust.Update{}))
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestSessionData(t *testing.T) {
	t.Parallel()

	sess := session.New("tok", "user-1", time.Hour)

	_, ok := sess.Get("absent")
	assert.False(t, ok)

	sess.Set("theme", "dark")
	val, ok := sess.Get("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", val)

	sess.Delete("theme")
	_, ok = sess.Get("theme")
	assert.False(t, ok)
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		sess := session.New("tok", "user-1", time.Hour)
		ctx := session.WithSession(context.Background(), sess)

		got, ok := session.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, sess, got)

		userID, ok := session.UserIDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		_, ok := session.FromContext(context.Background())
		assert.False(t, ok)
		_, ok = session.UserIDFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("anonymous session has no user id", func(t *testing.T) {
		t.Parallel()
		ctx := session.WithSession(context.Background(), session.New("tok", "", time.Hour))
		_, ok := session.UserIDFromContext(ctx)
		assert.False(t, ok)
	})
}
