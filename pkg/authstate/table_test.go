package authstate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/authstate"
)

var allStates = []authstate.State{
	authstate.StateInitializing,
	authstate.StateUnauthenticated,
	authstate.StateAuthenticated,
	authstate.StateRefreshing,
	authstate.StateExpired,
	authstate.StateOffline,
	authstate.StateError,
}

var allEvents = []authstate.Event{
	authstate.EventInitialize,
	authstate.EventLoginSuccess,
	authstate.EventRefreshToken,
	authstate.EventTokenExpired,
	authstate.EventNetworkError,
	authstate.EventLogout,
	authstate.EventClearError,
	authstate.EventMemoryPressure,
	authstate.EventStorageError,
}

// driveTo walks a fresh machine into the requested state through legal
// transitions only.
func driveTo(t *testing.T, m *authstate.Machine, target authstate.State) {
	t.Helper()

	ctx := context.Background()
	tokens := testTokens()
	user := testUser()

	switch target {
	case authstate.StateInitializing:
		// Fresh machines already start here.
	case authstate.StateUnauthenticated:
		_, err := m.Initialize(ctx, nil, nil)
		require.NoError(t, err)
	case authstate.StateAuthenticated:
		_, err := m.Initialize(ctx, &tokens, &user)
		require.NoError(t, err)
	case authstate.StateRefreshing:
		_, err := m.Initialize(ctx, &tokens, &user)
		require.NoError(t, err)
		_, err = m.RefreshToken(ctx, nil)
		require.NoError(t, err)
	case authstate.StateExpired:
		_, err := m.Initialize(ctx, &tokens, &user)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			_, _ = m.TokenExpired(ctx, errors.New("refresh failed"))
		}
	case authstate.StateOffline:
		_, err := m.Initialize(ctx, &tokens, &user)
		require.NoError(t, err)
		require.NoError(t, m.NetworkError(ctx, errors.New("down")))
	case authstate.StateError:
		require.NoError(t, m.StorageError(ctx, errors.New("disk failure")))
	}

	require.Equal(t, target, m.CurrentState())
}

// fire submits the event through the public method it belongs to.
func fire(ctx context.Context, m *authstate.Machine, event authstate.Event) error {
	switch event {
	case authstate.EventInitialize:
		_, err := m.Initialize(ctx, nil, nil)
		return err
	case authstate.EventLoginSuccess:
		_, err := m.LoginSuccess(ctx, testTokens(), testUser())
		return err
	case authstate.EventRefreshToken:
		_, err := m.RefreshToken(ctx, nil)
		return err
	case authstate.EventTokenExpired:
		_, err := m.TokenExpired(ctx, errors.New("expired"))
		return err
	case authstate.EventNetworkError:
		return m.NetworkError(ctx, errors.New("network down"))
	case authstate.EventLogout:
		return m.Logout(ctx)
	case authstate.EventClearError:
		_, err := m.ClearError(ctx, nil, nil)
		return err
	case authstate.EventMemoryPressure:
		return m.MemoryPressure(ctx)
	case authstate.EventStorageError:
		return m.StorageError(ctx, errors.New("storage down"))
	default:
		return nil
	}
}

// Every (state, event) pair absent from the transition table must be
// refused without touching state, context or subscribers.
func TestTable_IllegalPairsAreRefused(t *testing.T) {
	ctx := context.Background()

	for _, state := range allStates {
		for _, event := range allEvents {
			if len(authstate.AllowedTargets(state, event)) > 0 {
				continue
			}

			t.Run(string(state)+"/"+string(event), func(t *testing.T) {
				m := newMachine(t)
				driveTo(t, m, state)

				before := m.Context()
				var notified int
				unsubscribe := m.Subscribe(func(authstate.StateChange) { notified++ })
				defer unsubscribe()

				err := fire(ctx, m, event)
				assert.ErrorIs(t, err, authstate.ErrInvalidTransition)
				assert.Equal(t, state, m.CurrentState())
				assert.Equal(t, before, m.Context())
				assert.Zero(t, notified)
			})
		}
	}
}

func TestTable_CanTransition(t *testing.T) {
	t.Parallel()

	assert.True(t, authstate.CanTransition(authstate.StateInitializing, authstate.EventInitialize, authstate.StateAuthenticated))
	assert.True(t, authstate.CanTransition(authstate.StateInitializing, authstate.EventInitialize, authstate.StateUnauthenticated))
	assert.True(t, authstate.CanTransition(authstate.StateInitializing, authstate.EventInitialize, authstate.StateError))
	assert.True(t, authstate.CanTransition(authstate.StateAuthenticated, authstate.EventTokenExpired, authstate.StateRefreshing))
	assert.True(t, authstate.CanTransition(authstate.StateAuthenticated, authstate.EventTokenExpired, authstate.StateExpired))
	assert.True(t, authstate.CanTransition(authstate.StateOffline, authstate.EventClearError, authstate.StateAuthenticated))

	assert.False(t, authstate.CanTransition(authstate.StateAuthenticated, authstate.EventInitialize, authstate.StateAuthenticated))
	assert.False(t, authstate.CanTransition(authstate.StateUnauthenticated, authstate.EventClearError, authstate.StateUnauthenticated))
	assert.False(t, authstate.CanTransition(authstate.StateRefreshing, authstate.EventLogout, authstate.StateUnauthenticated))
	assert.False(t, authstate.CanTransition(authstate.StateError, authstate.EventClearError, authstate.StateAuthenticated))
	assert.False(t, authstate.CanTransition("bogus", authstate.EventLogout, authstate.StateUnauthenticated))
}

func TestTable_AllowedTargetsIsACopy(t *testing.T) {
	t.Parallel()

	targets := authstate.AllowedTargets(authstate.StateInitializing, authstate.EventInitialize)
	require.NotEmpty(t, targets)
	targets[0] = "mutated"

	fresh := authstate.AllowedTargets(authstate.StateInitializing, authstate.EventInitialize)
	assert.Equal(t, authstate.StateAuthenticated, fresh[0])
}
