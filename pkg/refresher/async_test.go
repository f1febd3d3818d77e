package refresher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/authstate"
	"github.com/dmitrymomot/authkit/pkg/refresher"
)

func TestRunner_RunAsync(t *testing.T) {
	ctx := context.Background()
	fresh := authstate.Tokens{
		AccessToken: "new-access",
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	t.Run("resolves with the refreshed context", func(t *testing.T) {
		m := signedInMachine(t)

		var calls int
		runner := refresher.NewRunner(m, flakyRefresher(0, fresh, &calls))

		future := runner.RunAsync(ctx)
		snapshot, err := future.Await()
		require.NoError(t, err)
		assert.True(t, future.IsComplete())
		assert.Equal(t, "new-access", snapshot.Tokens.AccessToken)
		assert.Equal(t, authstate.StateAuthenticated, m.CurrentState())
	})

	t.Run("resolves with the terminal error", func(t *testing.T) {
		m := signedInMachine(t)

		runner := refresher.NewRunner(m, refresher.StaticRefresher{Err: errors.New("down")})

		_, err := runner.RunAsync(ctx).Await()
		assert.ErrorIs(t, err, authstate.ErrRefreshExhausted)
	})

	t.Run("await with timeout gives up on slow cycles", func(t *testing.T) {
		m := signedInMachine(t)

		blocked := make(chan struct{})
		slow := refresher.Func(func(ctx context.Context, refreshToken string) (authstate.Tokens, error) {
			<-blocked
			return fresh, nil
		})

		runner := refresher.NewRunner(m, slow)
		future := runner.RunAsync(ctx)

		_, err := future.AwaitWithTimeout(10 * time.Millisecond)
		assert.ErrorIs(t, err, refresher.ErrAwaitTimeout)
		assert.False(t, future.IsComplete())

		close(blocked)
		snapshot, err := future.Await()
		require.NoError(t, err)
		assert.Equal(t, "new-access", snapshot.Tokens.AccessToken)
	})

	t.Run("pre-canceled context resolves immediately", func(t *testing.T) {
		m := signedInMachine(t)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		runner := refresher.NewRunner(m, refresher.StaticRefresher{Tokens: fresh})
		_, err := runner.RunAsync(canceled).Await()
		assert.ErrorIs(t, err, context.Canceled)
	})
}
