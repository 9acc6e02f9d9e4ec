package registration

import (
	"context"
	"errors"
	"testing"

	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ok(ctx context.Context) error { return nil }

func TestSaga_Execute(t *testing.T) {
	t.Run("Compensates completed steps newest first", func(t *testing.T) {
		saga := NewSaga("test", zap.NewNop())
		var undone []string
		undo := func(name string) Compensation {
			return func(ctx context.Context) error {
				undone = append(undone, name)
				return nil
			}
		}

		require.NoError(t, saga.Execute(context.Background(), "user", ok, undo("user")))
		require.NoError(t, saga.Execute(context.Background(), "audit", ok, nil))
		require.NoError(t, saga.Execute(context.Background(), "role", ok, undo("role")))

		err := saga.Execute(context.Background(), "profile", func(ctx context.Context) error {
			return errors.New("mongo down")
		}, undo("profile"))

		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeRegistration))
		assert.Equal(t, []string{"role", "user"}, undone)
		assert.Equal(t, []string{"user", "audit", "role"}, saga.Completed)
		assert.Equal(t, "profile", saga.FailedStep)
	})

	t.Run("Client error passes through after a clean rollback", func(t *testing.T) {
		saga := NewSaga("test", zap.NewNop())
		require.NoError(t, saga.Execute(context.Background(), "user", ok, ok))

		taken := exceptions.ErrEmailAlreadyExist("a@b.c")
		err := saga.Execute(context.Background(), "profile", func(ctx context.Context) error { return taken }, nil)
		assert.Same(t, taken, err)
	})

	t.Run("Compensation failures are kept and the rest still run", func(t *testing.T) {
		saga := NewSaga("test", zap.NewNop())
		compensationErr := errors.New("cannot delete user")
		secondRan := false

		require.NoError(t, saga.Execute(context.Background(), "user", ok, func(ctx context.Context) error {
			secondRan = true
			return nil
		}))
		require.NoError(t, saga.Execute(context.Background(), "role", ok, func(ctx context.Context) error {
			return compensationErr
		}))

		taken := exceptions.ErrEmailAlreadyExist("a@b.c")
		err := saga.Execute(context.Background(), "profile", func(ctx context.Context) error { return taken }, nil)

		assert.True(t, secondRan)
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeRegistration))
		assert.ErrorIs(t, err, compensationErr)
		assert.Len(t, saga.CompensationErrors, 1)
	})

	t.Run("Compensation runs on a live context after cancellation", func(t *testing.T) {
		saga := NewSaga("test", zap.NewNop())
		ctx, cancel := context.WithCancel(context.Background())

		var compensationCtxErr error
		require.NoError(t, saga.Execute(ctx, "user", ok, func(ctx context.Context) error {
			compensationCtxErr = ctx.Err()
			return nil
		}))

		cancel()
		_ = saga.Execute(ctx, "role", func(ctx context.Context) error { return ctx.Err() }, nil)
		assert.NoError(t, compensationCtxErr)
	})
}
