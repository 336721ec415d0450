package shutdown

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunExecutesHooksInOrder(t *testing.T) {
	r := NewRegistry()

	var order []string
	r.Register("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	r.Register("second", func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	r.Run(context.Background())

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRunContinuesPastFailingHook(t *testing.T) {
	r := NewRegistry()

	ran := false
	r.Register("failing", func(ctx context.Context) error {
		return errors.New("boom")
	})
	r.Register("after", func(ctx context.Context) error {
		ran = true
		return nil
	})

	r.Run(context.Background())

	assert.True(t, ran, "hooks after a failure must still run")
}

func TestRunIsIdempotent(t *testing.T) {
	r := NewRegistry()

	calls := 0
	r.Register("once", func(ctx context.Context) error {
		calls++
		return nil
	})

	r.Run(context.Background())
	r.Run(context.Background())

	assert.Equal(t, 1, calls)
}

func TestRegisterAfterRunIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.Run(context.Background())

	called := false
	r.Register("late", func(ctx context.Context) error {
		called = true
		return nil
	})
	r.Run(context.Background())

	assert.False(t, called)
}
