package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psantana5/tsperf-matrix/pkg/logging"
)

func TestShutdownOrder(t *testing.T) {
	m := New(time.Second, logging.Nop())

	var order []string
	for _, name := range []string{"tracing", "metrics", "http"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, m.Shutdown())
	assert.Equal(t, []string{"http", "metrics", "tracing"}, order)
}

func TestShutdownContinuesAfterError(t *testing.T) {
	m := New(time.Second, logging.Nop())
	boom := errors.New("boom")

	ran := false
	m.Register("first", func(context.Context) error {
		ran = true
		return nil
	})
	m.Register("second", func(context.Context) error { return boom })

	err := m.Shutdown()
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "second: boom")
	assert.True(t, ran)
}

func TestShutdownOnce(t *testing.T) {
	m := New(time.Second, logging.Nop())
	calls := 0
	m.Register("http", func(context.Context) error {
		calls++
		return nil
	})

	m.Shutdown()
	m.Shutdown()
	assert.Equal(t, 1, calls)
}

func TestShutdownTimeout(t *testing.T) {
	m := New(10*time.Millisecond, logging.Nop())
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, m.Shutdown(), context.DeadlineExceeded)
}
