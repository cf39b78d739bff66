package monitor_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/listmonitor/monitor"
)

func TestEvery_InvalidArguments(t *testing.T) {
	noop := func(context.Context) error { return nil }

	err := monitor.Every(context.Background(), 0, noop)
	assert.ErrorIs(t, err, monitor.ErrInvalidArgument)

	err = monitor.Every(context.Background(), -time.Second, noop)
	assert.ErrorIs(t, err, monitor.ErrInvalidArgument)

	err = monitor.Every(context.Background(), time.Second, nil)
	assert.ErrorIs(t, err, monitor.ErrInvalidArgument)
}

func TestEvery_CancelledBeforeFirstCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := monitor.Every(ctx, time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}

func TestEvery_ReturnsFirstErrorUnmodified(t *testing.T) {
	boom := errors.New("boom")
	var calls int

	err := monitor.Every(context.Background(), time.Millisecond, func(context.Context) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})

	assert.Same(t, boom, err)
	assert.Equal(t, 3, calls)
}

func TestEvery_CancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	called := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- monitor.Every(ctx, time.Hour, func(context.Context) error {
			close(called)
			return nil
		})
	}()

	<-called
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Every did not return after cancellation")
	}
}

func TestEvery_IntervalMeasuredFromCompletion(t *testing.T) {
	const (
		work     = 30 * time.Millisecond
		interval = 20 * time.Millisecond
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var starts []time.Time
	err := monitor.Every(ctx, interval, func(context.Context) error {
		starts = append(starts, time.Now())
		if len(starts) == 3 {
			cancel()
			return nil
		}
		time.Sleep(work)
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, starts, 3)
	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), work+interval)
	}
}
