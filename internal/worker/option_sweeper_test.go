package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingReleaser struct {
	calls atomic.Int32
	err   error
}

func (r *countingReleaser) ReleaseExpiredOptions(context.Context) (int, error) {
	r.calls.Add(1)
	return 1, r.err
}

func TestOptionSweeper_RunsUntilCancelled(t *testing.T) {
	releaser := &countingReleaser{}
	sweeper := NewOptionSweeper(releaser, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return releaser.calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestOptionSweeper_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	releaser := &countingReleaser{err: errors.New("db down")}
	sweeper := NewOptionSweeper(releaser, time.Hour, zap.New(core))

	sweeper.sweep(context.Background())

	assert.Equal(t, int32(1), releaser.calls.Load())
	assert.Equal(t, 1, logs.FilterMessage("Option sweep failed").Len())
}

func TestNewOptionSweeper_DefaultsInterval(t *testing.T) {
	sweeper := NewOptionSweeper(&countingReleaser{}, 0, zap.NewNop())
	assert.Equal(t, 15*time.Minute, sweeper.interval)
}
