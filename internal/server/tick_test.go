package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingTarget struct {
	mu    sync.Mutex
	total time.Duration
	calls int
}

func (c *countingTarget) Tick(dt time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total += dt
	c.calls++
}

func (c *countingTarget) snapshot() (int, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls, c.total
}

func TestTickService_StopsAtMaxTicks(t *testing.T) {
	target := &countingTarget{}
	svc := NewTickService(target, TickConfig{Interval: time.Millisecond, MaxTicks: 5}, zaptest.NewLogger(t))

	require.NoError(t, svc.Start())

	calls, total := target.snapshot()
	assert.Equal(t, 5, calls)
	assert.Equal(t, 5*time.Millisecond, total)
	assert.Equal(t, 5, svc.Ticks())
}

func TestTickService_AfterTickEndsLoop(t *testing.T) {
	target := &countingTarget{}
	var seen []int
	svc := NewTickService(target, TickConfig{
		Interval: time.Millisecond,
		AfterTick: func(n int) bool {
			seen = append(seen, n)
			return n < 3
		},
	}, zaptest.NewLogger(t))

	require.NoError(t, svc.Start())
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestTickService_StopEndsUnboundedLoop(t *testing.T) {
	target := &countingTarget{}
	svc := NewTickService(target, TickConfig{Interval: time.Millisecond}, zaptest.NewLogger(t))

	done := make(chan error, 1)
	go func() { done <- svc.Start() }()

	require.Eventually(t, func() bool { return svc.Ticks() >= 2 }, 2*time.Second, time.Millisecond)
	svc.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("tick loop did not stop")
	}
	calls, _ := target.snapshot()
	assert.Equal(t, svc.Ticks(), calls, "no tick runs after Stop returns")
	svc.Stop()
}

func TestTickService_StopBeforeStart(t *testing.T) {
	svc := NewTickService(&countingTarget{}, TickConfig{Interval: time.Millisecond}, zaptest.NewLogger(t))
	svc.Stop()
	assert.NoError(t, svc.Start())
	assert.Equal(t, 0, svc.Ticks())
}

func TestTickService_SecondStartRejected(t *testing.T) {
	svc := NewTickService(&countingTarget{}, TickConfig{Interval: time.Millisecond, MaxTicks: 1}, zaptest.NewLogger(t))
	require.NoError(t, svc.Start())
	assert.ErrorIs(t, svc.Start(), ErrAlreadyStarted)
}

func TestTickService_RejectsZeroInterval(t *testing.T) {
	assert.Panics(t, func() {
		NewTickService(&countingTarget{}, TickConfig{}, zaptest.NewLogger(t))
	})
}

func TestLifecycle_FinishedTickServiceShutsDown(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	target := &countingTarget{}
	lc.Add("tick", NewTickService(target, TickConfig{Interval: time.Millisecond, MaxTicks: 3}, zaptest.NewLogger(t)))
	var mu sync.Mutex
	var stops []string
	other := newBlockingService("other", &mu, &stops)
	lc.Add("other", other)

	assert.NoError(t, awaitRun(t, runAsync(lc, context.Background())))
	calls, _ := target.snapshot()
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"other"}, stops)
}
