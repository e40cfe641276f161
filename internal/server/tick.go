package server

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tickable is advanced by a TickService. session.Session satisfies it.
type Tickable interface {
	Tick(dt time.Duration)
}

// TickConfig configures a TickService.
type TickConfig struct {
	// Interval is both the wall-clock period and the dt passed to Tick.
	Interval time.Duration
	// MaxTicks stops the service after that many ticks; 0 runs until Stop.
	MaxTicks int
	// AfterTick, when set, runs on the tick goroutine after each Tick with
	// the 1-based tick number. Returning false ends the service.
	AfterTick func(n int) bool
}

// ErrAlreadyStarted is returned by TickService.Start on a second call.
var ErrAlreadyStarted = errors.New("tick service already started")

// TickService drives one Tickable from a single goroutine on a time.Ticker.
// Every call to Tick and AfterTick happens on the goroutine running Start.
type TickService struct {
	target Tickable
	cfg    TickConfig
	logger *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}

	mu    sync.Mutex
	done  chan struct{}
	ticks int
}

// NewTickService creates a TickService for target.
//
// Precondition: target and logger must be non-nil; cfg.Interval > 0.
// Postcondition: the service is idle until Start is called.
func NewTickService(target Tickable, cfg TickConfig, logger *zap.Logger) *TickService {
	if cfg.Interval <= 0 {
		panic("server.NewTickService: interval must be positive")
	}
	return &TickService{
		target: target,
		cfg:    cfg,
		logger: logger,
		stop:   make(chan struct{}),
	}
}

// Ticks returns the number of completed ticks.
func (t *TickService) Ticks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticks
}

// Start runs the tick loop until Stop is called, MaxTicks is reached, or
// AfterTick returns false.
//
// Postcondition: returns nil on any of those exits; ErrAlreadyStarted on reuse.
func (t *TickService) Start() error {
	t.mu.Lock()
	if t.done != nil {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	done := make(chan struct{})
	t.done = done
	t.mu.Unlock()
	defer close(done)

	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	t.logger.Debug("tick loop started", zap.Duration("interval", t.cfg.Interval))
	for {
		select {
		case <-t.stop:
			t.logger.Debug("tick loop stopped", zap.Int("ticks", t.Ticks()))
			return nil
		case <-ticker.C:
		}

		t.target.Tick(t.cfg.Interval)
		t.mu.Lock()
		t.ticks++
		n := t.ticks
		t.mu.Unlock()

		if t.cfg.AfterTick != nil && !t.cfg.AfterTick(n) {
			t.logger.Debug("tick loop ended by callback", zap.Int("ticks", n))
			return nil
		}
		if t.cfg.MaxTicks > 0 && n >= t.cfg.MaxTicks {
			t.logger.Debug("tick loop reached max ticks", zap.Int("ticks", n))
			return nil
		}
	}
}

// Stop ends the tick loop and waits for an in-flight tick to finish.
// It is safe to call more than once and before Start.
func (t *TickService) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		<-done
	}
}
