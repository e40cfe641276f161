// Package server runs skirmish's long-lived services: the session tick loop
// under a Lifecycle that handles graceful shutdown and signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component owned by a Lifecycle.
type Service interface {
	// Start runs the service and blocks until it is stopped, its work is
	// finished, or it fails.
	Start() error
	// Stop asks a running Start to return. It must be safe to call once the
	// service has already returned.
	Stop()
}

// FuncService builds a Service from two closures.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls StartFn.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls StopFn.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle starts a set of services together and stops them together.
// Registration order is start order; stop order is its reverse.
type Lifecycle struct {
	logger *zap.Logger

	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// exit is a service's Start returning.
type exit struct {
	name string
	err  error
}

// NewLifecycle returns an empty Lifecycle.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers svc under name.
//
// Precondition: name must be non-empty; svc must be non-nil; Run has not been called.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until the first of: SIGINT or SIGTERM,
// ctx being cancelled, or any service returning from Start. Every service is
// then stopped, last-added first.
//
// Postcondition: all services have been stopped; the result wraps the error of
// the service that triggered shutdown, or is nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	began := time.Now()
	exits := l.startAll(services)
	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(began)),
	)

	err := l.wait(ctx, exits)
	l.stopAll(services)
	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(began)))
	return err
}

// startAll launches each service on its own goroutine. The returned channel
// receives one exit per service and never blocks a sender.
func (l *Lifecycle) startAll(services []namedService) <-chan exit {
	exits := make(chan exit, len(services))
	for _, ns := range services {
		go func() {
			l.logger.Info("starting service", zap.String("service", ns.name))
			started := time.Now()
			err := ns.service.Start()
			if err != nil {
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(started)),
				)
				err = fmt.Errorf("service %s: %w", ns.name, err)
			}
			exits <- exit{name: ns.name, err: err}
		}()
	}
	return exits
}

// wait blocks until a shutdown trigger arrives and returns the triggering
// service error, if any.
func (l *Lifecycle) wait(ctx context.Context, exits <-chan exit) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return nil
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
		return nil
	case ex := <-exits:
		if ex.err != nil {
			l.logger.Error("service error, shutting down", zap.Error(ex.err))
			return ex.err
		}
		l.logger.Info("service finished, shutting down", zap.String("service", ex.name))
		return nil
	}
}

func (l *Lifecycle) stopAll(services []namedService) {
	began := time.Now()
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		stopped := time.Now()
		ns.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(stopped)),
		)
	}
	l.logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(began)))
}
