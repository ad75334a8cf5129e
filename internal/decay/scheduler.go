// Package decay runs the periodic sweep that turns overdue tasks into zombies.
package decay

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"
)

const DefaultPeriod = 24 * time.Hour

// Sweeper expires overdue tasks and reports how many changed.
type Sweeper interface {
	ExpireOverdueTasks(ctx context.Context) (int, error)
}

type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

var ErrRunning = errors.New("decay scheduler already running")

type Scheduler struct {
	Sweeper    Sweeper
	Period     time.Duration
	RunOnStart bool
	Logger     *log.Logger
	Clock      Clock

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(sweeper Sweeper, period time.Duration, logger *log.Logger) *Scheduler {
	return &Scheduler{Sweeper: sweeper, Period: period, Logger: logger}
}

// Start runs the loop in the background until ctx is cancelled or Stop is
// called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	return nil
}

// Stop cancels the loop and waits for it to exit. It is a no-op when the
// scheduler is not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Run sweeps once per period until ctx is done. Sweep failures are logged and
// the next period retries.
func (s *Scheduler) Run(ctx context.Context) error {
	period := s.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	clock := s.clock()

	s.logger().Printf("decay: scheduler started, period %s", period)
	if s.RunOnStart {
		_, _ = s.Tick(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			s.logger().Printf("decay: scheduler stopped")
			return ctx.Err()
		case <-clock.After(period):
			_, _ = s.Tick(ctx)
		}
	}
}

// Tick performs one sweep.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	start := s.clock().Now()
	n, err := s.Sweeper.ExpireOverdueTasks(ctx)
	if err != nil {
		s.logger().Printf("warning: decay sweep failed, retrying next period: %v", err)
		return 0, err
	}
	if n > 0 {
		s.logger().Printf("decay: %d task(s) became zombies (%s)", n, s.clock().Now().Sub(start).Round(time.Millisecond))
	}
	return n, nil
}

func (s *Scheduler) clock() Clock {
	if s.Clock == nil {
		return systemClock{}
	}
	return s.Clock
}

func (s *Scheduler) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return s.Logger
}
