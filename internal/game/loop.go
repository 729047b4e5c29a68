package game

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// =============================================================================
// EVENT LOOP
// =============================================================================

var ErrLoopStopped = errors.New("game loop stopped")

// Loop runs every room mutation on a single goroutine. Read pumps, HTTP
// handlers and timers hand it work with Post or Call and never touch rooms
// themselves.
type Loop struct {
	jobs chan func()
	done chan struct{}
}

func NewLoop(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		jobs: make(chan func(), buffer),
		done: make(chan struct{}),
	}
}

// Run drains jobs until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	log.Info().Msg("[Loop] started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("[Loop] stopped")
			return
		case job := <-l.jobs:
			l.run(job)
		}
	}
}

func (l *Loop) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("[Loop] job panicked")
		}
	}()
	job()
}

// Post queues job and returns false if the loop has already stopped.
func (l *Loop) Post(job func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.jobs <- job:
		return true
	case <-l.done:
		return false
	}
}

// Call queues job and waits for it to finish.
func (l *Loop) Call(ctx context.Context, job func()) error {
	finished := make(chan struct{})
	queued := l.Post(func() {
		defer close(finished)
		job()
	})
	if !queued {
		return ErrLoopStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
