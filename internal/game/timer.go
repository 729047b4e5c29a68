package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// Scheduler starts cancellable callbacks. Callbacks run on the game loop.
type Scheduler interface {
	Every(interval time.Duration, fn func()) internal.Timer
	After(delay time.Duration, fn func()) internal.Timer
}

type loopTimer struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (t *loopTimer) Stop() {
	t.cancel()
}

type loopScheduler struct {
	loop *Loop
}

// NewLoopScheduler returns a Scheduler backed by real time that delivers every
// firing through loop.
func NewLoopScheduler(loop *Loop) Scheduler {
	return &loopScheduler{loop: loop}
}

func (s *loopScheduler) Every(interval time.Duration, fn func()) internal.Timer {
	t := s.newTimer()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.ctx.Done():
				return
			case <-ticker.C:
				if !s.deliver(t, fn) {
					return
				}
			}
		}
	}()
	return t
}

func (s *loopScheduler) After(delay time.Duration, fn func()) internal.Timer {
	t := s.newTimer()
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-t.ctx.Done():
		case <-timer.C:
			// The timer counts as fired once fn has run on the loop.
			s.deliver(t, func() {
				defer t.cancel()
				fn()
			})
		}
	}()
	return t
}

func (s *loopScheduler) newTimer() *loopTimer {
	ctx, cancel := context.WithCancel(context.Background())
	return &loopTimer{ctx: ctx, cancel: cancel}
}

// deliver posts fn. A firing that was already queued when Stop ran is dropped
// on the loop side.
func (s *loopScheduler) deliver(t *loopTimer, fn func()) bool {
	ok := s.loop.Post(func() {
		if t.ctx.Err() != nil {
			return
		}
		fn()
	})
	if !ok {
		t.cancel()
	}
	return ok
}

// cancelAndClear stops both the turn tick and any pending next turn. Every
// path that ends a turn early or ends the game goes through here.
func cancelAndClear(room *internal.Room) {
	if room.Game.Timer != nil {
		room.Game.Timer.Stop()
		room.Game.Timer = nil
	}
	if room.Game.PendingTurn != nil {
		room.Game.PendingTurn.Stop()
		room.Game.PendingTurn = nil
	}
}

// startTurnTimer begins the once-per-interval countdown for the current turn.
func (c *Controller) startTurnTimer(room *internal.Room) {
	code := room.Code
	var handle internal.Timer
	handle = c.sched.Every(c.settings.TickInterval, func() {
		c.onTick(code, handle)
	})
	room.Game.Timer = handle
}

func (c *Controller) onTick(code string, handle internal.Timer) {
	room := c.store.GetRoom(code)
	if room == nil || !room.Game.IsActive || room.Game.Timer != handle {
		log.Debug().Str("room", code).Msg("[onTick] stale timer, stopping")
		handle.Stop()
		return
	}

	if room.Game.TimeLeftSeconds <= 0 {
		c.expireTurn(room)
		return
	}

	room.Game.TimeLeftSeconds--
	log.Debug().
		Str("room", code).
		Int("time_left", room.Game.TimeLeftSeconds).
		Msg("[onTick] tick")

	c.BroadcastToRoom(room, internal.NewMessage(internal.EventTimerUpdate, internal.TimerUpdateData{
		TimeLeft: room.Game.TimeLeftSeconds,
	}))

	if room.Game.TimeLeftSeconds <= 0 {
		c.expireTurn(room)
	}
}

// expireTurn reveals the word nobody guessed and moves straight on.
func (c *Controller) expireTurn(room *internal.Room) {
	cancelAndClear(room)

	if word := room.Game.CurrentWord; word != nil {
		log.Info().
			Str("room", room.Code).
			Str("word", word.Display).
			Msg("[expireTurn] time is up")
		c.BroadcastToRoom(room, internal.SystemChat(
			fmt.Sprintf("Time's up! The letter was %s (%s).", word.Display, word.Transliteration),
		))
	}

	c.StartNewTurn(room.Code)
}

func (c *Controller) schedulePendingTurn(room *internal.Room) {
	code := room.Code
	var handle internal.Timer
	handle = c.sched.After(c.settings.NextTurnDelay, func() {
		c.onPendingTurn(code, handle)
	})
	room.Game.PendingTurn = handle
}

func (c *Controller) onPendingTurn(code string, handle internal.Timer) {
	room := c.store.GetRoom(code)
	if room == nil || !room.Game.IsActive || room.Game.PendingTurn != handle {
		log.Debug().Str("room", code).Msg("[onPendingTurn] stale delayed turn, ignoring")
		return
	}
	room.Game.PendingTurn = nil
	c.StartNewTurn(code)
}
