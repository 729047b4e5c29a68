package game

import (
	"time"

	"github.com/scythe504/kaliyo-backend/internal"
)

// Sender delivers one event to one connection. Implementations must not
// block the game loop.
type Sender interface {
	Send(connID string, msg internal.Outbound)
}

// Broadcaster is implemented by senders that can encode one event once for
// many connections.
type Broadcaster interface {
	Broadcast(connIDs []string, msg internal.Outbound)
}

// WordPicker supplies the prompt for each new turn.
type WordPicker interface {
	Random() internal.WordEntry
}

type Settings struct {
	TurnDuration     time.Duration
	NextTurnDelay    time.Duration
	TickInterval     time.Duration
	MinPlayers       int
	MaxPlayers       int
	DefaultScoreGoal int
	MinScoreGoal     int
}

func DefaultSettings() Settings {
	return Settings{
		TurnDuration:     internal.TurnDuration,
		NextTurnDelay:    internal.NextTurnDelay,
		TickInterval:     internal.TickInterval,
		MinPlayers:       internal.MinPlayersToStart,
		MaxPlayers:       internal.MaxPlayersPerRoom,
		DefaultScoreGoal: internal.DefaultScoreGoal,
		MinScoreGoal:     internal.MinScoreGoal,
	}
}

// TurnSeconds is the countdown a fresh turn starts from.
func (s Settings) TurnSeconds() int {
	return int(s.TurnDuration / time.Second)
}

// Controller is the per-process turn state machine. Every method must be
// called on the game loop.
type Controller struct {
	store    *RoomStore
	words    WordPicker
	out      Sender
	sched    Scheduler
	settings Settings
	now      func() time.Time
}

func NewController(store *RoomStore, words WordPicker, out Sender, sched Scheduler, settings Settings) *Controller {
	if settings.TickInterval <= 0 {
		settings.TickInterval = internal.TickInterval
	}
	return &Controller{
		store:    store,
		words:    words,
		out:      out,
		sched:    sched,
		settings: settings,
		now:      time.Now,
	}
}

func (c *Controller) Store() *RoomStore {
	return c.store
}

func (c *Controller) Settings() Settings {
	return c.settings
}
