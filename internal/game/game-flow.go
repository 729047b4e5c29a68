package game

import (
	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal"
)

// =============================================================================
// TURN FLOW
// =============================================================================

// StartNewTurn hands the pencil to the next player in join order and starts
// the countdown. It quietly does nothing when the room is gone, idle or empty,
// which happens when a disconnect races a scheduled turn.
func (c *Controller) StartNewTurn(code string) {
	room := c.store.GetRoom(code)
	if room == nil || !room.Game.IsActive || room.GetPlayerCount() == 0 {
		log.Debug().Str("room", code).Msg("[StartNewTurn] room gone or idle, skipping")
		return
	}

	cancelAndClear(room)

	index := room.GetNextDrawerIndex()
	drawer := room.GetPlayerByIndex(index)
	word := c.words.Random()

	g := &room.Game
	g.CurrentDrawerIndex = index
	g.CurrentDrawerID = drawer.Id
	g.CurrentWord = &word
	g.TimeLeftSeconds = c.settings.TurnSeconds()
	g.TurnStartedAt = c.now()

	log.Info().
		Str("room", code).
		Str("drawer", drawer.Id).
		Int("drawer_index", index).
		Msg("[StartNewTurn] new turn")

	c.BroadcastToRoom(room, internal.NewMessage(internal.EventNewTurn, internal.NewTurnData{
		DrawerID:   drawer.Id,
		DrawerName: drawer.Username,
		TimeLeft:   g.TimeLeftSeconds,
	}))
	// The word goes to the drawer and nobody else.
	c.SendTo(drawer.Id, internal.NewMessage(internal.EventYourTurnToDraw, internal.YourTurnData{
		Word: word,
	}))
	c.BroadcastToRoom(room, internal.NewMessage(internal.EventClearCanvasUpdate, nil))

	c.startTurnTimer(room)
}

// HandlePlayerDisconnect repairs the game after RemovePlayer has already
// taken the player out of the roster.
func (c *Controller) HandlePlayerDisconnect(res *RemovalResult) {
	if res == nil {
		return
	}
	room := c.store.GetRoom(res.RoomCode)
	if room == nil || !room.Game.IsActive {
		log.Debug().Str("room", res.RoomCode).Msg("[HandlePlayerDisconnect] no active game")
		return
	}

	if room.GetPlayerCount() < c.settings.MinPlayers {
		c.EndGame(room.Code, internal.NotEnoughPlayersReason)
		return
	}

	if res.RemovedPlayer.Id == room.Game.CurrentDrawerID {
		log.Info().
			Str("room", room.Code).
			Str("drawer", res.RemovedPlayer.Id).
			Msg("[HandlePlayerDisconnect] drawer left, skipping turn")
		cancelAndClear(room)
		// Whoever slid into the drawer's slot draws next.
		room.Game.CurrentDrawerIndex = res.RemovedIndex - 1
		c.StartNewTurn(room.Code)
		return
	}

	// The drawer is tracked by id; re-derive the index against the shorter
	// roster so rotation continues from the right place.
	if index := room.IndexOf(room.Game.CurrentDrawerID); index >= 0 {
		room.Game.CurrentDrawerIndex = index
	}
}
