package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal"
)

// =============================================================================
// GAME LIFECYCLE
// =============================================================================

// StartGame activates the room and starts the first turn. A non-positive
// scoreGoal falls back to the configured default.
func (c *Controller) StartGame(code string, scoreGoal int) error {
	room := c.store.GetRoom(code)
	if room == nil {
		return fmt.Errorf("%w: room %s", internal.ErrNotFound, code)
	}
	if room.Game.IsActive {
		return fmt.Errorf("%w: game already in progress", internal.ErrInvalidState)
	}
	if !room.CanStartGame(c.settings.MinPlayers) {
		return fmt.Errorf("%w: need at least %d players", internal.ErrInsufficientPlayers, c.settings.MinPlayers)
	}
	if scoreGoal <= 0 {
		scoreGoal = c.settings.DefaultScoreGoal
	}

	cancelAndClear(room)
	room.ResetScores()
	room.Game.IsActive = true
	room.Game.ScoreGoal = scoreGoal
	room.Game.TeamScore = 0
	room.Game.CurrentDrawerIndex = -1
	room.Game.CurrentDrawerID = ""
	room.Game.CurrentWord = nil
	room.Game.TimeLeftSeconds = 0

	log.Info().
		Str("room", code).
		Int("score_goal", scoreGoal).
		Int("players", room.GetPlayerCount()).
		Msg("[StartGame] game started")

	c.BroadcastToRoom(room, internal.NewMessage(internal.EventGameStarted, internal.GameStartedData{
		ScoreGoal: scoreGoal,
		Players:   internal.SnapshotPlayers(room.Players),
	}))

	c.StartNewTurn(code)
	return nil
}

// EndGame returns the room to idle, keeping the team score and drawer index
// for the results screen. Ending a game that is not running does nothing.
func (c *Controller) EndGame(code, reason string) {
	room := c.store.GetRoom(code)
	if room == nil {
		log.Debug().Str("room", code).Msg("[EndGame] room gone")
		return
	}

	cancelAndClear(room)

	if !room.Game.IsActive {
		log.Debug().Str("room", code).Msg("[EndGame] game not active, nothing to end")
		return
	}

	room.Game.IsActive = false
	room.Game.CurrentDrawerID = ""
	room.Game.CurrentWord = nil
	room.Game.TimeLeftSeconds = 0

	log.Info().
		Str("room", code).
		Str("reason", reason).
		Int("team_score", room.Game.TeamScore).
		Msg("[EndGame] game over")

	c.BroadcastToRoom(room, internal.NewMessage(internal.EventGameOver, internal.GameOverData{
		Reason:         reason,
		FinalScores:    internal.SnapshotPlayers(room.Players),
		FinalTeamScore: room.Game.TeamScore,
		Leaderboard:    Leaderboard(room.Players),
	}))
}
