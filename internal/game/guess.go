package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal"
	"github.com/scythe504/kaliyo-backend/internal/utils"
)

// =============================================================================
// GUESS HANDLING
// =============================================================================

// IsCorrectGuess reports whether text, trimmed and case-folded, equals one of
// the word's accepted answers exactly.
func IsCorrectGuess(word *internal.WordEntry, text string) bool {
	if word == nil {
		return false
	}
	guess := utils.NormalizeGuess(text)
	if guess == "" {
		return false
	}
	return slices.Contains(word.Accepted, guess)
}

// HandleGuess shows the guess to the room as chat and, when it is right,
// scores it and either ends the game or queues the next turn. Guesses while
// idle, between turns, or from the drawer are dropped without a trace.
func (c *Controller) HandleGuess(code, playerID, text string) bool {
	room := c.store.GetRoom(code)
	if room == nil {
		return false
	}
	player := room.GetPlayer(playerID)
	if player == nil || !room.Game.IsActive || room.Game.CurrentWord == nil || room.IsDrawer(playerID) {
		log.Debug().Str("room", code).Str("player", playerID).Msg("[HandleGuess] guess ignored")
		return false
	}

	word := room.Game.CurrentWord

	c.BroadcastToRoom(room, internal.NewMessage(internal.EventChatMessage, internal.ChatMessageData{
		Sender:  player.Username,
		Message: text,
		Kind:    internal.ChatKindChat,
	}))

	if !IsCorrectGuess(word, text) {
		return false
	}

	cancelAndClear(room)

	points := CalculateGuessPoints(room.Game.TimeLeftSeconds, c.settings.TurnSeconds())
	player.Score += points
	room.Game.TeamScore += points
	room.Game.CurrentWord = nil

	log.Info().
		Str("room", code).
		Str("player", playerID).
		Int("points", points).
		Int("team_score", room.Game.TeamScore).
		Msg("[HandleGuess] correct guess")

	c.BroadcastToRoom(room, internal.NewMessage(internal.EventGuessResult, internal.GuessResultData{
		PlayerID:      player.Id,
		PlayerName:    player.Username,
		IsCorrect:     true,
		Word:          *word,
		PointsAwarded: points,
	}))
	c.BroadcastToRoom(room, internal.NewMessage(internal.EventScoreUpdate, internal.ScoreUpdateData{
		Players:   internal.SnapshotPlayers(room.Players),
		TeamScore: room.Game.TeamScore,
	}))

	if room.Game.TeamScore >= room.Game.ScoreGoal {
		c.EndGame(code, fmt.Sprintf("%s made the winning guess!", player.Username))
		return true
	}

	c.schedulePendingTurn(room)
	return true
}

// HandleChat relays a plain chat line. Blank text is dropped.
func (c *Controller) HandleChat(code, playerID, text string) bool {
	room := c.store.GetRoom(code)
	if room == nil {
		return false
	}
	player := room.GetPlayer(playerID)
	text = strings.TrimSpace(text)
	if player == nil || text == "" {
		return false
	}

	c.BroadcastToRoom(room, internal.NewMessage(internal.EventChatMessage, internal.ChatMessageData{
		Sender:  player.Username,
		Message: text,
		Kind:    internal.ChatKindChat,
	}))
	return true
}
