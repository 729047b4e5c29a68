package internal

import (
	"time"
)

const (
	TurnDuration        = 90 * time.Second
	NextTurnDelay       = 2 * time.Second
	TickInterval        = 1 * time.Second
	MaxPlayersPerRoom   = 8
	MinPlayersToStart   = 2
	DefaultScoreGoal    = 50
	MinScoreGoal        = 10
	BasePoints          = 10
	RoomCodeMin         = 1000
	RoomCodeMax         = 9999
	MaxRoomCodeAttempts = 50
)

const NotEnoughPlayersReason = "Not enough players to continue."

// WordEntry is one prompt: the symbol the drawer sees and every string that
// counts as a correct guess for it. Accepted holds normalised forms only.
type WordEntry struct {
	Display         string   `json:"display"`
	Transliteration string   `json:"transliteration"`
	Accepted        []string `json:"-"`
}

// Timer is a cancellable handle for a scheduled callback. Stop must be safe
// to call more than once.
type Timer interface {
	Stop()
}

type GameState struct {
	IsActive           bool
	CurrentDrawerIndex int
	CurrentDrawerID    string
	CurrentWord        *WordEntry
	TimeLeftSeconds    int
	TurnStartedAt      time.Time
	ScoreGoal          int
	TeamScore          int

	// Timer is the repeating per-turn tick; PendingTurn is the delayed
	// next-turn after a correct guess. Both are owned by the game loop.
	Timer       Timer
	PendingTurn Timer
}

// NewGameState returns the inert state a room starts with.
func NewGameState(scoreGoal int) GameState {
	return GameState{
		CurrentDrawerIndex: -1,
		ScoreGoal:          scoreGoal,
	}
}

type Room struct {
	Code    string
	Players []*Player
	HostID  string
	Game    GameState

	CreatedAt time.Time
}

// Response wraps JSON answers of the plain HTTP endpoints.
type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}

type RoomSummary struct {
	Code       string `json:"code"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
	Active     bool   `json:"active"`
}
