package internal

import "encoding/json"

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Inbound event names.
const (
	EventCreateRoom  = "create_room"
	EventJoinRoom    = "join_room"
	EventStartGame   = "start_game"
	EventDrawData    = "draw_data"
	EventClearCanvas = "clear_canvas"
	EventSendGuess   = "send_guess"
	EventSendMessage = "send_message"
)

// Outbound event names.
const (
	EventRoomUpdate        = "room_update"
	EventPlayerLeft        = "player_left"
	EventNewHost           = "new_host"
	EventGameStarted       = "game_started"
	EventNewTurn           = "new_turn"
	EventYourTurnToDraw    = "your_turn_to_draw"
	EventClearCanvasUpdate = "clear_canvas_update"
	EventDrawingUpdate     = "drawing_update"
	EventTimerUpdate       = "timer_update"
	EventChatMessage       = "chat_message"
	EventGuessResult       = "guess_result"
	EventScoreUpdate       = "score_update"
	EventGameOver          = "game_over"
	EventError             = "error"
)

type ChatKind string

const (
	ChatKindChat   ChatKind = "chat"
	ChatKindSystem ChatKind = "system"
)

const SystemSender = "System"

// Outbound is the type every server event is sent as.
type Outbound = Message[any]

func NewMessage(eventType string, data any) Outbound {
	return Outbound{Type: eventType, Data: data}
}

// Inbound is a client frame before its payload is decoded.
type Inbound = Message[json.RawMessage]

type CreateRoomData struct {
	PlayerName string `json:"player_name"`
}

type JoinRoomData struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
}

type StartGameData struct {
	ScoreGoal json.RawMessage `json:"score_goal"`
}

type GuessData struct {
	Guess string `json:"guess"`
}

type ChatData struct {
	Message string `json:"message"`
}

type GameSettingsData struct {
	IsGameActive    bool   `json:"is_game_active"`
	CurrentDrawerID string `json:"current_drawer_id,omitempty"`
	TimeLeft        int    `json:"time_left"`
	ScoreGoal       int    `json:"score_goal"`
	TeamScore       int    `json:"team_score"`
}

type RoomStateData struct {
	RoomID   string           `json:"room_id"`
	Players  []PlayerSnapshot `json:"players"`
	HostID   string           `json:"host_id"`
	Settings GameSettingsData `json:"settings"`
}

type PlayerLeftData struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type NewHostData struct {
	HostID   string `json:"host_id"`
	HostName string `json:"host_name"`
}

type GameStartedData struct {
	ScoreGoal int              `json:"score_goal"`
	Players   []PlayerSnapshot `json:"players"`
}

type NewTurnData struct {
	DrawerID   string `json:"drawer_id"`
	DrawerName string `json:"drawer_name"`
	TimeLeft   int    `json:"time_left"`
}

type YourTurnData struct {
	Word WordEntry `json:"word"`
}

type TimerUpdateData struct {
	TimeLeft int `json:"time_left"`
}

type ChatMessageData struct {
	Sender  string   `json:"sender"`
	Message string   `json:"message"`
	Kind    ChatKind `json:"type"`
}

type GuessResultData struct {
	PlayerID      string    `json:"player_id"`
	PlayerName    string    `json:"player_name"`
	IsCorrect     bool      `json:"is_correct"`
	Word          WordEntry `json:"word"`
	PointsAwarded int       `json:"points_awarded"`
}

type ScoreUpdateData struct {
	Players   []PlayerSnapshot `json:"players"`
	TeamScore int              `json:"team_score"`
}

type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
}

type GameOverData struct {
	Reason         string             `json:"reason"`
	FinalScores    []PlayerSnapshot   `json:"final_scores"`
	FinalTeamScore int                `json:"final_team_score"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
}

type ErrorData struct {
	Message string `json:"message"`
}

func SystemChat(text string) Outbound {
	return NewMessage(EventChatMessage, ChatMessageData{
		Sender:  SystemSender,
		Message: text,
		Kind:    ChatKindSystem,
	})
}

func ErrorMessage(text string) Outbound {
	return NewMessage(EventError, ErrorData{Message: text})
}
