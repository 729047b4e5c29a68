package websocket

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal"
	"github.com/scythe504/kaliyo-backend/internal/game"
	"github.com/scythe504/kaliyo-backend/internal/utils"
	"golang.org/x/time/rate"
)

type Options struct {
	// ChatRate and ChatBurst bound send_guess and send_message per
	// connection. Anything over the limit is dropped.
	ChatRate       float64
	ChatBurst      int
	AllowedOrigins []string
}

// Gateway turns websocket frames into game loop jobs and checks the rules a
// request must pass before it reaches the game.
type Gateway struct {
	loop     *game.Loop
	ctrl     *game.Controller
	store    *game.RoomStore
	hub      *Hub
	opts     Options
	upgrader websocket.Upgrader
}

func NewGateway(loop *game.Loop, ctrl *game.Controller, hub *Hub, opts Options) *Gateway {
	if opts.ChatRate <= 0 {
		opts.ChatRate = 2
	}
	if opts.ChatBurst < 1 {
		opts.ChatBurst = 5
	}
	g := &Gateway{
		loop:  loop,
		ctrl:  ctrl,
		store: ctrl.Store(),
		hub:   hub,
		opts:  opts,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

func (g *Gateway) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(g.opts.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(g.opts.AllowedOrigins, origin)
}

// =============================================================================
// WEBSOCKET CONNECTION HANDLING
// =============================================================================

// HandleWebSocket upgrades the request and serves the connection until it
// closes. The connection is not in any room until it sends create_room or
// join_room.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("[HandleWebSocket] upgrade failed")
		return
	}

	limiter := rate.NewLimiter(rate.Limit(g.opts.ChatRate), g.opts.ChatBurst)
	client := newClient(utils.NewConnectionID(), conn, limiter)
	g.hub.register(client)

	log.Info().Str("conn", client.id).Str("remote", r.RemoteAddr).Msg("[HandleWebSocket] connected")

	go client.writePump()
	g.readPump(client)
}

func (g *Gateway) readPump(c *Client) {
	defer func() {
		g.hub.unregister(c)
		c.close()
		id := c.id
		g.loop.Post(func() { g.disconnect(id) })
		log.Info().Str("conn", id).Msg("[readPump] disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("conn", c.id).Msg("[readPump] read error")
			}
			return
		}

		var msg internal.Inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug().Err(err).Str("conn", c.id).Msg("[readPump] malformed frame")
			continue
		}

		if (msg.Type == internal.EventSendGuess || msg.Type == internal.EventSendMessage) && !c.limiter.Allow() {
			log.Debug().Str("conn", c.id).Str("type", msg.Type).Msg("[readPump] rate limited")
			continue
		}

		id := c.id
		if !g.loop.Post(func() { g.handle(id, msg) }) {
			return
		}
	}
}

// =============================================================================
// INBOUND DISPATCH (runs on the game loop)
// =============================================================================

func (g *Gateway) handle(connID string, msg internal.Inbound) {
	log.Debug().Str("conn", connID).Str("type", msg.Type).Msg("[handle] received")

	switch msg.Type {
	case internal.EventCreateRoom:
		g.createRoom(connID, msg.Data)
	case internal.EventJoinRoom:
		g.joinRoom(connID, msg.Data)
	case internal.EventStartGame:
		g.startGame(connID, msg.Data)
	case internal.EventDrawData:
		g.inRoom(connID, func(room *internal.Room) error {
			return g.ctrl.ForwardDrawData(room.Code, connID, msg.Data)
		})
	case internal.EventClearCanvas:
		g.inRoom(connID, func(room *internal.Room) error {
			return g.ctrl.ClearCanvas(room.Code, connID)
		})
	case internal.EventSendGuess:
		var data internal.GuessData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		g.inRoom(connID, func(room *internal.Room) error {
			g.ctrl.HandleGuess(room.Code, connID, data.Guess)
			return nil
		})
	case internal.EventSendMessage:
		var data internal.ChatData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		g.inRoom(connID, func(room *internal.Room) error {
			g.ctrl.HandleChat(room.Code, connID, data.Message)
			return nil
		})
	default:
		log.Debug().Str("conn", connID).Str("type", msg.Type).Msg("[handle] unknown message type")
	}
}

// inRoom runs fn against the sender's room. Rejections here are silent.
func (g *Gateway) inRoom(connID string, fn func(room *internal.Room) error) {
	room := g.store.RoomOf(connID)
	if room == nil {
		return
	}
	if err := fn(room); err != nil {
		log.Debug().Err(err).Str("conn", connID).Str("room", room.Code).Msg("[handle] rejected")
	}
}

func (g *Gateway) reject(connID, text string) {
	g.hub.Send(connID, internal.ErrorMessage(text))
}

func (g *Gateway) createRoom(connID string, raw json.RawMessage) {
	var data internal.CreateRoomData
	if err := decode(raw, &data); err != nil {
		g.reject(connID, "Invalid request data.")
		return
	}
	name := strings.TrimSpace(data.PlayerName)
	if name == "" {
		g.reject(connID, "Player name is required.")
		return
	}
	if g.store.RoomOf(connID) != nil {
		g.reject(connID, "You are already in a room.")
		return
	}

	room, err := g.store.CreateRoom(connID)
	if err != nil {
		log.Error().Err(err).Str("conn", connID).Msg("[createRoom] failed")
		g.reject(connID, "Server error creating room.")
		return
	}
	g.store.AddPlayer(room, connID, name)

	g.hub.Send(connID, internal.NewMessage(internal.EventRoomUpdate, room.State()))
}

func (g *Gateway) joinRoom(connID string, raw json.RawMessage) {
	var data internal.JoinRoomData
	if err := decode(raw, &data); err != nil {
		g.reject(connID, "Invalid request data.")
		return
	}
	code := strings.TrimSpace(data.RoomID)
	name := strings.TrimSpace(data.PlayerName)
	if code == "" || name == "" {
		g.reject(connID, "Missing room ID or player name.")
		return
	}
	if g.store.RoomOf(connID) != nil {
		g.reject(connID, "You are already in a room.")
		return
	}

	room := g.store.GetRoom(code)
	if room == nil {
		g.reject(connID, "Room not found.")
		return
	}
	if room.GetPlayerCount() >= g.ctrl.Settings().MaxPlayers {
		g.reject(connID, "Room is full.")
		return
	}

	g.store.AddPlayer(room, connID, name)

	state := internal.NewMessage(internal.EventRoomUpdate, room.State())
	g.hub.Send(connID, state)
	g.ctrl.BroadcastToRoomExcept(room, state, connID)
	g.ctrl.BroadcastToRoom(room, internal.SystemChat(fmt.Sprintf("%s has joined the room.", name)))
}

func (g *Gateway) startGame(connID string, raw json.RawMessage) {
	settings := g.ctrl.Settings()

	room := g.store.RoomOf(connID)
	if room == nil {
		g.reject(connID, "Room not found.")
		return
	}
	if !room.IsHost(connID) {
		g.reject(connID, "Only the host can start the game.")
		return
	}
	if room.Game.IsActive {
		g.reject(connID, "Game is already in progress.")
		return
	}
	if !room.CanStartGame(settings.MinPlayers) {
		g.reject(connID, fmt.Sprintf("Need at least %d players to start (currently %d).", settings.MinPlayers, room.GetPlayerCount()))
		return
	}

	var data internal.StartGameData
	if err := decode(raw, &data); err != nil {
		g.reject(connID, "Invalid request data.")
		return
	}
	goal, err := ParseScoreGoal(data.ScoreGoal, settings.MinScoreGoal)
	if err != nil {
		g.reject(connID, fmt.Sprintf("Invalid score goal (minimum %d).", settings.MinScoreGoal))
		return
	}

	if err := g.ctrl.StartGame(room.Code, goal); err != nil {
		log.Warn().Err(err).Str("room", room.Code).Msg("[startGame] rejected by controller")
		g.reject(connID, errorText(err))
	}
}

// disconnect removes the connection from its room, tells the others and lets
// the controller repair the game.
func (g *Gateway) disconnect(connID string) {
	res := g.store.RemovePlayer(connID)
	if res == nil {
		return
	}
	room := g.store.GetRoom(res.RoomCode)
	if res.RoomBecameEmpty || room == nil {
		return
	}

	g.ctrl.BroadcastToRoom(room, internal.NewMessage(internal.EventPlayerLeft, internal.PlayerLeftData{
		PlayerID:   res.RemovedPlayer.Id,
		PlayerName: res.RemovedPlayer.Username,
	}))
	if res.NewHost != nil {
		g.ctrl.BroadcastToRoom(room, internal.NewMessage(internal.EventNewHost, internal.NewHostData{
			HostID:   res.NewHost.Id,
			HostName: res.NewHost.Username,
		}))
	}
	g.ctrl.BroadcastToRoom(room, internal.NewMessage(internal.EventRoomUpdate, room.State()))

	g.ctrl.HandlePlayerDisconnect(res)
}

// =============================================================================
// HELPERS
// =============================================================================

func decode(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrBadRequest, err)
	}
	return nil
}

// ParseScoreGoal accepts a JSON integer or a numeric string of at least
// minGoal. A missing or null goal is rejected like any other bad value.
func ParseScoreGoal(raw json.RawMessage, minGoal int) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return 0, fmt.Errorf("%w: score goal is required", internal.ErrBadRequest)
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return 0, fmt.Errorf("%w: score goal %s", internal.ErrBadRequest, trimmed)
	}
	goal, err := strconv.Atoi(num.String())
	if err != nil {
		return 0, fmt.Errorf("%w: score goal %s is not an integer", internal.ErrBadRequest, num)
	}
	if goal < minGoal {
		return 0, fmt.Errorf("%w: score goal %d below %d", internal.ErrBadRequest, goal, minGoal)
	}
	return goal, nil
}

func errorText(err error) string {
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return "Room not found."
	case errors.Is(err, internal.ErrInvalidState):
		return "Game is already in progress."
	case errors.Is(err, internal.ErrInsufficientPlayers):
		return "Not enough players to start."
	case errors.Is(err, internal.ErrForbidden):
		return "You are not allowed to do that."
	default:
		return "Something went wrong."
	}
}
