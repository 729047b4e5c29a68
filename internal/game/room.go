package game

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal"
)

// =============================================================================
// ROOM MANAGEMENT
// =============================================================================

// RemovalResult describes what RemovePlayer changed. NewHost is nil when the
// host did not change.
type RemovalResult struct {
	RoomCode        string
	RemovedPlayer   *internal.Player
	RemovedIndex    int
	RoomBecameEmpty bool
	NewHost         *internal.Player
}

// RoomStore owns every live room. It is not safe for concurrent use; the
// game loop is its only caller.
type RoomStore struct {
	rooms            map[string]*internal.Room
	defaultScoreGoal int
	intN             func(n int) int
	now              func() time.Time
}

func NewRoomStore(defaultScoreGoal int) *RoomStore {
	if defaultScoreGoal <= 0 {
		defaultScoreGoal = internal.DefaultScoreGoal
	}
	return &RoomStore{
		rooms:            make(map[string]*internal.Room),
		defaultScoreGoal: defaultScoreGoal,
		intN:             rand.IntN,
		now:              time.Now,
	}
}

// CreateRoom registers an empty room under a fresh four digit code with
// hostID as its host. The host still has to be added with AddPlayer.
func (s *RoomStore) CreateRoom(hostID string) (*internal.Room, error) {
	code, err := s.generateCode()
	if err != nil {
		return nil, err
	}

	room := &internal.Room{
		Code:      code,
		Players:   make([]*internal.Player, 0, internal.MaxPlayersPerRoom),
		HostID:    hostID,
		Game:      internal.NewGameState(s.defaultScoreGoal),
		CreatedAt: s.now(),
	}
	s.rooms[code] = room

	log.Info().
		Str("room", code).
		Str("host", hostID).
		Int("live_rooms", len(s.rooms)).
		Msg("[CreateRoom] created room")
	return room, nil
}

func (s *RoomStore) generateCode() (string, error) {
	span := internal.RoomCodeMax - internal.RoomCodeMin + 1
	for attempt := 0; attempt < internal.MaxRoomCodeAttempts; attempt++ {
		code := strconv.Itoa(internal.RoomCodeMin + s.intN(span))
		if _, taken := s.rooms[code]; !taken {
			return code, nil
		}
	}
	log.Error().
		Int("attempts", internal.MaxRoomCodeAttempts).
		Int("live_rooms", len(s.rooms)).
		Msg("[CreateRoom] no free room code")
	return "", fmt.Errorf("%w: gave up after %d attempts", internal.ErrIdExhaustion, internal.MaxRoomCodeAttempts)
}

func (s *RoomStore) GetRoom(code string) *internal.Room {
	return s.rooms[code]
}

// AddPlayer appends a new player in join order. Capacity is the caller's
// policy.
func (s *RoomStore) AddPlayer(room *internal.Room, connID, name string) *internal.Player {
	player := internal.NewPlayer(connID, name)
	room.Players = append(room.Players, player)

	log.Info().
		Str("room", room.Code).
		Str("player", connID).
		Str("name", name).
		Int("players", len(room.Players)).
		Msg("[AddPlayer] player joined")
	return player
}

// RoomOf returns the room the connection is playing in, if any.
func (s *RoomStore) RoomOf(connID string) *internal.Room {
	for _, room := range s.rooms {
		if room.IndexOf(connID) >= 0 {
			return room
		}
	}
	return nil
}

// RemovePlayer takes the connection out of whichever room holds it, deleting
// the room once it is empty and handing host to the first remaining player.
// GameState is left alone. Returns nil when the connection is in no room.
func (s *RoomStore) RemovePlayer(connID string) *RemovalResult {
	room := s.RoomOf(connID)
	if room == nil {
		return nil
	}

	index := room.IndexOf(connID)
	removed := room.Players[index]
	room.Players = append(room.Players[:index], room.Players[index+1:]...)

	result := &RemovalResult{
		RoomCode:      room.Code,
		RemovedPlayer: removed,
		RemovedIndex:  index,
	}

	if len(room.Players) == 0 {
		delete(s.rooms, room.Code)
		result.RoomBecameEmpty = true
		log.Info().
			Str("room", room.Code).
			Str("player", connID).
			Msg("[RemovePlayer] last player left, room deleted")
		return result
	}

	if room.HostID == connID {
		room.HostID = room.Players[0].Id
		result.NewHost = room.Players[0]
	}

	log.Info().
		Str("room", room.Code).
		Str("player", connID).
		Str("host", room.HostID).
		Int("players", len(room.Players)).
		Msg("[RemovePlayer] player left")
	return result
}

func (s *RoomStore) Len() int {
	return len(s.rooms)
}
