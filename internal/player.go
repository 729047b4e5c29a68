package internal

import "time"

type Player struct {
	Id       string    `json:"id"`
	Username string    `json:"name"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"-"`
}

type PlayerSnapshot struct {
	ID       string `json:"id"`
	Username string `json:"name"`
	Score    int    `json:"score"`
}

func NewPlayer(id, username string) *Player {
	return &Player{
		Id:       id,
		Username: username,
		JoinedAt: time.Now(),
	}
}

func CreatePlayerSnapshot(p *Player) PlayerSnapshot {
	return PlayerSnapshot{
		ID:       p.Id,
		Username: p.Username,
		Score:    p.Score,
	}
}

// SnapshotPlayers copies the roster in join order, safe to hand to encoders
// running off the game loop.
func SnapshotPlayers(players []*Player) []PlayerSnapshot {
	out := make([]PlayerSnapshot, 0, len(players))
	for _, p := range players {
		out = append(out, CreatePlayerSnapshot(p))
	}
	return out
}
