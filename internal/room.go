package internal

// Methods (Room Struct)
func (r *Room) GetPlayerByIndex(index int) *Player {
	if index < 0 || index >= len(r.Players) {
		return nil
	}
	return r.Players[index]
}

func (r *Room) GetPlayer(id string) *Player {
	for _, p := range r.Players {
		if p.Id == id {
			return p
		}
	}
	return nil
}

// IndexOf returns the position of the player in join order, or -1.
func (r *Room) IndexOf(id string) int {
	for i, p := range r.Players {
		if p.Id == id {
			return i
		}
	}
	return -1
}

func (r *Room) GetNextDrawerIndex() int {
	if len(r.Players) == 0 {
		return -1
	}
	return (r.Game.CurrentDrawerIndex + 1) % len(r.Players)
}

func (r *Room) GetPlayerCount() int {
	return len(r.Players)
}

func (r *Room) CanStartGame(minPlayers int) bool {
	return r.GetPlayerCount() >= minPlayers
}

func (r *Room) IsHost(id string) bool {
	return id != "" && r.HostID == id
}

func (r *Room) IsDrawer(id string) bool {
	return r.Game.IsActive && id != "" && r.Game.CurrentDrawerID == id
}

// ResetScores zeroes every individual score; the team score lives in Game.
func (r *Room) ResetScores() {
	for _, p := range r.Players {
		p.Score = 0
	}
}

// Summary is the public lobby view of a room.
func (r *Room) Summary(maxPlayers int) RoomSummary {
	return RoomSummary{
		Code:       r.Code,
		Players:    len(r.Players),
		MaxPlayers: maxPlayers,
		Active:     r.Game.IsActive,
	}
}

// State builds the sanitised room_update payload. The current word and the
// timer handles never leave the server through this path.
func (r *Room) State() RoomStateData {
	return RoomStateData{
		RoomID:  r.Code,
		Players: SnapshotPlayers(r.Players),
		HostID:  r.HostID,
		Settings: GameSettingsData{
			IsGameActive:    r.Game.IsActive,
			CurrentDrawerID: r.Game.CurrentDrawerID,
			TimeLeft:        r.Game.TimeLeftSeconds,
			ScoreGoal:       r.Game.ScoreGoal,
			TeamScore:       r.Game.TeamScore,
		},
	}
}
