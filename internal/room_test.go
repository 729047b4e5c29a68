package internal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoom() *Room {
	return &Room{
		Code: "1234",
		Players: []*Player{
			NewPlayer("a", "A"),
			NewPlayer("b", "B"),
			NewPlayer("c", "C"),
		},
		HostID: "a",
		Game:   NewGameState(DefaultScoreGoal),
	}
}

func TestRoomLookups(t *testing.T) {
	r := testRoom()

	assert.Equal(t, "b", r.GetPlayer("b").Id)
	assert.Nil(t, r.GetPlayer("z"))
	assert.Equal(t, 2, r.IndexOf("c"))
	assert.Equal(t, -1, r.IndexOf("z"))
	assert.Nil(t, r.GetPlayerByIndex(3))
	assert.Nil(t, r.GetPlayerByIndex(-1))
	assert.True(t, r.IsHost("a"))
	assert.False(t, r.IsHost(""))
}

func TestNextDrawerIndexWraps(t *testing.T) {
	r := testRoom()
	assert.Equal(t, 0, r.GetNextDrawerIndex())

	r.Game.CurrentDrawerIndex = 2
	assert.Equal(t, 0, r.GetNextDrawerIndex())

	r.Players = nil
	assert.Equal(t, -1, r.GetNextDrawerIndex())
}

func TestIsDrawerNeedsActiveGame(t *testing.T) {
	r := testRoom()
	r.Game.CurrentDrawerID = "b"
	assert.False(t, r.IsDrawer("b"))

	r.Game.IsActive = true
	assert.True(t, r.IsDrawer("b"))
	assert.False(t, r.IsDrawer("a"))
}

func TestRoomStateHidesWord(t *testing.T) {
	r := testRoom()
	r.Game.IsActive = true
	r.Game.CurrentDrawerID = "a"
	r.Game.CurrentWord = &WordEntry{Display: "ಕ", Transliteration: "ka", Accepted: []string{"ಕ", "ka"}}
	r.Game.TimeLeftSeconds = 42

	raw, err := json.Marshal(NewMessage(EventRoomUpdate, r.State()))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "ಕ")
	assert.NotContains(t, string(raw), `"ka"`)
	assert.Contains(t, string(raw), `"time_left":42`)
	assert.Contains(t, string(raw), `"host_id":"a"`)
}

func TestResetScoresAndSummary(t *testing.T) {
	r := testRoom()
	r.Players[1].Score = 30

	r.ResetScores()
	for _, p := range r.Players {
		assert.Zero(t, p.Score)
	}

	assert.Equal(t, RoomSummary{Code: "1234", Players: 3, MaxPlayers: 8, Active: false}, r.Summary(8))
	assert.True(t, r.CanStartGame(2))
	assert.False(t, r.CanStartGame(4))
}

func TestWordEntryHidesAcceptedAnswers(t *testing.T) {
	raw, err := json.Marshal(YourTurnData{Word: WordEntry{Display: "ಟ", Transliteration: "ṭa", Accepted: []string{"ta"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"word":{"display":"ಟ","transliteration":"ṭa"}}`, string(raw))
}
