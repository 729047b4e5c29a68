package game

import (
	"testing"

	"github.com/scythe504/kaliyo-backend/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateGuessPoints(t *testing.T) {
	tests := []struct {
		timeLeft int
		want     int
	}{
		{90, 20},
		{0, 10},
		{45, 15},
		{1, 10},
		{5, 11},
		{-3, 10},
		{200, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateGuessPoints(tt.timeLeft, 90), "timeLeft=%d", tt.timeLeft)
	}
	assert.Equal(t, internal.BasePoints, CalculateGuessPoints(10, 0))
}

func TestGuessPointsMonotonicAndBounded(t *testing.T) {
	prev := CalculateGuessPoints(-10, 90)
	for left := -10; left <= 100; left++ {
		got := CalculateGuessPoints(left, 90)
		assert.GreaterOrEqual(t, got, prev, "timeLeft=%d", left)
		assert.GreaterOrEqual(t, got, 10)
		assert.LessOrEqual(t, got, 20)
		prev = got
	}
}

func TestLeaderboard(t *testing.T) {
	players := []*internal.Player{
		{Id: "a", Username: "A", Score: 10},
		{Id: "b", Username: "B", Score: 30},
		{Id: "c", Username: "C", Score: 10},
		{Id: "d", Username: "D", Score: 0},
	}

	board := Leaderboard(players)
	require.Len(t, board, 4)

	var ids []string
	var positions []int
	for _, e := range board {
		ids = append(ids, e.PlayerID)
		positions = append(positions, e.Position)
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids)
	assert.Equal(t, []int{1, 2, 2, 4}, positions)
	assert.Equal(t, "a", players[0].Id, "input order untouched")
}
