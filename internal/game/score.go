package game

import (
	"math"
	"sort"

	"github.com/scythe504/kaliyo-backend/internal"
)

// =============================================================================
// SCORING
// =============================================================================

// CalculateGuessPoints awards the flat base plus a bonus that shrinks
// linearly with the time already spent: 10 at the buzzer, 20 instantly.
func CalculateGuessPoints(timeLeftSeconds, turnSeconds int) int {
	if turnSeconds <= 0 {
		return internal.BasePoints
	}
	remaining := min(max(timeLeftSeconds, 0), turnSeconds)
	bonus := math.Round(float64(internal.BasePoints*remaining) / float64(turnSeconds))
	return internal.BasePoints + int(bonus)
}

// Leaderboard ranks players by individual score. Ties share a position and
// keep join order.
func Leaderboard(players []*internal.Player) []internal.LeaderboardEntry {
	entries := make([]internal.LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, internal.LeaderboardEntry{
			PlayerID: p.Id,
			Username: p.Username,
			Score:    p.Score,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Position = entries[i-1].Position
			continue
		}
		entries[i].Position = i + 1
	}
	return entries
}
