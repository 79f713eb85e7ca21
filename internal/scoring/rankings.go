// Package scoring orders a session's players into a single final ranking.
// Lower totals are better: the winner of a round scores zero and penalty
// points accumulate against everyone else.
package scoring

import (
	"sort"

	"score-tracker/internal/game"
)

type Ranking struct {
	PlayerID   string
	TotalScore int
	Rank       int
}

// GetRankings ranks every player, active and eliminated, 1..N with no gaps.
// Active players sort by total ascending and take the top ranks. Eliminated
// players follow, ordered by how long they survived: the index of the last
// round containing a score for them, descending, then total ascending.
// Remaining ties keep player-list order.
//
// Rankings are always rebuilt from scratch; a score edit can retroactively
// change any player's elimination, so there is no incremental path.
func GetRankings(s *game.Session) []Ranking {
	totals := game.ComputeTotals(s)
	lastPlayed := lastScoreRoundIndex(s)

	active := s.ActivePlayers()
	eliminated := s.EliminatedPlayers()

	rankedActive := make([]Ranking, 0, len(active))
	for _, p := range active {
		rankedActive = append(rankedActive, Ranking{PlayerID: p.ID, TotalScore: totals[p.ID]})
	}
	sort.SliceStable(rankedActive, func(i, j int) bool {
		return rankedActive[i].TotalScore < rankedActive[j].TotalScore
	})

	rankedEliminated := make([]Ranking, 0, len(eliminated))
	for _, p := range eliminated {
		rankedEliminated = append(rankedEliminated, Ranking{PlayerID: p.ID, TotalScore: totals[p.ID]})
	}
	sort.SliceStable(rankedEliminated, func(i, j int) bool {
		a, b := rankedEliminated[i], rankedEliminated[j]
		if lastPlayed[a.PlayerID] != lastPlayed[b.PlayerID] {
			return lastPlayed[a.PlayerID] > lastPlayed[b.PlayerID]
		}
		return a.TotalScore < b.TotalScore
	})

	rankings := make([]Ranking, 0, len(rankedActive)+len(rankedEliminated))
	rank := 1
	for _, r := range rankedActive {
		r.Rank = rank
		rank++
		rankings = append(rankings, r)
	}
	for _, r := range rankedEliminated {
		r.Rank = rank
		rank++
		rankings = append(rankings, r)
	}
	return rankings
}

// lastScoreRoundIndex maps each player to the index of the last round that
// recorded a score for them, or -1 when they never scored.
func lastScoreRoundIndex(s *game.Session) map[string]int {
	last := make(map[string]int, len(s.Players))
	for _, p := range s.Players {
		last[p.ID] = -1
	}
	for i, round := range s.Rounds {
		for _, entry := range round.Scores {
			if _, ok := last[entry.PlayerID]; ok {
				last[entry.PlayerID] = i
			}
		}
	}
	return last
}
