// Package stats aggregates finished sessions into per-player leaderboard
// numbers: podium finishes, rounds won, and hat-tricks.
package stats

import (
	"sort"

	"score-tracker/internal/game"
	"score-tracker/internal/scoring"
	"score-tracker/internal/settlement"
)

type PlayerStats struct {
	PlayerID     string `json:"playerId"`
	PlayerName   string `json:"playerName"`
	FirstPlace   int    `json:"firstPlace"`
	SecondPlace  int    `json:"secondPlace"`
	ThirdPlace   int    `json:"thirdPlace"`
	HatTricks    int    `json:"hatTricks"`
	RoundsWon    int    `json:"roundsWon"`
	TotalPodiums int    `json:"totalPodiums"`
	TotalMatches int    `json:"totalMatches"`
}

// CalculatePlayerStats tallies stats for the given players across history.
// Sessions are filtered to the game type, and when a group is given, to
// sessions created for exactly that group (no overlapping-player heuristics).
// A persisted settlement snapshot takes precedence over recomputed rankings
// so manually split pots keep their recorded placements.
//
// Podium places only count when the rank was a paid position in that
// session. Rounds won are zero-score rounds; a hat-trick is a run of three
// consecutive zero rounds, counted non-overlapping.
func CalculatePlayerStats(
	history []*game.Session,
	players []game.Player,
	gameType game.GameType,
	targetGroup *game.PlayerGroup,
	snapshots map[string]settlement.Snapshot,
) []PlayerStats {
	relevant := players
	if targetGroup != nil {
		member := make(map[string]struct{}, len(targetGroup.PlayerIDs))
		for _, id := range targetGroup.PlayerIDs {
			member[id] = struct{}{}
		}
		filtered := make([]game.Player, 0, len(players))
		for _, p := range players {
			if _, ok := member[p.ID]; ok {
				filtered = append(filtered, p)
			}
		}
		relevant = filtered
	}

	byID := make(map[string]*PlayerStats, len(relevant))
	ordered := make([]*PlayerStats, 0, len(relevant))
	for _, p := range relevant {
		entry := &PlayerStats{PlayerID: p.ID, PlayerName: p.Name}
		byID[p.ID] = entry
		ordered = append(ordered, entry)
	}

	for _, session := range history {
		if session.Type != gameType {
			continue
		}
		if targetGroup != nil && session.GroupID != targetGroup.ID {
			continue
		}
		tallySession(session, snapshots, byID)
	}

	result := make([]PlayerStats, 0, len(ordered))
	for _, entry := range ordered {
		entry.TotalPodiums = entry.FirstPlace + entry.SecondPlace + entry.ThirdPlace
		result = append(result, *entry)
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.FirstPlace != b.FirstPlace {
			return a.FirstPlace > b.FirstPlace
		}
		if a.SecondPlace != b.SecondPlace {
			return a.SecondPlace > b.SecondPlace
		}
		if a.ThirdPlace != b.ThirdPlace {
			return a.ThirdPlace > b.ThirdPlace
		}
		return a.TotalPodiums > b.TotalPodiums
	})
	return result
}

func tallySession(session *game.Session, snapshots map[string]settlement.Snapshot, byID map[string]*PlayerStats) {
	paid := settlement.PaidPositions(session.Config, len(session.Players))

	for _, placement := range sessionRanks(session, snapshots) {
		entry, ok := byID[placement.playerID]
		if !ok {
			continue
		}
		entry.TotalMatches++
		switch {
		case placement.rank == 1 && paid >= 1:
			entry.FirstPlace++
		case placement.rank == 2 && paid >= 2:
			entry.SecondPlace++
		case placement.rank == 3 && paid >= 3:
			entry.ThirdPlace++
		}
	}

	for _, p := range session.Players {
		entry, ok := byID[p.ID]
		if !ok {
			continue
		}
		wins, hatTricks := countZeroRuns(session, p.ID)
		entry.RoundsWon += wins
		entry.HatTricks += hatTricks
	}
}

type placement struct {
	playerID string
	rank     int
}

// sessionRanks prefers the frozen snapshot's placements; recomputation is
// the fallback for sessions that were never settled or split.
func sessionRanks(session *game.Session, snapshots map[string]settlement.Snapshot) []placement {
	if snap, ok := snapshots[session.ID]; ok {
		placements := make([]placement, 0, len(snap.Settlements))
		for _, entry := range snap.Settlements {
			placements = append(placements, placement{playerID: entry.PlayerID, rank: entry.Rank})
		}
		return placements
	}
	rankings := scoring.GetRankings(session)
	placements := make([]placement, 0, len(rankings))
	for _, r := range rankings {
		placements = append(placements, placement{playerID: r.PlayerID, rank: r.Rank})
	}
	return placements
}

// countZeroRuns walks a player's recorded scores in round order, counting
// zero-score rounds and non-overlapping runs of three of them. A run of six
// zeros is two hat-tricks; five is one, remainder discarded.
func countZeroRuns(session *game.Session, playerID string) (wins, hatTricks int) {
	streak := 0
	for _, round := range session.Rounds {
		for _, entry := range round.Scores {
			if entry.PlayerID != playerID {
				continue
			}
			if entry.Score == 0 {
				wins++
				streak++
				if streak == 3 {
					hatTricks++
					streak = 0
				}
			} else {
				streak = 0
			}
		}
	}
	return wins, hatTricks
}
