package game

// ComputeTotals sums every recorded score per player across all rounds,
// including the synthetic adjustment entries carried by join and rebuy
// rounds. Every listed player starts at zero; entries referencing a player
// not in the session are dropped.
func ComputeTotals(s *Session) map[string]int {
	totals := make(map[string]int, len(s.Players))
	for _, p := range s.Players {
		totals[p.ID] = 0
	}
	for _, round := range s.Rounds {
		for _, entry := range round.Scores {
			if _, ok := totals[entry.PlayerID]; !ok {
				continue
			}
			totals[entry.PlayerID] += entry.Score
		}
	}
	return totals
}

// IsEliminated reports whether a running total crosses the elimination
// threshold. The comparison is strict: a player sitting exactly on the
// threshold stays in the game.
func IsEliminated(total int, cfg GameConfig) bool {
	return total > cfg.EliminationThreshold
}

// ComputePotSize returns the total money collected: one buy-in per seated
// player plus one per rebuy. A zero buy-in keeps the pot at zero.
func ComputePotSize(s *Session) float64 {
	pot := s.Config.BuyIn * float64(len(s.Players))
	for _, count := range s.RebuyCounts {
		pot += s.Config.BuyIn * float64(count)
	}
	return pot
}

// RefreshEliminations rebuilds the eliminated set from current totals.
// Totals are the only ground truth here: an edited score can eliminate a
// player retroactively or bring one back, so the set is recomputed from
// scratch rather than patched.
func RefreshEliminations(s *Session) {
	totals := ComputeTotals(s)
	eliminated := make([]string, 0, len(s.EliminatedPlayerIDs))
	for _, p := range s.Players {
		if IsEliminated(totals[p.ID], s.Config) {
			eliminated = append(eliminated, p.ID)
		}
	}
	s.EliminatedPlayerIDs = eliminated
}

// highestActiveTotal returns the largest running total among players still
// in the game, or zero when nobody is active. Rebuys and late joiners start
// from this value so they re-enter level with the trailing survivor.
func highestActiveTotal(s *Session) int {
	totals := ComputeTotals(s)
	max := 0
	for _, p := range s.ActivePlayers() {
		if totals[p.ID] > max {
			max = totals[p.ID]
		}
	}
	return max
}
