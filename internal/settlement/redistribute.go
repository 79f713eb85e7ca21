package settlement

import (
	"sort"

	"score-tracker/internal/game"
)

// RedistributeActive recomputes the split-pot settlement: payouts already
// earned by eliminated (already-ranked) players stay fixed, and whatever the
// pot has left is divided equally among the players still active. Triggered
// explicitly by the table, never applied automatically.
//
// With no active players there is nothing to split and the standard
// settlement is returned unchanged.
func RedistributeActive(s *game.Session) []Settlement {
	standard := CalculateSettlements(s)
	active := s.ActivePlayers()
	if len(active) == 0 {
		return standard
	}

	activeIDs := make(map[string]struct{}, len(active))
	for _, p := range active {
		activeIDs[p.ID] = struct{}{}
	}

	// Reconstruct each fixed payout from its net amount, then take the
	// remainder of the pot for the split.
	pot := game.ComputePotSize(s)
	remainder := pot
	for _, entry := range standard {
		if _, isActive := activeIDs[entry.PlayerID]; isActive {
			continue
		}
		invested := s.Config.BuyIn * float64(1+s.RebuyCounts[entry.PlayerID])
		remainder -= entry.Amount + invested
	}
	if remainder < 0 {
		remainder = 0
	}
	share := remainder / float64(len(active))

	split := make([]Settlement, 0, len(standard))
	for _, entry := range standard {
		if _, isActive := activeIDs[entry.PlayerID]; isActive {
			invested := s.Config.BuyIn * float64(1+s.RebuyCounts[entry.PlayerID])
			entry.Amount = share - invested
		}
		split = append(split, entry)
	}
	sort.SliceStable(split, func(i, j int) bool {
		return split[i].Rank < split[j].Rank
	})
	return split
}
