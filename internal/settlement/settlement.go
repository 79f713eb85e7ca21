// Package settlement turns a session's final ranking into money: rank-based
// payouts from the pot, per-player net balances, and a short list of pairwise
// transfers that clears them.
package settlement

import (
	"sort"

	"score-tracker/internal/game"
	"score-tracker/internal/scoring"
)

// Settlement is one player's net balance at game end. Positive receives,
// negative owes.
type Settlement struct {
	PlayerID string  `json:"playerId"`
	Amount   float64 `json:"amount"`
	Rank     int     `json:"rank"`
}

// PaidPositions returns how many ranks draw a payout. Sessions that predate
// the explicit winner count fall back to the legacy table based on seats.
func PaidPositions(cfg game.GameConfig, playerCount int) int {
	if cfg.NumWinners > 0 {
		return cfg.NumWinners
	}
	switch {
	case playerCount >= 6:
		return 3
	case playerCount >= 4:
		return 2
	default:
		return 1
	}
}

// CalculateSettlements derives the final money position for every player,
// sorted by rank. Net = payout − (buy-in × (1 + rebuys)). The pot equals
// total investment, so amounts sum to zero unless the rank-1 floor in the
// payout schedule triggers; heavy rebuying by out-of-the-money players can
// leave the ledger short, and that shortfall is surfaced rather than
// absorbed into another payout.
func CalculateSettlements(s *game.Session) []Settlement {
	rankings := scoring.GetRankings(s)
	payouts := payoutsByRank(s, rankings)
	return netSettlements(s, rankings, payouts)
}

// payoutsByRank allocates the pot across the paid ranks.
//
// One winner takes the whole pot. With two, the runner-up gets a buy-in back
// and the winner the rest. With three or more, third gets one buy-in, second
// two, and the winner the remainder, floored at zero.
func payoutsByRank(s *game.Session, rankings []scoring.Ranking) map[string]float64 {
	pot := game.ComputePotSize(s)
	buyIn := s.Config.BuyIn
	paid := PaidPositions(s.Config, len(s.Players))

	byRank := make(map[int]string, len(rankings))
	for _, r := range rankings {
		byRank[r.Rank] = r.PlayerID
	}

	payouts := make(map[string]float64)
	switch {
	case paid <= 1:
		if id, ok := byRank[1]; ok {
			payouts[id] = pot
		}
	case paid == 2:
		second := 0.0
		if id, ok := byRank[2]; ok {
			second = buyIn
			payouts[id] = second
		}
		if id, ok := byRank[1]; ok {
			payouts[id] = maxFloat(0, pot-second)
		}
	default:
		second, third := 0.0, 0.0
		if id, ok := byRank[3]; ok {
			third = buyIn
			payouts[id] = third
		}
		if id, ok := byRank[2]; ok {
			second = buyIn * 2
			payouts[id] = second
		}
		if id, ok := byRank[1]; ok {
			payouts[id] = maxFloat(0, pot-second-third)
		}
	}
	return payouts
}

func netSettlements(s *game.Session, rankings []scoring.Ranking, payouts map[string]float64) []Settlement {
	settlements := make([]Settlement, 0, len(rankings))
	for _, r := range rankings {
		invested := s.Config.BuyIn * float64(1+s.RebuyCounts[r.PlayerID])
		settlements = append(settlements, Settlement{
			PlayerID: r.PlayerID,
			Amount:   payouts[r.PlayerID] - invested,
			Rank:     r.Rank,
		})
	}
	sort.SliceStable(settlements, func(i, j int) bool {
		return settlements[i].Rank < settlements[j].Rank
	})
	return settlements
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
