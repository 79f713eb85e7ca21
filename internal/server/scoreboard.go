package server

import (
	"time"

	"score-tracker/internal/game"
	"score-tracker/internal/scoring"
	"score-tracker/internal/settlement"
)

// scoreboard builds the full session payload served from the session GET
// and pushed over the session websocket after every mutation. Totals,
// rankings and the pot are always rebuilt from the rounds.
func scoreboard(s *game.Session) map[string]any {
	totals := game.ComputeTotals(s)
	return map[string]any{
		"id":            s.ID,
		"title":         s.Title,
		"gameType":      s.Type,
		"isActive":      s.IsActive,
		"startTime":     formatTime(s.StartTime),
		"endTime":       formatTime(s.EndTime),
		"groupId":       s.GroupID,
		"config":        configPayload(s.Config),
		"players":       playersPayload(s, totals),
		"rounds":        roundsPayload(s),
		"rankings":      rankingsPayload(scoring.GetRankings(s)),
		"potSize":       game.ComputePotSize(s),
		"paidPositions": settlement.PaidPositions(s.Config, len(s.Players)),
	}
}

func configPayload(cfg game.GameConfig) map[string]any {
	return map[string]any{
		"buyIn":                cfg.BuyIn,
		"scootPenalty":         cfg.ScootPenalty,
		"middleScootPenalty":   cfg.MiddleScootPenalty,
		"maxPenalty":           cfg.MaxPenalty,
		"eliminationThreshold": cfg.EliminationThreshold,
		"numWinners":           cfg.NumWinners,
	}
}

func playersPayload(s *game.Session, totals map[string]int) []map[string]any {
	list := make([]map[string]any, 0, len(s.Players))
	for _, p := range s.Players {
		list = append(list, map[string]any{
			"id":         p.ID,
			"name":       p.Name,
			"alias":      p.Alias,
			"total":      totals[p.ID],
			"eliminated": s.IsPlayerEliminated(p.ID),
			"rebuys":     s.RebuyCounts[p.ID],
		})
	}
	return list
}

func roundsPayload(s *game.Session) []map[string]any {
	rounds := make([]map[string]any, 0, len(s.Rounds))
	for _, round := range s.Rounds {
		scores := make([]map[string]any, 0, len(round.Scores))
		for _, entry := range round.Scores {
			scores = append(scores, map[string]any{
				"playerId": entry.PlayerID,
				"score":    entry.Score,
			})
		}
		rounds = append(rounds, map[string]any{
			"id":        round.ID,
			"kind":      round.Kind,
			"timestamp": formatTime(round.Timestamp),
			"scores":    scores,
		})
	}
	return rounds
}

func rankingsPayload(rankings []scoring.Ranking) []map[string]any {
	list := make([]map[string]any, 0, len(rankings))
	for _, r := range rankings {
		list = append(list, map[string]any{
			"playerId":   r.PlayerID,
			"totalScore": r.TotalScore,
			"rank":       r.Rank,
		})
	}
	return list
}

// settlementPayload pairs a settlement result with the transfer plan that
// clears it. Used for both the on-demand preview and the frozen snapshot.
func settlementPayload(s *game.Session, settlements []settlement.Settlement) map[string]any {
	return map[string]any{
		"sessionId":   s.ID,
		"potSize":     game.ComputePotSize(s),
		"settlements": settlements,
		"transfers":   settlement.CalculateTransfers(settlements),
	}
}

func playerPayload(p game.Player) map[string]any {
	return map[string]any{
		"id":    p.ID,
		"name":  p.Name,
		"alias": p.Alias,
	}
}

func groupPayload(g game.PlayerGroup) map[string]any {
	return map[string]any{
		"id":        g.ID,
		"name":      g.Name,
		"playerIds": g.PlayerIDs,
	}
}

func summariesPayload(summaries []game.SessionSummary) []map[string]any {
	list := make([]map[string]any, 0, len(summaries))
	for _, s := range summaries {
		list = append(list, map[string]any{
			"id":       s.ID,
			"title":    s.Title,
			"gameType": s.Type,
			"players":  s.Players,
			"rounds":   s.Rounds,
			"isActive": s.IsActive,
		})
	}
	return list
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
