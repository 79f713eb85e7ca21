// Command verify runs a reference four-player session through the scoring
// and settlement engines and prints the resulting ledger. Handy for spot
// checking payout changes without a running server.
package main

import (
	"fmt"
	"log"
	"time"

	"score-tracker/internal/game"
	"score-tracker/internal/scoring"
	"score-tracker/internal/settlement"
)

func main() {
	players := []game.Player{
		{ID: "player-1", Name: "Alice"},
		{ID: "player-2", Name: "Bob"},
		{ID: "player-3", Name: "Cara"},
		{ID: "player-4", Name: "Dan"},
	}
	session, err := game.NewSession("session-1", "verify run", players,
		game.DefaultConfig(game.TypeRummy), game.TypeRummy, "", time.Now().UTC())
	if err != nil {
		log.Fatalf("new session: %v", err)
	}

	rounds := [][]game.RoundScore{
		{{PlayerID: "player-1", Score: 0}, {PlayerID: "player-2", Score: 40}, {PlayerID: "player-3", Score: 25}, {PlayerID: "player-4", Score: 80}},
		{{PlayerID: "player-1", Score: 30}, {PlayerID: "player-2", Score: 0}, {PlayerID: "player-3", Score: 25}, {PlayerID: "player-4", Score: 80}},
		{{PlayerID: "player-1", Score: 0}, {PlayerID: "player-2", Score: 55}, {PlayerID: "player-3", Score: 25}, {PlayerID: "player-4", Score: 70}},
	}
	for _, scores := range rounds {
		if _, err := session.AddRound(scores, time.Now().UTC()); err != nil {
			log.Fatalf("add round: %v", err)
		}
	}

	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	totals := game.ComputeTotals(session)
	fmt.Println("totals:")
	for _, p := range session.Players {
		status := "active"
		if session.IsPlayerEliminated(p.ID) {
			status = "eliminated"
		}
		fmt.Printf("  %-6s %4d  %s\n", p.Name, totals[p.ID], status)
	}

	fmt.Println("rankings:")
	for _, r := range scoring.GetRankings(session) {
		fmt.Printf("  %d. %s (%d)\n", r.Rank, names[r.PlayerID], r.TotalScore)
	}

	if err := session.End(time.Now().UTC()); err != nil {
		log.Fatalf("end session: %v", err)
	}

	settlements := settlement.CalculateSettlements(session)
	fmt.Printf("pot: %.2f\n", game.ComputePotSize(session))
	fmt.Println("settlements:")
	total := 0.0
	for _, entry := range settlements {
		total += entry.Amount
		fmt.Printf("  %-6s %+.2f\n", names[entry.PlayerID], entry.Amount)
	}
	fmt.Printf("ledger sum: %+.2f\n", total)

	fmt.Println("transfers:")
	for _, tr := range settlement.CalculateTransfers(settlements) {
		fmt.Printf("  %s -> %s  %.2f\n", names[tr.From], names[tr.To], tr.Amount)
	}
}
