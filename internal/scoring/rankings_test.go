package scoring

import (
	"fmt"
	"testing"
	"time"

	"score-tracker/internal/game"
)

func buildSession(t *testing.T, names []string, rounds []map[string]int) *game.Session {
	t.Helper()
	players := make([]game.Player, 0, len(names))
	for i, name := range names {
		players = append(players, game.Player{ID: fmt.Sprintf("player-%d", i+1), Name: name})
	}
	cfg := game.DefaultConfig(game.TypeRummy)
	session, err := game.NewSession("session-1", "Rummy night", players, cfg, game.TypeRummy, "", time.Unix(0, 0).UTC())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	for _, scores := range rounds {
		entries := make([]game.RoundScore, 0, len(scores))
		for _, p := range players {
			if score, ok := scores[p.ID]; ok {
				entries = append(entries, game.RoundScore{PlayerID: p.ID, Score: score})
			}
		}
		if _, err := session.AddRound(entries, time.Unix(0, 0).UTC()); err != nil {
			t.Fatalf("AddRound: %v", err)
		}
	}
	return session
}

func TestGetRankingsIsAPermutation(t *testing.T) {
	session := buildSession(t, []string{"Alice", "Bob", "Cara", "Dan", "Eve"}, []map[string]int{
		{"player-1": 10, "player-2": 230, "player-3": 30, "player-4": 250, "player-5": 40},
	})

	rankings := GetRankings(session)
	if len(rankings) != 5 {
		t.Fatalf("expected 5 rankings, got %d", len(rankings))
	}
	seen := make(map[int]bool)
	for _, r := range rankings {
		if r.Rank < 1 || r.Rank > 5 {
			t.Fatalf("rank out of range: %d", r.Rank)
		}
		if seen[r.Rank] {
			t.Fatalf("duplicate rank %d", r.Rank)
		}
		seen[r.Rank] = true
	}
}

func TestGetRankingsActiveBeforeEliminated(t *testing.T) {
	// Totals: Alice 10, Bob 250 (out), Cara 30, Dan 250 (out).
	session := buildSession(t, []string{"Alice", "Bob", "Cara", "Dan"}, []map[string]int{
		{"player-1": 10, "player-2": 50, "player-3": 20, "player-4": 100},
		{"player-1": 0, "player-2": 200, "player-3": 10, "player-4": 150},
	})

	rankings := GetRankings(session)
	want := []struct {
		playerID string
		total    int
		rank     int
	}{
		{"player-1", 10, 1},
		{"player-3", 30, 2},
		{"player-2", 250, 3},
		{"player-4", 250, 4},
	}
	for i, expected := range want {
		got := rankings[i]
		if got.PlayerID != expected.playerID || got.TotalScore != expected.total || got.Rank != expected.rank {
			t.Fatalf("position %d: expected %+v, got %+v", i, expected, got)
		}
	}
}

func TestEliminatedTieBreakByLastRoundPlayed(t *testing.T) {
	// Bob busts in round 1 and stops scoring; Dan busts in round 3.
	// Dan survived longer, so Dan outranks Bob despite the higher total.
	session := buildSession(t, []string{"Alice", "Bob", "Cara", "Dan"}, []map[string]int{
		{"player-1": 10, "player-2": 230, "player-3": 20, "player-4": 100},
		{"player-1": 0, "player-3": 10, "player-4": 80},
		{"player-1": 5, "player-3": 15, "player-4": 90},
	})

	rankings := GetRankings(session)
	if rankings[2].PlayerID != "player-4" || rankings[2].Rank != 3 {
		t.Fatalf("expected Dan at rank 3, got %+v", rankings[2])
	}
	if rankings[3].PlayerID != "player-2" || rankings[3].Rank != 4 {
		t.Fatalf("expected Bob at rank 4, got %+v", rankings[3])
	}
}

func TestEliminatedTieBreakFallsBackToScoreThenOrder(t *testing.T) {
	// Both bust in the same round with equal totals; player-list order holds.
	session := buildSession(t, []string{"Alice", "Bob", "Cara"}, []map[string]int{
		{"player-1": 10, "player-2": 250, "player-3": 250},
	})

	rankings := GetRankings(session)
	if rankings[1].PlayerID != "player-2" || rankings[2].PlayerID != "player-3" {
		t.Fatalf("expected stable order Bob then Cara, got %+v", rankings)
	}
}

func TestGetRankingsIdempotent(t *testing.T) {
	session := buildSession(t, []string{"Alice", "Bob", "Cara"}, []map[string]int{
		{"player-1": 10, "player-2": 240, "player-3": 30},
	})

	first := GetRankings(session)
	second := GetRankings(session)
	if len(first) != len(second) {
		t.Fatalf("length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("rankings changed between calls at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
