package game

import (
	"fmt"
	"testing"
	"time"
)

func testPlayers(names ...string) []Player {
	players := make([]Player, 0, len(names))
	for i, name := range names {
		players = append(players, Player{ID: fmt.Sprintf("player-%d", i+1), Name: name})
	}
	return players
}

func newTestSession(t *testing.T, names ...string) *Session {
	t.Helper()
	cfg := DefaultConfig(TypeRummy)
	session, err := NewSession("session-1", "Friday Rummy", testPlayers(names...), cfg, TypeRummy, "", time.Unix(0, 0).UTC())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return session
}

func addRound(t *testing.T, s *Session, scores map[string]int) {
	t.Helper()
	entries := make([]RoundScore, 0, len(scores))
	for _, p := range s.Players {
		if score, ok := scores[p.ID]; ok {
			entries = append(entries, RoundScore{PlayerID: p.ID, Score: score})
		}
	}
	if _, err := s.AddRound(entries, time.Unix(0, 0).UTC()); err != nil {
		t.Fatalf("AddRound: %v", err)
	}
}

func TestComputeTotalsDefaultsToZero(t *testing.T) {
	session := newTestSession(t, "Alice", "Bob")

	totals := ComputeTotals(session)
	if totals["player-1"] != 0 || totals["player-2"] != 0 {
		t.Fatalf("expected zero totals, got %v", totals)
	}

	addRound(t, session, map[string]int{"player-1": 25})
	totals = ComputeTotals(session)
	if totals["player-1"] != 25 {
		t.Fatalf("expected 25 for player-1, got %d", totals["player-1"])
	}
	if totals["player-2"] != 0 {
		t.Fatalf("player with no scores must stay at zero, got %d", totals["player-2"])
	}
}

func TestComputeTotalsIgnoresUnknownPlayers(t *testing.T) {
	session := newTestSession(t, "Alice")
	session.Rounds = append(session.Rounds, GameRound{
		ID:   "round-1",
		Kind: RoundNormal,
		Scores: []RoundScore{
			{PlayerID: "player-1", Score: 10},
			{PlayerID: "ghost", Score: 99},
		},
	})

	totals := ComputeTotals(session)
	if totals["player-1"] != 10 {
		t.Fatalf("expected 10, got %d", totals["player-1"])
	}
	if _, ok := totals["ghost"]; ok {
		t.Fatal("unknown player must not appear in totals")
	}
}

func TestIsEliminatedStrictThreshold(t *testing.T) {
	cfg := GameConfig{EliminationThreshold: 220}
	if IsEliminated(220, cfg) {
		t.Fatal("a total equal to the threshold stays active")
	}
	if !IsEliminated(221, cfg) {
		t.Fatal("a total above the threshold is eliminated")
	}
}

func TestComputePotSizeWithRebuys(t *testing.T) {
	session := newTestSession(t, "Alice", "Bob", "Cara", "Dan")
	if pot := ComputePotSize(session); pot != 20 {
		t.Fatalf("expected pot 20, got %v", pot)
	}

	session.RebuyCounts["player-2"] = 2
	if pot := ComputePotSize(session); pot != 30 {
		t.Fatalf("expected pot 30 after two rebuys, got %v", pot)
	}
}

func TestComputePotSizeZeroBuyIn(t *testing.T) {
	session := newTestSession(t, "Alice", "Bob")
	session.Config.BuyIn = 0
	session.RebuyCounts["player-1"] = 3
	if pot := ComputePotSize(session); pot != 0 {
		t.Fatalf("zero buy-in must keep the pot at zero, got %v", pot)
	}
}

func TestRefreshEliminationsRecomputesBothWays(t *testing.T) {
	session := newTestSession(t, "Alice", "Bob")
	addRound(t, session, map[string]int{"player-1": 10, "player-2": 230})

	if !session.IsPlayerEliminated("player-2") {
		t.Fatal("expected player-2 eliminated after crossing the threshold")
	}

	if err := session.EditScore("round-1", "player-2", 40); err != nil {
		t.Fatalf("EditScore: %v", err)
	}
	if session.IsPlayerEliminated("player-2") {
		t.Fatal("edit below the threshold must bring the player back")
	}
}
