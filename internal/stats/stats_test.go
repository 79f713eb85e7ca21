package stats

import (
	"fmt"
	"testing"
	"time"

	"score-tracker/internal/game"
	"score-tracker/internal/settlement"
)

func buildSession(t *testing.T, id string, names []string, cfg game.GameConfig, rounds []map[string]int) *game.Session {
	t.Helper()
	players := make([]game.Player, 0, len(names))
	for i, name := range names {
		players = append(players, game.Player{ID: fmt.Sprintf("player-%d", i+1), Name: name})
	}
	session, err := game.NewSession(id, "Rummy night", players, cfg, game.TypeRummy, "", time.Unix(0, 0).UTC())
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

func statsFor(t *testing.T, list []PlayerStats, playerID string) PlayerStats {
	t.Helper()
	for _, s := range list {
		if s.PlayerID == playerID {
			return s
		}
	}
	t.Fatalf("no stats for %s", playerID)
	return PlayerStats{}
}

func playersOf(s *game.Session) []game.Player {
	return append([]game.Player(nil), s.Players...)
}

func TestHatTricksAndRoundsWon(t *testing.T) {
	// Six straight zero rounds then a seventh with points: two hat-tricks,
	// six rounds won.
	rounds := make([]map[string]int, 0, 7)
	for i := 0; i < 6; i++ {
		rounds = append(rounds, map[string]int{"player-1": 0, "player-2": 10})
	}
	rounds = append(rounds, map[string]int{"player-1": 7, "player-2": 0})
	session := buildSession(t, "session-1", []string{"Alice", "Bob"}, game.DefaultConfig(game.TypeRummy), rounds)

	result := CalculatePlayerStats([]*game.Session{session}, playersOf(session), game.TypeRummy, nil, nil)

	alice := statsFor(t, result, "player-1")
	if alice.RoundsWon != 6 {
		t.Fatalf("expected 6 rounds won, got %d", alice.RoundsWon)
	}
	if alice.HatTricks != 2 {
		t.Fatalf("expected 2 hat-tricks, got %d", alice.HatTricks)
	}

	bob := statsFor(t, result, "player-2")
	if bob.RoundsWon != 1 || bob.HatTricks != 0 {
		t.Fatalf("expected Bob 1 round won and no hat-tricks, got %+v", bob)
	}
}

func TestHatTrickRunOfFiveCountsOnce(t *testing.T) {
	rounds := make([]map[string]int, 0, 5)
	for i := 0; i < 5; i++ {
		rounds = append(rounds, map[string]int{"player-1": 0, "player-2": 10})
	}
	session := buildSession(t, "session-1", []string{"Alice", "Bob"}, game.DefaultConfig(game.TypeRummy), rounds)

	result := CalculatePlayerStats([]*game.Session{session}, playersOf(session), game.TypeRummy, nil, nil)
	if got := statsFor(t, result, "player-1").HatTricks; got != 1 {
		t.Fatalf("expected 1 hat-trick from a run of five, got %d", got)
	}
}

func TestPodiumGatedByPaidPositions(t *testing.T) {
	// Three players: the legacy fallback pays a single position, so only
	// first place counts toward the podium tallies.
	session := buildSession(t, "session-1", []string{"Alice", "Bob", "Cara"}, game.DefaultConfig(game.TypeRummy), []map[string]int{
		{"player-1": 0, "player-2": 20, "player-3": 30},
	})

	result := CalculatePlayerStats([]*game.Session{session}, playersOf(session), game.TypeRummy, nil, nil)

	if got := statsFor(t, result, "player-1"); got.FirstPlace != 1 || got.TotalMatches != 1 {
		t.Fatalf("expected a counted win, got %+v", got)
	}
	if got := statsFor(t, result, "player-2"); got.SecondPlace != 0 {
		t.Fatalf("unpaid second place must not count, got %+v", got)
	}
}

func TestStatsFilterByGameTypeAndGroup(t *testing.T) {
	cfg := game.DefaultConfig(game.TypeRummy)
	inGroup := buildSession(t, "session-1", []string{"Alice", "Bob"}, cfg, []map[string]int{
		{"player-1": 0, "player-2": 20},
	})
	inGroup.GroupID = "group-1"
	otherGroup := buildSession(t, "session-2", []string{"Alice", "Bob"}, cfg, []map[string]int{
		{"player-1": 20, "player-2": 0},
	})
	otherGroup.GroupID = "group-2"
	unoSession := buildSession(t, "session-3", []string{"Alice", "Bob"}, cfg, []map[string]int{
		{"player-1": 20, "player-2": 0},
	})
	unoSession.Type = game.TypeUno

	history := []*game.Session{inGroup, otherGroup, unoSession}
	group := &game.PlayerGroup{ID: "group-1", Name: "Thursday table", PlayerIDs: []string{"player-1", "player-2"}}

	result := CalculatePlayerStats(history, playersOf(inGroup), game.TypeRummy, group, nil)

	alice := statsFor(t, result, "player-1")
	if alice.TotalMatches != 1 {
		t.Fatalf("group scoping must keep only exact matches, got %d matches", alice.TotalMatches)
	}
	if alice.FirstPlace != 1 {
		t.Fatalf("expected 1 first place, got %d", alice.FirstPlace)
	}
}

func TestStatsPreferSnapshotRanks(t *testing.T) {
	// Recomputed rankings would put Alice first; the frozen split-pot
	// snapshot says Bob won, and the snapshot wins.
	cfg := game.DefaultConfig(game.TypeRummy)
	cfg.NumWinners = 2
	session := buildSession(t, "session-1", []string{"Alice", "Bob"}, cfg, []map[string]int{
		{"player-1": 0, "player-2": 20},
	})

	snapshots := map[string]settlement.Snapshot{
		"session-1": {
			ID:        "snapshot-1",
			SessionID: "session-1",
			Settlements: []settlement.Settlement{
				{PlayerID: "player-2", Amount: 5, Rank: 1},
				{PlayerID: "player-1", Amount: -5, Rank: 2},
			},
		},
	}

	result := CalculatePlayerStats([]*game.Session{session}, playersOf(session), game.TypeRummy, nil, snapshots)

	if got := statsFor(t, result, "player-2"); got.FirstPlace != 1 {
		t.Fatalf("expected snapshot rank to count, got %+v", got)
	}
	if got := statsFor(t, result, "player-1"); got.FirstPlace != 0 || got.SecondPlace != 1 {
		t.Fatalf("expected Alice second per snapshot, got %+v", got)
	}
}

func TestStatsOlympicSortOrder(t *testing.T) {
	cfg := game.DefaultConfig(game.TypeRummy)
	cfg.NumWinners = 2

	// Bob wins two sessions, Alice wins one, Cara never places.
	sessions := []*game.Session{
		buildSession(t, "session-1", []string{"Alice", "Bob", "Cara"}, cfg, []map[string]int{
			{"player-1": 10, "player-2": 0, "player-3": 30},
		}),
		buildSession(t, "session-2", []string{"Alice", "Bob", "Cara"}, cfg, []map[string]int{
			{"player-1": 10, "player-2": 0, "player-3": 30},
		}),
		buildSession(t, "session-3", []string{"Alice", "Bob", "Cara"}, cfg, []map[string]int{
			{"player-1": 0, "player-2": 10, "player-3": 30},
		}),
	}

	result := CalculatePlayerStats(sessions, playersOf(sessions[0]), game.TypeRummy, nil, nil)
	if result[0].PlayerID != "player-2" || result[1].PlayerID != "player-1" || result[2].PlayerID != "player-3" {
		t.Fatalf("expected Bob, Alice, Cara; got %s, %s, %s", result[0].PlayerID, result[1].PlayerID, result[2].PlayerID)
	}
}
