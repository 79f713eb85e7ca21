package settlement

import (
	"testing"
	"time"
)

func TestRedistributeSplitsRemainderAmongActive(t *testing.T) {
	// Six players, one rebuy: pot 35. Four bust, two stay active. The
	// eliminated rank 3 keeps the buy-in already earned; the remaining 30
	// splits 15/15 between the two survivors.
	session := buildSession(t, []string{"A", "B", "C", "D", "E", "F"}, rummyConfig(3), []map[string]int{
		{"player-1": 10, "player-2": 20, "player-3": 200, "player-4": 230, "player-5": 240, "player-6": 250},
		{"player-1": 0, "player-2": 10, "player-3": 25},
	})
	session.RebuyCounts["player-6"] = 1

	split := RedistributeActive(session)

	// Active players: net 15 minus one buy-in.
	if got := amountFor(t, split, "player-1"); got != 10 {
		t.Fatalf("expected active net +10, got %v", got)
	}
	if got := amountFor(t, split, "player-2"); got != 10 {
		t.Fatalf("expected active net +10, got %v", got)
	}
	// Rank 3 keeps the standard payout of one buy-in: net 0.
	if got := amountFor(t, split, "player-3"); got != 0 {
		t.Fatalf("expected fixed rank 3 net 0, got %v", got)
	}
	// Unpaid eliminated players still just lose their stake.
	if got := amountFor(t, split, "player-4"); got != -5 {
		t.Fatalf("expected -5, got %v", got)
	}
	if got := amountFor(t, split, "player-6"); got != -10 {
		t.Fatalf("expected rebuyer at -10, got %v", got)
	}

	transfers := CalculateTransfers(split)
	balances := replayTransfers(split, transfers)
	for id, balance := range balances {
		if balance > 0.01 || balance < -0.01 {
			t.Fatalf("player %s left unsettled at %v", id, balance)
		}
	}
}

func TestRedistributeNoActivePlayersIsNoOp(t *testing.T) {
	session := buildSession(t, []string{"A", "B"}, rummyConfig(1), []map[string]int{
		{"player-1": 230, "player-2": 240},
	})

	standard := CalculateSettlements(session)
	split := RedistributeActive(session)
	if len(split) != len(standard) {
		t.Fatalf("expected unchanged settlement, got %d entries", len(split))
	}
	for i := range standard {
		if split[i] != standard[i] {
			t.Fatalf("expected no-op, entry %d differs: %+v vs %+v", i, split[i], standard[i])
		}
	}
}

func TestFreezeCapturesDerivedResult(t *testing.T) {
	session := buildSession(t, []string{"Alice", "Bob", "Cara", "Dan"}, rummyConfig(2), []map[string]int{
		{"player-1": 10, "player-2": 50, "player-3": 20, "player-4": 100},
		{"player-1": 0, "player-2": 200, "player-3": 10, "player-4": 150},
	})

	now := time.Unix(1700000000, 0).UTC()
	snap := Freeze("snapshot-1", session, CalculateSettlements(session), now)

	if snap.SessionID != session.ID || snap.Title != session.Title {
		t.Fatalf("snapshot must carry session identity, got %+v", snap)
	}
	if snap.PotSize != 20 {
		t.Fatalf("expected pot 20, got %v", snap.PotSize)
	}
	if snap.Status != StatusUnpaid {
		t.Fatalf("new snapshots start unpaid, got %s", snap.Status)
	}
	if len(snap.Settlements) != 4 || len(snap.Transfers) != 2 {
		t.Fatalf("expected 4 settlements and 2 transfers, got %d and %d", len(snap.Settlements), len(snap.Transfers))
	}
	if !snap.Date.Equal(now) {
		t.Fatalf("expected date %v, got %v", now, snap.Date)
	}
}
