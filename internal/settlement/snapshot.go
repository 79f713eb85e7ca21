package settlement

import (
	"time"

	"score-tracker/internal/game"
)

const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// Snapshot freezes a computed settlement for later redisplay. Nothing in it
// is ever recomputed; only Status is toggled externally as debts get paid.
type Snapshot struct {
	ID          string       `json:"id"`
	SessionID   string       `json:"sessionId"`
	Title       string       `json:"title"`
	GameType    game.GameType `json:"gameType"`
	Date        time.Time    `json:"date"`
	PotSize     float64      `json:"potSize"`
	Settlements []Settlement `json:"settlements"`
	Transfers   []Transfer   `json:"transfers"`
	Status      string       `json:"status"`
}

// Freeze captures the given settlement result for a session. Callers pass
// either the standard settlement or the split-pot variant.
func Freeze(id string, s *game.Session, settlements []Settlement, now time.Time) Snapshot {
	return Snapshot{
		ID:          id,
		SessionID:   s.ID,
		Title:       s.Title,
		GameType:    s.Type,
		Date:        now,
		PotSize:     game.ComputePotSize(s),
		Settlements: settlements,
		Transfers:   CalculateTransfers(settlements),
		Status:      StatusUnpaid,
	}
}
