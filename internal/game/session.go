package game

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSessionEnded    = errors.New("session already ended")
	ErrPlayerNotFound  = errors.New("player not in session")
	ErrRoundNotFound   = errors.New("round not found")
	ErrScoreNotFound   = errors.New("no score recorded for player in round")
	ErrDuplicatePlayer = errors.New("player already in session")
	ErrNoPlayers       = errors.New("session needs at least one player")
	ErrDuplicateScore  = errors.New("duplicate score entry for player")
	ErrUnknownScorer   = errors.New("score entry references unknown player")
	ErrAlreadyActive   = errors.New("player is still active")
)

// NewSession creates a session at game start. Rounds, eliminations and rebuy
// counts begin empty; everything derived from them is recomputed on demand.
func NewSession(id, title string, players []Player, cfg GameConfig, gameType GameType, groupID string, now time.Time) (*Session, error) {
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if _, dup := seen[p.ID]; dup {
			return nil, ErrDuplicatePlayer
		}
		seen[p.ID] = struct{}{}
	}
	return &Session{
		ID:                  id,
		Title:               title,
		Players:             append([]Player(nil), players...),
		Config:              cfg,
		Rounds:              []GameRound{},
		EliminatedPlayerIDs: []string{},
		RebuyCounts:         make(map[string]int),
		IsActive:            true,
		StartTime:           now,
		Type:                gameType,
		GroupID:             groupID,
	}, nil
}

// AddRound appends a normal round of scores and refreshes the eliminated
// set from the new totals.
func (s *Session) AddRound(scores []RoundScore, now time.Time) (*GameRound, error) {
	if !s.IsActive {
		return nil, ErrSessionEnded
	}
	seen := make(map[string]struct{}, len(scores))
	for _, entry := range scores {
		if _, ok := s.FindPlayer(entry.PlayerID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScorer, entry.PlayerID)
		}
		if _, dup := seen[entry.PlayerID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScore, entry.PlayerID)
		}
		seen[entry.PlayerID] = struct{}{}
	}
	round := GameRound{
		ID:        s.nextRoundID(),
		Kind:      RoundNormal,
		Scores:    append([]RoundScore(nil), scores...),
		Timestamp: now,
	}
	s.Rounds = append(s.Rounds, round)
	RefreshEliminations(s)
	return &s.Rounds[len(s.Rounds)-1], nil
}

// ApplyRebuy re-enters an eliminated player. Their rebuy count goes up, the
// elimination is cleared, and a synthetic rebuy round levels their total
// with the highest total still in play.
func (s *Session) ApplyRebuy(playerID string, now time.Time) (*GameRound, error) {
	if !s.IsActive {
		return nil, ErrSessionEnded
	}
	if _, ok := s.FindPlayer(playerID); !ok {
		return nil, ErrPlayerNotFound
	}
	if !s.IsPlayerEliminated(playerID) {
		return nil, ErrAlreadyActive
	}

	// Adjustment is derived before the elimination is cleared so the
	// re-entering player is excluded from the active totals.
	totals := ComputeTotals(s)
	adjustment := highestActiveTotal(s) - totals[playerID]

	s.RebuyCounts[playerID]++
	remaining := s.EliminatedPlayerIDs[:0]
	for _, id := range s.EliminatedPlayerIDs {
		if id != playerID {
			remaining = append(remaining, id)
		}
	}
	s.EliminatedPlayerIDs = remaining

	round := GameRound{
		ID:        s.nextRoundID(),
		Kind:      RoundRebuy,
		Scores:    []RoundScore{{PlayerID: playerID, Score: adjustment}},
		Timestamp: now,
	}
	s.Rounds = append(s.Rounds, round)
	return &s.Rounds[len(s.Rounds)-1], nil
}

// JoinPlayer seats a new player mid-game. A synthetic join round starts
// them level with the highest active total so the late seat carries no
// advantage.
func (s *Session) JoinPlayer(p Player, now time.Time) (*GameRound, error) {
	if !s.IsActive {
		return nil, ErrSessionEnded
	}
	if _, exists := s.FindPlayer(p.ID); exists {
		return nil, ErrDuplicatePlayer
	}
	start := highestActiveTotal(s)
	s.Players = append(s.Players, p)
	round := GameRound{
		ID:        s.nextRoundID(),
		Kind:      RoundJoin,
		Scores:    []RoundScore{{PlayerID: p.ID, Score: start}},
		Timestamp: now,
	}
	s.Rounds = append(s.Rounds, round)
	return &s.Rounds[len(s.Rounds)-1], nil
}

// EditScore changes one recorded entry. Rounds are otherwise immutable, so
// this is the single mutation that can rewrite history; the eliminated set
// is rebuilt from scratch afterwards because the edit may flip any player's
// status retroactively.
func (s *Session) EditScore(roundID, playerID string, score int) error {
	if !s.IsActive {
		return ErrSessionEnded
	}
	for i := range s.Rounds {
		if s.Rounds[i].ID != roundID {
			continue
		}
		for j := range s.Rounds[i].Scores {
			if s.Rounds[i].Scores[j].PlayerID == playerID {
				s.Rounds[i].Scores[j].Score = score
				RefreshEliminations(s)
				return nil
			}
		}
		return ErrScoreNotFound
	}
	return ErrRoundNotFound
}

// End closes the session. Ended sessions refuse every mutation.
func (s *Session) End(now time.Time) error {
	if !s.IsActive {
		return ErrSessionEnded
	}
	s.IsActive = false
	s.EndTime = now
	return nil
}

func (s *Session) nextRoundID() string {
	return fmt.Sprintf("round-%d", len(s.Rounds)+1)
}
