package game

import "time"

type GameType string

const (
	TypeRummy GameType = "rummy"
	TypeUno   GameType = "uno"
)

type RoundKind string

const (
	RoundNormal RoundKind = "normal"
	RoundJoin   RoundKind = "join"
	RoundRebuy  RoundKind = "rebuy"
)

type Player struct {
	ID    string
	Name  string
	Alias string
}

type PlayerGroup struct {
	ID        string
	Name      string
	PlayerIDs []string
}

type GameConfig struct {
	BuyIn                float64
	ScootPenalty         int
	MiddleScootPenalty   int
	MaxPenalty           int
	EliminationThreshold int
	// NumWinners zero means the legacy player-count fallback applies.
	NumWinners int
}

// DefaultConfig returns the house defaults for a game type. Uno games are
// not wagered, so their buy-in is zero and the pot stays empty.
func DefaultConfig(gameType GameType) GameConfig {
	cfg := GameConfig{
		BuyIn:                5,
		ScootPenalty:         25,
		MiddleScootPenalty:   40,
		MaxPenalty:           80,
		EliminationThreshold: 220,
	}
	if gameType == TypeUno {
		cfg.BuyIn = 0
		cfg.EliminationThreshold = 500
	}
	return cfg
}

type RoundScore struct {
	PlayerID string
	Score    int
}

type GameRound struct {
	ID        string
	Kind      RoundKind
	Scores    []RoundScore
	Timestamp time.Time
}

type Session struct {
	ID                  string
	Title               string
	Players             []Player
	Config              GameConfig
	Rounds              []GameRound
	EliminatedPlayerIDs []string
	RebuyCounts         map[string]int
	IsActive            bool
	StartTime           time.Time
	EndTime             time.Time
	Type                GameType
	GroupID             string
}

func (s *Session) IsPlayerEliminated(playerID string) bool {
	for _, id := range s.EliminatedPlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func (s *Session) FindPlayer(playerID string) (*Player, bool) {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return &s.Players[i], true
		}
	}
	return nil, false
}

// ActivePlayers returns the players still in the game, in player-list order.
func (s *Session) ActivePlayers() []Player {
	active := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		if !s.IsPlayerEliminated(p.ID) {
			active = append(active, p)
		}
	}
	return active
}

// EliminatedPlayers returns the eliminated players, in player-list order.
func (s *Session) EliminatedPlayers() []Player {
	out := make([]Player, 0)
	for _, p := range s.Players {
		if s.IsPlayerEliminated(p.ID) {
			out = append(out, p)
		}
	}
	return out
}
