package db

import (
	"time"

	"gorm.io/datatypes"
)

type Player struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:64;uniqueIndex;not null"`
	Alias     string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Group struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Members   []GroupMember
}

type GroupMember struct {
	ID       uint `gorm:"primaryKey"`
	GroupID  uint `gorm:"index;not null;uniqueIndex:idx_group_members_group_player"`
	PlayerID uint `gorm:"index;not null;uniqueIndex:idx_group_members_group_player"`
}

type Session struct {
	ID                   uint      `gorm:"primaryKey"`
	Title                string    `gorm:"size:128;not null"`
	GameType             string    `gorm:"size:16;not null"`
	GroupID              *uint     `gorm:"index"`
	BuyIn                float64   `gorm:"not null"`
	ScootPenalty         int       `gorm:"not null"`
	MiddleScootPenalty   int       `gorm:"not null"`
	MaxPenalty           int       `gorm:"not null"`
	EliminationThreshold int       `gorm:"not null"`
	NumWinners           int       `gorm:"not null;default:0"`
	IsActive             bool      `gorm:"not null;default:true"`
	StartedAt            time.Time `gorm:"not null"`
	EndedAt              *time.Time
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
	Seats                []Seat
	Rounds               []Round
	Events               []Event
}

// Seat ties a registered player to a session with their in-game state.
type Seat struct {
	ID         uint `gorm:"primaryKey"`
	SessionID  uint `gorm:"index;not null;uniqueIndex:idx_seats_session_player"`
	PlayerID   uint `gorm:"index;not null;uniqueIndex:idx_seats_session_player"`
	Position   int  `gorm:"not null"`
	Eliminated bool `gorm:"not null;default:false"`
	Rebuys     int  `gorm:"not null;default:0"`
}

type Round struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID uint      `gorm:"index;not null;uniqueIndex:idx_rounds_session_number"`
	Number    int       `gorm:"not null;uniqueIndex:idx_rounds_session_number"`
	Kind      string    `gorm:"size:8;not null"`
	PlayedAt  time.Time `gorm:"not null"`
	Scores    []ScoreEntry
}

type ScoreEntry struct {
	ID       uint `gorm:"primaryKey"`
	RoundID  uint `gorm:"index;not null;uniqueIndex:idx_score_entries_round_player"`
	PlayerID uint `gorm:"index;not null;uniqueIndex:idx_score_entries_round_player"`
	Score    int  `gorm:"not null"`
}

// Snapshot is the frozen settlement artifact for an ended session. The
// settlements and transfers are stored exactly as computed; only the status
// column changes afterwards.
type Snapshot struct {
	ID          uint           `gorm:"primaryKey"`
	SessionID   uint           `gorm:"uniqueIndex;not null"`
	Title       string         `gorm:"size:128;not null"`
	GameType    string         `gorm:"size:16;not null"`
	TakenAt     time.Time      `gorm:"not null"`
	PotSize     float64        `gorm:"not null"`
	Settlements datatypes.JSON `gorm:"type:jsonb;not null"`
	Transfers   datatypes.JSON `gorm:"type:jsonb;not null"`
	Status      string         `gorm:"size:8;not null"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	SessionID uint           `gorm:"index;not null"`
	RoundID   *uint          `gorm:"index"`
	PlayerID  *uint          `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
