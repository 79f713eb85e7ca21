package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"score-tracker/internal/db"
	"score-tracker/internal/game"
	"score-tracker/internal/settlement"
)

// The in-memory ids carry the database id as a numeric suffix once a record
// is persisted; dbIDFor recovers it. Without a database the suffix is just
// the in-memory counter and every persist call is a no-op.
func dbIDFor(id string) uint {
	return uint(idSortKey(id))
}

func roundNumber(roundID string) int {
	return idSortKey(roundID)
}

func (s *Server) persistSession(session *game.Session) error {
	if s.db == nil {
		return nil
	}
	record := db.Session{
		Title:                session.Title,
		GameType:             string(session.Type),
		BuyIn:                session.Config.BuyIn,
		ScootPenalty:         session.Config.ScootPenalty,
		MiddleScootPenalty:   session.Config.MiddleScootPenalty,
		MaxPenalty:           session.Config.MaxPenalty,
		EliminationThreshold: session.Config.EliminationThreshold,
		NumWinners:           session.Config.NumWinners,
		IsActive:             true,
		StartedAt:            session.StartTime,
	}
	if session.GroupID != "" {
		groupID := dbIDFor(session.GroupID)
		record.GroupID = &groupID
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	newID := fmt.Sprintf("session-%d", record.ID)
	if session.ID != newID {
		s.store.UpdateSessionID(session, newID)
	}
	for i, p := range session.Players {
		if err := s.persistSeat(record.ID, p, i+1); err != nil {
			return err
		}
	}
	return s.persistEvent(session, "session_created", map[string]any{
		"title":    session.Title,
		"gameType": session.Type,
	})
}

func (s *Server) persistSeat(sessionDBID uint, player game.Player, position int) error {
	seat := db.Seat{
		SessionID: sessionDBID,
		PlayerID:  dbIDFor(player.ID),
		Position:  position,
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seat).Error
}

// persistRound stores a round with its score entries and syncs the seat
// state that the round changed. Replaying an already stored round is
// harmless; the unique session+number index catches it.
func (s *Server) persistRound(session *game.Session, round *game.GameRound, eventType string) error {
	if s.db == nil {
		return nil
	}
	record := db.Round{
		SessionID: dbIDFor(session.ID),
		Number:    roundNumber(round.ID),
		Kind:      string(round.Kind),
		PlayedAt:  round.Timestamp,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if !isUniqueViolation(err) {
			return err
		}
		if err := s.db.Where("session_id = ? AND number = ?", record.SessionID, record.Number).
			First(&record).Error; err != nil {
			return err
		}
	}
	for _, entry := range round.Scores {
		score := db.ScoreEntry{
			RoundID:  record.ID,
			PlayerID: dbIDFor(entry.PlayerID),
			Score:    entry.Score,
		}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&score).Error; err != nil {
			return err
		}
	}
	if err := s.syncSeats(session); err != nil {
		return err
	}
	payload := map[string]any{"roundId": round.ID, "kind": round.Kind}
	if len(round.Scores) == 1 {
		payload["playerId"] = round.Scores[0].PlayerID
	}
	return s.persistEvent(session, eventType, payload)
}

func (s *Server) persistJoin(session *game.Session, player game.Player, round *game.GameRound) error {
	if s.db == nil {
		return nil
	}
	if err := s.persistSeat(dbIDFor(session.ID), player, len(session.Players)); err != nil {
		return err
	}
	return s.persistRound(session, round, "player_joined")
}

func (s *Server) persistScoreEdit(session *game.Session, roundID, playerID string, score int) error {
	if s.db == nil {
		return nil
	}
	var record db.Round
	if err := s.db.Where("session_id = ? AND number = ?", dbIDFor(session.ID), roundNumber(roundID)).
		First(&record).Error; err != nil {
		return err
	}
	if err := s.db.Model(&db.ScoreEntry{}).
		Where("round_id = ? AND player_id = ?", record.ID, dbIDFor(playerID)).
		Update("score", score).Error; err != nil {
		return err
	}
	if err := s.syncSeats(session); err != nil {
		return err
	}
	return s.persistEvent(session, "score_edited", map[string]any{
		"roundId":  roundID,
		"playerId": playerID,
		"score":    score,
	})
}

// syncSeats mirrors the derived per-player state. Eliminations and rebuy
// counts can change on any round, rebuy or edit.
func (s *Server) syncSeats(session *game.Session) error {
	sessionDBID := dbIDFor(session.ID)
	for _, p := range session.Players {
		updates := map[string]any{
			"eliminated": session.IsPlayerEliminated(p.ID),
			"rebuys":     session.RebuyCounts[p.ID],
		}
		if err := s.db.Model(&db.Seat{}).
			Where("session_id = ? AND player_id = ?", sessionDBID, dbIDFor(p.ID)).
			Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) persistSessionEnd(session *game.Session) error {
	if s.db == nil {
		return nil
	}
	updates := map[string]any{
		"is_active": false,
		"ended_at":  session.EndTime,
	}
	if err := s.db.Model(&db.Session{}).Where("id = ?", dbIDFor(session.ID)).Updates(updates).Error; err != nil {
		return err
	}
	return s.persistEvent(session, "session_ended", map[string]any{})
}

// persistSnapshot upserts on the session. A refreeze overwrites the stored
// amounts but never the paid status.
func (s *Server) persistSnapshot(snap settlement.Snapshot) error {
	if s.db == nil {
		return nil
	}
	settlements, err := json.Marshal(snap.Settlements)
	if err != nil {
		return err
	}
	transfers, err := json.Marshal(snap.Transfers)
	if err != nil {
		return err
	}
	record := db.Snapshot{
		SessionID:   dbIDFor(snap.SessionID),
		Title:       snap.Title,
		GameType:    string(snap.GameType),
		TakenAt:     snap.Date,
		PotSize:     snap.PotSize,
		Settlements: datatypes.JSON(settlements),
		Transfers:   datatypes.JSON(transfers),
		Status:      snap.Status,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"taken_at", "pot_size", "settlements", "transfers", "updated_at",
		}),
	}).Create(&record).Error
}

func (s *Server) persistSnapshotStatus(snap settlement.Snapshot) error {
	if s.db == nil {
		return nil
	}
	return s.db.Model(&db.Snapshot{}).
		Where("session_id = ?", dbIDFor(snap.SessionID)).
		Update("status", snap.Status).Error
}

// persistPlayer stores a new player and renames the in-memory id to carry
// the database id. A name collision adopts the existing record instead.
func (s *Server) persistPlayer(player game.Player) (string, error) {
	if s.db == nil {
		return player.ID, nil
	}
	record := db.Player{Name: player.Name, Alias: player.Alias}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			var existing db.Player
			if lookupErr := s.db.Where("name = ?", player.Name).First(&existing).Error; lookupErr == nil {
				newID := fmt.Sprintf("player-%d", existing.ID)
				s.registry.UpdatePlayerID(player.ID, newID)
				return newID, nil
			}
		}
		return "", err
	}
	newID := fmt.Sprintf("player-%d", record.ID)
	s.registry.UpdatePlayerID(player.ID, newID)
	return newID, nil
}

func (s *Server) persistGroup(group game.PlayerGroup) (string, error) {
	if s.db == nil {
		return group.ID, nil
	}
	record := db.Group{Name: group.Name}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			var existing db.Group
			if lookupErr := s.db.Where("name = ?", group.Name).First(&existing).Error; lookupErr == nil {
				newID := fmt.Sprintf("group-%d", existing.ID)
				s.registry.UpdateGroupID(group.ID, newID)
				return newID, nil
			}
		}
		return "", err
	}
	newID := fmt.Sprintf("group-%d", record.ID)
	s.registry.UpdateGroupID(group.ID, newID)
	return newID, nil
}

func (s *Server) persistGroupMember(groupID, playerID string) error {
	if s.db == nil {
		return nil
	}
	member := db.GroupMember{
		GroupID:  dbIDFor(groupID),
		PlayerID: dbIDFor(playerID),
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

func (s *Server) persistEvent(session *game.Session, eventType string, payload map[string]any) error {
	if s.db == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		SessionID: dbIDFor(session.ID),
		RoundID:   s.resolveEventRoundID(session),
		PlayerID:  resolveEventPlayerID(payload),
		Type:      eventType,
		Payload:   datatypes.JSON(data),
	}
	return s.db.Create(&event).Error
}

func (s *Server) resolveEventRoundID(session *game.Session) *uint {
	if len(session.Rounds) == 0 {
		return nil
	}
	var record db.Round
	if err := s.db.Where("session_id = ? AND number = ?", dbIDFor(session.ID), len(session.Rounds)).
		First(&record).Error; err != nil {
		return nil
	}
	id := record.ID
	return &id
}

func resolveEventPlayerID(payload map[string]any) *uint {
	raw, ok := payload["playerId"].(string)
	if !ok {
		return nil
	}
	if id := dbIDFor(raw); id != 0 {
		return &id
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
