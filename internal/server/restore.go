package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"score-tracker/internal/db"
	"score-tracker/internal/game"
	"score-tracker/internal/settlement"
)

// sessionForRead resolves a session id, falling back to the database for
// sessions evicted by a restart.
func (s *Server) sessionForRead(id string) (*game.Session, bool) {
	if session, ok := s.store.GetSession(id); ok {
		return session, true
	}
	if s.db == nil {
		return nil, false
	}
	session, err := s.restoreSessionFromDB(dbIDFor(id))
	if err != nil {
		return nil, false
	}
	return session, true
}

func (s *Server) restoreSessionFromDB(dbID uint) (*game.Session, error) {
	if dbID == 0 {
		return nil, errors.New("session not found")
	}
	var record db.Session
	if err := s.db.First(&record, dbID).Error; err != nil {
		return nil, err
	}
	session, err := s.buildSession(record)
	if err != nil {
		return nil, err
	}
	if err := s.store.RestoreSession(session); err != nil {
		// Lost the race against another restore; the loaded copy wins.
		if existing, ok := s.store.GetSession(session.ID); ok {
			return existing, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *Server) buildSession(record db.Session) (*game.Session, error) {
	var seats []db.Seat
	if err := s.db.Where("session_id = ?", record.ID).Order("position asc").Find(&seats).Error; err != nil {
		return nil, err
	}
	players := make([]game.Player, 0, len(seats))
	rebuys := make(map[string]int)
	for _, seat := range seats {
		player, err := s.playerForSeat(seat)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
		if seat.Rebuys > 0 {
			rebuys[player.ID] = seat.Rebuys
		}
	}

	var roundRecords []db.Round
	if err := s.db.Where("session_id = ?", record.ID).Order("number asc").Find(&roundRecords).Error; err != nil {
		return nil, err
	}
	rounds := make([]game.GameRound, 0, len(roundRecords))
	for _, roundRecord := range roundRecords {
		var entries []db.ScoreEntry
		if err := s.db.Where("round_id = ?", roundRecord.ID).Order("id asc").Find(&entries).Error; err != nil {
			return nil, err
		}
		scores := make([]game.RoundScore, 0, len(entries))
		for _, entry := range entries {
			scores = append(scores, game.RoundScore{
				PlayerID: fmt.Sprintf("player-%d", entry.PlayerID),
				Score:    entry.Score,
			})
		}
		rounds = append(rounds, game.GameRound{
			ID:        fmt.Sprintf("round-%d", roundRecord.Number),
			Kind:      game.RoundKind(roundRecord.Kind),
			Scores:    scores,
			Timestamp: roundRecord.PlayedAt,
		})
	}

	session := &game.Session{
		ID:                  fmt.Sprintf("session-%d", record.ID),
		Title:               record.Title,
		Players:             players,
		Config:              buildConfig(record),
		Rounds:              rounds,
		EliminatedPlayerIDs: []string{},
		RebuyCounts:         rebuys,
		IsActive:            record.IsActive,
		StartTime:           record.StartedAt,
		Type:                game.GameType(record.GameType),
	}
	if record.EndedAt != nil {
		session.EndTime = *record.EndedAt
	}
	if record.GroupID != nil {
		session.GroupID = fmt.Sprintf("group-%d", *record.GroupID)
	}
	// Eliminations are derived; rebuilding them beats trusting seat flags.
	game.RefreshEliminations(session)
	return session, nil
}

func (s *Server) playerForSeat(seat db.Seat) (game.Player, error) {
	id := fmt.Sprintf("player-%d", seat.PlayerID)
	if player, ok := s.registry.GetPlayer(id); ok {
		return player, nil
	}
	var record db.Player
	if err := s.db.First(&record, seat.PlayerID).Error; err != nil {
		return game.Player{}, err
	}
	player := game.Player{ID: id, Name: record.Name, Alias: record.Alias}
	s.registry.RestorePlayer(player)
	return player, nil
}

func buildConfig(record db.Session) game.GameConfig {
	return game.GameConfig{
		BuyIn:                record.BuyIn,
		ScootPenalty:         record.ScootPenalty,
		MiddleScootPenalty:   record.MiddleScootPenalty,
		MaxPenalty:           record.MaxPenalty,
		EliminationThreshold: record.EliminationThreshold,
		NumWinners:           record.NumWinners,
	}
}

// restoreAll reloads the registry, session history and snapshots on boot so
// stats and history survive restarts.
func (s *Server) restoreAll() error {
	var players []db.Player
	if err := s.db.Order("id asc").Find(&players).Error; err != nil {
		return err
	}
	for _, record := range players {
		s.registry.RestorePlayer(game.Player{
			ID:    fmt.Sprintf("player-%d", record.ID),
			Name:  record.Name,
			Alias: record.Alias,
		})
	}

	var groups []db.Group
	if err := s.db.Order("id asc").Find(&groups).Error; err != nil {
		return err
	}
	for _, record := range groups {
		var members []db.GroupMember
		if err := s.db.Where("group_id = ?", record.ID).Order("id asc").Find(&members).Error; err != nil {
			return err
		}
		group := game.PlayerGroup{
			ID:   fmt.Sprintf("group-%d", record.ID),
			Name: record.Name,
		}
		for _, member := range members {
			group.PlayerIDs = append(group.PlayerIDs, fmt.Sprintf("player-%d", member.PlayerID))
		}
		s.registry.RestoreGroup(group)
	}

	var sessions []db.Session
	if err := s.db.Order("id asc").Find(&sessions).Error; err != nil {
		return err
	}
	for _, record := range sessions {
		session, err := s.buildSession(record)
		if err != nil {
			return err
		}
		if err := s.store.RestoreSession(session); err != nil {
			return err
		}
	}

	var snapshots []db.Snapshot
	if err := s.db.Order("id asc").Find(&snapshots).Error; err != nil {
		return err
	}
	for _, record := range snapshots {
		snap, err := buildSnapshot(record)
		if err != nil {
			return err
		}
		s.snapshots.Restore(snap)
	}
	return nil
}

func buildSnapshot(record db.Snapshot) (settlement.Snapshot, error) {
	var settlements []settlement.Settlement
	if err := json.Unmarshal(record.Settlements, &settlements); err != nil {
		return settlement.Snapshot{}, err
	}
	var transfers []settlement.Transfer
	if err := json.Unmarshal(record.Transfers, &transfers); err != nil {
		return settlement.Snapshot{}, err
	}
	return settlement.Snapshot{
		ID:          fmt.Sprintf("snapshot-%d", record.ID),
		SessionID:   fmt.Sprintf("session-%d", record.SessionID),
		Title:       record.Title,
		GameType:    game.GameType(record.GameType),
		Date:        record.TakenAt,
		PotSize:     record.PotSize,
		Settlements: settlements,
		Transfers:   transfers,
		Status:      record.Status,
	}, nil
}
