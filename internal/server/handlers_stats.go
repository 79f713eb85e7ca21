package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"score-tracker/internal/game"
	"score-tracker/internal/stats"
)

// handleHistory lists ended sessions, each with its frozen settlement
// snapshot when one was taken.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ended := s.store.ListEnded()
	list := make([]map[string]any, 0, len(ended))
	for _, session := range ended {
		entry := map[string]any{
			"id":       session.ID,
			"title":    session.Title,
			"gameType": session.Type,
			"groupId":  session.GroupID,
			"players":  len(session.Players),
			"rounds":   len(session.Rounds),
			"endTime":  formatTime(session.EndTime),
			"potSize":  game.ComputePotSize(session),
		}
		if snap, ok := s.snapshots.GetBySession(session.ID); ok {
			entry["snapshot"] = snapshotPayload(snap)
		}
		list = append(list, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": list})
}

// handleStats serves the leaderboard. Filtered by game type (rummy by
// default) and optionally by group; group stats only count sessions that
// were created for exactly that group.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	gameType := game.GameType(r.URL.Query().Get("gameType"))
	if gameType == "" {
		gameType = game.TypeRummy
	}
	if gameType != game.TypeRummy && gameType != game.TypeUno {
		writeError(w, http.StatusBadRequest, "unknown game type")
		return
	}
	var targetGroup *game.PlayerGroup
	if groupID := r.URL.Query().Get("groupId"); groupID != "" {
		group, ok := s.registry.GetGroup(groupID)
		if !ok {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}
		targetGroup = &group
	}
	leaderboard := stats.CalculatePlayerStats(
		s.store.ListEnded(),
		s.registry.ListPlayers(),
		gameType,
		targetGroup,
		s.snapshots.Map(),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"gameType": gameType,
		"stats":    leaderboard,
	})
}

type snapshotStatusRequest struct {
	Status string `json:"status"`
}

// handleSnapshotSubroutes toggles a snapshot between paid and unpaid.
func (s *Server) handleSnapshotSubroutes(w http.ResponseWriter, r *http.Request) {
	snapshotID, action, ok := parseSnapshotPath(r.URL.Path)
	if !ok || action != "status" {
		http.NotFound(w, r)
		return
	}
	var req snapshotStatusRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	snap, err := s.snapshots.SetStatus(snapshotID, req.Status)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errSnapshotNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	if err := s.persistSnapshotStatus(snap); err != nil {
		s.log.Error("persist snapshot status failed", zap.String("snapshot_id", snap.ID), zap.Error(err))
	}
	s.log.Info("snapshot status updated",
		zap.String("snapshot_id", snap.ID),
		zap.String("status", snap.Status))
	writeJSON(w, http.StatusOK, snapshotPayload(snap))
}
