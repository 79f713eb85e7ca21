package server

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"score-tracker/internal/game"
	"score-tracker/internal/settlement"
)

type createSessionRequest struct {
	Title     string         `json:"title"`
	GameType  string         `json:"gameType"`
	PlayerIDs []string       `json:"playerIds"`
	GroupID   string         `json:"groupId"`
	Config    *configRequest `json:"config"`
}

// configRequest carries optional overrides; absent fields keep the house
// defaults for the game type.
type configRequest struct {
	BuyIn                *float64 `json:"buyIn"`
	ScootPenalty         *int     `json:"scootPenalty"`
	MiddleScootPenalty   *int     `json:"middleScootPenalty"`
	MaxPenalty           *int     `json:"maxPenalty"`
	EliminationThreshold *int     `json:"eliminationThreshold"`
	NumWinners           *int     `json:"numWinners"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "create_session") {
		return
	}
	var req createSessionRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	gameType := game.GameType(req.GameType)
	if gameType != game.TypeRummy && gameType != game.TypeUno {
		writeError(w, http.StatusBadRequest, "unknown game type")
		return
	}
	players := make([]game.Player, 0, len(req.PlayerIDs))
	for _, id := range req.PlayerIDs {
		player, ok := s.registry.GetPlayer(id)
		if !ok {
			writeError(w, http.StatusNotFound, "player not found: "+id)
			return
		}
		players = append(players, player)
	}
	if req.GroupID != "" {
		if _, ok := s.registry.GetGroup(req.GroupID); !ok {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}
	}
	cfg := mergeConfig(game.DefaultConfig(gameType), req.Config)

	session, err := s.store.CreateSession(req.Title, players, cfg, gameType, req.GroupID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.persistSession(session); err != nil {
		s.log.Error("persist session failed", zap.String("session_id", session.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	s.log.Info("session created",
		zap.String("session_id", session.ID),
		zap.String("game_type", string(session.Type)),
		zap.Int("players", len(session.Players)))
	s.broadcastHomeUpdate()
	writeJSON(w, http.StatusCreated, scoreboard(session))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": summariesPayload(s.store.ListSummaries()),
	})
}

func (s *Server) handleSessionSubroutes(w http.ResponseWriter, r *http.Request) {
	sessionID, action, ok := parseSessionPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, exists := s.sessionForRead(sessionID); !exists {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	switch {
	case r.Method == http.MethodGet && action == "":
		s.handleGetSession(w, sessionID)
	case r.Method == http.MethodGet && action == "settlement":
		s.handleGetSettlement(w, sessionID)
	case r.Method == http.MethodPost && action == "rounds":
		s.handleAddRound(w, r, sessionID)
	case r.Method == http.MethodPost && action == "rebuy":
		s.handleRebuy(w, r, sessionID)
	case r.Method == http.MethodPost && action == "join":
		s.handleJoin(w, r, sessionID)
	case r.Method == http.MethodPost && action == "scores":
		s.handleEditScore(w, r, sessionID)
	case r.Method == http.MethodPost && action == "end":
		s.handleEndSession(w, sessionID)
	case r.Method == http.MethodPost && action == "redistribute":
		s.handleRedistribute(w, sessionID)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, sessionID string) {
	session, ok := s.store.GetSession(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, scoreboard(session))
}

// handleGetSettlement serves the frozen snapshot when one exists; active
// sessions get a live preview computed from the current standings.
func (s *Server) handleGetSettlement(w http.ResponseWriter, sessionID string) {
	if snap, ok := s.snapshots.GetBySession(sessionID); ok {
		writeJSON(w, http.StatusOK, snapshotPayload(snap))
		return
	}
	session, ok := s.store.GetSession(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, settlementPayload(session, settlement.CalculateSettlements(session)))
}

type addRoundRequest struct {
	Scores []scoreEntryRequest `json:"scores"`
}

type scoreEntryRequest struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

func (s *Server) handleAddRound(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req addRoundRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Scores) == 0 {
		writeError(w, http.StatusBadRequest, "round needs at least one score")
		return
	}
	scores := make([]game.RoundScore, 0, len(req.Scores))
	for _, entry := range req.Scores {
		scores = append(scores, game.RoundScore{PlayerID: entry.PlayerID, Score: entry.Score})
	}
	var round *game.GameRound
	session, err := s.store.UpdateSession(sessionID, func(session *game.Session) error {
		added, err := session.AddRound(scores, time.Now().UTC())
		if err != nil {
			return err
		}
		round = added
		return nil
	})
	if err != nil {
		writeError(w, sessionErrorStatus(err), err.Error())
		return
	}
	if err := s.persistRound(session, round, "round_recorded"); err != nil {
		s.log.Error("persist round failed", zap.String("session_id", session.ID), zap.Error(err))
	}
	s.broadcastSessionUpdate(session)
	writeJSON(w, http.StatusCreated, scoreboard(session))
}

type rebuyRequest struct {
	PlayerID string `json:"playerId"`
}

func (s *Server) handleRebuy(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req rebuyRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var round *game.GameRound
	session, err := s.store.UpdateSession(sessionID, func(session *game.Session) error {
		added, err := session.ApplyRebuy(req.PlayerID, time.Now().UTC())
		if err != nil {
			return err
		}
		round = added
		return nil
	})
	if err != nil {
		writeError(w, sessionErrorStatus(err), err.Error())
		return
	}
	if err := s.persistRound(session, round, "player_rebought"); err != nil {
		s.log.Error("persist rebuy failed", zap.String("session_id", session.ID), zap.Error(err))
	}
	s.log.Info("player rebought",
		zap.String("session_id", session.ID),
		zap.String("player_id", req.PlayerID))
	s.broadcastSessionUpdate(session)
	writeJSON(w, http.StatusOK, scoreboard(session))
}

type joinRequest struct {
	PlayerID string `json:"playerId"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	player, ok := s.registry.GetPlayer(req.PlayerID)
	if !ok {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	var round *game.GameRound
	session, err := s.store.UpdateSession(sessionID, func(session *game.Session) error {
		added, err := session.JoinPlayer(player, time.Now().UTC())
		if err != nil {
			return err
		}
		round = added
		return nil
	})
	if err != nil {
		writeError(w, sessionErrorStatus(err), err.Error())
		return
	}
	if err := s.persistJoin(session, player, round); err != nil {
		s.log.Error("persist join failed", zap.String("session_id", session.ID), zap.Error(err))
	}
	s.log.Info("player joined mid-game",
		zap.String("session_id", session.ID),
		zap.String("player_id", player.ID))
	s.broadcastSessionUpdate(session)
	writeJSON(w, http.StatusOK, scoreboard(session))
}

type editScoreRequest struct {
	RoundID  string `json:"roundId"`
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

func (s *Server) handleEditScore(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req editScoreRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := s.store.UpdateSession(sessionID, func(session *game.Session) error {
		return session.EditScore(req.RoundID, req.PlayerID, req.Score)
	})
	if err != nil {
		writeError(w, sessionErrorStatus(err), err.Error())
		return
	}
	if err := s.persistScoreEdit(session, req.RoundID, req.PlayerID, req.Score); err != nil {
		s.log.Error("persist score edit failed", zap.String("session_id", session.ID), zap.Error(err))
	}
	s.broadcastSessionUpdate(session)
	writeJSON(w, http.StatusOK, scoreboard(session))
}

func (s *Server) handleEndSession(w http.ResponseWriter, sessionID string) {
	now := time.Now().UTC()
	session, err := s.store.UpdateSession(sessionID, func(session *game.Session) error {
		return session.End(now)
	})
	if err != nil {
		writeError(w, sessionErrorStatus(err), err.Error())
		return
	}
	settlements := settlement.CalculateSettlements(session)
	snap := settlement.Freeze(s.snapshots.NextID(), session, settlements, now)
	s.snapshots.Put(snap)
	snap, _ = s.snapshots.GetBySession(session.ID)
	if err := s.persistSessionEnd(session); err != nil {
		s.log.Error("persist session end failed", zap.String("session_id", session.ID), zap.Error(err))
	}
	if err := s.persistSnapshot(snap); err != nil {
		s.log.Error("persist snapshot failed", zap.String("session_id", session.ID), zap.Error(err))
	}
	s.log.Info("session ended",
		zap.String("session_id", session.ID),
		zap.Float64("pot_size", snap.PotSize))
	s.broadcastSessionUpdate(session)
	writeJSON(w, http.StatusOK, snapshotPayload(snap))
}

// handleRedistribute refreezes an ended session with the split-pot
// settlement. Payouts already earned stay fixed; the rest of the pot is
// divided among the players who were still active.
func (s *Server) handleRedistribute(w http.ResponseWriter, sessionID string) {
	session, ok := s.store.GetSession(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if session.IsActive {
		writeError(w, http.StatusConflict, "session is still active")
		return
	}
	split := settlement.RedistributeActive(session)
	snap := settlement.Freeze(s.snapshots.NextID(), session, split, time.Now().UTC())
	s.snapshots.Put(snap)
	snap, _ = s.snapshots.GetBySession(session.ID)
	if err := s.persistSnapshot(snap); err != nil {
		s.log.Error("persist snapshot failed", zap.String("session_id", session.ID), zap.Error(err))
	}
	s.log.Info("pot redistributed", zap.String("session_id", session.ID))
	writeJSON(w, http.StatusOK, snapshotPayload(snap))
}

func mergeConfig(cfg game.GameConfig, overrides *configRequest) game.GameConfig {
	if overrides == nil {
		return cfg
	}
	if overrides.BuyIn != nil {
		cfg.BuyIn = *overrides.BuyIn
	}
	if overrides.ScootPenalty != nil {
		cfg.ScootPenalty = *overrides.ScootPenalty
	}
	if overrides.MiddleScootPenalty != nil {
		cfg.MiddleScootPenalty = *overrides.MiddleScootPenalty
	}
	if overrides.MaxPenalty != nil {
		cfg.MaxPenalty = *overrides.MaxPenalty
	}
	if overrides.EliminationThreshold != nil {
		cfg.EliminationThreshold = *overrides.EliminationThreshold
	}
	if overrides.NumWinners != nil {
		cfg.NumWinners = *overrides.NumWinners
	}
	return cfg
}

func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionEnded):
		return http.StatusConflict
	case errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, game.ErrRoundNotFound),
		errors.Is(err, game.ErrScoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrAlreadyActive),
		errors.Is(err, game.ErrDuplicatePlayer):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func snapshotPayload(snap settlement.Snapshot) map[string]any {
	return map[string]any{
		"id":          snap.ID,
		"sessionId":   snap.SessionID,
		"title":       snap.Title,
		"gameType":    snap.GameType,
		"date":        formatTime(snap.Date),
		"potSize":     snap.PotSize,
		"settlements": snap.Settlements,
		"transfers":   snap.Transfers,
		"status":      snap.Status,
	}
}
