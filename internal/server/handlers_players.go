package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type createPlayerRequest struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	player, err := s.registry.CreatePlayer(name, strings.TrimSpace(req.Alias))
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	finalID, err := s.persistPlayer(player)
	if err != nil {
		s.log.Error("persist player failed", zap.String("player_id", player.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save player")
		return
	}
	player, _ = s.registry.GetPlayer(finalID)
	s.log.Info("player created", zap.String("player_id", player.ID), zap.String("name", player.Name))
	writeJSON(w, http.StatusCreated, playerPayload(player))
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players := s.registry.ListPlayers()
	list := make([]map[string]any, 0, len(players))
	for _, p := range players {
		list = append(list, playerPayload(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": list})
}

type createGroupRequest struct {
	Name      string   `json:"name"`
	PlayerIDs []string `json:"playerIds"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	for _, id := range req.PlayerIDs {
		if _, ok := s.registry.GetPlayer(id); !ok {
			writeError(w, http.StatusNotFound, "player not found: "+id)
			return
		}
	}
	group, err := s.registry.CreateGroup(name)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	finalID, err := s.persistGroup(group)
	if err != nil {
		s.log.Error("persist group failed", zap.String("group_id", group.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save group")
		return
	}
	for _, playerID := range req.PlayerIDs {
		if err := s.registry.AddPlayerToGroup(finalID, playerID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.persistGroupMember(finalID, playerID); err != nil {
			s.log.Error("persist group member failed", zap.String("group_id", finalID), zap.Error(err))
		}
	}
	group, _ = s.registry.GetGroup(finalID)
	s.log.Info("group created", zap.String("group_id", group.ID), zap.String("name", group.Name))
	writeJSON(w, http.StatusCreated, groupPayload(group))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups := s.registry.ListGroups()
	list := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		list = append(list, groupPayload(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": list})
}

type addGroupMemberRequest struct {
	PlayerID string `json:"playerId"`
}

func (s *Server) handleGroupSubroutes(w http.ResponseWriter, r *http.Request) {
	groupID, action, ok := parseGroupPath(r.URL.Path)
	if !ok || action != "players" {
		http.NotFound(w, r)
		return
	}
	var req addGroupMemberRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.registry.AddPlayerToGroup(groupID, req.PlayerID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err := s.persistGroupMember(groupID, req.PlayerID); err != nil {
		s.log.Error("persist group member failed", zap.String("group_id", groupID), zap.Error(err))
	}
	group, _ := s.registry.GetGroup(groupID)
	writeJSON(w, http.StatusOK, groupPayload(group))
}
