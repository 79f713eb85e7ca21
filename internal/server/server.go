package server

import (
	"net/http"

	"score-tracker/internal/config"
	"score-tracker/internal/game"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	store     *game.Store
	registry  *registry
	snapshots *snapshotStore
	db        *gorm.DB
	ws        *wsHub
	homeWS    *homeHub
	cfg       config.Config
	log       *zap.Logger
	limiter   *rateLimiter
}

func New(conn *gorm.DB, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &Server{
		store:     game.NewStore(),
		registry:  newRegistry(),
		snapshots: newSnapshotStore(),
		db:        conn,
		ws:        newWSHub(),
		homeWS:    newHomeHub(),
		cfg:       cfg,
		log:       logger,
		limiter:   newRateLimiter(cfg.SessionCreatesPerMinute),
	}
	if conn != nil {
		if err := srv.restoreAll(); err != nil {
			logger.Warn("state restore failed", zap.Error(err))
		}
	}
	return srv
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/sessions/", s.handleSessionSubroutes)
	mux.HandleFunc("POST /api/sessions/", s.handleSessionSubroutes)
	mux.HandleFunc("GET /api/players", s.handleListPlayers)
	mux.HandleFunc("POST /api/players", s.handleCreatePlayer)
	mux.HandleFunc("GET /api/groups", s.handleListGroups)
	mux.HandleFunc("POST /api/groups", s.handleCreateGroup)
	mux.HandleFunc("POST /api/groups/", s.handleGroupSubroutes)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/snapshots/", s.handleSnapshotSubroutes)
	mux.HandleFunc("GET /ws/sessions/", s.handleSessionWebsocket)
	mux.HandleFunc("GET /ws/home", s.handleHomeWebsocket)
	return mux
}
