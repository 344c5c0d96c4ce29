// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the planner over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// Service is the planner surface the server needs.
type Service interface {
	Process(ctx context.Context, message, userID string) (*types.PlannerResponse, error)
	Profile(ctx context.Context, userID string) (types.Profile, error)
	SetProfile(ctx context.Context, userID string, p types.Profile) error
}

// Server is the HTTP boundary.
type Server struct {
	service Service
	cfg     types.ServerConfig
	logger  *zap.Logger
}

func New(cfg types.ServerConfig, service Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{service: service, cfg: cfg, logger: logger}
}

// Handler builds the routed handler with auth, CORS, and request logging
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.requireKey(s.handleChat))
	mux.HandleFunc("GET /user_profile/{id}", s.requireKey(s.handleGetProfile))
	mux.HandleFunc("POST /user_profile/{id}", s.requireKey(s.handleSetProfile))
	return s.logged(cors(mux))
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "AI Health & Fitness Planner API",
		"status":  "active",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := s.service.Process(r.Context(), req.Message, req.UserID)
	if err != nil {
		if errors.Is(err, types.ErrDataMismatch) {
			s.logger.Error("data structure mismatch", zap.Error(err))
			writeError(w, http.StatusInternalServerError,
				"There was a data structure mismatch. Please check the logs.")
			return
		}
		s.logger.Error("chat processing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "An internal server error occurred")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": resp})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	p, err := s.service.Profile(r.Context(), userID)
	if err != nil {
		s.logger.Error("profile lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "An internal server error occurred")
		return
	}
	if p.IsEmpty() {
		writeError(w, http.StatusNotFound, "User profile not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "profile": p})
}

func (s *Server) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	var p types.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid profile body")
		return
	}
	if err := s.service.SetProfile(r.Context(), userID, p); err != nil {
		s.logger.Error("profile store failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "An internal server error occurred")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "profile": p})
}

// requireKey enforces the X-API-Key header. An empty configured key
// disables authentication.
func (s *Server) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey != "" && r.Header.Get("X-API-Key") != s.cfg.APIKey {
			writeError(w, http.StatusUnauthorized, "Invalid API Key")
			return
		}
		next(w, r)
	}
}

func (s *Server) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
