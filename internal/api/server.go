// Package api serves a curation session over HTTP.
// GET endpoints are public (read-only observation).
// Curation POSTs are rate limited per IP; restart requires a bearer token
// when an admin key is configured.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/talgya/echo-chamber/internal/citizens"
	"github.com/talgya/echo-chamber/internal/engine"
	"github.com/talgya/echo-chamber/internal/feed"
	"github.com/talgya/echo-chamber/internal/motion"
	"github.com/talgya/echo-chamber/internal/persistence"
)

const (
	maxBodyBytes = 4 * 1024

	// framesPerPush is how many motion frames pass between view pushes.
	framesPerPush = 4
)

// Server serves one session over HTTP. All session access goes through mu.
type Server struct {
	Session  *engine.Session
	Hub      *Hub
	Motion   *motion.Stepper
	DB       *persistence.DB // Optional; decisions fall back to the session log
	Port     int
	AdminKey string        // Bearer token for restart. Empty = restart open.
	Pacing   time.Duration // Delay between a decision and the next day; 0 advances inline
	Origins  []string

	// Limiter guards the state-changing endpoints. Defaults to 30/min, burst 5.
	Limiter *RateLimiter

	mu  sync.Mutex
	gen uint64 // bumped on restart so stale day timers do nothing

	httpServer *http.Server
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	if s.Limiter == nil {
		s.Limiter = NewRateLimiter(30, time.Minute, 5)
	}

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/posts", s.handlePosts)
	mux.HandleFunc("/api/v1/citizens", s.handleCitizens)
	mux.HandleFunc("/api/v1/citizen/", s.handleCitizenDetail)
	mux.HandleFunc("/api/v1/decisions", s.handleDecisions)
	mux.HandleFunc("/api/v1/settings", s.handleSettings)
	if s.Hub != nil {
		mux.Handle("/api/v1/stream", s.Hub)
	}

	// Curation verbs (POST, rate limited).
	for _, a := range []feed.Action{feed.ActionBoost, feed.ActionHide, feed.ActionIgnore} {
		mux.HandleFunc("/api/v1/"+string(a), RateLimitMiddleware(s.Limiter, s.handleDecide(a)))
	}

	// Admin endpoints.
	mux.HandleFunc("/api/v1/restart", RateLimitMiddleware(s.Limiter, s.adminOnly(s.handleRestart)))

	return corsMiddleware(s.Origins, mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Close stops the HTTP listener.
func (s *Server) Close() error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Close()
}

// Frame advances citizen motion by one frame and periodically pushes the
// view to stream viewers. It is the motion loop's frame callback.
func (s *Server) Frame(frame uint64) {
	if s.Motion == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Motion.Step(s.Session.Citizens)
	if frame%framesPerPush == 0 && s.Hub != nil && s.Hub.Viewers() > 0 {
		s.Session.Render()
	}
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Localhost dev servers are always allowed.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth when an admin key
// is configured.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey != "" && !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.Session.View()
	s.mu.Unlock()

	status := map[string]any{
		"name":            "Echo Chamber",
		"session_id":      v.SessionID,
		"day":             v.Day,
		"max_days":        v.MaxDays,
		"engagement":      v.Engagement,
		"mood":            v.Mood,
		"political_bias":  v.Bias,
		"pending":         v.Pending,
		"ended":           v.Ended,
		"active_protests": v.ActiveProtests,
		"scene":           v.Scene,
	}
	if v.Ended {
		status["ending"] = v.Ending
		status["final_days"] = v.FinalDays
	}
	writeJSON(w, status)
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.Session.View()
	s.mu.Unlock()
	writeJSON(w, v.Posts)
}

func (s *Server) handleCitizens(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.Session.View()
	s.mu.Unlock()
	writeJSON(w, v.Citizens)
}

func (s *Server) handleCitizenDetail(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/citizen/")
	if idStr == "" {
		http.Error(w, "missing citizen id", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid citizen id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Session.Citizen(citizens.CitizenID(id))
	if !ok {
		http.Error(w, "citizen not found", http.StatusNotFound)
		return
	}

	view := engine.ProjectCitizen(c, s.Session.Settings)
	writeJSON(w, map[string]any{
		"citizen":             view,
		"recent_posts":        c.Memory.RecentPosts,
		"trust":               c.Memory.TrustInPlatform,
		"momentum":            c.Memory.EmotionalMomentum,
		"decisions_witnessed": c.Memory.DecisionsWitnessed,
		"history_length":      len(c.Memory.EmotionalHistory),
	})
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		log, err := s.DB.Decisions()
		if err == nil {
			writeJSON(w, log)
			return
		}
		slog.Warn("decision log unavailable, serving session copy", "error", err)
	}

	s.mu.Lock()
	log := append([]engine.Decision{}, s.Session.Log...)
	s.mu.Unlock()
	writeJSON(w, log)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		set := s.Session.Settings
		s.mu.Unlock()
		writeJSON(w, set)

	case http.MethodPost:
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		saved, err := persistence.DecodeSettings(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		set := s.Session.Settings.Merge(saved)
		if err := s.Session.SetSettings(set); err != nil {
			slog.Warn("settings applied but not saved", "error", err)
		}
		writeJSON(w, set)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type decideRequest struct {
	PostID string `json:"post_id"`
}

func (s *Server) handleDecide(action feed.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req decideRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.PostID == "" {
			http.Error(w, "post_id required", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		switch {
		case s.Session.Ended:
			http.Error(w, "session has ended; restart to play again", http.StatusConflict)
			return
		case s.Session.Pending:
			http.Error(w, "a decision is already in progress", http.StatusConflict)
			return
		}
		if _, ok := s.Session.Post(req.PostID); !ok {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}

		d, ok := s.Session.Decide(action, req.PostID)
		if !ok {
			http.Error(w, "decision refused", http.StatusConflict)
			return
		}
		s.scheduleAdvance()

		writeJSON(w, map[string]any{
			"decision":   d,
			"engagement": s.Session.State.Engagement,
			"mood":       s.Session.State.Mood,
			"crowd":      s.Session.LastCrowd,
		})
	}
}

// scheduleAdvance moves to the next day after the pacing delay. The caller
// holds mu.
func (s *Server) scheduleAdvance() {
	if s.Pacing <= 0 {
		s.Session.AdvanceDay()
		return
	}
	gen := s.gen
	time.AfterFunc(s.Pacing, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			return
		}
		s.Session.AdvanceDay()
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.Session.Restart()
	if s.Motion != nil {
		s.Motion.Reset()
	}

	writeJSON(w, map[string]any{
		"success":    true,
		"session_id": s.Session.ID,
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
