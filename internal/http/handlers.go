package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"prescription-chatbot/internal/core"
	"prescription-chatbot/pkg"
)

// sessionCookie carries the opaque session token that keys the pending
// prescription.
const sessionCookie = "chat_session"

// AdminStore exposes the read-side queries consumed by the admin view.
type AdminStore interface {
	ListRecords(ctx context.Context) ([]pkg.RecordRow, error)
	Stats(ctx context.Context, today string) (*pkg.AdminStats, error)
}

// Server bundles together the dependencies required by HTTP handlers.  It
// implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Engine *core.Engine
	Admin  AdminStore
}

// NewServer constructs a Server.
func NewServer(engine *core.Engine, admin AdminStore) *Server {
	return &Server{Engine: engine, Admin: admin}
}

// ServeHTTP dispatches incoming requests based on the URL path.  Minimal
// routing logic is implemented here to keep dependencies light.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/chat/start" && r.Method == http.MethodPost:
		s.handleStartChat(w, r)
	case r.URL.Path == "/api/chat/message" && r.Method == http.MethodPost:
		s.handleMessage(w, r)
	case r.URL.Path == "/admin/prescriptions" && r.Method == http.MethodGet:
		s.handleAdminPrescriptions(w, r)
	case r.URL.Path == "/admin/stats" && r.Method == http.MethodGet:
		s.handleAdminStats(w, r)
	default:
		http.NotFound(w, r)
	}
}

// sessionID returns the session token from the request cookie, minting a
// fresh one (and setting the cookie) when absent.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// handleStartChat resets the session and returns the welcome message.
func (s *Server) handleStartChat(w http.ResponseWriter, r *http.Request) {
	var req pkg.TurnRequest
	// The body only carries the patient name; an empty body is fine.
	_ = json.NewDecoder(r.Body).Decode(&req)

	sid := s.sessionID(w, r)
	resp := s.Engine.StartChat(r.Context(), sid)
	writeJSON(w, http.StatusOK, resp)
}

// handleMessage runs one conversation turn.  The turn endpoint always
// answers 200 with a message; collaborator failures are absorbed inside
// the engine.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req pkg.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	sid := s.sessionID(w, r)
	resp := s.Engine.Turn(r.Context(), sid, req.Name, req.Message)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminPrescriptions(w http.ResponseWriter, r *http.Request) {
	records, err := s.Admin.ListRecords(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list prescriptions")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if records == nil {
		records = []pkg.RecordRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"records": records,
	})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format("2006-01-02")
	stats, err := s.Admin.Stats(r.Context(), today)
	if err != nil {
		log.Error().Err(err).Msg("failed to compute stats")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"totalPrescriptions": stats.TotalPrescriptions,
		"todayPrescriptions": stats.TodayPrescriptions,
		"uniquePatients":     stats.UniquePatients,
		"mostPrescribed":     stats.MostPrescribed,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
