// Package stub is an offline stand-in for the health service. It answers
// /predict and /get_data from an embedded dataset, plus a rule-based chat
// assistant, so the client can be run and tested without the real backend.
package stub

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayushhealth/ayushbot/internal/chatsvc"
	"github.com/ayushhealth/ayushbot/internal/predictor"
)

// Token is what /auth/login hands out.
const Token = "stub-access-token"

// Server serves the stub endpoints.
type Server struct {
	ds      *Dataset
	logging bool

	mu      sync.Mutex
	history []chatsvc.Entry
}

// Option configures a Server.
type Option func(*Server)

// WithRequestLog turns on chi's request logger.
func WithRequestLog() Option {
	return func(s *Server) { s.logging = true }
}

// New creates a server over ds.
func New(ds *Dataset, opts ...Option) *Server {
	s := &Server{ds: ds}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	if s.logging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Post(predictor.PathPredict, s.handlePredict)
	r.Post(predictor.PathGetData, s.handleGetData)
	r.Post(chatsvc.PathLogin, s.handleLogin)
	r.Post(chatsvc.PathSend, s.handleChatSend)
	r.Get(chatsvc.PathHistory, s.handleChatHistory)
	r.Post(chatsvc.PathClear, s.handleChatClear)
	return r
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var q predictor.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	writeJSON(w, http.StatusOK, s.ds.Rank(q))
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	var q predictor.RemedyQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	e, ok := s.ds.Lookup(q.Disease, q.Age, q.Gender)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No data found"})
		return
	}
	writeJSON(w, http.StatusOK, lists(e.Bundle))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": Token, "role": "patient"})
}

func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No message provided"})
		return
	}
	reply := Reply(in.Message)

	s.mu.Lock()
	s.history = append(s.history,
		chatsvc.Entry{Sender: "user", Message: in.Message},
		chatsvc.Entry{Sender: "bot", Message: reply.Message},
	)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	h := append([]chatsvc.Entry{}, s.history...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"history": h})
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
}

// lists replaces nil lists so the bundle never carries a null.
func lists(b predictor.Bundle) predictor.Bundle {
	for _, l := range []*[]string{&b.AyurvedicRemedies, &b.Yoga, &b.AyurvedicDiet, &b.FoodAvoid, &b.Remedy} {
		if *l == nil {
			*l = []string{}
		}
	}
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
