// Package api exposes the verification engine over HTTP for browser
// extensions and other local clients.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/trustlens/trustlens/internal/application/handlers"
	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/services"
)

// Server bundles the application handlers behind an HTTP router.
type Server struct {
	verify           *handlers.VerifyHandler
	history          *handlers.HistoryHandler
	weights          *handlers.WeightsHandler
	warningThreshold float64
}

// NewServer creates a new API server.
func NewServer(verify *handlers.VerifyHandler, history *handlers.HistoryHandler, weights *handlers.WeightsHandler, warningThreshold float64) *Server {
	return &Server{
		verify:           verify,
		history:          history,
		weights:          weights,
		warningThreshold: warningThreshold,
	}
}

// Router assembles the HTTP routes. CORS is wide open since the expected
// clients are browser extensions talking to a local daemon.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/verify", s.handleVerify)
		r.Get("/history", s.handleHistory)
		r.Get("/weights", s.handleGetWeights)
		r.Put("/weights", s.handleSetWeights)
		r.Post("/ratings", s.handleRate)
		r.Post("/signals", s.handleSignal)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type verifyRequest struct {
	ContentURL string `json:"content_url"`
	Text       string `json:"text,omitempty"`
	MediaURL   string `json:"media_url,omitempty"`
	SkipAI     bool   `json:"skip_ai,omitempty"`
}

// verifyResponse annotates the result with a presentation hint: content
// scoring below the warning threshold is flagged.
type verifyResponse struct {
	*entities.VerificationResult
	Flagged bool `json:"flagged"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.verify.Handle(r.Context(), req.ContentURL, handlers.VerifyOptions{
		Text:     req.Text,
		MediaURL: req.MediaURL,
		SkipAI:   req.SkipAI,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s.annotate(result))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	results, err := s.history.Handle(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	annotated := make([]verifyResponse, 0, len(results))
	for _, result := range results {
		annotated = append(annotated, s.annotate(result))
	}
	respondJSON(w, http.StatusOK, annotated)
}

func (s *Server) handleGetWeights(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.weights.Get(r.Context()))
}

func (s *Server) handleSetWeights(w http.ResponseWriter, r *http.Request) {
	var updates map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	weights, err := s.weights.Set(r.Context(), updates)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidConfiguration) {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, weights)
}

type rateRequest struct {
	ContentURL string  `json:"content_url"`
	Rating     float64 `json:"rating"`
	RaterID    string  `json:"rater_id,omitempty"`
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.verify.Rate(r.Context(), req.ContentURL, req.Rating, req.RaterID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if result == nil {
		// Rating accepted but the URL has no stored result yet.
		respondJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
		return
	}

	respondJSON(w, http.StatusOK, s.annotate(result))
}

type signalRequest struct {
	ContentURL string          `json:"content_url"`
	Factor     entities.Factor `json:"factor"`
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	var req signalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.verify.SubmitSignal(r.Context(), req.ContentURL, req.Factor)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s.annotate(result))
}

func (s *Server) annotate(result *entities.VerificationResult) verifyResponse {
	return verifyResponse{
		VerificationResult: result,
		Flagged:            result.TrustScore < s.warningThreshold,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
