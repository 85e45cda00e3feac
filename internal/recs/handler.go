// HTTP handlers for the recommendation engine.
//
// All routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	GET  /jobs/{id}/recommendations               → ranked candidates for a job (owner only)
//	GET  /recommendations                         → ranked jobs for the caller
//	POST /recommendations/refresh                 → regenerate the caller's recommendations
//	POST /candidate-recommendations/{id}/dismiss  → dismiss (job owner only)
//	POST /job-recommendations/{id}/dismiss        → dismiss (candidate only)
package recs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// Handler adapts Service to HTTP.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all recommendation routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/recommendations", h.handleJobRecommendations)
	mux.HandleFunc("/recommendations/refresh", h.handleRefresh)
	mux.HandleFunc("/jobs/", h.handleJobCandidates)
	mux.HandleFunc("/candidate-recommendations/", h.handleDismissCandidate)
	mux.HandleFunc("/job-recommendations/", h.handleDismissJob)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleJobRecommendations handles GET /recommendations
func (h *Handler) handleJobRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	recs, err := h.svc.ListJobRecommendations(r.Context(), userID, minScoreParam(r))
	if err != nil {
		slog.Error("listJobRecommendations failed", "userId", userID, "err", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, recs)
}

// handleRefresh handles POST /recommendations/refresh
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	if err := h.svc.RefreshRecommendations(r.Context(), userID); err != nil {
		slog.Error("refreshRecommendations failed", "userId", userID, "err", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, map[string]string{"status": "refreshed"})
}

// handleJobCandidates handles GET /jobs/{id}/recommendations
func (h *Handler) handleJobCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	// Parse /jobs/{id}/recommendations
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[2] != "recommendations" {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	jobID := parts[1]

	recs, err := h.svc.ListCandidateRecommendations(r.Context(), userID, jobID, minScoreParam(r))
	if err != nil {
		h.writeServiceError(w, "listCandidateRecommendations", err)
		return
	}
	jsonOK(w, recs)
}

// handleDismissCandidate handles POST /candidate-recommendations/{id}/dismiss
func (h *Handler) handleDismissCandidate(w http.ResponseWriter, r *http.Request) {
	h.dismiss(w, r, "candidate-recommendations", h.svc.DismissCandidateRecommendation)
}

// handleDismissJob handles POST /job-recommendations/{id}/dismiss
func (h *Handler) handleDismissJob(w http.ResponseWriter, r *http.Request) {
	h.dismiss(w, r, "job-recommendations", h.svc.DismissJobRecommendation)
}

// dismiss implements the shared POST /{prefix}/{id}/dismiss shape for both
// recommendation directions.
func (h *Handler) dismiss(
	w http.ResponseWriter,
	r *http.Request,
	prefix string,
	fn func(ctx context.Context, actorID, recID string) error,
) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	// Parse /{prefix}/{id}/dismiss
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != prefix || parts[2] != "dismiss" {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	if err := fn(r.Context(), userID, parts[1]); err != nil {
		h.writeServiceError(w, "dismiss", err)
		return
	}
	jsonOK(w, map[string]string{"status": "dismissed"})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// minScoreParam reads the min_score query parameter, defaulting to
// DefaultMinScore. Invalid values fall back to the default.
func minScoreParam(r *http.Request) int {
	if s := r.URL.Query().Get("min_score"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			return v
		}
	}
	return DefaultMinScore
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		jsonError(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		jsonError(w, "forbidden", http.StatusForbidden)
	default:
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			jsonError(w, vErr.Msg, http.StatusBadRequest)
			return
		}
		slog.Error(op+" failed", "err", err)
		jsonError(w, "database error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
