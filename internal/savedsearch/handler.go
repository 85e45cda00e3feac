// HTTP handlers for saved candidate searches.
//
// All routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	GET    /saved-searches                    → list caller's searches (with unseen counts)
//	POST   /saved-searches                    → create a search
//	POST   /saved-searches/{id}/run           → evaluate now, returns new-match count
//	POST   /saved-searches/{id}/toggle        → flip is_active
//	GET    /saved-searches/{id}/matches       → list recorded matches
//	POST   /saved-searches/{id}/matches/seen  → mark all matches seen
//	DELETE /saved-searches/{id}               → delete a search
package savedsearch

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"jobmate/match-service/internal/model"
)

// Handler adapts Service to HTTP.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all saved-search routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/saved-searches", h.handleCollection)
	mux.HandleFunc("/saved-searches/", h.handleItem)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleCollection handles GET|POST /saved-searches
func (h *Handler) handleCollection(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		searches, err := h.svc.ListForOwner(r.Context(), userID)
		if err != nil {
			slog.Error("listSavedSearches failed", "userId", userID, "err", err)
			jsonError(w, "database error", http.StatusInternalServerError)
			return
		}
		jsonOK(w, toSearchResponses(searches))

	case http.MethodPost:
		var params CreateParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		search, err := h.svc.Create(r.Context(), userID, params)
		if err != nil {
			h.writeServiceError(w, "createSavedSearch", err)
			return
		}
		jsonOK(w, toSearchResponse(search, 0))

	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleItem handles /saved-searches/{id}[/action]
func (h *Handler) handleItem(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// parts[0] == "saved-searches"
	switch {
	case len(parts) == 2 && r.Method == http.MethodDelete:
		if err := h.svc.Delete(r.Context(), userID, parts[1]); err != nil {
			h.writeServiceError(w, "deleteSavedSearch", err)
			return
		}
		jsonOK(w, map[string]string{"status": "deleted"})

	case len(parts) == 3 && parts[2] == "run" && r.Method == http.MethodPost:
		h.runSearch(w, r, userID, parts[1])

	case len(parts) == 3 && parts[2] == "toggle" && r.Method == http.MethodPost:
		active, err := h.svc.Toggle(r.Context(), userID, parts[1])
		if err != nil {
			h.writeServiceError(w, "toggleSavedSearch", err)
			return
		}
		jsonOK(w, map[string]bool{"isActive": active})

	case len(parts) == 3 && parts[2] == "matches" && r.Method == http.MethodGet:
		matches, err := h.svc.ListMatches(r.Context(), userID, parts[1])
		if err != nil {
			h.writeServiceError(w, "listMatches", err)
			return
		}
		jsonOK(w, matches)

	case len(parts) == 4 && parts[2] == "matches" && parts[3] == "seen" && r.Method == http.MethodPost:
		n, err := h.svc.MarkMatchesSeen(r.Context(), userID, parts[1])
		if err != nil {
			h.writeServiceError(w, "markMatchesSeen", err)
			return
		}
		jsonOK(w, map[string]int{"markedSeen": n})

	default:
		jsonError(w, "invalid path", http.StatusNotFound)
	}
}

// runSearch enforces ownership before evaluating on demand: Run itself is also
// called by the scheduler and the profile-save consumer, which have no actor.
func (h *Handler) runSearch(w http.ResponseWriter, r *http.Request, userID, searchID string) {
	search, err := h.svc.loadSearch(r.Context(), searchID)
	if err != nil {
		h.writeServiceError(w, "runSavedSearch", err)
		return
	}
	if search.OwnerID != userID {
		jsonError(w, "forbidden", http.StatusForbidden)
		return
	}

	n, err := h.svc.Run(r.Context(), searchID)
	if err != nil {
		h.writeServiceError(w, "runSavedSearch", err)
		return
	}
	jsonOK(w, map[string]int{"newMatches": n})
}

// ─── Response types ───────────────────────────────────────────────────────────

type searchResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Keywords           string  `json:"keywords"`
	Location           string  `json:"location"`
	MinYearsExperience int     `json:"minYearsExperience"`
	IsActive           bool    `json:"isActive"`
	LastRunAt          *string `json:"lastRunAt"`
	UnseenCount        int     `json:"unseenCount"`
}

func toSearchResponse(s *model.SavedCandidateSearch, unseen int) searchResponse {
	resp := searchResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Keywords:           s.Keywords,
		Location:           s.Location,
		MinYearsExperience: s.MinYearsExperience,
		IsActive:           s.IsActive,
		UnseenCount:        unseen,
	}
	if s.LastRunAt != nil {
		formatted := s.LastRunAt.UTC().Format(time.RFC3339)
		resp.LastRunAt = &formatted
	}
	return resp
}

func toSearchResponses(searches []model.SavedCandidateSearch) []searchResponse {
	out := make([]searchResponse, 0, len(searches))
	for i := range searches {
		out = append(out, toSearchResponse(&searches[i], searches[i].UnseenCount))
	}
	return out
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		jsonError(w, "saved search not found", http.StatusNotFound)
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
