package savedsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"jobmate/match-service/internal/model"
)

// EventNewMatches is the Redis channel notified when a search run records new
// matches. The Gateway forwards it to the owning recruiter over SSE.
const EventNewMatches = "EVENT_SAVED_SEARCH_MATCHES"

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates saved-search evaluation and match bookkeeping.
type Service struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool, rdb *redis.Client) *Service {
	return &Service{pool: pool, rdb: rdb}
}

// ─── Evaluation ──────────────────────────────────────────────────────────────

// Run evaluates one saved search against the candidate pool and records
// matches not seen before. Insertion is idempotent — re-running with an
// unchanged pool reports zero new matches. last_run_at is updated whether or
// not anything new was found. Returns the number of new matches.
func (s *Service) Run(ctx context.Context, searchID string) (int, error) {
	search, err := s.loadSearch(ctx, searchID)
	if err != nil {
		return 0, err
	}
	return s.run(ctx, search)
}

func (s *Service) run(ctx context.Context, search *model.SavedCandidateSearch) (int, error) {
	profiles, err := s.loadCandidatePool(ctx)
	if err != nil {
		return 0, err
	}

	newMatches := 0
	for i := range profiles {
		p := &profiles[i]
		if p.UserID == search.OwnerID {
			continue
		}
		if !MatchesSearch(p, search) {
			continue
		}

		tag, err := s.pool.Exec(ctx,
			`INSERT INTO saved_candidate_matches (search_id, candidate_id)
			 VALUES ($1::uuid, $2)
			 ON CONFLICT (search_id, candidate_id) DO NOTHING`,
			search.ID, p.UserID,
		)
		if err != nil {
			return 0, fmt.Errorf("insert match: %w", err)
		}
		if tag.RowsAffected() > 0 {
			newMatches++
		}
	}

	if _, err := s.pool.Exec(ctx,
		`UPDATE saved_candidate_searches SET last_run_at = NOW() WHERE id = $1::uuid`,
		search.ID,
	); err != nil {
		return 0, fmt.Errorf("update last_run_at: %w", err)
	}

	if newMatches > 0 {
		s.publishNewMatches(ctx, search, newMatches)
	}

	slog.Info("saved search evaluated",
		"searchId", search.ID, "pool", len(profiles), "newMatches", newMatches)
	return newMatches, nil
}

// RunAll evaluates every active saved search. Individual search failures are
// logged and skipped so one broken search cannot stall the sweep.
func (s *Service) RunAll(ctx context.Context) error {
	searches, err := s.loadActiveSearches(ctx)
	if err != nil {
		return err
	}
	for i := range searches {
		if _, err := s.run(ctx, &searches[i]); err != nil {
			slog.Error("saved search run failed", "searchId", searches[i].ID, "err", err)
		}
	}
	return nil
}

// HandleProfileSaved re-evaluates every active saved search after a candidate
// profile changes. Recruiter profiles never enter the candidate pool, so their
// saves are ignored.
func (s *Service) HandleProfileSaved(ctx context.Context, userID string) error {
	var isRecruiter bool
	err := s.pool.QueryRow(ctx,
		`SELECT is_recruiter FROM profiles WHERE user_id = $1`, userID,
	).Scan(&isRecruiter)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("profile lookup: %w", err)
	}
	if isRecruiter {
		return nil
	}
	return s.RunAll(ctx)
}

// publishNewMatches notifies the Gateway that a search gained matches
// (non-fatal).
func (s *Service) publishNewMatches(ctx context.Context, search *model.SavedCandidateSearch, count int) {
	event, _ := json.Marshal(map[string]any{
		"type":       EventNewMatches,
		"searchId":   search.ID,
		"ownerId":    search.OwnerID,
		"newMatches": count,
	})
	if err := s.rdb.Publish(ctx, EventNewMatches, event).Err(); err != nil {
		slog.Warn("publish EVENT_SAVED_SEARCH_MATCHES failed", "err", err)
	}
}

// ─── CRUD / bookkeeping ──────────────────────────────────────────────────────

// CreateParams carries the caller-supplied fields of a new saved search.
type CreateParams struct {
	Name               string `json:"name"`
	Keywords           string `json:"keywords"`
	Location           string `json:"location"`
	MinYearsExperience int    `json:"minYearsExperience"`
}

// Create stores a new saved search for ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, p CreateParams) (*model.SavedCandidateSearch, error) {
	if p.Name == "" {
		return nil, &ValidationError{Msg: "name is required"}
	}
	if p.MinYearsExperience < 0 {
		return nil, &ValidationError{Msg: "minYearsExperience must not be negative"}
	}

	var search model.SavedCandidateSearch
	err := s.pool.QueryRow(ctx,
		`INSERT INTO saved_candidate_searches (owner_id, name, keywords, location, min_years_experience)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id::text, owner_id, name, keywords, location, min_years_experience,
		           is_active, created_at, updated_at, last_run_at, last_notified_at`,
		ownerID, p.Name, p.Keywords, p.Location, p.MinYearsExperience,
	).Scan(
		&search.ID, &search.OwnerID, &search.Name, &search.Keywords, &search.Location,
		&search.MinYearsExperience, &search.IsActive,
		&search.CreatedAt, &search.UpdatedAt, &search.LastRunAt, &search.LastNotifiedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create saved search: %w", err)
	}
	return &search, nil
}

// ListForOwner returns the owner's saved searches, most recently updated
// first, each with its count of unseen matches.
func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]model.SavedCandidateSearch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT sc.id::text, sc.owner_id, sc.name, sc.keywords, sc.location,
		        sc.min_years_experience, sc.is_active,
		        sc.created_at, sc.updated_at, sc.last_run_at, sc.last_notified_at,
		        (SELECT COUNT(*) FROM saved_candidate_matches m
		         WHERE m.search_id = sc.id AND m.seen = false)
		 FROM saved_candidate_searches sc
		 WHERE sc.owner_id = $1
		 ORDER BY sc.updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}
	defer rows.Close()

	searches := make([]model.SavedCandidateSearch, 0)
	for rows.Next() {
		var sc model.SavedCandidateSearch
		if err := rows.Scan(
			&sc.ID, &sc.OwnerID, &sc.Name, &sc.Keywords, &sc.Location,
			&sc.MinYearsExperience, &sc.IsActive,
			&sc.CreatedAt, &sc.UpdatedAt, &sc.LastRunAt, &sc.LastNotifiedAt,
			&sc.UnseenCount,
		); err != nil {
			return nil, fmt.Errorf("scan saved search: %w", err)
		}
		searches = append(searches, sc)
	}
	return searches, rows.Err()
}

// Toggle flips is_active on an owned search and returns the new state.
func (s *Service) Toggle(ctx context.Context, ownerID, searchID string) (bool, error) {
	var active bool
	err := s.pool.QueryRow(ctx,
		`UPDATE saved_candidate_searches
		 SET is_active = NOT is_active, updated_at = NOW()
		 WHERE id = $1::uuid AND owner_id = $2
		 RETURNING is_active`,
		searchID, ownerID,
	).Scan(&active)
	if err != nil {
		return false, ErrNotFound
	}
	return active, nil
}

// Delete removes an owned search (matches cascade).
func (s *Service) Delete(ctx context.Context, ownerID, searchID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM saved_candidate_searches WHERE id = $1::uuid AND owner_id = $2`,
		searchID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete saved search: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMatches returns a search's recorded matches, newest first. Owner only.
func (s *Service) ListMatches(ctx context.Context, ownerID, searchID string) ([]model.SavedCandidateMatch, error) {
	search, err := s.loadSearch(ctx, searchID)
	if err != nil {
		return nil, err
	}
	if search.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, search_id::text, candidate_id, matched_at, seen
		 FROM saved_candidate_matches
		 WHERE search_id = $1::uuid
		 ORDER BY matched_at DESC`,
		searchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]model.SavedCandidateMatch, 0)
	for rows.Next() {
		var m model.SavedCandidateMatch
		if err := rows.Scan(&m.ID, &m.SearchID, &m.CandidateID, &m.MatchedAt, &m.Seen); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// MarkMatchesSeen flips all of a search's unseen matches to seen. The seen
// flag only ever transitions false → true. Also stamps last_notified_at.
func (s *Service) MarkMatchesSeen(ctx context.Context, ownerID, searchID string) (int, error) {
	search, err := s.loadSearch(ctx, searchID)
	if err != nil {
		return 0, err
	}
	if search.OwnerID != ownerID {
		return 0, ErrForbidden
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE saved_candidate_matches SET seen = true
		 WHERE search_id = $1::uuid AND seen = false`,
		searchID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark matches seen: %w", err)
	}

	if _, err := s.pool.Exec(ctx,
		`UPDATE saved_candidate_searches SET last_notified_at = NOW() WHERE id = $1::uuid`,
		searchID,
	); err != nil {
		return 0, fmt.Errorf("update last_notified_at: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// ─── Row loading ─────────────────────────────────────────────────────────────

func (s *Service) loadSearch(ctx context.Context, searchID string) (*model.SavedCandidateSearch, error) {
	var sc model.SavedCandidateSearch
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, owner_id, name, keywords, location, min_years_experience,
		        is_active, created_at, updated_at, last_run_at, last_notified_at
		 FROM saved_candidate_searches WHERE id = $1::uuid`,
		searchID,
	).Scan(
		&sc.ID, &sc.OwnerID, &sc.Name, &sc.Keywords, &sc.Location,
		&sc.MinYearsExperience, &sc.IsActive,
		&sc.CreatedAt, &sc.UpdatedAt, &sc.LastRunAt, &sc.LastNotifiedAt,
	)
	if err != nil {
		return nil, ErrNotFound
	}
	return &sc, nil
}

func (s *Service) loadActiveSearches(ctx context.Context) ([]model.SavedCandidateSearch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, owner_id, name, keywords, location, min_years_experience,
		        is_active, created_at, updated_at, last_run_at, last_notified_at
		 FROM saved_candidate_searches WHERE is_active = true`,
	)
	if err != nil {
		return nil, fmt.Errorf("active searches query: %w", err)
	}
	defer rows.Close()

	searches := make([]model.SavedCandidateSearch, 0)
	for rows.Next() {
		var sc model.SavedCandidateSearch
		if err := rows.Scan(
			&sc.ID, &sc.OwnerID, &sc.Name, &sc.Keywords, &sc.Location,
			&sc.MinYearsExperience, &sc.IsActive,
			&sc.CreatedAt, &sc.UpdatedAt, &sc.LastRunAt, &sc.LastNotifiedAt,
		); err != nil {
			return nil, fmt.Errorf("active searches scan: %w", err)
		}
		searches = append(searches, sc)
	}
	return searches, rows.Err()
}

// loadCandidatePool returns the profiles a saved search may match: active,
// non-recruiter, not private.
func (s *Service) loadCandidatePool(ctx context.Context) ([]model.Profile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.user_id, p.is_recruiter, p.visibility,
		        COALESCE(p.headline, ''), COALESCE(p.skills, ''), COALESCE(p.experience, ''),
		        COALESCE(p.education, ''), COALESCE(p.projects, ''), COALESCE(p.location, '')
		 FROM profiles p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.is_recruiter = false
		   AND u.is_active = true
		   AND p.visibility <> $1`,
		model.VisibilityPrivate,
	)
	if err != nil {
		return nil, fmt.Errorf("search pool query: %w", err)
	}
	defer rows.Close()

	profiles := make([]model.Profile, 0)
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.UserID, &p.IsRecruiter, &p.Visibility,
			&p.Headline, &p.Skills, &p.Experience, &p.Education, &p.Projects, &p.Location); err != nil {
			return nil, fmt.Errorf("search pool scan: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when a saved search does not exist (or is not owned
// by the caller, for owner-scoped writes).
var ErrNotFound = fmt.Errorf("saved search not found")

// ErrForbidden is returned when the caller does not own the search.
var ErrForbidden = fmt.Errorf("forbidden")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
