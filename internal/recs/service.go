// Package recs contains the recommendation engine business logic: generating,
// storing, listing and dismissing (candidate ↔ job) recommendations.
// It is transport-agnostic — the HTTP layer lives in handler.go, the
// maintenance batch in rebuild.go.
package recs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/match-service/internal/match"
)

// DefaultMinScore is the read-side score floor when the caller supplies none.
const DefaultMinScore = 10

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates recommendation generation and storage.
type Service struct {
	pool *pgxpool.Pool
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// ─── Generation ──────────────────────────────────────────────────────────────

// GenerateCandidateRecommendations recomputes the candidate recommendations
// for one job: scores every eligible profile against the posting, keeps the
// ranked top matches, and upserts them. The upsert overwrites match_score and
// resets is_dismissed — dismissal is not sticky across a refresh. Rows that
// fall outside the new top set are left untouched.
func (s *Service) GenerateCandidateRecommendations(ctx context.Context, jobID string) error {
	job, err := loadJob(ctx, s.pool, jobID)
	if err != nil {
		return err
	}

	candidates, err := loadCandidatePool(ctx, s.pool, job)
	if err != nil {
		return err
	}

	jobText := job.JobText()
	scored := make([]match.Candidate, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i]
		score := match.ScorePair(p.CandidateText(), jobText, p.Location, job.Location)
		scored = append(scored, match.Candidate{TargetID: p.UserID, Score: score})
	}

	top := match.Rank(scored)
	for _, rec := range top {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO candidate_recommendations (job_id, candidate_id, match_score, is_dismissed)
			 VALUES ($1, $2, $3, false)
			 ON CONFLICT (job_id, candidate_id)
			 DO UPDATE SET match_score = EXCLUDED.match_score, is_dismissed = false`,
			job.ID, rec.TargetID, rec.Score,
		)
		if err != nil {
			return fmt.Errorf("upsert candidate recommendation: %w", err)
		}
	}

	slog.Info("candidate recommendations generated",
		"jobId", job.ID, "pool", len(candidates), "stored", len(top))
	return nil
}

// GenerateJobRecommendations recomputes the job recommendations for one
// candidate. Silently no-ops when the user has no profile or is a recruiter.
func (s *Service) GenerateJobRecommendations(ctx context.Context, userID string) error {
	profile, err := loadProfile(ctx, s.pool, userID)
	if err != nil {
		return err
	}
	if profile == nil || profile.IsRecruiter {
		return nil
	}

	jobs, err := loadJobPool(ctx, s.pool, userID)
	if err != nil {
		return err
	}

	candidateText := profile.CandidateText()
	scored := make([]match.Candidate, 0, len(jobs))
	for i := range jobs {
		j := &jobs[i]
		score := match.ScorePair(candidateText, j.JobText(), profile.Location, j.Location)
		scored = append(scored, match.Candidate{TargetID: j.ID, Score: score})
	}

	top := match.Rank(scored)
	for _, rec := range top {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO job_recommendations (candidate_id, job_id, match_score, is_dismissed)
			 VALUES ($1, $2, $3, false)
			 ON CONFLICT (candidate_id, job_id)
			 DO UPDATE SET match_score = EXCLUDED.match_score, is_dismissed = false`,
			userID, rec.TargetID, rec.Score,
		)
		if err != nil {
			return fmt.Errorf("upsert job recommendation: %w", err)
		}
	}

	slog.Info("job recommendations generated",
		"userId", userID, "pool", len(jobs), "stored", len(top))
	return nil
}

// RefreshRecommendations regenerates everything relevant to one user:
// recruiters get candidate recommendations rebuilt for every job they own,
// candidates get their job recommendations rebuilt. A user without a profile
// is a silent no-op.
func (s *Service) RefreshRecommendations(ctx context.Context, userID string) error {
	profile, err := loadProfile(ctx, s.pool, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}

	if !profile.IsRecruiter {
		return s.GenerateJobRecommendations(ctx, userID)
	}

	jobIDs, err := loadOwnedJobIDs(ctx, s.pool, userID)
	if err != nil {
		return err
	}
	for _, id := range jobIDs {
		if err := s.GenerateCandidateRecommendations(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteForApplication removes the recommendation in both directions for a
// (job, applicant) pair. An active application supersedes a recommendation.
func (s *Service) DeleteForApplication(ctx context.Context, jobID, applicantID string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM candidate_recommendations WHERE job_id = $1 AND candidate_id = $2`,
		jobID, applicantID,
	); err != nil {
		return fmt.Errorf("delete candidate recommendation: %w", err)
	}
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM job_recommendations WHERE job_id = $1 AND candidate_id = $2`,
		jobID, applicantID,
	); err != nil {
		return fmt.Errorf("delete job recommendation: %w", err)
	}
	return nil
}

// ─── Read side ───────────────────────────────────────────────────────────────

// CandidateRecommendation is one stored (job → candidate) match.
type CandidateRecommendation struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	CandidateID string    `json:"candidateId"`
	MatchScore  int       `json:"matchScore"`
	CreatedAt   time.Time `json:"createdAt"`
}

// JobRecommendation is one stored (candidate → job) match.
type JobRecommendation struct {
	ID         string    `json:"id"`
	JobID      string    `json:"jobId"`
	MatchScore int       `json:"matchScore"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListCandidateRecommendations returns the non-dismissed recommendations for a
// job with score ≥ minScore, best first. Only the job owner may list them:
// a missing job yields ErrNotFound, a non-owner ErrForbidden.
func (s *Service) ListCandidateRecommendations(ctx context.Context, actorID, jobID string, minScore int) ([]CandidateRecommendation, error) {
	job, err := loadJob(ctx, s.pool, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != actorID {
		return nil, ErrForbidden
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, job_id, candidate_id, match_score, created_at
		 FROM candidate_recommendations
		 WHERE job_id = $1 AND is_dismissed = false AND match_score >= $2
		 ORDER BY match_score DESC, created_at DESC`,
		jobID, minScore,
	)
	if err != nil {
		return nil, fmt.Errorf("list candidate recommendations: %w", err)
	}
	defer rows.Close()

	recs := make([]CandidateRecommendation, 0)
	for rows.Next() {
		var r CandidateRecommendation
		if err := rows.Scan(&r.ID, &r.JobID, &r.CandidateID, &r.MatchScore, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan candidate recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// ListJobRecommendations returns the non-dismissed job recommendations for a
// candidate with score ≥ minScore, best first.
func (s *Service) ListJobRecommendations(ctx context.Context, userID string, minScore int) ([]JobRecommendation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, job_id, match_score, created_at
		 FROM job_recommendations
		 WHERE candidate_id = $1 AND is_dismissed = false AND match_score >= $2
		 ORDER BY match_score DESC, created_at DESC`,
		userID, minScore,
	)
	if err != nil {
		return nil, fmt.Errorf("list job recommendations: %w", err)
	}
	defer rows.Close()

	recs := make([]JobRecommendation, 0)
	for rows.Next() {
		var r JobRecommendation
		if err := rows.Scan(&r.ID, &r.JobID, &r.MatchScore, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan job recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// DismissCandidateRecommendation marks a candidate recommendation dismissed.
// Only the owner of the job it belongs to may dismiss it.
func (s *Service) DismissCandidateRecommendation(ctx context.Context, actorID, recID string) error {
	var ownerID string
	err := s.pool.QueryRow(ctx,
		`SELECT j.user_id
		 FROM candidate_recommendations r
		 JOIN jobs j ON j.id = r.job_id
		 WHERE r.id = $1::uuid`,
		recID,
	).Scan(&ownerID)
	if err != nil {
		return ErrNotFound
	}
	if ownerID != actorID {
		return ErrForbidden
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE candidate_recommendations SET is_dismissed = true WHERE id = $1::uuid`,
		recID,
	)
	if err != nil {
		return fmt.Errorf("dismiss candidate recommendation: %w", err)
	}
	return nil
}

// DismissJobRecommendation marks a job recommendation dismissed. Only the
// candidate it was generated for may dismiss it.
func (s *Service) DismissJobRecommendation(ctx context.Context, actorID, recID string) error {
	var candidateID string
	err := s.pool.QueryRow(ctx,
		`SELECT candidate_id FROM job_recommendations WHERE id = $1::uuid`,
		recID,
	).Scan(&candidateID)
	if err != nil {
		return ErrNotFound
	}
	if candidateID != actorID {
		return ErrForbidden
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE job_recommendations SET is_dismissed = true WHERE id = $1::uuid`,
		recID,
	)
	if err != nil {
		return fmt.Errorf("dismiss job recommendation: %w", err)
	}
	return nil
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when a referenced job, user or recommendation does
// not exist.
var ErrNotFound = fmt.Errorf("not found")

// ErrForbidden is returned when the actor is not the owning party of the
// recommendation they are trying to read or dismiss.
var ErrForbidden = fmt.Errorf("forbidden")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
