package recs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/match-service/internal/model"
)

// loadJob fetches a single job posting. Returns ErrNotFound when missing.
func loadJob(ctx context.Context, pool *pgxpool.Pool, jobID string) (*model.Job, error) {
	var j model.Job
	err := pool.QueryRow(ctx,
		`SELECT id, user_id, title, description, category, location
		 FROM jobs WHERE id = $1`,
		jobID,
	).Scan(&j.ID, &j.UserID, &j.Title, &j.Description, &j.Category, &j.Location)
	if err != nil {
		return nil, ErrNotFound
	}
	return &j, nil
}

// loadProfile fetches the profile belonging to userID, or nil (no error) when
// the user has no profile — callers treat that as a silent no-op.
func loadProfile(ctx context.Context, pool *pgxpool.Pool, userID string) (*model.Profile, error) {
	var p model.Profile
	err := pool.QueryRow(ctx,
		`SELECT user_id, is_recruiter, visibility,
		        COALESCE(headline, ''), COALESCE(skills, ''), COALESCE(experience, ''),
		        COALESCE(education, ''), COALESCE(projects, ''), COALESCE(location, '')
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.IsRecruiter, &p.Visibility,
		&p.Headline, &p.Skills, &p.Experience, &p.Education, &p.Projects, &p.Location)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile query: %w", err)
	}
	return &p, nil
}

// loadCandidatePool returns every profile eligible for recommendation against
// the given job: non-recruiter, active, non-staff, non-superuser, not private,
// not the job's poster, and not an existing applicant.
func loadCandidatePool(ctx context.Context, pool *pgxpool.Pool, job *model.Job) ([]model.Profile, error) {
	rows, err := pool.Query(ctx,
		`SELECT p.user_id, p.is_recruiter, p.visibility,
		        COALESCE(p.headline, ''), COALESCE(p.skills, ''), COALESCE(p.experience, ''),
		        COALESCE(p.education, ''), COALESCE(p.projects, ''), COALESCE(p.location, '')
		 FROM profiles p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.is_recruiter = false
		   AND u.is_active = true
		   AND u.is_staff = false
		   AND u.is_superuser = false
		   AND p.visibility <> $1
		   AND p.user_id <> $2
		   AND NOT EXISTS (
		     SELECT 1 FROM applications a
		     WHERE a.job_id = $3 AND a.applicant_id = p.user_id
		   )`,
		model.VisibilityPrivate, job.UserID, job.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("candidate pool query: %w", err)
	}
	defer rows.Close()

	profiles := make([]model.Profile, 0)
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.UserID, &p.IsRecruiter, &p.Visibility,
			&p.Headline, &p.Skills, &p.Experience, &p.Education, &p.Projects, &p.Location); err != nil {
			return nil, fmt.Errorf("candidate pool scan: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// loadJobPool returns every job eligible for recommendation to userID:
// everything except the user's own postings and jobs they already applied to.
func loadJobPool(ctx context.Context, pool *pgxpool.Pool, userID string) ([]model.Job, error) {
	rows, err := pool.Query(ctx,
		`SELECT j.id, j.user_id, j.title, j.description, j.category, j.location
		 FROM jobs j
		 WHERE j.user_id <> $1
		   AND NOT EXISTS (
		     SELECT 1 FROM applications a
		     WHERE a.job_id = j.id AND a.applicant_id = $1
		   )`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("job pool query: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.Description, &j.Category, &j.Location); err != nil {
			return nil, fmt.Errorf("job pool scan: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// loadOwnedJobIDs returns the IDs of every job posted by userID.
func loadOwnedJobIDs(ctx context.Context, pool *pgxpool.Pool, userID string) ([]string, error) {
	rows, err := pool.Query(ctx, `SELECT id FROM jobs WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("owned jobs query: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("owned jobs scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
