package recs

import (
	"context"
	"fmt"
	"log/slog"
)

// SubjectCount reports how many recommendations one subject ended up with
// after a rebuild.
type SubjectCount struct {
	Kind  string `json:"kind"` // "candidate" or "job"
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RebuildReport summarises a system-wide regeneration run.
type RebuildReport struct {
	Cleared                  bool           `json:"cleared"`
	JobRecommendations       int            `json:"jobRecommendations"`
	CandidateRecommendations int            `json:"candidateRecommendations"`
	Subjects                 []SubjectCount `json:"subjects"`
}

// RebuildAll regenerates every recommendation in the system: job
// recommendations for each candidate profile that has both skills and a
// location, then candidate recommendations for each job. With clear set, both
// tables are emptied first. Safe to re-run — generation is upsert-based.
func (s *Service) RebuildAll(ctx context.Context, clear bool) (*RebuildReport, error) {
	report := &RebuildReport{Cleared: clear}

	if clear {
		if _, err := s.pool.Exec(ctx, `DELETE FROM job_recommendations`); err != nil {
			return nil, fmt.Errorf("clear job recommendations: %w", err)
		}
		if _, err := s.pool.Exec(ctx, `DELETE FROM candidate_recommendations`); err != nil {
			return nil, fmt.Errorf("clear candidate recommendations: %w", err)
		}
		slog.Info("existing recommendations cleared")
	}

	// Candidate side: only profiles with usable skills and location are worth
	// a full job-pool scan.
	rows, err := s.pool.Query(ctx,
		`SELECT user_id FROM profiles
		 WHERE is_recruiter = false
		   AND COALESCE(skills, '') <> ''
		   AND COALESCE(location, '') <> ''`,
	)
	if err != nil {
		return nil, fmt.Errorf("rebuild candidates query: %w", err)
	}
	candidateIDs := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("rebuild candidates scan: %w", err)
		}
		candidateIDs = append(candidateIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, userID := range candidateIDs {
		if err := s.GenerateJobRecommendations(ctx, userID); err != nil {
			return nil, err
		}
		var count int
		if err := s.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM job_recommendations WHERE candidate_id = $1`, userID,
		).Scan(&count); err != nil {
			return nil, fmt.Errorf("rebuild count job recommendations: %w", err)
		}
		if count > 0 {
			report.JobRecommendations += count
			report.Subjects = append(report.Subjects, SubjectCount{
				Kind: "candidate", ID: userID, Label: userID, Count: count,
			})
		}
	}

	// Job side: every posting gets a fresh candidate ranking.
	jrows, err := s.pool.Query(ctx, `SELECT id, title FROM jobs`)
	if err != nil {
		return nil, fmt.Errorf("rebuild jobs query: %w", err)
	}
	type jobRow struct{ id, title string }
	jobRows := make([]jobRow, 0)
	for jrows.Next() {
		var j jobRow
		if err := jrows.Scan(&j.id, &j.title); err != nil {
			jrows.Close()
			return nil, fmt.Errorf("rebuild jobs scan: %w", err)
		}
		jobRows = append(jobRows, j)
	}
	jrows.Close()
	if err := jrows.Err(); err != nil {
		return nil, err
	}

	for _, j := range jobRows {
		if err := s.GenerateCandidateRecommendations(ctx, j.id); err != nil {
			return nil, err
		}
		var count int
		if err := s.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM candidate_recommendations WHERE job_id = $1`, j.id,
		).Scan(&count); err != nil {
			return nil, fmt.Errorf("rebuild count candidate recommendations: %w", err)
		}
		if count > 0 {
			report.CandidateRecommendations += count
			report.Subjects = append(report.Subjects, SubjectCount{
				Kind: "job", ID: j.id, Label: j.title, Count: count,
			})
		}
	}

	slog.Info("rebuild complete",
		"jobRecommendations", report.JobRecommendations,
		"candidateRecommendations", report.CandidateRecommendations)
	return report, nil
}
