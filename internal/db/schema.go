package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL creates the tables owned by the match service. The users,
// profiles, jobs and applications tables belong to the accounts/jobs services
// and are only read here — they are never created or altered by this service.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS candidate_recommendations (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	job_id       TEXT        NOT NULL,
	candidate_id TEXT        NOT NULL,
	match_score  INTEGER     NOT NULL DEFAULT 0,
	is_dismissed BOOLEAN     NOT NULL DEFAULT false,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	viewed_at    TIMESTAMPTZ,
	UNIQUE (job_id, candidate_id)
);
CREATE INDEX IF NOT EXISTS idx_candidate_recs_job_score
	ON candidate_recommendations (job_id, match_score DESC);

CREATE TABLE IF NOT EXISTS job_recommendations (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	candidate_id TEXT        NOT NULL,
	job_id       TEXT        NOT NULL,
	match_score  INTEGER     NOT NULL DEFAULT 0,
	is_dismissed BOOLEAN     NOT NULL DEFAULT false,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	viewed_at    TIMESTAMPTZ,
	UNIQUE (candidate_id, job_id)
);
CREATE INDEX IF NOT EXISTS idx_job_recs_candidate_score
	ON job_recommendations (candidate_id, match_score DESC);

CREATE TABLE IF NOT EXISTS saved_candidate_searches (
	id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	owner_id             TEXT         NOT NULL,
	name                 VARCHAR(120) NOT NULL,
	keywords             VARCHAR(255) NOT NULL DEFAULT '',
	location             VARCHAR(255) NOT NULL DEFAULT '',
	min_years_experience INTEGER      NOT NULL DEFAULT 0,
	is_active            BOOLEAN      NOT NULL DEFAULT true,
	created_at           TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at           TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	last_run_at          TIMESTAMPTZ,
	last_notified_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_saved_searches_owner_active
	ON saved_candidate_searches (owner_id, is_active);

CREATE TABLE IF NOT EXISTS saved_candidate_matches (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	search_id    UUID        NOT NULL REFERENCES saved_candidate_searches(id) ON DELETE CASCADE,
	candidate_id TEXT        NOT NULL,
	matched_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	seen         BOOLEAN     NOT NULL DEFAULT false,
	UNIQUE (search_id, candidate_id)
);
CREATE INDEX IF NOT EXISTS idx_saved_matches_search_seen
	ON saved_candidate_matches (search_id, seen, matched_at DESC);
`

// EnsureSchema creates the match-service tables if they do not exist yet.
// Idempotent — safe to run on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
