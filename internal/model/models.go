// Package model defines shared data structures for the match service.
package model

import "time"

// Visibility values mirror the profile_visibility enum in PostgreSQL.
const (
	VisibilityPublic     = "PUBLIC"
	VisibilityRecruiters = "RECRUITERS"
	VisibilityPrivate    = "PRIVATE"
)

// Profile is the candidate-side view of the profiles table. The profiles and
// users tables are owned by the accounts service; this service only reads them.
type Profile struct {
	UserID      string
	IsRecruiter bool
	Visibility  string
	Headline    string
	Skills      string
	Experience  string
	Education   string
	Projects    string
	Location    string
}

// CandidateText concatenates the scoring-relevant profile fields, skipping
// empty ones. Returns "" when the profile carries no usable text.
func (p *Profile) CandidateText() string {
	text := ""
	for _, part := range []string{p.Skills, p.Experience, p.Education} {
		if part == "" {
			continue
		}
		if text != "" {
			text += " "
		}
		text += part
	}
	return text
}

// Job is the posting-side view of the jobs table, owned by the jobs service.
type Job struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Category    string
	Location    string
}

// JobText concatenates the fields a candidate is matched against.
func (j *Job) JobText() string {
	return j.Description + " " + j.Title + " " + j.Category
}

// SavedCandidateSearch is a recruiter-owned persistent candidate filter.
type SavedCandidateSearch struct {
	ID                 string
	OwnerID            string
	Name               string
	Keywords           string
	Location           string
	MinYearsExperience int
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	LastRunAt          *time.Time
	LastNotifiedAt     *time.Time
	UnseenCount        int
}

// SavedCandidateMatch records that a candidate matched a saved search.
// Matches are structural filter hits, recorded once and never re-scored.
type SavedCandidateMatch struct {
	ID          string    `json:"id"`
	SearchID    string    `json:"searchId"`
	CandidateID string    `json:"candidateId"`
	MatchedAt   time.Time `json:"matchedAt"`
	Seen        bool      `json:"seen"`
}
