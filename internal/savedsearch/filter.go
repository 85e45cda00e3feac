// Package savedsearch implements recruiter-owned persistent candidate
// filters. A saved search is re-evaluated against the candidate pool on
// profile changes and on a periodic sweep; first-seen matches are recorded
// once and never re-scored.
package savedsearch

import (
	"strconv"
	"strings"

	"jobmate/match-service/internal/model"
)

// containsFold reports whether needle appears in haystack, case-insensitively.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// MatchesSearch applies a search's structural filters to one profile. Filters
// combine conjunctively; an unset filter always passes.
//
//   - keywords: substring hit in any of headline, skills, projects,
//     experience or education (OR across fields)
//   - location: substring hit on the profile location
//   - min years: the literal substring "N+" in the experience text — a blunt
//     heuristic, not numeric parsing. It misses phrasings like "over 3 years";
//     kept as-is until requirements say otherwise.
//
// Owner exclusion and pool-level filters (active, non-recruiter, non-private)
// are the caller's responsibility.
func MatchesSearch(p *model.Profile, s *model.SavedCandidateSearch) bool {
	if kw := strings.TrimSpace(s.Keywords); kw != "" {
		hit := containsFold(p.Headline, kw) ||
			containsFold(p.Skills, kw) ||
			containsFold(p.Projects, kw) ||
			containsFold(p.Experience, kw) ||
			containsFold(p.Education, kw)
		if !hit {
			return false
		}
	}

	if s.Location != "" && !containsFold(p.Location, s.Location) {
		return false
	}

	if s.MinYearsExperience > 0 {
		marker := strconv.Itoa(s.MinYearsExperience) + "+"
		if !strings.Contains(p.Experience, marker) {
			return false
		}
	}

	return true
}
