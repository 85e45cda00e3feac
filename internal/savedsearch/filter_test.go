package savedsearch_test

import (
	"testing"

	"jobmate/match-service/internal/model"
	"jobmate/match-service/internal/savedsearch"
)

func sampleProfile() *model.Profile {
	return &model.Profile{
		UserID:     "u-1",
		Headline:   "Senior Backend Engineer",
		Skills:     "Go, PostgreSQL, Redis",
		Projects:   "Built a matching engine for a marketplace",
		Experience: "5+ years building distributed systems",
		Education:  "MSc Computer Science",
		Location:   "Lyon, France",
	}
}

// ── Keyword filter ─────────────────────────────────────────────────────────

func TestMatchesSearch_KeywordAcrossFields(t *testing.T) {
	cases := []struct {
		name    string
		keyword string
	}{
		{"headline hit", "backend"},
		{"skills hit", "postgresql"},
		{"projects hit", "matching engine"},
		{"experience hit", "distributed"},
		{"education hit", "computer science"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := &model.SavedCandidateSearch{Keywords: c.keyword}
			if !savedsearch.MatchesSearch(sampleProfile(), s) {
				t.Errorf("keyword %q should match", c.keyword)
			}
		})
	}
}

func TestMatchesSearch_KeywordCaseInsensitive(t *testing.T) {
	s := &model.SavedCandidateSearch{Keywords: "POSTGRESQL"}
	if !savedsearch.MatchesSearch(sampleProfile(), s) {
		t.Error("keyword matching should be case-insensitive")
	}
}

func TestMatchesSearch_KeywordMiss(t *testing.T) {
	s := &model.SavedCandidateSearch{Keywords: "haskell"}
	if savedsearch.MatchesSearch(sampleProfile(), s) {
		t.Error("keyword with no field hit should not match")
	}
}

func TestMatchesSearch_BlankKeywordPasses(t *testing.T) {
	s := &model.SavedCandidateSearch{Keywords: "   "}
	if !savedsearch.MatchesSearch(sampleProfile(), s) {
		t.Error("whitespace-only keyword filter should pass everyone")
	}
}

// ── Location filter ────────────────────────────────────────────────────────

func TestMatchesSearch_LocationSubstring(t *testing.T) {
	hit := &model.SavedCandidateSearch{Location: "lyon"}
	if !savedsearch.MatchesSearch(sampleProfile(), hit) {
		t.Error("location substring should match")
	}
	miss := &model.SavedCandidateSearch{Location: "Berlin"}
	if savedsearch.MatchesSearch(sampleProfile(), miss) {
		t.Error("non-matching location should not match")
	}
}

// ── Minimum years filter (literal "N+" heuristic) ──────────────────────────

func TestMatchesSearch_MinYearsLiteralMarker(t *testing.T) {
	p := sampleProfile() // experience mentions "5+"
	if !savedsearch.MatchesSearch(p, &model.SavedCandidateSearch{MinYearsExperience: 5}) {
		t.Error(`experience containing "5+" should satisfy MinYearsExperience=5`)
	}
	if savedsearch.MatchesSearch(p, &model.SavedCandidateSearch{MinYearsExperience: 3}) {
		t.Error(`MinYearsExperience=3 looks for the literal "3+", which is absent`)
	}
}

// The heuristic is substring matching, not numeric comparison: spelled-out
// durations do not count.
func TestMatchesSearch_MinYearsIgnoresProse(t *testing.T) {
	p := sampleProfile()
	p.Experience = "over 5 years of experience"
	if savedsearch.MatchesSearch(p, &model.SavedCandidateSearch{MinYearsExperience: 5}) {
		t.Error(`"over 5 years" lacks the literal "5+" marker and should not match`)
	}
}

func TestMatchesSearch_ZeroMinYearsPasses(t *testing.T) {
	p := sampleProfile()
	p.Experience = "fresh graduate"
	if !savedsearch.MatchesSearch(p, &model.SavedCandidateSearch{MinYearsExperience: 0}) {
		t.Error("MinYearsExperience=0 should not filter anyone")
	}
}

// ── Conjunction ────────────────────────────────────────────────────────────

func TestMatchesSearch_FiltersAreConjunctive(t *testing.T) {
	s := &model.SavedCandidateSearch{
		Keywords:           "postgresql",
		Location:           "lyon",
		MinYearsExperience: 5,
	}
	if !savedsearch.MatchesSearch(sampleProfile(), s) {
		t.Error("profile satisfying all three filters should match")
	}

	s.Location = "Berlin"
	if savedsearch.MatchesSearch(sampleProfile(), s) {
		t.Error("one failing filter must reject the profile")
	}
}

func TestMatchesSearch_NoFiltersMatchesEveryone(t *testing.T) {
	if !savedsearch.MatchesSearch(sampleProfile(), &model.SavedCandidateSearch{}) {
		t.Error("a search with no filters set should match any profile")
	}
}
