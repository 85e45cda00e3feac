package match_test

import (
	"fmt"
	"testing"

	"jobmate/match-service/internal/match"
)

// ── SkillScore ─────────────────────────────────────────────────────────────

func TestSkillScore_EmptyInputs(t *testing.T) {
	cases := []struct {
		candidate, job string
	}{
		{"", ""},
		{"python", ""},
		{"", "python"},
		{"the and of", "python"}, // tokenizes to empty after stop words
		{"python", ",;-"},
	}
	for _, c := range cases {
		if got := match.SkillScore(c.candidate, c.job); got != 0 {
			t.Errorf("SkillScore(%q, %q) = %d, want 0", c.candidate, c.job, got)
		}
	}
}

// Worked example: candidate covers 3 of the job's 5 meaningful tokens.
// coverage = 3/5·100 = 60, relevance = 3/3·100 = 100, jaccard = 3/5·100 = 60,
// bonus = 3·3 = 9 → 0.5·60 + 0.3·100 + 0.2·60 + 9 = 81.
func TestSkillScore_PartialOverlap(t *testing.T) {
	got := match.SkillScore("python django postgresql", "python django react postgresql docker")
	if got != 81 {
		t.Errorf("SkillScore = %d, want 81", got)
	}
}

func TestSkillScore_IdenticalTextsClampTo100(t *testing.T) {
	// base score is already 100; the bonus must not push past the clamp
	got := match.SkillScore("python django", "python django")
	if got != 100 {
		t.Errorf("SkillScore = %d, want 100", got)
	}
}

func TestSkillScore_NoOverlap(t *testing.T) {
	if got := match.SkillScore("cobol fortran", "python django"); got != 0 {
		t.Errorf("SkillScore = %d, want 0", got)
	}
}

func TestSkillScore_Deterministic(t *testing.T) {
	candidate := "go kubernetes docker terraform aws"
	job := "backend engineer go docker aws grpc postgres"
	first := match.SkillScore(candidate, job)
	for i := 0; i < 10; i++ {
		if got := match.SkillScore(candidate, job); got != first {
			t.Fatalf("SkillScore not deterministic: run %d gave %d, first gave %d", i, got, first)
		}
	}
}

func TestSkillScore_AlwaysInRange(t *testing.T) {
	cases := [][2]string{
		{"a b c d e f g h i j k l m n o p q r s t u v w x y z", "a b c"},
		{"python", "python python python"},
		{"java", "javascript"}, // distinct tokens, no substring credit
		{"react vue angular svelte ember backbone", "react vue angular svelte ember backbone"},
	}
	for _, c := range cases {
		got := match.SkillScore(c[0], c[1])
		if got < 0 || got > 100 {
			t.Errorf("SkillScore(%q, %q) = %d, out of [0,100]", c[0], c[1], got)
		}
	}
}

// ── LocationScore ──────────────────────────────────────────────────────────

func TestLocationScore(t *testing.T) {
	cases := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"exact match", "Paris", "Paris", 100},
		{"case-insensitive exact", "paris", "PARIS", 100},
		{"whitespace trimmed", "  Paris ", "Paris", 100},
		{"substring containment", "Austin, TX", "Austin, TX, USA", 50},
		{"containment reversed", "Austin, TX, USA", "Austin, TX", 50},
		{"no match", "Lyon", "Berlin", 0},
		{"candidate missing", "", "Berlin", 0},
		{"job missing", "Lyon", "", 0},
		{"both missing", "", "", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := match.LocationScore(c.a, c.b); got != c.expected {
				t.Errorf("LocationScore(%q, %q) = %d, want %d", c.a, c.b, got, c.expected)
			}
		})
	}
}

// ── CompositeScore / ScorePair ─────────────────────────────────────────────

func TestCompositeScore_Weighting(t *testing.T) {
	cases := []struct {
		skill, location, expected int
	}{
		{100, 100, 100},
		{0, 0, 0},
		{100, 0, 75},
		{0, 100, 25},
		{81, 50, 73}, // round(60.75 + 12.5)
		{40, 50, 43}, // round(30 + 12.5) = round(42.5)
	}
	for _, c := range cases {
		if got := match.CompositeScore(c.skill, c.location); got != c.expected {
			t.Errorf("CompositeScore(%d, %d) = %d, want %d", c.skill, c.location, got, c.expected)
		}
	}
}

func TestScorePair_WorkedExample(t *testing.T) {
	got := match.ScorePair(
		"python django postgresql",
		"python django react postgresql docker",
		"Austin, TX",
		"Austin, TX, USA",
	)
	// skill 81, location 50 → round(0.75·81 + 0.25·50) = 73
	if got != 73 {
		t.Errorf("ScorePair = %d, want 73", got)
	}
}

func TestScorePair_EmptyEverything(t *testing.T) {
	if got := match.ScorePair("", "", "", ""); got != 0 {
		t.Errorf("ScorePair on empty inputs = %d, want 0", got)
	}
}

// ── Rank ───────────────────────────────────────────────────────────────────

func TestRank_ThresholdIsExclusive(t *testing.T) {
	ranked := match.Rank([]match.Candidate{
		{TargetID: "at-threshold", Score: 10},
		{TargetID: "above", Score: 11},
		{TargetID: "below", Score: 9},
	})
	if len(ranked) != 1 {
		t.Fatalf("Rank kept %d candidates, want 1", len(ranked))
	}
	if ranked[0].TargetID != "above" {
		t.Errorf("Rank kept %q, want %q", ranked[0].TargetID, "above")
	}
}

func TestRank_SortsDescending(t *testing.T) {
	ranked := match.Rank([]match.Candidate{
		{TargetID: "c", Score: 30},
		{TargetID: "a", Score: 90},
		{TargetID: "b", Score: 60},
	})
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if ranked[i].TargetID != id {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].TargetID, id)
		}
	}
}

func TestRank_TiesPreserveEnumerationOrder(t *testing.T) {
	ranked := match.Rank([]match.Candidate{
		{TargetID: "first", Score: 50},
		{TargetID: "second", Score: 50},
		{TargetID: "third", Score: 50},
	})
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if ranked[i].TargetID != id {
			t.Errorf("ranked[%d] = %q, want %q (stable tie-break)", i, ranked[i].TargetID, id)
		}
	}
}

func TestRank_CapsAtMaxRecommendations(t *testing.T) {
	scored := make([]match.Candidate, 0, 40)
	for i := 0; i < 40; i++ {
		scored = append(scored, match.Candidate{
			TargetID: fmt.Sprintf("candidate-%d", i),
			Score:    20 + i,
		})
	}
	ranked := match.Rank(scored)
	if len(ranked) != match.MaxRecommendations {
		t.Fatalf("Rank kept %d candidates, want %d", len(ranked), match.MaxRecommendations)
	}
	// Best first: the highest score in the input was 59
	if ranked[0].Score != 59 {
		t.Errorf("ranked[0].Score = %d, want 59", ranked[0].Score)
	}
	if ranked[len(ranked)-1].Score != 45 {
		t.Errorf("last kept score = %d, want 45", ranked[len(ranked)-1].Score)
	}
}

func TestRank_EmptyInput(t *testing.T) {
	if got := match.Rank(nil); len(got) != 0 {
		t.Errorf("Rank(nil) returned %d candidates, want 0", len(got))
	}
}
