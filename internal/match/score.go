package match

import (
	"math"
	"strings"
)

// SkillScore measures text overlap between a candidate's combined profile text
// and a job's combined posting text. Returns an integer 0–100.
//
// Three sub-metrics are blended over the non-stop-word token sets:
//   - keyword coverage:   |∩| / |job tokens|       — how much of the job the candidate covers
//   - candidate relevance: |∩| / |candidate tokens| — how much of the candidate fits the job
//   - Jaccard overlap:    |∩| / |∪|
//
// plus a flat bonus of 3 points per matching token, capped at 30, which
// rewards high absolute overlap independent of set sizes. The weighted blend
// favours keyword coverage. Missing text on either side scores 0 — scoring
// never fails on empty input.
func SkillScore(candidateText, jobText string) int {
	if candidateText == "" || jobText == "" {
		return 0
	}

	candidateTokens := Tokenize(candidateText)
	jobTokens := Tokenize(jobText)
	if len(candidateTokens) == 0 || len(jobTokens) == 0 {
		return 0
	}

	matchCount := intersectionSize(candidateTokens, jobTokens)

	coverage := float64(matchCount) / float64(len(jobTokens)) * 100
	relevance := float64(matchCount) / float64(len(candidateTokens)) * 100
	jaccard := float64(matchCount) / float64(unionSize(candidateTokens, jobTokens)) * 100

	bonus := float64(min(matchCount*3, 30))

	score := coverage*0.5 + relevance*0.3 + jaccard*0.2 + bonus
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return int(score)
}

// LocationScore compares two location strings: 100 for a case-insensitive
// trimmed exact match, 50 for substring containment in either direction,
// 0 otherwise or when either side is missing.
//
// Intentionally a crude string heuristic — geodistance is the map service's
// concern, not ours.
func LocationScore(candidateLocation, jobLocation string) int {
	if candidateLocation == "" || jobLocation == "" {
		return 0
	}

	a := strings.TrimSpace(strings.ToLower(candidateLocation))
	b := strings.TrimSpace(strings.ToLower(jobLocation))
	if a == "" || b == "" {
		return 0
	}

	switch {
	case a == b:
		return 100
	case strings.Contains(a, b) || strings.Contains(b, a):
		return 50
	default:
		return 0
	}
}

// CompositeScore weighs the skill score at 75% and the location score at 25%,
// rounding to the nearest integer.
func CompositeScore(skillScore, locationScore int) int {
	return int(math.Round(float64(skillScore)*0.75 + float64(locationScore)*0.25))
}

// ScorePair runs the full scoring pipeline for one (candidate, job) pair and
// returns the composite 0–100 match score.
func ScorePair(candidateText, jobText, candidateLocation, jobLocation string) int {
	return CompositeScore(
		SkillScore(candidateText, jobText),
		LocationScore(candidateLocation, jobLocation),
	)
}
