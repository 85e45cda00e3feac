package match

import "sort"

const (
	// ScoreThreshold is the exclusive persistence cutoff: a pair scoring
	// exactly this value is discarded, not stored as zero.
	ScoreThreshold = 10

	// MaxRecommendations caps how many pairs are materialised per subject.
	MaxRecommendations = 15
)

// Candidate is one scored (subject, target) pair fed to Rank.
type Candidate struct {
	TargetID string
	Score    int
}

// Rank filters out pairs at or below ScoreThreshold, sorts the rest by
// descending score (stable — ties keep their enumeration order, there is no
// secondary key), and returns at most MaxRecommendations entries.
func Rank(scored []Candidate) []Candidate {
	retained := make([]Candidate, 0, len(scored))
	for _, c := range scored {
		if c.Score > ScoreThreshold {
			retained = append(retained, c)
		}
	}

	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Score > retained[j].Score
	})

	if len(retained) > MaxRecommendations {
		retained = retained[:MaxRecommendations]
	}
	return retained
}
