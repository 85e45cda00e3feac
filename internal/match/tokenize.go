// Package match implements the pure scoring pipeline that pairs candidate
// profiles with job postings.
//
// Scoring is deterministic and side-effect free: free text is normalised into
// token sets, a weighted overlap score is computed per (candidate, job) pair,
// and a composite 0–100 value combines skill and location sub-scores. It is
// transport- and storage-agnostic — used by the recs orchestrator.
package match

import "strings"

// stopWords are common English function words stripped before comparison.
// They carry no skill signal and would otherwise inflate overlap scores.
var stopWords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "a": {}, "an": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"we": {}, "are": {}, "is": {}, "you": {}, "will": {}, "be": {},
	"our": {}, "your": {}, "this": {}, "that": {}, "as": {}, "it": {},
	"from": {}, "has": {}, "have": {}, "can": {}, "all": {}, "about": {},
	"their": {}, "use": {}, "work": {}, "also": {}, "who": {},
	"but": {}, "not": {}, "they": {}, "which": {}, "been": {}, "were": {},
	"would": {}, "should": {}, "could": {}, "may": {},
	"into": {}, "through": {}, "during": {}, "before": {}, "after": {},
	"above": {}, "below": {}, "up": {}, "down": {},
	"out": {}, "off": {}, "over": {}, "under": {}, "again": {},
	"further": {}, "then": {}, "once": {}, "here": {}, "there": {},
	"when": {}, "where": {}, "why": {}, "how": {}, "than": {}, "too": {},
	"very": {}, "such": {}, "these": {}, "those": {},
}

// separators is the punctuation treated as whitespace during tokenisation.
var separators = strings.NewReplacer(",", " ", ";", " ", "-", " ")

// Tokenize lowercases text, splits on whitespace and the separator
// punctuation, and removes stop words. Empty or whitespace-only input yields
// an empty set. No stemming or synonym expansion — exact token match only.
func Tokenize(text string) map[string]struct{} {
	fields := strings.Fields(separators.Replace(strings.ToLower(text)))
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens[f] = struct{}{}
	}
	return tokens
}

// intersectionSize counts tokens present in both sets.
func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

// unionSize counts tokens present in either set.
func unionSize(a, b map[string]struct{}) int {
	return len(a) + len(b) - intersectionSize(a, b)
}
