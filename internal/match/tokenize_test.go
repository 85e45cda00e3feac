package match_test

import (
	"testing"

	"jobmate/match-service/internal/match"
)

// ── Tokenize ───────────────────────────────────────────────────────────────

func TestTokenize_LowercasesAndSplits(t *testing.T) {
	tokens := match.Tokenize("Python Django PostgreSQL")
	want := []string{"python", "django", "postgresql"}
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize returned %d tokens, want %d", len(tokens), len(want))
	}
	for _, w := range want {
		if _, ok := tokens[w]; !ok {
			t.Errorf("Tokenize missing token %q", w)
		}
	}
}

func TestTokenize_PunctuationAsSeparators(t *testing.T) {
	tokens := match.Tokenize("go,rust;front-end")
	want := []string{"go", "rust", "front", "end"}
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize returned %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for _, w := range want {
		if _, ok := tokens[w]; !ok {
			t.Errorf("Tokenize missing token %q", w)
		}
	}
}

func TestTokenize_RemovesStopWords(t *testing.T) {
	tokens := match.Tokenize("experience with the Python and our Django")
	for _, stop := range []string{"with", "the", "and", "our"} {
		if _, ok := tokens[stop]; ok {
			t.Errorf("Tokenize kept stop word %q", stop)
		}
	}
	for _, keep := range []string{"experience", "python", "django"} {
		if _, ok := tokens[keep]; !ok {
			t.Errorf("Tokenize dropped %q", keep)
		}
	}
}

func TestTokenize_EmptyInputs(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n", ",;-", "the and of"} {
		if tokens := match.Tokenize(input); len(tokens) != 0 {
			t.Errorf("Tokenize(%q) = %v, want empty set", input, tokens)
		}
	}
}

func TestTokenize_DeduplicatesRepeats(t *testing.T) {
	tokens := match.Tokenize("go go go golang")
	if len(tokens) != 2 {
		t.Errorf("Tokenize returned %d tokens, want 2: %v", len(tokens), tokens)
	}
}
