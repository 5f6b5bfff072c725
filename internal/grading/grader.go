// Package grading turns raw answer text into verdicts. Free-text answers go
// through a tiered fuzzy matcher; every other question kind grades by exact,
// kind-specific equality.
//
// The tiers are load-bearing: a uniform edit-distance tolerance either
// rejects valid typo-laden long answers or accepts garbage short ones, so
// thresholds are bucketed by the length of the correct answer and multi-word
// answers get a separate word-overlap path with partial credit.
package grading

import (
	"math"
	"sort"
	"strings"

	"github.com/civicprep/quiz-engine/internal/models"
	"github.com/civicprep/quiz-engine/internal/normalizer"
)

// stopWords holds copula/auxiliary/preposition tokens in their normalized
// form, so they can be stripped from already-normalized strings.
var stopWords = buildStopWords(
	"is", "are", "was", "were", "be", "been", "being", "am",
	"do", "does", "did", "have", "has", "had",
	"will", "would", "can", "could", "shall", "should", "may", "might", "must",
	"of", "in", "on", "at", "to", "for", "from", "by", "with", "about",
)

func buildStopWords(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[normalizer.Normalize(w)] = true
	}
	return set
}

// Grade compares a user's free-text answer against the correct answer and
// returns a three-state verdict. Not symmetric: length buckets and overlap
// ratios key off the correct answer, so Grade(a, b) and Grade(b, a) can
// disagree.
func Grade(userAnswer, correctAnswer string) models.Verdict {
	user := normalizer.Normalize(userAnswer)
	correct := normalizer.Normalize(correctAnswer)
	if correct == "" || user == "" {
		return models.VerdictIncorrect
	}

	// Tier 1: exact match after normalization.
	if user == correct {
		return models.VerdictCorrect
	}

	// Tier 2: equality once stop words are stripped.
	userStripped := removeStopWords(user)
	correctStripped := removeStopWords(correct)
	if userStripped != "" && userStripped == correctStripped {
		return models.VerdictCorrect
	}

	// Tier 3: word-order tolerance for multi-word answers.
	userWords := strings.Fields(user)
	correctWords := strings.Fields(correct)
	if len(userWords) > 1 && len(correctWords) > 1 && sortedEqual(userWords, correctWords) {
		return models.VerdictCorrect
	}

	// Tier 4: bucketed edit distance, measured twice. The article-stripped
	// pair catches typos in content words; the article-keeping pair catches
	// typos in the articles themselves. Best verdict wins.
	verdict := distanceVerdict(user, correct)
	if verdict == models.VerdictCorrect {
		return verdict
	}
	loose := distanceVerdict(
		normalizer.NormalizeKeepArticles(userAnswer),
		normalizer.NormalizeKeepArticles(correctAnswer),
	)
	return bestVerdict(verdict, loose)
}

// IsCorrect is the legacy boolean wrapper over Grade.
func IsCorrect(userAnswer, correctAnswer string) bool {
	return Grade(userAnswer, correctAnswer).IsCorrect()
}

func distanceVerdict(user, correct string) models.Verdict {
	distance := levenshtein(user, correct)
	length := len([]rune(correct))

	switch {
	case length <= 3:
		// Very short answers get no typo tolerance.
		if distance == 0 {
			return models.VerdictCorrect
		}
		return models.VerdictIncorrect
	case length <= 6:
		if distance <= 1 {
			return models.VerdictCorrect
		}
		return models.VerdictIncorrect
	case length <= 12:
		if distance <= 2 {
			return models.VerdictCorrect
		}
		return overlapVerdict(user, correct, distance)
	default:
		return overlapVerdict(user, correct, distance)
	}
}

// overlapVerdict handles longer answers that failed the distance gate,
// granting full or partial credit from word-set overlap.
func overlapVerdict(user, correct string, distance int) models.Verdict {
	userTokens := tokenSet(user)
	correctTokens := tokenSet(correct)

	if len(correctTokens) > 1 {
		intersection := 0
		for tok := range userTokens {
			if correctTokens[tok] {
				intersection++
			}
		}
		overlap := float64(intersection) / float64(len(correctTokens))

		userLen := len([]rune(user))
		correctLen := len([]rune(correct))
		minLen, maxLen := userLen, correctLen
		if minLen > maxLen {
			minLen, maxLen = maxLen, minLen
		}
		if overlap >= 0.95 && float64(minLen)/float64(maxLen) >= 0.8 {
			return models.VerdictCorrect
		}
		if overlap >= 0.5 && intersection >= 1 {
			return models.VerdictPartiallyCorrect
		}
		if len([]rune(user)) >= 3 && strings.Contains(correct, user) {
			return models.VerdictPartiallyCorrect
		}
		return models.VerdictIncorrect
	}

	// Single-token correct answer: proportional typo allowance.
	allowed := int(math.Ceil(0.15 * float64(len([]rune(correct)))))
	if distance <= allowed {
		return models.VerdictCorrect
	}
	return models.VerdictIncorrect
}

func removeStopWords(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, tok := range fields {
		if !stopWords[tok] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func sortedEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// tokenSet keeps only tokens longer than one rune; single characters carry
// no signal for overlap scoring.
func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		if len([]rune(tok)) > 1 {
			set[tok] = true
		}
	}
	return set
}

func bestVerdict(a, b models.Verdict) models.Verdict {
	rank := func(v models.Verdict) int {
		switch v {
		case models.VerdictCorrect:
			return 2
		case models.VerdictPartiallyCorrect:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}
