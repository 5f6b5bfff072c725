// Package normalizer canonicalizes free-text answers before grading.
// Every stage is a deterministic string rewrite that never reorders tokens,
// so Normalize is pure and idempotent.
package normalizer

import (
	"sort"
	"strings"
	"unicode"
)

// Normalize runs the full canonicalization pipeline:
// lowercase, punctuation strip, article removal, ordinal/cardinal folding,
// name and title aliasing, naive plural strip, hyphen-to-space.
func Normalize(text string) string {
	return normalize(text, false)
}

// NormalizeKeepArticles runs the same pipeline but leaves the articles
// "a"/"an"/"the" in place. The grader measures edit distance on this form so
// a typo'd article ("teh") is charged as a typo instead of leaving an orphan
// token the article-stripped form can never match.
func NormalizeKeepArticles(text string) string {
	return normalize(text, true)
}

func normalize(text string, keepArticles bool) string {
	s := strings.ToLower(strings.TrimSpace(text))

	s = stripPunctuation(s)
	s = collapseSpaces(s)

	if !keepArticles {
		s = mapTokens(s, func(tok string) (string, bool) {
			if articles[tok] {
				return "", false
			}
			return tok, true
		})
	}

	s = mapTokens(s, func(tok string) (string, bool) {
		if folded, ok := ordinalWords[tok]; ok {
			return folded, true
		}
		return tok, true
	})

	s = mapTokens(s, func(tok string) (string, bool) {
		if folded, ok := cardinalWords[tok]; ok {
			return folded, true
		}
		return tok, true
	})

	s = replacePhrases(s, nameAliases)
	s = replacePhrases(s, titleAliases)

	// Naive pluralization fold. Irregular plurals produce false positives;
	// that is a known limitation of the matcher, kept intentionally. Double-s
	// endings (congress, class) are left alone, which also keeps the whole
	// pipeline idempotent.
	s = mapTokens(s, func(tok string) (string, bool) {
		if len(tok) > 1 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") {
			return tok[:len(tok)-1], true
		}
		return tok, true
	})

	s = strings.ReplaceAll(s, "-", " ")

	return collapseSpaces(s)
}

// stripPunctuation removes every character that is not a letter, digit,
// space, or hyphen. Hyphens survive so the dedicated hyphen stage can turn
// them into token boundaries.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r == '-':
			b.WriteByte('-')
		}
	}
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// mapTokens rewrites each whitespace-separated token. Returning keep=false
// drops the token. Token order is never changed.
func mapTokens(s string, fn func(string) (string, bool)) string {
	fields := strings.Fields(s)
	out := fields[:0]
	for _, tok := range fields {
		if mapped, keep := mapToken(tok, fn); keep {
			out = append(out, mapped)
		}
	}
	return strings.Join(out, " ")
}

// mapToken applies fn across hyphen boundaries so a compound like
// "twenty-seven" folds the same way it will read once the hyphen stage turns
// it into "twenty seven". Without this the second pass would fold tokens the
// first pass left compound.
func mapToken(tok string, fn func(string) (string, bool)) (string, bool) {
	if !strings.Contains(tok, "-") {
		return fn(tok)
	}
	parts := strings.Split(tok, "-")
	kept := parts[:0]
	for _, part := range parts {
		if part == "" {
			continue
		}
		if mapped, keep := fn(part); keep {
			kept = append(kept, mapped)
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, "-"), true
}

// replacePhrases substitutes whole-word occurrences of each table key,
// longest keys first so "united states of america" wins over "united states".
func replacePhrases(s string, table map[string]string) string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, key := range keys {
		s = replaceWholePhrase(s, key, table[key])
	}
	return s
}

func replaceWholePhrase(s, phrase, replacement string) string {
	if s == phrase {
		return replacement
	}
	padded := " " + s + " "
	padded = strings.ReplaceAll(padded, " "+phrase+" ", " "+replacement+" ")
	return strings.TrimSpace(padded)
}
