package session

import (
	"crypto/rand"
	"log/slog"
	"math/big"
	mathrand "math/rand"
	"strconv"
	"strings"

	"github.com/civicprep/quiz-engine/internal/models"
	"github.com/civicprep/quiz-engine/internal/normalizer"
)

// promptPrefixLen bounds the normalized prompt portion used in the composite
// dedup key, so trailing edits to long prompts still collapse near-copies.
const promptPrefixLen = 50

// PreprocessReport makes the dropped counts observable to the caller instead
// of burying them in log lines.
type PreprocessReport struct {
	Supplied          int `json:"supplied"`
	Kept              int `json:"kept"`
	DuplicatesDropped int `json:"duplicates_dropped"`
	MalformedDropped  int `json:"malformed_dropped"`
}

// Preprocess validates, deduplicates, and shuffles a question list before
// play. Returns ErrNoQuestionsAvailable when nothing playable remains.
func Preprocess(questions []*models.Question, logger *slog.Logger) ([]*models.Question, PreprocessReport, error) {
	report := PreprocessReport{Supplied: len(questions)}

	// First pass: composite-key dedup across topic, ordinal, kind, prompt
	// prefix, answer key, and leading options.
	seen := make(map[string]bool, len(questions))
	deduped := make([]*models.Question, 0, len(questions))
	for _, q := range questions {
		key := compositeKey(q)
		if seen[key] {
			report.DuplicatesDropped++
			logger.Warn("Dropping duplicate question", "question_id", q.ID, "topic_id", q.TopicID)
			continue
		}
		seen[key] = true
		deduped = append(deduped, q)
	}

	// Second pass: normalized full prompt alone, against near-duplicates
	// that differ only in metadata.
	prompts := make(map[string]bool, len(deduped))
	unique := deduped[:0]
	for _, q := range deduped {
		prompt := normalizer.Normalize(q.Prompt)
		if prompt != "" && prompts[prompt] {
			report.DuplicatesDropped++
			logger.Warn("Dropping near-duplicate question", "question_id", q.ID, "prompt", q.Prompt)
			continue
		}
		prompts[prompt] = true
		unique = append(unique, q)
	}

	// Malformed questions are filtered, never surfaced as runtime errors.
	valid := make([]*models.Question, 0, len(unique))
	for _, q := range unique {
		if strings.TrimSpace(q.Prompt) == "" || !q.Kind.Valid() || !q.HasAnswerKey() {
			report.MalformedDropped++
			logger.Warn("Dropping malformed question",
				"question_id", q.ID,
				"kind", q.Kind,
				"has_prompt", strings.TrimSpace(q.Prompt) != "",
				"has_answer", q.HasAnswerKey())
			continue
		}
		valid = append(valid, q)
	}

	report.Kept = len(valid)
	if len(valid) == 0 {
		return nil, report, ErrNoQuestionsAvailable
	}

	shuffled := append([]*models.Question(nil), valid...)
	// Three full passes for extra mixing; the order is recorded in the
	// snapshot so resume sees the same sequence.
	for pass := 0; pass < 3; pass++ {
		fisherYates(shuffled)
	}

	return shuffled, report, nil
}

func compositeKey(q *models.Question) string {
	prompt := normalizer.Normalize(q.Prompt)
	if runes := []rune(prompt); len(runes) > promptPrefixLen {
		prompt = string(runes[:promptPrefixLen])
	}
	firstOptions := q.Options
	if len(firstOptions) > 2 {
		firstOptions = firstOptions[:2]
	}
	return strings.Join([]string{
		q.TopicID,
		strconv.Itoa(q.Number),
		string(q.Kind),
		prompt,
		q.AnswerKey(),
		strings.Join(firstOptions, "\x1f"),
	}, "\x1e")
}

// fisherYates shuffles in place using a cryptographically secure source,
// falling back to a pseudo-random source only if the secure one fails.
func fisherYates(qs []*models.Question) {
	for i := len(qs) - 1; i > 0; i-- {
		j := secureIntn(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

func secureIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return mathrand.Intn(n)
	}
	return int(v.Int64())
}
