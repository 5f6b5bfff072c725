package models

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// InferDifficulty buckets a question for analytics on the answer record.
// Explicit tags win; otherwise prompt length and option count decide.
// The result never affects scoring.
func InferDifficulty(q *Question) DifficultyLevel {
	for _, tag := range q.Tags {
		switch tag {
		case "advanced", "expert":
			return DifficultyHard
		case "intermediate":
			return DifficultyMedium
		case "basic", "beginner":
			return DifficultyEasy
		}
	}

	// Anything that is not a standard 4-option multiple choice grades hard
	// under the fallback heuristic, free-text kinds included.
	if len(q.Prompt) > 200 || q.Kind != MultipleChoice || len(q.Options) != 4 {
		return DifficultyHard
	}
	if len(q.Prompt) > 100 {
		return DifficultyMedium
	}
	return DifficultyEasy
}
