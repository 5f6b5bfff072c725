package session

import (
	"testing"
	"time"

	"github.com/civicprep/quiz-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortAnswerQuestion(id, prompt, answer string) *models.Question {
	return &models.Question{
		ID:            id,
		TopicID:       "topic-1",
		Kind:          models.ShortAnswer,
		Prompt:        prompt,
		CorrectAnswer: answer,
	}
}

func questionSet(n int) []*models.Question {
	qs := make([]*models.Question, 0, n)
	answers := []string{"congress", "senate", "president", "governor", "mayor"}
	for i := 0; i < n; i++ {
		qs = append(qs, shortAnswerQuestion(
			"q"+string(rune('1'+i)),
			"Who holds office number "+string(rune('1'+i))+"?",
			answers[i%len(answers)],
		))
	}
	return qs
}

// fakeClock lets tests control elapsed time.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMachine(t *testing.T, qs []*models.Question, mode models.ModeConfig) (*Machine, *fakeClock) {
	t.Helper()
	m := New("sess-1", "topic-1", qs, mode)
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	m.now = clock.now
	return m, clock
}

func TestStart_EmptyQuestions(t *testing.T) {
	m, _ := newTestMachine(t, nil, models.ModeConfig{})
	assert.ErrorIs(t, m.Start(), ErrNoQuestionsAvailable)
	assert.Equal(t, StateNotStarted, m.State())
}

func TestSubmitFlow(t *testing.T) {
	m, clock := newTestMachine(t, questionSet(2), models.ModeConfig{})
	require.NoError(t, m.Start())
	assert.Equal(t, StateAwaitingAnswer, m.State())

	// Selecting twice overwrites; nothing auto-submits.
	require.NoError(t, m.Select("senate"))
	require.NoError(t, m.Select("congress"))
	clock.advance(7 * time.Second)
	require.NoError(t, m.Submit())

	assert.Equal(t, StateAnswerSubmitted, m.State())
	rec, ok := m.LastAnswer()
	require.True(t, ok)
	assert.Equal(t, "congress", rec.RawAnswer)
	assert.True(t, rec.IsCorrect)
	assert.Equal(t, models.VerdictCorrect, rec.Verdict)
	assert.Equal(t, 7, rec.TimeSpentSeconds)
	assert.Equal(t, 1, rec.AttemptNumber)

	require.NoError(t, m.Advance())
	assert.Equal(t, StateAwaitingAnswer, m.State())
	assert.Equal(t, 1, m.CurrentIndex())
}

func TestSubmit_RequiresPendingAnswer(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(1), models.ModeConfig{})
	require.NoError(t, m.Start())

	assert.ErrorIs(t, m.Submit(), ErrNoPendingAnswer)
	assert.Equal(t, StateAwaitingAnswer, m.State())
}

func TestAdvance_FromAwaitingAnswerRejected(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(2), models.ModeConfig{})
	require.NoError(t, m.Start())

	err := m.Advance()
	assert.True(t, IsInvalidTransition(err))
	assert.Equal(t, StateAwaitingAnswer, m.State())
	assert.Equal(t, 0, m.CurrentIndex())
}

func TestSkip(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(1), models.ModeConfig{AllowSkip: true})
	require.NoError(t, m.Start())
	require.NoError(t, m.Skip())

	rec, _ := m.LastAnswer()
	assert.Equal(t, models.RawAnswerSkipped, rec.RawAnswer)
	assert.False(t, rec.IsCorrect)
}

func TestSkip_Disallowed(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(1), models.ModeConfig{AllowSkip: false})
	require.NoError(t, m.Start())
	assert.ErrorIs(t, m.Skip(), ErrSkipNotAllowed)
	assert.Equal(t, StateAwaitingAnswer, m.State())
}

func TestTimeout(t *testing.T) {
	limit := 30
	m, clock := newTestMachine(t, questionSet(1), models.ModeConfig{TimeLimitSeconds: &limit})
	require.NoError(t, m.Start())

	deadline, ok := m.Deadline()
	require.True(t, ok)
	assert.Equal(t, clock.t.Add(30*time.Second), deadline)

	clock.advance(30 * time.Second)
	require.NoError(t, m.Timeout())

	rec, _ := m.LastAnswer()
	assert.Equal(t, models.RawAnswerTimedOut, rec.RawAnswer)
	_, ok = m.Deadline()
	assert.False(t, ok)
}

func TestUntimed_NoDeadline(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(1), models.ModeConfig{})
	require.NoError(t, m.Start())
	_, ok := m.Deadline()
	assert.False(t, ok)
}

func TestSecondChance(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(1), models.ModeConfig{SecondChanceEnabled: true})
	require.NoError(t, m.Start())

	require.NoError(t, m.Select("wrong answer"))
	require.NoError(t, m.Submit())
	rec, _ := m.LastAnswer()
	assert.False(t, rec.IsCorrect)

	require.NoError(t, m.UseSecondChance())
	assert.Equal(t, StateAwaitingAnswer, m.State())
	assert.Equal(t, 2, m.AttemptNumber())
	assert.Empty(t, m.Answers())

	require.NoError(t, m.Select("congress"))
	require.NoError(t, m.Submit())
	rec, _ = m.LastAnswer()
	assert.True(t, rec.IsCorrect)
	assert.Equal(t, 2, rec.AttemptNumber)

	// Consumed: a further grant is refused even after the retry.
	assert.ErrorIs(t, m.UseSecondChance(), ErrSecondChanceUnavailable)
}

func TestSecondChance_DisabledOrAfterSkip(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(1), models.ModeConfig{AllowSkip: true})
	require.NoError(t, m.Start())
	require.NoError(t, m.Skip())
	assert.ErrorIs(t, m.UseSecondChance(), ErrSecondChanceUnavailable)

	m2, _ := newTestMachine(t, questionSet(1), models.ModeConfig{AllowSkip: true, SecondChanceEnabled: true})
	require.NoError(t, m2.Start())
	require.NoError(t, m2.Skip())
	assert.ErrorIs(t, m2.UseSecondChance(), ErrSecondChanceUnavailable)
}

func TestHints(t *testing.T) {
	qs := questionSet(1)
	qs[0].Hint = "Think legislative."
	m, _ := newTestMachine(t, qs, models.ModeConfig{AllowHints: true})
	require.NoError(t, m.Start())
	require.NoError(t, m.ShowHint())
	require.NoError(t, m.Select("congress"))
	require.NoError(t, m.Submit())

	rec, _ := m.LastAnswer()
	assert.True(t, rec.HintUsed)

	m2, _ := newTestMachine(t, questionSet(1), models.ModeConfig{AllowHints: false})
	require.NoError(t, m2.Start())
	assert.ErrorIs(t, m2.ShowHint(), ErrHintsNotAllowed)
}

func TestSnapshot_NeverIncludesPendingAnswer(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(2), models.ModeConfig{})
	require.NoError(t, m.Start())
	require.NoError(t, m.Select("congress"))

	snap := m.Snapshot()
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Empty(t, snap.Answers)

	require.NoError(t, m.Submit())
	snap = m.Snapshot()
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.Equal(t, "congress", snap.Answers["q1"])
	assert.Len(t, snap.QuestionOrder, 2)
}

func TestResume_PartialSession(t *testing.T) {
	qs := questionSet(5)
	m, clock := newTestMachine(t, qs, models.ModeConfig{})
	require.NoError(t, m.Start())

	answers := []string{"congress", "senate", "president"}
	for _, a := range answers {
		require.NoError(t, m.Select(a))
		clock.advance(5 * time.Second)
		require.NoError(t, m.Submit())
		require.NoError(t, m.Advance())
	}

	snap := m.Snapshot()
	require.Equal(t, 3, snap.CurrentIndex)

	restored, err := Restore(snap, qs, models.ModeConfig{})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingAnswer, restored.State())
	assert.Equal(t, 3, restored.CurrentIndex())
	assert.Len(t, restored.Answers(), 3)

	// Finish without answering the remaining two.
	result, err := restored.Results()
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalQuestions)
	assert.Equal(t, 3, result.CorrectAnswers)
	assert.Equal(t, 2, result.IncorrectAnswers)
	assert.Equal(t, 60, result.ScorePercent)
	assert.Equal(t, 15, result.TimeTakenSeconds)
}

func TestResume_RegradesFromRawAtFinish(t *testing.T) {
	qs := questionSet(1)
	m, _ := newTestMachine(t, qs, models.ModeConfig{})
	require.NoError(t, m.Start())
	require.NoError(t, m.Select("congress"))
	require.NoError(t, m.Submit())
	snap := m.Snapshot()

	// The answer key changes between save and finish; the final grade
	// follows the current key, not the verdict recorded during play.
	edited := []*models.Question{shortAnswerQuestion("q1", qs[0].Prompt, "senate")}
	restored, err := Restore(snap, edited, models.ModeConfig{})
	require.NoError(t, err)

	result, err := restored.Results()
	require.NoError(t, err)
	assert.Equal(t, 0, result.CorrectAnswers)
}

func TestResults_Idempotent(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(1), models.ModeConfig{})
	require.NoError(t, m.Start())
	require.NoError(t, m.Select("congress"))
	require.NoError(t, m.Submit())
	require.NoError(t, m.Advance())
	assert.Equal(t, StateFinished, m.State())

	first, err := m.Results()
	require.NoError(t, err)
	second, err := m.Results()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestResults_NoAnswers(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(2), models.ModeConfig{})
	require.NoError(t, m.Start())

	result, err := m.Results()
	require.NoError(t, err)
	assert.Equal(t, 0, result.ScorePercent)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 2, result.IncorrectAnswers)
}

func TestCrosswordQuestion(t *testing.T) {
	q := &models.Question{
		ID:      "xw1",
		TopicID: "topic-1",
		Kind:    models.Crossword,
		Prompt:  "Fill in the civics crossword.",
		CrosswordSpec: &models.CrosswordSpec{
			Rows:   1,
			Cols:   3,
			Layout: []string{"..."},
			Words: []models.CrosswordWord{
				{Number: 1, Word: "LAW", Direction: models.Across, Row: 0, Col: 0},
			},
		},
	}
	m, _ := newTestMachine(t, []*models.Question{q}, models.ModeConfig{})
	require.NoError(t, m.Start())

	grid, err := m.Grid()
	require.NoError(t, err)

	// Submitting an incomplete grid is rejected; the state is unchanged.
	require.Error(t, m.Submit())
	assert.Equal(t, StateAwaitingAnswer, m.State())

	grid.ClickClue(1, models.Across)
	for _, ch := range "LAW" {
		grid.TypeLetter(ch)
	}
	require.NoError(t, m.Submit())

	rec, _ := m.LastAnswer()
	assert.Equal(t, "1/1", rec.RawAnswer)
	assert.True(t, rec.IsCorrect)
	assert.Equal(t, 1, rec.CorrectWords)
	assert.Equal(t, 1, rec.TotalWords)
}

func TestGrid_NonCrosswordQuestion(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(1), models.ModeConfig{})
	require.NoError(t, m.Start())
	_, err := m.Grid()
	assert.ErrorIs(t, err, ErrQuestionNotCrossword)
}

func TestFullSession(t *testing.T) {
	m, _ := newTestMachine(t, questionSet(3), models.ModeConfig{AllowSkip: true})
	require.NoError(t, m.Start())

	require.NoError(t, m.Select("congress"))
	require.NoError(t, m.Submit())
	require.NoError(t, m.Advance())

	require.NoError(t, m.Skip())
	require.NoError(t, m.Advance())

	require.NoError(t, m.Select("not even close"))
	require.NoError(t, m.Submit())
	require.NoError(t, m.Advance())
	assert.Equal(t, StateFinished, m.State())

	result, err := m.Results()
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 2, result.IncorrectAnswers)
	assert.Equal(t, 33, result.ScorePercent)

	// Events after finish are rejected.
	assert.True(t, IsInvalidTransition(m.Select("x")))
}
