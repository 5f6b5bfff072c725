// Package session implements the quiz session state machine: question
// sequencing, timing, answer recording, snapshots, and result aggregation.
//
// The machine processes one event at a time and is not reentrant; callers
// own serialization (one goroutine per active session). Timer expiry is an
// external event injected through Timeout, never an internal goroutine.
package session

import (
	"time"

	"github.com/civicprep/quiz-engine/internal/crossword"
	"github.com/civicprep/quiz-engine/internal/grading"
	"github.com/civicprep/quiz-engine/internal/models"
)

type State string

const (
	StateNotStarted      State = "not_started"
	StateAwaitingAnswer  State = "awaiting_answer"
	StateAnswerSubmitted State = "answer_submitted"
	StateFinished        State = "finished"
)

// Machine drives one learner's session over a validated, shuffled question
// list. Entering a question (the InProgress transition) resets the
// per-question transients and starts the timer before the machine settles in
// StateAwaitingAnswer.
type Machine struct {
	sessionID string
	topicID   string
	questions []*models.Question
	byID      map[string]*models.Question
	mode      models.ModeConfig

	state State
	index int

	pendingAnswer string
	hasPending    bool
	hintShown     bool
	attempt       int
	secondChance  bool
	questionStart time.Time
	deadline      *time.Time

	answers       []models.AnswerRecord
	responseTimes map[string]int
	grids         map[string]*crossword.Grid

	startedAt time.Time
	result    *models.SessionResult

	now func() time.Time
}

// New builds a machine over an already-preprocessed question list. The slice
// order is the play order and is recorded into every snapshot.
func New(sessionID, topicID string, questions []*models.Question, mode models.ModeConfig) *Machine {
	m := &Machine{
		sessionID:     sessionID,
		topicID:       topicID,
		questions:     questions,
		byID:          make(map[string]*models.Question, len(questions)),
		mode:          mode,
		state:         StateNotStarted,
		responseTimes: make(map[string]int),
		grids:         make(map[string]*crossword.Grid),
		now:           time.Now,
	}
	for _, q := range questions {
		m.byID[q.ID] = q
	}
	return m
}

// Restore rebuilds a machine from a snapshot. Stored raw answers are
// replayed into records without re-grading: verdicts shown during play for
// replayed answers are not recomputed, while Results grades every stored raw
// answer against the current answer keys. An answer-key edit between save
// and finish can therefore change a resumed session's final grade; that
// behavior is deliberate and documented, not corrected.
func Restore(snapshot *models.SessionSnapshot, questions []*models.Question, mode models.ModeConfig) (*Machine, error) {
	byID := make(map[string]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	ordered := make([]*models.Question, 0, len(snapshot.QuestionOrder))
	for _, id := range snapshot.QuestionOrder {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	if len(ordered) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	m := New(snapshot.SessionID, snapshot.TopicID, ordered, mode)
	m.startedAt = snapshot.StartedAt

	for _, q := range ordered {
		raw, ok := snapshot.Answers[q.ID]
		if !ok {
			break
		}
		record := models.AnswerRecord{
			QuestionID:       q.ID,
			RawAnswer:        raw,
			TimeSpentSeconds: snapshot.ResponseTimes[q.ID],
			AttemptNumber:    1,
			Difficulty:       models.InferDifficulty(q),
		}
		m.answers = append(m.answers, record)
		m.responseTimes[q.ID] = record.TimeSpentSeconds
	}

	if len(m.answers) >= len(ordered) {
		m.state = StateAnswerSubmitted
		m.index = len(ordered) - 1
	} else {
		m.index = len(m.answers)
		m.enterQuestion()
	}
	return m, nil
}

// Start moves the machine into the first question.
func (m *Machine) Start() error {
	if m.state != StateNotStarted {
		return newInvalidTransition("start", m.state, m.index)
	}
	if len(m.questions) == 0 {
		return ErrNoQuestionsAvailable
	}
	m.startedAt = m.now()
	m.index = 0
	m.enterQuestion()
	return nil
}

func (m *Machine) State() State          { return m.state }
func (m *Machine) SessionID() string     { return m.sessionID }
func (m *Machine) TopicID() string       { return m.topicID }
func (m *Machine) CurrentIndex() int     { return m.index }
func (m *Machine) TotalQuestions() int   { return len(m.questions) }
func (m *Machine) StartedAt() time.Time  { return m.startedAt }
func (m *Machine) AttemptNumber() int    { return m.attempt }
func (m *Machine) Mode() models.ModeConfig { return m.mode }

// CurrentQuestion returns the active question, or nil before start/after
// finish.
func (m *Machine) CurrentQuestion() *models.Question {
	if m.state == StateNotStarted || m.state == StateFinished {
		return nil
	}
	return m.questions[m.index]
}

// Deadline exposes the active question's cutoff when the mode is timed.
// The machine never fires the timeout itself; the caller injects Timeout
// when the deadline passes.
func (m *Machine) Deadline() (time.Time, bool) {
	if m.deadline == nil {
		return time.Time{}, false
	}
	return *m.deadline, true
}

// Select stores a pending answer for the active question. It may be called
// any number of times and never auto-submits.
func (m *Machine) Select(answer string) error {
	if m.state != StateAwaitingAnswer {
		return newInvalidTransition("select", m.state, m.index)
	}
	m.pendingAnswer = answer
	m.hasPending = true
	return nil
}

// ShowHint marks the hint as used for the active question.
func (m *Machine) ShowHint() error {
	if m.state != StateAwaitingAnswer {
		return newInvalidTransition("show_hint", m.state, m.index)
	}
	if !m.mode.AllowHints {
		return ErrHintsNotAllowed
	}
	m.hintShown = true
	return nil
}

// Grid returns the crossword grid for the active question, creating it on
// first access. Crossword interaction happens directly on the grid; Submit
// then grades it as a whole.
func (m *Machine) Grid() (*crossword.Grid, error) {
	q := m.CurrentQuestion()
	if q == nil {
		return nil, newInvalidTransition("grid", m.state, m.index)
	}
	if q.Kind != models.Crossword || q.CrosswordSpec == nil {
		return nil, ErrQuestionNotCrossword
	}
	g, ok := m.grids[q.ID]
	if !ok {
		g = crossword.New(q.CrosswordSpec)
		m.grids[q.ID] = g
	}
	return g, nil
}

// Submit grades the pending answer (or the crossword grid) and records it.
func (m *Machine) Submit() error {
	if m.state != StateAwaitingAnswer {
		return newInvalidTransition("submit", m.state, m.index)
	}

	q := m.questions[m.index]
	if q.Kind == models.Crossword {
		return m.submitCrossword(q)
	}

	if !m.hasPending {
		return ErrNoPendingAnswer
	}
	verdict := grading.GradeQuestion(q, m.pendingAnswer)
	m.record(q, m.pendingAnswer, verdict, 0, 0)
	return nil
}

func (m *Machine) submitCrossword(q *models.Question) error {
	grid, err := m.Grid()
	if err != nil {
		return err
	}
	result, err := grid.Submit()
	if err != nil {
		return err
	}

	raw := grading.FormatCrosswordScore(result.CorrectWords, result.TotalWords)
	verdict := models.VerdictIncorrect
	switch {
	case result.TotalWords > 0 && result.CorrectWords == result.TotalWords:
		verdict = models.VerdictCorrect
	case result.CorrectWords > 0:
		verdict = models.VerdictPartiallyCorrect
	}
	m.record(q, raw, verdict, result.CorrectWords, result.TotalWords)
	return nil
}

// Skip records the question as skipped without grading.
func (m *Machine) Skip() error {
	if m.state != StateAwaitingAnswer {
		return newInvalidTransition("skip", m.state, m.index)
	}
	if !m.mode.AllowSkip {
		return ErrSkipNotAllowed
	}
	m.record(m.questions[m.index], models.RawAnswerSkipped, models.VerdictIncorrect, 0, 0)
	return nil
}

// Timeout records the active question as timed out. It is the caller's
// injection of timer expiry into the serial event stream and a normal
// terminal outcome for the question, not a session cancellation.
func (m *Machine) Timeout() error {
	if m.state != StateAwaitingAnswer {
		return newInvalidTransition("timeout", m.state, m.index)
	}
	m.record(m.questions[m.index], models.RawAnswerTimedOut, models.VerdictIncorrect, 0, 0)
	return nil
}

// UseSecondChance retracts the just-submitted answer and reopens the same
// question with the attempt counter bumped. Granted at most once per
// question, and only when the mode enables it.
func (m *Machine) UseSecondChance() error {
	if m.state != StateAnswerSubmitted {
		return newInvalidTransition("second_chance", m.state, m.index)
	}
	if !m.mode.SecondChanceEnabled || m.secondChance {
		return ErrSecondChanceUnavailable
	}

	last := m.answers[len(m.answers)-1]
	if last.RawAnswer == models.RawAnswerSkipped || last.RawAnswer == models.RawAnswerTimedOut {
		return ErrSecondChanceUnavailable
	}

	m.answers = m.answers[:len(m.answers)-1]
	delete(m.responseTimes, last.QuestionID)
	m.secondChance = true
	m.attempt++
	m.pendingAnswer = ""
	m.hasPending = false
	m.questionStart = m.now()
	m.resetDeadline()
	m.state = StateAwaitingAnswer
	return nil
}

// Advance moves to the next question, or finishes the session after the
// last one. There is no automatic advancement: the learner always sees
// feedback before continuing.
func (m *Machine) Advance() error {
	if m.state != StateAnswerSubmitted {
		return newInvalidTransition("advance", m.state, m.index)
	}
	if m.index+1 >= len(m.questions) {
		m.state = StateFinished
		return nil
	}
	m.index++
	m.enterQuestion()
	return nil
}

// LastAnswer returns the most recently recorded answer.
func (m *Machine) LastAnswer() (models.AnswerRecord, bool) {
	if len(m.answers) == 0 {
		return models.AnswerRecord{}, false
	}
	return m.answers[len(m.answers)-1], true
}

// Answers returns the committed answer records in play order.
func (m *Machine) Answers() []models.AnswerRecord {
	return append([]models.AnswerRecord(nil), m.answers...)
}

// Snapshot captures the persistable session state. CurrentIndex always
// equals the number of committed answers: mid-answer state for the active
// question is never included.
func (m *Machine) Snapshot() *models.SessionSnapshot {
	order := make([]string, len(m.questions))
	answers := make(map[string]string, len(m.answers))
	times := make(map[string]int, len(m.responseTimes))
	for i, q := range m.questions {
		order[i] = q.ID
	}
	for _, rec := range m.answers {
		answers[rec.QuestionID] = rec.RawAnswer
	}
	for id, secs := range m.responseTimes {
		times[id] = secs
	}
	return &models.SessionSnapshot{
		SessionID:     m.sessionID,
		TopicID:       m.topicID,
		QuestionOrder: order,
		CurrentIndex:  len(m.answers),
		Answers:       answers,
		ResponseTimes: times,
		StartedAt:     m.startedAt,
	}
}

// Results finishes the session and aggregates the final result. Idempotent:
// a second call returns the cached result without recomputation. Verdicts
// are recomputed here from stored raw answers against the current answer
// keys regardless of what was shown during play.
func (m *Machine) Results() (*models.SessionResult, error) {
	if m.result != nil {
		return m.result, nil
	}
	if m.state == StateNotStarted {
		return nil, ErrSessionNotStarted
	}

	byID := make(map[string]models.AnswerRecord, len(m.answers))
	for _, rec := range m.answers {
		byID[rec.QuestionID] = rec
	}

	result := &models.SessionResult{
		SessionID:      m.sessionID,
		TopicID:        m.topicID,
		TotalQuestions: len(m.questions),
		Questions:      make([]models.QuestionResult, 0, len(m.questions)),
		CompletedAt:    m.now(),
	}

	for _, q := range m.questions {
		rec, answered := byID[q.ID]
		correct := false
		if answered {
			correct = grading.GradeQuestion(q, rec.RawAnswer).IsCorrect()
			result.TimeTakenSeconds += rec.TimeSpentSeconds
		}
		if correct {
			result.CorrectAnswers++
		} else {
			result.IncorrectAnswers++
		}
		result.Questions = append(result.Questions, models.QuestionResult{
			Question:   q,
			UserAnswer: rec.RawAnswer,
			IsCorrect:  correct,
		})
	}

	if result.TotalQuestions > 0 {
		ratio := float64(result.CorrectAnswers) / float64(result.TotalQuestions)
		result.ScorePercent = int(ratio*100 + 0.5)
	}

	m.state = StateFinished
	m.result = result
	return result, nil
}

// record commits exactly one AnswerRecord for the active question and moves
// to StateAnswerSubmitted. All submission paths (submit, skip, timeout)
// funnel through here, which also stops the timer.
func (m *Machine) record(q *models.Question, raw string, verdict models.Verdict, correctWords, totalWords int) {
	elapsed := int(m.now().Sub(m.questionStart).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	rec := models.AnswerRecord{
		QuestionID:       q.ID,
		RawAnswer:        raw,
		Verdict:          verdict,
		IsCorrect:        verdict.IsCorrect(),
		TimeSpentSeconds: elapsed,
		HintUsed:         m.hintShown,
		AttemptNumber:    m.attempt,
		Difficulty:       models.InferDifficulty(q),
		CorrectWords:     correctWords,
		TotalWords:       totalWords,
	}
	m.answers = append(m.answers, rec)
	m.responseTimes[q.ID] = elapsed
	m.deadline = nil
	m.state = StateAnswerSubmitted
}

// enterQuestion resets per-question transients and starts the timer. This is
// the InProgress(i) transition.
func (m *Machine) enterQuestion() {
	m.pendingAnswer = ""
	m.hasPending = false
	m.hintShown = false
	m.attempt = 1
	m.secondChance = false
	m.questionStart = m.now()
	m.resetDeadline()
	m.state = StateAwaitingAnswer
}

func (m *Machine) resetDeadline() {
	if m.mode.TimeLimitSeconds != nil {
		deadline := m.now().Add(time.Duration(*m.mode.TimeLimitSeconds) * time.Second)
		m.deadline = &deadline
	} else {
		m.deadline = nil
	}
}
