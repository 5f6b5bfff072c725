package session

import (
	"context"
	"fmt"

	"github.com/civicprep/quiz-engine/internal/crossword"
	"github.com/civicprep/quiz-engine/internal/models"
)

// QuestionView is everything a presentation layer needs to show the active
// question. Concrete renderers live outside this module.
type QuestionView struct {
	Question      *models.Question
	Index         int
	Total         int
	PendingAnswer string
	HintShown     bool
	AttemptNumber int
}

// Renderer is the dispatch contract for presenting questions, one method per
// kind. The machine drives it through RenderQuestion so a new kind cannot be
// added without every renderer implementing it.
type Renderer interface {
	RenderMultipleChoice(ctx context.Context, view QuestionView) error
	RenderTrueFalse(ctx context.Context, view QuestionView) error
	RenderShortAnswer(ctx context.Context, view QuestionView) error
	RenderFillInBlank(ctx context.Context, view QuestionView) error
	RenderMatching(ctx context.Context, view QuestionView) error
	RenderOrdering(ctx context.Context, view QuestionView) error
	RenderCrossword(ctx context.Context, view QuestionView, grid *crossword.Grid) error
}

// View builds the QuestionView for the active question.
func (m *Machine) View() (QuestionView, error) {
	q := m.CurrentQuestion()
	if q == nil {
		return QuestionView{}, newInvalidTransition("view", m.state, m.index)
	}
	return QuestionView{
		Question:      q,
		Index:         m.index,
		Total:         len(m.questions),
		PendingAnswer: m.pendingAnswer,
		HintShown:     m.hintShown,
		AttemptNumber: m.attempt,
	}, nil
}

// Render dispatches the active question to the renderer method for its kind.
func (m *Machine) Render(ctx context.Context, r Renderer) error {
	view, err := m.View()
	if err != nil {
		return err
	}

	switch view.Question.Kind {
	case models.MultipleChoice:
		return r.RenderMultipleChoice(ctx, view)
	case models.TrueFalse:
		return r.RenderTrueFalse(ctx, view)
	case models.ShortAnswer:
		return r.RenderShortAnswer(ctx, view)
	case models.FillInBlank:
		return r.RenderFillInBlank(ctx, view)
	case models.Matching:
		return r.RenderMatching(ctx, view)
	case models.Ordering:
		return r.RenderOrdering(ctx, view)
	case models.Crossword:
		grid, err := m.Grid()
		if err != nil {
			return err
		}
		return r.RenderCrossword(ctx, view, grid)
	default:
		// Unreachable for preprocessed questions; kinds are validated before
		// play.
		return fmt.Errorf("unsupported question kind %q", view.Question.Kind)
	}
}
