package crossword

import (
	"testing"

	"github.com/civicprep/quiz-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSpec builds a 5x5 grid with two crossing words:
//
//	C I V I C
//	. . O . .
//	. . T . .
//	. . E . .
//	# # # # #
//
// 1-Across CIVIC at (0,0), 2-Down VOTE at (0,2), crossing on the V.
func testSpec() *models.CrosswordSpec {
	return &models.CrosswordSpec{
		Rows: 5,
		Cols: 5,
		Layout: []string{
			".....",
			".....",
			".....",
			".....",
			"#####",
		},
		Words: []models.CrosswordWord{
			{Number: 1, Clue: "Relating to citizens", Word: "CIVIC", Direction: models.Across, Row: 0, Col: 0},
			{Number: 2, Clue: "Cast a ballot", Word: "VOTE", Direction: models.Down, Row: 0, Col: 2},
		},
	}
}

func fillWord(g *Grid, number int, dir models.WordDirection, text string) {
	g.ClickClue(number, dir)
	for _, ch := range text {
		g.TypeLetter(ch)
	}
}

func TestNew_LayoutAndNumbers(t *testing.T) {
	g := New(testSpec())

	assert.True(t, g.Cell(4, 0).Blocked)
	assert.False(t, g.Cell(0, 0).Blocked)
	assert.Equal(t, 1, g.Cell(0, 0).WordNumber)
	assert.Equal(t, 2, g.Cell(0, 2).WordNumber)
	assert.Equal(t, 0, g.Cell(0, 1).WordNumber)
}

func TestClickCell_SelectionAndToggle(t *testing.T) {
	g := New(testSpec())

	// Blocked cell: no-op.
	g.ClickCell(4, 0)
	_, _, ok := g.ActiveCell()
	assert.False(t, ok)

	// Cell outside any word: no-op.
	g.ClickCell(2, 3)
	_, _, ok = g.ActiveCell()
	assert.False(t, ok)

	// First click prefers across.
	g.ClickCell(0, 2)
	word, ok := g.ActiveWord()
	require.True(t, ok)
	assert.Equal(t, models.Across, word.Direction)
	assert.True(t, g.Cell(0, 0).Highlighted)
	assert.True(t, g.Cell(0, 2).Active)

	// Clicking the same crossing cell toggles to down.
	g.ClickCell(0, 2)
	word, ok = g.ActiveWord()
	require.True(t, ok)
	assert.Equal(t, models.Down, word.Direction)
	assert.True(t, g.Cell(2, 2).Highlighted)

	// A cell only covered down selects the down word.
	g.ClickCell(3, 2)
	word, ok = g.ActiveWord()
	require.True(t, ok)
	assert.Equal(t, "VOTE", word.Word)
}

func TestTypeLetter_AdvanceWithoutWrap(t *testing.T) {
	g := New(testSpec())
	g.ClickClue(2, models.Down)

	for _, ch := range "VOTE" {
		g.TypeLetter(ch)
	}

	assert.Equal(t, "V", g.Cell(0, 2).Letter)
	assert.Equal(t, "E", g.Cell(3, 2).Letter)

	// Cursor stays on the last cell; typing again overwrites in place.
	row, col, ok := g.ActiveCell()
	require.True(t, ok)
	assert.Equal(t, 3, row)
	assert.Equal(t, 2, col)
	g.TypeLetter('x')
	assert.Equal(t, "X", g.Cell(3, 2).Letter)
}

func TestBackspace(t *testing.T) {
	g := New(testSpec())
	g.ClickClue(1, models.Across)
	g.TypeLetter('c')
	g.TypeLetter('i')

	// Active cell (0,2) is empty: step back and clear (0,1).
	g.Backspace()
	assert.Equal(t, "", g.Cell(0, 1).Letter)
	row, col, _ := g.ActiveCell()
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, col)

	// Active cell now holds nothing; another backspace clears (0,0).
	g.Backspace()
	assert.Equal(t, "", g.Cell(0, 0).Letter)
}

func TestArrow(t *testing.T) {
	g := New(testSpec())
	g.ClickCell(0, 0)

	g.Arrow(HeadingRight)
	row, col, _ := g.ActiveCell()
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, col)

	// Down from (0,1) leaves every word: no-op.
	g.Arrow(HeadingDown)
	row, col, _ = g.ActiveCell()
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, col)

	// Right to the crossing, then down along VOTE.
	g.Arrow(HeadingRight)
	g.Arrow(HeadingDown)
	row, col, _ = g.ActiveCell()
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)
	word, _ := g.ActiveWord()
	assert.Equal(t, "VOTE", word.Word)
}

func TestIsCompleteAndSubmit_AllCorrect(t *testing.T) {
	g := New(testSpec())
	assert.False(t, g.IsComplete())

	_, err := g.Submit()
	assert.ErrorIs(t, err, ErrGridIncomplete)

	fillWord(g, 1, models.Across, "CIVIC")
	fillWord(g, 2, models.Down, "VOTE")
	assert.True(t, g.IsComplete())

	result, err := g.Submit()
	require.NoError(t, err)
	assert.Equal(t, 2, result.CorrectWords)
	assert.Equal(t, 2, result.TotalWords)
	assert.Equal(t, 100, result.Percent)

	correct := g.Cell(0, 0).Correct
	require.NotNil(t, correct)
	assert.True(t, *correct)
}

func TestSubmit_WordIsAllOrNothing(t *testing.T) {
	spec := &models.CrosswordSpec{
		Rows:   1,
		Cols:   5,
		Layout: []string{"....."},
		Words: []models.CrosswordWord{
			{Number: 1, Clue: "Count of senators per state", Word: "RIGHT", Direction: models.Across, Row: 0, Col: 0},
		},
	}
	g := New(spec)
	fillWord(g, 1, models.Across, "RIGHS")

	result, err := g.Submit()
	require.NoError(t, err)
	// Four of five letters match but the word scores zero.
	assert.Equal(t, 0, result.CorrectWords)
	assert.Equal(t, 1, result.TotalWords)
	assert.Equal(t, 0, result.Percent)

	badCell := g.Cell(0, 4).Correct
	require.NotNil(t, badCell)
	assert.False(t, *badCell)
	goodCell := g.Cell(0, 0).Correct
	require.NotNil(t, goodCell)
	assert.True(t, *goodCell)
}

func TestSubmit_CaseInsensitive(t *testing.T) {
	spec := &models.CrosswordSpec{
		Rows:   1,
		Cols:   3,
		Layout: []string{"..."},
		Words: []models.CrosswordWord{
			{Number: 1, Word: "law", Direction: models.Across, Row: 0, Col: 0},
		},
	}
	g := New(spec)
	fillWord(g, 1, models.Across, "LAW")

	result, err := g.Submit()
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectWords)
}

func TestReset_KeepsCursor(t *testing.T) {
	g := New(testSpec())
	fillWord(g, 1, models.Across, "CIVIC")
	fillWord(g, 2, models.Down, "VOTE")
	_, err := g.Submit()
	require.NoError(t, err)

	g.Reset()

	assert.Equal(t, "", g.Cell(0, 0).Letter)
	assert.Nil(t, g.Cell(0, 0).Correct)
	// Cursor position survives the reset.
	_, _, ok := g.ActiveCell()
	assert.True(t, ok)
}
