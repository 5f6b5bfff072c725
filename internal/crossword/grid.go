// Package crossword implements the in-memory grid engine for crossword
// questions: cell state, cursor and active-word tracking, and the
// all-or-nothing per-word submission score.
//
// The grid is an owned value: every operation mutates it through the
// receiver and recomputes the derived highlighting, so callers never touch
// cell state directly.
package crossword

import (
	"errors"
	"strings"

	"github.com/civicprep/quiz-engine/internal/models"
)

var ErrGridIncomplete = errors.New("crossword grid is not completely filled")

// Cell is the mutable state of one grid square. Highlighted and Active are
// presentation-only, derived from the cursor after every operation.
type Cell struct {
	Letter      string `json:"letter"`
	Blocked     bool   `json:"is_blocked"`
	WordNumber  int    `json:"word_number,omitempty"`
	Highlighted bool   `json:"is_highlighted"`
	Active      bool   `json:"is_active"`
	Correct     *bool  `json:"is_correct,omitempty"`
}

// SubmitResult is the outcome of grading a completed grid. A word counts as
// correct only when every one of its cells matched; Percent aggregates whole
// words, never letters.
type SubmitResult struct {
	CorrectWords int `json:"correct_words"`
	TotalWords   int `json:"total_words"`
	Percent      int `json:"percent"`
}

type position struct {
	row, col int
}

// Grid holds the full crossword state for one question.
type Grid struct {
	rows  int
	cols  int
	cells [][]Cell
	words []models.CrosswordWord

	// membership[pos] lists indexes into words covering that cell.
	membership map[position][]int

	active    bool
	activePos position
	activeDir models.WordDirection
}

// New builds a grid from a spec. Word placement outside the grid or across
// blocked cells is a caller error; out-of-range cells are ignored rather
// than validated.
func New(spec *models.CrosswordSpec) *Grid {
	g := &Grid{
		rows:       spec.Rows,
		cols:       spec.Cols,
		words:      append([]models.CrosswordWord(nil), spec.Words...),
		membership: make(map[position][]int),
	}

	g.cells = make([][]Cell, spec.Rows)
	for r := range g.cells {
		g.cells[r] = make([]Cell, spec.Cols)
		if r < len(spec.Layout) {
			for c, ch := range spec.Layout[r] {
				if c < spec.Cols && ch == '#' {
					g.cells[r][c].Blocked = true
				}
			}
		}
	}

	for i, w := range g.words {
		for _, pos := range g.wordCells(w) {
			g.membership[pos] = append(g.membership[pos], i)
		}
		if g.inBounds(w.Row, w.Col) && g.cells[w.Row][w.Col].WordNumber == 0 {
			g.cells[w.Row][w.Col].WordNumber = w.Number
		}
	}

	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Cell returns a copy of the cell state at the given coordinates.
func (g *Grid) Cell(row, col int) Cell {
	if !g.inBounds(row, col) {
		return Cell{Blocked: true}
	}
	return g.cells[row][col]
}

// Words returns the registered word list.
func (g *Grid) Words() []models.CrosswordWord {
	return append([]models.CrosswordWord(nil), g.words...)
}

// IsComplete reports whether every cell of every registered word holds a
// letter.
func (g *Grid) IsComplete() bool {
	for _, w := range g.words {
		for _, pos := range g.wordCells(w) {
			if g.cells[pos.row][pos.col].Letter == "" {
				return false
			}
		}
	}
	return true
}

// Submit grades the filled grid against the spec's words, case-insensitive.
// It marks each cell's Correct flag and scores whole words all-or-nothing.
// Calling it on an incomplete grid returns ErrGridIncomplete.
func (g *Grid) Submit() (SubmitResult, error) {
	if !g.IsComplete() {
		return SubmitResult{}, ErrGridIncomplete
	}

	result := SubmitResult{TotalWords: len(g.words)}
	for _, w := range g.words {
		target := []rune(strings.ToUpper(w.Word))
		wordCorrect := true
		for i, pos := range g.wordCells(w) {
			cell := &g.cells[pos.row][pos.col]
			match := i < len(target) && strings.ToUpper(cell.Letter) == string(target[i])
			if cell.Correct == nil || *cell.Correct {
				// A cell shared by two words stays wrong if either word
				// missed it.
				correct := match
				cell.Correct = &correct
			}
			if !match {
				wordCorrect = false
			}
		}
		if wordCorrect {
			result.CorrectWords++
		}
	}

	if result.TotalWords > 0 {
		result.Percent = int(float64(result.CorrectWords)/float64(result.TotalWords)*100 + 0.5)
	}
	return result, nil
}

// Reset clears all letters and correctness flags. The cursor and active word
// are left where they were.
func (g *Grid) Reset() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c].Letter = ""
			g.cells[r][c].Correct = nil
		}
	}
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// wordCells lists the in-bounds cells a word occupies, in order.
func (g *Grid) wordCells(w models.CrosswordWord) []position {
	cells := make([]position, 0, len([]rune(w.Word)))
	for i := range []rune(w.Word) {
		pos := position{w.Row, w.Col}
		if w.Direction == models.Across {
			pos.col += i
		} else {
			pos.row += i
		}
		if !g.inBounds(pos.row, pos.col) || g.cells[pos.row][pos.col].Blocked {
			continue
		}
		cells = append(cells, pos)
	}
	return cells
}

// wordsAt returns the indexes of words covering a cell.
func (g *Grid) wordsAt(row, col int) []int {
	return g.membership[position{row, col}]
}

// wordAt finds the word covering a cell in the given direction.
func (g *Grid) wordAt(row, col int, dir models.WordDirection) (int, bool) {
	for _, i := range g.wordsAt(row, col) {
		if g.words[i].Direction == dir {
			return i, true
		}
	}
	return 0, false
}
