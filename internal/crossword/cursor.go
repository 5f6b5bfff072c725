package crossword

import (
	"strings"
	"unicode"

	"github.com/civicprep/quiz-engine/internal/models"
)

// Heading is a compass direction for arrow-key navigation, distinct from a
// word's reading direction.
type Heading string

const (
	HeadingUp    Heading = "up"
	HeadingDown  Heading = "down"
	HeadingLeft  Heading = "left"
	HeadingRight Heading = "right"
)

// ActiveWord returns the currently targeted word, if any.
func (g *Grid) ActiveWord() (models.CrosswordWord, bool) {
	if !g.active {
		return models.CrosswordWord{}, false
	}
	if i, ok := g.wordAt(g.activePos.row, g.activePos.col, g.activeDir); ok {
		return g.words[i], true
	}
	return models.CrosswordWord{}, false
}

// ActiveCell returns the cursor position, if set.
func (g *Grid) ActiveCell() (row, col int, ok bool) {
	if !g.active {
		return 0, 0, false
	}
	return g.activePos.row, g.activePos.col, true
}

// ClickCell moves the cursor to a cell. Blocked cells and cells outside
// every word are ignored. Clicking the already-active cell toggles between
// across and down when the cell belongs to both.
func (g *Grid) ClickCell(row, col int) {
	if !g.inBounds(row, col) || g.cells[row][col].Blocked || len(g.wordsAt(row, col)) == 0 {
		return
	}

	pos := position{row, col}
	if g.active && g.activePos == pos && g.belongsToBoth(row, col) {
		g.activeDir = oppositeDirection(g.activeDir)
		g.refreshHighlight()
		return
	}

	g.activePos = pos
	g.activeDir = g.pickDirection(row, col)
	g.active = true
	g.refreshHighlight()
}

// ClickClue jumps the cursor to a word's first cell with the direction set
// explicitly. Unknown clue numbers are ignored.
func (g *Grid) ClickClue(number int, dir models.WordDirection) {
	for _, w := range g.words {
		if w.Number == number && w.Direction == dir {
			g.activePos = position{w.Row, w.Col}
			g.activeDir = dir
			g.active = true
			g.refreshHighlight()
			return
		}
	}
}

// TypeLetter writes an uppercase letter into the active cell and advances
// the cursor along the active word. The cursor never wraps to another word.
func (g *Grid) TypeLetter(ch rune) {
	if !g.active || !unicode.IsLetter(ch) {
		return
	}

	g.cells[g.activePos.row][g.activePos.col].Letter = strings.ToUpper(string(ch))

	if next, ok := g.neighborInActiveWord(1); ok {
		g.activePos = next
	}
	g.refreshHighlight()
}

// Backspace clears the active cell, or steps back along the active word and
// clears that cell when the active one is already empty.
func (g *Grid) Backspace() {
	if !g.active {
		return
	}

	cell := &g.cells[g.activePos.row][g.activePos.col]
	if cell.Letter != "" {
		cell.Letter = ""
		g.refreshHighlight()
		return
	}

	if prev, ok := g.neighborInActiveWord(-1); ok {
		g.activePos = prev
		g.cells[prev.row][prev.col].Letter = ""
	}
	g.refreshHighlight()
}

// Arrow moves the cursor one cell in a compass direction when that neighbor
// belongs to some word; otherwise it is a no-op.
func (g *Grid) Arrow(h Heading) {
	if !g.active {
		return
	}

	next := g.activePos
	switch h {
	case HeadingUp:
		next.row--
	case HeadingDown:
		next.row++
	case HeadingLeft:
		next.col--
	case HeadingRight:
		next.col++
	}

	if !g.inBounds(next.row, next.col) || len(g.wordsAt(next.row, next.col)) == 0 {
		return
	}

	g.activePos = next
	g.activeDir = g.pickDirection(next.row, next.col)
	g.refreshHighlight()
}

// pickDirection prefers continuing the current direction when the cell
// belongs to a word that way, then across, then down.
func (g *Grid) pickDirection(row, col int) models.WordDirection {
	if g.active {
		if _, ok := g.wordAt(row, col, g.activeDir); ok {
			return g.activeDir
		}
	}
	if _, ok := g.wordAt(row, col, models.Across); ok {
		return models.Across
	}
	return models.Down
}

func (g *Grid) belongsToBoth(row, col int) bool {
	_, across := g.wordAt(row, col, models.Across)
	_, down := g.wordAt(row, col, models.Down)
	return across && down
}

// neighborInActiveWord returns the cell offset steps along the active word
// from the cursor, when it exists.
func (g *Grid) neighborInActiveWord(offset int) (position, bool) {
	i, ok := g.wordAt(g.activePos.row, g.activePos.col, g.activeDir)
	if !ok {
		return position{}, false
	}
	cells := g.wordCells(g.words[i])
	for idx, pos := range cells {
		if pos == g.activePos {
			target := idx + offset
			if target >= 0 && target < len(cells) {
				return cells[target], true
			}
			return position{}, false
		}
	}
	return position{}, false
}

// refreshHighlight recomputes the presentation flags from the cursor. It
// carries no grading semantics and is never persisted.
func (g *Grid) refreshHighlight() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c].Highlighted = false
			g.cells[r][c].Active = false
		}
	}
	if !g.active {
		return
	}

	if i, ok := g.wordAt(g.activePos.row, g.activePos.col, g.activeDir); ok {
		for _, pos := range g.wordCells(g.words[i]) {
			g.cells[pos.row][pos.col].Highlighted = true
		}
	}
	g.cells[g.activePos.row][g.activePos.col].Active = true
}

func oppositeDirection(dir models.WordDirection) models.WordDirection {
	if dir == models.Across {
		return models.Down
	}
	return models.Across
}
